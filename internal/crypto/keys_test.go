package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheapKDF keeps the tests fast
var cheapKDF = KDFParams{Time: 1, MemoryKB: 64, Threads: 1}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)

	assert.Len(t, a, SaltSize)
	assert.False(t, bytes.Equal(a, b))
}

func TestDeriveSealingKey_Inputs(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, SaltSize)

	tests := []struct {
		name       string
		passphrase string
		salt       []byte
		params     KDFParams
		errText    string
	}{
		{name: "default cost", passphrase: "operator passphrase", salt: salt, params: DefaultKDF},
		{name: "cheap cost", passphrase: "operator passphrase", salt: salt, params: cheapKDF},
		{name: "empty passphrase", salt: salt, params: cheapKDF, errText: "empty passphrase"},
		{name: "truncated salt", passphrase: "pw", salt: salt[:8], params: cheapKDF, errText: "salt is 8 bytes"},
		{name: "zero time", passphrase: "pw", salt: salt, params: KDFParams{MemoryKB: 64, Threads: 1}, errText: "argon2id"},
		{name: "too little memory", passphrase: "pw", salt: salt, params: KDFParams{Time: 1, MemoryKB: 8, Threads: 4}, errText: "argon2id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveSealingKey([]byte(tt.passphrase), tt.salt, tt.params)
			if tt.errText != "" {
				assert.ErrorContains(t, err, tt.errText)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, SealingKeyLen)
		})
	}
}

func TestDeriveSealingKey_DependsOnEveryInput(t *testing.T) {
	salt := bytes.Repeat([]byte{1}, SaltSize)
	otherSalt := bytes.Repeat([]byte{2}, SaltSize)

	derive := func(pw string, s []byte, p KDFParams) []byte {
		k, err := DeriveSealingKey([]byte(pw), s, p)
		require.NoError(t, err)
		return k
	}

	base := derive("pw", salt, cheapKDF)
	assert.Equal(t, base, derive("pw", salt, cheapKDF))
	assert.NotEqual(t, base, derive("pw2", salt, cheapKDF))
	assert.NotEqual(t, base, derive("pw", otherSalt, cheapKDF))
	assert.NotEqual(t, base, derive("pw", salt, KDFParams{Time: 2, MemoryKB: 64, Threads: 1}))
}
