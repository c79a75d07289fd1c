package crypto

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFile_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "server.key")

	signer, err := GenerateSigner()
	require.NoError(t, err)

	require.NoError(t, SaveKeyFile(path, signer, []byte("passphrase")))

	loaded, err := LoadKeyFile(path, []byte("passphrase"))
	require.NoError(t, err)
	assert.Equal(t, signer.PublicKeyString(), loaded.PublicKeyString())
	assert.Equal(t, signer.Sign([]byte("m")), loaded.Sign([]byte("m")))

	pub, err := ReadPublicKey(path)
	require.NoError(t, err)
	assert.Equal(t, signer.PublicKeyString(), pub)
}

func TestKeyFile_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.key")

	signer, err := GenerateSigner()
	require.NoError(t, err)
	require.NoError(t, SaveKeyFile(path, signer, []byte("right")))

	_, err = LoadKeyFile(path, []byte("wrong"))
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestKeyFile_NoOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.key")

	s1, err := GenerateSigner()
	require.NoError(t, err)
	require.NoError(t, SaveKeyFile(path, s1, []byte("pw")))

	s2, err := GenerateSigner()
	require.NoError(t, err)
	assert.ErrorIs(t, SaveKeyFile(path, s2, []byte("pw")), ErrKeyFileExists)
}

func TestLoadKeyFile_Missing(t *testing.T) {
	_, err := LoadKeyFile(filepath.Join(t.TempDir(), "absent"), []byte("pw"))
	assert.Error(t, err)
}

func TestKeyFile_StoredKDFParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.key")
	signer, err := GenerateSigner()
	require.NoError(t, err)

	require.NoError(t, saveKeyFile(path, signer, []byte("pw"), cheapKDF))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var kf keyFile
	require.NoError(t, json.Unmarshal(data, &kf))
	assert.Equal(t, cheapKDF, kf.KDF)

	// файл открывается по сохранённым параметрам, а не по DefaultKDF
	loaded, err := LoadKeyFile(path, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, signer.PublicKeyString(), loaded.PublicKeyString())
}

func TestKeyFile_SwappedPublicKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.key")
	signer, err := GenerateSigner()
	require.NoError(t, err)
	other, err := GenerateSigner()
	require.NoError(t, err)
	require.NoError(t, saveKeyFile(path, signer, []byte("pw"), cheapKDF))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var kf keyFile
	require.NoError(t, json.Unmarshal(data, &kf))
	kf.PublicKey = other.PublicKeyString()
	data, err = json.Marshal(kf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = LoadKeyFile(path, []byte("pw"))
	assert.ErrorIs(t, err, ErrDecrypt, "public key is bound as additional data")
}
