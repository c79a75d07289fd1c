package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/storage"
)

func TestPeerStorage_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	peer := &models.Peer{
		ID:        "mirror1",
		Address:   "https://mirror1:8443",
		PublicKey: "pk-1",
		Direction: models.DirectionOutbound,
	}
	require.NoError(t, s.UpsertPeer(ctx, peer))

	got, err := s.GetPeer(ctx, "mirror1")
	require.NoError(t, err)
	assert.Equal(t, peer.Address, got.Address)
	assert.Equal(t, peer.PublicKey, got.PublicKey)
	assert.Equal(t, models.DirectionOutbound, got.Direction)
	assert.False(t, got.CreatedAt.IsZero())

	// обновление сохраняет created_at
	created := got.CreatedAt
	update := &models.Peer{
		ID:        "mirror1",
		Address:   "https://mirror1:9443",
		PublicKey: "pk-2",
		Direction: models.DirectionBoth,
	}
	require.NoError(t, s.UpsertPeer(ctx, update))

	got, err = s.GetPeer(ctx, "mirror1")
	require.NoError(t, err)
	assert.Equal(t, "https://mirror1:9443", got.Address)
	assert.Equal(t, "pk-2", got.PublicKey)
	assert.Equal(t, models.DirectionBoth, got.Direction)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestPeerStorage_UpsertValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	tests := []struct {
		peer *models.Peer
		name string
	}{
		{name: "nil", peer: nil},
		{name: "empty id", peer: &models.Peer{PublicKey: "pk", Direction: models.DirectionInbound}},
		{name: "no public key", peer: &models.Peer{ID: "p", Direction: models.DirectionInbound}},
		{name: "bad direction", peer: &models.Peer{ID: "p", PublicKey: "pk", Direction: "sideways"}},
		{name: "outbound without address", peer: &models.Peer{ID: "p", PublicKey: "pk", Direction: models.DirectionOutbound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.UpsertPeer(ctx, tt.peer), storage.ErrInvalidPeer)
		})
	}
}

func TestPeerStorage_GetNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetPeer(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrPeerNotFound)
}

func TestPeerStorage_ListAndAuthorize(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	peers := []*models.Peer{
		{ID: "a-out", Address: "http://a", PublicKey: "pk-out", Direction: models.DirectionOutbound},
		{ID: "b-in", PublicKey: "pk-in", Direction: models.DirectionInbound},
		{ID: "c-both", Address: "http://c", PublicKey: "pk-both", Direction: models.DirectionBoth},
	}
	for _, p := range peers {
		require.NoError(t, s.UpsertPeer(ctx, p))
	}

	ids := func(list []*models.Peer) []string {
		out := make([]string, 0, len(list))
		for _, p := range list {
			out = append(out, p.ID)
		}
		return out
	}

	all, err := s.ListPeers(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-out", "b-in", "c-both"}, ids(all))

	outbound, err := s.ListPeers(ctx, models.DirectionOutbound)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-out", "c-both"}, ids(outbound))

	inbound, err := s.ListPeers(ctx, models.DirectionInbound)
	require.NoError(t, err)
	assert.Equal(t, []string{"b-in", "c-both"}, ids(inbound))

	tests := []struct {
		key  string
		want bool
	}{
		{key: "pk-in", want: true},
		{key: "pk-both", want: true},
		{key: "pk-out", want: false},
		{key: "unknown", want: false},
		{key: "", want: false},
	}
	for _, tt := range tests {
		ok, err := s.IsAuthorizedCaller(ctx, tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "caller %q", tt.key)
	}
}

func TestPeerStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.UpsertPeer(ctx, &models.Peer{ID: "p", PublicKey: "pk", Direction: models.DirectionInbound}))
	require.NoError(t, s.DeletePeer(ctx, "p"))

	_, err := s.GetPeer(ctx, "p")
	assert.ErrorIs(t, err, storage.ErrPeerNotFound)
	assert.ErrorIs(t, s.DeletePeer(ctx, "p"), storage.ErrPeerNotFound)
}
