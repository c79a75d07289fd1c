package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iudanet/bulletinmirror/internal/crypto"
	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server/storage"
	"github.com/iudanet/bulletinmirror/internal/server/storage/boltdb"
	"github.com/iudanet/bulletinmirror/internal/server/storage/sqlite"
)

func (c *Cli) openBulletins(ctx context.Context) (*boltdb.Storage, error) {
	if err := os.MkdirAll(filepath.Dir(c.cfg.BoltPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	store, err := boltdb.New(ctx, c.cfg.BoltPath, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open bulletin store: %w", err)
	}
	return store, nil
}

func (c *Cli) openRegistry(ctx context.Context) (*sqlite.Storage, error) {
	if err := os.MkdirAll(filepath.Dir(c.cfg.SQLitePath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	registry, err := sqlite.New(ctx, c.cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open peer registry: %w", err)
	}
	return registry, nil
}

func (c *Cli) loadSigner() (*crypto.Signer, error) {
	passphrase, err := c.getPassphrase(false)
	if err != nil {
		return nil, err
	}
	signer, err := crypto.LoadKeyFile(c.cfg.KeyFile, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to load server key (run 'bulletinmirror keygen' first?): %w", err)
	}
	return signer, nil
}

// syncPeers приводит реестр в соответствие с конфигурацией: настроенные пиры
// создаются или обновляются, отсутствующие в конфигурации удаляются.
func (c *Cli) syncPeers(ctx context.Context, registry *sqlite.Storage) error {
	configured := make(map[string]bool, len(c.cfg.Peers))
	for _, pc := range c.cfg.Peers {
		peer, err := pc.ToPeer()
		if err != nil {
			return err
		}
		if err := registry.UpsertPeer(ctx, peer); err != nil {
			return err
		}
		configured[peer.ID] = true
	}

	existing, err := registry.ListPeers(ctx, "")
	if err != nil {
		return err
	}
	for _, peer := range existing {
		if configured[peer.ID] {
			continue
		}
		if err := registry.DeletePeer(ctx, peer.ID); err != nil && !errors.Is(err, storage.ErrPeerNotFound) {
			return err
		}
		c.logger.Info("Peer removed from registry", "peer", peer.ID, "key", models.PublicCode(peer.PublicKey))
	}
	return nil
}
