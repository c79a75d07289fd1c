package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/bulletinmirror/internal/client/api"
	"github.com/iudanet/bulletinmirror/internal/crypto"
	"github.com/iudanet/bulletinmirror/internal/jwt"
	"github.com/iudanet/bulletinmirror/internal/mirror"
	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/server"
	"github.com/iudanet/bulletinmirror/internal/server/handlers"
	"github.com/iudanet/bulletinmirror/internal/server/storage/boltdb"
	"github.com/iudanet/bulletinmirror/internal/server/storage/sqlite"
	"github.com/iudanet/bulletinmirror/internal/supplier"
)

func (c *Cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the mirroring API and pull from configured peers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.runServe(ctx)
		},
	}
}

func (c *Cli) runServe(ctx context.Context) error {
	signer, err := c.loadSigner()
	if err != nil {
		return err
	}

	bulletins, err := c.openBulletins(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := bulletins.Close(); err != nil {
			c.logger.Error("Failed to close bulletin store", "error", err)
		}
	}()

	registry, err := c.openRegistry(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := registry.Close(); err != nil {
			c.logger.Error("Failed to close peer registry", "error", err)
		}
	}()

	if err := c.syncPeers(ctx, registry); err != nil {
		return fmt.Errorf("failed to sync configured peers: %w", err)
	}

	scheduler, err := c.buildScheduler(ctx, signer, bulletins, registry)
	if err != nil {
		return err
	}

	service := supplier.NewService(bulletins, registry, signer, c.cfg.Mirror.MaxChunkSize, c.logger)
	mirrorHandler := handlers.NewMirrorHandler(c.logger, service, c.cfg.Mirror.LegacyOnly)
	healthHandler := handlers.NewHealthHandler(c.logger, c.info.Version, signer.PublicCode(), bulletins, scheduler)

	srv := server.New(server.Options{
		Addr:           c.cfg.ListenAddr,
		Verify:         jwt.Verify,
		RateLimit:      c.cfg.RateLimit,
		HandlerTimeout: c.cfg.Mirror.RequestTimeout,
	}, mirrorHandler, healthHandler, c.logger)

	ln, err := c.listen("tcp", c.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.cfg.ListenAddr, err)
	}

	c.logger.Info("Bulletin mirror started",
		"version", c.info.Version,
		"server", signer.PublicCode(),
		"addr", ln.Addr().String(),
		"legacy_only", c.cfg.Mirror.LegacyOnly,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, ln)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	c.logger.Info("Bulletin mirror stopped")
	return nil
}

// buildScheduler создаёт движок зеркалирования для каждого пира, у которого мы забираем данные
func (c *Cli) buildScheduler(
	ctx context.Context,
	signer *crypto.Signer,
	bulletins *boltdb.Storage,
	registry *sqlite.Storage,
) (*mirror.Scheduler, error) {
	scheduler := mirror.NewScheduler(c.cfg.Mirror.Interval, c.cfg.Mirror.MaxConcurrent, c.logger)

	peers, err := registry.ListPeers(ctx, models.DirectionOutbound)
	if err != nil {
		return nil, err
	}

	tokens := jwt.NewIssuer(signer, jwt.DefaultTTL)
	for _, peer := range peers {
		gateway := api.NewClient(peer.Address, tokens, c.cfg.Mirror.RequestTimeout, c.logger)
		engine, err := mirror.NewEngine(mirror.Config{
			PeerID:         peer.ID,
			PeerPublicKey:  peer.PublicKey,
			TempDir:        filepath.Join(c.cfg.TempDir(), peer.ID),
			InactiveSleep:  c.cfg.Mirror.InactiveSleep,
			RequestTimeout: c.cfg.Mirror.RequestTimeout,
			MaxChunkSize:   c.cfg.Mirror.MaxChunkSize,
		}, gateway, bulletins, registry, c.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create engine for peer %s: %w", peer.ID, err)
		}
		scheduler.Add(engine)
		c.logger.Info("Mirroring from peer", "peer", peer.ID, "address", peer.Address)
	}
	return scheduler, nil
}
