package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/bulletinmirror/internal/models"
)

func (c *Cli) importCommand() *cobra.Command {
	var sealed bool
	cmd := &cobra.Command{
		Use:   "import <account> <local-id> <file>",
		Short: "Store a bulletin payload as if uploaded to this server",
		Long: "Store a bulletin payload from file and issue an upload record signed by this\n" +
			"server. Drafts may be imported again; a sealed bulletin is final.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.StatusDraft
			if sealed {
				status = models.StatusSealed
			}
			return c.runImport(cmd.Context(), models.NewUniversalID(args[0], args[1]), status, args[2])
		},
	}
	cmd.Flags().BoolVar(&sealed, "sealed", false, "import as sealed (immutable) bulletin")
	return cmd
}

func (c *Cli) runImport(ctx context.Context, uid models.UniversalID, status models.RecordStatus, path string) error {
	if err := uid.Validate(); err != nil {
		return err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	signer, err := c.loadSigner()
	if err != nil {
		return err
	}

	store, err := c.openBulletins(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// новая версия черновика должна быть строго новее сохранённой, иначе пиры её не заберут
	local, err := store.LocalView(ctx, uid)
	if err != nil {
		return err
	}
	c.clock.Observe(local.ModifiedMillis)
	if local.Tombstone != nil {
		c.clock.Observe(local.Tombstone.TimestampMillis)
	}
	modified := c.clock.Tick()

	b := models.NewBulletin(uid, status, modified, payload)
	receipt := models.NewUploadRecord(uid, b.PayloadDigest, time.Now().UnixMilli(), signer.Sign)

	if err := store.SaveUploaded(ctx, b, payload, receipt); err != nil {
		return err
	}

	c.logger.Info("Bulletin imported",
		"account", models.PublicCode(uid.AccountID),
		"local_id", uid.LocalID,
		"status", status.String(),
		"size", b.PayloadSize,
	)
	c.io.Printf("Imported %s/%s (%s, %d bytes)\n", models.PublicCode(uid.AccountID), uid.LocalID, status, b.PayloadSize)
	return nil
}
