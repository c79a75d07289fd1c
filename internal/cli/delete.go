package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/bulletinmirror/internal/models"
)

func (c *Cli) deleteDraftCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-draft <account> <local-id>",
		Short: "Delete a draft and keep a delete request so older copies are not mirrored back",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDeleteDraft(cmd.Context(), models.NewUniversalID(args[0], args[1]))
		},
	}
}

func (c *Cli) runDeleteDraft(ctx context.Context, uid models.UniversalID) error {
	if err := uid.Validate(); err != nil {
		return err
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

	// запрос должен быть не раньше изменения удаляемой копии
	local, err := store.LocalView(ctx, uid)
	if err != nil {
		return err
	}
	c.clock.Observe(local.ModifiedMillis)
	ts := c.clock.Tick()

	original := fmt.Sprintf("delete draft %s %d", uid.LocalID, ts)
	req := models.NewDeleteRequest(uid.AccountID, original, signer.Sign([]byte(original)), ts)
	if err := store.DeleteDraft(ctx, uid, req); err != nil {
		return err
	}

	c.logger.Info("Draft deleted",
		"account", models.PublicCode(uid.AccountID),
		"local_id", uid.LocalID,
		"had_copy", local.HasRecord(),
	)
	c.io.Printf("Deleted draft %s/%s\n", models.PublicCode(uid.AccountID), uid.LocalID)
	return nil
}
