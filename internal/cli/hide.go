package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/bulletinmirror/internal/models"
)

func (c *Cli) hideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <account> <local-id>",
		Short: "Stop offering a bulletin to peers and refuse to store it again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHide(cmd.Context(), models.NewUniversalID(args[0], args[1]))
		},
	}
}

func (c *Cli) runHide(ctx context.Context, uid models.UniversalID) error {
	if err := uid.Validate(); err != nil {
		return err
	}

	store, err := c.openBulletins(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Hide(ctx, uid); err != nil {
		return err
	}

	c.logger.Info("Bulletin hidden", "account", models.PublicCode(uid.AccountID), "local_id", uid.LocalID)
	c.io.Printf("Hidden %s/%s\n", models.PublicCode(uid.AccountID), uid.LocalID)
	return nil
}
