package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/bulletinmirror/internal/models"
)

func (c *Cli) peersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peers",
		Short: "Inspect the peer registry",
	}

	var limit int
	journal := &cobra.Command{
		Use:   "journal <peer-id>",
		Short: "Show recent bulletins pulled from a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPeersJournal(cmd.Context(), args[0], limit)
		},
	}
	journal.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List registered peers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.runPeersList(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "sync",
			Short: "Write configured peers into the registry",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.runPeersSync(cmd.Context())
			},
		},
		journal,
	)
	return cmd
}

func (c *Cli) runPeersList(ctx context.Context) error {
	registry, err := c.openRegistry(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	peers, err := registry.ListPeers(ctx, "")
	if err != nil {
		return err
	}
	if len(peers) == 0 {
		c.io.Println("No peers registered.")
		return nil
	}

	tw := tabwriter.NewWriter(c.io, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDIRECTION\tADDRESS\tKEY")
	for _, p := range peers {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Direction, orDash(p.Address), models.PublicCode(p.PublicKey))
	}
	return tw.Flush()
}

func (c *Cli) runPeersSync(ctx context.Context) error {
	registry, err := c.openRegistry(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	if err := c.syncPeers(ctx, registry); err != nil {
		return err
	}
	c.io.Printf("%d peer(s) configured\n", len(c.cfg.Peers))
	return nil
}

func (c *Cli) runPeersJournal(ctx context.Context, peerID string, limit int) error {
	registry, err := c.openRegistry(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	if _, err := registry.GetPeer(ctx, peerID); err != nil {
		return err
	}
	records, err := registry.ListPulls(ctx, peerID, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		c.io.Printf("Nothing pulled from %s yet.\n", peerID)
		return nil
	}

	tw := tabwriter.NewWriter(c.io, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PULLED AT\tACCOUNT\tLOCAL ID\tSTATUS\tSIZE")
	for _, r := range records {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			r.PulledAt.Local().Format(time.DateTime),
			models.PublicCode(r.UID.AccountID),
			r.UID.LocalID,
			r.Status,
			r.Size,
		)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
