package cli

import (
	"github.com/spf13/cobra"
)

func (c *Cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// конфигурация для версии не нужна
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(*cobra.Command, []string) {
			c.io.Printf("Bulletin Mirror\n")
			c.io.Printf("Version:    %s\n", c.info.Version)
			c.io.Printf("Build Date: %s\n", c.info.BuildDate)
			c.io.Printf("Git Commit: %s\n", c.info.GitCommit)
		},
	}
}
