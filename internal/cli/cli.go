// Package cli implements the bulletinmirror administration commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/bulletinmirror/internal/clock"
	"github.com/iudanet/bulletinmirror/internal/config"
	"github.com/iudanet/bulletinmirror/internal/iocli"
	"github.com/iudanet/bulletinmirror/internal/logging"
	"github.com/iudanet/bulletinmirror/internal/validation"
)

// PassphraseEnv переменная окружения с паролем ключа сервера
const PassphraseEnv = "BULLETINMIRROR_PASSPHRASE"

// BuildInfo заполняется через ldflags при сборке
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

type Cli struct {
	io        iocli.IO
	logger    *slog.Logger
	logCloser io.Closer
	clock     *clock.MillisClock
	// listen создаёт сокет HTTP сервера; в тестах подменяется
	listen         func(network, address string) (net.Listener, error)
	info           BuildInfo
	configPath     string
	passphraseFile string
	cfg            config.Config
}

func New(console iocli.IO, info BuildInfo) *Cli {
	c := &Cli{
		io:     console,
		info:   info,
		listen: net.Listen,
		clock:  clock.New(),
		logger: slog.New(slog.DiscardHandler),
	}
	c.cfg.LoadDefaults()
	return c
}

// Execute runs the command line args and releases the log file afterwards.
func (c *Cli) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(c.io)
	root.SetErr(c.io)

	err := root.ExecuteContext(ctx)
	if c.logCloser != nil {
		_ = c.logCloser.Close()
	}
	return err
}

// RootCommand builds the command tree.
func (c *Cli) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bulletinmirror",
		Short:         "Bulletin mirroring server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path to YAML config file")
	flags.StringVar(&c.passphraseFile, "passphrase-file", "", "file containing the server key passphrase")
	c.cfg.BindFlags(flags)

	root.AddCommand(
		c.serveCommand(),
		c.keygenCommand(),
		c.peersCommand(),
		c.hideCommand(),
		c.importCommand(),
		c.deleteDraftCommand(),
		c.versionCommand(),
	)
	return root
}

func (c *Cli) setup(cmd *cobra.Command) error {
	if err := config.Load(&c.cfg, c.configPath, cmd.Flags()); err != nil {
		return err
	}

	logger, closer, err := logging.New(c.cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	c.logger = logger
	c.logCloser = closer
	return nil
}

// getPassphrase retrieves the key passphrase with priority:
// 1. Environment variable BULLETINMIRROR_PASSPHRASE
// 2. File given by --passphrase-file
// 3. Interactive prompt (fallback), asked twice when confirm is set
func (c *Cli) getPassphrase(confirm bool) (string, error) {
	// Priority 1: Environment variable
	if env := os.Getenv(PassphraseEnv); env != "" {
		return env, validation.ValidatePassphrase(env)
	}

	// Priority 2: File
	if c.passphraseFile != "" {
		content, err := os.ReadFile(c.passphraseFile)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase file: %w", err)
		}
		// Убираем trailing newline/whitespace
		passphrase := strings.TrimSpace(string(content))
		return passphrase, validation.ValidatePassphrase(passphrase)
	}

	// Priority 3: Interactive prompt
	passphrase, err := c.io.ReadPassword("Key passphrase: ")
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	if err := validation.ValidatePassphrase(passphrase); err != nil {
		return "", err
	}
	if confirm {
		again, err := c.io.ReadPassword("Repeat passphrase: ")
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		if again != passphrase {
			return "", fmt.Errorf("passphrases do not match")
		}
	}
	return passphrase, nil
}
