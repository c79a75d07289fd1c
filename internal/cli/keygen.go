package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/bulletinmirror/internal/crypto"
)

func (c *Cli) keygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate the server key pair",
		Long: "Generate a new ed25519 server key. The private key is sealed with a passphrase;\n" +
			"the public key printed at the end is what peers put into their configuration.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runKeygen()
		},
	}
}

func (c *Cli) runKeygen() error {
	c.io.Println("=== Generate Server Key ===")
	c.io.Println()

	passphrase, err := c.getPassphrase(true)
	if err != nil {
		return err
	}

	signer, err := crypto.GenerateSigner()
	if err != nil {
		return err
	}
	if err := crypto.SaveKeyFile(c.cfg.KeyFile, signer, []byte(passphrase)); err != nil {
		return err
	}

	c.logger.Info("Server key generated", "key_file", c.cfg.KeyFile, "public_code", signer.PublicCode())

	c.io.Printf("Key file:    %s\n", c.cfg.KeyFile)
	c.io.Printf("Public key:  %s\n", signer.PublicKeyString())
	c.io.Printf("Public code: %s\n", signer.PublicCode())
	return nil
}
