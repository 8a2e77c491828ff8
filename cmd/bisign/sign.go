package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	bisign "github.com/arma-tools/bisign-go/pkg/bisign"
	"github.com/arma-tools/bisign-go/pkg/bisign/blob"
	"github.com/arma-tools/bisign-go/pkg/logging"
	"github.com/arma-tools/bisign-go/pkg/pbo"
)

func newSignCmd() *cobra.Command {
	var out string
	var versionFlag int

	cmd := &cobra.Command{
		Use:   "sign <private-key> <file.pbo>",
		Short: "Sign a PBO with a private key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			privPath, pboPath := args[0], args[1]
			logger := logging.NewLogger("bisign-sign", effectiveLogLevel(), os.Stderr)

			version, err := blob.VersionFromUint32(uint32(versionFlag))
			if err != nil {
				return err
			}

			privFile, err := os.Open(privPath)
			if err != nil {
				return fmt.Errorf("opening private key: %w", err)
			}
			defer privFile.Close()

			priv, err := blob.ReadPrivateKey(privFile)
			if err != nil {
				return fmt.Errorf("reading private key: %w", err)
			}

			archive, err := pbo.ReadFile(pboPath)
			if err != nil {
				return fmt.Errorf("reading PBO: %w", err)
			}

			sig, err := bisign.SignWithLogger(archive, priv, version, logger)
			if err != nil {
				return fmt.Errorf("signing: %w", err)
			}

			if out == "" {
				out = defaultSignaturePath(pboPath, priv.Name)
			}
			if err := writeBlobFile(out, sig.Write); err != nil {
				return fmt.Errorf("writing signature: %w", err)
			}

			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path for the signature (default: <pbo>.<authority>.bisign)")
	cmd.Flags().IntVarP(&versionFlag, "version", "v", 3, "BISign version (2 or 3)")

	return cmd
}
