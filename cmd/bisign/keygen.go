package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	bisign "github.com/arma-tools/bisign-go/pkg/bisign"
	"github.com/arma-tools/bisign-go/pkg/logging"
)

func newKeygenCmd() *cobra.Command {
	var bits int
	var outDir string

	cmd := &cobra.Command{
		Use:   "keygen <authority>",
		Short: "Generate a fresh RSA keypair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			logger := logging.NewLogger("bisign-keygen", effectiveLogLevel(), os.Stderr)

			priv, pub, err := bisign.GenerateKeyPair(name, bits)
			if err != nil {
				return fmt.Errorf("generating keypair: %w", err)
			}

			if outDir == "" {
				outDir = "."
			}

			privPath := filepath.Join(outDir, name+".biprivatekey")
			pubPath := filepath.Join(outDir, name+".bikey")

			if err := writeBlobFile(privPath, priv.Write); err != nil {
				return fmt.Errorf("writing private key: %w", err)
			}
			if err := writeBlobFile(pubPath, pub.Write); err != nil {
				return fmt.Errorf("writing public key: %w", err)
			}

			logger.Info("generated keypair", "authority", name, "bits", bits, "private", privPath, "public", pubPath)
			fmt.Printf("wrote %s and %s\n", privPath, pubPath)
			return nil
		},
	}

	cmd.Flags().IntVarP(&bits, "bits", "b", bisign.DefaultKeyBits, "Modulus bit length")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to current directory)")

	return cmd
}

func writeBlobFile(path string, write func(w io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
