package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arma-tools/bisign-go/pkg/bisign"
	"github.com/arma-tools/bisign-go/pkg/bisign/bierr"
	"github.com/arma-tools/bisign-go/pkg/bisign/blob"
	"github.com/arma-tools/bisign-go/pkg/logging"
	"github.com/arma-tools/bisign-go/pkg/pbo"
)

func newVerifyCmd() *cobra.Command {
	var sigPath string

	cmd := &cobra.Command{
		Use:   "verify <public-key> <file.pbo>",
		Short: "Verify a PBO against a public key and signature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pubPath, pboPath := args[0], args[1]
			logger := logging.NewLogger("bisign-verify", effectiveLogLevel(), os.Stderr)

			pubFile, err := os.Open(pubPath)
			if err != nil {
				return fmt.Errorf("opening public key: %w", err)
			}
			defer pubFile.Close()

			pub, err := blob.ReadPublicKey(pubFile)
			if err != nil {
				return fmt.Errorf("reading public key: %w", err)
			}

			if sigPath == "" {
				sigPath = defaultSignaturePath(pboPath, pub.Name)
			}
			sigFile, err := os.Open(sigPath)
			if err != nil {
				return fmt.Errorf("opening signature: %w", err)
			}
			defer sigFile.Close()

			sig, err := blob.ReadSignature(sigFile)
			if err != nil {
				return fmt.Errorf("reading signature: %w", err)
			}

			archive, err := pbo.ReadFile(pboPath)
			if err != nil {
				return fmt.Errorf("reading PBO: %w", err)
			}

			if err := bisign.VerifyWithLogger(archive, pub, sig, logger); err != nil {
				printVerifyFailure(cmd, err)
				return err
			}

			color.New(color.FgGreen, color.Bold).Fprintln(cmd.OutOrStdout(), "OK: signature valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&sigPath, "signature", "s", "", "Signature file (default: <pbo>.<authority>.bisign)")

	return cmd
}

// printVerifyFailure prints the specific failure kind the way the
// reference CLI surface reports it, per the error handling design.
func printVerifyFailure(cmd *cobra.Command, err error) {
	red := color.New(color.FgRed, color.Bold)

	var authErr *bierr.AuthorityMismatchError
	var hashErr *bierr.HashMismatchError
	switch {
	case errors.As(err, &authErr):
		red.Fprintf(cmd.ErrOrStderr(), "FAIL: authority mismatch (expected %q, got %q)\n", authErr.Expected, authErr.Actual)
	case errors.As(err, &hashErr):
		red.Fprintf(cmd.ErrOrStderr(), "FAIL: hash %d mismatch (signed=%s real=%s)\n", hashErr.Which, hashErr.Signed, hashErr.Real)
	default:
		red.Fprintf(cmd.ErrOrStderr(), "FAIL: %v\n", err)
	}
}
