package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oathtool",
	Short: "Generate and verify OATH one-time passwords",
	Long: `oathtool generates and verifies OATH one-time passwords: HOTP (RFC 4226),
TOTP (RFC 6238) and OCRA challenge responses (RFC 6287), and provisions new
credentials as otpauth:// URIs and QR codes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Usage()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "oathtool: %v\n", err)
		os.Exit(1)
	}
}
