package main

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-oath/pkg/googleauth"
)

var provisionFlags struct {
	otpType   string
	issuer    string
	account   string
	digits    uint
	period    uint
	algorithm string
	noQR      bool
	inverse   bool
}

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create a new credential and print its otpauth URI and QR code",
	RunE:  runProvision,
}

func init() {
	f := provisionCmd.Flags()
	f.StringVar(&provisionFlags.otpType, "type", "totp", "credential type, totp or hotp")
	f.StringVar(&provisionFlags.issuer, "issuer", "", "issuing service name")
	f.StringVar(&provisionFlags.account, "account", "", "account name, usually an email address")
	f.UintVarP(&provisionFlags.digits, "digits", "d", 6, "code width")
	f.UintVarP(&provisionFlags.period, "period", "p", 30, "time step in seconds for totp")
	f.StringVarP(&provisionFlags.algorithm, "algorithm", "a", "SHA1", "HMAC hash (SHA1, SHA256, SHA512)")
	f.BoolVar(&provisionFlags.noQR, "no-qr", false, "skip the terminal QR code")
	f.BoolVar(&provisionFlags.inverse, "inverse", false, "invert QR colors for light terminals")
	_ = provisionCmd.MarkFlagRequired("issuer")
	_ = provisionCmd.MarkFlagRequired("account")
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, args []string) error {
	key, err := googleauth.GenerateKey(googleauth.GenerateOpts{
		Type:        googleauth.Type(provisionFlags.otpType),
		Issuer:      provisionFlags.issuer,
		AccountName: provisionFlags.account,
		Digits:      provisionFlags.digits,
		Period:      provisionFlags.period,
		Algorithm:   googleauth.Algorithm(provisionFlags.algorithm),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "secret:  %s\n", key.Base32Secret)
	fmt.Fprintf(out, "uri:     %s\n", key.URI())

	if provisionFlags.noQR {
		return nil
	}
	qr, err := qrcode.New(key.URI(), qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to encode QR code: %w", err)
	}
	fmt.Fprintln(out, qrcodeToUTF8(qr.Bitmap(), provisionFlags.inverse))
	return nil
}
