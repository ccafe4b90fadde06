package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-oath/pkg/googleauth"
	"github.com/jeremyhahn/go-oath/pkg/oath"
)

var totpFlags struct {
	secret    string
	digits    int
	algorithm string
	period    uint
	at        int64
	verify    string
	backward  uint
	forward   uint
}

var totpCmd = &cobra.Command{
	Use:   "totp",
	Short: "Generate or verify a time-based one-time password",
	RunE:  runTOTP,
}

func init() {
	f := totpCmd.Flags()
	f.StringVarP(&totpFlags.secret, "secret", "s", "", "base32 shared secret")
	f.IntVarP(&totpFlags.digits, "digits", "d", 6, "code width, 0 for full hex")
	f.StringVarP(&totpFlags.algorithm, "algorithm", "a", "SHA1", "HMAC hash (SHA1, SHA256, SHA512)")
	f.UintVarP(&totpFlags.period, "period", "p", 30, "time step in seconds")
	f.Int64VarP(&totpFlags.at, "time", "t", 0, "unix time to compute at, 0 for now")
	f.StringVar(&totpFlags.verify, "verify", "", "verify this code instead of generating one")
	f.UintVar(&totpFlags.backward, "backward", 1, "accepted steps behind the current one when verifying")
	f.UintVar(&totpFlags.forward, "forward", 1, "accepted steps ahead of the current one when verifying")
	_ = totpCmd.MarkFlagRequired("secret")
	rootCmd.AddCommand(totpCmd)
}

func runTOTP(cmd *cobra.Command, args []string) error {
	secret, err := googleauth.DecodeBase32Secret(totpFlags.secret)
	if err != nil {
		return err
	}
	algo, err := parseAlgorithmFlag(totpFlags.algorithm)
	if err != nil {
		return err
	}

	var at time.Time
	if totpFlags.at != 0 {
		at = time.Unix(totpFlags.at, 0)
	}

	if totpFlags.verify != "" {
		drift, err := oath.AcceptTOTP(secret, totpFlags.verify, totpFlags.digits,
			algo, totpFlags.period, totpFlags.forward, totpFlags.backward, at)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "match at drift %+d steps\n", drift)
		return nil
	}

	code, err := oath.TOTP(secret, totpFlags.digits, algo, totpFlags.period, at)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), code)
	return nil
}
