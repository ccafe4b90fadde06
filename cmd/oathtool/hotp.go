package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-oath/pkg/googleauth"
	"github.com/jeremyhahn/go-oath/pkg/oath"
)

var hotpFlags struct {
	secret    string
	counter   uint64
	digits    int
	algorithm string
	verify    string
	window    uint64
}

var hotpCmd = &cobra.Command{
	Use:   "hotp",
	Short: "Generate or verify a counter-based one-time password",
	RunE:  runHOTP,
}

func init() {
	f := hotpCmd.Flags()
	f.StringVarP(&hotpFlags.secret, "secret", "s", "", "base32 shared secret")
	f.Uint64VarP(&hotpFlags.counter, "counter", "c", 0, "counter value")
	f.IntVarP(&hotpFlags.digits, "digits", "d", 6, "code width, 0 for full hex")
	f.StringVarP(&hotpFlags.algorithm, "algorithm", "a", "SHA1", "HMAC hash (SHA1, SHA256, SHA512)")
	f.StringVar(&hotpFlags.verify, "verify", "", "verify this code instead of generating one")
	f.Uint64VarP(&hotpFlags.window, "window", "w", 3, "look-ahead window when verifying")
	_ = hotpCmd.MarkFlagRequired("secret")
	rootCmd.AddCommand(hotpCmd)
}

func runHOTP(cmd *cobra.Command, args []string) error {
	secret, err := googleauth.DecodeBase32Secret(hotpFlags.secret)
	if err != nil {
		return err
	}
	algo, err := parseAlgorithmFlag(hotpFlags.algorithm)
	if err != nil {
		return err
	}

	if hotpFlags.verify != "" {
		offset, next, err := oath.AcceptHOTP(secret, hotpFlags.verify,
			hotpFlags.counter, hotpFlags.digits, algo, hotpFlags.window)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "match at counter %d, next counter %d\n",
			hotpFlags.counter+offset, next)
		return nil
	}

	code, err := oath.HOTP(secret, hotpFlags.counter, hotpFlags.digits, algo)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), code)
	return nil
}

func parseAlgorithmFlag(name string) (oath.Algorithm, error) {
	algo, ok := oath.ParseAlgorithm(strings.ToUpper(name))
	if !ok {
		return 0, fmt.Errorf("unknown algorithm %q, expected SHA1, SHA256 or SHA512", name)
	}
	return algo, nil
}
