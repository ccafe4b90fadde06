package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-oath/pkg/ocra"
)

var ocraFlags struct {
	key       string
	suite     string
	challenge string
	counter   uint64
	pin       string
	session   string
	at        int64
	verify    string
}

var ocraCmd = &cobra.Command{
	Use:   "ocra",
	Short: "Compute or verify an OCRA challenge response",
	Long: `ocra computes the RFC 6287 response for a challenge under the given
suite, for example OCRA-1:HOTP-SHA1-6:QN08. Counter, PIN, session
information and timestamp are consumed only when the suite declares them.`,
	RunE: runOCRA,
}

func init() {
	f := ocraCmd.Flags()
	f.StringVarP(&ocraFlags.key, "key", "k", "", "hex shared key")
	f.StringVar(&ocraFlags.suite, "suite", "", "OCRA suite string")
	f.StringVarP(&ocraFlags.challenge, "challenge", "q", "", "challenge question")
	f.Uint64VarP(&ocraFlags.counter, "counter", "c", 0, "counter value for C suites")
	f.StringVar(&ocraFlags.pin, "pin", "", "PIN for P suites")
	f.StringVar(&ocraFlags.session, "session", "", "hex session information for S suites")
	f.Int64VarP(&ocraFlags.at, "time", "t", 0, "unix time for T suites, 0 for now")
	f.StringVar(&ocraFlags.verify, "verify", "", "verify this response instead of computing one")
	_ = ocraCmd.MarkFlagRequired("key")
	_ = ocraCmd.MarkFlagRequired("suite")
	_ = ocraCmd.MarkFlagRequired("challenge")
	rootCmd.AddCommand(ocraCmd)
}

func runOCRA(cmd *cobra.Command, args []string) error {
	key, err := hex.DecodeString(ocraFlags.key)
	if err != nil {
		return fmt.Errorf("invalid hex key: %w", err)
	}
	suite, err := ocra.ParseSuite(ocraFlags.suite)
	if err != nil {
		return err
	}

	params := ocra.Params{
		Challenge: ocraFlags.challenge,
		PIN:       ocraFlags.pin,
	}
	if cmd.Flags().Changed("counter") {
		counter := ocraFlags.counter
		params.Counter = &counter
	}
	if ocraFlags.session != "" {
		session, err := hex.DecodeString(ocraFlags.session)
		if err != nil {
			return fmt.Errorf("invalid hex session information: %w", err)
		}
		params.SessionInfo = session
	}
	if ocraFlags.at != 0 {
		params.Timestamp = time.Unix(ocraFlags.at, 0)
	}

	if ocraFlags.verify != "" {
		ok, err := suite.Accept(ocraFlags.verify, key, params)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("response does not match")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "match")
		return nil
	}

	response, err := suite.Compute(key, params)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), response)
	return nil
}
