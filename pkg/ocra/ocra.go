package ocra

import (
	"crypto/hmac"
	"crypto/subtle"

	"github.com/jeremyhahn/go-oath/pkg/oath"
)

// Compute parses the suite string and computes the challenge response for
// the given secret and parameters. Parse failures are propagated unchanged.
func Compute(secret []byte, suite string, params Params) (string, error) {
	s, err := ParseSuite(suite)
	if err != nil {
		return "", err
	}
	return s.Compute(secret, params)
}

// Compute computes the response for the given secret and parameters:
// HMAC over the assembled data input with the suite's hash, truncated to the
// suite's width (full hex when the width is 0). It is pure and side-effect
// free; missing required parameters fail with ErrMissingParameter before any
// hashing occurs.
func (s *Suite) Compute(secret []byte, params Params) (string, error) {
	return s.compute(secret, params, false)
}

func (s *Suite) compute(secret []byte, params Params, combined bool) (string, error) {
	message, err := s.dataInput(params, combined)
	if err != nil {
		return "", err
	}
	mac := hmac.New(s.Hash.Hash(), secret)
	mac.Write(message)
	return oath.Truncate(mac.Sum(nil), s.Digits)
}

// Accept reports whether a response matches the expected value for the given
// secret and parameters. The comparison is constant time.
func (s *Suite) Accept(response string, secret []byte, params Params) (bool, error) {
	expected, err := s.Compute(secret, params)
	if err != nil {
		return false, err
	}
	return constantTimeEqual(expected, response), nil
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
