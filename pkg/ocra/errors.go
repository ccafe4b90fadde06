package ocra

import "errors"

// Common errors returned by the OCRA engine.
var (
	// ErrUnsupportedVersion indicates the suite string does not declare the
	// OCRA-1 algorithm version.
	ErrUnsupportedVersion = errors.New("ocra: unsupported algorithm version")
	// ErrInvalidSuite indicates a malformed suite string.
	ErrInvalidSuite = errors.New("ocra: invalid suite")
	// ErrMissingParameter indicates the suite requires a runtime parameter
	// that was not supplied.
	ErrMissingParameter = errors.New("ocra: missing required parameter")
	// ErrInvalidParameter indicates a supplied runtime parameter does not
	// satisfy the suite's declared format or length.
	ErrInvalidParameter = errors.New("ocra: invalid parameter")
	// ErrState indicates a challenge-response method was called out of
	// protocol order.
	ErrState = errors.New("ocra: protocol state violation")
)
