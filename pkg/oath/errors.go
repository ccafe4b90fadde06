package oath

import "errors"

// Common errors returned by the OTP engines.
var (
	// ErrInvalidLength indicates a truncation width or digest length
	// outside the supported range.
	ErrInvalidLength = errors.New("oath: invalid length")
	// ErrInvalidPeriod indicates a non-positive TOTP time period.
	ErrInvalidPeriod = errors.New("oath: period must be positive")
	// ErrNoMatch indicates the acceptance window was exhausted without
	// finding a matching code. It is an expected outcome of verification,
	// not an internal failure.
	ErrNoMatch = errors.New("oath: no match inside the window")
)
