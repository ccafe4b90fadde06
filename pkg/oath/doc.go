// Package oath implements the OATH one-time-password primitives: HOTP
// (RFC 4226) and TOTP (RFC 6238), built on the shared HMAC dynamic-truncation
// primitive that the OCRA engine in pkg/ocra reuses.
//
// All functions are pure, stateless computations over caller-supplied
// secrets; the package holds no global state and is safe for concurrent use.
// Secrets are raw byte sequences; base32 decoding and otpauth URI handling
// live in pkg/googleauth.
//
// # HOTP
//
// Generate and verify counter-based codes:
//
//	code, err := oath.HOTP(secret, counter, 6, oath.SHA1)
//
//	offset, next, err := oath.AcceptHOTP(secret, token, counter, 6, oath.SHA1, 3)
//	if errors.Is(err, oath.ErrNoMatch) {
//	    // reject
//	}
//	// persist next as the new counter
//
// The caller owns counter persistence. Concurrent validations of the same
// credential must be serialized by the caller so two attempts cannot both
// accept overlapping window positions.
//
// # TOTP
//
// Time-based codes derive the counter from wall-clock time:
//
//	code, err := oath.TOTP(secret, 6, oath.SHA1, 30, time.Now())
//
//	drift, err := oath.AcceptTOTP(secret, token, 6, oath.SHA1, 30, 1, 1, time.Now())
//
// The drift result (in whole time steps, negative meaning the token clock
// runs behind) can be stored per client and added to the verification time on
// later calls to follow a slowly drifting token clock.
//
// # Errors
//
// Verification misses are reported as ErrNoMatch, an expected outcome.
// Out-of-range truncation widths and digest lengths are programmer errors
// reported as ErrInvalidLength. Comparisons against candidate codes are
// constant time.
package oath
