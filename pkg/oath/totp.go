package oath

import (
	"crypto/subtle"
	"fmt"
	"time"
)

// timeStep returns the number of whole periods elapsed since the Unix epoch.
func timeStep(at time.Time, period uint) uint64 {
	return uint64(at.Unix()) / uint64(period)
}

// TOTP computes the RFC 6238 one-time password for the given secret at the
// given time. A zero time means time.Now(). The counter handed to HOTP is
// floor(unixSeconds / period).
func TOTP(secret []byte, digits int, algo Algorithm, period uint, at time.Time) (string, error) {
	if period == 0 {
		return "", ErrInvalidPeriod
	}
	if at.IsZero() {
		at = time.Now()
	}
	return HOTP(secret, timeStep(at, period), digits, algo)
}

// AcceptTOTP validates a token inside a window of time steps around the
// given time. A zero time means time.Now(). The exact current step is tried
// first, then candidates alternate backward and forward so the steps closest
// in time are compared earliest. On a match the signed drift in steps is
// returned (0 exact, negative for a token generated in the past). When the
// window is exhausted it returns ErrNoMatch.
//
// Time is self-synchronizing so no state needs to be persisted, but callers
// may track the last accepted step to refuse replays within a step.
func AcceptTOTP(secret []byte, token string, digits int, algo Algorithm, period, forward, backward uint, at time.Time) (int, error) {
	if period == 0 {
		return 0, ErrInvalidPeriod
	}
	if at.IsZero() {
		at = time.Now()
	}
	step := timeStep(at, period)

	// Near the epoch the backward window cannot extend below step zero.
	if uint64(backward) > step {
		backward = uint(step)
	}

	try := func(drift int) (bool, error) {
		code, err := HOTP(secret, uint64(int64(step)+int64(drift)), digits, algo)
		if err != nil {
			return false, err
		}
		return subtle.ConstantTimeCompare([]byte(code), []byte(token)) == 1, nil
	}

	ok, err := try(0)
	if err != nil {
		return 0, err
	}
	if ok {
		return 0, nil
	}

	max := forward
	if backward > max {
		max = backward
	}
	for k := uint(1); k <= max; k++ {
		if k <= backward {
			ok, err := try(-int(k))
			if err != nil {
				return 0, err
			}
			if ok {
				return -int(k), nil
			}
		}
		if k <= forward {
			ok, err := try(int(k))
			if err != nil {
				return 0, err
			}
			if ok {
				return int(k), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: steps %d back to %d forward of %d", ErrNoMatch, backward, forward, step)
}
