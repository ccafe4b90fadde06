package oath

import (
	"crypto/hmac"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
)

// hmacSum computes HMAC(secret, message) with the given algorithm.
func hmacSum(secret, message []byte, algo Algorithm) []byte {
	mac := hmac.New(algo.Hash(), secret)
	mac.Write(message)
	return mac.Sum(nil)
}

// HOTP computes the RFC 4226 one-time password for the given secret and
// counter. The counter is encoded as 8 bytes big-endian before hashing.
// The secret is treated as opaque key material and never mutated.
func HOTP(secret []byte, counter uint64, digits int, algo Algorithm) (string, error) {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)
	return Truncate(hmacSum(secret, msg[:], algo), digits)
}

// AcceptHOTP validates a token against the counter values counter through
// counter+window inclusive, in ascending order. On a match it returns the
// offset of the matching counter (0 when the first value matched) and the
// counter value to persist for the next validation (matched counter plus
// one). When no value in the window matches it returns the counter unchanged
// and ErrNoMatch.
//
// The engine never stores the counter itself; callers must serialize
// read-modify-write of a credential's counter across concurrent validation
// attempts.
func AcceptHOTP(secret []byte, token string, counter uint64, digits int, algo Algorithm, window uint64) (uint64, uint64, error) {
	for i := uint64(0); i <= window; i++ {
		code, err := HOTP(secret, counter+i, digits, algo)
		if err != nil {
			return 0, counter, err
		}
		if subtle.ConstantTimeCompare([]byte(code), []byte(token)) == 1 {
			return i, counter + i + 1, nil
		}
	}
	return 0, counter, fmt.Errorf("%w: %d counters scanned from %d", ErrNoMatch, window+1, counter)
}
