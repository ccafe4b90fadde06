package oath

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// truncatedValue applies the dynamic truncation of RFC 4226 section 5.4:
// the low nibble of the last digest byte selects a 4-byte big-endian window
// whose top bit is masked off to stay within a positive 31-bit range.
func truncatedValue(digest []byte) (uint32, error) {
	if len(digest) < 4 {
		return 0, fmt.Errorf("%w: digest must be at least 4 bytes, got %d", ErrInvalidLength, len(digest))
	}
	offset := int(digest[len(digest)-1] & 0x0f)
	if offset+4 > len(digest) {
		return 0, fmt.Errorf("%w: truncation offset %d out of range for %d byte digest", ErrInvalidLength, offset, len(digest))
	}
	return binary.BigEndian.Uint32(digest[offset:offset+4]) & 0x7fffffff, nil
}

// Truncate converts an HMAC digest into an OTP code.
//
// With digits between 4 and 10 the truncated value is reduced modulo
// 10^digits and rendered as a zero-padded decimal string. With digits equal
// to zero no truncation is applied and the whole digest is rendered as
// lowercase hex, the OCRA convention for untruncated responses. Any other
// width fails with ErrInvalidLength.
func Truncate(digest []byte, digits int) (string, error) {
	switch {
	case digits == 0:
		if len(digest) < 4 {
			return "", fmt.Errorf("%w: digest must be at least 4 bytes, got %d", ErrInvalidLength, len(digest))
		}
		return hex.EncodeToString(digest), nil
	case digits >= 4 && digits <= 10:
		value, err := truncatedValue(digest)
		if err != nil {
			return "", err
		}
		mod := uint64(1)
		for i := 0; i < digits; i++ {
			mod *= 10
		}
		return fmt.Sprintf("%0*d", digits, uint64(value)%mod), nil
	default:
		return "", fmt.Errorf("%w: digits must be 0 or between 4 and 10, got %d", ErrInvalidLength, digits)
	}
}

// TruncateAlphabet renders the truncated digest value as a code of the given
// length over a custom alphabet, for deployments whose tokens are not plain
// decimal. The alphabet must contain at least two symbols.
func TruncateAlphabet(digest []byte, alphabet string, length int) (string, error) {
	if len(alphabet) < 2 {
		return "", fmt.Errorf("%w: alphabet must contain at least 2 symbols", ErrInvalidLength)
	}
	if length < 1 {
		return "", fmt.Errorf("%w: code length must be positive, got %d", ErrInvalidLength, length)
	}
	value, err := truncatedValue(digest)
	if err != nil {
		return "", err
	}
	out := make([]byte, length)
	v := uint64(value)
	for i := length - 1; i >= 0; i-- {
		out[i] = alphabet[v%uint64(len(alphabet))]
		v /= uint64(len(alphabet))
	}
	return string(out), nil
}
