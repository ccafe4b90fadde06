package oath

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// Algorithm identifies the HMAC hash function used for OTP generation.
type Algorithm int

const (
	// SHA1 is the default algorithm of RFC 4226 and RFC 6238.
	SHA1 Algorithm = iota
	// SHA256 uses HMAC-SHA256.
	SHA256
	// SHA512 uses HMAC-SHA512.
	SHA512
)

// Hash returns the hash constructor for the algorithm.
func (a Algorithm) Hash() func() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New
	case SHA512:
		return sha512.New
	default:
		return sha1.New
	}
}

// Size returns the digest size of the algorithm in bytes.
func (a Algorithm) Size() int {
	switch a {
	case SHA256:
		return sha256.Size
	case SHA512:
		return sha512.Size
	default:
		return sha1.Size
	}
}

// String returns the OATH identifier of the algorithm ("SHA1", "SHA256",
// "SHA512").
func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "SHA256"
	case SHA512:
		return "SHA512"
	default:
		return "SHA1"
	}
}

// ParseAlgorithm converts an OATH hash identifier to an Algorithm.
// The second return value reports whether the identifier is supported.
func ParseAlgorithm(name string) (Algorithm, bool) {
	switch name {
	case "SHA1":
		return SHA1, true
	case "SHA256":
		return SHA256, true
	case "SHA512":
		return SHA512, true
	}
	return SHA1, false
}
