package ocra

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// challengeFieldSize is the fixed width of the challenge field in the data
// input, mandated by RFC 6287 regardless of the actual challenge length.
const challengeFieldSize = 128

// Params carries the runtime values for a single OCRA computation. A Params
// value is constructed per invocation and discarded after use; fields the
// suite does not declare are ignored.
type Params struct {
	// Challenge is the challenge question, mandatory for every suite.
	Challenge string
	// Counter is the token counter, required when the suite declares C.
	Counter *uint64
	// PIN is the plaintext PIN/password, hashed with the suite's PIN hash
	// when the suite declares P. PINDigest supplies the digest directly and
	// takes precedence; it must match the PIN hash digest size.
	PIN       string
	PINDigest []byte
	// SessionInfo is required when the suite declares S and must be exactly
	// the declared length.
	SessionInfo []byte
	// Timestamp is used when the suite declares T; the zero value means the
	// current time.
	Timestamp time.Time
}

// dataInput assembles the exact byte sequence fed to HMAC:
// suite string, a NUL separator, then the declared fields in fixed order.
// The buffer is built fresh per call and never cached across parameter sets.
// combined doubles the allowed challenge length for the concatenated
// challenges of the mutual flows.
func (s *Suite) dataInput(p Params, combined bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(s.raw)
	buf.WriteByte(0)

	if s.Counter {
		if p.Counter == nil {
			return nil, fmt.Errorf("%w: suite %q requires a counter", ErrMissingParameter, s.raw)
		}
		var c [8]byte
		binary.BigEndian.PutUint64(c[:], *p.Counter)
		buf.Write(c[:])
	}

	question, err := s.encodeChallenge(p.Challenge, combined)
	if err != nil {
		return nil, err
	}
	buf.Write(question)

	if s.PIN {
		digest, err := s.pinDigest(p)
		if err != nil {
			return nil, err
		}
		buf.Write(digest)
	}

	if s.SessionLength > 0 {
		if p.SessionInfo == nil {
			return nil, fmt.Errorf("%w: suite %q requires session information", ErrMissingParameter, s.raw)
		}
		if len(p.SessionInfo) != s.SessionLength {
			return nil, fmt.Errorf("%w: session information must be %d bytes, got %d", ErrInvalidParameter, s.SessionLength, len(p.SessionInfo))
		}
		buf.Write(p.SessionInfo)
	}

	if s.TimeStep > 0 {
		at := p.Timestamp
		if at.IsZero() {
			at = time.Now()
		}
		var t [8]byte
		binary.BigEndian.PutUint64(t[:], uint64(at.Unix()/int64(s.TimeStep/time.Second)))
		buf.Write(t[:])
	}

	return buf.Bytes(), nil
}

// encodeChallenge validates the challenge against the suite's declared
// format and renders it into the fixed 128-byte challenge field. Numeric
// challenges become the big-endian bytes of their decimal value, with the
// hex representation padded to an even nibble count by a trailing zero.
func (s *Suite) encodeChallenge(challenge string, combined bool) ([]byte, error) {
	if challenge == "" {
		return nil, fmt.Errorf("%w: suite %q requires a challenge", ErrMissingParameter, s.raw)
	}
	max := s.ChallengeLength
	if combined {
		max *= 2
	}
	if len(challenge) > max {
		return nil, fmt.Errorf("%w: challenge exceeds %d characters", ErrInvalidParameter, max)
	}

	var raw []byte
	switch s.ChallengeFormat {
	case ChallengeNumeric:
		for _, r := range challenge {
			if r < '0' || r > '9' {
				return nil, fmt.Errorf("%w: numeric challenge contains %q", ErrInvalidParameter, r)
			}
		}
		value, ok := new(big.Int).SetString(challenge, 10)
		if !ok {
			return nil, fmt.Errorf("%w: invalid numeric challenge", ErrInvalidParameter)
		}
		digits := value.Text(16)
		if len(digits)%2 == 1 {
			digits += "0"
		}
		var err error
		raw, err = hex.DecodeString(digits)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid numeric challenge", ErrInvalidParameter)
		}
	case ChallengeAlphanumeric:
		for _, r := range challenge {
			switch {
			case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			default:
				return nil, fmt.Errorf("%w: alphanumeric challenge contains %q", ErrInvalidParameter, r)
			}
		}
		raw = []byte(challenge)
	case ChallengeHex:
		var err error
		raw, err = hex.DecodeString(challenge)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid hex challenge: %v", ErrInvalidParameter, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown challenge format %q", ErrInvalidSuite, s.ChallengeFormat)
	}

	field := make([]byte, challengeFieldSize)
	copy(field, raw)
	return field, nil
}

// pinDigest resolves the PIN hash bytes from the supplied parameters.
func (s *Suite) pinDigest(p Params) ([]byte, error) {
	size := s.PINHash.Size()
	switch {
	case p.PINDigest != nil:
		if len(p.PINDigest) != size {
			return nil, fmt.Errorf("%w: PIN digest must be %d bytes for %s, got %d", ErrInvalidParameter, size, s.PINHash, len(p.PINDigest))
		}
		return p.PINDigest, nil
	case p.PIN != "":
		h := s.PINHash.Hash()()
		h.Write([]byte(p.PIN))
		return h.Sum(nil), nil
	default:
		return nil, fmt.Errorf("%w: suite %q requires a PIN", ErrMissingParameter, s.raw)
	}
}
