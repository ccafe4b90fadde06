package ocra

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jeremyhahn/go-oath/pkg/oath"
)

// Version is the only OCRA algorithm version this package supports.
const Version = "OCRA-1"

// ChallengeFormat identifies the encoding of a challenge question.
type ChallengeFormat byte

const (
	// ChallengeNumeric challenges contain decimal digits.
	ChallengeNumeric ChallengeFormat = 'N'
	// ChallengeAlphanumeric challenges contain digits and letters.
	ChallengeAlphanumeric ChallengeFormat = 'A'
	// ChallengeHex challenges contain hexadecimal digits.
	ChallengeHex ChallengeFormat = 'H'
)

// Suite is the parsed, immutable descriptor of an OCRA suite string.
// It is fully determined by the string it was parsed from; an invalid string
// is rejected by ParseSuite before any computation can occur.
type Suite struct {
	raw string

	// Hash is the HMAC algorithm of the crypto function.
	Hash oath.Algorithm
	// Digits is the response truncation width; 0 means no truncation and a
	// full hex response.
	Digits int
	// ChallengeFormat and ChallengeLength describe the mandatory challenge
	// question.
	ChallengeFormat ChallengeFormat
	ChallengeLength int
	// Counter reports whether the data input includes the 8-byte counter.
	Counter bool
	// PIN reports whether the data input includes a PIN hash, computed with
	// PINHash.
	PIN     bool
	PINHash oath.Algorithm
	// SessionLength is the declared session-information byte length, 0 when
	// session data is absent.
	SessionLength int
	// TimeStep is the timestamp granularity, 0 when the timestamp is absent.
	TimeStep time.Duration
}

// String returns the suite string the descriptor was parsed from.
func (s *Suite) String() string {
	return s.raw
}

// ParseSuite parses an RFC 6287 suite string of the form
// <Algorithm>:<CryptoFunction>:<DataInput>, for example
// "OCRA-1:HOTP-SHA1-6:QN08" or "OCRA-1:HOTP-SHA256-8:C-QN08-PSHA1".
//
// Parsing is strict: the version must be OCRA-1, the crypto function must
// name a supported HMAC hash with a truncation width of 0 or 4 through 10,
// the challenge descriptor is mandatory, and the optional C, P, S and T
// descriptors may each appear at most once and only in that relative order.
// Parsing is a pure function; the same string always yields the same
// descriptor or the same failure.
func ParseSuite(suite string) (*Suite, error) {
	fields := strings.Split(suite, ":")
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: %q must have three colon separated fields", ErrInvalidSuite, suite)
	}
	if fields[0] != Version {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, fields[0])
	}
	s := &Suite{raw: suite}
	if err := s.parseCryptoFunction(fields[1]); err != nil {
		return nil, err
	}
	if err := s.parseDataInput(fields[2]); err != nil {
		return nil, err
	}
	return s, nil
}

// parseCryptoFunction parses the HOTP-<HASH>-<digits> field.
func (s *Suite) parseCryptoFunction(field string) error {
	parts := strings.Split(field, "-")
	if len(parts) != 3 {
		return fmt.Errorf("%w: crypto function %q must be a dash separated triplet", ErrInvalidSuite, field)
	}
	if parts[0] != "HOTP" {
		return fmt.Errorf("%w: unknown crypto function kind %q", ErrInvalidSuite, parts[0])
	}
	algo, ok := oath.ParseAlgorithm(parts[1])
	if !ok {
		return fmt.Errorf("%w: unknown hash algorithm %q", ErrInvalidSuite, parts[1])
	}
	digits, err := strconv.Atoi(parts[2])
	if err != nil || (digits != 0 && (digits < 4 || digits > 10)) {
		return fmt.Errorf("%w: truncation width %q must be 0 or between 4 and 10", ErrInvalidSuite, parts[2])
	}
	s.Hash = algo
	s.Digits = digits
	return nil
}

// descriptorOrder fixes the relative order of data-input descriptors.
var descriptorOrder = map[byte]int{'C': 0, 'Q': 1, 'P': 2, 'S': 3, 'T': 4}

// parseDataInput parses the [C-]QFxx[-Phash][-Snnn][-TG] field.
func (s *Suite) parseDataInput(field string) error {
	seen := make(map[byte]bool)
	last := -1
	for _, token := range strings.Split(field, "-") {
		if token == "" {
			return fmt.Errorf("%w: empty data input descriptor in %q", ErrInvalidSuite, field)
		}
		letter := token[0]
		rank, ok := descriptorOrder[letter]
		if !ok {
			return fmt.Errorf("%w: unknown data input descriptor %q", ErrInvalidSuite, token)
		}
		if seen[letter] {
			return fmt.Errorf("%w: duplicate data input descriptor %q", ErrInvalidSuite, token)
		}
		if rank < last {
			return fmt.Errorf("%w: descriptor %q out of order in %q", ErrInvalidSuite, token, field)
		}
		seen[letter] = true
		last = rank

		var err error
		switch letter {
		case 'C':
			if len(token) != 1 {
				err = fmt.Errorf("%w: counter descriptor %q takes no argument", ErrInvalidSuite, token)
			} else {
				s.Counter = true
			}
		case 'Q':
			err = s.parseChallengeDescriptor(token)
		case 'P':
			err = s.parsePINDescriptor(token)
		case 'S':
			err = s.parseSessionDescriptor(token)
		case 'T':
			err = s.parseTimestampDescriptor(token)
		}
		if err != nil {
			return err
		}
	}
	if !seen['Q'] {
		return fmt.Errorf("%w: challenge descriptor is mandatory in %q", ErrInvalidSuite, field)
	}
	return nil
}

func (s *Suite) parseChallengeDescriptor(token string) error {
	if len(token) == 1 {
		// Bare Q defaults to an 8 digit numeric challenge.
		s.ChallengeFormat = ChallengeNumeric
		s.ChallengeLength = 8
		return nil
	}
	if len(token) < 3 {
		return fmt.Errorf("%w: invalid challenge descriptor %q", ErrInvalidSuite, token)
	}
	format := ChallengeFormat(token[1])
	switch format {
	case ChallengeNumeric, ChallengeAlphanumeric, ChallengeHex:
	default:
		return fmt.Errorf("%w: unknown challenge format %q", ErrInvalidSuite, token)
	}
	length, err := strconv.Atoi(token[2:])
	if err != nil || length < 4 || length > 64 {
		return fmt.Errorf("%w: challenge length in %q must be between 4 and 64", ErrInvalidSuite, token)
	}
	s.ChallengeFormat = format
	s.ChallengeLength = length
	return nil
}

func (s *Suite) parsePINDescriptor(token string) error {
	name := token[1:]
	if name == "" {
		name = "SHA1"
	}
	algo, ok := oath.ParseAlgorithm(name)
	if !ok {
		return fmt.Errorf("%w: unknown PIN hash algorithm %q", ErrInvalidSuite, token)
	}
	s.PIN = true
	s.PINHash = algo
	return nil
}

func (s *Suite) parseSessionDescriptor(token string) error {
	if len(token) == 1 {
		s.SessionLength = 64
		return nil
	}
	length, err := strconv.Atoi(token[1:])
	if err != nil || length <= 0 {
		return fmt.Errorf("%w: invalid session data descriptor %q", ErrInvalidSuite, token)
	}
	s.SessionLength = length
	return nil
}

var (
	timestampRe     = regexp.MustCompile(`^(\d+[HMS])+$`)
	timestampPartRe = regexp.MustCompile(`\d+[HMS]`)
)

func (s *Suite) parseTimestampDescriptor(token string) error {
	spec := token[1:]
	if spec == "" {
		spec = "1M"
	}
	if !timestampRe.MatchString(spec) {
		return fmt.Errorf("%w: invalid timestamp descriptor %q", ErrInvalidSuite, token)
	}
	var step time.Duration
	for _, part := range timestampPartRe.FindAllString(spec, -1) {
		count, err := strconv.Atoi(part[:len(part)-1])
		if err != nil {
			return fmt.Errorf("%w: invalid timestamp descriptor %q", ErrInvalidSuite, token)
		}
		switch part[len(part)-1] {
		case 'H':
			step += time.Duration(count) * time.Hour
		case 'M':
			step += time.Duration(count) * time.Minute
		case 'S':
			step += time.Duration(count) * time.Second
		}
	}
	if step <= 0 {
		return fmt.Errorf("%w: timestamp step in %q must be positive", ErrInvalidSuite, token)
	}
	s.TimeStep = step
	return nil
}
