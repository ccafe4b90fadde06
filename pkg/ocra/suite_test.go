package ocra

import (
	"errors"
	"testing"
	"time"

	"github.com/jeremyhahn/go-oath/pkg/oath"
)

// TestParseSuite tests parsing of well-formed suite strings
func TestParseSuite(t *testing.T) {
	tests := []struct {
		name  string
		suite string
		want  Suite
	}{
		{
			name:  "plain numeric challenge",
			suite: "OCRA-1:HOTP-SHA1-6:QN08",
			want:  Suite{Hash: oath.SHA1, Digits: 6, ChallengeFormat: ChallengeNumeric, ChallengeLength: 8},
		},
		{
			name:  "counter and PIN",
			suite: "OCRA-1:HOTP-SHA256-8:C-QN08-PSHA1",
			want:  Suite{Hash: oath.SHA256, Digits: 8, ChallengeFormat: ChallengeNumeric, ChallengeLength: 8, Counter: true, PIN: true, PINHash: oath.SHA1},
		},
		{
			name:  "timestamped",
			suite: "OCRA-1:HOTP-SHA512-8:QN08-T1M",
			want:  Suite{Hash: oath.SHA512, Digits: 8, ChallengeFormat: ChallengeNumeric, ChallengeLength: 8, TimeStep: time.Minute},
		},
		{
			name:  "alphanumeric with session",
			suite: "OCRA-1:HOTP-SHA256-8:QA10-S064",
			want:  Suite{Hash: oath.SHA256, Digits: 8, ChallengeFormat: ChallengeAlphanumeric, ChallengeLength: 10, SessionLength: 64},
		},
		{
			name:  "hex challenge full response",
			suite: "OCRA-1:HOTP-SHA1-0:QH40",
			want:  Suite{Hash: oath.SHA1, Digits: 0, ChallengeFormat: ChallengeHex, ChallengeLength: 40},
		},
		{
			name:  "compound timestamp step",
			suite: "OCRA-1:HOTP-SHA1-6:QN08-T1H30M",
			want:  Suite{Hash: oath.SHA1, Digits: 6, ChallengeFormat: ChallengeNumeric, ChallengeLength: 8, TimeStep: 90 * time.Minute},
		},
		{
			name:  "bare descriptors take defaults",
			suite: "OCRA-1:HOTP-SHA1-6:C-Q-P-S-T",
			want:  Suite{Hash: oath.SHA1, Digits: 6, ChallengeFormat: ChallengeNumeric, ChallengeLength: 8, Counter: true, PIN: true, PINHash: oath.SHA1, SessionLength: 64, TimeStep: time.Minute},
		},
		{
			name:  "everything",
			suite: "OCRA-1:HOTP-SHA512-10:C-QH04-PSHA256-S128-T10S",
			want:  Suite{Hash: oath.SHA512, Digits: 10, ChallengeFormat: ChallengeHex, ChallengeLength: 4, Counter: true, PIN: true, PINHash: oath.SHA256, SessionLength: 128, TimeStep: 10 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSuite(tt.suite)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.suite {
				t.Errorf("String(): expected %q, got %q", tt.suite, got.String())
			}
			tt.want.raw = tt.suite
			if *got != tt.want {
				t.Errorf("descriptor mismatch:\nexpected %+v\ngot      %+v", tt.want, *got)
			}
		})
	}
}

// TestParseSuiteIdempotent tests that reparsing yields an identical descriptor
func TestParseSuiteIdempotent(t *testing.T) {
	const suite = "OCRA-1:HOTP-SHA256-8:C-QN08-PSHA1"
	first, err := ParseSuite(suite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ParseSuite(suite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *first != *second {
		t.Errorf("descriptors differ: %+v vs %+v", *first, *second)
	}
}

// TestParseSuiteInvalid tests rejection of malformed suite strings
func TestParseSuiteInvalid(t *testing.T) {
	tests := []struct {
		name    string
		suite   string
		wantErr error
	}{
		{"wrong version", "OCRA-2:HOTP-SHA1-6:QN08", ErrUnsupportedVersion},
		{"missing version", "HOTP-SHA1-6:QN08", ErrInvalidSuite},
		{"too many fields", "OCRA-1:HOTP-SHA1-6:QN08:QN08", ErrInvalidSuite},
		{"unknown crypto kind", "OCRA-1:TOTP-SHA1-6:QN08", ErrInvalidSuite},
		{"unknown hash", "OCRA-1:HOTP-MD5-6:QN08", ErrInvalidSuite},
		{"truncation too small", "OCRA-1:HOTP-SHA1-3:QN08", ErrInvalidSuite},
		{"truncation too large", "OCRA-1:HOTP-SHA1-11:QN08", ErrInvalidSuite},
		{"truncation not a number", "OCRA-1:HOTP-SHA1-six:QN08", ErrInvalidSuite},
		{"missing challenge", "OCRA-1:HOTP-SHA1-6:C", ErrInvalidSuite},
		{"challenge too short", "OCRA-1:HOTP-SHA1-6:QN03", ErrInvalidSuite},
		{"challenge too long", "OCRA-1:HOTP-SHA1-6:QN65", ErrInvalidSuite},
		{"unknown challenge format", "OCRA-1:HOTP-SHA1-6:QX08", ErrInvalidSuite},
		{"duplicate counter", "OCRA-1:HOTP-SHA1-6:C-C-QN08", ErrInvalidSuite},
		{"duplicate challenge", "OCRA-1:HOTP-SHA1-6:QN08-QN08", ErrInvalidSuite},
		{"counter after challenge", "OCRA-1:HOTP-SHA1-6:QN08-C", ErrInvalidSuite},
		{"PIN before challenge", "OCRA-1:HOTP-SHA1-6:PSHA1-QN08", ErrInvalidSuite},
		{"timestamp before session", "OCRA-1:HOTP-SHA1-6:QN08-T1M-S064", ErrInvalidSuite},
		{"unknown PIN hash", "OCRA-1:HOTP-SHA1-6:QN08-PMD5", ErrInvalidSuite},
		{"bad session length", "OCRA-1:HOTP-SHA1-6:QN08-Sxx", ErrInvalidSuite},
		{"zero timestamp step", "OCRA-1:HOTP-SHA1-6:QN08-T0M", ErrInvalidSuite},
		{"unknown timestamp unit", "OCRA-1:HOTP-SHA1-6:QN08-T1W", ErrInvalidSuite},
		{"counter with argument", "OCRA-1:HOTP-SHA1-6:C1-QN08", ErrInvalidSuite},
		{"empty descriptor", "OCRA-1:HOTP-SHA1-6:QN08--T1M", ErrInvalidSuite},
		{"unknown descriptor", "OCRA-1:HOTP-SHA1-6:QN08-Z1", ErrInvalidSuite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, err := ParseSuite(tt.suite)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if suite != nil {
				t.Errorf("expected nil descriptor on failure, got %+v", suite)
			}
		})
	}
}
