package oath

import (
	"errors"
	"testing"
)

// fixedDigest has a zero low nibble in its last byte, so the dynamic
// truncation window starts at offset 0 and yields the value 42.
func fixedDigest() []byte {
	digest := make([]byte, 20)
	digest[3] = 0x2a
	return digest
}

// TestTruncateWidths tests output width for every supported digit count
func TestTruncateWidths(t *testing.T) {
	digest := fixedDigest()

	for digits := 4; digits <= 10; digits++ {
		code, err := Truncate(digest, digits)
		if err != nil {
			t.Fatalf("Truncate(digits=%d): unexpected error: %v", digits, err)
		}
		if len(code) != digits {
			t.Errorf("Truncate(digits=%d): got %d characters (%q)", digits, len(code), code)
		}
		again, err := Truncate(digest, digits)
		if err != nil {
			t.Fatalf("Truncate(digits=%d): unexpected error on repeat: %v", digits, err)
		}
		if code != again {
			t.Errorf("Truncate(digits=%d): unstable output: %q then %q", digits, code, again)
		}
	}

	code, err := Truncate(digest, 0)
	if err != nil {
		t.Fatalf("Truncate(digits=0): unexpected error: %v", err)
	}
	if len(code) != 2*len(digest) {
		t.Errorf("Truncate(digits=0): expected full hex of %d characters, got %q", 2*len(digest), code)
	}
}

// TestTruncateZeroPadding tests left zero-padding of small values
func TestTruncateZeroPadding(t *testing.T) {
	code, err := Truncate(fixedDigest(), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "000042" {
		t.Errorf("expected 000042, got %q", code)
	}
}

// TestTruncateInvalid tests rejection of unsupported widths and digests
func TestTruncateInvalid(t *testing.T) {
	digest := fixedDigest()

	for _, digits := range []int{-1, 1, 2, 3, 11, 100} {
		if _, err := Truncate(digest, digits); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("Truncate(digits=%d): expected ErrInvalidLength, got %v", digits, err)
		}
	}

	if _, err := Truncate([]byte{1, 2, 3}, 6); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("short digest: expected ErrInvalidLength, got %v", err)
	}
	if _, err := Truncate([]byte{1, 2, 3}, 0); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("short digest in hex mode: expected ErrInvalidLength, got %v", err)
	}
}

// TestTruncateAlphabet tests custom-alphabet rendering
func TestTruncateAlphabet(t *testing.T) {
	// Truncated value is 42; over the alphabet A..J that is "AAEC".
	code, err := TruncateAlphabet(fixedDigest(), "ABCDEFGHIJ", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "AAEC" {
		t.Errorf("expected AAEC, got %q", code)
	}

	if _, err := TruncateAlphabet(fixedDigest(), "A", 4); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("single symbol alphabet: expected ErrInvalidLength, got %v", err)
	}
	if _, err := TruncateAlphabet(fixedDigest(), "ABC", 0); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("zero length: expected ErrInvalidLength, got %v", err)
	}
}
