package ocra

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"
)

// Standard RFC 6287 appendix C keys: the ASCII digits cycled to 20, 32 and
// 64 bytes.
var (
	key20 = mustHex("3132333435363738393031323334353637383930")
	key32 = mustHex("3132333435363738393031323334353637383930313233343536373839303132")
	key64 = mustHex("31323334353637383930313233343536373839303132333435363738393031323" +
		"334353637383930313233343536373839303132333435363738393031323334")

	pin          = "1234"
	pinSHA1      = mustHex("7110eda4d09e062aa5e4a390b0a572ac0d2c0220")
	timestampRef = time.Unix(int64(0x132d0b6)*60, 0)
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func uint64p(v uint64) *uint64 {
	return &v
}

// TestComputeVectors tests the RFC 6287 one-way test vectors
func TestComputeVectors(t *testing.T) {
	groups := []struct {
		suite   string
		key     []byte
		params  []Params
		results []string
	}{
		{
			suite: "OCRA-1:HOTP-SHA1-6:QN08",
			key:   key20,
			params: []Params{
				{Challenge: "00000000"}, {Challenge: "11111111"}, {Challenge: "22222222"},
				{Challenge: "33333333"}, {Challenge: "44444444"}, {Challenge: "55555555"},
				{Challenge: "66666666"}, {Challenge: "77777777"}, {Challenge: "88888888"},
				{Challenge: "99999999"},
			},
			results: []string{
				"237653", "243178", "653583", "740991", "608993",
				"388898", "816933", "224598", "750600", "294470",
			},
		},
		{
			suite: "OCRA-1:HOTP-SHA256-8:C-QN08-PSHA1",
			key:   key32,
			params: []Params{
				{Counter: uint64p(0), Challenge: "12345678", PIN: pin},
				{Counter: uint64p(1), Challenge: "12345678", PIN: pin},
				{Counter: uint64p(2), Challenge: "12345678", PIN: pin},
				{Counter: uint64p(3), Challenge: "12345678", PINDigest: pinSHA1},
				{Counter: uint64p(4), Challenge: "12345678", PINDigest: pinSHA1},
				{Counter: uint64p(5), Challenge: "12345678", PIN: pin},
				{Counter: uint64p(6), Challenge: "12345678", PIN: pin},
				{Counter: uint64p(7), Challenge: "12345678", PIN: pin},
				{Counter: uint64p(8), Challenge: "12345678", PINDigest: pinSHA1},
				{Counter: uint64p(9), Challenge: "12345678", PIN: pin},
			},
			results: []string{
				"65347737", "86775851", "78192410", "71565254", "10104329",
				"65983500", "70069104", "91771096", "75011558", "08522129",
			},
		},
		{
			suite: "OCRA-1:HOTP-SHA256-8:QN08-PSHA1",
			key:   key32,
			params: []Params{
				{Challenge: "00000000", PIN: pin},
				{Challenge: "11111111", PIN: pin},
				{Challenge: "22222222", PIN: pin},
				{Challenge: "33333333", PIN: pin},
				{Challenge: "44444444", PIN: pin},
			},
			results: []string{"83238735", "01501458", "17957585", "86776967", "86807031"},
		},
		{
			suite: "OCRA-1:HOTP-SHA512-8:C-QN08",
			key:   key64,
			params: []Params{
				{Counter: uint64p(0), Challenge: "00000000"},
				{Counter: uint64p(1), Challenge: "11111111"},
				{Counter: uint64p(2), Challenge: "22222222"},
				{Counter: uint64p(3), Challenge: "33333333"},
				{Counter: uint64p(4), Challenge: "44444444"},
				{Counter: uint64p(5), Challenge: "55555555"},
				{Counter: uint64p(6), Challenge: "66666666"},
				{Counter: uint64p(7), Challenge: "77777777"},
				{Counter: uint64p(8), Challenge: "88888888"},
				{Counter: uint64p(9), Challenge: "99999999"},
			},
			results: []string{
				"07016083", "63947962", "70123924", "25341727", "33203315",
				"34205738", "44343969", "51946085", "20403879", "31409299",
			},
		},
		{
			suite: "OCRA-1:HOTP-SHA512-8:QN08-T1M",
			key:   key64,
			params: []Params{
				{Challenge: "00000000", Timestamp: timestampRef},
				{Challenge: "11111111", Timestamp: timestampRef},
				{Challenge: "22222222", Timestamp: timestampRef},
				{Challenge: "33333333", Timestamp: timestampRef},
				{Challenge: "44444444", Timestamp: timestampRef},
			},
			results: []string{"95209754", "55907591", "22048402", "24218844", "36209546"},
		},
	}

	for _, group := range groups {
		suite, err := ParseSuite(group.suite)
		if err != nil {
			t.Fatalf("ParseSuite(%s): unexpected error: %v", group.suite, err)
		}
		for i, params := range group.params {
			code, err := suite.Compute(group.key, params)
			if err != nil {
				t.Fatalf("%s vector %d: unexpected error: %v", group.suite, i, err)
			}
			if code != group.results[i] {
				t.Errorf("%s vector %d: expected %s, got %s", group.suite, i, group.results[i], code)
			}

			ok, err := suite.Accept(code, group.key, params)
			if err != nil {
				t.Fatalf("%s vector %d: unexpected Accept error: %v", group.suite, i, err)
			}
			if !ok {
				t.Errorf("%s vector %d: Accept rejected its own code", group.suite, i)
			}
		}
	}
}

// TestComputeParsesSuite tests the package-level entry point
func TestComputeParsesSuite(t *testing.T) {
	code, err := Compute(key20, "OCRA-1:HOTP-SHA1-6:QN08", Params{Challenge: "00000000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "237653" {
		t.Errorf("expected 237653, got %s", code)
	}

	if _, err := Compute(key20, "OCRA-2:HOTP-SHA1-6:QN08", Params{Challenge: "00000000"}); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

// TestComputeFullHex tests the untruncated response mode
func TestComputeFullHex(t *testing.T) {
	suite, err := ParseSuite("OCRA-1:HOTP-SHA1-0:QN08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code, err := suite.Compute(key20, Params{Challenge: "00000000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 40 {
		t.Errorf("expected 40 hex characters, got %d (%q)", len(code), code)
	}
	if strings.ToLower(code) != code {
		t.Errorf("expected lowercase hex, got %q", code)
	}
	if _, err := hex.DecodeString(code); err != nil {
		t.Errorf("response is not hex: %v", err)
	}
}

// TestComputeMissingParameters tests required-parameter enforcement
func TestComputeMissingParameters(t *testing.T) {
	suite, err := ParseSuite("OCRA-1:HOTP-SHA256-8:C-QN08-PSHA1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		params Params
	}{
		{"no counter", Params{Challenge: "12345678", PIN: pin}},
		{"no PIN", Params{Challenge: "12345678", Counter: uint64p(0)}},
		{"no challenge", Params{Counter: uint64p(0), PIN: pin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := suite.Compute(key32, tt.params); !errors.Is(err, ErrMissingParameter) {
				t.Errorf("expected ErrMissingParameter, got %v", err)
			}
		})
	}

	session, err := ParseSuite("OCRA-1:HOTP-SHA1-6:QN08-S016")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := session.Compute(key20, Params{Challenge: "00000000"}); !errors.Is(err, ErrMissingParameter) {
		t.Errorf("expected ErrMissingParameter for absent session info, got %v", err)
	}
	if _, err := session.Compute(key20, Params{Challenge: "00000000", SessionInfo: make([]byte, 8)}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for short session info, got %v", err)
	}
}

// TestComputeUndeclaredParametersIgnored tests that surplus fields are not
// an error
func TestComputeUndeclaredParametersIgnored(t *testing.T) {
	suite, err := ParseSuite("OCRA-1:HOTP-SHA1-6:QN08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := Params{
		Challenge:   "00000000",
		Counter:     uint64p(99),
		PIN:         pin,
		SessionInfo: make([]byte, 64),
		Timestamp:   timestampRef,
	}
	code, err := suite.Compute(key20, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "237653" {
		t.Errorf("expected 237653, got %s", code)
	}
}

// TestComputeInvalidParameters tests rejection of malformed runtime values
func TestComputeInvalidParameters(t *testing.T) {
	numeric, err := ParseSuite("OCRA-1:HOTP-SHA1-6:QN08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := numeric.Compute(key20, Params{Challenge: "ABCD1234"}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for non-numeric challenge, got %v", err)
	}
	if _, err := numeric.Compute(key20, Params{Challenge: "123456789"}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for overlong challenge, got %v", err)
	}

	hexSuite, err := ParseSuite("OCRA-1:HOTP-SHA1-6:QH08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := hexSuite.Compute(key20, Params{Challenge: "zzzz"}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for non-hex challenge, got %v", err)
	}

	pinSuite, err := ParseSuite("OCRA-1:HOTP-SHA1-6:QN08-PSHA1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := pinSuite.Compute(key20, Params{Challenge: "00000000", PINDigest: []byte{1, 2, 3}}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for wrong size PIN digest, got %v", err)
	}
}
