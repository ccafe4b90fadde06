package googleauth

import (
	"encoding/base32"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strconv"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/pquerna/otp/totp"

	"github.com/jeremyhahn/go-oath/pkg/oath"
)

// Type represents the OTP algorithm type of a key.
type Type string

const (
	// TypeTOTP represents Time-based OTP (RFC 6238).
	TypeTOTP Type = "totp"
	// TypeHOTP represents Counter-based OTP (RFC 4226).
	TypeHOTP Type = "hotp"
)

// Algorithm represents the hash algorithm of a key.
type Algorithm string

const (
	// AlgorithmSHA1 uses SHA1, the only algorithm universally supported by
	// authenticator apps.
	AlgorithmSHA1 Algorithm = "SHA1"
	// AlgorithmSHA256 uses SHA256.
	AlgorithmSHA256 Algorithm = "SHA256"
	// AlgorithmSHA512 uses SHA512.
	AlgorithmSHA512 Algorithm = "SHA512"
)

// Common errors returned by the key layer.
var (
	// ErrInvalidURI indicates a malformed or unsupported otpauth URI.
	ErrInvalidURI = errors.New("googleauth: invalid otpauth URI")
	// ErrInvalidSecret indicates the secret is not valid base32.
	ErrInvalidSecret = errors.New("googleauth: invalid base32 secret")
)

// Key is a provisioned OTP credential: the raw secret plus the
// configuration an authenticator app would import from an otpauth URI.
type Key struct {
	// Type is the OTP flavor, totp or hotp.
	Type Type
	// Secret is the raw key material.
	Secret []byte
	// Base32Secret is the unpadded base32 form used in URIs.
	Base32Secret string
	// Issuer and AccountName label the credential.
	Issuer      string
	AccountName string
	// Algorithm, Digits and Period configure code generation. Counter is
	// the initial counter for HOTP keys.
	Algorithm Algorithm
	Digits    uint
	Period    uint
	Counter   uint64
}

// DecodeBase32Secret decodes a base32 secret the way authenticator apps do:
// case insensitive and tolerant of missing padding.
func DecodeBase32Secret(secret string) ([]byte, error) {
	normalized := strings.ToUpper(strings.TrimSpace(secret))
	normalized += strings.Repeat("=", (8-len(normalized)%8)%8)
	raw, err := base32.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return raw, nil
}

// ParseURI parses an otpauth:// provisioning URI into a Key.
func ParseURI(uri string) (*Key, error) {
	pk, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}

	typ := Type(pk.Type())
	if typ != TypeTOTP && typ != TypeHOTP {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidURI, pk.Type())
	}

	algo, err := algorithmFromOTP(pk.Algorithm())
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(pk.Secret()) == "" {
		return nil, fmt.Errorf("%w: missing secret field", ErrInvalidURI)
	}
	secret, err := DecodeBase32Secret(pk.Secret())
	if err != nil {
		return nil, err
	}

	key := &Key{
		Type:         typ,
		Secret:       secret,
		Base32Secret: strings.ToUpper(strings.TrimRight(pk.Secret(), "=")),
		Issuer:       pk.Issuer(),
		AccountName:  pk.AccountName(),
		Algorithm:    algo,
		Digits:       uint(pk.Digits().Length()),
	}

	switch typ {
	case TypeTOTP:
		key.Period = uint(pk.Period())
		if key.Period == 0 {
			key.Period = 30
		}
	case TypeHOTP:
		counter, err := counterFromURI(uri)
		if err != nil {
			return nil, err
		}
		key.Counter = counter
	}
	return key, nil
}

// counterFromURI extracts the counter query parameter, defaulting to 0.
func counterFromURI(uri string) (uint64, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	value := parsed.Query().Get("counter")
	if value == "" {
		return 0, nil
	}
	counter, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: counter must be a number: %v", ErrInvalidURI, err)
	}
	return counter, nil
}

// FromB32Key builds a default TOTP key (SHA1, 6 digits, 30 second period)
// from a bare base32 secret, emulating apps that accept a secret without a
// full provisioning URI.
func FromB32Key(b32Key string) (*Key, error) {
	secret, err := DecodeBase32Secret(b32Key)
	if err != nil {
		return nil, err
	}
	return &Key{
		Type:         TypeTOTP,
		Secret:       secret,
		Base32Secret: strings.ToUpper(strings.TrimRight(strings.TrimSpace(b32Key), "=")),
		Algorithm:    AlgorithmSHA1,
		Digits:       6,
		Period:       30,
	}, nil
}

// URI returns the otpauth:// provisioning URI for the key, suitable for QR
// encoding and import by authenticator apps.
func (k *Key) URI() string {
	v := url.Values{}
	v.Set("secret", k.Base32Secret)
	if k.Issuer != "" {
		v.Set("issuer", k.Issuer)
	}
	v.Set("algorithm", string(k.Algorithm))
	v.Set("digits", fmt.Sprintf("%d", k.Digits))

	label := url.PathEscape(k.AccountName)
	if k.Issuer != "" {
		label = url.PathEscape(fmt.Sprintf("%s:%s", k.Issuer, k.AccountName))
	}

	if k.Type == TypeHOTP {
		v.Set("counter", fmt.Sprintf("%d", k.Counter))
		return fmt.Sprintf("otpauth://hotp/%s?%s", label, v.Encode())
	}
	v.Set("period", fmt.Sprintf("%d", k.Period))
	return fmt.Sprintf("otpauth://totp/%s?%s", label, v.Encode())
}

// Image renders the provisioning URI as a QR code image.
func (k *Key) Image(width, height int) (image.Image, error) {
	pk, err := otp.NewKeyFromURL(k.URI())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	return pk.Image(width, height)
}

// GenerateOpts configures key generation.
type GenerateOpts struct {
	// Type selects totp (default) or hotp.
	Type Type
	// Issuer and AccountName are required.
	Issuer      string
	AccountName string
	// Digits defaults to 6, Period to 30 seconds, Algorithm to SHA1,
	// SecretSize to 20 bytes.
	Digits     uint
	Period     uint
	Algorithm  Algorithm
	SecretSize uint
}

// GenerateKey creates a new random credential.
func GenerateKey(opts GenerateOpts) (*Key, error) {
	if opts.Type == "" {
		opts.Type = TypeTOTP
	}
	if opts.Type != TypeTOTP && opts.Type != TypeHOTP {
		return nil, fmt.Errorf("%w: type must be 'totp' or 'hotp'", ErrInvalidConfig)
	}
	if strings.TrimSpace(opts.Issuer) == "" || strings.TrimSpace(opts.AccountName) == "" {
		return nil, fmt.Errorf("%w: issuer and account name are required", ErrInvalidConfig)
	}
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmSHA1
	}
	algo, err := algorithmToOTP(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	if opts.Digits == 0 {
		opts.Digits = 6
	}

	var pk *otp.Key
	if opts.Type == TypeHOTP {
		pk, err = hotp.Generate(hotp.GenerateOpts{
			Issuer:      opts.Issuer,
			AccountName: opts.AccountName,
			SecretSize:  opts.SecretSize,
			Digits:      otp.Digits(opts.Digits),
			Algorithm:   algo,
		})
	} else {
		pk, err = totp.Generate(totp.GenerateOpts{
			Issuer:      opts.Issuer,
			AccountName: opts.AccountName,
			Period:      opts.Period,
			SecretSize:  opts.SecretSize,
			Digits:      otp.Digits(opts.Digits),
			Algorithm:   algo,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("googleauth: failed to generate key: %w", err)
	}
	return ParseURI(pk.String())
}

// oathAlgorithm maps the key's algorithm onto the engine's.
func (a Algorithm) oathAlgorithm() (oath.Algorithm, error) {
	algo, ok := oath.ParseAlgorithm(string(a))
	if !ok {
		return 0, fmt.Errorf("%w: algorithm must be SHA1, SHA256, or SHA512", ErrInvalidConfig)
	}
	return algo, nil
}

func algorithmFromOTP(a otp.Algorithm) (Algorithm, error) {
	switch a {
	case otp.AlgorithmSHA1:
		return AlgorithmSHA1, nil
	case otp.AlgorithmSHA256:
		return AlgorithmSHA256, nil
	case otp.AlgorithmSHA512:
		return AlgorithmSHA512, nil
	default:
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidURI, a)
	}
}

func algorithmToOTP(a Algorithm) (otp.Algorithm, error) {
	switch a {
	case AlgorithmSHA1:
		return otp.AlgorithmSHA1, nil
	case AlgorithmSHA256:
		return otp.AlgorithmSHA256, nil
	case AlgorithmSHA512:
		return otp.AlgorithmSHA512, nil
	default:
		return 0, fmt.Errorf("%w: algorithm must be SHA1, SHA256, or SHA512", ErrInvalidConfig)
	}
}
