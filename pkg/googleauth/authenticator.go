package googleauth

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jeremyhahn/go-oath/pkg/oath"
)

// Common errors returned by the authenticator.
var (
	// ErrInvalidCode indicates the provided OTP code did not match.
	ErrInvalidCode = errors.New("googleauth: invalid code")
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("googleauth: invalid configuration")
	// ErrNilAuthenticator indicates a nil authenticator was used.
	ErrNilAuthenticator = errors.New("googleauth: authenticator is nil")
)

// Config holds authenticator configuration.
type Config struct {
	// Type specifies the OTP type (TOTP or HOTP).
	Type Type
	// Secret is the base32-encoded shared secret key (required).
	Secret string
	// Issuer is the name of the issuing organization (e.g., "MyApp").
	Issuer string
	// AccountName is the account identifier (e.g., "user@example.com").
	AccountName string
	// Digits specifies the number of digits in the OTP code (4 through 10).
	// Default: 6
	Digits uint
	// Period specifies the time step in seconds for TOTP.
	// Default: 30
	Period uint
	// Counter specifies the initial counter value for HOTP.
	// Default: 0
	Counter uint64
	// Algorithm specifies the hash algorithm to use.
	// Default: SHA1
	Algorithm Algorithm
	// Skew specifies the number of time periods checked before and after
	// the current time for TOTP validation (tolerance for clock skew).
	// Default: 1
	Skew uint
	// LookAhead specifies how many counter values past the current one are
	// scanned for HOTP validation, resynchronizing a token that generated
	// codes that never reached the server.
	// Default: 3
	LookAhead uint
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if c.Type != TypeTOTP && c.Type != TypeHOTP {
		return fmt.Errorf("%w: type must be 'totp' or 'hotp'", ErrInvalidConfig)
	}

	if strings.TrimSpace(c.Secret) == "" {
		return fmt.Errorf("%w: secret must not be empty", ErrInvalidConfig)
	}
	if _, err := DecodeBase32Secret(c.Secret); err != nil {
		return fmt.Errorf("%w: secret must be valid base32: %v", ErrInvalidConfig, err)
	}

	if c.Digits != 0 && (c.Digits < 4 || c.Digits > 10) {
		return fmt.Errorf("%w: digits must be between 4 and 10", ErrInvalidConfig)
	}

	if c.Algorithm != "" {
		if _, err := c.Algorithm.oathAlgorithm(); err != nil {
			return err
		}
	}

	return nil
}

// Authenticator validates OTP codes, tracking the HOTP counter or the
// accumulated TOTP clock drift of a token between calls. The tracked state
// is guarded by a mutex so concurrent validations of the same credential are
// serialized; it lives in memory only, persisting it is the caller's
// responsibility.
type Authenticator struct {
	cfg    Config
	secret []byte
	algo   oath.Algorithm

	mu      sync.Mutex
	counter uint64
	drift   int
}

// NewAuthenticator creates a new OTP authenticator.
// The configuration is validated and an error is returned if invalid.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if cfg.Digits == 0 {
		cfg.Digits = 6
	}
	if cfg.Period == 0 {
		cfg.Period = 30
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmSHA1
	}
	if cfg.Skew == 0 {
		cfg.Skew = 1
	}
	if cfg.LookAhead == 0 {
		cfg.LookAhead = 3
	}

	secret, err := DecodeBase32Secret(cfg.Secret)
	if err != nil {
		return nil, err
	}
	algo, err := cfg.Algorithm.oathAlgorithm()
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		cfg:     cfg,
		secret:  secret,
		algo:    algo,
		counter: cfg.Counter,
	}, nil
}

// NewAuthenticatorFromKey creates an authenticator for a parsed key.
func NewAuthenticatorFromKey(key *Key) (*Authenticator, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: key is nil", ErrInvalidConfig)
	}
	return NewAuthenticator(Config{
		Type:        key.Type,
		Secret:      key.Base32Secret,
		Issuer:      key.Issuer,
		AccountName: key.AccountName,
		Digits:      key.Digits,
		Period:      key.Period,
		Counter:     key.Counter,
		Algorithm:   key.Algorithm,
	})
}

// Authenticate validates an OTP code.
//
// For TOTP it validates around the current time, shifted by the drift
// accumulated over previous validations, with the configured skew tolerance;
// an accepted code updates the tracked drift. For HOTP it scans the
// look-ahead window from the tracked counter and advances the counter past
// the matched value.
func (a *Authenticator) Authenticate(ctx context.Context, code string) error {
	if a == nil {
		return ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cfg.Type == TypeTOTP {
		at := time.Now().Add(time.Duration(a.drift) * time.Duration(a.cfg.Period) * time.Second)
		drift, err := oath.AcceptTOTP(a.secret, code, int(a.cfg.Digits), a.algo, a.cfg.Period, a.cfg.Skew, a.cfg.Skew, at)
		if err != nil {
			if errors.Is(err, oath.ErrNoMatch) {
				return ErrInvalidCode
			}
			return fmt.Errorf("%w: validation failed: %v", ErrInvalidCode, err)
		}
		a.drift += drift
		return nil
	}

	_, next, err := oath.AcceptHOTP(a.secret, code, a.counter, int(a.cfg.Digits), a.algo, uint64(a.cfg.LookAhead))
	if err != nil {
		if errors.Is(err, oath.ErrNoMatch) {
			return ErrInvalidCode
		}
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidCode, err)
	}
	a.counter = next
	return nil
}

// Generate generates the next OTP code.
// For TOTP it is the code for the current time; for HOTP it is the code for
// the tracked counter, which is then advanced.
func (a *Authenticator) Generate() (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cfg.Type == TypeTOTP {
		code, err := oath.TOTP(a.secret, int(a.cfg.Digits), a.algo, a.cfg.Period, time.Now())
		if err != nil {
			return "", fmt.Errorf("googleauth: failed to generate TOTP code: %w", err)
		}
		return code, nil
	}

	code, err := oath.HOTP(a.secret, a.counter, int(a.cfg.Digits), a.algo)
	if err != nil {
		return "", fmt.Errorf("googleauth: failed to generate HOTP code: %w", err)
	}
	a.counter++
	return code, nil
}

// Counter returns the tracked HOTP counter.
func (a *Authenticator) Counter() uint64 {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counter
}

// Drift returns the tracked TOTP clock drift in time steps.
func (a *Authenticator) Drift() int {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.drift
}

// ProvisioningURI returns the otpauth:// URI for QR code generation.
// This URI can be encoded as a QR code and scanned by authenticator apps.
func (a *Authenticator) ProvisioningURI() string {
	if a == nil {
		return ""
	}
	key := &Key{
		Type:         a.cfg.Type,
		Secret:       a.secret,
		Base32Secret: strings.ToUpper(strings.TrimRight(a.cfg.Secret, "=")),
		Issuer:       a.cfg.Issuer,
		AccountName:  a.cfg.AccountName,
		Algorithm:    a.cfg.Algorithm,
		Digits:       a.cfg.Digits,
		Period:       a.cfg.Period,
		Counter:      a.cfg.Counter,
	}
	return key.URI()
}

// GenerateSecret generates a cryptographically random secret key.
// The secret is returned as a base32-encoded string suitable for use
// in the Config.Secret field.
func GenerateSecret() (string, error) {
	// 20 bytes (160 bits) of random data, the RFC 4226 recommended minimum
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("googleauth: failed to generate random secret: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret), nil
}
