// Package googleauth provides the Google Authenticator provisioning layer
// over the OTP engines in pkg/oath: otpauth:// URI parsing and construction,
// lenient base32 secret import, QR code rendering, and a stateful
// authenticator that tracks a token's HOTP counter or TOTP clock drift
// between validations.
//
// # Key import
//
// Parse a provisioning URI, or a bare base32 secret as some apps accept:
//
//	key, err := googleauth.ParseURI("otpauth://totp/MyApp:user@example.com?secret=JBSWY3DPEHPK3PXP&issuer=MyApp")
//	key, err = googleauth.FromB32Key("jbswy3dpehpk3pxp")
//
// # Validation
//
//	auth, err := googleauth.NewAuthenticator(googleauth.Config{
//	    Type:        googleauth.TypeTOTP,
//	    Secret:      "JBSWY3DPEHPK3PXP",
//	    Issuer:      "MyApp",
//	    AccountName: "user@example.com",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = auth.Authenticate(ctx, "123456")
//
// The authenticator serializes validations of its credential and keeps the
// counter/drift state in memory; persisting that state across processes is
// the caller's responsibility (read it back via Counter and Drift).
//
// # Provisioning
//
// GenerateKey creates a random credential and Key.Image renders its URI as
// a QR code for authenticator apps to scan.
package googleauth
