// Package ocra implements the OATH Challenge-Response Algorithm (RFC 6287),
// a suite-configurable extension of HOTP supporting challenges, PIN hashes,
// session information and timestamps.
//
// A suite string selects one mode of operation, for example
// "OCRA-1:HOTP-SHA256-8:C-QN08-PSHA1". ParseSuite validates it strictly and
// returns an immutable descriptor; computation then assembles the byte-exact
// data input the suite mandates and runs it through the HMAC truncation
// primitive of pkg/oath.
//
//	suite, err := ocra.ParseSuite("OCRA-1:HOTP-SHA1-6:QN08")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	code, err := suite.Compute(secret, ocra.Params{Challenge: "00000000"})
//
// Required runtime parameters follow the suite: a suite declaring C needs
// Params.Counter, one declaring P needs a PIN or PIN digest, and so on.
// Missing required fields fail with ErrMissingParameter; supplying a field
// the suite does not declare is not an error, it is ignored.
//
// # Challenge-response flows
//
// The one-way and mutual authentication flows of RFC 6287 section 6 are
// provided as small state machines. The mutual flow concatenates the two
// challenges in opposite orders for the server and client responses:
//
//	server, _ := ocra.NewMutualChallengeResponseServer(secret, suiteString, "")
//	client, _ := ocra.NewMutualChallengeResponseClient(secret, suiteString, "")
//
//	qc, _ := client.ComputeClientChallenge("")
//	rs, qs, _ := server.ComputeServerResponse(qc, "", ocra.Params{})
//	ok, _ := client.VerifyServerResponse(rs, qs, ocra.Params{})
//	rc, _ := client.ComputeClientResponse(ocra.Params{})
//	ok, _ = server.VerifyClientResponse(rc, ocra.Params{})
//
// Out-of-order protocol calls fail with ErrState. All comparisons against
// expected responses are constant time.
package ocra
