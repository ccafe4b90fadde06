package ocra

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
)

// RandomChallenge produces a cryptographically random challenge of the given
// length over the alphabet of the given format.
func RandomChallenge(format ChallengeFormat, length int) (string, error) {
	var alphabet string
	switch format {
	case ChallengeNumeric:
		alphabet = "0123456789"
	case ChallengeAlphanumeric:
		alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	case ChallengeHex:
		alphabet = "0123456789abcdef"
	default:
		return "", fmt.Errorf("%w: unknown challenge format %q", ErrInvalidSuite, format)
	}
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("ocra: failed to generate random challenge: %w", err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}

// RandomChallenge produces a random challenge matching the suite's declared
// challenge format and length.
func (s *Suite) RandomChallenge() (string, error) {
	return RandomChallenge(s.ChallengeFormat, s.ChallengeLength)
}

// parseSuitePair parses a suite string and the optional suite of the peer.
// An empty remote means both parties use the same suite.
func parseSuitePair(suite, remoteSuite string) (*Suite, *Suite, error) {
	own, err := ParseSuite(suite)
	if err != nil {
		return nil, nil, err
	}
	remote := own
	if remoteSuite != "" {
		if remote, err = ParseSuite(remoteSuite); err != nil {
			return nil, nil, err
		}
	}
	return own, remote, nil
}

// Server states of the one-way challenge-response flow.
const (
	serverStateChallenge = iota
	serverStateVerify
	serverStateFinished
)

// ChallengeResponseServer drives the verifier side of the one-way
// challenge-response flow: issue a challenge, then verify the peer's
// response. It is safe for concurrent use, though a single flow is
// inherently sequential.
type ChallengeResponseServer struct {
	secret []byte
	suite  *Suite
	remote *Suite

	mu        sync.Mutex
	state     int
	challenge string
}

// NewChallengeResponseServer creates a verifier for the given suite.
// remoteSuite is the suite the peer computes with; leave it empty when both
// parties share one suite.
func NewChallengeResponseServer(secret []byte, suite, remoteSuite string) (*ChallengeResponseServer, error) {
	own, remote, err := parseSuitePair(suite, remoteSuite)
	if err != nil {
		return nil, err
	}
	return &ChallengeResponseServer{secret: secret, suite: own, remote: remote}, nil
}

// ComputeChallenge generates and remembers the random challenge to send to
// the peer.
func (s *ChallengeResponseServer) ComputeChallenge() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != serverStateChallenge {
		return "", fmt.Errorf("%w: challenge already issued", ErrState)
	}
	challenge, err := s.remote.RandomChallenge()
	if err != nil {
		return "", err
	}
	s.challenge = challenge
	s.state = serverStateVerify
	return challenge, nil
}

// VerifyResponse checks the peer's response against the issued challenge.
// The challenge field of params is filled in by the server.
func (s *ChallengeResponseServer) VerifyResponse(response string, params Params) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != serverStateVerify {
		return false, fmt.Errorf("%w: no outstanding challenge", ErrState)
	}
	params.Challenge = s.challenge
	ok, err := s.remote.Accept(response, s.secret, params)
	if err != nil {
		return false, err
	}
	if ok {
		s.state = serverStateFinished
	}
	return ok, nil
}

// ChallengeResponseClient computes one-way challenge responses. It holds no
// flow state.
type ChallengeResponseClient struct {
	secret []byte
	suite  *Suite
}

// NewChallengeResponseClient creates a prover for the given suite.
func NewChallengeResponseClient(secret []byte, suite string) (*ChallengeResponseClient, error) {
	parsed, err := ParseSuite(suite)
	if err != nil {
		return nil, err
	}
	return &ChallengeResponseClient{secret: secret, suite: parsed}, nil
}

// ComputeResponse computes the response to a server challenge.
func (c *ChallengeResponseClient) ComputeResponse(challenge string, params Params) (string, error) {
	params.Challenge = challenge
	return c.suite.Compute(c.secret, params)
}

// Client states of the mutual challenge-response flow.
const (
	mutualClientStateChallenge = iota
	mutualClientStateVerifyServer
	mutualClientStateResponse
	mutualClientStateFinished
)

// MutualChallengeResponseClient drives the client side of the mutual
// authentication flow: issue a client challenge, verify the server's
// response over the concatenated challenges, then compute the client
// response over the reversed concatenation.
type MutualChallengeResponseClient struct {
	secret []byte
	suite  *Suite
	remote *Suite

	mu              sync.Mutex
	state           int
	clientChallenge string
	serverChallenge string
}

// NewMutualChallengeResponseClient creates the client side of a mutual flow.
// remoteSuite is the suite the server computes its response with; leave it
// empty when both parties share one suite.
func NewMutualChallengeResponseClient(secret []byte, suite, remoteSuite string) (*MutualChallengeResponseClient, error) {
	own, remote, err := parseSuitePair(suite, remoteSuite)
	if err != nil {
		return nil, err
	}
	return &MutualChallengeResponseClient{secret: secret, suite: own, remote: remote}, nil
}

// ComputeClientChallenge generates (or adopts, when challenge is non-empty)
// the client challenge to send to the server.
func (c *MutualChallengeResponseClient) ComputeClientChallenge(challenge string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != mutualClientStateChallenge {
		return "", fmt.Errorf("%w: client challenge already issued", ErrState)
	}
	if challenge == "" {
		var err error
		if challenge, err = c.remote.RandomChallenge(); err != nil {
			return "", err
		}
	}
	c.clientChallenge = challenge
	c.state = mutualClientStateVerifyServer
	return challenge, nil
}

// VerifyServerResponse checks the server's response, computed over the
// client challenge followed by the server challenge.
func (c *MutualChallengeResponseClient) VerifyServerResponse(response, serverChallenge string, params Params) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != mutualClientStateVerifyServer {
		return false, fmt.Errorf("%w: no outstanding client challenge", ErrState)
	}
	c.serverChallenge = serverChallenge
	params.Challenge = c.clientChallenge + c.serverChallenge
	expected, err := c.remote.compute(c.secret, params, true)
	if err != nil {
		return false, err
	}
	ok := constantTimeEqual(expected, response)
	if ok {
		c.state = mutualClientStateResponse
	}
	return ok, nil
}

// ComputeClientResponse computes the client's response over the server
// challenge followed by the client challenge.
func (c *MutualChallengeResponseClient) ComputeClientResponse(params Params) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != mutualClientStateResponse {
		return "", fmt.Errorf("%w: server response not verified", ErrState)
	}
	params.Challenge = c.serverChallenge + c.clientChallenge
	response, err := c.suite.compute(c.secret, params, true)
	if err != nil {
		return "", err
	}
	c.state = mutualClientStateFinished
	return response, nil
}

// Server states of the mutual challenge-response flow.
const (
	mutualServerStateResponse = iota
	mutualServerStateVerifyClient
	mutualServerStateFinished
)

// MutualChallengeResponseServer drives the server side of the mutual
// authentication flow.
type MutualChallengeResponseServer struct {
	secret []byte
	suite  *Suite
	remote *Suite

	mu              sync.Mutex
	state           int
	clientChallenge string
	serverChallenge string
}

// NewMutualChallengeResponseServer creates the server side of a mutual flow.
// remoteSuite is the suite the client computes its response with; leave it
// empty when both parties share one suite.
func NewMutualChallengeResponseServer(secret []byte, suite, remoteSuite string) (*MutualChallengeResponseServer, error) {
	own, remote, err := parseSuitePair(suite, remoteSuite)
	if err != nil {
		return nil, err
	}
	return &MutualChallengeResponseServer{secret: secret, suite: own, remote: remote}, nil
}

// ComputeServerResponse answers a client challenge: it generates (or adopts,
// when serverChallenge is non-empty) the server challenge and computes the
// server response over the client challenge followed by the server
// challenge. The PIN never participates in the server response.
func (s *MutualChallengeResponseServer) ComputeServerResponse(clientChallenge, serverChallenge string, params Params) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != mutualServerStateResponse {
		return "", "", fmt.Errorf("%w: server response already computed", ErrState)
	}
	if serverChallenge == "" {
		var err error
		if serverChallenge, err = s.suite.RandomChallenge(); err != nil {
			return "", "", err
		}
	}
	s.clientChallenge = clientChallenge
	s.serverChallenge = serverChallenge
	params.Challenge = s.clientChallenge + s.serverChallenge
	params.PIN = ""
	params.PINDigest = nil
	response, err := s.suite.compute(s.secret, params, true)
	if err != nil {
		return "", "", err
	}
	s.state = mutualServerStateVerifyClient
	return response, serverChallenge, nil
}

// VerifyClientResponse checks the client's response, computed over the
// server challenge followed by the client challenge.
func (s *MutualChallengeResponseServer) VerifyClientResponse(response string, params Params) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != mutualServerStateVerifyClient {
		return false, fmt.Errorf("%w: server response not yet computed", ErrState)
	}
	params.Challenge = s.serverChallenge + s.clientChallenge
	expected, err := s.remote.compute(s.secret, params, true)
	if err != nil {
		return false, err
	}
	ok := constantTimeEqual(expected, response)
	if ok {
		s.state = mutualServerStateFinished
	}
	return ok, nil
}
