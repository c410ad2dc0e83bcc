package core

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// RFC 7636 unreserved characters allowed in a code verifier.
const codeVerifierCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

const (
	codeVerifierMinLength = 43
	codeVerifierMaxLength = 128

	// DefaultCodeVerifierLength is used by the authorization initiator.
	DefaultCodeVerifierLength = 128
)

// GenerateCodeVerifier draws length characters uniformly from the RFC 7636
// unreserved charset. Lengths outside [43,128] are a configuration error.
func GenerateCodeVerifier(length int) (string, error) {
	if length < codeVerifierMinLength || length > codeVerifierMaxLength {
		return "", &ConfigurationError{Msg: fmt.Sprintf("code verifier length must be between %d and %d, got %d", codeVerifierMinLength, codeVerifierMaxLength, length)}
	}

	// Rejection sampling keeps the selection uniform: 66 characters divide
	// evenly into 198, so bytes >= 198 are discarded.
	limit := byte(len(codeVerifierCharset) * (256 / len(codeVerifierCharset)))
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate code verifier: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, codeVerifierCharset[int(b)%len(codeVerifierCharset)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// GenerateCodeChallenge returns the S256 challenge for a verifier:
// base64url(SHA-256(verifier)) without padding.
func GenerateCodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateState returns a random CSRF state value, used once per flow.
func GenerateState() (string, error) {
	return randomURLSafe(32)
}

// GenerateNonce returns a random replay-protection nonce.
func GenerateNonce() (string, error) {
	return randomURLSafe(16)
}

func randomURLSafe(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
