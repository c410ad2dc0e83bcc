package core

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeVerifier_Length(t *testing.T) {
	for _, length := range []int{43, 64, 128} {
		verifier, err := GenerateCodeVerifier(length)
		require.NoError(t, err)
		assert.Len(t, verifier, length)
	}
}

func TestGenerateCodeVerifier_Charset(t *testing.T) {
	verifier, err := GenerateCodeVerifier(DefaultCodeVerifierLength)
	require.NoError(t, err)

	for _, c := range verifier {
		assert.True(t, strings.ContainsRune(codeVerifierCharset, c),
			"verifier contains character %q outside the unreserved set", c)
	}
}

func TestGenerateCodeVerifier_OutOfRange(t *testing.T) {
	for _, length := range []int{0, 42, 129} {
		_, err := GenerateCodeVerifier(length)
		require.Error(t, err)

		var cerr *ConfigurationError
		assert.ErrorAs(t, err, &cerr)
	}
}

func TestGenerateCodeVerifier_Unique(t *testing.T) {
	a, err := GenerateCodeVerifier(DefaultCodeVerifierLength)
	require.NoError(t, err)
	b, err := GenerateCodeVerifier(DefaultCodeVerifierLength)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateCodeChallenge_S256(t *testing.T) {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	sum := sha256.Sum256([]byte(verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])

	got := GenerateCodeChallenge(verifier)
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "=")
	assert.NotContains(t, got, "+")
	assert.NotContains(t, got, "/")
}

func TestGenerateCodeChallenge_Deterministic(t *testing.T) {
	verifier, err := GenerateCodeVerifier(DefaultCodeVerifierLength)
	require.NoError(t, err)
	assert.Equal(t, GenerateCodeChallenge(verifier), GenerateCodeChallenge(verifier))
}

func TestGenerateState_Unique(t *testing.T) {
	a, err := GenerateState()
	require.NoError(t, err)
	b, err := GenerateState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}

func TestGenerateNonce(t *testing.T) {
	nonce, err := GenerateNonce()
	require.NoError(t, err)
	assert.NotEmpty(t, nonce)
}
