package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionID_ParsesBack(t *testing.T) {
	sid := NewSessionID()

	parsed, err := ParseSessionID(sid.String())
	require.NoError(t, err)
	assert.Equal(t, sid, parsed)
}

func TestParseSessionID_Rejections(t *testing.T) {
	for _, input := range []string{"", "sess_", "sess_not-a-uuid", "abc123"} {
		_, err := ParseSessionID(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseWalletAddress(t *testing.T) {
	wallet, err := ParseWalletAddress("  0xabc  ")
	require.NoError(t, err)
	assert.Equal(t, WalletAddress("0xabc"), wallet)

	_, err = ParseWalletAddress("")
	assert.Error(t, err)

	_, err = ParseWalletAddress(strings.Repeat("a", 129))
	assert.Error(t, err)
}

func TestParseProvider(t *testing.T) {
	provider, err := ParseProvider("google")
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, provider)

	for _, input := range []string{"", "Google", "has-dash", "1starts_with_digit"} {
		_, err := ParseProvider(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestProvider_SignatureBased(t *testing.T) {
	assert.True(t, ProviderEVM.SignatureBased())
	assert.True(t, ProviderLedger.SignatureBased())
	assert.False(t, ProviderGoogle.SignatureBased())
	assert.False(t, ProviderGitHub.SignatureBased())
}

func TestIsNil(t *testing.T) {
	assert.True(t, SessionID("").IsNil())
	assert.False(t, NewSessionID().IsNil())
	assert.True(t, Provider("").IsNil())
}
