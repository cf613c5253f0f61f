package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenManager(t *testing.T, at time.Time) *TokenManager {
	t.Helper()
	tm := NewTokenManager("test-secret", 24)
	tm.now = func() time.Time { return at }
	return tm
}

func TestTokenRoundTrip(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := frozenManager(t, base)

	token, expiresAt, err := tm.Issue("alice")
	require.NoError(t, err)
	assert.Equal(t, base.Add(24*time.Hour), expiresAt)

	subject, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenExpiry(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := frozenManager(t, base)

	token, _, err := tm.Issue("alice")
	require.NoError(t, err)

	tm.now = func() time.Time { return base.Add(23*time.Hour + 59*time.Minute) }
	subject, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	tm.now = func() time.Time { return base.Add(24*time.Hour + time.Minute) }
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTamperedToken(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := frozenManager(t, base)

	token, _, err := tm.Issue("alice")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.Verify(tampered)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestTamperedPayload(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := frozenManager(t, base)

	token, _, err := tm.Issue("alice")
	require.NoError(t, err)

	// Corrupt the claims JSON itself; the signature check must reject the
	// token before anything tries to decode the broken payload.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	payload[0] ^= 0xFF
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(payload) + "." + parts[2]

	_, err = tm.Verify(tampered)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestTokenWrongSecret(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := frozenManager(t, base)

	other := NewTokenManager("another-secret", 24)
	other.now = tm.now
	token, _, err := other.Issue("alice")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestMalformedToken(t *testing.T) {
	tm := frozenManager(t, time.Now())

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d", "not.a.token"} {
		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestRefreshKeepsOldTokenValid(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := frozenManager(t, base)

	oldToken, _, err := tm.Issue("alice")
	require.NoError(t, err)

	tm.now = func() time.Time { return base.Add(time.Hour) }
	newToken, expiresAt, err := tm.Refresh("alice-renamed")
	require.NoError(t, err)
	assert.Equal(t, base.Add(25*time.Hour), expiresAt)

	subject, err := tm.Verify(newToken)
	require.NoError(t, err)
	assert.Equal(t, "alice-renamed", subject)

	// The old token is not revoked; it expires on its own schedule.
	subject, err = tm.Verify(oldToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}
