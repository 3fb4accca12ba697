package auth

import (
	"testing"
	"time"

	"safepay/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(secret string) *TokenIssuer {
	return NewTokenIssuer(&config.JWTConfig{Secret: secret, Expiry: 24 * time.Hour, Issuer: "test"})
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	iss := newIssuer("super-secret")
	tok, err := iss.Issue("user-123", "Alice", "Smith")
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "Smith", claims.Surname)
	assert.NotEmpty(t, claims.ID)
}

func TestIssue_TokensAreUnique(t *testing.T) {
	t.Parallel()

	iss := newIssuer("k")
	a, err := iss.Issue("u1", "A", "B")
	require.NoError(t, err)
	b, err := iss.Issue("u1", "A", "B")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestParse_ValidityWindow(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	iss := newIssuer("k").WithClock(func() time.Time { return issuedAt })
	tok, err := iss.Issue("u1", "A", "B")
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{"immediately", issuedAt, false},
		{"after 23h59m", issuedAt.Add(23*time.Hour + 59*time.Minute), false},
		{"after 24h and a second", issuedAt.Add(24*time.Hour + time.Second), true},
		{"a week later", issuedAt.Add(7 * 24 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := tt.at
			_, err := iss.WithClock(func() time.Time { return at }).Parse(tok)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newIssuer("right-secret").Issue("u2", "A", "B")
	require.NoError(t, err)

	_, err = newIssuer("wrong-secret").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	iss := newIssuer("k")
	for _, in := range []string{"", "not.a.jwt", "abc"} {
		_, err := iss.Parse(in)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", in)
	}
}
