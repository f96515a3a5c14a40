package helpers

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestGenOTPCode_Format(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 200; i++ {
		code, err := GenOTPCode()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 150)
}

func TestOTPExpiry(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, at.Add(10*time.Minute), OTPExpiry(at))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CompareHashAndPassword(hash, "password123"))
	assert.False(t, CompareHashAndPassword(hash, "password124"))
	assert.False(t, CompareHashAndPassword("", "password123"))
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "hireboard", time.Hour)

	tok, exp, err := m.Generate("acc-1", "recruiter")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "recruiter", claims.Role)
}

func TestJWTManager_Rejects(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret", "hireboard", time.Hour).WithClock(func() time.Time { return issued })
	tok, _, err := m.Generate("acc-1", "user")
	require.NoError(t, err)

	other := NewJWTManager("other", "hireboard", time.Hour).WithClock(func() time.Time { return issued })
	_, err = other.Parse(tok)
	assert.Error(t, err, "wrong secret")

	later := NewJWTManager("secret", "hireboard", time.Hour).WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	_, err = later.Parse(tok)
	assert.Error(t, err, "expired")

	_, err = m.Parse("not.a.token")
	assert.Error(t, err, "malformed")
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/b/resumes/u/x.pdf", PublicURL("b", "resumes/u/x.pdf"))
}
