package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: 1, Name: "Alice", Email: "a@x.com", Role: domain.RoleFarmer}
}

func TestIssueParse_Roundtrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	s, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", s.Email)
	assert.Equal(t, "Alice", s.Name)
	assert.Equal(t, domain.RoleFarmer, s.Role)
	assert.NotEmpty(t, s.JTI)
}

func TestIssue_UniqueJTI(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	t1, err := issuer.Issue(testUser())
	require.NoError(t, err)
	t2, err := issuer.Issue(testUser())
	require.NoError(t, err)

	s1, err := issuer.Parse(t1)
	require.NoError(t, err)
	s2, err := issuer.Parse(t2)
	require.NoError(t, err)
	assert.NotEqual(t, s1.JTI, s2.JTI)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
