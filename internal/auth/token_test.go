package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", "complaintdesk", time.Hour)

	for _, kind := range []Kind{KindStudent, KindTeacher, KindAdmin} {
		t.Run(string(kind), func(t *testing.T) {
			in := Identity{Kind: kind, ID: 42, Identifier: "X42", Name: "Someone"}
			token, expiresAt, err := svc.Issue(in)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

			out, err := svc.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, NewTokenService("s", "", 0).TTL())
}

func TestTokenService_IssueRejectsIncompleteIdentity(t *testing.T) {
	svc := NewTokenService("test-secret", "", time.Hour)

	_, _, err := svc.Issue(Identity{Kind: "janitor", ID: 1})
	assert.Error(t, err)
	_, _, err = svc.Issue(Identity{Kind: KindStudent})
	assert.Error(t, err)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("test-secret", "", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.Issue(Identity{Kind: KindStudent, ID: 1, Identifier: "R1", Name: "A"})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", "", time.Hour)
	verifier := NewTokenService("secret-b", "", time.Hour)

	token, _, err := issuer.Issue(Identity{Kind: KindAdmin, ID: 1, Identifier: "root", Name: "Root"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	other := NewTokenService("secret", "someone-else", time.Hour)
	svc := NewTokenService("secret", "complaintdesk", time.Hour)

	token, _, err := other.Issue(Identity{Kind: KindTeacher, ID: 3, Identifier: "T3", Name: "T"})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewTokenService("secret", "", time.Hour)
	claims := &Claims{
		Kind: KindAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Garbage(t *testing.T) {
	svc := NewTokenService("secret", "", time.Hour)
	_, err := svc.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsIdentityRejectsBadSubject(t *testing.T) {
	c := &Claims{Kind: KindStudent, RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.Identity()
	assert.ErrorIs(t, err, ErrInvalidToken)

	c = &Claims{Kind: "ghost", RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}
	_, err = c.Identity()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
