package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "degreeaudit/pkg/domain-errors"
)

const (
	testKey      = "test-signing-key"
	testIssuer   = "degreeaudit"
	testAudience = "degreeaudit-api"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewService(testKey, testIssuer, testAudience)

	token, err := svc.IssueToken("advisor-7", "audit", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "advisor-7", claims.Subject)
	assert.Equal(t, "audit", claims.Scope)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewService(testKey, testIssuer, testAudience)
	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid token")

	issue := func(t *testing.T, s *Service, subject string) string {
		t.Helper()
		token, err := s.IssueToken(subject, "", time.Hour)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  error
	}{
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not-a-jwt" },
			want:  invalid,
		},
		{
			name: "signed with another key",
			token: func(t *testing.T) string {
				return issue(t, NewService("another-key", testIssuer, testAudience), "advisor-7")
			},
			want: invalid,
		},
		{
			name: "other audience",
			token: func(t *testing.T) string {
				return issue(t, NewService(testKey, testIssuer, "registrar"), "advisor-7")
			},
			want: invalid,
		},
		{
			name: "other issuer",
			token: func(t *testing.T) string {
				return issue(t, NewService(testKey, "someone-else", testAudience), "advisor-7")
			},
			want: invalid,
		},
		{
			name:  "empty subject",
			token: func(t *testing.T) string { return issue(t, svc, "") },
			want:  dErrors.New(dErrors.CodeUnauthorized, "invalid token claims"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token(t))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewService(testKey, testIssuer, testAudience)
	issued := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.IssueToken("advisor-7", "", 15*time.Minute)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(10 * time.Minute) }
	_, err = svc.ValidateToken(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(time.Hour) }
	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}
