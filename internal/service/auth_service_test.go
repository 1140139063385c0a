package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService("clave-de-test")
	id := primitive.NewObjectID()

	token, err := auth.IssueToken(id, RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := auth.ValidateToken(token, RoleUser)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestValidateTokenRejections(t *testing.T) {
	auth := NewAuthService("clave-de-test")
	id := primitive.NewObjectID()

	userToken, err := auth.IssueToken(id, RoleUser)
	require.NoError(t, err)

	otherSecret := NewAuthService("otra-clave")
	foreignToken, err := otherSecret.IssueToken(id, RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantRole string
	}{
		{"rol equivocado", userToken, RoleSeller},
		{"firmado con otra clave", foreignToken, RoleUser},
		{"basura", "no.es.un.jwt", RoleUser},
		{"vacío", "", RoleUser},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.ValidateToken(tc.token, tc.wantRole)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
