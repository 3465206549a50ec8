package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	SetSecret("test-secret")
	defer SetSecret("")

	id := uuid.New()
	token, err := GenerateToken(id, "u1@fleet.test", "U1", "ADMIN", []string{"transfer:approve"}, "v1")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, id, claims.UserID)
	require.Equal(t, []string{"transfer:approve"}, claims.Privileges)
	require.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	SetSecret("one")
	token, err := GenerateToken(uuid.New(), "a@b.c", "A", "", nil, "")
	require.NoError(t, err)

	SetSecret("two")
	defer SetSecret("")
	_, err = ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
