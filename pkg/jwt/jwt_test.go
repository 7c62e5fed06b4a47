package jwt_test

import (
	"testing"

	"go-maquis-pos/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := jwt.GenerateToken("u-1", "Awa", "SELLER")
	require.NoError(t, err)

	claims, err := jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Awa", claims.Name)
	assert.Equal(t, "SELLER", claims.Role)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := jwt.ValidateToken("definitely.not.a-jwt")
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := jwt.GenerateToken("u-1", "Awa", "SELLER")
	require.NoError(t, err)

	_, err = jwt.ValidateToken(token + "x")
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
}
