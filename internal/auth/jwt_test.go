package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elijahbrown/collabhub/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("hello@elijahbrown.info", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "hello@elijahbrown.info", claims.Email)
	assert.Equal(t, "collabhub", claims.Issuer)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("hello@elijahbrown.info", "secret", time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := auth.GenerateToken("hello@elijahbrown.info", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, "secret")
	assert.Error(t, err)
}
