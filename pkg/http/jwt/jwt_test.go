package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenAndParseToken(t *testing.T) {
	secret := "test-secret"
	aToken, rToken, err := GenToken("idn-1", "rev@x.com", []byte(secret), 30*time.Minute, 120*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, aToken)
	require.NotEmpty(t, rToken)

	claims, err := ParseToken(aToken, secret)
	require.NoError(t, err)
	assert.Equal(t, "idn-1", claims.IdentityId)
	assert.Equal(t, "rev@x.com", claims.Email)
	assert.Equal(t, "draftpad", claims.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	aToken, _, err := GenToken("idn-1", "rev@x.com", []byte("secret-a"), 30*time.Minute, 120*time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(aToken, "secret-b")
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", "secret")
	assert.Error(t, err)
}
