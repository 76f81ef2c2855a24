package session

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signToken builds a signed HS256 token. The decoder never checks the
// signature, so any key works for fixtures.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestDecoder_MalformedCredentials(t *testing.T) {
	badJSONPayload := strings.Join([]string{
		base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)),
		base64.RawURLEncoding.EncodeToString([]byte(`not json`)),
		"sig",
	}, ".")

	cases := map[string]string{
		"empty":            "",
		"no dots":          "garbage",
		"two segments":     "a.b",
		"not base64":       "!!!.???.###",
		"payload not json": badJSONPayload,
	}

	decoder := NewDecoder()
	for name, credential := range cases {
		t.Run(name, func(t *testing.T) {
			claims, err := decoder.Decode(credential)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestDecoder_FullClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	credential := signToken(t, jwt.MapClaims{
		"user_id":  int64(7),
		"username": "healthadmin",
		"email":    "admin@healthplatform.com",
		"is_staff": true,
		"exp":      jwt.NewNumericDate(exp),
	})

	claims, err := NewDecoder().Decode(credential)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "healthadmin", claims.Username)
	assert.Equal(t, "admin@healthplatform.com", claims.Email)
	require.NotNil(t, claims.IsStaff)
	assert.True(t, *claims.IsStaff)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestDecoder_MinimalClaims(t *testing.T) {
	credential := signToken(t, jwt.MapClaims{"user_id": int64(12)})

	claims, err := NewDecoder().Decode(credential)
	require.NoError(t, err)
	assert.Equal(t, int64(12), claims.UserID)
	assert.Empty(t, claims.Username)
	assert.Nil(t, claims.IsStaff)
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestDecoder_ExpiredTokenStillDecodes(t *testing.T) {
	credential := signToken(t, jwt.MapClaims{
		"user_id":  int64(3),
		"username": "pat",
		"exp":      jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	claims, err := NewDecoder().Decode(credential)
	require.NoError(t, err)
	assert.Equal(t, "pat", claims.Username)
	assert.False(t, claims.ExpiresAt.IsZero())
}
