package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalbum/albumdb/internal/common"
)

var secretKey = []byte("test-secret")

func TestGenerateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("alice", secretKey, time.Minute)
	require.NoError(t, err)

	userID, err := GetUserIDFromToken(token, secretKey)
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

func TestGetUserIDFromToken_WrongKey(t *testing.T) {
	token, err := GenerateToken("alice", secretKey, time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, common.ErrorInvalidToken)
}

func TestGetUserIDFromToken_Expired(t *testing.T) {
	token, err := GenerateToken("alice", secretKey, -time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, secretKey)
	assert.ErrorIs(t, err, common.ErrorInvalidToken)
}

func TestGetUserIDFromToken_Garbage(t *testing.T) {
	_, err := GetUserIDFromToken("not.a.token", secretKey)
	assert.ErrorIs(t, err, common.ErrorInvalidToken)
}
