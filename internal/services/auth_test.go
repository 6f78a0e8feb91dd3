package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalbum/albumdb/internal/auth"
	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/config"
	"github.com/zalbum/albumdb/internal/cryptox"
	"github.com/zalbum/albumdb/internal/models"
	"github.com/zalbum/albumdb/internal/store"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	cfg := testConfig()
	users := store.NewCollection[models.AuthDocument](store.NewMemoryDriver(), AuthSchema(cfg.AuthCollection), nil)
	s := NewAuthService(users, cfg)
	// Fast argon2 parameters keep the suite quick.
	s.hasher = &cryptox.PasswordHasher{Time: 1, Memory: 64, Threads: 1, KeyLen: 16, SaltLen: 8}
	return s
}

func TestAuthService_AddUser(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	id, err := s.AddUser(ctx, "alice", []byte("correct horse"))
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	ok, err := s.HasUser(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasUser(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_AddUser_Duplicate(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.AddUser(ctx, "alice", []byte("pw1"))
	require.NoError(t, err)

	_, err = s.AddUser(ctx, "alice", []byte("pw2"))
	assert.ErrorIs(t, err, common.ErrorDuplicateUser)
}

func TestAuthService_VerifyUser(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.AddUser(ctx, "alice", []byte("correct horse"))
	require.NoError(t, err)

	ok, err := s.VerifyUser(ctx, "alice", []byte("correct horse"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.VerifyUser(ctx, "alice", []byte("wrong"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.VerifyUser(ctx, "nobody", []byte("anything"))
	assert.ErrorIs(t, err, common.ErrorUserNotFound)
}

func TestAuthService_LogAuthentication(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.AddUser(ctx, "alice", []byte("pw"))
	require.NoError(t, err)

	require.NoError(t, s.LogAuthentication(ctx, "alice", "10.0.0.1"))
	require.NoError(t, s.LogAuthentication(ctx, "alice", "10.0.0.2"))

	user, err := s.users.FindOne(ctx, map[string]string{"userid": "alice"})
	require.NoError(t, err)
	require.Len(t, user.AuthRecords, 2)
	assert.Equal(t, "10.0.0.1", user.AuthRecords[0].IP)
	assert.Equal(t, "10.0.0.2", user.AuthRecords[1].IP)

	err = s.LogAuthentication(ctx, "nobody", "10.0.0.3")
	assert.ErrorIs(t, err, common.ErrorUserNotFound)
}

func TestAuthService_SetStatus(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.AddUser(ctx, "alice", []byte("pw"))
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(ctx, "alice", models.StatusDeactivated))

	user, err := s.users.FindOne(ctx, map[string]string{"userid": "alice"})
	require.NoError(t, err)
	// Registration writes the initial ACTIVE record.
	require.Len(t, user.StatusRecords, 2)
	assert.Equal(t, models.StatusActive, user.StatusRecords[0].Status)
	assert.Equal(t, models.StatusDeactivated, user.StatusRecords[1].Status)
}

func TestAuthService_Login(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.AddUser(ctx, "alice", []byte("correct horse"))
	require.NoError(t, err)

	token, err := s.Login(ctx, "alice", []byte("correct horse"), "10.0.0.1")
	require.NoError(t, err)

	userid, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", userid)

	user, err := s.users.FindOne(ctx, map[string]string{"userid": "alice"})
	require.NoError(t, err)
	assert.Len(t, user.AuthRecords, 1)
}

func TestAuthService_Login_Rejections(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	_, err := s.AddUser(ctx, "alice", []byte("correct horse"))
	require.NoError(t, err)

	_, err = s.Login(ctx, "alice", []byte("wrong"), "10.0.0.1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// Unknown userids fail the same way as wrong passwords.
	_, err = s.Login(ctx, "nobody", []byte("correct horse"), "10.0.0.1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
