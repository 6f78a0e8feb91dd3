package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zalbum/albumdb/internal/auth"
	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/config"
	"github.com/zalbum/albumdb/internal/cryptox"
	"github.com/zalbum/albumdb/internal/models"
	"github.com/zalbum/albumdb/internal/store"
)

// AuthService handles account registration, credential verification, and
// the append-only login and status histories. Passwords never leave this
// service: only the argon2id hash is stored, and verification is
// constant-time.
type AuthService struct {
	users                       *store.Collection[models.AuthDocument]
	hasher                      *cryptox.PasswordHasher
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService over the auth collection.
func NewAuthService(users *store.Collection[models.AuthDocument], cfg *config.Config) *AuthService {
	return &AuthService{
		users:                       users,
		hasher:                      cryptox.ModerateHasher(),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// AddUser registers a new account. The userid must be unique; a second
// registration yields ErrorDuplicateUser. Uniqueness is enforced by the
// collection's unique index, so concurrent registrations cannot both
// succeed.
func (s *AuthService) AddUser(ctx context.Context, userid string, password []byte) (bson.ObjectID, error) {
	exists, err := s.users.Exists(ctx, bson.M{"userid": userid})
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error checking userid: %w", err)
	}
	if exists {
		return bson.NilObjectID, common.ErrorDuplicateUser
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error hashing password: %w", err)
	}

	doc := &models.AuthDocument{
		UserID:       userid,
		PasswordHash: hash,
		StatusRecords: []models.AccountStatusRecord{
			{Status: models.StatusActive, Timestamp: time.Now().Unix()},
		},
	}
	id, err := s.users.Insert(ctx, doc)
	if err != nil {
		// The unique index catches registrations that raced past the
		// existence check.
		if errors.Is(err, common.ErrorAlreadyExists) {
			return bson.NilObjectID, common.ErrorDuplicateUser
		}
		return bson.NilObjectID, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// HasUser reports whether an account with the given userid exists.
func (s *AuthService) HasUser(ctx context.Context, userid string) (bool, error) {
	return s.users.Exists(ctx, bson.M{"userid": userid})
}

// VerifyUser checks the password candidate against the stored hash. An
// unknown userid yields ErrorUserNotFound; a wrong password yields
// (false, nil) so callers can distinguish the two without inspecting
// error text.
func (s *AuthService) VerifyUser(ctx context.Context, userid string, password []byte) (bool, error) {
	user, err := s.users.FindOne(ctx, bson.M{"userid": userid})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrorUserNotFound
		}
		return false, fmt.Errorf("error loading user: %w", err)
	}
	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return false, fmt.Errorf("error verifying password: %w", err)
	}
	return ok, nil
}

// LogAuthentication appends one login record to the account's history.
// The append is a single atomic update, so concurrent logins never lose
// records.
func (s *AuthService) LogAuthentication(ctx context.Context, userid string, ip string) error {
	rec := models.AuthRecord{IP: ip, Timestamp: time.Now().Unix()}
	err := s.users.UpdateOne(ctx,
		bson.M{"userid": userid},
		bson.M{"$push": bson.M{"authrecs": rec}},
	)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUserNotFound
	}
	return err
}

// SetStatus appends a status record to the account's history. The latest
// record is the account's current status; earlier records are never
// rewritten.
func (s *AuthService) SetStatus(ctx context.Context, userid string, status models.AccountStatus) error {
	rec := models.AccountStatusRecord{Status: status, Timestamp: time.Now().Unix()}
	err := s.users.UpdateOne(ctx,
		bson.M{"userid": userid},
		bson.M{"$push": bson.M{"statusrecs": rec}},
	)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUserNotFound
	}
	return err
}

// Login verifies credentials and, on success, records the login and mints
// an access token. Unknown userids and wrong passwords both yield
// ErrorUnauthorized so login failures do not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, userid string, password []byte, ip string) (string, error) {
	ok, err := s.VerifyUser(ctx, userid, password)
	if err != nil {
		if errors.Is(err, common.ErrorUserNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}
	if err := s.LogAuthentication(ctx, userid, ip); err != nil {
		return "", fmt.Errorf("error recording login: %w", err)
	}
	token, err := auth.GenerateToken(userid, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}
