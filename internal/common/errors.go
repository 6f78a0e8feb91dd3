// Package common defines shared sentinel errors used across the albumdb
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Cluster connection and secret store errors.
	ErrorNotConfigured    = errors.New("cluster connection is not configured")
	ErrorDecryptionFailed = errors.New("decryption failed")
	ErrorConnection       = errors.New("cluster unreachable")
	ErrorTimeout          = errors.New("operation timed out")
	ErrorNotConnected     = errors.New("not connected to cluster")

	// Domain validation errors.
	ErrorDuplicateUser        = errors.New("userid already exists")
	ErrorUserNotFound         = errors.New("user does not exist")
	ErrorInvalidReference     = errors.New("invalid document reference")
	ErrorUnsupportedMediaType = errors.New("unsupported media type")
	ErrorValidation           = errors.New("validation error")

	// ErrorIndexProvisioning is non-fatal: inserts log it and continue,
	// leaving the indexes for the next ensure attempt.
	ErrorIndexProvisioning = errors.New("index provisioning failed")

	// Auth errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInvalidToken = errors.New("invalid token")
)
