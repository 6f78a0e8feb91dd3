package store

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Driver is the narrow contract Collection needs from the underlying
// document store. The production implementation wraps a mongo collection;
// tests substitute an in-memory fake.
//
// Implementations map their errors onto the sentinels in internal/common:
// ErrorNotFound for missing documents, ErrorAlreadyExists for unique-key
// conflicts, ErrorTimeout for exceeded deadlines, and ErrorConnection when
// the cluster is unreachable.
type Driver interface {
	// InsertOne stores doc and returns the identifier the store assigned.
	InsertOne(ctx context.Context, doc any) (bson.ObjectID, error)

	// FindOne evaluates filter and decodes the first match into out.
	FindOne(ctx context.Context, filter any, out any) error

	// UpdateOne applies a single atomic update to the first match.
	UpdateOne(ctx context.Context, filter any, update any) error

	// ListIndexNames returns the names of the indexes that currently exist.
	ListIndexNames(ctx context.Context) ([]string, error)

	// CreateIndex creates idx. A store response indicating the index
	// already exists is success, not an error, so concurrent provisioning
	// attempts stay race-free.
	CreateIndex(ctx context.Context, idx Index) error
}
