package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/logging"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collection is a typed accessor for one named collection. Every write goes
// through Insert, which guarantees the declared indexes exist as a
// post-condition; a provisioning failure degrades query performance, not
// correctness, so it is logged and retried on the next insert rather than
// rolling back durable documents.
type Collection[T any] struct {
	schema Schema
	drv    Driver
	log    logging.Logger

	// ensured short-circuits the index metadata round trip once the
	// declared indexes have been confirmed present. Reset on provisioning
	// failure so the next insert retries.
	ensured atomic.Bool
}

// NewCollection binds a typed collection client to drv under the declared
// schema.
func NewCollection[T any](drv Driver, schema Schema, log logging.Logger) *Collection[T] {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Collection[T]{
		schema: schema,
		drv:    drv,
		log:    log.With("collection", schema.Collection),
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.schema.Collection
}

// Insert stores doc and then ensures the declared indexes exist. The insert
// is durable once the store assigns an identifier; an index provisioning
// failure afterwards never rolls it back.
func (c *Collection[T]) Insert(ctx context.Context, doc *T) (bson.ObjectID, error) {
	id, err := c.drv.InsertOne(ctx, doc)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("insert into %s: %w", c.schema.Collection, err)
	}

	if !c.ensured.Load() {
		if err := c.EnsureIndexes(ctx); err != nil {
			c.log.Warn(ctx, "index provisioning failed after insert, will retry", "err", err)
		}
	}
	return id, nil
}

// FindOne returns the first document matching filter, or ErrorNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, filter any) (*T, error) {
	doc := new(T)
	if err := c.drv.FindOne(ctx, filter, doc); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("find in %s: %w", c.schema.Collection, err)
	}
	return doc, nil
}

// Exists reports whether any document matches filter.
func (c *Collection[T]) Exists(ctx context.Context, filter any) (bool, error) {
	_, err := c.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateOne applies a single atomic update (e.g. a $push append or $set) to
// the first document matching filter. Concurrent updates to the same
// document never lose writes: the store serializes single-document updates.
func (c *Collection[T]) UpdateOne(ctx context.Context, filter, update any) error {
	if err := c.drv.UpdateOne(ctx, filter, update); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("update in %s: %w", c.schema.Collection, err)
	}
	return nil
}

// EnsureIndexes creates any declared index that does not exist yet. It is
// idempotent and safe under concurrent callers: an "already exists"
// response from the store counts as success. It can be invoked standalone
// at provisioning time so steady-state inserts skip the metadata check.
func (c *Collection[T]) EnsureIndexes(ctx context.Context) error {
	existing, err := c.drv.ListIndexNames(ctx)
	if err != nil {
		c.ensured.Store(false)
		return fmt.Errorf("%w: listing indexes of %s: %v", common.ErrorIndexProvisioning, c.schema.Collection, err)
	}

	present := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		present[name] = struct{}{}
	}

	for _, idx := range c.schema.Indexes {
		if _, ok := present[idx.Name()]; ok {
			continue
		}
		if err := c.drv.CreateIndex(ctx, idx); err != nil {
			c.ensured.Store(false)
			return fmt.Errorf("%w: creating %s on %s: %v", common.ErrorIndexProvisioning, idx.Name(), c.schema.Collection, err)
		}
	}

	c.ensured.Store(true)
	return nil
}
