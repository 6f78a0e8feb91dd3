package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalbum/albumdb/internal/common"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoDriver adapts one mongo collection to the Driver contract.
type MongoDriver struct {
	coll *mongo.Collection
}

func NewMongoDriver(db *mongo.Database, collection string) *MongoDriver {
	return &MongoDriver{coll: db.Collection(collection)}
}

func (d *MongoDriver) InsertOne(ctx context.Context, doc any) (bson.ObjectID, error) {
	res, err := d.coll.InsertOne(ctx, doc)
	if err != nil {
		return bson.NilObjectID, mapError(err)
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (d *MongoDriver) FindOne(ctx context.Context, filter any, out any) error {
	if err := d.coll.FindOne(ctx, filter).Decode(out); err != nil {
		return mapError(err)
	}
	return nil
}

func (d *MongoDriver) UpdateOne(ctx context.Context, filter any, update any) error {
	res, err := d.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (d *MongoDriver) ListIndexNames(ctx context.Context) ([]string, error) {
	cur, err := d.coll.Indexes().List(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	var specs []bson.M
	if err := cur.All(ctx, &specs); err != nil {
		return nil, mapError(err)
	}

	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		if name, ok := spec["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (d *MongoDriver) CreateIndex(ctx context.Context, idx Index) error {
	keys := make(bson.D, 0, len(idx.Keys))
	for _, k := range idx.Keys {
		switch k.Kind {
		case Descending:
			keys = append(keys, bson.E{Key: k.Field, Value: -1})
		case FullText:
			keys = append(keys, bson.E{Key: k.Field, Value: "text"})
		default:
			keys = append(keys, bson.E{Key: k.Field, Value: 1})
		}
	}

	opts := options.Index().SetName(idx.Name())
	if idx.Unique {
		opts = opts.SetUnique(true)
	}

	_, err := d.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil && !indexExists(err) {
		return mapError(err)
	}
	return nil
}

// indexExists recognizes the server responses for an index that is already
// present: IndexAlreadyExists (68), IndexOptionsConflict (85) and
// IndexKeySpecsConflict (86). Concurrent provisioners racing the same
// creation land here and treat it as success.
func indexExists(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(68) || se.HasErrorCode(85) || se.HasErrorCode(86)
	}
	return false
}

// mapError translates driver errors onto the shared sentinels so callers
// can match with errors.Is without importing the driver.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return common.ErrorNotFound
	case errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", common.ErrorTimeout, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", common.ErrorAlreadyExists, err)
	case mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %v", common.ErrorConnection, err)
	default:
		return err
	}
}
