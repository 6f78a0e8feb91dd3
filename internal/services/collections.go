package services

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/zalbum/albumdb/internal/config"
	"github.com/zalbum/albumdb/internal/logging"
	"github.com/zalbum/albumdb/internal/models"
	"github.com/zalbum/albumdb/internal/store"
)

// Collections bundles the typed collection clients the services operate on.
// Post collections are not part of the bundle: each channel names its own,
// and PostService opens them on demand through the opener.
type Collections struct {
	Auth      *store.Collection[models.AuthDocument]
	Media     *store.Collection[models.MediaDocument]
	Channels  *store.Collection[models.ChannelDocument]
	Profiles  *store.Collection[models.ProfileDocument]
	Relations *store.Collection[models.RelationDocument]
	Albums    *store.Collection[models.AlbumDocument]

	// Refs knows every collection name that a DocumentReference may point
	// at. Per-channel post collections register here as channels are
	// created or loaded.
	Refs *models.ReferenceValidator
}

// OpenCollections wires typed collection clients over a connected database.
// Opening is lazy: no round trip happens until the first insert, which also
// provisions the declared indexes.
func OpenCollections(db *mongo.Database, cfg *config.Config, log logging.Logger) *Collections {
	driver := func(name string) store.Driver { return store.NewMongoDriver(db, name) }

	authSchema := AuthSchema(cfg.AuthCollection)
	mediaSchema := MediaSchema(cfg.MediaCollection)
	channelSchema := ChannelSchema(cfg.ChannelCollection)
	profileSchema := ProfileSchema(cfg.ProfileCollection)
	relationSchema := RelationSchema(cfg.RelationCollection)
	albumSchema := AlbumSchema(cfg.AlbumCollection)

	return &Collections{
		Auth:      store.NewCollection[models.AuthDocument](driver(cfg.AuthCollection), authSchema, log),
		Media:     store.NewCollection[models.MediaDocument](driver(cfg.MediaCollection), mediaSchema, log),
		Channels:  store.NewCollection[models.ChannelDocument](driver(cfg.ChannelCollection), channelSchema, log),
		Profiles:  store.NewCollection[models.ProfileDocument](driver(cfg.ProfileCollection), profileSchema, log),
		Relations: store.NewCollection[models.RelationDocument](driver(cfg.RelationCollection), relationSchema, log),
		Albums:    store.NewCollection[models.AlbumDocument](driver(cfg.AlbumCollection), albumSchema, log),
		Refs: models.NewReferenceValidator(
			cfg.AuthCollection,
			cfg.MediaCollection,
			cfg.ChannelCollection,
			cfg.ProfileCollection,
			cfg.RelationCollection,
			cfg.AlbumCollection,
		),
	}
}

// NewPostOpener returns a PostOpener backed by the connected database.
// Post collections share the index layout declared by PostSchema; the name
// comes from the channel document at open time.
func NewPostOpener(db *mongo.Database, log logging.Logger) PostOpener {
	return func(name string) *store.Collection[models.PostDocument] {
		return store.NewCollection[models.PostDocument](store.NewMongoDriver(db, name), PostSchema(name), log)
	}
}

// EnsureIndexes provisions the indexes of every bundled collection up
// front. Normal operation does not need this: each collection provisions
// itself on first insert. Operators run it once on fresh clusters so the
// unique constraints exist before any traffic.
func (c *Collections) EnsureIndexes(ctx context.Context) error {
	for _, ensure := range []func(context.Context) error{
		c.Auth.EnsureIndexes,
		c.Media.EnsureIndexes,
		c.Channels.EnsureIndexes,
		c.Profiles.EnsureIndexes,
		c.Relations.EnsureIndexes,
		c.Albums.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}
