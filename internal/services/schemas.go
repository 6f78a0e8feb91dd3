// Package services contains the domain operations of the persistence layer:
// authentication, media, posts, channels, profiles, relations, and albums.
// Each service owns one collection client and consults the permission and
// reference models before writing.
package services

import "github.com/zalbum/albumdb/internal/store"

// The schemas below are the fixed access patterns the application needs;
// this layer is not a query engine and declares nothing beyond them.

func AuthSchema(collection string) store.Schema {
	return store.Schema{
		Collection: collection,
		Indexes: []store.Index{
			{Keys: []store.Key{{Field: "userid"}}, Unique: true},
		},
	}
}

func MediaSchema(collection string) store.Schema {
	return store.Schema{
		Collection: collection,
		Indexes: []store.Index{
			{Keys: []store.Key{
				{Field: "credits.userid"},
				{Field: "title"},
				{Field: "type"},
				{Field: "tags.value"},
			}},
		},
	}
}

// PostSchema declares the indices of one per-channel post collection.
func PostSchema(collection string) store.Schema {
	return store.Schema{
		Collection: collection,
		Indexes: []store.Index{
			{Keys: []store.Key{
				{Field: "userid"},
				{Field: "title"},
				{Field: "media.context"},
			}},
			{Keys: []store.Key{
				{Field: "userid", Kind: store.FullText},
				{Field: "title", Kind: store.FullText},
				{Field: "media.context", Kind: store.FullText},
			}},
		},
	}
}

func ChannelSchema(collection string) store.Schema {
	return store.Schema{
		Collection: collection,
		Indexes: []store.Index{
			{Keys: []store.Key{{Field: "userid"}}},
		},
	}
}

func ProfileSchema(collection string) store.Schema {
	return store.Schema{
		Collection: collection,
		Indexes: []store.Index{
			{Keys: []store.Key{{Field: "userid"}, {Field: "title"}}, Unique: true},
			{Keys: []store.Key{
				{Field: "userid", Kind: store.FullText},
				{Field: "title", Kind: store.FullText},
			}},
		},
	}
}

func RelationSchema(collection string) store.Schema {
	return store.Schema{
		Collection: collection,
		Indexes: []store.Index{
			{Keys: []store.Key{{Field: "userid"}}, Unique: true},
		},
	}
}

func AlbumSchema(collection string) store.Schema {
	return store.Schema{
		Collection: collection,
		Indexes: []store.Index{
			{Keys: []store.Key{{Field: "title"}}, Unique: true},
		},
	}
}
