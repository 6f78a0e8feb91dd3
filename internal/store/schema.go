// Package store implements the generic typed collection accessor every
// domain collection is built on: insert with idempotent index provisioning,
// find-one, existence checks, and atomic in-place updates.
package store

import "strings"

// IndexKind selects the ordering or kind of one indexed field.
type IndexKind int

const (
	Ascending IndexKind = iota
	Descending
	FullText
)

// Key is one field of an index declaration.
type Key struct {
	Field string
	Kind  IndexKind
}

// Index declares one required index over a collection.
type Index struct {
	Keys   []Key
	Unique bool
}

// Name derives a stable index name from the key list, mirroring the
// server's default naming so declared and existing indexes can be matched
// by name alone.
func (i Index) Name() string {
	parts := make([]string, 0, len(i.Keys))
	for _, k := range i.Keys {
		switch k.Kind {
		case Descending:
			parts = append(parts, k.Field+"_-1")
		case FullText:
			parts = append(parts, k.Field+"_text")
		default:
			parts = append(parts, k.Field+"_1")
		}
	}
	return strings.Join(parts, "_")
}

// Schema is a collection name plus the fixed list of indices the
// application's access patterns require.
type Schema struct {
	Collection string
	Indexes    []Index
}
