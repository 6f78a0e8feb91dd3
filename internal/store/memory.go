package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/zalbum/albumdb/internal/common"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryDriver implements Driver against process memory. It exists for
// tests and local development; it honours the same contract the mongo
// driver does, including unique-index enforcement and atomic updates, and
// supports the update operators the services use ($set, $push, $addToSet,
// $pull) with at most one dotted path level.
type MemoryDriver struct {
	mu      sync.Mutex
	docs    []bson.M
	indexes map[string]Index
}

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{indexes: map[string]Index{}}
}

func (d *MemoryDriver) InsertOne(_ context.Context, doc any) (bson.ObjectID, error) {
	m, err := toBsonM(doc)
	if err != nil {
		return bson.NilObjectID, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, idx := range d.indexes {
		if !idx.Unique {
			continue
		}
		for _, existing := range d.docs {
			if matchesKeys(existing, m, idx.Keys) {
				return bson.NilObjectID, fmt.Errorf("%w: index %s", common.ErrorAlreadyExists, idx.Name())
			}
		}
	}

	id := bson.NewObjectID()
	m["_id"] = id
	d.docs = append(d.docs, m)
	return id, nil
}

func (d *MemoryDriver) FindOne(_ context.Context, filter any, out any) error {
	f, err := toBsonM(filter)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, doc := range d.docs {
		if matchesFilter(doc, f) {
			raw, err := bson.Marshal(doc)
			if err != nil {
				return err
			}
			return bson.Unmarshal(raw, out)
		}
	}
	return common.ErrorNotFound
}

func (d *MemoryDriver) UpdateOne(_ context.Context, filter any, update any) error {
	f, err := toBsonM(filter)
	if err != nil {
		return err
	}
	u, err := toBsonM(update)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, doc := range d.docs {
		if !matchesFilter(doc, f) {
			continue
		}
		return applyUpdate(doc, u)
	}
	return common.ErrorNotFound
}

func (d *MemoryDriver) ListIndexNames(_ context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, 0, len(d.indexes))
	for name := range d.indexes {
		names = append(names, name)
	}
	return names, nil
}

func (d *MemoryDriver) CreateIndex(_ context.Context, idx Index) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	// Re-creating an existing index is success, like the server.
	d.indexes[idx.Name()] = idx
	return nil
}

// Count reports the number of stored documents.
func (d *MemoryDriver) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.docs)
}

func toBsonM(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalizing document: %w", err)
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("normalizing document: %w", err)
	}
	return m, nil
}

func matchesFilter(doc, filter bson.M) bool {
	for field, want := range filter {
		got, ok := lookupPath(doc, field)
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func matchesKeys(doc, candidate bson.M, keys []Key) bool {
	for _, k := range keys {
		a, aok := lookupPath(doc, k.Field)
		b, bok := lookupPath(candidate, k.Field)
		if !aok || !bok || !valuesEqual(a, b) {
			return false
		}
	}
	return true
}

func applyUpdate(doc, update bson.M) error {
	for op, args := range update {
		fields, ok := args.(bson.M)
		if !ok {
			return fmt.Errorf("unsupported update arguments %T", args)
		}
		for path, value := range fields {
			switch op {
			case "$set":
				setPath(doc, path, value)
			case "$push":
				arr, _ := resolveArray(doc, path)
				setPath(doc, path, append(arr, value))
			case "$addToSet":
				arr, _ := resolveArray(doc, path)
				if !arrayContains(arr, value) {
					arr = append(arr, value)
				}
				setPath(doc, path, arr)
			case "$pull":
				arr, _ := resolveArray(doc, path)
				kept := make(bson.A, 0, len(arr))
				for _, item := range arr {
					if !valuesEqual(item, value) {
						kept = append(kept, item)
					}
				}
				setPath(doc, path, kept)
			default:
				return fmt.Errorf("unsupported update operator %q", op)
			}
		}
	}
	return nil
}

func resolveArray(doc bson.M, path string) (bson.A, bool) {
	v, ok := lookupPath(doc, path)
	if !ok || v == nil {
		return bson.A{}, false
	}
	arr, ok := v.(bson.A)
	return arr, ok
}

func arrayContains(arr bson.A, value any) bool {
	for _, item := range arr {
		if valuesEqual(item, value) {
			return true
		}
	}
	return false
}

func lookupPath(doc bson.M, path string) (any, bool) {
	head, rest, nested := strings.Cut(path, ".")
	v, ok := doc[head]
	if !ok {
		return nil, false
	}
	if !nested {
		return v, true
	}
	sub, ok := v.(bson.M)
	if !ok {
		return nil, false
	}
	return lookupPath(sub, rest)
}

func setPath(doc bson.M, path string, value any) {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		doc[head] = value
		return
	}
	sub, ok := doc[head].(bson.M)
	if !ok {
		sub = bson.M{}
		doc[head] = sub
	}
	setPath(sub, rest, value)
}

// valuesEqual compares two normalized BSON values, tolerating the numeric
// type spread Marshal produces (int32 vs int64 vs float64).
func valuesEqual(a, b any) bool {
	if na, ok := asFloat(a); ok {
		if nb, ok := asFloat(b); ok {
			return na == nb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
