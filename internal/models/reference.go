package models

import (
	"fmt"
	"sync"

	"github.com/zalbum/albumdb/internal/common"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// DocumentReference is a typed, non-owning pointer to a document in a named
// collection. It is the only cross-collection linking mechanism; resolution
// is lazy and performed by readers, and a dangling reference is a tolerated
// state, not an error.
type DocumentReference struct {
	Collection string        `bson:"collection"`
	DocID      bson.ObjectID `bson:"docid"`
	Context    string        `bson:"context"`
}

// ReferenceValidator knows the recognized domain collection names.
// Per-channel post collections are created at runtime, so channel
// provisioning registers their names with Allow.
type ReferenceValidator struct {
	mu    sync.RWMutex
	known map[string]struct{}
}

// NewReferenceValidator recognizes the given collection names.
func NewReferenceValidator(collections ...string) *ReferenceValidator {
	known := make(map[string]struct{}, len(collections))
	for _, name := range collections {
		known[name] = struct{}{}
	}
	return &ReferenceValidator{known: known}
}

// Allow registers an additional recognized collection name.
func (v *ReferenceValidator) Allow(collection string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.known[collection] = struct{}{}
}

// Validate checks that ref points at a recognized collection and carries a
// syntactically valid document id. It never dereferences the target.
func (v *ReferenceValidator) Validate(ref DocumentReference) error {
	v.mu.RLock()
	_, ok := v.known[ref.Collection]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: unknown collection %q", common.ErrorInvalidReference, ref.Collection)
	}
	if ref.DocID.IsZero() {
		return fmt.Errorf("%w: zero document id for collection %q", common.ErrorInvalidReference, ref.Collection)
	}
	return nil
}

// ValidateAll validates every reference in refs, failing on the first bad
// one so nothing is written after a rejection.
func (v *ReferenceValidator) ValidateAll(refs []DocumentReference) error {
	for _, ref := range refs {
		if err := v.Validate(ref); err != nil {
			return err
		}
	}
	return nil
}
