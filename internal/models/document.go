// Package models defines the document shapes stored in the cluster, the
// cross-collection reference type, and the permission bitmasks evaluated
// before channel and profile mutations.
package models

import "go.mongodb.org/mongo-driver/v2/bson"

// WeightedValue is a (value, weight) pair used for tag histograms and
// labeled metrics.
type WeightedValue struct {
	Value  string  `bson:"value"`
	Weight float64 `bson:"weight"`
}

// UserValue associates a userid with an arbitrary string, e.g. a media
// credit line.
type UserValue struct {
	UserID string `bson:"userid"`
	Value  string `bson:"value"`
}

// Base carries the fields shared by every stored document. It is embedded
// inline so the one schema definition holds for all collections. ID is
// assigned by the store on insert and immutable thereafter.
type Base struct {
	ID      bson.ObjectID   `bson:"_id,omitempty"`
	Metrics []WeightedValue `bson:"metrics,omitempty"`
}

// AccountStatus enumerates the lifecycle states of an account.
type AccountStatus int

const (
	StatusActive AccountStatus = iota
	StatusDeactivated
	StatusBanned
)

func (s AccountStatus) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusDeactivated:
		return "DEACTIVATED"
	case StatusBanned:
		return "BANNED"
	default:
		return "UNKNOWN"
	}
}

// AccountStatusRecord is one entry of an account's status history.
type AccountStatusRecord struct {
	Status    AccountStatus `bson:"status"`
	Timestamp int64         `bson:"timestamp"`
}

// AuthRecord is one entry of an account's login history.
type AuthRecord struct {
	IP        string `bson:"ip"`
	Timestamp int64  `bson:"timestamp"`
}

// EncryptedText is a text body that may be encrypted. Whether encryption is
// required is channel configuration, not a per-post guess; the flag records
// what was actually done so readers never have to probe the bytes.
type EncryptedText struct {
	Text      []byte `bson:"text"`
	Encrypted bool   `bson:"encrypted"`
}
