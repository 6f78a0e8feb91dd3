package models

import "go.mongodb.org/mongo-driver/v2/bson"

// PostDocument is one post or reply. Root posts have a zero Parent; every
// id in Children references a document in the same post collection.
// Reactions map userid to a reaction id (emoji name or code).
type PostDocument struct {
	Base      `bson:",inline"`
	UserID    string              `bson:"userid"`
	Title     string              `bson:"title"`
	Text      EncryptedText       `bson:"text"`
	Media     []DocumentReference `bson:"media"`
	Timestamp int64               `bson:"timestamp"`
	Reactions map[string]string   `bson:"reactions,omitempty"`
	Children  []bson.ObjectID     `bson:"children,omitempty"`
	Parent    bson.ObjectID       `bson:"parent,omitempty"`
}

// IsRoot reports whether the post starts a thread rather than replying to
// another post.
func (p *PostDocument) IsRoot() bool {
	return p.Parent.IsZero()
}
