package models

// AlbumDocument is a curated set of media references. The title is globally
// unique across the album collection.
type AlbumDocument struct {
	Base      `bson:",inline"`
	Title     string              `bson:"title"`
	Tags      []WeightedValue     `bson:"tags,omitempty"`
	Text      string              `bson:"text"`
	Media     []DocumentReference `bson:"media,omitempty"`
	Reactions map[string]string   `bson:"reactions,omitempty"`
}
