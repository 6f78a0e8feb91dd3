package models

// MediaType tags the payload format of a media document and selects the
// codec rule applied to it.
type MediaType int

const (
	MediaNone MediaType = iota
	MediaLink
	MediaText
	MediaImage
	MediaVideo
	MediaSound
)

func (t MediaType) String() string {
	switch t {
	case MediaNone:
		return "NONE"
	case MediaLink:
		return "LINK"
	case MediaText:
		return "TEXT"
	case MediaImage:
		return "IMAGE"
	case MediaVideo:
		return "VIDEO"
	case MediaSound:
		return "SOUND"
	default:
		return "UNKNOWN"
	}
}

// MediaDocument describes one media object. URI points at the payload in
// the blob store; the payload itself never lives in the collection.
type MediaDocument struct {
	Base      `bson:",inline"`
	Credits   []UserValue     `bson:"credits"`
	Title     string          `bson:"title"`
	Tags      []WeightedValue `bson:"tags"`
	Type      MediaType       `bson:"type"`
	URI       string          `bson:"uri"`
	Timestamp int64           `bson:"timestamp"`
}

// MediaBoard is a user-collected set of media references inside a channel.
type MediaBoard struct {
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	Media       []DocumentReference `bson:"media"`
}
