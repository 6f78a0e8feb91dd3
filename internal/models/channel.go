package models

import "go.mongodb.org/mongo-driver/v2/bson"

// ChannelDocument is a message or board space inside a profile. Each
// channel owns a dedicated post collection, named by PostCollection, so
// post traffic never lumps together. Encrypted is channel configuration:
// when set, every post written to the channel must carry encrypted text.
type ChannelDocument struct {
	Base               `bson:",inline"`
	UserID             string                       `bson:"userid"`
	Permissions        map[string]ChannelPermission `bson:"permissions,omitempty"`
	DefaultPermissions ChannelPermission            `bson:"defpermissions"`
	Title              string                       `bson:"title"`
	Description        string                       `bson:"description"`
	PostCollection     string                       `bson:"postcollection"`
	Encrypted          bool                         `bson:"encrypted"`
	MediaBoards        []MediaBoard                 `bson:"mediaboards,omitempty"`
	Tags               []WeightedValue              `bson:"tags,omitempty"`
	TagFilter          []bson.ObjectID              `bson:"tagfilter,omitempty"`
}

// Permission resolves the effective channel permission for userid.
func (c *ChannelDocument) Permission(userid string) ChannelPermission {
	return EffectiveChannelPermission(userid, c.Permissions, c.DefaultPermissions)
}
