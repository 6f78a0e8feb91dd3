package models

// ProfileDocument holds a user, group, or project profile. The pair
// (userid, title) is unique across the profile collection.
type ProfileDocument struct {
	Base               `bson:",inline"`
	UserID             string                       `bson:"userid"`
	Permissions        map[string]ProfilePermission `bson:"permissions,omitempty"`
	DefaultPermissions ProfilePermission            `bson:"defpermissions"`
	Title              string                       `bson:"title"`
	Description        string                       `bson:"description"`
	Channels           []DocumentReference          `bson:"channels,omitempty"`
	Tags               []WeightedValue              `bson:"tags,omitempty"`
	TagFilter          []DocumentReference          `bson:"tagfilter,omitempty"`
}

// Permission resolves the effective profile permission for userid.
func (p *ProfileDocument) Permission(userid string) ProfilePermission {
	return EffectiveProfilePermission(userid, p.Permissions, p.DefaultPermissions)
}
