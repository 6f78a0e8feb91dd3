package models

// ChannelPermission is a bitmask of capabilities scoped to one channel.
// ChannelAdmin overrides every check; it is not required to literally set
// the other bits.
type ChannelPermission uint32

const (
	ChannelRead        ChannelPermission = 1 << iota // read, edit nothing
	ChannelPost                                      // make/update own posts
	ChannelPostAdmin                                 // ChannelPost plus update/delete all posts
	ChannelBoard                                     // make/update own media boards
	ChannelBoardAdmin                                // ChannelBoard plus update/delete all boards
	ChannelTitle                                     // edit channel title
	ChannelDescription                               // edit channel description
	ChannelTag                                       // edit tag filter and tags on all posts
	ChannelAdmin                                     // everything, set permissions, delete channel

	// ChannelNone cannot access the channel at all.
	ChannelNone ChannelPermission = 0
)

// Has reports whether the capability flag is granted. ChannelAdmin
// short-circuits every check to true.
func (p ChannelPermission) Has(flag ChannelPermission) bool {
	if p&ChannelAdmin != 0 {
		return true
	}
	return p&flag != 0
}

// ProfilePermission is a bitmask of capabilities scoped to one profile.
type ProfilePermission uint32

const (
	ProfileRead         ProfilePermission = 1 << iota // read/view available channels
	ProfileChannel                                    // create own channels (user becomes channel admin)
	ProfileChannelAdmin                               // ProfileChannel plus mandatory admin in all channels
	ProfileTitle                                      // edit profile title
	ProfileDescription                                // edit profile description
	ProfileTag                                        // edit tag filter
	ProfileAdmin                                      // everything, set permissions, delete profile

	// ProfileNone cannot access the profile at all.
	ProfileNone ProfilePermission = 0
)

// Has reports whether the capability flag is granted. ProfileAdmin
// short-circuits every check to true.
func (p ProfilePermission) Has(flag ProfilePermission) bool {
	if p&ProfileAdmin != 0 {
		return true
	}
	return p&flag != 0
}

// EffectiveChannelPermission resolves a user's permission on a channel:
// the explicit per-user entry when present, else the channel default.
// Absence of an entry is not an error.
func EffectiveChannelPermission(userid string, explicit map[string]ChannelPermission, def ChannelPermission) ChannelPermission {
	if p, ok := explicit[userid]; ok {
		return p
	}
	return def
}

// EffectiveProfilePermission resolves a user's permission on a profile.
func EffectiveProfilePermission(userid string, explicit map[string]ProfilePermission, def ProfilePermission) ProfilePermission {
	if p, ok := explicit[userid]; ok {
		return p
	}
	return def
}
