package models

// RelationDocument is one user's slice of the relationship graph. The
// userid lists have set semantics: duplicate membership is never meaningful,
// and Normalize enforces it at the write boundary.
type RelationDocument struct {
	Base            `bson:",inline"`
	UserID          string              `bson:"userid"`
	Followers       []string            `bson:"followers,omitempty"`
	Follows         []string            `bson:"follows,omitempty"`
	Projects        []string            `bson:"projects,omitempty"`
	CurrentProjects []string            `bson:"currprojects,omitempty"`
	Groups          []string            `bson:"groups,omitempty"`
	Messages        []DocumentReference `bson:"messages,omitempty"`
	Albums          []DocumentReference `bson:"albums,omitempty"`
	Reactions       []DocumentReference `bson:"reactions,omitempty"`
}

// Normalize removes duplicate userids from the set-semantics lists while
// preserving first-seen order.
func (r *RelationDocument) Normalize() {
	r.Followers = dedupe(r.Followers)
	r.Follows = dedupe(r.Follows)
	r.Projects = dedupe(r.Projects)
	r.CurrentProjects = dedupe(r.CurrentProjects)
	r.Groups = dedupe(r.Groups)
}

func dedupe(xs []string) []string {
	if len(xs) < 2 {
		return xs
	}
	seen := make(map[string]struct{}, len(xs))
	out := xs[:0]
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
