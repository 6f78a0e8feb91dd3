package models

// AuthDocument stores one account's credentials and history. The userid is
// unique across the auth collection; only the password hash is ever stored.
type AuthDocument struct {
	Base          `bson:",inline"`
	UserID        string                `bson:"userid"`
	PasswordHash  string                `bson:"password"`
	AuthRecords   []AuthRecord          `bson:"authrecs"`
	StatusRecords []AccountStatusRecord `bson:"statusrecs"`
}
