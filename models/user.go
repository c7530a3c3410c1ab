package models

// UserRecord represents a legacy user account.
// FAQ generation identifies callers through the external identity provider
// and never reads this table.
type UserRecord struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash, never serialized
}
