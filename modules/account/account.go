package account

import "time"

// Account is a registered user account. PasswordHash is a bcrypt hash,
// never the raw password.
type Account struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// SessionUIDAttr is the session attribute holding the authenticated
// account's ID.
const SessionUIDAttr = "UID"
