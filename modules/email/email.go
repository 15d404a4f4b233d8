package email

import (
	"regexp"
	"strings"
	"time"

	"github.com/ngavatar/ngavatar/pkg/strgen"
)

// Email is an address bound to an account. Hash identifies the address
// publicly (avatar lookups) without exposing it; an address serves
// avatars only once verified.
type Email struct {
	ID            int64     `db:"id"`
	AccountID     int64     `db:"account_id"`
	Address       string    `db:"address"`
	Hash          string    `db:"hash"`
	Verified      bool      `db:"verified"`
	VerifyCode    string    `db:"verify_code"`
	CodeExpiresAt time.Time `db:"code_expires_at"`
	AvatarID      *int64    `db:"avatar_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// hashLength is the hex length of address hashes.
const hashLength = 40

var addressRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeAddress canonicalizes an address for storage and hashing.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ValidAddress reports whether the address looks like an email address.
func ValidAddress(address string) bool {
	return addressRegex.MatchString(NormalizeAddress(address))
}

// HashAddress computes the public lookup hash of an address. The
// address is normalized first so lookups are case-insensitive.
func HashAddress(address string) string {
	return strgen.SHA1Hex(NormalizeAddress(address), hashLength)
}
