package strgen

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const alphanum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns a random string of the given length drawn from
// ASCII letters and digits. Used for email verification codes.
func RandomString(size int) string {
	var b strings.Builder
	b.Grow(size)
	max := big.NewInt(int64(len(alphanum)))
	for range size {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failures are unrecoverable process-level problems
			panic(err)
		}
		b.WriteByte(alphanum[n.Int64()])
	}
	return b.String()
}

// SHA1Hex returns the lower-case hex SHA-1 digest of input, truncated to
// size hex digits (40 maximum).
func SHA1Hex(input string, size int) string {
	sum := sha1.Sum([]byte(input))
	digest := hex.EncodeToString(sum[:])
	if size > 0 && size < len(digest) {
		digest = digest[:size]
	}
	return digest
}

// UniqueID returns an upper-case hex identifier of the given length (40
// maximum), derived from a random UUID. Session keys are generated with
// the full 40 digits.
func UniqueID(size int) string {
	return strings.ToUpper(SHA1Hex(uuid.NewString(), size))
}
