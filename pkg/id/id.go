package id

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// GetUlid returns a lexicographically sortable record id.
func GetUlid() string {
	return ulid.Make().String()
}

// GetUUID returns a random UUID string.
func GetUUID() string {
	return uuid.New().String()
}

// InviteToken returns an opaque, unguessable token for invitation URLs.
// 16 random bytes, base64url without padding: 22 characters.
func InviteToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process has bigger problems
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
