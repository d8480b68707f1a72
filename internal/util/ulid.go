package util

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewSessionID returns a new ULID string. The random part comes from crypto/rand
// so ids handed to clients cannot be guessed from one another.
func NewSessionID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// IsSessionID reports whether s is a well-formed ULID.
func IsSessionID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
