// Package security provides identifier generation for requests and enquiries
package security

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GenerateULID generates a new ULID string.
func GenerateULID() string {
	return GenerateULIDAt(time.Now())
}

// GenerateULIDAt generates a ULID for the given instant. IDs generated within
// the same millisecond sort in generation order.
func GenerateULIDAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// IsULID reports whether s parses as a ULID.
func IsULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
