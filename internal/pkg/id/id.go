package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. Call IDs sort by start time, which keeps
// the outcomes table and transcript keys in chronological order.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
