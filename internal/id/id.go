// Package id produces the short prefixed identifiers used for customers,
// cards and transactions (e.g. CUSTMFJ3K2A1B2C3).
package id

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const randomLen = 10

// New returns a unique identifier made of the prefix, a base-36 millisecond
// timestamp and a random suffix. The random component keeps two calls within
// the same millisecond distinct.
func New(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	rnd := strings.ReplaceAll(uuid.NewString(), "-", "")[:randomLen]

	return strings.ToUpper(prefix + ts + rnd)
}
