// Package etag implements the optimistic-concurrency token used to guard
// product updates. Tokens are weak ETags derived from the resource's
// last-modified timestamp.
package etag

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Wildcard matches any current token.
const Wildcard = "*"

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Generate derives a weak ETag from a last-updated timestamp. The same
// timestamp always yields the same token.
func Generate(updatedAt time.Time) string {
	ts := updatedAt.UTC().Format(timestampLayout)
	sum := md5.Sum([]byte(ts))
	return `W/"` + hex.EncodeToString(sum[:])[:16] + `"`
}

// normalize strips the weak-tag prefix and surrounding quotes so weak and
// strong forms of the same token compare equal.
func normalize(tag string) string {
	tag = strings.TrimPrefix(tag, "W/")
	tag = strings.TrimPrefix(tag, "w/")
	return strings.Trim(tag, `"`)
}

// Compare reports whether two tokens match structurally.
func Compare(a, b string) bool {
	return normalize(a) == normalize(b)
}

// Validate checks a presented token (typically an If-Match header) against
// the resource's current token. An absent or wildcard token always passes;
// the caller only enforces the precondition when the client supplied one.
func Validate(presented, current string) bool {
	if presented == "" || presented == Wildcard {
		return true
	}
	return Compare(presented, current)
}
