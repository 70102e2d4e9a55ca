// Package storagekey generates object-storage keys for uploaded images.
package storagekey

import (
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// New returns a globally unique key of the form <uuid>/<sanitized-name><ext>.
// Two calls with the same file name never collide.
func New(fileName string) string {
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(path.Base(fileName), ext)
	sanitized := unsafeChars.ReplaceAllString(base, "_")
	return uuid.NewString() + "/" + sanitized + ext
}
