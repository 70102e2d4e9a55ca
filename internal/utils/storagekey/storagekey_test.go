package storagekey_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jujinjujeen/fuga/internal/utils/storagekey"
)

var keyShape = regexp.MustCompile(`^[0-9a-f-]{36}/[a-zA-Z0-9-_]+(\.[a-zA-Z0-9]+)?$`)

func TestNew_Shape(t *testing.T) {
	key := storagekey.New("cover.png")

	require.Regexp(t, keyShape, key, "key should be <uuid>/<name><ext>")

	prefix, _, _ := strings.Cut(key, "/")
	_, err := uuid.Parse(prefix)
	require.NoError(t, err, "key prefix %q should be a uuid", prefix)
	assert.True(t, strings.HasSuffix(key, "/cover.png"), "safe names should be preserved, got %q", key)
}

func TestNew_Sanitization(t *testing.T) {
	tests := []struct {
		fileName string
		suffix   string
	}{
		{"album cover (final).jpeg", "/album_cover__final_.jpeg"},
		{"rené.webp", "/ren_.webp"},
		{"noextension", "/noextension"},
		{"dots.in.name.png", "/dots_in_name.png"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			key := storagekey.New(tt.fileName)
			assert.True(t, strings.HasSuffix(key, tt.suffix), "New(%q) = %q, want suffix %q", tt.fileName, key, tt.suffix)
		})
	}
}

func TestNew_NoCollisions(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := storagekey.New("same.png")
		require.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}
