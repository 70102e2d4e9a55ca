package etag_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jujinjujeen/fuga/internal/utils/etag"
)

func TestGenerate(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 45, 123000000, time.UTC)

	token := etag.Generate(ts)
	require.True(t, strings.HasPrefix(token, `W/"`), "token %q should carry the weak prefix", token)
	require.True(t, strings.HasSuffix(token, `"`), "token %q should be quoted", token)
	assert.Len(t, token, len(`W/""`)+16, "token %q should hold 16 hex chars", token)

	assert.Equal(t, token, etag.Generate(ts), "same timestamp must yield the same token")
	assert.NotEqual(t, token, etag.Generate(ts.Add(time.Second)), "different timestamps must yield different tokens")
}

func TestGenerate_TimezoneInsensitive(t *testing.T) {
	utc := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("CET", 3600))

	assert.Equal(t, etag.Generate(utc), etag.Generate(offset), "tokens must canonicalize to UTC before hashing")
}

func TestValidate(t *testing.T) {
	current := etag.Generate(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	stale := etag.Generate(time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		presented string
		want      bool
	}{
		{"absent token always passes", "", true},
		{"wildcard always passes", "*", true},
		{"matching token passes", current, true},
		{"strong form of matching token passes", strings.TrimPrefix(current, "W/"), true},
		{"unquoted form of matching token passes", strings.Trim(strings.TrimPrefix(current, "W/"), `"`), true},
		{"stale token fails", stale, false},
		{"garbage fails", `W/"deadbeef"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, etag.Validate(tt.presented, current))
		})
	}
}

func TestCompare(t *testing.T) {
	assert.True(t, etag.Compare(`W/"abc123"`, `"abc123"`), "weak prefix and quotes must be ignored")
	assert.False(t, etag.Compare(`W/"abc123"`, `W/"abc124"`))
}
