package models

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextAfter(t *testing.T) {
	cases := []struct {
		lastID string
		prefix string
		want   string
	}{
		{"", "P", "P000001"},
		{"P000001", "P", "P000002"},
		{"P000099", "P", "P000100"},
		{"BW000123", "BW", "BW000124"},
		{"FV999999", "FV", "FV1000000"}, // grows past the padding, stays unique
		{"garbage", "P", "P000001"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, nextAfter(tc.lastID, tc.prefix), "lastID=%q", tc.lastID)
	}
}

func TestTimestampIDShape(t *testing.T) {
	id := timestampID("BW")
	assert.Regexp(t, regexp.MustCompile(`^BW\d{6}$`), id)
}

func TestForcedUniqueID(t *testing.T) {
	for i := 0; i < 10; i++ {
		id := ForcedUniqueID("BW")
		assert.True(t, strings.HasPrefix(id, "BW"))
		assert.Regexp(t, regexp.MustCompile(`^BW\d+$`), id)
		assert.Greater(t, len(id), len("BW000000"))
	}
}
