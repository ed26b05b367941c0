package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("book")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "book-"))
	assert.Len(t, got, len("book-")+21)
	assert.True(t, IsValid(got, "book"))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate("book")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate ID %s", id)
		seen[id] = true
	}
}

func TestNewBookID(t *testing.T) {
	id, err := NewBookID()
	require.NoError(t, err)
	assert.True(t, IsValidBookID(id))
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"well formed", "book-V1StGXR8_Z5jdHi6B-myT", true},
		{"empty", "", false},
		{"missing prefix", "V1StGXR8_Z5jdHi6B-myT", false},
		{"wrong prefix", "user-V1StGXR8_Z5jdHi6B-myT", false},
		{"too short", "book-V1StGXR8_Z5jdHi6B", false},
		{"too long", "book-V1StGXR8_Z5jdHi6B-myTxx", false},
		{"bad character", "book-V1StGXR8 Z5jdHi6B-myT", false},
		{"prefix only", "book-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.id, "book"))
		})
	}
}
