package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	t.Run("returns a version 7 UUID", func(t *testing.T) {
		id := NewID()
		u, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), u.Version())
	})

	t.Run("IDs are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			id := NewID()
			require.False(t, seen[id], "duplicate ID %s", id)
			seen[id] = true
		}
	})
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "seed ID", input: "1"},
		{name: "two digit seed ID", input: "11"},
		{name: "legacy random token", input: "k3j9x0q2a"},
		{name: "uuid", input: "01890a5d-ac96-774b-bcce-b302099a8057"},
		{name: "uppercase uuid", input: "01890A5D-AC96-774B-BCCE-B302099A8057"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace", input: "   ", wantErr: true},
		{name: "punctuation", input: "abc-!", wantErr: true},
		{name: "too long token", input: "abcdefghijklmnop", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidID))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3", ShortID("3"))
	assert.Equal(t, "099a8057", ShortID("01890a5d-ac96-774b-bcce-b302099a8057"))
}

func TestMatchID(t *testing.T) {
	full := "01890a5d-ac96-774b-bcce-b302099a8057"

	assert.True(t, MatchID(full, full))
	assert.True(t, MatchID(full, "01890A5D-AC96-774B-BCCE-B302099A8057"))
	assert.True(t, MatchID(full, "099a8057"))
	assert.True(t, MatchID("3", "3"))

	assert.False(t, MatchID(full, "8057"), "short suffixes are ambiguous")
	assert.False(t, MatchID("13", "3"))
	assert.False(t, MatchID("3", ""))
}
