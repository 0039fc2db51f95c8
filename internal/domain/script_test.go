package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		script    Script
		wantErr   error
		wantTitle string
		wantIDs   []int
	}{
		{
			name: "valid script unchanged",
			script: Script{Title: "Volcanoes", Scenes: []Scene{
				{ID: 1, Narration: "a"}, {ID: 2, Narration: "b"},
			}},
			wantTitle: "Volcanoes",
			wantIDs:   []int{1, 2},
		},
		{
			name:      "missing title and ids filled in",
			script:    Script{Scenes: []Scene{{Narration: "a"}, {Narration: "b"}, {Narration: "c"}}},
			wantTitle: DefaultScriptTitle,
			wantIDs:   []int{1, 2, 3},
		},
		{
			name:      "missing ids follow the highest explicit id",
			script:    Script{Title: "T", Scenes: []Scene{{ID: 2, Narration: "a"}, {Narration: "b"}}},
			wantTitle: "T",
			wantIDs:   []int{2, 3},
		},
		{
			name: "mixed explicit and missing ids",
			script: Script{Title: "T", Scenes: []Scene{
				{Narration: "a"}, {ID: 1, Narration: "b"}, {Narration: "c"}, {ID: 5, Narration: "d"},
			}},
			wantTitle: "T",
			wantIDs:   []int{6, 1, 7, 5},
		},
		{
			name:    "no scenes",
			script:  Script{Title: "Empty"},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "empty narration",
			script:  Script{Title: "T", Scenes: []Scene{{ID: 1, Narration: "  "}}},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "duplicate ids",
			script:  Script{Title: "T", Scenes: []Scene{{ID: 1, Narration: "a"}, {ID: 1, Narration: "b"}}},
			wantErr: ErrDuplicateSceneID,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.script.Normalize()
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantTitle, tc.script.Title)
			ids := make([]int, 0, len(tc.script.Scenes))
			for _, s := range tc.script.Scenes {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestScript_Clone(t *testing.T) {
	t.Parallel()

	s := &Script{Title: "T", Scenes: []Scene{{ID: 1, Narration: "a", Chapter: "intro"}}}
	c := s.Clone()
	c.Scenes[0].Chapter = "other"

	assert.Equal(t, "intro", s.Scenes[0].Chapter)

	var nilScript *Script
	assert.Nil(t, nilScript.Clone())
}
