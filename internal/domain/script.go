package domain

import (
	"fmt"
	"strings"
)

// DefaultScriptTitle is used when the generator does not provide a title.
const DefaultScriptTitle = "Untitled"

// Scene is one narration plus visual unit within a script.
type Scene struct {
	ID           int    `json:"id"`
	Narration    string `json:"narration"`
	VisualPrompt string `json:"visual_prompt"`
	Chapter      string `json:"chapter,omitempty"`
}

// Script is the generated title and ordered scenes for a task.
type Script struct {
	Title  string  `json:"title"`
	Scenes []Scene `json:"scenes"`
}

// Normalize numbers scenes without an ID after the highest explicit ID, in
// order, and fills a missing title with DefaultScriptTitle, then validates
// the result. A script with no IDs at all is numbered 1..n.
func (s *Script) Normalize() error {
	if strings.TrimSpace(s.Title) == "" {
		s.Title = DefaultScriptTitle
	}
	next := 0
	for _, scene := range s.Scenes {
		if scene.ID > next {
			next = scene.ID
		}
	}
	for i := range s.Scenes {
		if s.Scenes[i].ID <= 0 {
			next++
			s.Scenes[i].ID = next
		}
	}
	return s.Validate()
}

// Validate checks that the script has scenes, every scene has narration,
// and scene IDs are unique (they name artifact files).
func (s *Script) Validate() error {
	if len(s.Scenes) == 0 {
		return NewValidationError("scenes", "cannot be empty", ErrEmptyContent)
	}

	seen := make(map[int]struct{}, len(s.Scenes))
	for i, scene := range s.Scenes {
		if scene.ID <= 0 {
			return NewValidationError(fmt.Sprintf("scenes[%d].id", i), "must be positive", ErrInvalidID)
		}
		if _, dup := seen[scene.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateSceneID, scene.ID)
		}
		seen[scene.ID] = struct{}{}

		if strings.TrimSpace(scene.Narration) == "" {
			return NewValidationError(fmt.Sprintf("scenes[%d].narration", i), "cannot be empty", ErrEmptyContent)
		}
	}
	return nil
}

// Clone returns a deep copy of the script.
func (s *Script) Clone() *Script {
	if s == nil {
		return nil
	}
	c := &Script{Title: s.Title}
	if s.Scenes != nil {
		c.Scenes = make([]Scene, len(s.Scenes))
		copy(c.Scenes, s.Scenes)
	}
	return c
}
