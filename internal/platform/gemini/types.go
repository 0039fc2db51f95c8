package gemini

import (
	"context"

	"google.golang.org/genai"
)

// promptData represents the data passed to the prompt template
type promptData struct {
	Topic      string
	Duration   string
	Mood       string
	WordCount  string
	SceneCount string
}

// ResponseSchema represents the expected structure of a script from the Gemini API
type ResponseSchema struct {
	Title  string        `json:"title"`
	Scenes []SceneSchema `json:"scenes"`
}

// SceneSchema represents a single scene in the API response
type SceneSchema struct {
	ID           int    `json:"id"`
	Narration    string `json:"narration"`
	VisualPrompt string `json:"visual_prompt"`
	Chapter      string `json:"chapter,omitempty"`
}

// contentGenerator is the slice of the genai client the generator calls.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}
