package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/antiflow-api/internal/domain"
)

// GenerateRequest defines the payload for the generation endpoint.
type GenerateRequest struct {
	Topic          string `json:"topic"           validate:"required,max=500"`
	DurationTarget string `json:"duration_target" validate:"required,max=100"`
	Mood           string `json:"mood"            validate:"required,max=100"`
	// Voice selects the narration voice; empty uses the configured default.
	Voice string `json:"voice,omitempty" validate:"max=100"`
}

// GenerateResponse is returned once a task has been accepted.
type GenerateResponse struct {
	TaskID uuid.UUID `json:"task_id"`
	Status string    `json:"status"`
}

// SceneResponse is one scene of a task preview.
type SceneResponse struct {
	ID           int    `json:"id"`
	Narration    string `json:"narration"`
	VisualPrompt string `json:"visual_prompt"`
	Chapter      string `json:"chapter,omitempty"`
}

// ScriptResponse is the generated script attached to a task.
type ScriptResponse struct {
	Title  string          `json:"title"`
	Scenes []SceneResponse `json:"scenes"`
}

// TaskResponse reports the state of a generation task.
type TaskResponse struct {
	TaskID      uuid.UUID       `json:"task_id"`
	Status      string          `json:"status"`
	PreviewData *ScriptResponse `json:"preview_data,omitempty"`
	Error       string          `json:"error,omitempty"`
	FilePath    string          `json:"file_path,omitempty"`
	DownloadURL string          `json:"download_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		TaskID:      t.ID,
		Status:      string(t.Status),
		Error:       t.Error,
		FilePath:    t.ResultLocation,
		DownloadURL: t.DownloadURL,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.PreviewData != nil {
		script := &ScriptResponse{
			Title:  t.PreviewData.Title,
			Scenes: make([]SceneResponse, len(t.PreviewData.Scenes)),
		}
		for i, scene := range t.PreviewData.Scenes {
			script.Scenes[i] = SceneResponse{
				ID:           scene.ID,
				Narration:    scene.Narration,
				VisualPrompt: scene.VisualPrompt,
				Chapter:      scene.Chapter,
			}
		}
		resp.PreviewData = script
	}
	return resp
}
