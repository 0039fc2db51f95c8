package api

import (
	"fmt"
	"net/http"

	"github.com/phrazzld/antiflow-api/internal/api/shared"
	"github.com/phrazzld/antiflow-api/internal/platform/logger"
	"github.com/phrazzld/antiflow-api/internal/service"
)

// TaskIDParam is the chi path parameter naming a task.
const TaskIDParam = "taskId"

// GenerationHandler handles content kit HTTP requests
type GenerationHandler struct {
	generationService service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
	}
}

// Generate handles POST /api/v1/generate requests
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	submission, err := h.generationService.SubmitGeneration(
		r.Context(), req.Topic, req.DurationTarget, req.Mood, req.Voice)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// 202 Accepted: processing happens asynchronously
	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateResponse{
		TaskID: submission.TaskID,
		Status: string(submission.Status),
	})
}

// GetResult handles GET /api/v1/result/{taskId} requests
func (h *GenerationHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, TaskIDParam)
	if err != nil {
		// A malformed id can never name a task.
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, "Task not found", err)
		return
	}

	rec, err := h.generationService.GetTaskResult(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(rec))
}

// Download handles GET /api/v1/download/{taskId} requests
func (h *GenerationHandler) Download(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, TaskIDParam)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, "Archive not found", err)
		return
	}

	archive, err := h.generationService.OpenArchive(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	defer func() {
		if cerr := archive.Content.Close(); cerr != nil {
			logger.FromContext(r.Context()).WarnContext(r.Context(), "failed to close archive",
				"error", cerr, "task_id", taskID)
		}
	}()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", taskID.String()+".zip"))
	http.ServeContent(w, r, archive.Info.Name(), archive.Info.ModTime(), archive.Content)
}

// Health handles GET /health requests
func (h *GenerationHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
