package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/antiflow-api/internal/config"
	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/generation"
	"google.golang.org/genai"
)

//go:embed prompt.tmpl
var defaultPromptTemplate string

// GeminiGenerator implements the generation.ScriptGenerator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger         *slog.Logger
	promptTemplate *template.Template
	models         contentGenerator
	model          string
}

var _ generation.ScriptGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a GeminiGenerator backed by a genai client.
//
// The prompt template is read from config.PromptTemplatePath when set and
// falls back to the embedded default otherwise.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, client.Models)
}

// newGenerator wires a generator around any contentGenerator.
func newGenerator(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	return &GeminiGenerator{
		logger:         logger.With("component", "gemini_generator"),
		promptTemplate: tmpl,
		models:         models,
		model:          cfg.ModelName,
	}, nil
}

func loadPromptTemplate(path string) (*template.Template, error) {
	content := defaultPromptTemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, path, err)
		}
		content = string(raw)
	}

	tmpl, err := template.New("script").Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

// createPrompt renders the prompt template for req.
func (g *GeminiGenerator) createPrompt(ctx context.Context, req *domain.GenerationRequest) (string, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return "", ErrEmptyTopic
	}

	targets := req.Duration.Targets()
	duration := req.DurationHint
	if duration == "" {
		duration = string(req.Duration)
	}
	data := promptData{
		Topic:      req.Topic,
		Duration:   duration,
		Mood:       req.Mood,
		WordCount:  targets.WordCount(),
		SceneCount: targets.SceneCount(),
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	g.logger.DebugContext(ctx, "prompt generated",
		"prompt_length", buf.Len(),
		"duration_category", req.Duration)
	return buf.String(), nil
}

// GenerateScript asks the model for a script and converts it to a normalized
// domain.Script.
func (g *GeminiGenerator) GenerateScript(ctx context.Context, req *domain.GenerationRequest) (*domain.Script, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", generation.ErrGenerationFailed)
	}

	prompt, err := g.createPrompt(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	g.logger.InfoContext(ctx, "calling Gemini API", "model", g.model, "topic", req.Topic)

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	text, err := responseText(resp)
	if err != nil {
		g.logger.WarnContext(ctx, "unusable Gemini response", "error", err)
		return nil, err
	}

	script, err := parseScript(text)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to parse Gemini response",
			"error", err,
			"response_length", len(text))
		return nil, err
	}

	g.logger.InfoContext(ctx, "script generated",
		"title", script.Title,
		"scene_count", len(script.Scenes))
	return script, nil
}

// responseText extracts the concatenated text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked: %s",
				generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return sb.String(), nil
}

// stripCodeFence removes a surrounding markdown code fence, with or without
// a language tag.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		if tag := strings.TrimSpace(text[:nl]); !strings.ContainsAny(tag, "{[") {
			text = text[nl+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// parseScript decodes the model output into a normalized script.
func parseScript(text string) (*domain.Script, error) {
	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	script := &domain.Script{
		Title:  strings.TrimSpace(parsed.Title),
		Scenes: make([]domain.Scene, 0, len(parsed.Scenes)),
	}
	for _, s := range parsed.Scenes {
		script.Scenes = append(script.Scenes, domain.Scene{
			ID:           s.ID,
			Narration:    strings.TrimSpace(s.Narration),
			VisualPrompt: strings.TrimSpace(s.VisualPrompt),
			Chapter:      strings.TrimSpace(s.Chapter),
		})
	}

	if err := script.Normalize(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	return script, nil
}
