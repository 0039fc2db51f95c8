package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Speech   SpeechConfig   `mapstructure:"speech" validate:"required"`
	Image    ImageConfig    `mapstructure:"image"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
	Pipeline PipelineConfig `mapstructure:"pipeline" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port               int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel           string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// LogConfig controls where and how logs are written.
type LogConfig struct {
	Format     string `mapstructure:"format" validate:"required,oneof=json text"`
	Output     string `mapstructure:"output" validate:"required,oneof=stdout file"`
	File       string `mapstructure:"file" validate:"required_if=Output file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
	// PromptTemplatePath overrides the embedded script prompt when set.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
}

// SpeechConfig configures the text-to-speech command.
type SpeechConfig struct {
	Command string `mapstructure:"command" validate:"required"`
	Voice   string `mapstructure:"voice" validate:"required"`
}

// ImageConfig configures scene image generation. Visual prompts are always
// produced by the script step; images are only rendered when Enabled.
type ImageConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	StylePrompt    string `mapstructure:"style_prompt"`
	Strict         bool   `mapstructure:"strict"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}

// StorageConfig controls where task artifacts are written.
type StorageConfig struct {
	RootDir        string `mapstructure:"root_dir" validate:"required"`
	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
}

// PipelineConfig bounds the per-task scene fan-out.
type PipelineConfig struct {
	AudioConcurrency int `mapstructure:"audio_concurrency" validate:"required,gt=0"`
	ImageConcurrency int `mapstructure:"image_concurrency" validate:"required,gt=0"`
	RequestDelayMS   int `mapstructure:"request_delay_ms" validate:"gte=0"`
}

// TaskConfig contains background task processing settings.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}
