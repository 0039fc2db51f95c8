package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. ANTIFLOW_SERVER_PORT.
const EnvPrefix = "ANTIFLOW"

// DefaultStylePrompt wraps each visual prompt before image generation.
const DefaultStylePrompt = "minimalist stickman drawing, thick black ink lines, white background, " +
	"{prompt}, hand drawn style, sketch, no text"

// setDefaults registers every key so AutomaticEnv can resolve it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/antiflow.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.prompt_template_path", "")

	v.SetDefault("speech.command", "edge-tts")
	v.SetDefault("speech.voice", "en-US-ChristopherNeural")

	v.SetDefault("image.enabled", false)
	v.SetDefault("image.base_url", "https://pollinations.ai/p/")
	v.SetDefault("image.style_prompt", DefaultStylePrompt)
	v.SetDefault("image.strict", false)
	v.SetDefault("image.timeout_seconds", 60)

	v.SetDefault("storage.root_dir", "temp_storage")
	v.SetDefault("storage.archive_enabled", false)

	v.SetDefault("pipeline.audio_concurrency", 3)
	v.SetDefault("pipeline.image_concurrency", 3)
	v.SetDefault("pipeline.request_delay_ms", 500)

	v.SetDefault("task.worker_count", 4)
	v.SetDefault("task.queue_size", 100)
}

// Load reads configuration from defaults, an optional config file, and
// environment variables. Environment variables take precedence over values
// from config files. An empty configFile searches for config.yaml in the
// working directory; a missing file is not an error.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
