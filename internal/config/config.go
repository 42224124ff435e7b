package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration, read from the environment.
type Config struct {
	Server ServerConfig
	Paths  PathsConfig
	OpenAI OpenAIConfig
	TTS    TTSConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" env-default:"3000"`
}

// PathsConfig holds the on-disk layout: where scout documents are read from
// and where the database, search index, and audio artifacts live.
type PathsConfig struct {
	DataDir       string `env:"DATA_DIR" env-default:"./data"`
	ScoutDir      string `env:"SCOUT_DIR" env-default:"./scout"`
	AudioDir      string `env:"AUDIO_DIR" env-default:"./audio"`
	RecordingsDir string `env:"RECORDINGS_DIR" env-default:"./recordings"`
}

// OpenAIConfig holds credentials and model names for the transcription and
// text generation services.
type OpenAIConfig struct {
	APIKey          string        `env:"OPENAI_API_KEY"`
	BaseURL         string        `env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	ChatModel       string        `env:"OPENAI_CHAT_MODEL" env-default:"gpt-4o-mini"`
	TranscribeModel string        `env:"OPENAI_TRANSCRIBE_MODEL" env-default:"whisper-1"`
	Timeout         time.Duration `env:"OPENAI_TIMEOUT" env-default:"60s"`
}

// TTSConfig holds text-to-speech settings.
type TTSConfig struct {
	Voice string `env:"TTS_VOICE" env-default:"en-US-GuyNeural"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// DBPath returns the sqlite database location under the data dir.
func (c Config) DBPath() string {
	return c.Paths.DataDir + "/pipeline.db"
}

// IndexPath returns the bleve index location under the data dir.
func (c Config) IndexPath() string {
	return c.Paths.DataDir + "/bleve"
}
