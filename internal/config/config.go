package config

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/seizurewatch/internal/model"
)

// Config holds all seizurewatch configuration.
type Config struct {
	Server  ServerConfig
	Engine  EngineConfig
	Log     EventLogConfig
	Sinks   SinkConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// EngineConfig holds inference settings.
type EngineConfig struct {
	ModelPath      string
	RuntimeLibPath string // empty: libonnxruntime.so next to the model
	SampleRate     float64
}

// EventLogConfig selects and configures the seizure log store.
type EventLogConfig struct {
	Backend   string // "file" or "redis"
	Path      string
	Init      bool // create an empty file log at startup if missing
	Details   string
	RedisAddr string
	RedisKey  string
}

// SinkConfig holds optional secondary destinations for detections.
type SinkConfig struct {
	WebhookURL string
	Stdout     bool
}

// LoggingConfig holds process log settings.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr: getenv("SEIZURE_ADDR", ":5000"),
		},
		Engine: EngineConfig{
			ModelPath:      getenv("SEIZURE_MODEL_PATH", "models/seizure_prediction_model.onnx"),
			RuntimeLibPath: os.Getenv("SEIZURE_ORT_LIB"),
			SampleRate:     getenvFloat("SEIZURE_SAMPLE_RATE", 256),
		},
		Log: EventLogConfig{
			Backend:   strings.ToLower(getenv("SEIZURE_LOG_BACKEND", "file")),
			Path:      getenv("SEIZURE_LOG_PATH", "seizure_log.json"),
			Init:      getenvBool("SEIZURE_LOG_INIT", true),
			Details:   norm.NFC.String(getenv("SEIZURE_LOG_DETAILS", model.DefaultDetails)),
			RedisAddr: getenv("SEIZURE_REDIS_ADDR", "localhost:6379"),
			RedisKey:  getenv("SEIZURE_REDIS_KEY", "seizure_log"),
		},
		Sinks: SinkConfig{
			WebhookURL: os.Getenv("SEIZURE_WEBHOOK_URL"),
			Stdout:     getenvBool("SEIZURE_STDOUT", false),
		},
		Logging: LoggingConfig{
			Level:  getenv("SEIZURE_LOG_LEVEL", "info"),
			Format: strings.ToLower(getenv("SEIZURE_LOG_FORMAT", "json")),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
