package config

import (
	"os"
	"strconv"
)

// Config carries all runtime settings, loaded from the environment.
type Config struct {
	OpenAIKey     string
	OpenAIBaseURL string
	Model         string

	DBPath         string
	BaseScriptPath string
	Port           string
	LogLevel       string

	PersonaCount  int
	MaxTurns      int
	MaxIterations int

	RepetitionThreshold  float64
	NegotiationThreshold float64
}

// Load reads the environment, applying defaults for anything unset.
func Load() *Config {
	return &Config{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		Model:         getEnv("OPENAI_MODEL", "gpt-4o"),

		DBPath:         getEnv("DB_PATH", "scriptloop.db"),
		BaseScriptPath: getEnv("BASE_SCRIPT_PATH", "data/base_script.json"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		PersonaCount:  getEnvInt("PERSONA_COUNT", 5),
		MaxTurns:      getEnvInt("MAX_TURNS", 10),
		MaxIterations: getEnvInt("MAX_ITERATIONS", 10),

		RepetitionThreshold:  getEnvFloat("METRICS_THRESHOLD_REPETITION", 0.2),
		NegotiationThreshold: getEnvFloat("METRICS_THRESHOLD_NEGOTIATION", 0.7),
	}
}

// GenerationEnabled reports whether a generation capability is configured.
func (c *Config) GenerationEnabled() bool {
	return c.OpenAIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
