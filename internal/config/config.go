package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the API server needs at startup. Values come from,
// in increasing priority: built-in defaults, the YAML file named by
// QUANT_CONFIG_FILE, then the environment (a .env file is loaded first).
type Config struct {
	Port          int    `yaml:"port"`
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	MaxLogSizeMB  int    `yaml:"max_log_size_mb"`
	MaxLogBackups int    `yaml:"max_log_backups"`

	OllamaURL   string `yaml:"ollama_url"`
	OllamaModel string `yaml:"ollama_model"`

	CompletionsURL         string  `yaml:"completions_url"`
	CompletionsModel       string  `yaml:"completions_model"`
	CompletionsAPIKey      string  `yaml:"completions_api_key"`
	CompletionsMaxTokens   int     `yaml:"completions_max_tokens"`
	CompletionsTemperature float64 `yaml:"completions_temperature"`

	AITimeoutSec      int    `yaml:"ai_timeout_sec"`
	StreamIntervalMS  int    `yaml:"stream_interval_ms"`
	CORSAllowedOrigin string `yaml:"cors_allowed_origin"`
}

// secretVars are masked whenever configuration is printed.
var secretVars = map[string]bool{
	"COMPLETIONS_API_KEY": true,
}

func Defaults() *Config {
	return &Config{
		Port:                   8000,
		LogFile:                "quant_api.log",
		LogLevel:               "INFO",
		MaxLogSizeMB:           10,
		MaxLogBackups:          3,
		OllamaURL:              "http://localhost:11434",
		OllamaModel:            "quantitative",
		CompletionsURL:         "http://localhost:8080",
		CompletionsModel:       "deepseek-coder-6.7b-instruct",
		CompletionsMaxTokens:   1000,
		CompletionsTemperature: 0.1,
		AITimeoutSec:           30,
		StreamIntervalMS:       1000,
		CORSAllowedOrigin:      "*",
	}
}

// Load initializes the configuration.
// It tries to read a .env file, applies the optional YAML file and then the
// environment on top of the defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	cfg := Defaults()
	if path := os.Getenv("QUANT_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvAsInt("PORT", c.Port)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.MaxLogSizeMB = getEnvAsInt("MAX_LOG_SIZE_MB", c.MaxLogSizeMB)
	c.MaxLogBackups = getEnvAsInt("MAX_LOG_BACKUPS", c.MaxLogBackups)

	c.OllamaURL = getEnv("OLLAMA_URL", c.OllamaURL)
	c.OllamaModel = getEnv("OLLAMA_MODEL", c.OllamaModel)

	c.CompletionsURL = getEnv("COMPLETIONS_URL", c.CompletionsURL)
	c.CompletionsModel = getEnv("COMPLETIONS_MODEL", c.CompletionsModel)
	c.CompletionsAPIKey = getEnv("COMPLETIONS_API_KEY", c.CompletionsAPIKey)
	c.CompletionsMaxTokens = getEnvAsInt("COMPLETIONS_MAX_TOKENS", c.CompletionsMaxTokens)
	c.CompletionsTemperature = getEnvAsFloat64("COMPLETIONS_TEMPERATURE", c.CompletionsTemperature)

	c.AITimeoutSec = getEnvAsInt("AI_TIMEOUT_SEC", c.AITimeoutSec)
	c.StreamIntervalMS = getEnvAsInt("STREAM_INTERVAL_MS", c.StreamIntervalMS)
	c.CORSAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", c.CORSAllowedOrigin)
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in 1..65535, got %d", c.Port)
	}
	if c.AITimeoutSec <= 0 {
		return fmt.Errorf("AI_TIMEOUT_SEC must be positive, got %d", c.AITimeoutSec)
	}
	if c.StreamIntervalMS <= 0 {
		return fmt.Errorf("STREAM_INTERVAL_MS must be positive, got %d", c.StreamIntervalMS)
	}
	if c.CompletionsMaxTokens <= 0 {
		return fmt.Errorf("COMPLETIONS_MAX_TOKENS must be positive, got %d", c.CompletionsMaxTokens)
	}
	if c.OllamaURL == "" || c.CompletionsURL == "" {
		return fmt.Errorf("OLLAMA_URL and COMPLETIONS_URL must be set")
	}
	return nil
}

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSec) * time.Second
}

func (c *Config) StreamInterval() time.Duration {
	return time.Duration(c.StreamIntervalMS) * time.Millisecond
}

// LogSummary prints the effective configuration, secrets masked.
func (c *Config) LogSummary() {
	log.Println("--- Configuration ---")
	for _, kv := range c.pairs() {
		val := kv[1]
		if secretVars[kv[0]] {
			val = mask(val)
		}
		log.Printf("%s=%s", kv[0], val)
	}
	log.Println("---------------------")
}

func (c *Config) pairs() [][2]string {
	return [][2]string{
		{"PORT", fmt.Sprint(c.Port)},
		{"LOG_FILE", c.LogFile},
		{"LOG_LEVEL", c.LogLevel},
		{"MAX_LOG_SIZE_MB", fmt.Sprint(c.MaxLogSizeMB)},
		{"MAX_LOG_BACKUPS", fmt.Sprint(c.MaxLogBackups)},
		{"OLLAMA_URL", c.OllamaURL},
		{"OLLAMA_MODEL", c.OllamaModel},
		{"COMPLETIONS_URL", c.CompletionsURL},
		{"COMPLETIONS_MODEL", c.CompletionsModel},
		{"COMPLETIONS_API_KEY", c.CompletionsAPIKey},
		{"COMPLETIONS_MAX_TOKENS", fmt.Sprint(c.CompletionsMaxTokens)},
		{"COMPLETIONS_TEMPERATURE", fmt.Sprint(c.CompletionsTemperature)},
		{"AI_TIMEOUT_SEC", fmt.Sprint(c.AITimeoutSec)},
		{"STREAM_INTERVAL_MS", fmt.Sprint(c.StreamIntervalMS)},
		{"CORS_ALLOWED_ORIGIN", c.CORSAllowedOrigin},
	}
}

// mask shows only the last 4 chars of a secret.
func mask(val string) string {
	if val == "" {
		return ""
	}
	if len(val) > 4 {
		return "***" + val[len(val)-4:]
	}
	return "***"
}
