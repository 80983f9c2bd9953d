package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Recording     RecordingConfig     `yaml:"recording"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	LLM           LLMConfig           `yaml:"llm"`
	TTS           TTSConfig           `yaml:"tts"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// RecordingConfig contains capture and silence-trimming parameters.
type RecordingConfig struct {
	SampleRate     int     `yaml:"sample_rate"`      // capture rate, Hz
	MaxDurationSec int     `yaml:"max_duration_sec"` // capture window bound
	TrimThreshold  float32 `yaml:"trim_threshold"`
	TrimPadding    int     `yaml:"trim_padding"` // samples kept around speech
	TempDir        string  `yaml:"temp_dir"`
}

// TranscriptionConfig contains speech-recognition service configuration.
type TranscriptionConfig struct {
	Endpoint       string  `yaml:"endpoint"`
	APIKey         string  `yaml:"-"` // from TRANSCRIPTION_API_KEY
	TimeoutSec     int     `yaml:"timeout_sec"`
	Language       string  `yaml:"language"`
	BeamSize       int     `yaml:"beam_size"`
	VADMinSpeechMs int     `yaml:"vad_min_speech_ms"`
	VADPadMs       int     `yaml:"vad_pad_ms"`
	VADThreshold   float64 `yaml:"vad_threshold"`
}

// LLMConfig contains text-generation service configuration.
type LLMConfig struct {
	BaseURL       string  `yaml:"base_url"`
	APIKey        string  `yaml:"-"` // from LLM_API_KEY
	Model         string  `yaml:"model"`
	Temperature   float32 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
	HistoryWindow int     `yaml:"history_window"`
}

// TTSConfig contains speech-synthesis service configuration.
type TTSConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"-"` // from TTS_API_KEY
	TimeoutSec int    `yaml:"timeout_sec"`
	Voice      string `yaml:"voice"`
	LangCode   string `yaml:"lang_code"`
	SampleRate int    `yaml:"sample_rate"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration matching the reference deployment: 16kHz
// capture, local whisper/LLM/TTS servers, the af_heart voice at 24kHz.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "0.0.0.0",
			Port:    8080,
		},
		Recording: RecordingConfig{
			SampleRate:     16000,
			MaxDurationSec: 300,
			TrimThreshold:  0.01,
			TrimPadding:    100,
		},
		Transcription: TranscriptionConfig{
			Endpoint:       "http://localhost:8000/v1/audio/transcriptions",
			TimeoutSec:     60,
			Language:       "en",
			BeamSize:       5,
			VADMinSpeechMs: 100,
			VADPadMs:       100,
			VADThreshold:   0.25,
		},
		LLM: LLMConfig{
			BaseURL:       "http://localhost:1234/v1",
			Model:         "EZO2.5-gemma-3-12b-it-Preview.Q6_K.gguf",
			Temperature:   0.7,
			MaxTokens:     100,
			HistoryWindow: 6,
		},
		TTS: TTSConfig{
			Endpoint:   "http://localhost:8880/v1/audio/speech",
			TimeoutSec: 60,
			Voice:      "af_heart",
			LangCode:   "a",
			SampleRate: 24000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration file (if path is non-empty) over the defaults,
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// applyEnv overlays endpoint and credential overrides from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("TRANSCRIPTION_ENDPOINT"); v != "" {
		c.Transcription.Endpoint = v
	}
	if v := os.Getenv("TRANSCRIPTION_API_KEY"); v != "" {
		c.Transcription.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("TTS_ENDPOINT"); v != "" {
		c.TTS.Endpoint = v
	}
	if v := os.Getenv("TTS_API_KEY"); v != "" {
		c.TTS.APIKey = v
	}
}

// Validate performs validation of the complete configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Recording.Validate(); err != nil {
		return fmt.Errorf("recording config: %w", err)
	}
	if err := c.Transcription.Validate(); err != nil {
		return fmt.Errorf("transcription config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}
	if err := c.TTS.Validate(); err != nil {
		return fmt.Errorf("tts config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates server configuration.
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	return nil
}

// Validate validates recording configuration.
func (r *RecordingConfig) Validate() error {
	if r.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", r.SampleRate)
	}
	if r.MaxDurationSec < 1 {
		return fmt.Errorf("max_duration_sec must be at least 1, got %d", r.MaxDurationSec)
	}
	if r.TrimThreshold <= 0 || r.TrimThreshold >= 1 {
		return fmt.Errorf("trim_threshold must be between 0 and 1 (exclusive), got %f", r.TrimThreshold)
	}
	if r.TrimPadding < 0 {
		return fmt.Errorf("trim_padding cannot be negative, got %d", r.TrimPadding)
	}
	return nil
}

// Validate validates transcription configuration.
func (t *TranscriptionConfig) Validate() error {
	if t.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}
	if t.TimeoutSec < 1 {
		return fmt.Errorf("timeout_sec must be at least 1, got %d", t.TimeoutSec)
	}
	if t.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}
	if t.BeamSize < 1 {
		return fmt.Errorf("beam_size must be at least 1, got %d", t.BeamSize)
	}
	if t.VADThreshold < 0 || t.VADThreshold > 1 {
		return fmt.Errorf("vad_threshold must be between 0 and 1, got %f", t.VADThreshold)
	}
	return nil
}

// Validate validates LLM configuration.
func (l *LLMConfig) Validate() error {
	if l.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}
	if l.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", l.Temperature)
	}
	if l.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be at least 1, got %d", l.MaxTokens)
	}
	if l.HistoryWindow < 1 {
		return fmt.Errorf("history_window must be at least 1, got %d", l.HistoryWindow)
	}
	return nil
}

// Validate validates TTS configuration.
func (t *TTSConfig) Validate() error {
	if t.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}
	if t.TimeoutSec < 1 {
		return fmt.Errorf("timeout_sec must be at least 1, got %d", t.TimeoutSec)
	}
	if t.Voice == "" {
		return fmt.Errorf("voice cannot be empty")
	}
	if t.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", t.SampleRate)
	}
	return nil
}

// Validate validates logging configuration.
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be debug, info, warn or error, got '%s'", l.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'text' or 'json', got '%s'", l.Format)
	}
	return nil
}
