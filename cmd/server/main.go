package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yu1234se/AI-English-Conversation-Practice/internal/config"
	"github.com/yu1234se/AI-English-Conversation-Practice/internal/conversation"
	"github.com/yu1234se/AI-English-Conversation-Practice/internal/llm"
	"github.com/yu1234se/AI-English-Conversation-Practice/internal/server"
	"github.com/yu1234se/AI-English-Conversation-Practice/internal/transcribe"
	"github.com/yu1234se/AI-English-Conversation-Practice/internal/tts"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	// .env is optional; environment overrides still apply without it.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	transcriber, err := transcribe.NewClient(transcribe.Config{
		Endpoint:       cfg.Transcription.Endpoint,
		APIKey:         cfg.Transcription.APIKey,
		Timeout:        time.Duration(cfg.Transcription.TimeoutSec) * time.Second,
		Language:       cfg.Transcription.Language,
		BeamSize:       cfg.Transcription.BeamSize,
		VADMinSpeechMs: cfg.Transcription.VADMinSpeechMs,
		VADPadMs:       cfg.Transcription.VADPadMs,
		VADThreshold:   cfg.Transcription.VADThreshold,
	})
	if err != nil {
		logger.Error("failed to create transcription client", "error", err)
		os.Exit(1)
	}

	generator, err := llm.NewGenerator(llm.Config{
		BaseURL:       cfg.LLM.BaseURL,
		APIKey:        cfg.LLM.APIKey,
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		HistoryWindow: cfg.LLM.HistoryWindow,
	})
	if err != nil {
		logger.Error("failed to create reply generator", "error", err)
		os.Exit(1)
	}

	synthesizer, err := tts.NewClient(tts.Config{
		Endpoint:   cfg.TTS.Endpoint,
		APIKey:     cfg.TTS.APIKey,
		Timeout:    time.Duration(cfg.TTS.TimeoutSec) * time.Second,
		Voice:      cfg.TTS.Voice,
		LangCode:   cfg.TTS.LangCode,
		SampleRate: cfg.TTS.SampleRate,
	})
	if err != nil {
		logger.Error("failed to create synthesis client", "error", err)
		os.Exit(1)
	}

	manager := conversation.NewManager(transcriber, generator, synthesizer, logger, conversation.ManagerConfig{
		TrimThreshold:  cfg.Recording.TrimThreshold,
		TrimPadding:    cfg.Recording.TrimPadding,
		MaxDurationSec: cfg.Recording.MaxDurationSec,
		TempDir:        cfg.Recording.TempDir,
	})

	srv := server.New(manager, logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stop
		logger.Info("shutting down", "signal", sig.String())
		if err := srv.Shutdown(); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("starting server",
		"address", addr,
		"model", cfg.LLM.Model,
		"voice", cfg.TTS.Voice)
	if err := srv.Listen(addr); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the slog logger described by the logging configuration.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
