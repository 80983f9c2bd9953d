package conversation

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/yu1234se/AI-English-Conversation-Practice/internal/audio"
	"github.com/yu1234se/AI-English-Conversation-Practice/internal/metrics"
	"github.com/yu1234se/AI-English-Conversation-Practice/internal/transcribe"
)

// Transcriber converts a staged WAV file into ordered transcript segments.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) ([]transcribe.Segment, error)
}

// Generator produces the tutor's next utterance from the latest user input and
// the conversation log.
type Generator interface {
	Generate(ctx context.Context, input string, history []Message) (string, error)
}

// Synthesizer renders text as a WAV-encoded audio buffer at the given
// playback-speed multiplier.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, speed float64) ([]byte, error)
}

// State is the turn-taking state visible to the UI.
type State string

const (
	// StateIdle accepts a new recording.
	StateIdle State = "idle"
	// StateRecording has an active capture window.
	StateRecording State = "recording"
	// StateReviewing holds a trimmed buffer awaiting send confirmation.
	StateReviewing State = "reviewing"
)

// recordingSession holds the captured buffer between stop and send.
type recordingSession struct {
	samples    []float32
	sampleRate int
}

// ManagerConfig tunes capture handling.
type ManagerConfig struct {
	TrimThreshold  float32
	TrimPadding    int
	MaxDurationSec int // captures are truncated to this window before trimming
	TempDir        string
}

// Manager coordinates the recording → transcription → generation → synthesis
// cycle. All operations are serialized: exactly one recording session and one
// turn can be in flight, matching the single-user interactive design, so no
// further coordination is needed.
type Manager struct {
	transcriber Transcriber
	generator   Generator
	synthesizer Synthesizer
	logger      *slog.Logger
	config      ManagerConfig

	mu           sync.Mutex
	state        State
	session      *recordingSession
	messages     []Message
	speed        float64
	replyPending bool
}

// NewManager creates a Manager in the idle state with playback speed 1.0.
func NewManager(t Transcriber, g Generator, s Synthesizer, logger *slog.Logger, config ManagerConfig) *Manager {
	if config.TrimThreshold <= 0 {
		config.TrimThreshold = audio.DefaultTrimThreshold
	}
	if config.TrimPadding <= 0 {
		config.TrimPadding = audio.DefaultTrimPadding
	}
	if config.MaxDurationSec <= 0 {
		config.MaxDurationSec = 300
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		transcriber: t,
		generator:   g,
		synthesizer: s,
		logger:      logger,
		config:      config,
		state:       StateIdle,
		speed:       1.0,
	}
}

// StartRecording opens a new capture window. It is rejected while another
// recording is active, while a trimmed buffer awaits review, or while the last
// user message is still unanswered. Any previously captured buffer is cleared.
func (m *Manager) StartRecording() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return ErrBusy
	}
	if m.replyPending {
		return ErrReplyPending
	}

	m.session = nil
	m.state = StateRecording
	m.logger.Info("recording started")
	return nil
}

// StopRecording closes the capture window with the finished buffer from the
// recording device and trims silence. If nothing exceeds the threshold the
// manager returns to idle with ErrNoAudio and the log is untouched; otherwise
// the trimmed buffer is held for review until Send or Discard.
func (m *Manager) StopRecording(samples []float32, sampleRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateRecording {
		return ErrNotReady
	}

	// The capture window is bounded; truncate anything past it.
	if maxSamples := m.config.MaxDurationSec * sampleRate; sampleRate > 0 && len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}

	trimmed := audio.TrimSilence(samples, m.config.TrimThreshold, m.config.TrimPadding)
	if len(trimmed) == 0 {
		m.state = StateIdle
		m.session = nil
		metrics.EmptyCaptures.Inc()
		m.logger.Warn("no speech detected in recording", "raw_samples", len(samples))
		return ErrNoAudio
	}

	m.session = &recordingSession{samples: trimmed, sampleRate: sampleRate}
	m.state = StateReviewing
	metrics.CaptureDuration.Observe(audio.Duration(len(trimmed), sampleRate))
	m.logger.Info("recording stopped",
		"raw_samples", len(samples),
		"trimmed_samples", len(trimmed),
		"duration_sec", audio.Duration(len(trimmed), sampleRate))
	return nil
}

// Discard drops the reviewed buffer without transcribing it.
func (m *Manager) Discard() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReviewing {
		return ErrNotReady
	}
	m.session = nil
	m.state = StateIdle
	return nil
}

// PreviewWAV returns the reviewed buffer encoded as WAV for playback before
// sending.
func (m *Manager) PreviewWAV() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReviewing || m.session == nil {
		return nil, ErrNotReady
	}
	return audio.EncodeWAV(audio.FloatToPCM16(m.session.samples), m.session.sampleRate)
}

// Send confirms the reviewed recording: the buffer is staged to a temporary
// WAV file, transcribed, joined into a user message, and the assistant reply
// is generated and synthesized in the same turn. On a transcription failure
// the buffer is kept for retry or discard and the log is unchanged. On a
// generation or synthesis failure the user message stays in the log, nothing
// partial is appended, and the reply can be retried with GenerateReply.
func (m *Manager) Send(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReviewing || m.session == nil {
		return ErrNotReady
	}

	text, err := m.transcribeSession(ctx)
	if err != nil {
		metrics.TurnFailures.WithLabelValues(string(StageTranscription)).Inc()
		return &TurnError{Stage: StageTranscription, Err: err}
	}

	m.messages = append(m.messages, newUserMessage(text, KindVoice))
	m.session = nil
	m.state = StateIdle
	m.replyPending = true
	m.logger.Info("user message appended", "content", text)

	return m.generateReplyLocked(ctx)
}

// GenerateReply answers the pending user message. Send invokes it
// automatically; it is also the retry path after a failed reply attempt.
func (m *Manager) GenerateReply(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.replyPending {
		return ErrNoPendingReply
	}
	return m.generateReplyLocked(ctx)
}

func (m *Manager) generateReplyLocked(ctx context.Context) error {
	input := m.messages[len(m.messages)-1].Content
	history := make([]Message, len(m.messages))
	copy(history, m.messages)

	start := time.Now()
	reply, err := m.generator.Generate(ctx, input, history)
	metrics.UpstreamDuration.WithLabelValues(string(StageGeneration)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TurnFailures.WithLabelValues(string(StageGeneration)).Inc()
		m.logger.Error("reply generation failed", "error", err)
		return &TurnError{Stage: StageGeneration, Err: err}
	}

	start = time.Now()
	replyAudio, err := m.synthesizer.Synthesize(ctx, reply, m.speed)
	metrics.UpstreamDuration.WithLabelValues(string(StageSynthesis)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TurnFailures.WithLabelValues(string(StageSynthesis)).Inc()
		m.logger.Error("speech synthesis failed", "error", err)
		return &TurnError{Stage: StageSynthesis, Err: err}
	}

	m.messages = append(m.messages, newAssistantMessage(reply, replyAudio))
	m.replyPending = false
	metrics.TurnsCompleted.Inc()
	m.logger.Info("assistant message appended", "content", reply, "audio_bytes", len(replyAudio))
	return nil
}

// transcribeSession stages the buffer to a temp WAV, runs the transcriber and
// joins the segments. The temp file is deleted best-effort; cleanup failures
// are logged and swallowed.
func (m *Manager) transcribeSession(ctx context.Context) (string, error) {
	wav, err := audio.EncodeWAV(audio.FloatToPCM16(m.session.samples), m.session.sampleRate)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(m.config.TempDir, "capture-*.wav")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			m.logger.Warn("temp file cleanup failed", "path", tmpPath, "error", rmErr)
		}
	}()

	if _, err := tmp.Write(wav); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	start := time.Now()
	segments, err := m.transcriber.Transcribe(ctx, tmpPath)
	metrics.UpstreamDuration.WithLabelValues(string(StageTranscription)).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	return transcribe.JoinSegments(segments), nil
}

// SetSpeed updates the playback-speed multiplier, clamped to the supported
// range, and returns the applied value.
func (m *Manager) SetSpeed(speed float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.speed = audio.ClampSpeed(speed)
	return m.speed
}

// Snapshot is a read-only projection of the session for rendering.
type Snapshot struct {
	Messages     []Message `json:"messages"`
	State        State     `json:"state"`
	Speed        float64   `json:"speed"`
	ReplyPending bool      `json:"reply_pending"`
	HasPreview   bool      `json:"has_preview"`
}

// Snapshot returns the current session state. The returned messages are a
// copy; the log itself is never handed out.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages := make([]Message, len(m.messages))
	copy(messages, m.messages)
	return Snapshot{
		Messages:     messages,
		State:        m.state,
		Speed:        m.speed,
		ReplyPending: m.replyPending,
		HasPreview:   m.session != nil,
	}
}

// MessageAudio returns the synthesized audio of the assistant message with the
// given ID, or false if the message does not exist or carries no audio.
func (m *Manager) MessageAudio(id string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range m.messages {
		if msg.ID == id && len(msg.Audio) > 0 {
			return msg.Audio, true
		}
	}
	return nil, false
}
