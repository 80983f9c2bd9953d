package server

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/yu1234se/AI-English-Conversation-Practice/internal/audio"
	"github.com/yu1234se/AI-English-Conversation-Practice/internal/conversation"
)

// Server wires the conversation manager to the HTTP API.
type Server struct {
	app     *fiber.App
	manager *conversation.Manager
	logger  *slog.Logger
	hub     *hub
}

// messageView is the log entry shape rendered to the UI. Assistant audio is
// referenced by URL rather than inlined.
type messageView struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Kind      string    `json:"kind,omitempty"`
	Content   string    `json:"content"`
	AudioURL  string    `json:"audio_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// stateView is the full session projection pushed to the UI.
type stateView struct {
	Messages     []messageView `json:"messages"`
	State        string        `json:"state"`
	Speed        float64       `json:"speed"`
	ReplyPending bool          `json:"reply_pending"`
	HasPreview   bool          `json:"has_preview"`
}

// New creates the API server around a conversation manager.
func New(manager *conversation.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		app:     fiber.New(),
		manager: manager,
		logger:  logger,
		hub:     newHub(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	api.Post("/recording/start", s.handleStartRecording)
	api.Post("/recording/stop", s.handleStopRecording)
	api.Get("/recording/preview", s.handlePreview)
	api.Post("/recording/discard", s.handleDiscard)
	api.Post("/send", s.handleSend)
	api.Post("/reply", s.handleReply)
	api.Put("/speed", s.handleSetSpeed)
	api.Get("/conversation", s.handleConversation)
	api.Get("/messages/:id/audio", s.handleMessageAudio)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())(c.Context())
		return nil
	})

	// Require a WebSocket upgrade on /ws.
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleWebSocket))
}

// App exposes the fiber application for listening and tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the API on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleStartRecording(c *fiber.Ctx) error {
	if err := s.manager.StartRecording(); err != nil {
		return s.commandError(c, err)
	}
	return s.respondState(c)
}

// handleStopRecording receives the finished capture buffer as a mono 16-bit
// WAV body and hands the decoded samples to the manager for trimming.
func (s *Server) handleStopRecording(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "request body must contain the captured WAV audio")
	}

	samples, sampleRate, err := audio.DecodeWAV(body)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid WAV payload: %v", err))
	}

	if err := s.manager.StopRecording(audio.PCM16ToFloat(samples), sampleRate); err != nil {
		return s.commandError(c, err)
	}
	return s.respondState(c)
}

func (s *Server) handlePreview(c *fiber.Ctx) error {
	wav, err := s.manager.PreviewWAV()
	if err != nil {
		return s.commandError(c, err)
	}
	c.Set(fiber.HeaderContentType, "audio/wav")
	return c.Send(wav)
}

func (s *Server) handleDiscard(c *fiber.Ctx) error {
	if err := s.manager.Discard(); err != nil {
		return s.commandError(c, err)
	}
	return s.respondState(c)
}

func (s *Server) handleSend(c *fiber.Ctx) error {
	if err := s.manager.Send(c.Context()); err != nil {
		return s.commandError(c, err)
	}
	return s.respondState(c)
}

func (s *Server) handleReply(c *fiber.Ctx) error {
	if err := s.manager.GenerateReply(c.Context()); err != nil {
		return s.commandError(c, err)
	}
	return s.respondState(c)
}

func (s *Server) handleSetSpeed(c *fiber.Ctx) error {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	applied := s.manager.SetSpeed(req.Speed)
	s.logger.Info("playback speed updated", "speed", applied)
	return s.respondState(c)
}

func (s *Server) handleConversation(c *fiber.Ctx) error {
	return c.JSON(s.currentState())
}

func (s *Server) handleMessageAudio(c *fiber.Ctx) error {
	wav, ok := s.manager.MessageAudio(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no audio for this message")
	}
	c.Set(fiber.HeaderContentType, "audio/wav")
	return c.Send(wav)
}

// handleWebSocket sends the current state on connect, registers the client
// for broadcasts, and blocks reading until the peer disconnects.
func (s *Server) handleWebSocket(conn *websocket.Conn) {
	defer conn.Close()

	if err := conn.WriteJSON(s.currentState()); err != nil {
		return
	}
	s.hub.add(conn)
	defer s.hub.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// respondState answers a successful command with the new state and pushes the
// same snapshot to WebSocket clients.
func (s *Server) respondState(c *fiber.Ctx) error {
	view := s.currentState()
	s.hub.broadcast(view)
	return c.JSON(view)
}

func (s *Server) currentState() stateView {
	snap := s.manager.Snapshot()
	view := stateView{
		Messages:     make([]messageView, 0, len(snap.Messages)),
		State:        string(snap.State),
		Speed:        snap.Speed,
		ReplyPending: snap.ReplyPending,
		HasPreview:   snap.HasPreview,
	}
	for _, msg := range snap.Messages {
		mv := messageView{
			ID:        msg.ID,
			Role:      string(msg.Role),
			Kind:      string(msg.Kind),
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
		if msg.Role == conversation.RoleAssistant {
			mv.AudioURL = "/api/messages/" + msg.ID + "/audio"
		}
		view.Messages = append(view.Messages, mv)
	}
	return view
}

// commandError maps manager errors onto HTTP statuses: empty captures are a
// user-visible warning, state conflicts are 409, and upstream failures are
// transient 502 notices. Nothing here is fatal; the session stays usable.
func (s *Server) commandError(c *fiber.Ctx, err error) error {
	var turnErr *conversation.TurnError

	switch {
	case errors.Is(err, conversation.ErrNoAudio):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"warning": "No audio recorded. Please try again.",
		})
	case errors.Is(err, conversation.ErrBusy),
		errors.Is(err, conversation.ErrReplyPending),
		errors.Is(err, conversation.ErrNotReady),
		errors.Is(err, conversation.ErrNoPendingReply):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &turnErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
			"stage": string(turnErr.Stage),
		})
	default:
		s.logger.Error("unexpected command error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
