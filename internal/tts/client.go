package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yu1234se/AI-English-Conversation-Practice/internal/audio"
)

// Config contains speech-synthesis client configuration.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration

	// Voice and LangCode select the fixed tutor voice and language variant.
	Voice    string
	LangCode string
	// SampleRate is the PCM rate the service produces.
	SampleRate int
}

// DefaultConfig returns the fixed American-English tutor voice at 24kHz.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:   endpoint,
		Timeout:    60 * time.Second,
		Voice:      "af_heart",
		LangCode:   "a",
		SampleRate: 24000,
	}
}

// Client requests synthesized speech over HTTP.
type Client struct {
	config     Config
	httpClient *http.Client
}

type synthesisRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	LangCode string `json:"lang_code"`
}

// NewClient creates a synthesis client.
func NewClient(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.Voice == "" {
		config.Voice = "af_heart"
	}
	if config.LangCode == "" {
		config.LangCode = "a"
	}
	if config.SampleRate <= 0 {
		config.SampleRate = 24000
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Synthesize renders text with the configured voice and returns a WAV buffer.
// The service responds with a stream of JSON objects each carrying a base64
// chunk of 16-bit PCM; chunks are concatenated in generation order. When the
// speed multiplier differs from 1.0 the combined buffer is time-stretched by
// nearest-neighbor resampling before encoding.
func (c *Client) Synthesize(ctx context.Context, text string, speed float64) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	speed = audio.ClampSpeed(speed)

	body, err := json.Marshal(synthesisRequest{
		Text:     text,
		Voice:    c.config.Voice,
		LangCode: c.config.LangCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	samples, err := c.decodeChunks(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("synthesis service returned no audio")
	}

	if speed != 1.0 {
		samples = audio.ResampleSpeed(samples, speed)
	}
	return audio.EncodeWAV(samples, c.config.SampleRate)
}

// decodeChunks reads the JSON chunk stream and concatenates the PCM payloads.
func (c *Client) decodeChunks(r io.Reader) ([]int16, error) {
	dec := json.NewDecoder(r)

	var samples []int16
	for {
		var chunk struct {
			AudioBase64 string `json:"audio_base64"`
		}
		if err := dec.Decode(&chunk); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode audio chunk: %w", err)
		}

		pcm, err := base64.StdEncoding.DecodeString(chunk.AudioBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode chunk payload: %w", err)
		}
		if len(pcm)%2 != 0 {
			return nil, fmt.Errorf("chunk payload length must be even, got %d bytes", len(pcm))
		}

		for i := 0; i+1 < len(pcm); i += 2 {
			samples = append(samples, int16(pcm[i])|int16(pcm[i+1])<<8)
		}
	}
	return samples, nil
}
