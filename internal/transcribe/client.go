package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Segment is a time-bounded span of transcribed text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Config contains transcription client configuration.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration

	Language string
	BeamSize int

	// Voice-activity-detection filter parameters forwarded to the service.
	VADMinSpeechMs int
	VADPadMs       int
	VADThreshold   float64
}

// DefaultConfig returns the transcription parameters the capture pipeline is
// tuned for: English speech with VAD filtering.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:       endpoint,
		Timeout:        60 * time.Second,
		Language:       "en",
		BeamSize:       5,
		VADMinSpeechMs: 100,
		VADPadMs:       100,
		VADThreshold:   0.25,
	}
}

// Client posts WAV files to the transcription service.
type Client struct {
	config     Config
	httpClient *http.Client
}

// transcriptionResponse is the JSON shape returned by the service.
type transcriptionResponse struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// NewClient creates a transcription client.
func NewClient(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.Language == "" {
		config.Language = "en"
	}
	if config.BeamSize <= 0 {
		config.BeamSize = 5
	}
	if config.VADMinSpeechMs <= 0 {
		config.VADMinSpeechMs = 100
	}
	if config.VADPadMs <= 0 {
		config.VADPadMs = 100
	}
	if config.VADThreshold <= 0 {
		config.VADThreshold = 0.25
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Transcribe uploads the WAV file at wavPath and returns the ordered,
// normalized transcript segments. Zero segments is a valid result; the caller
// joins them into an empty utterance.
func (c *Client) Transcribe(ctx context.Context, wavPath string) ([]Segment, error) {
	audioData, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	body, contentType, err := c.createMultipartRequest(filepath.Base(wavPath), audioData)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	segments := make([]Segment, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		seg.Text = Normalize(seg.Text)
		segments = append(segments, seg)
	}
	return segments, nil
}

// createMultipartRequest builds the multipart/form-data body carrying the WAV
// file and the transcription parameters.
func (c *Client) createMultipartRequest(filename string, audioData []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fileWriter, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fileWriter.Write(audioData); err != nil {
		return nil, "", fmt.Errorf("failed to write audio data: %w", err)
	}

	fields := map[string]string{
		"language":                   c.config.Language,
		"beam_size":                  strconv.Itoa(c.config.BeamSize),
		"vad_filter":                 "true",
		"vad_min_speech_duration_ms": strconv.Itoa(c.config.VADMinSpeechMs),
		"vad_speech_pad_ms":          strconv.Itoa(c.config.VADPadMs),
		"vad_threshold":              fmt.Sprintf("%.2f", c.config.VADThreshold),
		"response_format":            "json",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
