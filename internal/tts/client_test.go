package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yu1234se/AI-English-Conversation-Practice/internal/audio"
)

func pcmChunk(samples []int16) string {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		raw[i*2] = byte(s)
		raw[i*2+1] = byte(s >> 8)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func chunkServer(t *testing.T, chunks [][]int16, capture *synthesisRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		for _, chunk := range chunks {
			fmt.Fprintf(w, `{"audio_base64":%q}`+"\n", pcmChunk(chunk))
		}
	}))
}

func TestSynthesizeConcatenatesChunksInOrder(t *testing.T) {
	var captured synthesisRequest
	server := chunkServer(t, [][]int16{{1, 2, 3}, {4, 5}, {6}}, &captured)
	defer server.Close()

	client, err := NewClient(DefaultConfig(server.URL))
	require.NoError(t, err)

	wav, err := client.Synthesize(context.Background(), "Nice to meet you.", 1.0)
	require.NoError(t, err)

	require.Equal(t, "Nice to meet you.", captured.Text)
	require.Equal(t, "af_heart", captured.Voice)
	require.Equal(t, "a", captured.LangCode)

	samples, rate, err := audio.DecodeWAV(wav)
	require.NoError(t, err)
	require.Equal(t, 24000, rate)
	require.Equal(t, []int16{1, 2, 3, 4, 5, 6}, samples)
}

func TestSynthesizeSpeedUnityPreservesLength(t *testing.T) {
	chunk := make([]int16, 2400)
	server := chunkServer(t, [][]int16{chunk}, nil)
	defer server.Close()

	client, err := NewClient(DefaultConfig(server.URL))
	require.NoError(t, err)

	wav, err := client.Synthesize(context.Background(), "hello", 1.0)
	require.NoError(t, err)

	samples, _, err := audio.DecodeWAV(wav)
	require.NoError(t, err)
	require.Len(t, samples, 2400)
}

func TestSynthesizeDoubleSpeedHalvesSamples(t *testing.T) {
	chunk := make([]int16, 2400)
	server := chunkServer(t, [][]int16{chunk}, nil)
	defer server.Close()

	client, err := NewClient(DefaultConfig(server.URL))
	require.NoError(t, err)

	wav, err := client.Synthesize(context.Background(), "hello", 2.0)
	require.NoError(t, err)

	samples, _, err := audio.DecodeWAV(wav)
	require.NoError(t, err)
	require.Len(t, samples, 1200)
}

func TestSynthesizeClampsOutOfRangeSpeed(t *testing.T) {
	chunk := make([]int16, 1000)
	server := chunkServer(t, [][]int16{chunk}, nil)
	defer server.Close()

	client, err := NewClient(DefaultConfig(server.URL))
	require.NoError(t, err)

	// 10x is clamped to 2x, so the output is half the input.
	wav, err := client.Synthesize(context.Background(), "hello", 10.0)
	require.NoError(t, err)

	samples, _, err := audio.DecodeWAV(wav)
	require.NoError(t, err)
	require.Len(t, samples, 500)
}

func TestSynthesizeErrorsOnEmptyAudio(t *testing.T) {
	server := chunkServer(t, nil, nil)
	defer server.Close()

	client, err := NewClient(DefaultConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), "hello", 1.0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no audio")
}

func TestSynthesizeServiceErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice not found", http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(DefaultConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), "hello", 1.0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client, err := NewClient(DefaultConfig("http://localhost:0"))
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), "", 1.0)
	require.Error(t, err)
}
