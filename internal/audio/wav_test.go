package audio

import (
	"encoding/binary"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768, 42}

	data, err := EncodeWAV(samples, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if len(data) != 44+len(samples)*2 {
		t.Errorf("expected %d bytes, got %d", 44+len(samples)*2, len(data))
	}

	decoded, rate, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if rate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", rate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(decoded))
	}
	for i, s := range samples {
		if decoded[i] != s {
			t.Errorf("sample %d: expected %d, got %d", i, s, decoded[i])
		}
	}
}

func TestEncodeWAVRejectsEmpty(t *testing.T) {
	if _, err := EncodeWAV(nil, 16000); err == nil {
		t.Error("expected error for empty samples")
	}
	if _, err := EncodeWAV([]int16{1}, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, _, err := DecodeWAV([]byte("not a wav")); err == nil {
		t.Error("expected error for short data")
	}

	data, err := EncodeWAV([]int16{1, 2, 3}, 24000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	data[0] = 'X' // corrupt the RIFF magic
	if _, _, err := DecodeWAV(data); err == nil {
		t.Error("expected error for corrupted header")
	}
}

func TestDecodeWAVRejectsOversizedDataChunk(t *testing.T) {
	data, err := EncodeWAV([]int16{1, 2, 3, 4}, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	// Claim a multi-GiB data chunk in an 8-byte payload. The decoder must
	// reject the header instead of allocating the declared size.
	binary.LittleEndian.PutUint32(data[40:44], 1<<30)
	if _, _, err := DecodeWAV(data); err == nil {
		t.Error("expected error for data chunk larger than the payload")
	}
}

func TestFloatPCMConversion(t *testing.T) {
	in := []float32{0, 0.5, -0.5, 1.5, -1.5}
	pcm := FloatToPCM16(in)

	if pcm[0] != 0 {
		t.Errorf("expected 0, got %d", pcm[0])
	}
	if pcm[3] != 32767 {
		t.Errorf("expected clipping to 32767, got %d", pcm[3])
	}
	if pcm[4] != -32768 {
		t.Errorf("expected clipping to -32768, got %d", pcm[4])
	}

	back := PCM16ToFloat(pcm)
	if back[1] < 0.49 || back[1] > 0.51 {
		t.Errorf("round trip drifted: expected ~0.5, got %f", back[1])
	}
}

func TestDuration(t *testing.T) {
	if d := Duration(16000, 16000); d != 1.0 {
		t.Errorf("expected 1.0s, got %f", d)
	}
	if d := Duration(12000, 24000); d != 0.5 {
		t.Errorf("expected 0.5s, got %f", d)
	}
	if d := Duration(100, 0); d != 0 {
		t.Errorf("expected 0 for invalid rate, got %f", d)
	}
}
