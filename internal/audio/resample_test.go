package audio

import "testing"

func TestResampleSpeedUnityIsCopy(t *testing.T) {
	in := []int16{1, 2, 3, 4, 5}
	out := ResampleSpeed(in, 1.0)

	if len(out) != len(in) {
		t.Fatalf("expected length %d, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: expected %d, got %d", i, in[i], out[i])
		}
	}

	out[0] = 99
	if in[0] == 99 {
		t.Error("output must not alias the input buffer")
	}
}

func TestResampleSpeedDoubleHalves(t *testing.T) {
	in := make([]int16, 1000)
	out := ResampleSpeed(in, 2.0)

	if len(out) != 500 {
		t.Errorf("expected 500 samples at 2x speed, got %d", len(out))
	}
}

func TestResampleSpeedHalfDoubles(t *testing.T) {
	in := make([]int16, 1000)
	out := ResampleSpeed(in, 0.5)

	if len(out) != 2000 {
		t.Errorf("expected 2000 samples at 0.5x speed, got %d", len(out))
	}
}

func TestResampleSpeedNeverReadsOutOfBounds(t *testing.T) {
	// Any multiplier in range and any non-empty input must stay in bounds; the
	// resampler would panic on an out-of-range index, so completing is the pass.
	speeds := []float64{0.5, 0.7, 1.0, 1.3, 1.5, 1.9, 2.0}
	sizes := []int{1, 2, 3, 10, 101, 24000}

	for _, speed := range speeds {
		for _, size := range sizes {
			in := make([]int16, size)
			for i := range in {
				in[i] = int16(i % 32000)
			}
			out := ResampleSpeed(in, speed)
			if len(out) == 0 {
				t.Errorf("speed=%v size=%d: expected non-empty output", speed, size)
			}
		}
	}
}

func TestResampleSpeedEmptyInput(t *testing.T) {
	if out := ResampleSpeed(nil, 1.5); out != nil {
		t.Errorf("expected nil for empty input, got %d samples", len(out))
	}
}

func TestClampSpeed(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.1, 0.5},
		{0.5, 0.5},
		{1.0, 1.0},
		{2.0, 2.0},
		{3.5, 2.0},
	}
	for _, tc := range cases {
		if got := ClampSpeed(tc.in); got != tc.want {
			t.Errorf("ClampSpeed(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
