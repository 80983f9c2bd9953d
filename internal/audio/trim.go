package audio

const (
	// DefaultTrimThreshold is the amplitude above which a sample counts as speech.
	DefaultTrimThreshold float32 = 0.01
	// DefaultTrimPadding is the number of samples kept on each side of the
	// detected speech interval.
	DefaultTrimPadding = 100
)

// TrimSilence returns the sub-range of samples spanning the first and last
// sample whose absolute amplitude is strictly greater than threshold, extended
// by padding samples on each side and clamped to the buffer bounds. A sample
// exactly at the threshold does not count as speech. If no sample exceeds the
// threshold the result is nil and the caller must not proceed to transcription.
func TrimSilence(samples []float32, threshold float32, padding int) []float32 {
	first, last := -1, -1
	for i, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil
	}

	start := first - padding
	if start < 0 {
		start = 0
	}
	// The right edge is exclusive: the kept range is [first-padding, last+padding).
	end := last + padding
	if end > len(samples) {
		end = len(samples)
	}

	out := make([]float32, end-start)
	copy(out, samples[start:end])
	return out
}
