package audio

import "math"

const (
	// MinSpeed and MaxSpeed bound the playback-speed multiplier.
	MinSpeed = 0.5
	MaxSpeed = 2.0
)

// ClampSpeed forces a playback-speed multiplier into [MinSpeed, MaxSpeed].
func ClampSpeed(speed float64) float64 {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// ResampleSpeed time-stretches samples by the given multiplier using
// nearest-neighbor index selection: the output has floor(len/speed) samples and
// output index i reads source index round(i*speed), clamped to the last valid
// index. This is intentionally lossy: no interpolation and no pitch
// preservation, which is acceptable for adjusting tutor speech playback.
// Exact .5 products round away from zero (math.Round), so tie indices may
// differ by one from a round-half-to-even selection; inaudible either way.
// A multiplier of 1.0 returns a copy of the input.
func ResampleSpeed(samples []int16, speed float64) []int16 {
	if len(samples) == 0 {
		return nil
	}
	if speed == 1.0 {
		out := make([]int16, len(samples))
		copy(out, samples)
		return out
	}

	newLength := int(float64(len(samples)) / speed)
	if newLength < 1 {
		newLength = 1
	}
	out := make([]int16, newLength)
	for i := 0; i < newLength; i++ {
		src := int(math.Round(float64(i) * speed))
		if src > len(samples)-1 {
			src = len(samples) - 1
		}
		out[i] = samples[src]
	}
	return out
}
