// Package audio handles raw sample buffers for the conversation pipeline.
// It implements silence trimming on float32 capture buffers, mono 16-bit PCM
// WAV encoding/decoding, and the nearest-neighbor resampling used for
// playback-speed adjustment of synthesized speech.
package audio
