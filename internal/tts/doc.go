// Package tts turns tutor replies into playable audio through an external
// speech-synthesis service. The service streams back base64-encoded PCM
// chunks which are concatenated, speed-adjusted and WAV-encoded for the UI.
package tts
