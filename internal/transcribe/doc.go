// Package transcribe sends captured speech to an external whisper-style
// transcription service and normalizes the returned English text. The service
// is reached over HTTP with a multipart WAV upload and responds with ordered,
// time-stamped segments.
package transcribe
