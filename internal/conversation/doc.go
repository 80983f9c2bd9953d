// Package conversation owns the dialogue state for a practice session: the
// append-only message log, the in-flight recording buffer, and the turn-taking
// state machine that drives trimming, transcription, reply generation and
// speech synthesis through their external collaborators.
package conversation
