package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAudio reports a recording with no speech above the trim threshold.
	ErrNoAudio = errors.New("conversation: no audio detected above the silence threshold")
	// ErrBusy reports a command issued while another recording or turn is active.
	ErrBusy = errors.New("conversation: another recording is already active")
	// ErrNotReady reports a command that requires a reviewed recording.
	ErrNotReady = errors.New("conversation: no recorded audio awaiting send")
	// ErrReplyPending reports a new recording attempted while the last user
	// message is still unanswered.
	ErrReplyPending = errors.New("conversation: assistant reply still pending, retry the reply first")
	// ErrNoPendingReply reports a reply retry with nothing to answer.
	ErrNoPendingReply = errors.New("conversation: no pending user message to answer")
)

// Stage names the pipeline step an external call failed in.
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageGeneration    Stage = "generation"
	StageSynthesis     Stage = "synthesis"
)

// TurnError wraps an external-service failure with the pipeline stage it
// occurred in. The turn is aborted with no partial log entry; the error is a
// transient notice for the UI, never fatal to the process.
type TurnError struct {
	Stage Stage
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("conversation: %s failed: %v", e.Stage, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}
