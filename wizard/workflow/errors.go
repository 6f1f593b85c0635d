package workflow

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found or expired")
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrNoPreviousStep   = errors.New("no previous step")
	ErrUnknownAction    = errors.New("unknown action")
)
