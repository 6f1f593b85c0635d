package workflow

import (
	"context"
	"encoding/json"
)

// StepID is a unique identifier for a step within a workflow.
type StepID string

// WorkflowID is a unique identifier for a workflow.
type WorkflowID string

// Action is what the client asks the current step to do.
type Action string

const (
	ActionNext   Action = "next"
	ActionBack   Action = "back"
	ActionSubmit Action = "submit"
)

// Input is one client event routed to the current step.
type Input struct {
	Action Action          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// StepResult represents the outcome of handling an input in a step.
type StepResult struct {
	NextStep    StepID
	UpdateState map[string]any
	Complete    bool
	Error       error
}

// Step defines a single workflow step.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Previous returns the step that back navigation leads to, or "" for none.
	Previous() StepID

	// Handle processes a client input. The state must not be mutated directly:
	// changes are returned in StepResult.UpdateState.
	Handle(ctx context.Context, state *SessionState, input Input) StepResult
}

// Workflow defines a complete workflow.
type Workflow interface {
	ID() WorkflowID
	InitialStep() StepID
	GetStep(id StepID) (Step, bool)
	Steps() []Step
}

// StateStorage holds session states between requests.
type StateStorage interface {
	Save(ctx context.Context, state *SessionState) error
	Load(ctx context.Context, sessionID string) (*SessionState, error)
	Delete(ctx context.Context, sessionID string) error
}
