package workflow

import (
	"time"

	"github.com/google/uuid"
)

// SessionState is the state of one client going through a workflow.
type SessionState struct {
	ID          string         `json:"id"`
	WorkflowID  WorkflowID     `json:"workflow_id"`
	CurrentStep StepID         `json:"current_step"`
	Completed   bool           `json:"completed"`
	Data        map[string]any `json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewSessionState(workflowID WorkflowID, initialStep StepID) *SessionState {
	now := time.Now()
	return &SessionState{
		ID:          uuid.NewString(),
		WorkflowID:  workflowID,
		CurrentStep: initialStep,
		Data:        make(map[string]any),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// GetString retrieves a string value from the state data.
func (s *SessionState) GetString(key string) string {
	if v, ok := s.Data[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// Get retrieves a raw value from the state data.
func (s *SessionState) Get(key string) (any, bool) {
	v, ok := s.Data[key]
	return v, ok
}

// MergeData merges additional data into the state.
func (s *SessionState) MergeData(data map[string]any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	for k, v := range data {
		s.Data[k] = v
	}
}

// Clone copies the state and its data map. Values are copied shallowly.
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.Data = make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		c.Data[k] = v
	}
	return &c
}
