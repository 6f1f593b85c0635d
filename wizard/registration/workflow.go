package registration

import (
	"acadeemia/entity"
	"acadeemia/wizard/workflow"
	"context"
	"log/slog"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "registration"
)

// Step IDs
const (
	StepAdmin  workflow.StepID = "admin"
	StepSchool workflow.StepID = "school"
	StepReview workflow.StepID = "review"
)

// State data keys
const (
	KeyPayload = "payload"
	KeyResult  = "result"
)

// IdentityChecker looks up existing accounts.
type IdentityChecker interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

// CompletionFunc receives the finished payload. The wizard never starts the
// payment itself; whatever the callback returns is stored under KeyResult.
type CompletionFunc func(ctx context.Context, payload entity.RegistrationPayload, details entity.SubmitDetails) (any, error)

// RegistrationWorkflow collects the administrator and school of a new account.
type RegistrationWorkflow struct {
	steps    map[workflow.StepID]workflow.Step
	identity IdentityChecker
	complete CompletionFunc
	log      *slog.Logger
}

func NewRegistrationWorkflow(identity IdentityChecker, complete CompletionFunc, log *slog.Logger) *RegistrationWorkflow {
	w := &RegistrationWorkflow{
		steps:    make(map[workflow.StepID]workflow.Step),
		identity: identity,
		complete: complete,
		log:      log,
	}
	w.registerSteps()
	return w
}

func (w *RegistrationWorkflow) registerSteps() {
	steps := []workflow.Step{
		NewAdminStep(),
		NewSchoolStep(),
		NewReviewStep(w.identity, w.complete, w.log),
	}
	for _, step := range steps {
		w.steps[step.ID()] = step
	}
}

func (w *RegistrationWorkflow) ID() workflow.WorkflowID {
	return WorkflowID
}

func (w *RegistrationWorkflow) InitialStep() workflow.StepID {
	return StepAdmin
}

func (w *RegistrationWorkflow) GetStep(id workflow.StepID) (workflow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}

func (w *RegistrationWorkflow) Steps() []workflow.Step {
	return []workflow.Step{w.steps[StepAdmin], w.steps[StepSchool], w.steps[StepReview]}
}

// InitialData seeds a session with the plan chosen before the wizard opened.
func InitialData(plan entity.PlanSelection) map[string]any {
	return map[string]any{
		KeyPayload: entity.RegistrationPayload{Plan: plan},
	}
}

// Payload returns the registration collected so far in a session.
func Payload(state *workflow.SessionState) entity.RegistrationPayload {
	if v, ok := state.Get(KeyPayload); ok {
		if p, ok := v.(entity.RegistrationPayload); ok {
			return p
		}
	}
	return entity.RegistrationPayload{}
}
