package registration

import (
	"acadeemia/entity"
	"acadeemia/internal/lib/sl"
	"acadeemia/wizard/workflow"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// BaseStep provides common functionality for all steps.
type BaseStep struct {
	id   workflow.StepID
	prev workflow.StepID
}

func (s *BaseStep) ID() workflow.StepID {
	return s.id
}

func (s *BaseStep) Previous() workflow.StepID {
	return s.prev
}

func (s *BaseStep) decode(input workflow.Input, v any) *ValidationError {
	if len(input.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(input.Data, v); err != nil {
		return invalid(s.id, RuleInput, "", "Invalid form data")
	}
	return nil
}

// AdminStep collects the administrator account.
type AdminStep struct {
	BaseStep
}

func NewAdminStep() *AdminStep {
	return &AdminStep{BaseStep: BaseStep{id: StepAdmin}}
}

func (s *AdminStep) Handle(_ context.Context, state *workflow.SessionState, input workflow.Input) workflow.StepResult {
	var admin entity.AdminDetails
	if vErr := s.decode(input, &admin); vErr != nil {
		return workflow.StepResult{Error: vErr}
	}
	admin.FirstName = strings.TrimSpace(admin.FirstName)
	admin.LastName = strings.TrimSpace(admin.LastName)
	admin.Email = strings.TrimSpace(admin.Email)
	admin.Phone = strings.TrimSpace(admin.Phone)

	if vErr := ValidateAdmin(admin); vErr != nil {
		return workflow.StepResult{Error: vErr}
	}

	payload := Payload(state)
	payload.SetAdmin(admin)
	return workflow.StepResult{
		NextStep:    StepSchool,
		UpdateState: map[string]any{KeyPayload: payload},
	}
}

// SchoolStep collects the school details.
type SchoolStep struct {
	BaseStep
}

func NewSchoolStep() *SchoolStep {
	return &SchoolStep{BaseStep: BaseStep{id: StepSchool, prev: StepAdmin}}
}

func (s *SchoolStep) Handle(_ context.Context, state *workflow.SessionState, input workflow.Input) workflow.StepResult {
	var school entity.SchoolDetails
	if vErr := s.decode(input, &school); vErr != nil {
		return workflow.StepResult{Error: vErr}
	}

	if vErr := ValidateSchool(school); vErr != nil {
		return workflow.StepResult{Error: vErr}
	}

	payload := Payload(state)
	payload.SetSchool(school)
	return workflow.StepResult{
		NextStep:    StepReview,
		UpdateState: map[string]any{KeyPayload: payload},
	}
}

// ReviewStep checks for an existing account and hands the payload to the completion callback.
type ReviewStep struct {
	BaseStep
	identity IdentityChecker
	complete CompletionFunc
	log      *slog.Logger
}

func NewReviewStep(identity IdentityChecker, complete CompletionFunc, log *slog.Logger) *ReviewStep {
	return &ReviewStep{
		BaseStep: BaseStep{id: StepReview, prev: StepSchool},
		identity: identity,
		complete: complete,
		log:      log,
	}
}

func (s *ReviewStep) Handle(ctx context.Context, state *workflow.SessionState, input workflow.Input) workflow.StepResult {
	var details entity.SubmitDetails
	if vErr := s.decode(input, &details); vErr != nil {
		return workflow.StepResult{Error: vErr}
	}

	payload := Payload(state)
	if vErr := ValidateContact(payload, details); vErr != nil {
		return workflow.StepResult{Error: vErr}
	}

	existing, err := s.identity.GetUserByEmail(ctx, payload.AdminEmail)
	if err != nil {
		return workflow.StepResult{Error: fmt.Errorf("checking existing account: %w", err)}
	}
	if existing != nil {
		return workflow.StepResult{Error: invalid(StepReview, RuleDuplicate, "adminEmail", "An account with this email already exists")}
	}

	if s.complete == nil {
		return workflow.StepResult{Complete: true}
	}

	result, err := s.complete(ctx, payload, details)
	if err != nil {
		s.log.With(
			slog.String("session_id", state.ID),
			sl.Err(err),
		).Warn("registration hand-off failed")
		return workflow.StepResult{Error: err}
	}

	return workflow.StepResult{
		Complete:    true,
		UpdateState: map[string]any{KeyResult: result},
	}
}
