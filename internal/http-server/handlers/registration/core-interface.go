package registration

import (
	"acadeemia/entity"
	"acadeemia/wizard/workflow"
	"context"
)

type Core interface {
	Plans() []entity.Plan
	StartRegistration(ctx context.Context, planName string) (*entity.RegistrationSession, error)
	GetRegistration(ctx context.Context, sessionID string) (*entity.RegistrationSession, error)
	RegistrationStep(ctx context.Context, sessionID string, input workflow.Input) (*entity.RegistrationSession, error)
	SubmitRegistration(ctx context.Context, sessionID string, details entity.SubmitDetails) (*entity.RegistrationSession, error)
	CloseRegistration(ctx context.Context, sessionID string) error
}
