package errors

import (
	"acadeemia/impl/core"
	"acadeemia/wizard/registration"
	"acadeemia/wizard/workflow"
	"context"
	stderrors "errors"
	"net/http"
)

// StatusCode maps a service error to the HTTP status answered to the client.
func StatusCode(err error) int {
	var vErr *registration.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, core.ErrInvalidRequest),
		stderrors.Is(err, core.ErrUnknownPlan),
		stderrors.Is(err, workflow.ErrNoPreviousStep),
		stderrors.Is(err, workflow.ErrUnknownAction):
		return http.StatusBadRequest
	case stderrors.Is(err, core.ErrNotFound),
		stderrors.Is(err, workflow.ErrSessionNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, core.ErrDuplicateOrder),
		stderrors.Is(err, core.ErrNotReady):
		return http.StatusConflict
	case stderrors.Is(err, core.ErrGateway):
		return http.StatusBadGateway
	case stderrors.Is(err, core.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
