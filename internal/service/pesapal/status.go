package pesapal

import (
	"acadeemia/entity"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type statusResponse struct {
	entity.TransactionStatus
	Error *gatewayError `json:"error"`
}

// GetTransactionStatus queries the current state of an order by its tracking id.
func (s *Service) GetTransactionStatus(ctx context.Context, token, trackingID string) (*entity.TransactionStatus, error) {
	path := "/api/Transactions/GetTransactionStatus?orderTrackingId=" + url.QueryEscape(trackingID)

	var resp statusResponse
	if err := s.call(ctx, opGetStatus, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatus, err)
	}
	if resp.PaymentStatusDescription == "" && !resp.Error.empty() {
		return nil, fmt.Errorf("%w: %w", ErrStatus, resp.Error.apiError(opGetStatus, http.StatusOK))
	}
	status := resp.TransactionStatus
	return &status, nil
}
