package pesapal

import (
	"acadeemia/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cenkalti/backoff/v4"
)

type ipnRequest struct {
	URL                 string `json:"url"`
	IpnNotificationType string `json:"ipn_notification_type"`
}

type ipnResponse struct {
	URL         string        `json:"url"`
	CreatedDate string        `json:"created_date"`
	IpnID       string        `json:"ipn_id"`
	IpnStatus   int           `json:"ipn_status"`
	Error       *gatewayError `json:"error"`
}

// RegisterIPN registers the notification url and returns its notification id.
func (s *Service) RegisterIPN(ctx context.Context, token, url, notificationType string) (string, error) {
	var resp ipnResponse
	err := s.call(ctx, opRegisterIPN, http.MethodPost, "/api/URLSetup/RegisterIPN", token, ipnRequest{
		URL:                 url,
		IpnNotificationType: notificationType,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.IpnID == "" {
		if !resp.Error.empty() {
			return "", resp.Error.apiError(opRegisterIPN, http.StatusOK)
		}
		return "", fmt.Errorf("%s: no ipn_id in response", opRegisterIPN)
	}
	return resp.IpnID, nil
}

// RegisterIPNWithRetry retries RegisterIPN with exponential backoff. Client
// side gateway errors are not retried.
func (s *Service) RegisterIPNWithRetry(ctx context.Context, token, url, notificationType string) (string, error) {
	var ipnID string
	attempt := 0

	operation := func() error {
		attempt++
		id, err := s.RegisterIPN(ctx, token, url, notificationType)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.Retryable() {
				return backoff.Permanent(err)
			}
			s.log.With(
				slog.Int("attempt", attempt),
				sl.Err(err),
			).Warn("ipn registration attempt failed")
			return err
		}
		ipnID = id
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, s.ipnRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return ipnID, nil
}
