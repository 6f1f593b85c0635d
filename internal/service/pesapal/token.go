package pesapal

import (
	"context"
	"fmt"
	"net/http"
)

type tokenRequest struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
}

type tokenResponse struct {
	Token      string        `json:"token"`
	ExpiryDate string        `json:"expiryDate"`
	Message    string        `json:"message"`
	Error      *gatewayError `json:"error"`
}

// RequestToken exchanges the consumer key/secret for a bearer token.
func (s *Service) RequestToken(ctx context.Context) (string, error) {
	var resp tokenResponse
	err := s.call(ctx, opRequestToken, http.MethodPost, "/api/Auth/RequestToken", "", tokenRequest{
		ConsumerKey:    s.consumerKey,
		ConsumerSecret: s.consumerSecret,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	if resp.Token == "" {
		if !resp.Error.empty() {
			return "", fmt.Errorf("%w: %w", ErrAuth, resp.Error.apiError(opRequestToken, http.StatusOK))
		}
		return "", fmt.Errorf("%w: no token in response", ErrAuth)
	}
	return resp.Token, nil
}
