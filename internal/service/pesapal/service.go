package pesapal

import (
	"acadeemia/internal/config"
	"acadeemia/internal/lib/sl"
	"acadeemia/internal/metrics"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	opRequestToken = "request_token"
	opRegisterIPN  = "register_ipn"
	opSubmitOrder  = "submit_order"
	opGetStatus    = "get_transaction_status"
)

// Service is a client of the PesaPal v3 API. Tokens are never cached:
// every checkout operation requests its own.
type Service struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	ipnRetries     uint64
	retryInterval  time.Duration
	client         *http.Client
	metrics        *metrics.Metrics
	log            *slog.Logger
}

func NewPesapalService(conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		baseURL:        strings.TrimRight(conf.PesapalBaseURL(), "/"),
		consumerKey:    conf.Pesapal.ConsumerKey,
		consumerSecret: conf.Pesapal.ConsumerSecret,
		ipnRetries:     conf.Pesapal.IpnRetries,
		retryInterval:  500 * time.Millisecond,
		client:         &http.Client{Timeout: conf.Pesapal.Timeout},
		log:            logger.With(sl.Module("pesapal")),
	}
}

func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// call performs one JSON request against the gateway and decodes the reply into out.
func (s *Service) call(ctx context.Context, op, method, path, token string, body, out interface{}) (err error) {
	fullURL := s.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("%s: marshal request: %w", op, mErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := s.log.With(
		slog.String("operation", op),
		slog.String("url", fullURL),
		slog.String("method", method),
	)

	t := time.Now()
	defer func() {
		s.metrics.ObserveGatewayCall(op, t, err)
		log = log.With(slog.Duration("duration", time.Since(t)))
		if err != nil {
			log.Error("gateway call", sl.Err(err))
		} else {
			log.Debug("gateway call")
		}
	}()

	resp, err := s.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("read response body: %w", err)}
	}

	log = log.With(slog.Int("status", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Error *gatewayError `json:"error"`
		}
		_ = json.Unmarshal(bodyBytes, &envelope)
		return envelope.Error.apiError(op, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err = json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", op, err)
	}
	return nil
}
