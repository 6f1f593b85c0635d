package core

import (
	"acadeemia/entity"
	"context"
	"fmt"
	"strings"
)

const defaultListLimit = 100

func (c *Core) ListPayments(ctx context.Context, status string, limit int64) ([]entity.PaymentRecord, error) {
	if c.repo == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return c.repo.ListPayments(ctx, strings.ToLower(strings.TrimSpace(status)), limit)
}

func (c *Core) GetPayment(ctx context.Context, id string) (*entity.PaymentWithSchool, error) {
	if c.repo == nil {
		return nil, ErrNotConfigured
	}
	payment, err := c.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("%w: payment %s", ErrNotFound, id)
	}
	return payment, nil
}

func (c *Core) ListSubscriptions(ctx context.Context, status string) ([]entity.Subscription, error) {
	if c.repo == nil {
		return nil, ErrNotConfigured
	}
	return c.repo.ListSubscriptions(ctx, strings.ToLower(strings.TrimSpace(status)))
}

func (c *Core) GatewayEvents(ctx context.Context, trackingID string) ([]entity.GatewayEvent, error) {
	if c.repo == nil {
		return nil, ErrNotConfigured
	}
	return c.repo.ListGatewayEvents(ctx, trackingID)
}

// ReverifyPayment runs verification again for a stored payment.
func (c *Core) ReverifyPayment(ctx context.Context, id string) (*entity.VerifyResult, error) {
	payment, err := c.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.TrackingID == "" {
		return nil, fmt.Errorf("%w: payment %s has no tracking id", ErrInvalidRequest, id)
	}
	return c.VerifyPayment(ctx, payment.TrackingID)
}

func (c *Core) GenerateApiKey(username string) (string, error) {
	if c.repo == nil {
		return "", ErrNotConfigured
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", ErrInvalidRequest)
	}
	return c.repo.GenerateApiKey(username)
}
