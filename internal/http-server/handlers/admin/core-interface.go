package admin

import (
	"acadeemia/entity"
	"context"
)

type Core interface {
	ListPayments(ctx context.Context, status string, limit int64) ([]entity.PaymentRecord, error)
	GetPayment(ctx context.Context, id string) (*entity.PaymentWithSchool, error)
	ReverifyPayment(ctx context.Context, id string) (*entity.VerifyResult, error)
	GatewayEvents(ctx context.Context, trackingID string) ([]entity.GatewayEvent, error)
	ListSubscriptions(ctx context.Context, status string) ([]entity.Subscription, error)
}
