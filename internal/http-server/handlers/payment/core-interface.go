package payment

import (
	"acadeemia/entity"
	"context"
)

type Core interface {
	ProcessPayment(ctx context.Context, req *entity.ProcessPaymentRequest) (*entity.ProcessPaymentResult, error)
	VerifyPayment(ctx context.Context, trackingID string) (*entity.VerifyResult, error)
	HandleIpn(ctx context.Context, n entity.IpnNotification) *entity.IpnAck
	SupportEmail() string
	RetryURL() string
}
