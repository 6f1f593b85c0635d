package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	GatewayEventReceived  = "received"
	GatewayEventProcessed = "processed"
	GatewayEventFailed    = "failed"
)

// GatewayEvent is one IPN notification received from the gateway.
type GatewayEvent struct {
	ID                string     `json:"id" bson:"_id"`
	TrackingID        string     `json:"order_tracking_id" bson:"order_tracking_id"`
	MerchantReference string     `json:"merchant_reference" bson:"merchant_reference"`
	NotificationType  string     `json:"notification_type" bson:"notification_type"`
	RawQuery          string     `json:"raw_query" bson:"raw_query"`
	Status            string     `json:"status" bson:"status"`
	PaymentStatus     string     `json:"payment_status,omitempty" bson:"payment_status,omitempty"`
	Error             string     `json:"error,omitempty" bson:"error,omitempty"`
	ReceivedAt        time.Time  `json:"received_at" bson:"received_at"`
	ProcessedAt       *time.Time `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}

func NewGatewayEvent(n IpnNotification) *GatewayEvent {
	return &GatewayEvent{
		ID:                uuid.NewString(),
		TrackingID:        n.OrderTrackingID,
		MerchantReference: n.OrderMerchantReference,
		NotificationType:  n.OrderNotificationType,
		RawQuery:          n.RawQuery,
		Status:            GatewayEventReceived,
		ReceivedAt:        time.Now(),
	}
}

// IpnNotification carries the parameters the gateway sends to the IPN url.
type IpnNotification struct {
	OrderTrackingID        string `json:"OrderTrackingId"`
	OrderMerchantReference string `json:"OrderMerchantReference"`
	OrderNotificationType  string `json:"OrderNotificationType"`
	RawQuery               string `json:"-"`
}

// IpnAck is the acknowledgement body the gateway expects back.
type IpnAck struct {
	OrderNotificationType  string `json:"orderNotificationType"`
	OrderTrackingID        string `json:"orderTrackingId"`
	OrderMerchantReference string `json:"orderMerchantReference"`
	Status                 int    `json:"status"`
}
