package core

import (
	"acadeemia/entity"
	"acadeemia/internal/lib/money"
	"acadeemia/internal/lib/sl"
	"acadeemia/internal/ws"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const receiptTimeout = 30 * time.Second

// VerifyPayment asks the gateway for the state of an order, records it on the
// payment and activates the school's subscription once the payment is COMPLETED.
// A missing local payment record is not an error. The returned result is never nil.
func (c *Core) VerifyPayment(ctx context.Context, trackingID string) (*entity.VerifyResult, error) {
	trackingID = strings.TrimSpace(trackingID)
	log := c.log.With(slog.String("order_tracking_id", trackingID))

	fail := func(err error) (*entity.VerifyResult, error) {
		c.metrics.VerificationOutcome("error")
		log.With(sl.Err(err)).Warn("payment verification failed")
		return &entity.VerifyResult{Success: false, Error: err.Error()}, err
	}

	if trackingID == "" {
		return fail(fmt.Errorf("%w: orderTrackingId is required", ErrInvalidRequest))
	}
	if c.gateway == nil {
		return fail(ErrNotConfigured)
	}

	token, err := c.gateway.RequestToken(ctx)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrGateway, err))
	}

	status, err := c.gateway.GetTransactionStatus(ctx, token, trackingID)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrGateway, err))
	}

	result := &entity.VerifyResult{
		Success: status.IsCompleted(),
		Status:  status.PaymentStatusDescription,
		Message: statusMessage(status),
	}
	log = log.With(slog.String("status", status.PaymentStatusDescription))

	payment := c.reconcile(ctx, log, trackingID, status)
	if payment != nil {
		method := payment.PaymentMethod
		if method == "" {
			method = status.PaymentMethod
		}
		result.OrderDetails = &entity.OrderDetails{
			OrderID:       payment.ID,
			SchoolName:    payment.SchoolName,
			Plan:          payment.Description,
			Amount:        money.Format(payment.Amount, payment.Currency),
			PaymentMethod: method,
		}
	}

	c.metrics.VerificationOutcome(status.PaymentStatusDescription)
	c.broadcast(ws.EventPaymentStatus, map[string]interface{}{
		"order_tracking_id": trackingID,
		"status":            status.PaymentStatusDescription,
		"confirmation_code": status.ConfirmationCode,
		"matched":           payment != nil,
	})
	log.Info("payment verified")

	return result, nil
}

// reconcile writes the gateway status onto the local payment and activates the
// subscription on completion. Storage failures are logged and counted only.
func (c *Core) reconcile(ctx context.Context, log *slog.Logger, trackingID string, status *entity.TransactionStatus) *entity.PaymentWithSchool {
	if c.repo == nil {
		return nil
	}

	payment, err := c.repo.FindPaymentByTrackingID(ctx, trackingID)
	if err != nil {
		c.metrics.PersistenceWarning("payment_lookup")
		log.With(sl.Err(err)).Error("payment lookup failed")
		return nil
	}
	if payment == nil {
		log.Warn("no payment record for tracking id")
		return nil
	}

	stored := entity.PaymentStatus(status.PaymentStatusDescription)
	if err = c.repo.UpdatePaymentStatus(ctx, trackingID, stored, status.ConfirmationCode); err != nil {
		c.metrics.PersistenceWarning("payment_update")
		log.With(sl.Err(err)).Error("payment status update failed")
	} else {
		payment.Status = stored
		payment.ConfirmationCode = status.ConfirmationCode
	}

	if !status.IsCompleted() || payment.SchoolID == "" {
		return payment
	}

	activated, err := c.repo.ActivateSubscription(ctx, payment.SchoolID)
	if err != nil {
		c.metrics.PersistenceWarning("subscription_activate")
		log.With(sl.Err(err)).Error("subscription activation failed")
		return payment
	}
	if activated {
		c.metrics.SubscriptionActivated()
		log.With(slog.String("school_id", payment.SchoolID)).Info("subscription activated")
		c.broadcast(ws.EventSubscriptionActivated, map[string]string{
			"school_id":   payment.SchoolID,
			"school_name": payment.SchoolName,
			"order_id":    payment.ID,
		})
		c.sendReceipt(ctx, payment)
	}

	return payment
}

func statusMessage(status *entity.TransactionStatus) string {
	if status.IsCompleted() {
		return "Payment completed successfully"
	}
	if status.Description != "" {
		return status.Description
	}
	if status.PaymentStatusDescription == "" {
		return "Payment status unknown"
	}
	return "Payment " + strings.ToLower(status.PaymentStatusDescription)
}

// sendReceipt mails the administrator in the background. Failures are only logged.
func (c *Core) sendReceipt(ctx context.Context, payment *entity.PaymentWithSchool) {
	if c.mailer == nil {
		return
	}
	detached := context.WithoutCancel(ctx)

	go func() {
		ctx, cancel := context.WithTimeout(detached, receiptTimeout)
		defer cancel()

		log := c.log.With(slog.String("order_id", payment.ID))

		profile, err := c.repo.GetProfileBySchool(ctx, payment.SchoolID)
		if err != nil || profile == nil {
			log.With(sl.Err(err)).Warn("receipt skipped: no administrator profile")
			return
		}

		receipt := entity.PaymentReceipt{
			ToEmail:          profile.Email,
			ToName:           strings.TrimSpace(profile.FirstName + " " + profile.LastName),
			SchoolName:       payment.SchoolName,
			OrderID:          payment.ID,
			Plan:             payment.PlanName,
			Amount:           money.Format(payment.Amount, payment.Currency),
			PaymentMethod:    payment.PaymentMethod,
			ConfirmationCode: payment.ConfirmationCode,
		}
		if sub, err := c.repo.GetSubscriptionBySchool(ctx, payment.SchoolID); err == nil && sub != nil {
			receipt.ValidUntil = sub.EndDate
		}

		if err = c.mailer.SendReceipt(ctx, receipt); err != nil {
			log.With(sl.Err(err)).Error("send receipt")
		}
	}()
}

// HandleIpn records a gateway notification and re-verifies the order it names.
// The acknowledgement carries status 200 when processing succeeded, 500 otherwise.
func (c *Core) HandleIpn(ctx context.Context, n entity.IpnNotification) *entity.IpnAck {
	event := entity.NewGatewayEvent(n)
	ack := &entity.IpnAck{
		OrderNotificationType:  n.OrderNotificationType,
		OrderTrackingID:        n.OrderTrackingID,
		OrderMerchantReference: n.OrderMerchantReference,
		Status:                 200,
	}
	log := c.log.With(
		slog.String("order_tracking_id", n.OrderTrackingID),
		slog.String("merchant_reference", n.OrderMerchantReference),
		slog.String("notification_type", n.OrderNotificationType),
	)

	c.saveEvent(ctx, log, event)

	var result *entity.VerifyResult
	var err error
	if n.OrderTrackingID == "" {
		err = fmt.Errorf("%w: notification without OrderTrackingId", ErrInvalidRequest)
	} else {
		result, err = c.VerifyPayment(ctx, n.OrderTrackingID)
	}

	processed := c.now()
	event.ProcessedAt = &processed
	if err != nil {
		event.Status = entity.GatewayEventFailed
		event.Error = err.Error()
		ack.Status = 500
	} else {
		event.Status = entity.GatewayEventProcessed
		event.PaymentStatus = result.Status
	}
	c.saveEvent(ctx, log, event)

	log.With(slog.Int("ack_status", ack.Status)).Info("ipn handled")
	return ack
}

func (c *Core) saveEvent(ctx context.Context, log *slog.Logger, event *entity.GatewayEvent) {
	if c.repo == nil {
		return
	}
	if err := c.repo.SaveGatewayEvent(ctx, event); err != nil {
		c.metrics.PersistenceWarning("gateway_event")
		log.With(sl.Err(err)).Error("save gateway event")
	}
}
