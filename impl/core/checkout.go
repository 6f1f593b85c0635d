package core

import (
	"acadeemia/entity"
	"acadeemia/internal/lib/idempotency"
	"acadeemia/internal/lib/sl"
	"acadeemia/internal/ws"
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ProcessPayment opens a gateway order for a registration and provisions the
// school account behind it. Gateway failures are fatal and leave nothing behind;
// storage failures after the order was accepted are reported as warnings.
// The returned result is never nil.
func (c *Core) ProcessPayment(ctx context.Context, req *entity.ProcessPaymentRequest) (*entity.ProcessPaymentResult, error) {
	log := c.log.With(
		slog.String("order_id", req.PaymentData.ID),
		slog.String("payment_method", req.PaymentMethod),
	)

	fail := func(outcome string, err error) (*entity.ProcessPaymentResult, error) {
		c.metrics.CheckoutOutcome(outcome)
		log.With(sl.Err(err)).Warn("payment initiation failed")
		return &entity.ProcessPaymentResult{Success: false, Error: err.Error()}, err
	}

	if c.gateway == nil || c.repo == nil || c.authService == nil {
		return fail("unavailable", ErrNotConfigured)
	}
	if err := req.Validate(); err != nil {
		return fail("invalid", fmt.Errorf("%w: %w", ErrInvalidRequest, err))
	}

	orderID := req.PaymentData.ID
	if c.guard != nil {
		if err := c.guard.Acquire(ctx, orderID); err != nil {
			if errors.Is(err, idempotency.ErrDuplicate) {
				return fail("duplicate", fmt.Errorf("%w: %s", ErrDuplicateOrder, orderID))
			}
			log.With(sl.Err(err)).Warn("idempotency guard unavailable")
		}
	}
	release := func() {
		if c.guard == nil {
			return
		}
		if err := c.guard.Release(context.WithoutCancel(ctx), orderID); err != nil {
			log.With(sl.Err(err)).Warn("release idempotency key")
		}
	}

	token, err := c.gateway.RequestToken(ctx)
	if err != nil {
		release()
		return fail("auth_error", fmt.Errorf("%w: %w", ErrGateway, err))
	}

	order := req.PaymentData
	ipnID, err := c.gateway.RegisterIPNWithRetry(ctx, token, c.settings.ipnURL, c.settings.ipnNotificationType)
	if err != nil {
		log.With(sl.Err(err)).Warn("ipn registration failed, continuing without notification id")
	} else {
		order.NotificationID = ipnID
	}

	resp, err := c.gateway.SubmitOrder(ctx, token, &order)
	if err != nil {
		release()
		return fail("order_error", fmt.Errorf("%w: %w", ErrGateway, err))
	}

	report := c.provision(ctx, req, &order, resp.OrderTrackingID)
	for _, w := range report.Warnings {
		c.metrics.PersistenceWarning(w.Step)
		log.With(
			slog.String("step", w.Step),
			sl.Err(w.Err),
		).Error("provisioning warning")
	}

	log.With(
		slog.String("order_tracking_id", resp.OrderTrackingID),
		slog.String("school_id", report.SchoolID),
		slog.Bool("rolled_back", report.RolledBack),
	).Info("payment initiated")

	c.metrics.CheckoutOutcome("initiated")
	c.broadcast(ws.EventPaymentInitiated, map[string]interface{}{
		"order_id":          orderID,
		"order_tracking_id": resp.OrderTrackingID,
		"school_id":         report.SchoolID,
		"amount":            order.Amount.String(),
		"currency":          order.Currency,
		"warnings":          report.Messages(),
	})

	return &entity.ProcessPaymentResult{
		Success:         true,
		RedirectURL:     resp.RedirectURL,
		OrderTrackingID: resp.OrderTrackingID,
		Warnings:        report.Messages(),
	}, nil
}

type provisionStep struct {
	name string
	do   func(ctx context.Context) error
	undo func(ctx context.Context) error
}

// provision creates school, administrator, profile and subscription as one
// unit: when a step fails the steps already done are undone in reverse order.
// The payment record is written either way so the tracking id is kept.
func (c *Core) provision(ctx context.Context, req *entity.ProcessPaymentRequest, order *entity.GatewayOrderRequest, trackingID string) *entity.ProvisionReport {
	report := &entity.ProvisionReport{}
	reg := &req.RegistrationData

	school := entity.NewSchool(reg)
	var user *entity.User
	var profile *entity.UserProfile
	var sub *entity.Subscription

	steps := []provisionStep{
		{
			name: "school",
			do:   func(ctx context.Context) error { return c.repo.CreateSchool(ctx, school) },
			undo: func(ctx context.Context) error { return c.repo.DeleteSchool(ctx, school.ID) },
		},
		{
			name: "user",
			do: func(ctx context.Context) error {
				var err error
				user, err = c.authService.CreateUser(ctx, reg.AdminEmail, reg.AdminPassword, map[string]string{
					"first_name": reg.AdminFirstName,
					"last_name":  reg.AdminLastName,
					"phone":      reg.AdminPhone,
					"role":       entity.AdminRole,
					"school_id":  school.ID,
				})
				return err
			},
			undo: func(ctx context.Context) error { return c.authService.DeleteUser(ctx, user.ID) },
		},
		{
			name: "profile",
			do: func(ctx context.Context) error {
				profile = entity.NewAdminProfile(user, reg)
				return c.repo.SaveProfile(ctx, profile)
			},
			undo: func(ctx context.Context) error { return c.repo.DeleteProfile(ctx, profile.ID) },
		},
		{
			name: "subscription",
			do: func(ctx context.Context) error {
				sub = entity.NewSubscription(school.ID, reg.Plan, c.now(), c.settings.subscriptionDays)
				return c.repo.CreateSubscription(ctx, sub)
			},
			undo: func(ctx context.Context) error { return c.repo.DeleteSubscription(ctx, sub.ID) },
		},
	}

	// the gateway already holds the order: finish even if the client has gone away
	detached := context.WithoutCancel(ctx)

	done := 0
	for _, step := range steps {
		if err := step.do(detached); err != nil {
			report.Warn(step.name, err)
			for i := done - 1; i >= 0; i-- {
				if uErr := steps[i].undo(detached); uErr != nil {
					report.Warn("rollback "+steps[i].name, uErr)
				}
			}
			report.RolledBack = done > 0
			break
		}
		done++
	}

	if done == len(steps) {
		report.SchoolID = school.ID
		report.UserID = user.ID
		report.ProfileID = profile.ID
		report.SubscriptionID = sub.ID
	}

	payment := entity.NewPaymentRecord(order, report.SchoolID, req.PaymentMethod, trackingID, reg.Plan.Name)
	if report.SchoolID == "" {
		payment.RegistrantEmail = reg.AdminEmail
		payment.RegistrantSchool = reg.SchoolName
	}
	if err := c.repo.CreatePayment(detached, payment); err != nil {
		report.Warn("payment", err)
	} else {
		report.PaymentID = payment.ID
	}

	return report
}
