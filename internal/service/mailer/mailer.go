package mailer

import (
	"acadeemia/entity"
	"acadeemia/internal/config"
	"acadeemia/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost = "https://api.sendgrid.com"
	endpoint     = "/v3/mail/send"
)

type Service struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
	log        *slog.Logger
}

// NewMailService returns nil when SendGrid is disabled.
func NewMailService(conf *config.Config, logger *slog.Logger) *Service {
	if !conf.SendGrid.Enabled {
		return nil
	}
	return &Service{
		key:        conf.SendGrid.ApiKey,
		host:       sendgridHost,
		from:       sgmail.NewEmail(conf.SendGrid.FromName, conf.SendGrid.FromEmail),
		subjPrefix: "[" + conf.SendGrid.FromName + "] ",
		log:        logger.With(sl.Module("mailer")),
	}
}

func (s *Service) prepare(r entity.PaymentReceipt) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + "Payment received for " + r.SchoolName
	p.AddTos(sgmail.NewEmail(r.ToName, r.ToEmail))

	lines := []string{
		fmt.Sprintf("Hello %s,", r.ToName),
		"",
		fmt.Sprintf("We received your payment for %s. Your subscription is now active.", r.SchoolName),
		"",
		"Order: " + r.OrderID,
		"Plan: " + r.Plan,
		"Amount: " + r.Amount,
		"Payment method: " + r.PaymentMethod,
		"Confirmation code: " + r.ConfirmationCode,
	}
	if !r.ValidUntil.IsZero() {
		lines = append(lines, "Valid until: "+r.ValidUntil.Format("2 January 2006"))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", strings.Join(lines, "\n")))
	return m
}

// SendReceipt delivers a receipt through the SendGrid v3 API.
func (s *Service) SendReceipt(ctx context.Context, r entity.PaymentReceipt) error {
	if r.ToEmail == "" {
		return fmt.Errorf("receipt has no recipient")
	}

	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(r))

	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}

	s.log.With(
		slog.String("order_id", r.OrderID),
		slog.Int("status", res.StatusCode),
	).Debug("receipt sent")
	return nil
}
