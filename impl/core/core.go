package core

import (
	"acadeemia/entity"
	"acadeemia/internal/config"
	"acadeemia/internal/lib/sl"
	"acadeemia/internal/metrics"
	"acadeemia/wizard/workflow"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrGateway        = errors.New("payment gateway error")
	ErrDuplicateOrder = errors.New("order is already being processed")
	ErrUnknownPlan    = errors.New("unknown plan")
	ErrNotFound       = errors.New("not found")
	ErrNotConfigured  = errors.New("service not configured")
	ErrNotReady       = errors.New("registration is not ready for submission")
)

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Repository interface {
	CheckApiKey(key string) (string, error)
	GenerateApiKey(username string) (string, error)

	CreateSchool(ctx context.Context, school *entity.School) error
	DeleteSchool(ctx context.Context, id string) error

	SaveProfile(ctx context.Context, profile *entity.UserProfile) error
	GetProfileBySchool(ctx context.Context, schoolID string) (*entity.UserProfile, error)
	DeleteProfile(ctx context.Context, id string) error

	CreateSubscription(ctx context.Context, sub *entity.Subscription) error
	DeleteSubscription(ctx context.Context, id string) error
	ActivateSubscription(ctx context.Context, schoolID string) (bool, error)
	GetSubscriptionBySchool(ctx context.Context, schoolID string) (*entity.Subscription, error)
	ListSubscriptions(ctx context.Context, status string) ([]entity.Subscription, error)

	CreatePayment(ctx context.Context, payment *entity.PaymentRecord) error
	FindPaymentByTrackingID(ctx context.Context, trackingID string) (*entity.PaymentWithSchool, error)
	GetPayment(ctx context.Context, id string) (*entity.PaymentWithSchool, error)
	UpdatePaymentStatus(ctx context.Context, trackingID, status, confirmationCode string) error
	ListPayments(ctx context.Context, status string, limit int64) ([]entity.PaymentRecord, error)

	SaveGatewayEvent(ctx context.Context, event *entity.GatewayEvent) error
	ListGatewayEvents(ctx context.Context, trackingID string) ([]entity.GatewayEvent, error)
}

// Gateway is the payment gateway API.
type Gateway interface {
	RequestToken(ctx context.Context) (string, error)
	RegisterIPNWithRetry(ctx context.Context, token, url, notificationType string) (string, error)
	SubmitOrder(ctx context.Context, token string, order *entity.GatewayOrderRequest) (*entity.OrderResponse, error)
	GetTransactionStatus(ctx context.Context, token, trackingID string) (*entity.TransactionStatus, error)
}

// AuthService is the identity store.
type AuthService interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	CreateUser(ctx context.Context, email, password string, metadata map[string]string) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Mailer interface {
	SendReceipt(ctx context.Context, receipt entity.PaymentReceipt) error
}

// Guard rejects a second initiation of the same order id.
type Guard interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}

type Wizard interface {
	Start(ctx context.Context, workflowID workflow.WorkflowID, data map[string]any) (*workflow.SessionState, error)
	Handle(ctx context.Context, sessionID string, input workflow.Input) (*workflow.SessionState, error)
	GetState(ctx context.Context, sessionID string) (*workflow.SessionState, error)
	Close(ctx context.Context, sessionID string) error
}

type settings struct {
	callbackURL         string
	ipnURL              string
	ipnNotificationType string
	subscriptionDays    int
	supportEmail        string
	retryURL            string
	plans               []entity.Plan
}

type Core struct {
	repo        Repository
	gateway     Gateway
	authService AuthService
	mailer      Mailer
	guard       Guard
	hub         Broadcaster
	wizard      Wizard
	metrics     *metrics.Metrics
	settings    settings
	authKey     string
	now         func() time.Time
	log         *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		settings: settings{subscriptionDays: 365},
		now:      time.Now,
		log:      log.With(sl.Module("core")),
	}
}

// SetConfig copies the checkout settings and the plan catalogue from conf.
func (c *Core) SetConfig(conf *config.Config) {
	c.settings = settings{
		callbackURL:         conf.Pesapal.CallbackURL,
		ipnURL:              conf.Pesapal.IpnURL,
		ipnNotificationType: conf.Pesapal.IpnNotificationType,
		subscriptionDays:    conf.Checkout.SubscriptionDays,
		supportEmail:        conf.Checkout.SupportEmail,
		retryURL:            conf.Checkout.RetryURL,
	}
	if c.settings.subscriptionDays <= 0 {
		c.settings.subscriptionDays = 365
	}
	for _, p := range conf.Plans {
		c.settings.plans = append(c.settings.plans, entity.Plan{
			Name:          p.Name,
			Price:         decimal.NewFromFloat(p.Price),
			Currency:      strings.ToUpper(p.Currency),
			BillingPeriod: p.BillingPeriod,
			Description:   p.Description,
		})
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetGateway(gateway Gateway) {
	c.gateway = gateway
}

func (c *Core) SetAuthService(auth AuthService) {
	c.authService = auth
}

func (c *Core) SetMailer(mailer Mailer) {
	c.mailer = mailer
}

func (c *Core) SetGuard(guard Guard) {
	c.guard = guard
}

func (c *Core) SetBroadcaster(hub Broadcaster) {
	c.hub = hub
}

func (c *Core) SetWizard(wizard Wizard) {
	c.wizard = wizard
}

func (c *Core) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

func (c *Core) SupportEmail() string {
	return c.settings.supportEmail
}

func (c *Core) RetryURL() string {
	return c.settings.retryURL
}

// Health pings the store and the idempotency backend when they support it.
func (c *Core) Health(ctx context.Context) map[string]string {
	checks := map[string]string{}
	probe := func(name string, v any) {
		p, ok := v.(Pinger)
		if !ok {
			return
		}
		if err := p.Ping(ctx); err != nil {
			c.log.With(slog.String("backend", name), sl.Err(err)).Warn("health check failed")
			checks[name] = err.Error()
			return
		}
		checks[name] = "ok"
	}
	probe("store", c.repo)
	probe("guard", c.guard)
	return checks
}

func (c *Core) broadcast(eventType string, data interface{}) {
	if c.hub != nil {
		c.hub.Broadcast(eventType, data)
	}
}
