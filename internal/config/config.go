package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	PesapalSandbox = "sandbox"
	PesapalLive    = "live"

	pesapalSandboxURL = "https://cybqa.pesapal.com/pesapalv3"
	pesapalLiveURL    = "https://pay.pesapal.com/v3"
)

type Plan struct {
	Name          string  `yaml:"name"`
	Price         float64 `yaml:"price"`
	Currency      string  `yaml:"currency" env-default:"KES"`
	BillingPeriod string  `yaml:"billing_period" env-default:"year"`
	Description   string  `yaml:"description"`
}

type Config struct {
	Env    string `yaml:"env" env:"ENV" env-default:"local"`
	Listen struct {
		BindIP  string        `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port    string        `yaml:"port" env-default:"9100"`
		ApiKey  string        `yaml:"key" env:"LISTEN_API_KEY" env-default:""`
		Timeout time.Duration `yaml:"timeout" env-default:"90s"`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env-default:"acadeemia"`
	} `yaml:"mongo"`
	Redis struct {
		Enabled  bool          `yaml:"enabled" env-default:"false"`
		Addr     string        `yaml:"addr" env-default:"127.0.0.1:6379"`
		Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
		DB       int           `yaml:"db" env-default:"0"`
		LockTTL  time.Duration `yaml:"lock_ttl" env-default:"24h"`
	} `yaml:"redis"`
	Pesapal struct {
		Environment         string        `yaml:"environment" env:"PESAPAL_ENV" env-default:"sandbox"`
		BaseURL             string        `yaml:"base_url" env-default:""`
		ConsumerKey         string        `yaml:"consumer_key" env:"PESAPAL_CONSUMER_KEY" env-default:""`
		ConsumerSecret      string        `yaml:"consumer_secret" env:"PESAPAL_CONSUMER_SECRET" env-default:""`
		CallbackURL         string        `yaml:"callback_url" env-default:"http://127.0.0.1:9100/payment/result"`
		IpnURL              string        `yaml:"ipn_url" env-default:"http://127.0.0.1:9100/api/v1/payments/ipn"`
		IpnNotificationType string        `yaml:"ipn_notification_type" env-default:"GET"`
		IpnRetries          uint64        `yaml:"ipn_retries" env-default:"3"`
		Timeout             time.Duration `yaml:"timeout" env-default:"30s"`
	} `yaml:"pesapal"`
	Checkout struct {
		SubscriptionDays int    `yaml:"subscription_days" env-default:"365"`
		SupportEmail     string `yaml:"support_email" env-default:"support@acadeemia.com"`
		RetryURL         string `yaml:"retry_url" env-default:"/pricing"`
	} `yaml:"checkout"`
	Plans  []Plan `yaml:"plans"`
	Wizard struct {
		SessionTTL time.Duration `yaml:"session_ttl" env-default:"1h"`
	} `yaml:"wizard"`
	SendGrid struct {
		Enabled   bool   `yaml:"enabled" env-default:"false"`
		ApiKey    string `yaml:"api_key" env:"SENDGRID_API_KEY" env-default:""`
		FromEmail string `yaml:"from_email" env-default:"no-reply@acadeemia.com"`
		FromName  string `yaml:"from_name" env-default:"Acadeemia"`
	} `yaml:"sendgrid"`
	Telegram struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
	} `yaml:"telegram"`
}

// PesapalBaseURL resolves the gateway endpoint: an explicit base_url wins,
// otherwise the environment selects sandbox or live.
func (c *Config) PesapalBaseURL() string {
	if c.Pesapal.BaseURL != "" {
		return c.Pesapal.BaseURL
	}
	if c.Pesapal.Environment == PesapalLive {
		return pesapalLiveURL
	}
	return pesapalSandboxURL
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
		if instance.Pesapal.Environment != PesapalSandbox && instance.Pesapal.Environment != PesapalLive {
			log.Fatalf("pesapal.environment must be %q or %q, got %q", PesapalSandbox, PesapalLive, instance.Pesapal.Environment)
		}
	})
	return instance
}
