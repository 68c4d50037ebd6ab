package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const defaultMaxBodyBytes int64 = 1 << 20 // 1 MiB

type Config struct {
	Port         string `mapstructure:"port"`
	Addr         string `mapstructure:"addr"`
	StaticDir    string `mapstructure:"static_dir"`
	LogLevel     string `mapstructure:"log_level"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`

	// TrustProxyHeaders takes the client address from X-Forwarded-For,
	// X-Real-IP or True-Client-IP. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`

	OwnerEmail            string `mapstructure:"owner_email"`
	MailFrom              string `mapstructure:"mail_from"`
	SendBuyerConfirmation bool   `mapstructure:"send_buyer_confirmation"`

	SMTP         SMTPConfig         `mapstructure:"smtp"`
	LemonSqueezy LemonSqueezyConfig `mapstructure:"lemonsqueezy"`
	NowPayments  NowPaymentsConfig  `mapstructure:"nowpayments"`
	Public       PublicConfig       `mapstructure:"public"`
	Audit        AuditConfig        `mapstructure:"audit"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
}

type SMTPConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	User   string `mapstructure:"user"`
	Pass   string `mapstructure:"pass"`
	Secure bool   `mapstructure:"secure"`
}

type LemonSqueezyConfig struct {
	SigningSecret string `mapstructure:"signing_secret"`
}

type NowPaymentsConfig struct {
	IPNSecret string `mapstructure:"ipn_secret"`
}

// PublicConfig is echoed verbatim by /api/config; never put secrets here.
type PublicConfig struct {
	SiteName                string `mapstructure:"site_name" json:"siteName"`
	SupportEmail            string `mapstructure:"support_email" json:"supportEmail,omitempty"`
	LemonSqueezyCheckoutURL string `mapstructure:"lemonsqueezy_checkout_url" json:"lemonSqueezyCheckoutUrl,omitempty"`
	NowPaymentsCheckoutURL  string `mapstructure:"nowpayments_checkout_url" json:"nowPaymentsCheckoutUrl,omitempty"`
}

type AuditConfig struct {
	LogFile    string `mapstructure:"log_file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type RateLimitConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	PerMinute int  `mapstructure:"per_minute"`
	Burst     int  `mapstructure:"burst"`
}

// LoadFromEnv reads config.yaml (optional) and the environment. Keys map to
// environment variables by upper-casing and replacing dots, e.g.
// smtp.host -> SMTP_HOST, lemonsqueezy.signing_secret ->
// LEMONSQUEEZY_SIGNING_SECRET.
func LoadFromEnv() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees env-only values.
	v.SetDefault("port", "3000")
	v.SetDefault("addr", "")
	v.SetDefault("static_dir", "./public")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_body_bytes", defaultMaxBodyBytes)
	v.SetDefault("trust_proxy_headers", false)
	v.SetDefault("owner_email", "")
	v.SetDefault("mail_from", "")
	v.SetDefault("send_buyer_confirmation", false)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.secure", false)
	v.SetDefault("lemonsqueezy.signing_secret", "")
	v.SetDefault("nowpayments.ipn_secret", "")
	v.SetDefault("public.site_name", "")
	v.SetDefault("public.support_email", "")
	v.SetDefault("public.lemonsqueezy_checkout_url", "")
	v.SetDefault("public.nowpayments_checkout_url", "")
	v.SetDefault("audit.log_file", "")
	v.SetDefault("audit.max_size_mb", 50)
	v.SetDefault("audit.max_backups", 5)
	v.SetDefault("audit.max_age_days", 30)
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.per_minute", 120)
	v.SetDefault("rate_limit.burst", 20)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/paynotify/")

	_ = v.ReadInConfig() // ignore if not found

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		fmt.Printf("Warning: failed to unmarshal config: %v\n", err)
	}

	cfg.OwnerEmail = strings.TrimSpace(cfg.OwnerEmail)
	cfg.MailFrom = strings.TrimSpace(cfg.MailFrom)
	if cfg.MailFrom == "" {
		cfg.MailFrom = firstNonEmpty(cfg.SMTP.User, cfg.OwnerEmail)
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = ":" + strings.TrimSpace(cfg.Port)
	}
	return cfg
}

func (c Config) Validate() error {
	var problems []string
	validate := validator.New()

	if strings.TrimSpace(c.Addr) == "" || strings.TrimSpace(c.Addr) == ":" {
		problems = append(problems, "ADDR or PORT must be set")
	}
	if p := strings.TrimSpace(c.Port); p != "" {
		if n, err := strconv.Atoi(p); err != nil || n < 1 || n > 65535 {
			problems = append(problems, "PORT must be a number between 1 and 65535")
		}
	}
	if c.MaxBodyBytes <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be positive")
	}
	if c.OwnerEmail != "" && validate.Var(c.OwnerEmail, "email") != nil {
		problems = append(problems, "OWNER_EMAIL must be an email address")
	}
	if c.MailFrom != "" && validate.Var(c.MailFrom, "email") != nil {
		problems = append(problems, "MAIL_FROM must be an email address")
	}
	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		problems = append(problems, "SMTP_PORT must be between 1 and 65535")
	}
	if c.Public.SupportEmail != "" && validate.Var(c.Public.SupportEmail, "email") != nil {
		problems = append(problems, "PUBLIC_SUPPORT_EMAIL must be an email address")
	}
	if c.Public.LemonSqueezyCheckoutURL != "" && validate.Var(c.Public.LemonSqueezyCheckoutURL, "http_url") != nil {
		problems = append(problems, "PUBLIC_LEMONSQUEEZY_CHECKOUT_URL must be an http(s) URL")
	}
	if c.Public.NowPaymentsCheckoutURL != "" && validate.Var(c.Public.NowPaymentsCheckoutURL, "http_url") != nil {
		problems = append(problems, "PUBLIC_NOWPAYMENTS_CHECKOUT_URL must be an http(s) URL")
	}
	if c.RateLimit.Enabled && (c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive when RATE_LIMIT_ENABLED=true")
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

// Warnings lists settings that do not stop the process but make requests
// fail: an unset secret rejects every delivery for that provider, a missing
// owner address or SMTP host fails every notification.
func (c Config) Warnings() []string {
	var out []string
	if strings.TrimSpace(c.LemonSqueezy.SigningSecret) == "" {
		out = append(out, "LEMONSQUEEZY_SIGNING_SECRET is not set; lemonsqueezy webhooks will be rejected")
	}
	if strings.TrimSpace(c.NowPayments.IPNSecret) == "" {
		out = append(out, "NOWPAYMENTS_IPN_SECRET is not set; nowpayments webhooks will be rejected")
	}
	if c.OwnerEmail == "" {
		out = append(out, "OWNER_EMAIL is not set; successful payments will answer 500")
	}
	if strings.TrimSpace(c.SMTP.Host) == "" {
		out = append(out, "SMTP_HOST is not set; notifications cannot be delivered")
	}
	return out
}

type StartupSummary struct {
	Addr                  string
	StaticDir             string
	WebhookProviders      []string
	SMTPHost              string
	OwnerConfigured       bool
	SendBuyerConfirmation bool
	AuditLog              bool
	RateLimit             bool
	TrustProxyHeaders     bool
}

func (c Config) Summary() StartupSummary {
	var providers []string
	if strings.TrimSpace(c.LemonSqueezy.SigningSecret) != "" {
		providers = append(providers, "lemonsqueezy")
	}
	if strings.TrimSpace(c.NowPayments.IPNSecret) != "" {
		providers = append(providers, "nowpayments")
	}
	return StartupSummary{
		Addr:                  c.Addr,
		StaticDir:             c.StaticDir,
		WebhookProviders:      providers,
		SMTPHost:              c.SMTP.Host,
		OwnerConfigured:       c.OwnerEmail != "",
		SendBuyerConfirmation: c.SendBuyerConfirmation,
		AuditLog:              strings.TrimSpace(c.Audit.LogFile) != "",
		RateLimit:             c.RateLimit.Enabled,
		TrustProxyHeaders:     c.TrustProxyHeaders,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
