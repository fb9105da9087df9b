package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"paystack-donation-api/database"
	"paystack-donation-api/services/email"
)

type Config struct {
	Paystack PaystackConfig
	SMTP     email.SMTPConfig
	Org      OrgConfig
	Server   ServerConfig
	Ledger   LedgerConfig
	Redis    RedisConfig
	Database database.DatabaseConfig
}

type PaystackConfig struct {
	SecretKey     string
	PublicKey     string
	BaseURL       string
	Currency      string
	MinimumAmount int64 // naira
}

type OrgConfig struct {
	Email string
	Name  string
}

type ServerConfig struct {
	Port          string
	PublicBaseURL string
	SessionSecret string
	// TrustedProxies are IPs or CIDRs whose forwarding headers name the client.
	TrustedProxies []string
}

type LedgerConfig struct {
	Path string
}

type RedisConfig struct {
	URL        string
	PendingTTL time.Duration
}

// CallbackURL is where the gateway sends the donor after checkout.
func (c *Config) CallbackURL() string {
	return strings.TrimRight(c.Server.PublicBaseURL, "/") + "/verify-payment"
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from any key lookup, applying defaults.
func FromEnv(getenv func(string) string) *Config {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	port := get("PORT", "5000")

	cfg := &Config{
		Paystack: PaystackConfig{
			SecretKey:     getenv("PAYSTACK_SECRET_KEY"),
			PublicKey:     getenv("PAYSTACK_PUBLIC_KEY"),
			BaseURL:       get("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			Currency:      strings.ToUpper(get("PAYSTACK_CURRENCY", "NGN")),
			MinimumAmount: 100,
		},
		SMTP: email.SMTPConfig{
			Host:     get("SMTP_HOST", "smtp.gmail.com"),
			Port:     get("SMTP_PORT", "587"),
			Username: getenv("EMAIL_ADDRESS"),
			Password: getenv("EMAIL_PASSWORD"),
			From:     getenv("EMAIL_ADDRESS"),
		},
		Org: OrgConfig{
			Email: getenv("ORG_EMAIL"),
			Name:  get("ORG_NAME", "our organization"),
		},
		Server: ServerConfig{
			Port:           port,
			PublicBaseURL:  get("PUBLIC_BASE_URL", "http://localhost:"+port),
			SessionSecret:  getenv("SESSION_SECRET"),
			TrustedProxies: splitList(getenv("TRUSTED_PROXIES")),
		},
		Ledger: LedgerConfig{
			Path: get("DONATION_FILE", "donations.csv"),
		},
		Redis: RedisConfig{
			URL:        getenv("REDIS_URL"),
			PendingTTL: 24 * time.Hour,
		},
		Database: database.DatabaseConfig{
			Host:     getenv("DB_HOST"),
			User:     getenv("DB_USER"),
			Password: getenv("DB_PASSWORD"),
			DBName:   getenv("DB_NAME"),
		},
	}

	if v := getenv("MIN_DONATION_AMOUNT"); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
			cfg.Paystack.MinimumAmount = n
		} else {
			log.Printf("Warning: ignoring invalid MIN_DONATION_AMOUNT %q", v)
		}
	}

	if v := getenv("PENDING_TTL"); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
			cfg.Redis.PendingTTL = d
		} else {
			log.Printf("Warning: ignoring invalid PENDING_TTL %q", v)
		}
	}

	if cfg.Redis.URL == "" {
		log.Printf("Warning: REDIS_URL not set, pending donations are kept in memory")
	}

	return cfg
}

// Validate reports every missing setting the server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Paystack.SecretKey == "" {
		errs = append(errs, errors.New("PAYSTACK_SECRET_KEY is required"))
	}
	if c.Paystack.PublicKey == "" {
		errs = append(errs, errors.New("PAYSTACK_PUBLIC_KEY is required"))
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be numeric, got %q", c.Server.Port))
	}
	if c.Org.Email == "" {
		errs = append(errs, errors.New("ORG_EMAIL is required"))
	}
	if c.SMTP.Username == "" {
		errs = append(errs, errors.New("EMAIL_ADDRESS is required"))
	}
	if c.SMTP.Password == "" {
		errs = append(errs, errors.New("EMAIL_PASSWORD is required"))
	}
	return errors.Join(errs...)
}

// String never prints secrets.
func (c *Config) String() string {
	return fmt.Sprintf("port=%s base_url=%s ledger=%s currency=%s minimum=%d redis=%t mysql=%t smtp=%s:%s org=%s",
		c.Server.Port, c.Server.PublicBaseURL, c.Ledger.Path, c.Paystack.Currency, c.Paystack.MinimumAmount,
		c.Redis.URL != "", c.Database.Enabled(), c.SMTP.Host, c.SMTP.Port, c.Org.Email)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
