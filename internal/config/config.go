package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Ratan Agri Tech Payments"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"payments"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	SMTP struct {
		Host     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
		Port     int    `envconfig:"SMTP_PORT" default:"587"`
		Username string `envconfig:"SMTP_USERNAME"`
		Password string `envconfig:"SMTP_PASSWORD"`
		From     string `envconfig:"SMTP_FROM"`
	}

	Invoice struct {
		Dir string `envconfig:"INVOICE_DIR" default:"invoices"`
	}

	// Seed values for the merchant profile row; applied only when the
	// profile does not exist yet.
	Merchant struct {
		Name      string `envconfig:"MERCHANT_NAME" default:"Ratan Agri Tech"`
		Email     string `envconfig:"MERCHANT_EMAIL" default:"ratanagritech@gmail.com"`
		Phone     string `envconfig:"MERCHANT_PHONE" default:"+91 7726017648"`
		Address   string `envconfig:"MERCHANT_ADDRESS" default:"Jagmalpura, Sikar, Rajasthan"`
		UPIHandle string `envconfig:"MERCHANT_UPI" default:"ratanagritech@axisbank"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
