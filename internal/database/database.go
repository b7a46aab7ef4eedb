package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id UUID PRIMARY KEY,
		invoice_id TEXT UNIQUE NOT NULL,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		customer_phone TEXT,
		product_name TEXT NOT NULL,
		product_id BIGINT,
		base_amount NUMERIC(14,2) NOT NULL,
		tax_rate NUMERIC(6,4) NOT NULL DEFAULT 0.18,
		tax_amount NUMERIC(14,2) NOT NULL,
		total_amount NUMERIC(14,2) NOT NULL,
		merchant_upi TEXT NOT NULL,
		merchant_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		payment_reference TEXT,
		payment_method TEXT NOT NULL DEFAULT 'UPI',
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		paid_at TIMESTAMPTZ,
		invoice_sent BOOLEAN NOT NULL DEFAULT FALSE,
		invoice_sent_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS merchant_profile (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		gstin TEXT,
		pan TEXT,
		upi_handle TEXT NOT NULL,
		bank_name TEXT,
		bank_account TEXT,
		ifsc_code TEXT,
		logo_url TEXT,
		website_url TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the schema when it does not exist yet. Statements are
// idempotent, so running it on every startup is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	return nil
}
