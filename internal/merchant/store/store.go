package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rohit-3/Ratan-agri-tech/internal/merchant"
)

// The profile lives in a single-row table; id is always 1.
const profileRowID = 1

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetProfile(ctx context.Context) (*merchant.Profile, error) {
	query := `
		SELECT name, email, phone, address, gstin, pan, upi_handle,
		       bank_name, bank_account, ifsc_code, logo_url, website_url, updated_at
		FROM merchant_profile
		WHERE id = $1
	`

	var p merchant.Profile

	var gstin, pan, bankName, bankAccount, ifsc, logoURL, websiteURL sql.NullString

	err := s.db.QueryRowContext(ctx, query, profileRowID).Scan(
		&p.Name, &p.Email, &p.Phone, &p.Address, &gstin, &pan, &p.UPIHandle,
		&bankName, &bankAccount, &ifsc, &logoURL, &websiteURL, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, merchant.ErrNotFound
		}

		return nil, fmt.Errorf("getting merchant profile: %w", err)
	}

	p.GSTIN = gstin.String
	p.PAN = pan.String
	p.BankName = bankName.String
	p.BankAccount = bankAccount.String
	p.IFSCCode = ifsc.String
	p.LogoURL = logoURL.String
	p.WebsiteURL = websiteURL.String

	return &p, nil
}

func (s *Store) UpsertProfile(ctx context.Context, p *merchant.Profile) error {
	query := `
		INSERT INTO merchant_profile (
			id, name, email, phone, address, gstin, pan, upi_handle,
			bank_name, bank_account, ifsc_code, logo_url, website_url, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			gstin = EXCLUDED.gstin,
			pan = EXCLUDED.pan,
			upi_handle = EXCLUDED.upi_handle,
			bank_name = EXCLUDED.bank_name,
			bank_account = EXCLUDED.bank_account,
			ifsc_code = EXCLUDED.ifsc_code,
			logo_url = EXCLUDED.logo_url,
			website_url = EXCLUDED.website_url,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		profileRowID, p.Name, p.Email, p.Phone, p.Address,
		nullString(p.GSTIN), nullString(p.PAN), p.UPIHandle,
		nullString(p.BankName), nullString(p.BankAccount), nullString(p.IFSCCode),
		nullString(p.LogoURL), nullString(p.WebsiteURL),
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting merchant profile: %w", err)
	}

	return nil
}

// SeedProfile inserts the default profile only when the row does not exist,
// so restarts never clobber operator edits.
func (s *Store) SeedProfile(ctx context.Context, p *merchant.Profile) error {
	query := `
		INSERT INTO merchant_profile (id, name, email, phone, address, upi_handle)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, profileRowID, p.Name, p.Email, p.Phone, p.Address, p.UPIHandle)
	if err != nil {
		return fmt.Errorf("seeding merchant profile: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
