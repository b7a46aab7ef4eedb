package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Rohit-3/Ratan-agri-tech/internal/payment"
)

const pgUniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	transaction_id, invoice_id, customer_name, customer_email, customer_phone,
	product_name, product_id, base_amount, tax_rate, tax_amount, total_amount,
	merchant_upi, merchant_name, status, payment_reference, payment_method,
	notes, created_at, paid_at, invoice_sent, invoice_sent_at
`

func scanTransaction(s scanner) (*payment.Transaction, error) {
	var tx payment.Transaction

	var statusStr string

	var phone, paymentRef, notes sql.NullString

	var productID sql.NullInt64

	if err := s.Scan(
		&tx.ID, &tx.InvoiceID, &tx.CustomerName, &tx.CustomerEmail, &phone,
		&tx.ProductName, &productID, &tx.BaseAmount, &tx.TaxRate, &tx.TaxAmount, &tx.TotalAmount,
		&tx.MerchantUPI, &tx.MerchantName, &statusStr, &paymentRef, &tx.PaymentMethod,
		&notes, &tx.CreatedAt, &tx.PaidAt, &tx.InvoiceSent, &tx.InvoiceSentAt,
	); err != nil {
		return nil, err
	}

	tx.Status = payment.Status(statusStr)
	tx.CustomerPhone = phone.String
	tx.PaymentRef = paymentRef.String
	tx.Notes = notes.String

	if productID.Valid {
		tx.ProductID = &productID.Int64
	}

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *payment.Transaction) error {
	query := `
		INSERT INTO transactions (
			transaction_id, invoice_id, customer_name, customer_email, customer_phone,
			product_name, product_id, base_amount, tax_rate, tax_amount, total_amount,
			merchant_upi, merchant_name, status, payment_method, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		tx.InvoiceID,
		tx.CustomerName,
		tx.CustomerEmail,
		nullString(tx.CustomerPhone),
		tx.ProductName,
		nullInt64(tx.ProductID),
		tx.BaseAmount,
		tx.TaxRate,
		tx.TaxAmount,
		tx.TotalAmount,
		tx.MerchantUPI,
		tx.MerchantName,
		tx.Status,
		tx.PaymentMethod,
		nullString(tx.Notes),
		tx.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("inserting transaction %s: %w", tx.ID, payment.ErrDuplicateID)
		}

		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE transaction_id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) GetTransactionByInvoiceID(ctx context.Context, invoiceID string) (*payment.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE invoice_id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction by invoice id: %w", err)
	}

	return tx, nil
}

// MarkPaid performs the pending→paid transition as a single conditional
// update so that two concurrent confirmations cannot both win.
func (s *Store) MarkPaid(ctx context.Context, id uuid.UUID, ref, method string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $2, payment_reference = $3, payment_method = $4, paid_at = $5
		WHERE transaction_id = $1 AND status = $6
	`

	res, err := s.db.ExecContext(ctx, query, id, payment.StatusPaid, ref, method, paidAt, payment.StatusPending)
	if err != nil {
		return false, fmt.Errorf("marking transaction paid: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}

	return n == 1, nil
}

func (s *Store) MarkInvoiceSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE transactions
		SET invoice_sent = TRUE, invoice_sent_at = $2
		WHERE transaction_id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("marking invoice sent: %w", err)
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter payment.ListFilter) ([]*payment.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions`

	var args []any

	if filter.Status != nil {
		query += ` WHERE status = $1`

		args = append(args, *filter.Status)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*payment.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) Summary(ctx context.Context, recent int) (*payment.Summary, error) {
	var sum payment.Summary

	query := `
		SELECT COUNT(*), COALESCE(SUM(total_amount) FILTER (WHERE status = $1), 0)
		FROM transactions
	`
	if err := s.db.QueryRowContext(ctx, query, payment.StatusPaid).Scan(&sum.TotalTransactions, &sum.PaidRevenue); err != nil {
		return nil, fmt.Errorf("summarizing transactions: %w", err)
	}

	listQuery := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, listQuery, recent)
	if err != nil {
		return nil, fmt.Errorf("listing recent transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		sum.Recent = append(sum.Recent, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recent transactions: %w", err)
	}

	return &sum, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *v, Valid: true}
}
