package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rohit-3/Ratan-agri-tech/internal/merchant"
	"github.com/Rohit-3/Ratan-agri-tech/internal/upi"
)

// DefaultTaxRate is the GST fraction applied when a request does not name one.
var DefaultTaxRate = decimal.NewFromFloat(0.18)

const (
	defaultPaymentMethod = "UPI"

	// linkExpiryAdvisory is informational only; pending transactions are
	// never expired by the system.
	linkExpiryAdvisory = 24 * time.Hour

	// maxIDAttempts bounds regeneration after an identifier collision.
	maxIDAttempts = 3

	recentTransactionLimit = 10
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=payment
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetTransactionByInvoiceID(ctx context.Context, invoiceID string) (*Transaction, error)

	// MarkPaid flips a pending transaction to paid in a single conditional
	// update. It reports false when no pending row matched, leaving the
	// caller to distinguish a missing transaction from an already-paid one.
	MarkPaid(ctx context.Context, id uuid.UUID, ref, method string, paidAt time.Time) (bool, error)

	MarkInvoiceSent(ctx context.Context, id uuid.UUID, at time.Time) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	Summary(ctx context.Context, recent int) (*Summary, error)
}

// ProfileSource yields the active merchant profile.
type ProfileSource interface {
	Current(ctx context.Context) (*merchant.Profile, error)
}

// Renderer turns a finalized transaction into invoice document bytes.
type Renderer interface {
	Render(tx *Transaction, p *merchant.Profile) ([]byte, error)
}

// DocumentStore persists rendered invoices, addressed by invoice id.
type DocumentStore interface {
	Put(invoiceID string, doc []byte) error
	Get(invoiceID string) ([]byte, error)
}

// Notifier delivers a rendered invoice to the customer. Failures are
// reported, never retried by the service.
type Notifier interface {
	SendInvoice(ctx context.Context, n InvoiceNotification) error
}

// InvoiceNotification carries everything the dispatcher needs to compose
// the customer (and merchant) mail.
type InvoiceNotification struct {
	CustomerEmail string
	CustomerName  string
	InvoiceID     string
	TotalAmount   decimal.Decimal
	Document      []byte
	Profile       *merchant.Profile
}

type Service struct {
	repo     Repository
	profiles ProfileSource
	renderer Renderer
	docs     DocumentStore
	notifier Notifier
	validate *validator.Validate
}

func NewService(repo Repository, profiles ProfileSource, renderer Renderer, docs DocumentStore, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		renderer: renderer,
		docs:     docs,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type CreateParams struct {
	CustomerName  string `validate:"required"`
	CustomerEmail string `validate:"required,email"`
	CustomerPhone string
	ProductName   string `validate:"required"`
	ProductID     *int64
	BaseAmount    decimal.Decimal
	TaxRate       decimal.Decimal
	Notes         string
}

// Quote is the public-facing result of a created payment request.
type Quote struct {
	TransactionID uuid.UUID
	InvoiceID     string
	BaseAmount    decimal.Decimal
	TaxRate       decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentLink   string
	QRImage       []byte // empty when QR rendering failed; the link still stands
	MerchantUPI   string
	MerchantName  string
	ExpiresAt     time.Time
}

type ConfirmParams struct {
	TransactionID    uuid.UUID
	PaymentReference string `validate:"required"`
	PaymentMethod    string
}

type ConfirmResult struct {
	TransactionID uuid.UUID
	InvoiceID     string
	AlreadyPaid   bool
}

type ListFilter struct {
	Status *Status
}

// Summary is the dashboard projection over all transactions.
type Summary struct {
	TotalTransactions int64
	PaidRevenue       decimal.Decimal
	Recent            []*Transaction
}

// Create validates the request, computes amounts, and persists a new pending
// transaction. The returned quote carries the UPI link and QR image; a QR
// rendering failure degrades to link-only rather than failing the request.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Quote, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	tax, total, err := ComputeTax(params.BaseAmount, params.TaxRate)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading merchant profile: %w", err)
	}

	now := time.Now()

	var tx *Transaction

	for attempt := 1; ; attempt++ {
		id := NewTransactionID()

		tx = &Transaction{
			ID:            id,
			InvoiceID:     InvoiceID(id, now),
			CustomerName:  params.CustomerName,
			CustomerEmail: params.CustomerEmail,
			CustomerPhone: params.CustomerPhone,
			ProductName:   params.ProductName,
			ProductID:     params.ProductID,
			BaseAmount:    params.BaseAmount,
			TaxRate:       params.TaxRate,
			TaxAmount:     tax,
			TotalAmount:   total,
			MerchantUPI:   profile.UPIHandle,
			MerchantName:  profile.Name,
			Status:        StatusPending,
			PaymentMethod: defaultPaymentMethod,
			Notes:         params.Notes,
			CreatedAt:     now,
		}

		err = s.repo.CreateTransaction(ctx, tx)
		if err == nil {
			break
		}

		if errors.Is(err, ErrDuplicateID) && attempt < maxIDAttempts {
			slog.Warn("identifier collision on insert, regenerating", "attempt", attempt)
			continue
		}

		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	link := upi.PaymentLink(profile.UPIHandle, profile.Name, total, tx.InvoiceID)

	qr, err := upi.QRCode(link)
	if err != nil {
		slog.Error("qr rendering failed, returning link only",
			"transaction_id", tx.ID, "error", err)

		qr = nil
	}

	return &Quote{
		TransactionID: tx.ID,
		InvoiceID:     tx.InvoiceID,
		BaseAmount:    params.BaseAmount,
		TaxRate:       params.TaxRate,
		TaxAmount:     tax,
		TotalAmount:   total,
		PaymentLink:   link,
		QRImage:       qr,
		MerchantUPI:   profile.UPIHandle,
		MerchantName:  profile.Name,
		ExpiresAt:     now.Add(linkExpiryAdvisory),
	}, nil
}

// Confirm records an operator-supplied payment reference against a pending
// transaction. The invoice document is rendered and stored before the state
// flips to paid, so a rendering failure leaves the transaction pending and
// the call retryable. Confirming an already-paid transaction is a no-op that
// returns the existing invoice reference; the first confirmation's reference
// and timestamp always stand.
func (s *Service) Confirm(ctx context.Context, params ConfirmParams) (*ConfirmResult, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	tx, err := s.repo.GetTransaction(ctx, params.TransactionID)
	if err != nil {
		return nil, err
	}

	if tx.Status == StatusPaid {
		return &ConfirmResult{TransactionID: tx.ID, InvoiceID: tx.InvoiceID, AlreadyPaid: true}, nil
	}

	profile, err := s.profiles.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading merchant profile: %w", err)
	}

	method := params.PaymentMethod
	if method == "" {
		method = defaultPaymentMethod
	}

	now := time.Now()

	paid := *tx
	paid.Status = StatusPaid
	paid.PaymentRef = params.PaymentReference
	paid.PaymentMethod = method
	paid.PaidAt = &now

	doc, err := s.renderer.Render(&paid, profile)
	if err != nil {
		return nil, fmt.Errorf("rendering invoice %s: %w", tx.InvoiceID, err)
	}

	if err := s.docs.Put(tx.InvoiceID, doc); err != nil {
		return nil, fmt.Errorf("storing invoice %s: %w", tx.InvoiceID, err)
	}

	flipped, err := s.repo.MarkPaid(ctx, tx.ID, paid.PaymentRef, method, now)
	if err != nil {
		return nil, fmt.Errorf("marking transaction paid: %w", err)
	}

	if !flipped {
		// A concurrent confirmation won the conditional update. Its
		// reference stands; rewrite the document from the record it
		// committed so the stored invoice matches.
		current, err := s.repo.GetTransaction(ctx, tx.ID)
		if err != nil {
			return nil, err
		}

		if doc, err := s.renderer.Render(current, profile); err == nil {
			if err := s.docs.Put(current.InvoiceID, doc); err != nil {
				slog.Error("rewriting invoice after lost confirmation race",
					"invoice_id", current.InvoiceID, "error", err)
			}
		}

		return &ConfirmResult{TransactionID: current.ID, InvoiceID: current.InvoiceID, AlreadyPaid: true}, nil
	}

	s.dispatch(ctx, &paid, profile, doc)

	return &ConfirmResult{TransactionID: tx.ID, InvoiceID: tx.InvoiceID}, nil
}

// dispatch hands the notification to a background goroutine. The response to
// the confirming client is never blocked on delivery; the only ordering
// guarantee is that the document already exists on disk.
func (s *Service) dispatch(ctx context.Context, tx *Transaction, profile *merchant.Profile, doc []byte) {
	bg := context.WithoutCancel(ctx)

	go func() {
		n := InvoiceNotification{
			CustomerEmail: tx.CustomerEmail,
			CustomerName:  tx.CustomerName,
			InvoiceID:     tx.InvoiceID,
			TotalAmount:   tx.TotalAmount,
			Document:      doc,
			Profile:       profile,
		}

		if err := s.notifier.SendInvoice(bg, n); err != nil {
			slog.Error("invoice notification failed",
				"invoice_id", tx.InvoiceID, "customer_email", tx.CustomerEmail, "error", err)

			return
		}

		if err := s.repo.MarkInvoiceSent(bg, tx.ID, time.Now()); err != nil {
			slog.Error("recording invoice dispatch failed",
				"transaction_id", tx.ID, "error", err)
		}
	}()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) DashboardSummary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx, recentTransactionLimit)
}

// InvoiceDocument returns the stored document for an invoice id. A paid
// transaction whose document has gone missing is re-rendered on demand.
func (s *Service) InvoiceDocument(ctx context.Context, invoiceID string) ([]byte, error) {
	doc, err := s.docs.Get(invoiceID)
	if err == nil {
		return doc, nil
	}

	if !errors.Is(err, ErrDocumentNotFound) {
		return nil, fmt.Errorf("reading invoice %s: %w", invoiceID, err)
	}

	tx, err := s.repo.GetTransactionByInvoiceID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrDocumentNotFound
		}

		return nil, err
	}

	if tx.Status != StatusPaid {
		return nil, ErrDocumentNotFound
	}

	profile, err := s.profiles.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading merchant profile: %w", err)
	}

	doc, err = s.renderer.Render(tx, profile)
	if err != nil {
		return nil, fmt.Errorf("re-rendering invoice %s: %w", invoiceID, err)
	}

	if err := s.docs.Put(invoiceID, doc); err != nil {
		return nil, fmt.Errorf("storing invoice %s: %w", invoiceID, err)
	}

	return doc, nil
}
