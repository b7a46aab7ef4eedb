package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Rohit-3/Ratan-agri-tech/internal/merchant"
	"github.com/Rohit-3/Ratan-agri-tech/internal/payment"
)

type serviceMocks struct {
	repo     *payment.MockRepository
	profiles *payment.MockProfileSource
	renderer *payment.MockRenderer
	docs     *payment.MockDocumentStore
	notifier *payment.MockNotifier
}

func newService(t *testing.T) (*payment.Service, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:     payment.NewMockRepository(ctrl),
		profiles: payment.NewMockProfileSource(ctrl),
		renderer: payment.NewMockRenderer(ctrl),
		docs:     payment.NewMockDocumentStore(ctrl),
		notifier: payment.NewMockNotifier(ctrl),
	}

	svc := payment.NewService(m.repo, m.profiles, m.renderer, m.docs, m.notifier)

	return svc, m
}

func testProfile() *merchant.Profile {
	return &merchant.Profile{
		Name:      "Ratan Agri Tech",
		Email:     "ratanagritech@gmail.com",
		Phone:     "+91 7726017648",
		Address:   "Jagmalpura, Sikar, Rajasthan",
		UPIHandle: "ratanagritech@axisbank",
	}
}

func validCreateParams() payment.CreateParams {
	return payment.CreateParams{
		CustomerName:  "Asha Sharma",
		CustomerEmail: "asha@example.com",
		ProductName:   "Drip Irrigation Kit",
		BaseAmount:    decimal.NewFromInt(1000),
		TaxRate:       payment.DefaultTaxRate,
	}
}

func pendingTransaction() *payment.Transaction {
	id := uuid.New()

	return &payment.Transaction{
		ID:            id,
		InvoiceID:     payment.InvoiceID(id, time.Now()),
		CustomerName:  "Asha Sharma",
		CustomerEmail: "asha@example.com",
		ProductName:   "Drip Irrigation Kit",
		BaseAmount:    decimal.NewFromInt(1000),
		TaxRate:       decimal.NewFromFloat(0.18),
		TaxAmount:     decimal.NewFromInt(180),
		TotalAmount:   decimal.NewFromInt(1180),
		MerchantUPI:   "ratanagritech@axisbank",
		MerchantName:  "Ratan Agri Tech",
		Status:        payment.StatusPending,
		PaymentMethod: "UPI",
		CreatedAt:     time.Now(),
	}
}

func TestService_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t)

		m.profiles.EXPECT().Current(gomock.Any()).Return(testProfile(), nil)

		var inserted *payment.Transaction

		m.repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *payment.Transaction) error {
				inserted = tx
				return nil
			})

		quote, err := svc.Create(context.Background(), validCreateParams())
		require.NoError(t, err)

		require.NotNil(t, inserted)
		assert.Equal(t, payment.StatusPending, inserted.Status)
		assert.Nil(t, inserted.PaidAt)
		assert.Empty(t, inserted.PaymentRef)
		assert.Equal(t, quote.InvoiceID, inserted.InvoiceID)

		assert.Equal(t, "180.00", quote.TaxAmount.StringFixed(2))
		assert.Equal(t, "1180.00", quote.TotalAmount.StringFixed(2))
		assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{8}$`, quote.InvoiceID)
		assert.Contains(t, quote.PaymentLink, "upi://pay?")
		assert.Contains(t, quote.PaymentLink, "ratanagritech%40axisbank")
		assert.NotEmpty(t, quote.QRImage)
		assert.True(t, quote.ExpiresAt.After(time.Now()))
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		svc, _ := newService(t)

		params := validCreateParams()
		params.CustomerEmail = "not-an-email"

		quote, err := svc.Create(context.Background(), params)

		assert.ErrorIs(t, err, payment.ErrValidation)
		assert.Nil(t, quote)
	})

	t.Run("MissingCustomerName", func(t *testing.T) {
		svc, _ := newService(t)

		params := validCreateParams()
		params.CustomerName = ""

		_, err := svc.Create(context.Background(), params)

		assert.ErrorIs(t, err, payment.ErrValidation)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		svc, _ := newService(t)

		params := validCreateParams()
		params.BaseAmount = decimal.Zero

		_, err := svc.Create(context.Background(), params)

		assert.ErrorIs(t, err, payment.ErrInvalidAmount)
	})

	t.Run("RegeneratesOnDuplicateID", func(t *testing.T) {
		svc, m := newService(t)

		m.profiles.EXPECT().Current(gomock.Any()).Return(testProfile(), nil)

		var ids []uuid.UUID

		first := m.repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *payment.Transaction) error {
				ids = append(ids, tx.ID)
				return payment.ErrDuplicateID
			})

		m.repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			After(first).
			DoAndReturn(func(_ context.Context, tx *payment.Transaction) error {
				ids = append(ids, tx.ID)
				return nil
			})

		quote, err := svc.Create(context.Background(), validCreateParams())
		require.NoError(t, err)
		require.NotNil(t, quote)

		require.Len(t, ids, 2)
		assert.NotEqual(t, ids[0], ids[1])
	})

	t.Run("RepoError", func(t *testing.T) {
		svc, m := newService(t)

		m.profiles.EXPECT().Current(gomock.Any()).Return(testProfile(), nil)
		m.repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			Return(errors.New("db down"))

		_, err := svc.Create(context.Background(), validCreateParams())

		assert.Error(t, err)
		assert.NotErrorIs(t, err, payment.ErrValidation)
	})
}

func TestService_Confirm(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t)

		tx := pendingTransaction()
		doc := []byte("%PDF-1.4 fake")

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.profiles.EXPECT().Current(gomock.Any()).Return(testProfile(), nil)

		m.renderer.EXPECT().
			Render(gomock.Any(), gomock.Any()).
			DoAndReturn(func(candidate *payment.Transaction, _ *merchant.Profile) ([]byte, error) {
				assert.Equal(t, payment.StatusPaid, candidate.Status)
				assert.Equal(t, "UTR12345", candidate.PaymentRef)
				require.NotNil(t, candidate.PaidAt)
				return doc, nil
			})

		m.docs.EXPECT().Put(tx.InvoiceID, doc).Return(nil)

		m.repo.EXPECT().
			MarkPaid(gomock.Any(), tx.ID, "UTR12345", "UPI", gomock.Any()).
			Return(true, nil)

		notified := make(chan payment.InvoiceNotification, 1)
		m.notifier.EXPECT().
			SendInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n payment.InvoiceNotification) error {
				notified <- n
				return nil
			})

		sent := make(chan struct{})
		m.repo.EXPECT().
			MarkInvoiceSent(gomock.Any(), tx.ID, gomock.Any()).
			DoAndReturn(func(context.Context, uuid.UUID, time.Time) error {
				close(sent)
				return nil
			})

		result, err := svc.Confirm(context.Background(), payment.ConfirmParams{
			TransactionID:    tx.ID,
			PaymentReference: "UTR12345",
		})
		require.NoError(t, err)

		assert.Equal(t, tx.ID, result.TransactionID)
		assert.Equal(t, tx.InvoiceID, result.InvoiceID)
		assert.False(t, result.AlreadyPaid)

		select {
		case n := <-notified:
			assert.Equal(t, tx.CustomerEmail, n.CustomerEmail)
			assert.Equal(t, tx.InvoiceID, n.InvoiceID)
			assert.Equal(t, doc, n.Document)
		case <-time.After(2 * time.Second):
			t.Fatal("notification was not dispatched")
		}

		select {
		case <-sent:
		case <-time.After(2 * time.Second):
			t.Fatal("invoice_sent was not recorded")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, m := newService(t)

		id := uuid.New()
		m.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, payment.ErrNotFound)

		_, err := svc.Confirm(context.Background(), payment.ConfirmParams{
			TransactionID:    id,
			PaymentReference: "UTR12345",
		})

		assert.ErrorIs(t, err, payment.ErrNotFound)
	})

	t.Run("MissingReference", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Confirm(context.Background(), payment.ConfirmParams{
			TransactionID: uuid.New(),
		})

		assert.ErrorIs(t, err, payment.ErrValidation)
	})

	t.Run("AlreadyPaidIsNoOp", func(t *testing.T) {
		svc, m := newService(t)

		paidAt := time.Now().Add(-time.Hour)

		tx := pendingTransaction()
		tx.Status = payment.StatusPaid
		tx.PaymentRef = "UTR-FIRST"
		tx.PaidAt = &paidAt

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

		result, err := svc.Confirm(context.Background(), payment.ConfirmParams{
			TransactionID:    tx.ID,
			PaymentReference: "UTR-SECOND",
		})
		require.NoError(t, err)

		assert.True(t, result.AlreadyPaid)
		assert.Equal(t, tx.InvoiceID, result.InvoiceID)

		// No renderer, store, or notifier expectations were registered:
		// any re-render or re-send would fail the controller.
	})

	t.Run("RenderFailureLeavesPending", func(t *testing.T) {
		svc, m := newService(t)

		tx := pendingTransaction()

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.profiles.EXPECT().Current(gomock.Any()).Return(testProfile(), nil)
		m.renderer.EXPECT().
			Render(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("font table corrupt"))

		_, err := svc.Confirm(context.Background(), payment.ConfirmParams{
			TransactionID:    tx.ID,
			PaymentReference: "UTR12345",
		})

		// MarkPaid was never expected, so the transition cannot have run.
		assert.Error(t, err)
	})

	t.Run("LostRace", func(t *testing.T) {
		svc, m := newService(t)

		tx := pendingTransaction()

		winnerPaidAt := time.Now()
		winner := *tx
		winner.Status = payment.StatusPaid
		winner.PaymentRef = "UTR-WINNER"
		winner.PaidAt = &winnerPaidAt

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.profiles.EXPECT().Current(gomock.Any()).Return(testProfile(), nil)
		m.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return([]byte("a"), nil)
		m.docs.EXPECT().Put(tx.InvoiceID, []byte("a")).Return(nil)
		m.repo.EXPECT().
			MarkPaid(gomock.Any(), tx.ID, "UTR-LOSER", "UPI", gomock.Any()).
			Return(false, nil)
		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(&winner, nil)
		m.renderer.EXPECT().Render(&winner, gomock.Any()).Return([]byte("b"), nil)
		m.docs.EXPECT().Put(winner.InvoiceID, []byte("b")).Return(nil)

		result, err := svc.Confirm(context.Background(), payment.ConfirmParams{
			TransactionID:    tx.ID,
			PaymentReference: "UTR-LOSER",
		})
		require.NoError(t, err)

		assert.True(t, result.AlreadyPaid)
	})

	t.Run("NotificationFailureDoesNotFailConfirm", func(t *testing.T) {
		svc, m := newService(t)

		tx := pendingTransaction()

		m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		m.profiles.EXPECT().Current(gomock.Any()).Return(testProfile(), nil)
		m.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return([]byte("doc"), nil)
		m.docs.EXPECT().Put(tx.InvoiceID, []byte("doc")).Return(nil)
		m.repo.EXPECT().
			MarkPaid(gomock.Any(), tx.ID, "UTR12345", "UPI", gomock.Any()).
			Return(true, nil)

		failed := make(chan struct{})
		m.notifier.EXPECT().
			SendInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, payment.InvoiceNotification) error {
				close(failed)
				return errors.New("smtp unreachable")
			})

		result, err := svc.Confirm(context.Background(), payment.ConfirmParams{
			TransactionID:    tx.ID,
			PaymentReference: "UTR12345",
		})
		require.NoError(t, err)
		assert.False(t, result.AlreadyPaid)

		select {
		case <-failed:
			// MarkInvoiceSent was never expected; a call would fail the
			// controller.
		case <-time.After(2 * time.Second):
			t.Fatal("notification was not attempted")
		}
	})
}

func TestService_Get(t *testing.T) {
	svc, m := newService(t)

	tx := pendingTransaction()
	m.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

	got, err := svc.Get(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx, got)
}

func TestService_InvoiceDocument(t *testing.T) {
	t.Run("Stored", func(t *testing.T) {
		svc, m := newService(t)

		m.docs.EXPECT().Get("INV-1").Return([]byte("doc"), nil)

		doc, err := svc.InvoiceDocument(context.Background(), "INV-1")
		require.NoError(t, err)
		assert.Equal(t, []byte("doc"), doc)
	})

	t.Run("MissingForPaidIsReRendered", func(t *testing.T) {
		svc, m := newService(t)

		paidAt := time.Now()

		tx := pendingTransaction()
		tx.Status = payment.StatusPaid
		tx.PaymentRef = "UTR12345"
		tx.PaidAt = &paidAt

		m.docs.EXPECT().Get(tx.InvoiceID).Return(nil, payment.ErrDocumentNotFound)
		m.repo.EXPECT().GetTransactionByInvoiceID(gomock.Any(), tx.InvoiceID).Return(tx, nil)
		m.profiles.EXPECT().Current(gomock.Any()).Return(testProfile(), nil)
		m.renderer.EXPECT().Render(tx, gomock.Any()).Return([]byte("fresh"), nil)
		m.docs.EXPECT().Put(tx.InvoiceID, []byte("fresh")).Return(nil)

		doc, err := svc.InvoiceDocument(context.Background(), tx.InvoiceID)
		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), doc)
	})

	t.Run("UnknownInvoice", func(t *testing.T) {
		svc, m := newService(t)

		m.docs.EXPECT().Get("INV-NOPE").Return(nil, payment.ErrDocumentNotFound)
		m.repo.EXPECT().GetTransactionByInvoiceID(gomock.Any(), "INV-NOPE").Return(nil, payment.ErrNotFound)

		_, err := svc.InvoiceDocument(context.Background(), "INV-NOPE")

		assert.ErrorIs(t, err, payment.ErrDocumentNotFound)
	})

	t.Run("PendingTransactionHasNoDocument", func(t *testing.T) {
		svc, m := newService(t)

		tx := pendingTransaction()

		m.docs.EXPECT().Get(tx.InvoiceID).Return(nil, payment.ErrDocumentNotFound)
		m.repo.EXPECT().GetTransactionByInvoiceID(gomock.Any(), tx.InvoiceID).Return(tx, nil)

		_, err := svc.InvoiceDocument(context.Background(), tx.InvoiceID)

		assert.ErrorIs(t, err, payment.ErrDocumentNotFound)
	})
}

func TestService_DashboardSummary(t *testing.T) {
	svc, m := newService(t)

	want := &payment.Summary{
		TotalTransactions: 42,
		PaidRevenue:       decimal.NewFromInt(49560),
		Recent:            []*payment.Transaction{pendingTransaction()},
	}

	m.repo.EXPECT().Summary(gomock.Any(), 10).Return(want, nil)

	got, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
