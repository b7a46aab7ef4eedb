package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rohit-3/Ratan-agri-tech/internal/payment"
)

type Handler struct {
	svc *payment.Service
}

func NewHandler(svc *payment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
}

type summaryResponse struct {
	TotalTransactions int64               `json:"total_transactions"`
	PaidRevenue       decimal.Decimal     `json:"paid_revenue"`
	Recent            []recentTransaction `json:"recent_transactions"`
}

type recentTransaction struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	InvoiceID     string          `json:"invoice_id"`
	CustomerName  string          `json:"customer_name"`
	ProductName   string          `json:"product_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        payment.Status  `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.DashboardSummary(r.Context())
	if err != nil {
		slog.Error("dashboard summary failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := summaryResponse{
		TotalTransactions: sum.TotalTransactions,
		PaidRevenue:       sum.PaidRevenue,
		Recent:            make([]recentTransaction, 0, len(sum.Recent)),
	}

	for _, tx := range sum.Recent {
		resp.Recent = append(resp.Recent, recentTransaction{
			TransactionID: tx.ID,
			InvoiceID:     tx.InvoiceID,
			CustomerName:  tx.CustomerName,
			ProductName:   tx.ProductName,
			TotalAmount:   tx.TotalAmount,
			Status:        tx.Status,
			CreatedAt:     tx.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
