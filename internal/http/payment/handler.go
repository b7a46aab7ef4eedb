package payment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/confirm", h.confirm)
}

// InvoiceRoutes serves rendered documents, addressed by invoice id.
func (h *Handler) InvoiceRoutes(r chi.Router) {
	r.Get("/{invoiceID}", h.invoiceDocument)
}

type createPaymentRequest struct {
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	CustomerPhone string           `json:"customer_phone"`
	ProductName   string           `json:"product_name"`
	ProductID     *int64           `json:"product_id"`
	BaseAmount    decimal.Decimal  `json:"base_amount"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	Notes         string           `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	taxRate := payment.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	quote, err := h.svc.Create(r.Context(), payment.CreateParams{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ProductName:   req.ProductName,
		ProductID:     req.ProductID,
		BaseAmount:    req.BaseAmount,
		TaxRate:       taxRate,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toQuoteResponse(quote))
}

type confirmPaymentRequest struct {
	PaymentReference string `json:"payment_reference"`
	PaymentMethod    string `json:"payment_method"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Confirm(r.Context(), payment.ConfirmParams{
		TransactionID:    id,
		PaymentReference: req.PaymentReference,
		PaymentMethod:    req.PaymentMethod,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toConfirmResponse(result))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := payment.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := payment.Status(s)
		filter.Status = &status
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponseList(txs))
}

func (h *Handler) invoiceDocument(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")

	doc, err := h.svc.InvoiceDocument(r.Context(), invoiceID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+invoiceID+`.pdf"`)

	if _, err := w.Write(doc); err != nil {
		slog.Error("failed to write invoice document", "invoice_id", invoiceID, "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payment.ErrValidation), errors.Is(err, payment.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, payment.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, payment.ErrDocumentNotFound):
		http.Error(w, "invoice not found", http.StatusNotFound)
	default:
		slog.Error("payment request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
