package payment

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rohit-3/Ratan-agri-tech/internal/payment"
)

type quoteResponse struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	InvoiceID     string          `json:"invoice_id"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentLink   string          `json:"payment_link"`
	QRImage       string          `json:"qr_image,omitempty"` // base64 PNG
	MerchantUPI   string          `json:"merchant_upi"`
	MerchantName  string          `json:"merchant_name"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

func toQuoteResponse(q *payment.Quote) quoteResponse {
	resp := quoteResponse{
		TransactionID: q.TransactionID,
		InvoiceID:     q.InvoiceID,
		BaseAmount:    q.BaseAmount,
		TaxRate:       q.TaxRate,
		TaxAmount:     q.TaxAmount,
		TotalAmount:   q.TotalAmount,
		PaymentLink:   q.PaymentLink,
		MerchantUPI:   q.MerchantUPI,
		MerchantName:  q.MerchantName,
		ExpiresAt:     q.ExpiresAt,
	}

	if len(q.QRImage) > 0 {
		resp.QRImage = base64.StdEncoding.EncodeToString(q.QRImage)
	}

	return resp
}

type confirmResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	InvoiceID     string    `json:"invoice_id"`
	InvoiceURL    string    `json:"invoice_url"`
	AlreadyPaid   bool      `json:"already_paid,omitempty"`
}

func toConfirmResponse(res *payment.ConfirmResult) confirmResponse {
	return confirmResponse{
		TransactionID: res.TransactionID,
		InvoiceID:     res.InvoiceID,
		InvoiceURL:    "/api/v1/invoices/" + res.InvoiceID,
		AlreadyPaid:   res.AlreadyPaid,
	}
}

type transactionResponse struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	InvoiceID     string          `json:"invoice_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	ProductName   string          `json:"product_name"`
	ProductID     *int64          `json:"product_id,omitempty"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	MerchantUPI   string          `json:"merchant_upi"`
	MerchantName  string          `json:"merchant_name"`
	Status        payment.Status  `json:"status"`
	PaymentRef    string          `json:"payment_reference,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	InvoiceSent   bool            `json:"invoice_sent"`
	InvoiceSentAt *time.Time      `json:"invoice_sent_at,omitempty"`
}

func toTransactionResponse(tx *payment.Transaction) transactionResponse {
	return transactionResponse{
		TransactionID: tx.ID,
		InvoiceID:     tx.InvoiceID,
		CustomerName:  tx.CustomerName,
		CustomerEmail: tx.CustomerEmail,
		CustomerPhone: tx.CustomerPhone,
		ProductName:   tx.ProductName,
		ProductID:     tx.ProductID,
		BaseAmount:    tx.BaseAmount,
		TaxRate:       tx.TaxRate,
		TaxAmount:     tx.TaxAmount,
		TotalAmount:   tx.TotalAmount,
		MerchantUPI:   tx.MerchantUPI,
		MerchantName:  tx.MerchantName,
		Status:        tx.Status,
		PaymentRef:    tx.PaymentRef,
		PaymentMethod: tx.PaymentMethod,
		Notes:         tx.Notes,
		CreatedAt:     tx.CreatedAt,
		PaidAt:        tx.PaidAt,
		InvoiceSent:   tx.InvoiceSent,
		InvoiceSentAt: tx.InvoiceSentAt,
	}
}

func toTransactionResponseList(txs []*payment.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toTransactionResponse(tx)
	}

	return resp
}
