// Package upi builds UPI deep links and their QR-code representations.
package upi

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 512 // pixels, square

// PaymentLink builds a upi://pay deep link for the given payee and amount.
// The memo is typically the invoice number so the payer's bank statement
// carries it.
func PaymentLink(handle, payeeName string, amount decimal.Decimal, memo string) string {
	// Parameter order follows the convention UPI apps publish: pa, pn, am,
	// cu, tn.
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s",
		url.QueryEscape(handle),
		url.QueryEscape(payeeName),
		amount.StringFixed(2),
		url.QueryEscape(memo),
	)
}

// QRCode renders the link as a PNG at medium error correction. The image
// decodes back to the exact input string.
func QRCode(link string) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encoding qr: %w", err)
	}

	return png, nil
}
