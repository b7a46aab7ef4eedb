package upi_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rohit-3/Ratan-agri-tech/internal/upi"
)

func TestPaymentLink(t *testing.T) {
	amount := decimal.NewFromFloat(1180)

	link := upi.PaymentLink("ratanagritech@axisbank", "Ratan Agri Tech", amount, "INV-20260115-9F8A3C21")

	require.True(t, strings.HasPrefix(link, "upi://pay?"), "link %q", link)

	u, err := url.Parse(link)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "ratanagritech@axisbank", q.Get("pa"))
	assert.Equal(t, "Ratan Agri Tech", q.Get("pn"))
	assert.Equal(t, "1180.00", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "INV-20260115-9F8A3C21", q.Get("tn"))
}

func TestPaymentLink_EscapesName(t *testing.T) {
	link := upi.PaymentLink("a@b", "Sharma & Sons", decimal.NewFromInt(10), "memo")

	assert.NotContains(t, link, " ")
	assert.NotContains(t, link, "&pn=Sharma & Sons")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Sharma & Sons", u.Query().Get("pn"))
}

func TestQRCode(t *testing.T) {
	link := upi.PaymentLink("a@b", "Test", decimal.NewFromInt(100), "INV-1")

	png, err := upi.QRCode(link)
	require.NoError(t, err)

	require.NotEmpty(t, png)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestQRCode_TooLong(t *testing.T) {
	// QR capacity tops out around 3KB; oversized payloads must error rather
	// than truncate.
	_, err := upi.QRCode(strings.Repeat("x", 8000))

	assert.Error(t, err)
}
