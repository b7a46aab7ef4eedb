// Package notify delivers rendered invoices over SMTP. Delivery is best
// effort: the payment flow never blocks or rolls back on a failed mail.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/Rohit-3/Ratan-agri-tech/internal/payment"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	if from == "" {
		from = username
	}

	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendInvoice mails the invoice to the customer with the document attached.
// When the merchant profile carries its own email, a copy goes there too;
// a failed merchant copy is logged and does not fail the customer send.
func (m *Mailer) SendInvoice(_ context.Context, n payment.InvoiceNotification) error {
	msg := m.customerMessage(n)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending invoice %s to %s: %w", n.InvoiceID, n.CustomerEmail, err)
	}

	if n.Profile != nil && n.Profile.Email != "" {
		if err := m.dialer.DialAndSend(m.merchantMessage(n)); err != nil {
			slog.Error("merchant copy failed",
				"invoice_id", n.InvoiceID, "merchant_email", n.Profile.Email, "error", err)
		}
	}

	return nil
}

func (m *Mailer) customerMessage(n payment.InvoiceNotification) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", n.CustomerEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Payment Confirmed - Invoice %s - %s", n.InvoiceID, n.Profile.Name))

	body := fmt.Sprintf(`Dear %s,

Thank you for your payment of Rs. %s via UPI.

Your payment has been processed and your tax invoice is attached.

Payment Details:
- Invoice Number: %s
- Amount Paid: Rs. %s
- Date: %s

If you have any questions, please contact us.

Best regards,
%s
Phone: %s
Email: %s
Address: %s

---
This is an automated email. Please do not reply.
`,
		n.CustomerName,
		n.TotalAmount.StringFixed(2),
		n.InvoiceID,
		n.TotalAmount.StringFixed(2),
		time.Now().Format("02 January 2006"),
		n.Profile.Name,
		n.Profile.Phone,
		n.Profile.Email,
		n.Profile.Address,
	)

	msg.SetBody("text/plain", body)
	attachDocument(msg, n.InvoiceID, n.Document)

	return msg
}

func (m *Mailer) merchantMessage(n payment.InvoiceNotification) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", n.Profile.Email)
	msg.SetHeader("Subject", fmt.Sprintf("New Payment Received - Invoice %s", n.InvoiceID))

	body := fmt.Sprintf(`New payment received.

- Customer: %s
- Invoice: %s
- Amount: Rs. %s

The customer's invoice copy is attached.
`,
		n.CustomerName,
		n.InvoiceID,
		n.TotalAmount.StringFixed(2),
	)

	msg.SetBody("text/plain", body)
	attachDocument(msg, n.InvoiceID, n.Document)

	return msg
}

func attachDocument(msg *gomail.Message, invoiceID string, doc []byte) {
	msg.Attach(invoiceID+".pdf",
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(doc)
			return err
		}),
	)
}
