// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	orderdom "bloomstead/internal/domain/order"
)

// OrderMailer implements usecase.OrderMailer on an EmailClient. Bodies are
// plain text assembled here; the HTML storefront templates live with the
// front end, not in this service.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
	shopBaseURL string
}

// NewOrderMailer wires an EmailClient.
//
//   - fromAddress : sender address (e.g. orders@bloomsteadfarm.com)
//   - shopBaseURL : storefront base URL embedded in mail bodies
func NewOrderMailer(client EmailClient, fromAddress, shopBaseURL string) *OrderMailer {
	return &OrderMailer{
		client:      client,
		fromAddress: fromAddress,
		shopBaseURL: strings.TrimRight(shopBaseURL, "/"),
	}
}

func (m *OrderMailer) SendOrderConfirmation(ctx context.Context, o orderdom.Order) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("order_mailer: not configured")
	}

	subject := fmt.Sprintf("Bloomstead Farm — order %s received", o.ID)
	body := fmt.Sprintf(
		`Hi %s,

Thank you for your order! Here is what we have for you:

%s
  Total: $%.2f

We'll be in touch when your order ships. Questions? Just reply to this
email.

--
Bloomstead Farm
%s`,
		o.Customer.FirstName,
		itemLines(o),
		o.Total,
		m.shopBaseURL,
	)

	return m.client.Send(ctx, m.fromAddress, o.Customer.Email, subject, body)
}

func (m *OrderMailer) SendInvoice(ctx context.Context, o orderdom.Order) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("order_mailer: not configured")
	}

	subject := fmt.Sprintf("Bloomstead Farm — invoice for order %s", o.ID)
	body := fmt.Sprintf(
		`Invoice for order %s (%s)

Billed to: %s %s
Email:     %s
Phone:     %s

%s
  Amount due: $%.2f

--
Bloomstead Farm
%s`,
		o.ID,
		o.CreatedAt.Format("January 2, 2006"),
		o.Customer.FirstName, o.Customer.LastName,
		o.Customer.Email,
		o.Customer.Phone,
		itemLines(o),
		o.Total,
		m.shopBaseURL,
	)

	return m.client.Send(ctx, m.fromAddress, o.Customer.Email, subject, body)
}

func (m *OrderMailer) SendGiftCertificate(ctx context.Context, recipient, code string, amount float64) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("order_mailer: not configured")
	}

	subject := "A gift certificate from Bloomstead Farm"
	body := fmt.Sprintf(
		`You've received a Bloomstead Farm gift certificate!

  Amount: $%.2f
  Code:   %s

Redeem it any time at %s — just mention the code at checkout.

--
Bloomstead Farm`,
		amount,
		code,
		m.shopBaseURL,
	)

	return m.client.Send(ctx, m.fromAddress, strings.TrimSpace(recipient), subject, body)
}

func itemLines(o orderdom.Order) string {
	var b strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %s x%d — $%.2f\n", it.Name, it.Quantity, it.ItemSubtotal())
	}
	return strings.TrimRight(b.String(), "\n")
}
