package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"

	"github.com/Athah222/Label-Athah/models"
)

// Mailer sends storefront notifications. All sends are best-effort: a
// failure is logged by the caller and never rolls back an order.
type Mailer interface {
	SendOrderConfirmation(order models.Order, toEmail string) error
	SendShippingNotification(order models.Order, toEmail string) error
}

// SMTPMailer sends through a plain SMTP account (gmail app-password style).
type SMTPMailer struct {
	host       string
	port       string
	username   string
	password   string
	from       string
	adminEmail string
}

func NewSMTPMailer(host, port, username, password, from, adminEmail string) *SMTPMailer {
	return &SMTPMailer{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		from:       from,
		adminEmail: adminEmail,
	}
}

// SendOrderConfirmation mails the buyer and the shop admin, with the PDF
// invoice attached to both.
func (m *SMTPMailer) SendOrderConfirmation(order models.Order, toEmail string) error {
	invoice, err := GenerateInvoicePDF(order)
	if err != nil {
		// Still send the confirmation; the invoice is a nicety.
		log.Warn().Err(err).Str("order_ref", order.OrderRef).Msg("invoice generation failed")
		invoice = nil
	}

	customerHTML, err := renderTemplate(confirmationTemplate, order)
	if err != nil {
		return err
	}
	customer := m.newEmail(
		[]string{toEmail},
		fmt.Sprintf("Order Confirmed: #%s", shortRef(order.OrderRef)),
		customerHTML,
		invoice, order.OrderRef,
	)
	if err := customer.Send(m.addr(), m.auth()); err != nil {
		return fmt.Errorf("send confirmation to buyer: %w", err)
	}

	if m.adminEmail == "" {
		return nil
	}
	adminHTML, err := renderTemplate(adminAlertTemplate, order)
	if err != nil {
		return err
	}
	admin := m.newEmail(
		[]string{m.adminEmail},
		fmt.Sprintf("New Order Received! #%s", shortRef(order.OrderRef)),
		adminHTML,
		invoice, order.OrderRef,
	)
	if err := admin.Send(m.addr(), m.auth()); err != nil {
		return fmt.Errorf("send confirmation to admin: %w", err)
	}
	return nil
}

// SendShippingNotification mails the buyer that the order left the warehouse.
func (m *SMTPMailer) SendShippingNotification(order models.Order, toEmail string) error {
	html, err := renderTemplate(shippingTemplate, order)
	if err != nil {
		return err
	}
	e := m.newEmail(
		[]string{toEmail},
		fmt.Sprintf("Your Athah Order #%s has Shipped!", shortRef(order.OrderRef)),
		html,
		nil, "",
	)
	if err := e.Send(m.addr(), m.auth()); err != nil {
		return fmt.Errorf("send shipping notification: %w", err)
	}
	return nil
}

func (m *SMTPMailer) newEmail(to []string, subject, html string, invoice []byte, ref string) *email.Email {
	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = subject
	e.HTML = []byte(html)
	if invoice != nil {
		name := fmt.Sprintf("Invoice-%s.pdf", shortRef(ref))
		e.Attach(bytes.NewReader(invoice), name, "application/pdf")
	}
	return e
}

func (m *SMTPMailer) addr() string {
	return m.host + ":" + m.port
}

func (m *SMTPMailer) auth() smtp.Auth {
	return smtp.PlainAuth("", m.username, m.password, m.host)
}

func shortRef(ref string) string {
	ref = strings.ToUpper(ref)
	if len(ref) > 6 {
		return ref[:6]
	}
	return ref
}

func renderTemplate(tmpl string, order models.Order) (string, error) {
	t, err := template.New("mail").Funcs(template.FuncMap{
		"short": shortRef,
		"inr":   func(v float64) string { return fmt.Sprintf("₹%.2f", v) },
		"mul":   func(p float64, q int) float64 { return p * float64(q) },
	}).Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, order); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const confirmationTemplate = `
<div style="font-family: 'Lora', serif; color: #241010; max-width: 600px; margin: auto; border: 1px solid #e2e8f0; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #8c7a6b; letter-spacing: 2px;">ATHAH</h1>
    <p style="text-transform: uppercase; font-size: 12px;">Thank you for your purchase</p>
  </div>
  <p>Dear {{.ShippingAddress.Name}},</p>
  <p>Your order <strong>#{{short .OrderRef}}</strong> has been successfully placed and is now being processed. Please find your invoice attached.</p>
  <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    <thead>
      <tr style="background-color: #f8f9fa;">
        <th style="padding: 10px; text-align: left;">Item</th>
        <th style="padding: 10px; text-align: center;">Qty</th>
        <th style="padding: 10px; text-align: right;">Price</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td style="padding: 10px; border-bottom: 1px solid #eee;">{{.ProductName}} (Size: {{.Size}})</td>
        <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
        <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">{{inr (mul .Price .Quantity)}}</td>
      </tr>
      {{end}}
    </tbody>
    <tfoot>
      <tr>
        <td colspan="2" style="padding: 10px; font-weight: bold; text-align: right;">Total:</td>
        <td style="padding: 10px; font-weight: bold; text-align: right; color: #8c7a6b;">{{inr .TotalAmount}}</td>
      </tr>
    </tfoot>
  </table>
  <p style="font-size: 14px;">We'll notify you as soon as your order has been shipped. You can track your order status in your account dashboard.</p>
</div>`

const adminAlertTemplate = `
<div style="font-family: sans-serif; color: #333; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd;">
  <h2 style="color: #8c7a6b;">Notification: New Order Placed</h2>
  <p><strong>Order Ref:</strong> #{{.OrderRef}}</p>
  <p><strong>Customer:</strong> {{.ShippingAddress.Name}} ({{.UserID}})</p>
  <p><strong>Total Amount:</strong> {{inr .TotalAmount}}</p>
  <p>Check the admin dashboard for more details.</p>
</div>`

const shippingTemplate = `
<div style="font-family: 'Lora', serif; color: #241010; max-width: 600px; margin: auto; border: 1px solid #e2e8f0; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #8c7a6b; letter-spacing: 2px;">ATHAH</h1>
    <p style="text-transform: uppercase; font-size: 12px;">Great News!</p>
  </div>
  <p>Dear {{.ShippingAddress.Name}},</p>
  <p>We are excited to let you know that your order <strong>#{{short .OrderRef}}</strong> has been shipped!</p>
  <p>Shipping details and tracking information will be shared with you shortly in a separate message.</p>
</div>`
