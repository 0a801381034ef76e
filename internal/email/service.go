package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/redmonkez12/storefront-api/internal/logging"
)

// ErrNoRecipient is returned when an operational address is not configured.
var ErrNoRecipient = errors.New("no recipient configured")

// Applicant is the account shown to the administrator in an approval request.
type Applicant struct {
	Name         string
	Email        string
	Roles        []string
	RazonSocial  string
	CUIT         string
	Phone        string
	Localidad    string
	Provincia    string
	RegisteredAt time.Time
}

// OrderLine is one product of an order with its repeated quantity.
type OrderLine struct {
	Title       string
	Description string
	Quantity    int
	Subtotal    float64
}

// Order is a storefront order notification.
type Order struct {
	Name    string
	Surname string
	Phone   string
	Lines   []OrderLine
	Total   float64
}

// Contact is a quote request from the contact form.
type Contact struct {
	Name      string
	Email     string
	Localidad string
	Phone     string
	Empresa   string
	Actividad string
	Cotizar   []string
	Message   string
}

// Recipients holds the operational addresses that receive notifications.
type Recipients struct {
	Admin   string
	Orders  string
	Contact string
}

// Service renders and sends transactional emails.
type Service struct {
	mailer      Mailer
	recipients  Recipients
	frontendURL string
	logger      *logging.Logger
}

func NewService(mailer Mailer, recipients Recipients, frontendURL string, logger *logging.Logger) *Service {
	return &Service{
		mailer:      mailer,
		recipients:  recipients,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// SendApprovalRequest asks the administrator to approve or reject applicant.
func (s *Service) SendApprovalRequest(ctx context.Context, applicant Applicant, approveURL, rejectURL string) error {
	return s.send(ctx, s.recipients.Admin, "New user requires approval", "approvalRequest", map[string]any{
		"Applicant":  applicant,
		"ApproveURL": approveURL,
		"RejectURL":  rejectURL,
	})
}

// SendApprovalDecision tells the applicant about the administrator's decision.
func (s *Service) SendApprovalDecision(ctx context.Context, to, name string, approved bool) error {
	subject := "Account not approved"
	if approved {
		subject = "Account approved"
	}
	return s.send(ctx, to, subject, "approvalDecision", map[string]any{
		"Name":     name,
		"Email":    to,
		"Approved": approved,
	})
}

// SendPasswordResetEmail sends a password reset link to the user
// This method is designed to be called in a goroutine
func (s *Service) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(token))
	return s.send(ctx, to, "Reset your password", "passwordReset", map[string]any{
		"ResetLink": resetLink,
	})
}

// SendOrder notifies the sales inbox of a new order.
func (s *Service) SendOrder(ctx context.Context, order Order) error {
	return s.send(ctx, s.recipients.Orders, "New order from "+order.Name, "order", map[string]any{
		"Order": order,
	})
}

// SendContact forwards a contact form submission.
func (s *Service) SendContact(ctx context.Context, contact Contact) error {
	return s.send(ctx, s.recipients.Contact, "New contact request from "+contact.Name, "contact", map[string]any{
		"Contact": contact,
	})
}

func (s *Service) send(ctx context.Context, to, subject, tmpl string, data map[string]any) error {
	logger := logging.GetLoggerFromContext(ctx)

	if to == "" {
		return fmt.Errorf("%s email: %w", tmpl, ErrNoRecipient)
	}

	body, err := render(tmpl, data)
	if err != nil {
		logger.Error("failed to render email template", "template", tmpl, "error", err)
		return err
	}

	if err := s.mailer.Send(ctx, Message{To: []string{to}, Subject: subject, HTML: body}); err != nil {
		logger.Error("failed to send email", "template", tmpl, "email", to, "error", err)
		return err
	}

	logger.Info("email sent", "template", tmpl, "email", to)
	return nil
}

func render(name string, data map[string]any) (string, error) {
	data["Style"] = template.CSS(baseStyle)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
