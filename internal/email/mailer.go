package email

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
)

// Sender delivers a single message. Satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer renders and sends ticket lifecycle emails. Delivery failures are
// logged and swallowed; mail never blocks a lifecycle change.
type Mailer struct {
	sender  Sender
	from    string
	baseURL string
	logger  *zap.Logger
}

// NewMailer builds a Mailer from SMTP config. Returns nil when no host is
// configured; callers treat a nil Mailer as disabled.
func NewMailer(cfg config.SMTPConfig, baseURL string, logger *zap.Logger) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Mailer{sender: dialer, from: cfg.From, baseURL: baseURL, logger: logger}
}

func (m *Mailer) send(to, subject, htmlBody string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.sender.DialAndSend(msg); err != nil {
		m.logger.Warn("email delivery failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
	}
}

// SendTicketCreated notifies the requester that their ticket was registered.
func (m *Mailer) SendTicketCreated(_ context.Context, to string, ticket *domain.Ticket) {
	subject := fmt.Sprintf("[%s] %s", ticket.Number, ticket.Title)
	body := fmt.Sprintf(
		"<p>Your ticket <strong>%s</strong> has been registered.</p><p>%s</p><p><a href=%q>View ticket</a></p>",
		ticket.Number, ticket.Title, m.ticketURL(ticket))
	m.send(to, subject, body)
}

// SendCommentAdded notifies a user about a new public comment.
func (m *Mailer) SendCommentAdded(_ context.Context, to string, ticket *domain.Ticket, preview string) {
	subject := fmt.Sprintf("[%s] New comment", ticket.Number)
	body := fmt.Sprintf(
		"<p>New comment on ticket <strong>%s</strong>:</p><blockquote>%s</blockquote><p><a href=%q>View ticket</a></p>",
		ticket.Number, preview, m.ticketURL(ticket))
	m.send(to, subject, body)
}

// SendStatusChanged notifies the requester about a status transition.
func (m *Mailer) SendStatusChanged(_ context.Context, to string, ticket *domain.Ticket, oldStatus, newStatus domain.TicketStatus) {
	subject := fmt.Sprintf("[%s] Status changed to %s", ticket.Number, newStatus)
	body := fmt.Sprintf(
		"<p>Ticket <strong>%s</strong> moved from %s to %s.</p><p><a href=%q>View ticket</a></p>",
		ticket.Number, oldStatus, newStatus, m.ticketURL(ticket))
	m.send(to, subject, body)
}

// SendTicketClosed mails the requester the closing summary, the public
// conversation transcript, and the rating link.
func (m *Mailer) SendTicketClosed(_ context.Context, to string, ticket *domain.Ticket, comments []domain.TicketComment, authors map[string]string) {
	subject := fmt.Sprintf("[%s] Ticket closed", ticket.Number)

	var b strings.Builder
	fmt.Fprintf(&b, "<p>Ticket <strong>%s</strong> has been closed.</p>", ticket.Number)
	if ticket.Solution != nil && *ticket.Solution != "" {
		fmt.Fprintf(&b, "<p><strong>Solution:</strong> %s</p>", *ticket.Solution)
	}
	if len(comments) > 0 {
		b.WriteString("<hr><h4>Conversation</h4>")
		for _, comment := range comments {
			author := authors[comment.UserID]
			if author == "" {
				author = "Unknown"
			}
			fmt.Fprintf(&b, "<p><strong>%s</strong> (%s):<br>%s</p>",
				author, comment.CreatedAt.Format("2006-01-02 15:04"), comment.Content)
		}
	}
	if ticket.UserRatingToken != nil {
		fmt.Fprintf(&b, "<hr><p><a href=%q>Rate our service</a></p>",
			fmt.Sprintf("%s/rate/%s", m.baseURL, *ticket.UserRatingToken))
	}
	m.send(to, subject, b.String())
}

func (m *Mailer) ticketURL(ticket *domain.Ticket) string {
	return fmt.Sprintf("%s/tickets/%s", m.baseURL, ticket.ID)
}
