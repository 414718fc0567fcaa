package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/infrastructure/smtp"
	"github.com/identity-verify-api/internal/infrastructure/sns"
	"github.com/identity-verify-api/internal/pkg/normalize"
	pkgtoken "github.com/identity-verify-api/internal/pkg/token"
)

// Composer dispatches verification messages over email and SMS. Delivery
// failures are logged but never fail the verification pipeline; the audit
// trail is the system of record, not the outbox.
type Composer struct {
	mailer      smtp.Mailer
	smsSender   sns.SMSSender
	baseURL     string
	staffEmails []string
	brokerEmail string
}

type ComposerDeps struct {
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	VerifyBase  string
	StaffEmails []string
	BrokerEmail string
}

func NewComposer(deps ComposerDeps) *Composer {
	return &Composer{
		mailer:      deps.Mailer,
		smsSender:   deps.SMSSender,
		baseURL:     deps.VerifyBase,
		staffEmails: deps.StaffEmails,
		brokerEmail: deps.BrokerEmail,
	}
}

// BrokerEmail is the contact address embedded in customer-facing messages.
func (c *Composer) BrokerEmail() string {
	return c.brokerEmail
}

// SendVerificationLink emails the party their verification link, and sends an
// SMS copy when the entry carries a phone number.
func (c *Composer) SendVerificationLink(ctx context.Context, entry *domain.ListEntry) error {
	if entry.Email == "" {
		return fmt.Errorf("entry %s has no email address: %w", entry.EntryID, domain.ErrBadRequest)
	}
	link := pkgtoken.VerificationURL(c.baseURL, entry.Token)

	greeting := "Hello"
	if entry.DisplayName != "" {
		greeting = "Hello " + entry.DisplayName
	}
	expiry := "This link will expire soon, so please complete your verification promptly."
	if entry.TokenExpiresAt != nil {
		expiry = fmt.Sprintf("This link will expire on %s, so please complete your verification promptly.",
			normalize.FormatTemporal(*entry.TokenExpiresAt, normalize.FormatOptions{Style: normalize.StyleLong}))
	}
	body := fmt.Sprintf("%s,\n\nPlease verify your identity by following the link below:\n\n%s\n\n%s\n\nIf you did not expect this message, please contact your broker.", greeting, link, expiry)

	if err := c.mailer.SendEmail(entry.Email, "Identity Verification Required", body); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	if phone := phoneFor(entry); phone != "" {
		sms := "Please verify your identity: " + link
		if err := c.smsSender.SendSMS(ctx, phone, sms); err != nil {
			slog.Warn("could not send verification SMS", "entry_id", entry.EntryID, "err", err)
		}
	}
	return nil
}

// NotifyFailure sends the customer their failure notice and alerts the staff
// distribution list. Both messages come from the same VerificationError so
// the two audiences always describe the same event.
func (c *Composer) NotifyFailure(ctx context.Context, entry *domain.ListEntry, verr *domain.VerificationError) {
	if entry.Email != "" {
		if err := c.mailer.SendEmail(entry.Email, "Identity Verification Unsuccessful", verr.CustomerMessage); err != nil {
			slog.Warn("could not send customer failure notice", "entry_id", entry.EntryID, "err", err)
		}
	}
	for _, staff := range c.staffEmails {
		if err := c.mailer.SendEmail(staff, "Verification Failure Alert", verr.StaffMessage); err != nil {
			slog.Warn("could not send staff failure alert", "entry_id", entry.EntryID, "to", staff, "err", err)
		}
	}
}

// phoneFor pulls a phone number from the entry's data columns.
func phoneFor(entry *domain.ListEntry) string {
	for _, key := range []string{"phoneNumber", "Phone Number", "phone", "Phone", "mobile", "Mobile"} {
		if v := strings.TrimSpace(entry.Data[key]); v != "" {
			return v
		}
	}
	return ""
}
