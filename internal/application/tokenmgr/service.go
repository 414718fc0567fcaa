// Package tokenmgr owns the verification token lifecycle: issuing tokens for
// link sends and resends, and validating submitted tokens before the pipeline
// spends an attempt.
package tokenmgr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/identity-verify-api/internal/domain"
	pkgtoken "github.com/identity-verify-api/internal/pkg/token"
)

var (
	// ErrUnknownToken means the submitted string is not a token this
	// service issued, or it no longer maps to an entry.
	ErrUnknownToken = errors.New("unknown verification token")
	// ErrTokenExpired means the token was valid once but its window has
	// closed.
	ErrTokenExpired = errors.New("verification token expired")
)

type entryStore interface {
	GetByToken(ctx context.Context, tok string) (*domain.ListEntry, error)
	Update(ctx context.Context, entryID string, updates map[string]interface{}) error
}

type Service interface {
	Issue(ctx context.Context, entry *domain.ListEntry, resend bool) error
	Validate(ctx context.Context, tok string) (*domain.ListEntry, error)
}

type service struct {
	entries     entryStore
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

type ServiceDeps struct {
	Entries     entryStore
	TTL         time.Duration
	MaxAttempts int
	Now         func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		entries:     deps.Entries,
		ttl:         deps.TTL,
		maxAttempts: deps.MaxAttempts,
		now:         now,
	}
}

// Issue generates a fresh token for the entry and moves it to link_sent. A
// first issuance resets the attempt counter; a resend leaves attempts alone
// and bumps the resend counter, so the budget survives staff resends. The
// passed entry is updated in place to reflect the stored state.
func (s *service) Issue(ctx context.Context, entry *domain.ListEntry, resend bool) error {
	tok, err := pkgtoken.New()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	updates := map[string]interface{}{
		"token":            tok,
		"token_expires_at": expiresAt.Format(time.RFC3339),
		"status":           domain.StatusLinkSent,
		"link_sent_at":     now.Format(time.RFC3339),
	}
	if resend {
		updates["resend_count"] = entry.ResendCount + 1
	} else {
		updates["verification_attempts"] = 0
	}
	if err := s.entries.Update(ctx, entry.EntryID, updates); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	entry.Token = tok
	entry.TokenExpiresAt = &expiresAt
	entry.Status = domain.StatusLinkSent
	entry.LinkSentAt = &now
	if resend {
		entry.ResendCount++
	} else {
		entry.VerificationAttempts = 0
	}
	return nil
}

// Validate resolves a submitted token to its entry. It rejects malformed and
// unknown tokens, expired tokens, and entries whose attempt budget is already
// spent, all without consuming an attempt.
func (s *service) Validate(ctx context.Context, tok string) (*domain.ListEntry, error) {
	if !pkgtoken.ValidFormat(tok) {
		return nil, ErrUnknownToken
	}
	entry, err := s.entries.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnknownToken
		}
		return nil, err
	}
	if entry.Status == domain.StatusVerified {
		return nil, fmt.Errorf("entry already verified: %w", domain.ErrConflict)
	}
	if entry.TokenExpired(s.now().UTC()) {
		return entry, ErrTokenExpired
	}
	if entry.VerificationAttempts >= s.maxAttempts {
		return entry, domain.ErrAttemptsExhausted
	}
	return entry, nil
}
