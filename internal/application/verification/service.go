// Package verification drives the entry verification state machine:
// pending -> link_sent -> verified | verification_failed, with staff resends
// moving failed entries back to link_sent. Every transition is audited and
// every failure produces paired customer and staff notifications.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/identity-verify-api/internal/application/notify"
	"github.com/identity-verify-api/internal/application/tokenmgr"
	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/infrastructure/registry"
	"github.com/identity-verify-api/internal/infrastructure/vault"
	"github.com/identity-verify-api/internal/pkg/id"
	"github.com/identity-verify-api/internal/pkg/match"
)

type entryStore interface {
	Get(ctx context.Context, entryID string) (*domain.ListEntry, error)
	Update(ctx context.Context, entryID string, updates map[string]interface{}) error
	IncrementAttempts(ctx context.Context, entryID string, max int) (int, error)
}

type listStore interface {
	AdjustCounters(ctx context.Context, listID string, deltas map[string]int) error
}

type auditStore interface {
	Append(ctx context.Context, entry *domain.AuditLogEntry) error
}

type decrypter interface {
	Decrypt(enc domain.EncryptedIdentifier) (string, error)
}

type notifier interface {
	SendVerificationLink(ctx context.Context, entry *domain.ListEntry) error
	NotifyFailure(ctx context.Context, entry *domain.ListEntry, verr *domain.VerificationError)
	BrokerEmail() string
}

type Service interface {
	SendLink(ctx context.Context, entryID string) (*domain.ListEntry, error)
	Resend(ctx context.Context, entryID string) (*domain.ListEntry, error)
	Resolve(ctx context.Context, tok string) (*domain.ListEntry, error)
}

type service struct {
	entries     entryStore
	lists       listStore
	audits      auditStore
	vault       decrypter
	tokens      tokenmgr.Service
	notify      notifier
	registries  map[string]registry.Client
	maxAttempts int
	now         func() time.Time
}

type ServiceDeps struct {
	Entries     entryStore
	Lists       listStore
	Audits      auditStore
	Vault       decrypter
	Tokens      tokenmgr.Service
	Notifier    notifier
	CACClient   registry.Client
	NINClient   registry.Client
	MaxAttempts int
	Now         func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		entries: deps.Entries,
		lists:   deps.Lists,
		audits:  deps.Audits,
		vault:   deps.Vault,
		tokens:  deps.Tokens,
		notify:  deps.Notifier,
		registries: map[string]registry.Client{
			domain.VerificationTypeCAC: deps.CACClient,
			domain.VerificationTypeNIN: deps.NINClient,
		},
		maxAttempts: deps.MaxAttempts,
		now:         now,
	}
}

// SendLink issues a verification token for a pending entry and delivers the
// link. The first issuance resets the attempt budget.
func (s *service) SendLink(ctx context.Context, entryID string) (*domain.ListEntry, error) {
	entry, err := s.entries.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.sendable(entry); err != nil {
		return nil, err
	}
	if entry.Status != domain.StatusPending {
		return nil, fmt.Errorf("entry is not pending: %w", domain.ErrConflict)
	}

	prevStatus := entry.Status
	if err := s.tokens.Issue(ctx, entry, false); err != nil {
		return nil, err
	}
	if err := s.notify.SendVerificationLink(ctx, entry); err != nil {
		return nil, err
	}
	s.adjustCounters(ctx, entry.ListID, prevStatus, entry.Status)
	s.audit(ctx, entry, domain.AuditActionLinkSent, "", domain.AuditResultSuccess, nil)
	return entry, nil
}

// Resend replaces the entry's token with a fresh one and delivers a new link.
// It is the staff escape hatch: permitted for failed and stale entries alike,
// and it never resets the attempt budget. A resend for an entry whose budget
// is already spent still delivers a link, but submissions through it keep
// being rejected with max_attempts; the budget never grows back.
func (s *service) Resend(ctx context.Context, entryID string) (*domain.ListEntry, error) {
	entry, err := s.entries.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.sendable(entry); err != nil {
		return nil, err
	}

	prevStatus := entry.Status
	if err := s.tokens.Issue(ctx, entry, true); err != nil {
		return nil, err
	}
	if err := s.notify.SendVerificationLink(ctx, entry); err != nil {
		return nil, err
	}
	s.adjustCounters(ctx, entry.ListID, prevStatus, entry.Status)
	s.audit(ctx, entry, domain.AuditActionLinkResent, "", domain.AuditResultSuccess, nil)
	return entry, nil
}

func (s *service) sendable(entry *domain.ListEntry) error {
	if entry.Status == domain.StatusVerified {
		return fmt.Errorf("entry already verified: %w", domain.ErrConflict)
	}
	if entry.VerificationType == "" {
		return fmt.Errorf("entry has no verification type: %w", domain.ErrBadRequest)
	}
	if entry.Identifier.IsZero() {
		return fmt.Errorf("entry has no identifier on record: %w", domain.ErrBadRequest)
	}
	return nil
}

// Resolve runs one verification submission end to end: token validation,
// identifier decryption, atomic attempt accounting, registry lookup, and
// field matching. On success the entry is returned with status verified; on
// failure the returned error is a *domain.VerificationError carrying both
// audience messages.
func (s *service) Resolve(ctx context.Context, tok string) (*domain.ListEntry, error) {
	entry, err := s.tokens.Validate(ctx, tok)
	if err != nil {
		return nil, s.rejectSubmission(ctx, entry, err)
	}

	cleartext, err := s.vault.Decrypt(entry.Identifier)
	if err != nil {
		slog.Error("identifier decryption failed", "entry_id", entry.EntryID, "err", err)
		verr := s.buildError(entry, domain.ErrTypeInvalidInput, nil, "stored identifier could not be read", nil)
		s.failSubmission(ctx, entry, "", verr, "", "")
		return nil, verr
	}
	masked := vault.Mask(cleartext)

	// The attempt is consumed before the lookup so a crash mid-lookup can
	// never grant a free retry. The conditional write is the budget guard
	// under concurrent submissions for the same token, and its return value
	// is the authoritative count: the local copy may be stale by the time
	// the increment lands.
	attempts, err := s.entries.IncrementAttempts(ctx, entry.EntryID, s.maxAttempts)
	if err != nil {
		if errors.Is(err, domain.ErrAttemptsExhausted) {
			verr := s.buildError(entry, domain.ErrTypeMaxAttempts, nil, "", nil)
			s.failSubmission(ctx, entry, masked, verr, "", "")
			return nil, verr
		}
		return nil, err
	}
	entry.VerificationAttempts = attempts

	client := s.registries[entry.VerificationType]
	if client == nil {
		verr := s.buildError(entry, domain.ErrTypeAPIError, nil, "no registry configured for "+entry.VerificationType, nil)
		s.failSubmission(ctx, entry, masked, verr, "", "")
		return nil, verr
	}

	rec, err := client.Lookup(ctx, cleartext)
	if err != nil {
		errType := domain.ErrTypeAPIError
		if registry.InputFault(err) {
			errType = domain.ErrTypeInvalidInput
		}
		code, message := lookupDetail(err)
		technical := map[string]string{"provider_code": code}
		if message != "" {
			technical["provider_message"] = message
		}
		verr := s.buildError(entry, errType, nil, message, technical)
		details := &domain.VerificationDetails{
			Matched:   false,
			Source:    entry.VerificationType,
			Timestamp: s.now().UTC(),
		}
		s.storeOutcome(ctx, entry, domain.StatusVerificationFailed, details, nil)
		s.auditFailure(ctx, entry, masked, verr, code, message)
		s.notify.NotifyFailure(ctx, entry, verr)
		return nil, verr
	}

	result := match.Run(match.SpecsFor(entry.VerificationType, rec, entry.Data))
	now := s.now().UTC()
	details := &domain.VerificationDetails{
		Matched:      result.Matched,
		FailedFields: result.FailedFields,
		APIData:      rec.Fields(),
		Source:       entry.VerificationType,
		Timestamp:    now,
	}

	if !result.Matched {
		verr := s.buildError(entry, domain.ErrTypeFieldMismatch, result.FailedFields, "", mismatchDetails(result))
		s.storeOutcome(ctx, entry, domain.StatusVerificationFailed, details, nil)
		s.auditFailure(ctx, entry, masked, verr, "", "")
		s.notify.NotifyFailure(ctx, entry, verr)
		return nil, verr
	}

	s.storeOutcome(ctx, entry, domain.StatusVerified, details, &now)
	s.audit(ctx, entry, domain.AuditActionVerification, masked, domain.AuditResultSuccess, details)
	return entry, nil
}

// rejectSubmission translates token validation failures into the error
// taxonomy. These rejections never consume an attempt. entry is nil for
// unknown tokens.
func (s *service) rejectSubmission(ctx context.Context, entry *domain.ListEntry, err error) error {
	switch {
	case errors.Is(err, tokenmgr.ErrUnknownToken):
		return s.buildError(entry, domain.ErrTypeInvalidInput, nil, "unrecognised verification link", nil)
	case errors.Is(err, tokenmgr.ErrTokenExpired):
		verr := s.buildError(entry, domain.ErrTypeExpiredToken, nil, "", nil)
		s.failSubmission(ctx, entry, "", verr, "", "")
		return verr
	case errors.Is(err, domain.ErrAttemptsExhausted):
		verr := s.buildError(entry, domain.ErrTypeMaxAttempts, nil, "", nil)
		s.failSubmission(ctx, entry, "", verr, "", "")
		return verr
	default:
		return err
	}
}

// failSubmission audits a failed submission and notifies both audiences. The
// entry's status is left unchanged: expiry and budget rejections are about
// the link, not the underlying record.
func (s *service) failSubmission(ctx context.Context, entry *domain.ListEntry, masked string, verr *domain.VerificationError, apiStatus, apiMessage string) {
	s.auditFailure(ctx, entry, masked, verr, apiStatus, apiMessage)
	s.notify.NotifyFailure(ctx, entry, verr)
}

func (s *service) buildError(entry *domain.ListEntry, errType string, failedFields []string, message string, technical map[string]string) *domain.VerificationError {
	opts := notify.ErrorOptions{
		FailedFields:     failedFields,
		BrokerEmail:      s.notify.BrokerEmail(),
		Message:          message,
		TechnicalDetails: technical,
	}
	if entry != nil {
		opts.CustomerName = entry.DisplayName
		opts.PolicyNumber = entry.PolicyNumber
		opts.VerificationType = entry.VerificationType
	}
	return notify.NewError(errType, opts)
}

// storeOutcome persists a terminal submission outcome and keeps the list
// counters in step with the status change. The attempt counter is not part
// of the update: IncrementAttempts already persisted it, and writing a local
// copy back could rewind a concurrent increment.
func (s *service) storeOutcome(ctx context.Context, entry *domain.ListEntry, newStatus string, details *domain.VerificationDetails, verifiedAt *time.Time) {
	updates := map[string]interface{}{
		"status":               newStatus,
		"verification_details": details,
	}
	if verifiedAt != nil {
		updates["verified_at"] = verifiedAt.Format(time.RFC3339)
	}
	if err := s.entries.Update(ctx, entry.EntryID, updates); err != nil {
		slog.Error("could not store verification outcome", "entry_id", entry.EntryID, "err", err)
	}
	prevStatus := entry.Status
	entry.Status = newStatus
	entry.VerificationDetails = details
	entry.VerifiedAt = verifiedAt
	s.adjustCounters(ctx, entry.ListID, prevStatus, newStatus)
}

func (s *service) adjustCounters(ctx context.Context, listID, prevStatus, newStatus string) {
	if prevStatus == newStatus {
		return
	}
	deltas := map[string]int{}
	if f := counterField(prevStatus); f != "" {
		deltas[f] = -1
	}
	if f := counterField(newStatus); f != "" {
		deltas[f] = deltas[f] + 1
	}
	if err := s.lists.AdjustCounters(ctx, listID, deltas); err != nil {
		slog.Warn("could not adjust list counters", "list_id", listID, "err", err)
	}
}

func counterField(status string) string {
	switch status {
	case domain.StatusPending:
		return "pending_count"
	case domain.StatusLinkSent:
		return "link_sent_count"
	case domain.StatusVerified:
		return "verified_count"
	case domain.StatusVerificationFailed:
		return "failed_count"
	}
	return ""
}

func (s *service) auditFailure(ctx context.Context, entry *domain.ListEntry, masked string, verr *domain.VerificationError, apiStatus, apiMessage string) {
	record := &domain.AuditLogEntry{
		AuditID:          id.New(),
		Timestamp:        s.now().UTC(),
		Action:           domain.AuditActionVerification,
		MaskedIdentifier: masked,
		Result:           domain.AuditResultFailure,
		FailedFields:     verr.FailedFields,
		ErrorType:        verr.ErrorType,
		APIStatus:        apiStatus,
		APIMessage:       apiMessage,
	}
	if entry != nil {
		record.EntryID = entry.EntryID
		record.ListID = entry.ListID
		record.Source = entry.VerificationType
	}
	if err := s.audits.Append(ctx, record); err != nil {
		slog.Error("could not append audit record", "entry_id", record.EntryID, "err", err)
	}
}

func (s *service) audit(ctx context.Context, entry *domain.ListEntry, action, masked, result string, details *domain.VerificationDetails) {
	record := &domain.AuditLogEntry{
		AuditID:          id.New(),
		Timestamp:        s.now().UTC(),
		Action:           action,
		EntryID:          entry.EntryID,
		ListID:           entry.ListID,
		MaskedIdentifier: masked,
		Result:           result,
		Source:           entry.VerificationType,
	}
	if details != nil {
		record.Matched = details.Matched
		record.FailedFields = details.FailedFields
	}
	if err := s.audits.Append(ctx, record); err != nil {
		slog.Error("could not append audit record", "entry_id", entry.EntryID, "err", err)
	}
}

// lookupDetail extracts the provider code and staff-safe message from a
// registry failure.
func lookupDetail(err error) (code, message string) {
	var lf *domain.LookupFailure
	if errors.As(err, &lf) {
		return lf.Code, lf.Message
	}
	return "", err.Error()
}

// mismatchDetails flattens the non-matching comparisons for the staff alert.
func mismatchDetails(result domain.FieldMatchResult) map[string]string {
	out := make(map[string]string)
	for field, cmp := range result.Details {
		if cmp.Matched || cmp.Optional {
			continue
		}
		out[field] = fmt.Sprintf("registry=%q submitted=%q", cmp.NormalizedExternal, cmp.NormalizedParty)
	}
	return out
}
