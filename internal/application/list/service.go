// Package list handles identity list ingestion and staff-facing list
// operations. Ingestion is where identity numbers leave cleartext: each row's
// identifier is encrypted, the cleartext column is stripped from the stored
// data, and a retention copy of the raw upload goes to S3.
package list

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/infrastructure/vault"
	"github.com/identity-verify-api/internal/pkg/id"
	"github.com/identity-verify-api/internal/pkg/validate"
)

type listStore interface {
	Put(ctx context.Context, l *domain.IdentityList) error
	Get(ctx context.Context, listID string) (*domain.IdentityList, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.IdentityList, string, error)
}

type entryStore interface {
	BatchPut(ctx context.Context, entries []domain.ListEntry) error
	ListByList(ctx context.Context, listID string) ([]domain.ListEntry, error)
}

type encrypter interface {
	Encrypt(cleartext string) (domain.EncryptedIdentifier, error)
}

type uploadStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type linkSender interface {
	SendLink(ctx context.Context, entryID string) (*domain.ListEntry, error)
}

// BulkSendResult summarises a bulk link send over a list.
type BulkSendResult struct {
	Sent    int      `json:"sent"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"`
}

type Service interface {
	Create(ctx context.Context, createdBy string, req domain.CreateListRequest) (*domain.IdentityList, error)
	Get(ctx context.Context, listID string) (*domain.IdentityList, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.IdentityList, string, error)
	Entries(ctx context.Context, listID string) ([]domain.ListEntry, error)
	BulkSend(ctx context.Context, listID string) (*BulkSendResult, error)
}

type service struct {
	lists   listStore
	entries entryStore
	vault   encrypter
	uploads uploadStore
	sender  linkSender
	now     func() time.Time
}

type ServiceDeps struct {
	Lists   listStore
	Entries entryStore
	Vault   encrypter
	Uploads uploadStore
	Sender  linkSender
	Now     func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		lists:   deps.Lists,
		entries: deps.Entries,
		vault:   deps.Vault,
		uploads: deps.Uploads,
		sender:  deps.Sender,
		now:     now,
	}
}

// Create ingests an uploaded list. Every row becomes a pending entry with its
// identifier encrypted and removed from the row data. Rows without an email
// or identifier are still ingested; they surface later as unsendable.
func (s *service) Create(ctx context.Context, createdBy string, req domain.CreateListRequest) (*domain.IdentityList, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if !containsFold(req.Columns, req.EmailColumn) {
		return nil, fmt.Errorf("email column %q not in columns: %w", req.EmailColumn, domain.ErrBadRequest)
	}
	if !containsFold(req.Columns, req.IdentifierColumn) {
		return nil, fmt.Errorf("identifier column %q not in columns: %w", req.IdentifierColumn, domain.ErrBadRequest)
	}

	now := s.now().UTC()
	listID := id.New()

	uploadKey := s.retainUpload(ctx, listID, req)

	entries := make([]domain.ListEntry, 0, len(req.Rows))
	for _, row := range req.Rows {
		entry := domain.ListEntry{
			EntryID:          id.New(),
			ListID:           listID,
			Data:             make(map[string]string, len(row)),
			VerificationType: req.VerificationType,
			Status:           domain.StatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		for k, v := range row {
			switch {
			case strings.EqualFold(k, req.IdentifierColumn):
				// The identity number never reaches the stored row data.
			case strings.EqualFold(k, req.EmailColumn):
				entry.Email = strings.TrimSpace(v)
				entry.Data[k] = v
			default:
				entry.Data[k] = v
			}
		}
		entry.DisplayName = displayNameFor(entry.Data, req.VerificationType)
		entry.PolicyNumber = columnValue(entry.Data, "policyNumber", "Policy Number", "policy", "Policy")

		if cleartext := columnValueFold(row, req.IdentifierColumn); cleartext != "" {
			enc, err := s.vault.Encrypt(cleartext)
			if err != nil {
				return nil, fmt.Errorf("encrypt identifier for row: %w", err)
			}
			entry.Identifier = enc
		}
		entries = append(entries, entry)
	}

	if err := s.entries.BatchPut(ctx, entries); err != nil {
		return nil, err
	}

	l := &domain.IdentityList{
		ListID:           listID,
		Name:             req.Name,
		Columns:          req.Columns,
		EmailColumn:      req.EmailColumn,
		IdentifierColumn: req.IdentifierColumn,
		VerificationType: req.VerificationType,
		TotalEntries:     len(entries),
		PendingCount:     len(entries),
		CreatedBy:        createdBy,
		OriginalFileName: req.OriginalFileName,
		UploadKey:        uploadKey,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.lists.Put(ctx, l); err != nil {
		return nil, err
	}
	slog.Info("list ingested", "list_id", listID, "entries", len(entries), "type", req.VerificationType)
	return l, nil
}

func (s *service) Get(ctx context.Context, listID string) (*domain.IdentityList, error) {
	return s.lists.Get(ctx, listID)
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.IdentityList, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.lists.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Entries(ctx context.Context, listID string) ([]domain.ListEntry, error) {
	if _, err := s.lists.Get(ctx, listID); err != nil {
		return nil, err
	}
	return s.entries.ListByList(ctx, listID)
}

// BulkSend issues a verification link for every pending entry in the list.
// Entries that cannot be sent (no email, no identifier, already past pending)
// are skipped or reported, never aborting the batch.
func (s *service) BulkSend(ctx context.Context, listID string) (*BulkSendResult, error) {
	entries, err := s.Entries(ctx, listID)
	if err != nil {
		return nil, err
	}
	result := &BulkSendResult{}
	for _, entry := range entries {
		if entry.Status != domain.StatusPending {
			result.Skipped++
			continue
		}
		if _, err := s.sender.SendLink(ctx, entry.EntryID); err != nil {
			slog.Warn("bulk send: could not send link", "entry_id", entry.EntryID, "err", err)
			result.Failed = append(result.Failed, entry.EntryID)
			continue
		}
		result.Sent++
	}
	return result, nil
}

// retainUpload stores a CSV rendering of the upload in S3. The identifier
// column is masked before writing: cleartext identity numbers may only be
// persisted as Vault ciphertext, and the retention copy is no exception.
// Retention is best effort; a failed upload is logged and ingestion continues.
func (s *service) retainUpload(ctx context.Context, listID string, req domain.CreateListRequest) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(req.Columns)
	for _, row := range req.Rows {
		record := make([]string, len(req.Columns))
		for i, col := range req.Columns {
			v := columnValueFold(row, col)
			if v != "" && strings.EqualFold(col, req.IdentifierColumn) {
				v = vault.Mask(v)
			}
			record[i] = v
		}
		_ = w.Write(record)
	}
	w.Flush()

	key := fmt.Sprintf("lists/%s/original.csv", listID)
	if _, err := s.uploads.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "text/csv"); err != nil {
		slog.Warn("could not retain upload copy", "list_id", listID, "err", err)
		return ""
	}
	return key
}

func displayNameFor(data map[string]string, verificationType string) string {
	if verificationType == domain.VerificationTypeCAC {
		return columnValue(data, "companyName", "Company Name", "name", "Name")
	}
	first := columnValue(data, "firstName", "First Name")
	last := columnValue(data, "lastName", "Last Name", "surname", "Surname")
	return strings.TrimSpace(first + " " + last)
}

func columnValue(data map[string]string, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(data[name]); v != "" {
			return v
		}
	}
	for _, name := range names {
		if v := columnValueFold(data, name); v != "" {
			return v
		}
	}
	return ""
}

func columnValueFold(data map[string]string, name string) string {
	for k, v := range data {
		if strings.EqualFold(k, name) {
			if t := strings.TrimSpace(v); t != "" {
				return t
			}
		}
	}
	return ""
}

func containsFold(list []string, target string) bool {
	for _, s := range list {
		if strings.EqualFold(s, target) {
			return true
		}
	}
	return false
}
