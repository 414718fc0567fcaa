// Package audit exposes read access to the append-only verification audit
// trail for staff review.
package audit

import (
	"context"

	"github.com/identity-verify-api/internal/domain"
)

type auditStore interface {
	ListByEntry(ctx context.Context, entryID string, limit int32) ([]domain.AuditLogEntry, error)
	ListByList(ctx context.Context, listID string, limit int32) ([]domain.AuditLogEntry, error)
}

type Service interface {
	ForEntry(ctx context.Context, entryID string, limit int) ([]domain.AuditLogEntry, error)
	ForList(ctx context.Context, listID string, limit int) ([]domain.AuditLogEntry, error)
}

type service struct {
	audits auditStore
}

func NewService(audits auditStore) Service {
	return &service{audits: audits}
}

func (s *service) ForEntry(ctx context.Context, entryID string, limit int) ([]domain.AuditLogEntry, error) {
	return s.audits.ListByEntry(ctx, entryID, clamp(limit))
}

func (s *service) ForList(ctx context.Context, listID string, limit int) ([]domain.AuditLogEntry, error) {
	return s.audits.ListByList(ctx, listID, clamp(limit))
}

func clamp(limit int) int32 {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return int32(limit)
}
