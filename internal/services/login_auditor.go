package services

import (
	"context"

	"github.com/taskdesk/backend/internal/infrastructure/audit"
	"github.com/taskdesk/backend/usecase"
)

// AuditRecorder adapts the BoltDB audit store to the auth use case port.
type AuditRecorder struct {
	store *audit.Store
}

func NewAuditRecorder(store *audit.Store) *AuditRecorder {
	return &AuditRecorder{store: store}
}

func (a *AuditRecorder) RecordLogin(_ context.Context, username string, success bool, remoteAddr string) error {
	if a == nil || a.store == nil {
		return nil
	}
	outcome := audit.OutcomeFailure
	if success {
		outcome = audit.OutcomeSuccess
	}
	return a.store.Append(audit.Record{
		Username:   username,
		Outcome:    outcome,
		RemoteAddr: remoteAddr,
	})
}

var _ usecase.LoginAuditor = (*AuditRecorder)(nil)
