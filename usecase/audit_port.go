package usecase

import "context"

// LoginAuditor abstracts the audit store so the auth use case stays
// storage-agnostic. Implementations must never influence the login result.
type LoginAuditor interface {
	RecordLogin(ctx context.Context, username string, success bool, remoteAddr string) error
}
