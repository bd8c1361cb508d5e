package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
	"github.com/taskdesk/backend/usecase"
)

// timingPad is compared against when the username does not exist, so an
// unknown username costs the same as a wrong password.
var timingPad, _ = bcrypt.GenerateFromPassword([]byte("taskdesk.timing.pad"), bcrypt.DefaultCost)

type UseCase struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	auditor    usecase.LoginAuditor
	logger     *zap.Logger
	sessionTTL time.Duration
}

func New(users repository.UserRepository, sessions repository.SessionRepository, auditor usecase.LoginAuditor, logger *zap.Logger, sessionTTL time.Duration) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &UseCase{
		users:      users,
		sessions:   sessions,
		auditor:    auditor,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new account with a bcrypt digest of the password.
func (uc *UseCase) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, domain.ErrInvalidPayload
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, domain.WrapError(domain.ErrCodeInternal, "hash password", err)
	}

	id, err := uc.users.Create(ctx, username, string(hash))
	if err != nil {
		return 0, err
	}
	uc.logger.Info("user registered", zap.Int64("user_id", id))
	return id, nil
}

// Login verifies credentials and records the attempt. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, username, password, remoteAddr string) (*domain.User, error) {
	user, err := uc.verify(ctx, strings.TrimSpace(username), password)
	uc.audit(ctx, username, err == nil, remoteAddr)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UseCase) verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(timingPad, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// EstablishSession creates server-side session state and returns it. Only
// the random id travels back to the client.
func (uc *UseCase) EstablishSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.sessionTTL),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ResolveSession maps a session id back to an identity. Expired state is
// deleted and reported as not found.
func (uc *UseCase) ResolveSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RevokeSession removes all server-side state for the id.
func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) audit(ctx context.Context, username string, success bool, remoteAddr string) {
	if uc.auditor == nil {
		return
	}
	if err := uc.auditor.RecordLogin(ctx, username, success, remoteAddr); err != nil {
		uc.logger.Warn("failed to record login attempt", zap.Error(err))
	}
}
