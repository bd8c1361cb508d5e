package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdesk/backend/domain"
)

type fakeUserRepository struct {
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepository) Create(_ context.Context, username, passwordHash string) (int64, error) {
	if _, ok := f.users[username]; ok {
		return 0, domain.ErrDuplicateUsername
	}
	user := &domain.User{
		ID:           f.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.nextID++
	f.users[username] = user
	return user.ID, nil
}

func (f *fakeUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type fakeSessionRepository struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*domain.Session{}}
}

func (f *fakeSessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionRepository) Save(_ context.Context, session *domain.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepository) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type recordedLogin struct {
	username string
	success  bool
}

type fakeAuditor struct {
	records []recordedLogin
}

func (f *fakeAuditor) RecordLogin(_ context.Context, username string, success bool, _ string) error {
	f.records = append(f.records, recordedLogin{username: username, success: success})
	return nil
}

func newTestUseCase() (*UseCase, *fakeUserRepository, *fakeSessionRepository, *fakeAuditor) {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	auditor := &fakeAuditor{}
	return New(users, sessions, auditor, nil, time.Hour), users, sessions, auditor
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	ctx := context.Background()

	id, err := uc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	user, err := uc.Login(ctx, "alice", "pw1", "127.0.0.1:1234")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestRegister_NeverStoresPlaintext(t *testing.T) {
	uc, users, _, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	stored := users.users["alice"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "pw1")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	uc, users, _, _ := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = uc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
	assert.Len(t, users.users, 1, "duplicate registration must not create a second row")
}

func TestRegister_RejectsEmptyFields(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	_, err = uc.Register(ctx, "   ", "pw")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	_, err = uc.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	// Wrong password and unknown username fail with the same error.
	_, err = uc.Login(ctx, "alice", "wrong", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, "nobody", "pw1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_AuditsAttempts(t *testing.T) {
	uc, _, _, auditor := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, _ = uc.Login(ctx, "alice", "wrong", "")
	_, err = uc.Login(ctx, "alice", "pw1", "")
	require.NoError(t, err)

	require.Len(t, auditor.records, 2)
	assert.False(t, auditor.records[0].success)
	assert.True(t, auditor.records[1].success)
}

func TestSessionLifecycle(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	user, err := uc.Login(ctx, "alice", "pw1", "")
	require.NoError(t, err)

	session, err := uc.EstablishSession(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, "alice", session.Username)

	resolved, err := uc.ResolveSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, resolved.UserID)

	require.NoError(t, uc.RevokeSession(ctx, session.ID))
	_, err = uc.ResolveSession(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestResolveSession_Expired(t *testing.T) {
	uc, _, sessions, _ := newTestUseCase()
	ctx := context.Background()

	sessions.sessions["stale"] = &domain.Session{
		ID:        "stale",
		UserID:    1,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := uc.ResolveSession(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, sessions.sessions, "expired session state must be deleted")
}

func TestResolveSession_EmptyID(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	_, err := uc.ResolveSession(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
