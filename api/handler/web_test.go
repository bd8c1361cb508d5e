package handler

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/taskdesk/backend/api/view"
	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/internal/config"
	authUC "github.com/taskdesk/backend/usecase/auth"
	taskUC "github.com/taskdesk/backend/usecase/task"
)

type memUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func (m *memUserRepo) Create(_ context.Context, username, passwordHash string) (int64, error) {
	if _, ok := m.users[username]; ok {
		return 0, domain.ErrDuplicateUsername
	}
	m.nextID++
	m.users[username] = &domain.User{ID: m.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return m.nextID, nil
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memSessionRepo struct {
	sessions map[string]*domain.Session
}

func (m *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *memSessionRepo) Save(_ context.Context, session *domain.Session) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *memSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type memTaskRepo struct {
	tasks  []domain.Task
	nextID int64
}

func (m *memTaskRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range m.tasks {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTaskRepo) Create(_ context.Context, task *domain.Task) (int64, error) {
	m.nextID++
	task.ID = m.nextID
	m.tasks = append(m.tasks, *task)
	return task.ID, nil
}

func (m *memTaskRepo) DeleteOwned(_ context.Context, ownerID, taskID int64) (bool, error) {
	for i, t := range m.tasks {
		if t.ID == taskID && t.UserID == ownerID {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memTaskRepo) ClearOwned(_ context.Context, ownerID int64) (int64, error) {
	var kept []domain.Task
	var removed int64
	for _, t := range m.tasks {
		if t.UserID == ownerID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	m.tasks = kept
	return removed, nil
}

type webFixture struct {
	auth     *WebAuthHandler
	tasks    *WebTaskHandler
	sessions *memSessionRepo
	taskRepo *memTaskRepo
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()

	users := &memUserRepo{users: map[string]*domain.User{}}
	sessions := &memSessionRepo{sessions: map[string]*domain.Session{}}
	taskRepo := &memTaskRepo{}

	authUseCase := authUC.New(users, sessions, nil, nil, time.Hour)
	taskUseCase := taskUC.New(taskRepo, nil)
	renderer := view.MustNew()
	cookieCfg := config.SessionConfig{CookieName: "session_id", TTL: time.Hour}

	return &webFixture{
		auth:     NewWebAuthHandler(authUseCase, renderer, cookieCfg, nil, nil),
		tasks:    NewWebTaskHandler(taskUseCase, renderer, nil, nil),
		sessions: sessions,
		taskRepo: taskRepo,
	}
}

func formRequest(path string, form url.Values) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("http://example.test" + path)
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	ctx.Request.SetBodyString(form.Encode())
	return ctx
}

func getRequest(path string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("http://example.test" + path)
	return ctx
}

func asUser(ctx *fasthttp.RequestCtx, userID int64, username string) *fasthttp.RequestCtx {
	ctx.Request.Header.Set("X-User-ID", strconv.FormatInt(userID, 10))
	ctx.Request.Header.Set("X-Username", username)
	return ctx
}

func TestWebLogin_UnknownUserLiteralBody(t *testing.T) {
	f := newWebFixture(t)

	ctx := formRequest("/login", url.Values{"username": {"ghost"}, "password": {"pw"}})
	f.auth.Login(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "Invalid username or password.")
	assert.Empty(t, f.sessions.sessions, "no identity may be established")
}

func TestWebLogin_WrongPasswordLiteralBody(t *testing.T) {
	f := newWebFixture(t)
	registerUser(t, f, "alice", "pw1")

	ctx := formRequest("/login", url.Values{"username": {"alice"}, "password": {"nope"}})
	f.auth.Login(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "Invalid username or password.")
}

func TestWebRegister_DuplicateLiteralBody(t *testing.T) {
	f := newWebFixture(t)
	registerUser(t, f, "alice", "pw1")

	ctx := formRequest("/register", url.Values{"username": {"alice"}, "password": {"pw2"}})
	f.auth.Register(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "Username already exists!")
}

func TestWebRegister_RedirectsToLogin(t *testing.T) {
	f := newWebFixture(t)

	ctx := formRequest("/register", url.Values{"username": {"alice"}, "password": {"pw1"}})
	f.auth.Register(ctx)

	assert.Equal(t, fasthttp.StatusFound, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.Peek("Location")), "/login")
}

func TestWebLogin_EstablishesSessionAndRedirects(t *testing.T) {
	f := newWebFixture(t)
	registerUser(t, f, "alice", "pw1")

	ctx := formRequest("/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	f.auth.Login(ctx)

	assert.Equal(t, fasthttp.StatusFound, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.Peek("Location")), "/home")

	setCookie := string(ctx.Response.Header.Peek("Set-Cookie"))
	assert.Contains(t, setCookie, "session_id=")
	assert.Contains(t, setCookie, "HttpOnly")
	require.Len(t, f.sessions.sessions, 1)
}

func TestWebTaskFlow(t *testing.T) {
	f := newWebFixture(t)
	registerUser(t, f, "alice", "pw1")

	// Add a task.
	add := asUser(formRequest("/home", url.Values{"task": {"Write report"}, "date": {"2025-05-01"}}), 1, "alice")
	f.tasks.Add(add)
	assert.Equal(t, fasthttp.StatusFound, add.Response.StatusCode())

	// The list shows exactly that task, with the display date format.
	home := asUser(getRequest("/home"), 1, "alice")
	f.tasks.Home(home)
	body := string(home.Response.Body())
	assert.Contains(t, body, "Write report")
	assert.Contains(t, body, "05/01/2025")

	// Delete it by id and the list is empty again.
	del := asUser(formRequest(fmt.Sprintf("/delete_task/%d", f.taskRepo.tasks[0].ID), nil), 1, "alice")
	del.SetUserValue("task_id", strconv.FormatInt(f.taskRepo.tasks[0].ID, 10))
	f.tasks.Delete(del)
	assert.Equal(t, fasthttp.StatusFound, del.Response.StatusCode())

	home = asUser(getRequest("/home"), 1, "alice")
	f.tasks.Home(home)
	assert.NotContains(t, string(home.Response.Body()), "Write report")
}

func TestWebAdd_EmptyTaskRedirectsWithNotice(t *testing.T) {
	f := newWebFixture(t)
	registerUser(t, f, "alice", "pw1")

	ctx := asUser(formRequest("/home", url.Values{"task": {"   "}}), 1, "alice")
	f.tasks.Add(ctx)

	assert.Equal(t, fasthttp.StatusFound, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.Peek("Location")), "notice=empty")
	assert.Empty(t, f.taskRepo.tasks)
}

func TestWebDelete_ForeignTaskIsSilentNoOp(t *testing.T) {
	f := newWebFixture(t)
	registerUser(t, f, "alice", "pw1")
	registerUser(t, f, "bob", "pw2")

	add := asUser(formRequest("/home", url.Values{"task": {"Alice's task"}}), 1, "alice")
	f.tasks.Add(add)
	require.Len(t, f.taskRepo.tasks, 1)

	// Bob attempts to delete Alice's task by guessed id.
	del := asUser(formRequest("/delete_task/1", nil), 2, "bob")
	del.SetUserValue("task_id", "1")
	f.tasks.Delete(del)

	// Same redirect as a successful delete, and the task survives.
	assert.Equal(t, fasthttp.StatusFound, del.Response.StatusCode())
	assert.Contains(t, string(del.Response.Header.Peek("Location")), "/home")
	assert.Len(t, f.taskRepo.tasks, 1)
}

func TestWebClear_OnlyCallerTasks(t *testing.T) {
	f := newWebFixture(t)
	registerUser(t, f, "alice", "pw1")
	registerUser(t, f, "bob", "pw2")

	for i := 0; i < 2; i++ {
		f.tasks.Add(asUser(formRequest("/home", url.Values{"task": {"alice task"}}), 1, "alice"))
	}
	f.tasks.Add(asUser(formRequest("/home", url.Values{"task": {"bob task"}}), 2, "bob"))

	clear := asUser(formRequest("/clear", nil), 1, "alice")
	f.tasks.Clear(clear)

	assert.Equal(t, fasthttp.StatusFound, clear.Response.StatusCode())
	require.Len(t, f.taskRepo.tasks, 1)
	assert.Equal(t, int64(2), f.taskRepo.tasks[0].UserID)
}

func TestWebLogout_RevokesSession(t *testing.T) {
	f := newWebFixture(t)
	registerUser(t, f, "alice", "pw1")

	login := formRequest("/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	f.auth.Login(login)
	require.Len(t, f.sessions.sessions, 1)

	var sessionID string
	for id := range f.sessions.sessions {
		sessionID = id
	}

	logout := getRequest("/logout")
	logout.Request.Header.SetCookie("session_id", sessionID)
	f.auth.Logout(logout)

	assert.Equal(t, fasthttp.StatusFound, logout.Response.StatusCode())
	assert.Contains(t, string(logout.Response.Header.Peek("Location")), "/login")
	assert.Empty(t, f.sessions.sessions, "server-side session state must be gone")
}

func registerUser(t *testing.T, f *webFixture, username, password string) {
	t.Helper()
	ctx := formRequest("/register", url.Values{"username": {username}, "password": {password}})
	f.auth.Register(ctx)
	require.Equal(t, fasthttp.StatusFound, ctx.Response.StatusCode())
}
