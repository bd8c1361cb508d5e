package handler

import (
	"errors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdesk/backend/api/view"
	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/internal/config"
	"github.com/taskdesk/backend/pkg/httpcontext"
	authUC "github.com/taskdesk/backend/usecase/auth"
)

// Literal bodies the web surface promises on auth failures.
const (
	msgInvalidCredentials = "Invalid username or password."
	msgDuplicateUsername  = "Username already exists!"
)

// WebAuthHandler serves the HTML login/register/logout surface.
type WebAuthHandler struct {
	baseHandler
	uc     *authUC.UseCase
	view   *view.Renderer
	cookie config.SessionConfig
}

func NewWebAuthHandler(uc *authUC.UseCase, renderer *view.Renderer, cookie config.SessionConfig, adapter *httpcontext.Adapter, logger *zap.Logger) *WebAuthHandler {
	return &WebAuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		view:        renderer,
		cookie:      cookie,
	}
}

// LoginPage renders the login form.
func (h *WebAuthHandler) LoginPage(ctx *fasthttp.RequestCtx) {
	h.renderLogin(ctx, "")
}

// Login verifies submitted credentials and establishes a session. Failures
// re-render the form with the literal error body; the response stays 200 so
// nothing about the failure mode leaks through the status code.
func (h *WebAuthHandler) Login(ctx *fasthttp.RequestCtx) {
	username := string(ctx.PostArgs().Peek("username"))
	password := string(ctx.PostArgs().Peek("password"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Login(stdCtx, username, password, remoteAddr(ctx))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrInvalidPayload) {
			h.renderLogin(ctx, msgInvalidCredentials)
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		h.renderLogin(ctx, msgInvalidCredentials)
		return
	}

	session, err := h.uc.EstablishSession(stdCtx, user)
	if err != nil {
		h.logger.Error("failed to establish session", zap.Error(err))
		h.renderLogin(ctx, msgInvalidCredentials)
		return
	}

	h.setSessionCookie(ctx, session)
	ctx.Redirect("/home", fasthttp.StatusFound)
}

// RegisterPage renders the registration form.
func (h *WebAuthHandler) RegisterPage(ctx *fasthttp.RequestCtx) {
	h.renderRegister(ctx, "")
}

// Register creates the account and sends the user to the login page.
func (h *WebAuthHandler) Register(ctx *fasthttp.RequestCtx) {
	username := string(ctx.PostArgs().Peek("username"))
	password := string(ctx.PostArgs().Peek("password"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Register(stdCtx, username, password); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			h.renderRegister(ctx, msgDuplicateUsername)
			return
		}
		if errors.Is(err, domain.ErrInvalidPayload) {
			h.renderRegister(ctx, "Username and password are required.")
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		h.renderRegister(ctx, "Registration failed, please try again.")
		return
	}

	ctx.Redirect("/login", fasthttp.StatusFound)
}

// Logout revokes the session server-side and expires the cookie.
func (h *WebAuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	sessionID := string(ctx.Request.Header.Cookie(h.cookie.CookieName))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RevokeSession(stdCtx, sessionID); err != nil {
		h.logger.Warn("failed to revoke session", zap.Error(err))
	}

	h.clearSessionCookie(ctx)
	ctx.Redirect("/login", fasthttp.StatusFound)
}

func (h *WebAuthHandler) renderLogin(ctx *fasthttp.RequestCtx, message string) {
	if err := h.view.Render(ctx, "login.html", view.LoginPage{Error: message}); err != nil {
		h.logger.Error("failed to render login page", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}

func (h *WebAuthHandler) renderRegister(ctx *fasthttp.RequestCtx, message string) {
	if err := h.view.Render(ctx, "register.html", view.RegisterPage{Error: message}); err != nil {
		h.logger.Error("failed to render register page", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}

func (h *WebAuthHandler) setSessionCookie(ctx *fasthttp.RequestCtx, session *domain.Session) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(h.cookie.CookieName)
	cookie.SetValue(session.ID)
	cookie.SetPath("/")
	cookie.SetExpire(session.ExpiresAt)
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(h.cookie.Secure)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	ctx.Response.Header.SetCookie(cookie)
}

func (h *WebAuthHandler) clearSessionCookie(ctx *fasthttp.RequestCtx) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(h.cookie.CookieName)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	cookie.SetHTTPOnly(true)
	ctx.Response.Header.SetCookie(cookie)
}

func remoteAddr(ctx *fasthttp.RequestCtx) string {
	if addr := ctx.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
