package middleware

import (
	"context"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdesk/backend/domain"
)

// SessionResolver maps an opaque session id back to an identity.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (*domain.Session, error)
}

// SessionAuth guards web routes. Requests without a resolvable session are
// redirected to the login page; anonymous access is a redirect, not an
// error. The resolved identity travels to handlers in request headers.
func SessionAuth(resolver SessionResolver, cookieName string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			sessionID := string(ctx.Request.Header.Cookie(cookieName))
			if sessionID == "" {
				ctx.Redirect("/login", fasthttp.StatusFound)
				return
			}

			session, err := resolver.ResolveSession(ctx, sessionID)
			if err != nil {
				if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
					logger.Warn("session resolution failed", zap.Error(err))
				}
				ctx.Redirect("/login", fasthttp.StatusFound)
				return
			}

			ctx.Request.Header.Set("X-User-ID", strconv.FormatInt(session.UserID, 10))
			ctx.Request.Header.Set("X-Username", session.Username)
			next(ctx)
		}
	}
}
