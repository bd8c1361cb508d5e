package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdesk/backend/api/transport"
	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/internal/config"
	"github.com/taskdesk/backend/pkg/httpcontext"
	authUC "github.com/taskdesk/backend/usecase/auth"
)

// AuthHandler serves the JSON API auth endpoints. Unlike the web surface it
// issues stateless HS256 bearer tokens instead of a session cookie.
type AuthHandler struct {
	baseHandler
	uc  *authUC.UseCase
	jwt config.JWTConfig
}

func NewAuthHandler(uc *authUC.UseCase, jwtCfg config.JWTConfig, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	if jwtCfg.TTL <= 0 {
		jwtCfg.TTL = time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		jwt:         jwtCfg,
	}
}

// @Summary Issue a bearer token
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseCredentials(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Login(stdCtx, req.Username, req.Password, remoteAddr(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInternal, "sign token", err))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.TokenResponse{Token: token})
}

// @Summary Create an account
// @Tags auth
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseCredentials(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.uc.Register(stdCtx, req.Username, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.CreatedResponse{ID: id})
}

func (h *AuthHandler) parseCredentials(ctx *fasthttp.RequestCtx) (transport.CredentialsRequest, bool) {
	var req transport.CredentialsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Username == "" || req.Password == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return req, false
	}
	return req, true
}

func (h *AuthHandler) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"iss":      h.jwt.Issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(h.jwt.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwt.Secret))
}
