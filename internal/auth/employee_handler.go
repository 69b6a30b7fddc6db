package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	errs "github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/transport"
	"github.com/averoza/stockroom/pkg/logger"
)

// EmployeeHandler exposes the self-service portal: register, login, logout
// and the current-session probe. The session token travels in a cookie with
// an Authorization bearer fallback for non-browser clients.
type EmployeeHandler struct {
	*transport.BaseHandler
	Service    *EmployeeService
	SessionTTL time.Duration
}

func NewEmployeeHandler(svc *EmployeeService, sessionTTL time.Duration) *EmployeeHandler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &EmployeeHandler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		SessionTTL:  sessionTTL,
	}
}

func (h *EmployeeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Register(dto)
	if err != nil {
		switch err {
		case ErrDuplicateEmail:
			h.WriteError(w, http.StatusBadRequest, "email already registered")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *EmployeeHandler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, u, err := h.Service.Login(dto)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	http.SetCookie(w, h.sessionCookie(token, h.SessionTTL))
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

func (h *EmployeeHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -time.Hour))
	w.WriteHeader(http.StatusNoContent)
}

func (h *EmployeeHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "missing session")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":        u,
		"permissions": RolePermissions(u.Role),
	})
}

// EmployeeGuard authenticates the portal session. An absent or invalid token
// is 401; a valid token whose user no longer has the EMPLOYEE role is 403 and
// the stale cookie is cleared.
func (h *EmployeeHandler) EmployeeGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing session")
			return
		}

		u, err := h.Service.ResolveSession(token)
		if err != nil {
			http.SetCookie(w, h.sessionCookie("", -time.Hour))
			if err == ErrTokenExpired {
				h.WriteError(w, http.StatusUnauthorized, "session expired")
				return
			}
			h.WriteError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		if !u.IsEmployee() {
			http.SetCookie(w, h.sessionCookie("", -time.Hour))
			h.WriteError(w, http.StatusForbidden, "employee access only")
			return
		}

		ctx := ContextWithUser(r.Context(), u)
		ctx = errs.ContextWithUserID(ctx, u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *EmployeeHandler) sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return h.ExtractTokenFromHeader(r)
}

func (h *EmployeeHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
