package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"pamigay-backend/internal/config"
	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/security"
)

type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler authenticates the caller and enforces the security level of the
// matched route.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return MakeHandler(func(w http.ResponseWriter, r *http.Request) error {
		level := config.SecurityAccess
		if route := mux.CurrentRoute(r); route != nil {
			level = config.GetSecurityLevel(route.GetName())
		}

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return nil
		}

		token, err := extractToken(r)
		if err != nil {
			return err
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			return errUnauthenticated("invalid token", err)
		}

		if err := checkSecurityLevel(level, claims); err != nil {
			return err
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		return nil
	})
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get(headerAuthorization)
	if header == "" {
		return "", errUnauthenticated("authorization token is not provided", nil)
	}
	// Remove Bearer prefix if present
	if len(header) > 7 && strings.ToUpper(header[0:7]) == "BEARER " {
		header = header[7:]
	}
	return header, nil
}

func checkSecurityLevel(level config.SecurityLevel, claims *security.UserClaims) error {
	var want domain.UserRole
	switch level {
	case config.SecurityRestaurant:
		want = domain.UserRoleRestaurant
	case config.SecurityOrganization:
		want = domain.UserRoleOrganization
	case config.SecurityAdmin:
		want = domain.UserRoleAdmin
	default:
		return nil
	}
	if claims.Role != want {
		return &HTTPError{Code: http.StatusForbidden, Message: strings.ToLower(string(want)) + " role required"}
	}
	return nil
}

// RequestLogger logs every request through the application logger.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}
