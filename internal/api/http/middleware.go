package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"donation-matching-backend/internal/config"
	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
	"donation-matching-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ctxKey int

const (
	profileKey ctxKey = iota
	actorKey
)

func profileFrom(ctx context.Context) (*domain.Profile, bool) {
	p, ok := ctx.Value(profileKey).(*domain.Profile)
	return p, ok
}

func actorFrom(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey).(domain.Actor)
	return a, ok
}

// AuthMiddleware resolves the bearer token to a profile and, for routes that
// act on behalf of an organization, to an actor.
type AuthMiddleware struct {
	tokenManager security.TokenManager
	profiles     repository.ProfileRepository
}

func NewAuthMiddleware(tm security.TokenManager, profiles repository.ProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm, profiles: profiles}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.GetSecurityLevel(name)

		// Public route - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided", Code: "unauthenticated"})
			return
		}
		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: "unauthenticated"})
			return
		}
		profileID, _ := claims.ProfileID()

		profile, err := m.profiles.GetByID(r.Context(), profileID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unknown profile", Code: "unauthenticated"})
				return
			}
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), profileKey, profile)
		reqLogger := logger.FromContext(ctx).With("profileID", profile.ID)
		if level == config.SecurityAccess {
			actor, err := profile.Actor()
			if err != nil {
				writeError(w, r, err)
				return
			}
			ctx = context.WithValue(ctx, actorKey, actor)
			reqLogger = reqLogger.With("actor", actor.String())
		}
		next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx, reqLogger)))
	})
}

func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	// Remove Bearer prefix if present
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		header = header[7:]
	}
	header = strings.TrimSpace(header)
	return header, header != ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags each request with an id and logs its outcome.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		reqLogger := logger.Get().With("requestID", requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), reqLogger)))

		reqLogger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// Recoverer turns a handler panic into a 500.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(r.Context(), "Handler panicked", "method", r.Method, "path", r.URL.Path, "panic", p)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
