package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fitfood/internal/auth"
	"github.com/2beens/fitfood/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type loginChecker interface {
	IsLogged(ctx context.Context, token string) (string, error)
}

type AuthMiddlewareHandler struct {
	loginChecker loginChecker
	// path -> allowed methods ("" means any method)
	publicPaths map[string]map[string]bool
}

func NewAuthMiddlewareHandler(loginChecker loginChecker) *AuthMiddlewareHandler {
	anyMethod := map[string]bool{"": true}
	return &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		publicPaths: map[string]map[string]bool{
			// misc handler:
			"/":                  {"": true},
			"/version":           anyMethod,
			"/api/insights":      anyMethod,
			"/api/tips/random":   anyMethod,
			"/api/workout-plans": anyMethod,
			// nutrition calculator:
			"/api/nutrition/calculate": anyMethod,
			// signup and login:
			"/api/users":       {http.MethodPost: true},
			"/api/users/login": {http.MethodPost: true},
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsPublic(method, path string) bool {
	methods, ok := h.publicPaths[path]
	if !ok {
		return false
	}
	return methods[""] || methods[method]
}

// bearerToken reads the token from the Authorization header. Websocket clients
// cannot set headers, so the sync endpoint also accepts a token query param.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(authHeader, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	if strings.HasSuffix(r.URL.Path, "/sync") {
		return r.URL.Query().Get("token")
	}
	return ""
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsPublic(r.Method, r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := bearerToken(r)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.loginChecker.IsLogged(ctx, authToken)
			if err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) ||
					errors.Is(err, auth.ErrTokenExpired) ||
					errors.Is(err, auth.ErrInvalidToken) {
					log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				} else {
					log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
					span.RecordError(err)
				}
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
