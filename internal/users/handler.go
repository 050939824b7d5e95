package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fitfood/internal/telemetry/metrics"
	"github.com/2beens/fitfood/internal/telemetry/tracing"
	"github.com/2beens/fitfood/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=users_test

type usersService interface {
	CreateUser(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	UpdateUserProfile(ctx context.Context, id string, patch ProfilePatch) (*User, error)
	SaveAISuggestion(ctx context.Context, id, question, answer string) (*User, error)
}

type Handler struct {
	service        usersService
	metricsManager *metrics.Manager
}

func NewHandler(service usersService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.signup")
	defer span.End()

	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("signup, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := handler.service.CreateUser(ctx, req)
	if err != nil {
		handler.writeServiceError(w, "signup", err)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterUsersCreated.Inc()
	}

	log.Printf("new user [%s] signed up", resp.User.ID)
	pkg.WriteJSON(w, resp, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.login")
	defer span.End()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := handler.service.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		handler.countLogin("fail")
		handler.writeServiceError(w, "login", err)
		return
	}

	handler.countLogin("ok")
	log.Debugf("user [%s] logged in", resp.UserID)
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (handler *Handler) countLogin(result string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.WithLabelValues(result).Inc()
	}
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.logout")
	defer span.End()

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.service.Logout(ctx, token); err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "logged out")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get")
	defer span.End()

	user, err := handler.service.GetUserByID(ctx, mux.Vars(r)["userId"])
	if err != nil {
		handler.writeServiceError(w, "get user", err)
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.update")
	defer span.End()

	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var patch ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Tracef("update user, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := handler.service.UpdateUserProfile(ctx, mux.Vars(r)["userId"], patch)
	if err != nil {
		handler.writeServiceError(w, "update user", err)
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}

func (handler *Handler) HandleAddAISuggestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.addAISuggestion")
	defer span.End()

	var req AISuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add ai suggestion, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := handler.service.SaveAISuggestion(ctx, mux.Vars(r)["userId"], req.Question, req.Answer)
	if err != nil {
		handler.writeServiceError(w, "add ai suggestion", err)
		return
	}

	pkg.WriteJSON(w, user, http.StatusCreated)
}

func (handler *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrQuestionRequired), errors.Is(err, ErrAnswerRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, ErrEmailTaken):
		http.Error(w, "Email already registered", http.StatusConflict)
	case errors.Is(err, ErrAssistantUnavailable):
		log.Errorf("%s: %s", op, err)
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
	case errors.Is(err, ErrFetchUser):
		log.Errorf("%s: %s", op, err)
		http.Error(w, ErrFetchUser.Error(), http.StatusInternalServerError)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
