package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitfood/internal/auth"
	"github.com/2beens/fitfood/internal/telemetry/metrics"
	"github.com/2beens/fitfood/internal/telemetry/tracing"
	"github.com/2beens/fitfood/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Create(ctx context.Context, workout Workout) (*Workout, error)
	ListByUser(ctx context.Context, userID string) ([]Workout, error)
}

// userChangeListener is told when a user's document changed, so cached
// profiles can be dropped.
type userChangeListener interface {
	UserChanged(userID string)
}

type Handler struct {
	repo           workoutsRepo
	metricsManager *metrics.Manager
	userListener   userChangeListener
}

func NewHandler(repo workoutsRepo, metricsManager *metrics.Manager, userListener userChangeListener) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
		userListener:   userListener,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req CreateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create workout, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	workout, err := req.ToWorkout()
	if err != nil {
		var validationErr ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if authUserID, ok := auth.UserIDFromContext(ctx); ok && authUserID != workout.UserID {
		log.Warnf("user [%s] tried to log a workout for [%s]", authUserID, workout.UserID)
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	workout.ID = uuid.NewString()
	created, err := handler.repo.Create(ctx, workout)
	if err != nil {
		if errors.Is(err, ErrWorkoutUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to create workout for user [%s]: %s", workout.UserID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if handler.userListener != nil {
		handler.userListener.UserChanged(created.UserID)
	}
	if handler.metricsManager != nil {
		handler.metricsManager.CounterWorkoutsCreated.Inc()
	}

	log.Debugf("new workout [%s] added for user [%s]", created.ID, created.UserID)
	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (handler *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listByUser")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	workouts, err := handler.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Errorf("failed to list workouts for user [%s]: %s", userID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if workouts == nil {
		workouts = []Workout{}
	}

	pkg.WriteJSON(w, workouts, http.StatusOK)
}
