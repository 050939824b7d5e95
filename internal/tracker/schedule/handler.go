package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitfood/internal/telemetry/tracing"
	"github.com/2beens/fitfood/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=schedule_test

type scheduleService interface {
	List(ctx context.Context, userID string) (*Agenda, error)
	Add(ctx context.Context, userID string, req AddRequest) (*ScheduledWorkout, error)
	ToggleComplete(ctx context.Context, userID string, id int64) (*ScheduledWorkout, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type Handler struct {
	service scheduleService
}

func NewHandler(service scheduleService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	agenda, err := handler.service.List(ctx, userID)
	if err != nil {
		handler.writeError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, agenda, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.add")
	defer span.End()

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("schedule workout, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]
	added, err := handler.service.Add(ctx, userID, req)
	if err != nil {
		handler.writeError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleToggleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.toggleComplete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	toggled, err := handler.service.ToggleComplete(ctx, vars["userId"], id)
	if err != nil {
		handler.writeError(w, vars["userId"], err)
		return
	}

	pkg.WriteJSON(w, toggled, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(ctx, vars["userId"], id); err != nil {
		handler.writeError(w, vars["userId"], err)
		return
	}

	pkg.WriteTextResponseOK(w, "deleted")
}

func (handler *Handler) writeError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrWorkoutNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("workout schedule for [%s]: %s", userID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
