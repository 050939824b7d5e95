package running

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitfood/internal/telemetry/tracing"
	"github.com/2beens/fitfood/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=running_test

type runningService interface {
	Overview(ctx context.Context, userID string) (*Overview, error)
	RecordRun(ctx context.Context, userID string, req RecordRequest) (*Overview, error)
	Start(userID string) (LiveRun, error)
	Current(userID string) (LiveRun, error)
	Stop(ctx context.Context, userID string) (*Overview, error)
}

type Handler struct {
	service runningService
}

func NewHandler(service runningService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.running.overview")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	overview, err := handler.service.Overview(ctx, userID)
	if err != nil {
		log.Errorf("running overview for [%s]: %s", userID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, overview, http.StatusOK)
}

func (handler *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.running.record")
	defer span.End()

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("record run, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]
	overview, err := handler.service.RecordRun(ctx, userID, req)
	if err != nil {
		handler.writeError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, overview, http.StatusCreated)
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.running.start")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	liveRun, err := handler.service.Start(userID)
	if err != nil {
		handler.writeError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, liveRun, http.StatusCreated)
}

func (handler *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	liveRun, err := handler.service.Current(userID)
	if err != nil {
		handler.writeError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, liveRun, http.StatusOK)
}

func (handler *Handler) HandleStop(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.running.stop")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	overview, err := handler.service.Stop(ctx, userID)
	if err != nil {
		handler.writeError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, overview, http.StatusOK)
}

func (handler *Handler) writeError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, ErrInvalidRun):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrRunInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNoActiveRun):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrShuttingDown):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Errorf("running tracker for [%s]: %s", userID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
