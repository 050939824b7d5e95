package weight

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

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=weight_test

type weightService interface {
	Overview(ctx context.Context, userID string) (*Overview, error)
	AddWeight(ctx context.Context, userID string, kg float64) (*Overview, error)
	SetGoals(ctx context.Context, userID string, req GoalsRequest) (*Goals, error)
}

type Handler struct {
	service weightService
}

func NewHandler(service weightService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weight.overview")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	overview, err := handler.service.Overview(ctx, userID)
	if err != nil {
		log.Errorf("weight overview for [%s]: %s", userID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, overview, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weight.add")
	defer span.End()

	var req AddWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add weight, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]
	overview, err := handler.service.AddWeight(ctx, userID, req.Weight)
	if err != nil {
		handler.writeError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, overview, http.StatusCreated)
}

func (handler *Handler) HandleSetGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weight.setGoals")
	defer span.End()

	var req GoalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set weight goals, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]
	goals, err := handler.service.SetGoals(ctx, userID, req)
	if err != nil {
		handler.writeError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, goals, http.StatusOK)
}

func (handler *Handler) writeError(w http.ResponseWriter, userID string, err error) {
	if errors.Is(err, ErrInvalidWeight) || errors.Is(err, ErrInvalidTarget) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Errorf("weight tracker for [%s]: %s", userID, err)
	http.Error(w, "Server error", http.StatusInternalServerError)
}
