package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitfood/internal/auth"
	"github.com/2beens/fitfood/internal/telemetry/metrics"
	"github.com/2beens/fitfood/internal/telemetry/tracing"
	"github.com/2beens/fitfood/pkg"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=nutrition_mocks_test.go -package=nutrition_test

var ErrProfileNotFound = errors.New("profile not found")

type mealsRepo interface {
	Create(ctx context.Context, meal Meal) (*Meal, error)
	ListByUser(ctx context.Context, userID string) ([]Meal, error)
}

type profileSource interface {
	BodyProfile(ctx context.Context, userID string) (Profile, error)
}

type userChangeListener interface {
	UserChanged(userID string)
}

type CalculateRequest struct {
	Profile
	Foods []FoodItem `json:"foods"`
}

type CalculateResponse struct {
	BMI               *float64           `json:"bmi,omitempty"`
	BMICategory       string             `json:"bmiCategory,omitempty"`
	DailyCalories     *int               `json:"dailyCalories,omitempty"`
	Totals            Totals             `json:"totals"`
	MacroDistribution *MacroDistribution `json:"macroDistribution,omitempty"`
}

type Handler struct {
	meals          mealsRepo
	profiles       profileSource
	userListener   userChangeListener
	metricsManager *metrics.Manager
	validate       *validator.Validate
}

func NewHandler(
	meals mealsRepo,
	profiles profileSource,
	userListener userChangeListener,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		meals:          meals,
		profiles:       profiles,
		userListener:   userListener,
		metricsManager: metricsManager,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

func Calculate(req CalculateRequest) CalculateResponse {
	var resp CalculateResponse
	if bmi, err := BMI(req.Weight, req.Height); err == nil {
		resp.BMI = &bmi
		resp.BMICategory = BMICategory(bmi)
	}
	if calories, err := DailyCalories(req.Profile); err == nil {
		resp.DailyCalories = &calories
	}
	resp.Totals = CalculateTotals(req.Foods)
	resp.MacroDistribution = resp.Totals.Distribution()
	return resp
}

func (handler *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.calculate")
	defer span.End()

	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("nutrition calculate, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, Calculate(req), http.StatusOK)
}

func (handler *Handler) HandleCreateMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.create")
	defer span.End()

	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create meal, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := handler.validate.Struct(req); err != nil {
		http.Error(w, "invalid meal: "+err.Error(), http.StatusBadRequest)
		return
	}

	if authUserID, ok := auth.UserIDFromContext(ctx); ok && authUserID != req.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	created, err := handler.meals.Create(ctx, req.ToMeal())
	if err != nil {
		if errors.Is(err, ErrMealUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to create meal for user [%s]: %s", req.UserID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if handler.userListener != nil {
		handler.userListener.UserChanged(created.UserID)
	}
	if handler.metricsManager != nil {
		handler.metricsManager.CounterMealsCreated.Inc()
	}

	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (handler *Handler) HandleListMeals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	meals, err := handler.meals.ListByUser(ctx, userID)
	if err != nil {
		log.Errorf("failed to list meals for user [%s]: %s", userID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if meals == nil {
		meals = []Meal{}
	}

	pkg.WriteJSON(w, meals, http.StatusOK)
}

// HandleSummary serves the nutrition dashboard: body metrics from the profile and
// macro/calorie aggregates over the user's meals (?mealType= filters).
func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.summary")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	profile, err := handler.profiles.BodyProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get profile of user [%s]: %s", userID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	meals, err := handler.meals.ListByUser(ctx, userID)
	if err != nil {
		log.Errorf("failed to list meals for user [%s]: %s", userID, err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, Summarize(profile, meals, r.URL.Query().Get("mealType")), http.StatusOK)
}
