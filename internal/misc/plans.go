package misc

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
)

//go:embed workout_plans.json
var defaultPlansJSON []byte

type PlanExercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps string `json:"reps"`
}

type PlanDay struct {
	Day       string         `json:"day"`
	Rest      bool           `json:"rest,omitempty"`
	Exercises []PlanExercise `json:"exercises"`
}

type WorkoutPlan struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Workouts    []PlanDay `json:"workouts"`
}

// PlansCatalog is the read-only list of workout plans. The encoded list is
// kept as served.
type PlansCatalog struct {
	Plans   []WorkoutPlan
	encoded []byte
}

// NewDefaultPlansCatalog loads the plans bundled with the binary.
func NewDefaultPlansCatalog() (*PlansCatalog, error) {
	return NewPlansCatalog(defaultPlansJSON)
}

func NewPlansCatalog(plansJSON []byte) (*PlansCatalog, error) {
	var plans []WorkoutPlan
	if err := json.Unmarshal(plansJSON, &plans); err != nil {
		return nil, fmt.Errorf("decode workout plans: %w", err)
	}
	if len(plans) == 0 {
		return nil, errors.New("no workout plans")
	}

	ids := make(map[string]bool, len(plans))
	for _, plan := range plans {
		if plan.ID == "" || plan.Title == "" {
			return nil, fmt.Errorf("workout plan [%s] misses id or title", plan.ID)
		}
		if ids[plan.ID] {
			return nil, fmt.Errorf("duplicate workout plan id [%s]", plan.ID)
		}
		ids[plan.ID] = true
		for _, day := range plan.Workouts {
			if !day.Rest && len(day.Exercises) == 0 {
				return nil, fmt.Errorf("workout plan [%s], %s has no exercises", plan.ID, day.Day)
			}
		}
	}

	encoded, err := json.Marshal(plans)
	if err != nil {
		return nil, fmt.Errorf("encode workout plans: %w", err)
	}

	return &PlansCatalog{
		Plans:   plans,
		encoded: encoded,
	}, nil
}
