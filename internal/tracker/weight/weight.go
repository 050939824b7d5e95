package weight

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/2beens/fitfood/internal/featurestore"
	"github.com/2beens/fitfood/pkg"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidWeight = errors.New("weight must be a positive number")
	ErrInvalidTarget = errors.New("target weight must be a positive number")
)

type Entry struct {
	ID     int64   `json:"id"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Change float64 `json:"change"`
}

type Goals struct {
	CurrentWeight   float64 `json:"currentWeight"`
	TargetWeight    float64 `json:"targetWeight"`
	WeeklyGoal      float64 `json:"weeklyGoal"`
	RemainingWeight float64 `json:"remainingWeight"`
	EstimatedWeeks  int     `json:"estimatedWeeks"`
}

func defaultGoals() Goals {
	return Goals{
		CurrentWeight:   75.5,
		TargetWeight:    70.0,
		WeeklyGoal:      -0.5,
		RemainingWeight: 5.5,
		EstimatedWeeks:  11,
	}
}

// recompute refreshes the derived fields after a weight or goal change.
func (g *Goals) recompute() {
	g.RemainingWeight = pkg.Round1(g.TargetWeight - g.CurrentWeight)
	if g.WeeklyGoal == 0 {
		g.EstimatedWeeks = 0
		return
	}
	g.EstimatedWeeks = int(math.Ceil(math.Abs(g.TargetWeight-g.CurrentWeight) / math.Abs(g.WeeklyGoal)))
}

type Overview struct {
	History []Entry `json:"history"`
	Goals   Goals   `json:"goals"`
}

type AddWeightRequest struct {
	Weight float64 `json:"weight"`
}

type GoalsRequest struct {
	TargetWeight float64 `json:"targetWeight"`
	WeeklyGoal   float64 `json:"weeklyGoal"`
}

type Service struct {
	history *featurestore.Document[[]Entry]
	goals   *featurestore.Document[Goals]
	now     func() time.Time
}

func NewService(docs *featurestore.Documents) *Service {
	return &Service{
		history: featurestore.NewDocument(docs, featurestore.FeatureWeightHistory, func() []Entry {
			return []Entry{}
		}),
		goals: featurestore.NewDocument(docs, featurestore.FeatureWeightGoals, defaultGoals),
		now:   time.Now,
	}
}

func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	history, err := s.history.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Overview{History: history, Goals: goals}, nil
}

// AddWeight records a measurement. The change is relative to the last entry, or
// to the current weight of the goals for the first one.
func (s *Service) AddWeight(ctx context.Context, userID string, weight float64) (*Overview, error) {
	if !(weight > 0) || math.IsInf(weight, 0) {
		return nil, ErrInvalidWeight
	}

	history, goals, err := featurestore.UpdatePair(ctx, s.history, s.goals, userID, func(history *[]Entry, goals *Goals) error {
		now := s.now()
		last := goals.CurrentWeight
		taken := make([]int64, 0, len(*history))
		for _, entry := range *history {
			taken = append(taken, entry.ID)
		}
		if len(*history) > 0 {
			last = (*history)[0].Weight
		}

		entry := Entry{
			ID:     featurestore.NextID(now, taken...),
			Date:   now.UTC().Format(dateLayout),
			Weight: weight,
			Change: pkg.Round1(weight - last),
		}
		*history = append([]Entry{entry}, *history...)

		goals.CurrentWeight = weight
		goals.recompute()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Overview{History: history, Goals: goals}, nil
}

func (s *Service) SetGoals(ctx context.Context, userID string, req GoalsRequest) (*Goals, error) {
	if !(req.TargetWeight > 0) || math.IsInf(req.TargetWeight, 0) || math.IsNaN(req.WeeklyGoal) {
		return nil, ErrInvalidTarget
	}

	goals, err := s.goals.Update(ctx, userID, func(goals *Goals) error {
		goals.TargetWeight = req.TargetWeight
		goals.WeeklyGoal = req.WeeklyGoal
		goals.recompute()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &goals, nil
}
