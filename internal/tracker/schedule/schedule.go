package schedule

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitfood/internal/featurestore"
)

const dateLayout = "2006-01-02"

var (
	ErrMissingFields   = errors.New("please fill in all fields")
	ErrWorkoutNotFound = errors.New("scheduled workout not found")
)

type ScheduledWorkout struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Duration  string `json:"duration"`
	Completed bool   `json:"completed"`
}

type AddRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
}

// Agenda splits the schedule around a day. Past entries are not listed.
type Agenda struct {
	Today    []ScheduledWorkout `json:"today"`
	Upcoming []ScheduledWorkout `json:"upcoming"`
}

// Split returns the entries of the given day and the ones after it, in
// date and time order. Dates compare as yyyy-mm-dd strings.
func Split(workouts []ScheduledWorkout, today string) Agenda {
	agenda := Agenda{
		Today:    []ScheduledWorkout{},
		Upcoming: []ScheduledWorkout{},
	}
	for _, w := range workouts {
		switch {
		case w.Date == today:
			agenda.Today = append(agenda.Today, w)
		case w.Date > today:
			agenda.Upcoming = append(agenda.Upcoming, w)
		}
	}
	sortWorkouts(agenda.Today)
	sortWorkouts(agenda.Upcoming)
	return agenda
}

func sortWorkouts(workouts []ScheduledWorkout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		if workouts[i].Date != workouts[j].Date {
			return workouts[i].Date < workouts[j].Date
		}
		return workouts[i].Time < workouts[j].Time
	})
}

type Service struct {
	workouts *featurestore.Document[[]ScheduledWorkout]
	now      func() time.Time
}

func NewService(docs *featurestore.Documents) *Service {
	return &Service{
		workouts: featurestore.NewDocument(docs, featurestore.FeatureScheduledWorkouts, func() []ScheduledWorkout {
			return []ScheduledWorkout{}
		}),
		now: time.Now,
	}
}

func (s *Service) today() string {
	return s.now().UTC().Format(dateLayout)
}

func (s *Service) List(ctx context.Context, userID string) (*Agenda, error) {
	workouts, err := s.workouts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	agenda := Split(workouts, s.today())
	return &agenda, nil
}

func (s *Service) Add(ctx context.Context, userID string, req AddRequest) (*ScheduledWorkout, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Duration = strings.TrimSpace(req.Duration)
	if req.Title == "" || req.Date == "" || req.Time == "" || req.Duration == "" {
		return nil, ErrMissingFields
	}

	var added ScheduledWorkout
	if _, err := s.workouts.Update(ctx, userID, func(workouts *[]ScheduledWorkout) error {
		taken := make([]int64, 0, len(*workouts))
		for _, w := range *workouts {
			taken = append(taken, w.ID)
		}
		added = ScheduledWorkout{
			ID:       featurestore.NextID(s.now(), taken...),
			Title:    req.Title,
			Date:     req.Date,
			Time:     req.Time,
			Duration: req.Duration,
		}
		*workouts = append(*workouts, added)
		return nil
	}); err != nil {
		return nil, err
	}

	return &added, nil
}

func (s *Service) ToggleComplete(ctx context.Context, userID string, id int64) (*ScheduledWorkout, error) {
	var toggled ScheduledWorkout
	if _, err := s.workouts.Update(ctx, userID, func(workouts *[]ScheduledWorkout) error {
		for i := range *workouts {
			if (*workouts)[i].ID == id {
				(*workouts)[i].Completed = !(*workouts)[i].Completed
				toggled = (*workouts)[i]
				return nil
			}
		}
		return ErrWorkoutNotFound
	}); err != nil {
		return nil, err
	}

	return &toggled, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	_, err := s.workouts.Update(ctx, userID, func(workouts *[]ScheduledWorkout) error {
		for i, w := range *workouts {
			if w.ID == id {
				*workouts = append((*workouts)[:i], (*workouts)[i+1:]...)
				return nil
			}
		}
		return ErrWorkoutNotFound
	})
	return err
}
