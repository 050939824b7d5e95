package workouts

import (
	"errors"
	"time"
)

var ErrWorkoutUserNotFound = errors.New("workout owner not found")

type Exercise struct {
	Name     string `json:"name"`
	Reps     int    `json:"reps"`
	Sets     int    `json:"sets"`
	Duration int    `json:"duration"`
}

type Workout struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Date      string     `json:"date"`
	Exercises []Exercise `json:"exercises"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
