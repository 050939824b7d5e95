package users

import (
	"strings"
	"time"

	"github.com/2beens/fitfood/internal/nutrition"
	"github.com/2beens/fitfood/internal/workouts"
)

type AISuggestion struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

type User struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	PasswordHash    string  `json:"-"`
	Name            string  `json:"name"`
	Age             int     `json:"age"`
	Weight          float64 `json:"weight"`
	Height          float64 `json:"height"`
	Gender          string  `json:"gender"`
	FitnessLevel    string  `json:"fitnessLevel"`
	HealthCondition string  `json:"healthCondition"`
	Goal            string  `json:"goal"`

	// references, resolved into Meals and Workouts when the profile is served
	MealIDs    []string `json:"-"`
	WorkoutIDs []string `json:"-"`

	Meals         []nutrition.Meal   `json:"meals"`
	Workouts      []workouts.Workout `json:"workouts"`
	AISuggestions []AISuggestion     `json:"aiSuggestions"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func (u *User) BodyProfile() nutrition.Profile {
	return nutrition.Profile{
		Weight: u.Weight,
		Height: u.Height,
		Age:    u.Age,
		Gender: u.Gender,
	}
}

// ensureLists keeps empty collections serialized as [] instead of null.
func (u *User) ensureLists() {
	if u.Meals == nil {
		u.Meals = []nutrition.Meal{}
	}
	if u.Workouts == nil {
		u.Workouts = []workouts.Workout{}
	}
	if u.AISuggestions == nil {
		u.AISuggestions = []AISuggestion{}
	}
}

type SignupRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,max=72"`
	Name            string  `json:"name" validate:"max=200"`
	Age             int     `json:"age" validate:"gte=0,lte=150"`
	Weight          float64 `json:"weight" validate:"gte=0,lte=1000"`
	Height          float64 `json:"height" validate:"gte=0,lte=300"`
	Gender          string  `json:"gender" validate:"max=50"`
	FitnessLevel    string  `json:"fitnessLevel" validate:"max=100"`
	HealthCondition string  `json:"healthCondition" validate:"max=500"`
	Goal            string  `json:"goal" validate:"max=500"`
}

// ProfilePatch holds the fields to overwrite. Zero values leave the stored field as is.
type ProfilePatch struct {
	Name            string  `json:"name" validate:"max=200"`
	Age             int     `json:"age" validate:"gte=0,lte=150"`
	Weight          float64 `json:"weight" validate:"gte=0,lte=1000"`
	Height          float64 `json:"height" validate:"gte=0,lte=300"`
	Gender          string  `json:"gender" validate:"max=50"`
	FitnessLevel    string  `json:"fitnessLevel" validate:"max=100"`
	HealthCondition string  `json:"healthCondition" validate:"max=500"`
	Goal            string  `json:"goal" validate:"max=500"`
	Email           string  `json:"email" validate:"omitempty,email"`
	Password        string  `json:"password" validate:"max=72"`
}

// apply overwrites the user's fields with the non-zero patch values.
// The password is handled by the caller, as it needs hashing.
func (p ProfilePatch) apply(u *User) {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Age != 0 {
		u.Age = p.Age
	}
	if p.Weight != 0 {
		u.Weight = p.Weight
	}
	if p.Height != 0 {
		u.Height = p.Height
	}
	if p.Gender != "" {
		u.Gender = p.Gender
	}
	if p.FitnessLevel != "" {
		u.FitnessLevel = p.FitnessLevel
	}
	if p.HealthCondition != "" {
		u.HealthCondition = p.HealthCondition
	}
	if p.Goal != "" {
		u.Goal = p.Goal
	}
	if p.Email != "" {
		u.Email = normalizeEmail(p.Email)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type AISuggestionRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
