package nutrition

import (
	"errors"
	"time"
)

var ErrMealUserNotFound = errors.New("meal owner not found")

type Meal struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	MealType  string     `json:"mealType,omitempty"`
	Date      string     `json:"date"`
	Foods     []FoodItem `json:"foods"`
	Totals    Totals     `json:"totals"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CreateMealRequest struct {
	UserID   string     `json:"userId" validate:"required"`
	Name     string     `json:"name" validate:"required,max=200"`
	MealType string     `json:"mealType" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	Date     string     `json:"date" validate:"required"`
	Foods    []FoodItem `json:"foods" validate:"required,min=1,dive"`
}

func (req CreateMealRequest) ToMeal() Meal {
	return Meal{
		UserID:   req.UserID,
		Name:     req.Name,
		MealType: req.MealType,
		Date:     req.Date,
		Foods:    req.Foods,
		Totals:   CalculateTotals(req.Foods),
	}
}
