package nutrition

import (
	"sort"
	"time"
)

type DayCalories struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
}

// Summary is the nutrition dashboard of one user.
type Summary struct {
	BMI                *float64           `json:"bmi,omitempty"`
	BMICategory        string             `json:"bmiCategory,omitempty"`
	DailyCalorieTarget *int               `json:"dailyCalorieTarget,omitempty"`
	MacroTotals        Totals             `json:"macroTotals"`
	MacroDistribution  *MacroDistribution `json:"macroDistribution,omitempty"`
	CaloriesByDate     []DayCalories      `json:"caloriesByDate"`
}

// Summarize aggregates the user's meals (optionally only one meal type) and
// adds the body metrics the profile allows to compute.
func Summarize(profile Profile, meals []Meal, mealType string) Summary {
	summary := Summary{
		CaloriesByDate: []DayCalories{},
	}

	if bmi, err := BMI(profile.Weight, profile.Height); err == nil {
		summary.BMI = &bmi
		summary.BMICategory = BMICategory(bmi)
	}
	if calories, err := DailyCalories(profile); err == nil {
		summary.DailyCalorieTarget = &calories
	}

	caloriesByDate := map[string]float64{}
	for _, meal := range meals {
		if mealType != "" && mealType != "all" && meal.MealType != mealType {
			continue
		}
		for _, food := range meal.Foods {
			summary.MacroTotals.add(food)
			caloriesByDate[meal.Date] += float64(food.Calories)
		}
	}
	summary.MacroDistribution = summary.MacroTotals.Distribution()

	for date, calories := range caloriesByDate {
		summary.CaloriesByDate = append(summary.CaloriesByDate, DayCalories{
			Date:     date,
			Calories: calories,
		})
	}
	sort.Slice(summary.CaloriesByDate, func(i, j int) bool {
		return dateBefore(summary.CaloriesByDate[i].Date, summary.CaloriesByDate[j].Date)
	})

	return summary
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateBefore(a, b string) bool {
	ta, okA := parseDate(a)
	tb, okB := parseDate(b)
	if okA && okB && !ta.Equal(tb) {
		return ta.Before(tb)
	}
	return a < b
}
