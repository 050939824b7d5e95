package nutrition

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/2beens/fitfood/pkg"
)

var (
	ErrMissingBodyMetrics = errors.New("weight and height are required")
	ErrIncompleteProfile  = errors.New("weight, height, age and gender are required")
)

const (
	// moderate activity
	activityMultiplier = 1.55

	CategoryUnderweight = "Underweight"
	CategoryNormal      = "Normal weight"
	CategoryOverweight  = "Overweight"
	CategoryObese       = "Obese"
)

// Profile holds the body metrics the calculators need.
type Profile struct {
	Weight float64 `json:"weight"` // kg
	Height float64 `json:"height"` // cm
	Age    int     `json:"age"`
	Gender string  `json:"gender"`
}

// BMI = weight / height(m)^2, rounded to one decimal.
func BMI(weightKg, heightCm float64) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, ErrMissingBodyMetrics
	}
	heightInMeters := heightCm / 100
	return pkg.Round1(weightKg / (heightInMeters * heightInMeters)), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// DailyCalories estimates the daily energy need with the Mifflin-St Jeor equation.
func DailyCalories(p Profile) (int, error) {
	if p.Weight <= 0 || p.Height <= 0 || p.Age <= 0 || p.Gender == "" {
		return 0, ErrIncompleteProfile
	}

	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if strings.EqualFold(p.Gender, "male") {
		bmr += 5
	} else {
		bmr -= 161
	}

	return int(math.Round(bmr * activityMultiplier)), nil
}

var floatPrefixRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Amount is a nutrient quantity. It accepts numbers and numeric strings;
// anything unparseable (including "") counts as 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		raw = floatPrefixRegex.FindString(strings.TrimSpace(raw))
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*a = Amount(v)
	return nil
}

type FoodItem struct {
	Name     string `json:"name" validate:"required"`
	Calories Amount `json:"calories"`
	Protein  Amount `json:"protein"`
	Carbs    Amount `json:"carbs"`
	Fats     Amount `json:"fats"`
}

type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// MacroDistribution is the percentage of each macro in protein+carbs+fats.
type MacroDistribution struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

func (t *Totals) add(f FoodItem) {
	t.Calories += float64(f.Calories)
	t.Protein += float64(f.Protein)
	t.Carbs += float64(f.Carbs)
	t.Fats += float64(f.Fats)
}

// Distribution is nil when there are no macros at all.
func (t Totals) Distribution() *MacroDistribution {
	macroSum := t.Protein + t.Carbs + t.Fats
	if macroSum <= 0 {
		return nil
	}
	return &MacroDistribution{
		Protein: pkg.Round1(t.Protein / macroSum * 100),
		Carbs:   pkg.Round1(t.Carbs / macroSum * 100),
		Fats:    pkg.Round1(t.Fats / macroSum * 100),
	}
}

func CalculateTotals(foods []FoodItem) Totals {
	var totals Totals
	for _, f := range foods {
		totals.add(f)
	}
	return totals
}
