package workouts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ValidationError carries the message returned to the client with a 400.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingFields       ValidationError = "Missing required fields"
	ErrNoExercises         ValidationError = "At least one exercise is required"
	ErrIncompleteExercise  ValidationError = "Each exercise must have a name, reps, and sets"
	errNotANumberFmt                       = "%s must be a number"
	errMinValueFmt                         = "%s must be at least %d"
	maxExerciseNumberValue                 = math.MaxInt32
)

type CreateWorkoutRequest struct {
	UserID    string          `json:"userId"`
	Date      string          `json:"date"`
	Exercises json.RawMessage `json:"exercises"`
}

type exerciseInput struct {
	Name     json.RawMessage `json:"name"`
	Reps     flexInt         `json:"reps"`
	Sets     flexInt         `json:"sets"`
	Duration flexInt         `json:"duration"`
}

// flexInt accepts a JSON number or a numeric string. Strings are read like
// parseInt: leading whitespace, optional sign, then the longest digit prefix.
type flexInt struct {
	present bool
	// null, 0, "" or false
	missing bool
	valid   bool
	value   int
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = flexInt{present: true}
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		f.missing = true
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if s == "" {
			f.missing = true
			return nil
		}
		f.value, f.valid = parseIntPrefix(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil || math.Abs(n) > maxExerciseNumberValue {
			return nil
		}
		if n == 0 {
			f.missing = true
			return nil
		}
		f.value, f.valid = int(math.Trunc(n)), true
	}

	// anything else (true, objects, arrays) stays invalid
	return nil
}

func (f flexInt) isMissing() bool {
	return !f.present || f.missing
}

func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n > maxExerciseNumberValue {
		return 0, false
	}
	return sign * n, true
}

// ToWorkout validates the request and builds the workout to store.
func (req CreateWorkoutRequest) ToWorkout() (Workout, error) {
	trimmedExercises := bytes.TrimSpace(req.Exercises)
	if req.UserID == "" || req.Date == "" || len(trimmedExercises) == 0 || trimmedExercises[0] != '[' {
		return Workout{}, ErrMissingFields
	}

	var rawExercises []json.RawMessage
	if err := json.Unmarshal(trimmedExercises, &rawExercises); err != nil {
		return Workout{}, ErrMissingFields
	}
	if len(rawExercises) == 0 {
		return Workout{}, ErrNoExercises
	}

	exercises := make([]Exercise, 0, len(rawExercises))
	for _, raw := range rawExercises {
		exercise, err := parseExercise(raw)
		if err != nil {
			return Workout{}, err
		}
		exercises = append(exercises, exercise)
	}

	return Workout{
		UserID:    req.UserID,
		Date:      req.Date,
		Exercises: exercises,
	}, nil
}

func parseExercise(raw json.RawMessage) (Exercise, error) {
	var in exerciseInput
	// non object elements have no name, reps or sets
	if err := json.Unmarshal(raw, &in); err != nil {
		return Exercise{}, ErrIncompleteExercise
	}
	name := strings.TrimSpace(exerciseName(in.Name))
	if name == "" || in.Reps.isMissing() || in.Sets.isMissing() {
		return Exercise{}, ErrIncompleteExercise
	}

	reps, err := checkedValue("reps", in.Reps, 1)
	if err != nil {
		return Exercise{}, err
	}
	sets, err := checkedValue("sets", in.Sets, 1)
	if err != nil {
		return Exercise{}, err
	}

	duration := 0
	if !in.Duration.isMissing() {
		duration, err = checkedValue("duration", in.Duration, 0)
		if err != nil {
			return Exercise{}, err
		}
	}

	return Exercise{
		Name:     name,
		Reps:     reps,
		Sets:     sets,
		Duration: duration,
	}, nil
}

// exerciseName reads a string name. Non-zero numbers and true are kept as their
// text, other values read as no name.
func exerciseName(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch {
	case raw[0] == '"':
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return ""
		}
		return name
	case bytes.Equal(raw, []byte("true")):
		return "true"
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || n == 0 {
			return ""
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}

func checkedValue(field string, v flexInt, minValue int) (int, error) {
	if !v.valid {
		return 0, ValidationError(fmt.Sprintf(errNotANumberFmt, field))
	}
	if v.value < minValue {
		return 0, ValidationError(fmt.Sprintf(errMinValueFmt, field, minValue))
	}
	return v.value, nil
}
