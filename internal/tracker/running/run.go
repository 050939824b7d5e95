package running

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitfood/pkg"
)

const (
	dateLayout   = "2006-01-02"
	defaultRoute = "New Route"
)

type Run struct {
	ID       int64   `json:"id"`
	Date     string  `json:"date"`
	Distance float64 `json:"distance"` // km
	Duration string  `json:"duration"` // m:ss
	Pace     string  `json:"pace"`     // m:ss per km
	Calories int     `json:"calories"`
	Route    string  `json:"route"`
}

type Stats struct {
	WeeklyDistance  float64 `json:"weeklyDistance"`
	MonthlyDistance float64 `json:"monthlyDistance"`
	TotalRuns       int     `json:"totalRuns"`
	AveragePace     string  `json:"averagePace"`
}

func defaultStats() Stats {
	return Stats{AveragePace: "0:00"}
}

type Overview struct {
	History []Run `json:"history"`
	Stats   Stats `json:"stats"`
}

type RecordRequest struct {
	Distance        float64 `json:"distance"`
	DurationSeconds int     `json:"durationSeconds"`
	Route           string  `json:"route"`
}

// formatMinSec renders seconds as m:ss, minutes are not capped.
func formatMinSec(seconds float64) string {
	whole := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}

// Pace is the time per km, "0:00" for a zero distance.
func Pace(distance float64, durationSeconds int) string {
	if distance == 0 {
		return "0:00"
	}
	return formatMinSec(float64(durationSeconds) / distance)
}

func FormatDuration(seconds int) string {
	return formatMinSec(float64(seconds))
}

func Calories(distance float64) int {
	return int(math.Round(distance * 60))
}

// paceSeconds parses m:ss. Unparseable parts count as zero.
func paceSeconds(pace string) int {
	minutes, seconds, _ := strings.Cut(pace, ":")
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	return m*60 + s
}

func AveragePace(runs []Run) string {
	if len(runs) == 0 {
		return "0:00"
	}
	total := 0
	for _, run := range runs {
		total += paceSeconds(run.Pace)
	}
	return formatMinSec(float64(total) / float64(len(runs)))
}

// weekStart is Sunday 00:00 UTC of the week holding now.
func weekStart(now time.Time) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func monthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ComputeStats summarizes the history. Runs with an unparseable date only count
// towards the totals.
func ComputeStats(runs []Run, now time.Time) Stats {
	week, month := weekStart(now), monthStart(now)

	var weekly, monthly float64
	for _, run := range runs {
		date, err := time.Parse(dateLayout, run.Date)
		if err != nil {
			continue
		}
		if !date.Before(week) {
			weekly += run.Distance
		}
		if !date.Before(month) {
			monthly += run.Distance
		}
	}

	return Stats{
		WeeklyDistance:  pkg.Round1(weekly),
		MonthlyDistance: pkg.Round1(monthly),
		TotalRuns:       len(runs),
		AveragePace:     AveragePace(runs),
	}
}

func newRun(id int64, req RecordRequest, now time.Time) Run {
	route := strings.TrimSpace(req.Route)
	if route == "" {
		route = defaultRoute
	}
	return Run{
		ID:       id,
		Date:     now.UTC().Format(dateLayout),
		Distance: req.Distance,
		Duration: FormatDuration(req.DurationSeconds),
		Pace:     Pace(req.Distance, req.DurationSeconds),
		Calories: Calories(req.Distance),
		Route:    route,
	}
}
