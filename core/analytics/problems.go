package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/cptracker/core"
)

const (
	DefaultProblemWindow = 30
	heatmapWeeks         = 7
)

// ProblemWindows are the accepted problem solving windows, in days.
var ProblemWindows = []int{7, 30, 90}

// RatingBucket counts the solved problems whose rating is within [Min, Max].
type RatingBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
}

var ratingBuckets = []RatingBucket{
	{Label: "800-999", Min: 800, Max: 999},
	{Label: "1000-1199", Min: 1000, Max: 1199},
	{Label: "1200-1399", Min: 1200, Max: 1399},
	{Label: "1400-1599", Min: 1400, Max: 1599},
	{Label: "1600-1799", Min: 1600, Max: 1799},
	{Label: "1800+", Min: 1800, Max: 9999},
}

// HeatmapCell is one day of the submission heatmap grid.
type HeatmapCell struct {
	Date        string       `json:"date"`
	Submissions int          `json:"submissions"`
	Weekday     time.Weekday `json:"weekday"`
	Level       int          `json:"level"` // 0 - 4
}

type ProblemSummary struct {
	Days           int             `json:"days"`
	Problems       []Problem       `json:"problems"`
	TotalSolved    int             `json:"total_solved"`
	MostDifficult  *Problem        `json:"most_difficult"` // nil when there is no rated problem
	AverageRating  *int            `json:"average_rating"` // nil when there is no problem
	AveragePerDay  float64         `json:"average_per_day"`
	RatingBuckets  []RatingBucket  `json:"rating_buckets"` // non-empty buckets only
	Heatmap        [][]HeatmapCell `json:"heatmap"`        // oldest week first
	MaxSubmissions int             `json:"max_submissions"`
}

// SummarizeProblems keeps the problems solved in the last days and derives the difficulty stats,
// the rating distribution and the heatmap grid of the last 7 weeks.
func SummarizeProblems(problems []Problem, heatmap Heatmap, days int, now time.Time) (ProblemSummary, error) {
	if err := checkWindow(days, ProblemWindows); err != nil {
		return ProblemSummary{}, err
	}

	cutoff := now.AddDate(0, 0, -days)
	kept := make([]Problem, 0, len(problems))
	for _, p := range problems {
		if !p.SolvedDate.Before(cutoff) {
			kept = append(kept, p)
		}
	}

	sum := ProblemSummary{
		Days:        days,
		Problems:    kept,
		TotalSolved: len(kept),
	}

	var ratingTotal int
	for i, p := range kept {
		ratingTotal += p.Rating
		maxRating := 0
		if sum.MostDifficult != nil {
			maxRating = sum.MostDifficult.Rating
		}
		if p.Rating > maxRating {
			sum.MostDifficult = &kept[i]
		}
	}
	if len(kept) > 0 {
		avg := int(math.Round(float64(ratingTotal) / float64(len(kept))))
		sum.AverageRating = &avg
	}
	sum.AveragePerDay = math.Round(float64(len(kept))/float64(days)*10) / 10

	sum.RatingBuckets = bucketize(kept)
	sum.MaxSubmissions = heatmap.Max()
	sum.Heatmap = heatmapGrid(heatmap, sum.MaxSubmissions, now)
	return sum, nil
}

func bucketize(problems []Problem) []RatingBucket {
	buckets := make([]RatingBucket, len(ratingBuckets))
	copy(buckets, ratingBuckets)
	for _, p := range problems {
		for i := range buckets {
			if p.Rating >= buckets[i].Min && p.Rating <= buckets[i].Max {
				buckets[i].Count++
				break
			}
		}
	}

	nonEmpty := make([]RatingBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			nonEmpty = append(nonEmpty, b)
		}
	}
	return nonEmpty
}

// Max returns the highest daily submissions count.
func (h Heatmap) Max() int {
	var max int
	for _, n := range h {
		if n > max {
			max = n
		}
	}
	return max
}

// heatmapGrid lays out the last 7 weeks ending today, one row per week, oldest first.
func heatmapGrid(heatmap Heatmap, max int, now time.Time) [][]HeatmapCell {
	grid := make([][]HeatmapCell, 0, heatmapWeeks)
	for week := heatmapWeeks - 1; week >= 0; week-- {
		row := make([]HeatmapCell, 0, 7)
		for day := 0; day < 7; day++ {
			date := now.AddDate(0, 0, -(week*7 + (6 - day)))
			key := date.Format(DateKeyFormat)
			n := heatmap[key]
			row = append(row, HeatmapCell{
				Date:        key,
				Submissions: n,
				Weekday:     date.Weekday(),
				Level:       HeatLevel(n, max),
			})
		}
		grid = append(grid, row)
	}
	return grid
}

// HeatLevel maps a submissions count to an intensity level from 0 to 4, relative to max.
func HeatLevel(n, max int) int {
	if n == 0 || max == 0 {
		return 0
	}
	intensity := float64(n) / float64(max)
	switch {
	case intensity <= 0.25:
		return 1
	case intensity <= 0.5:
		return 2
	case intensity <= 0.75:
		return 3
	default:
		return 4
	}
}

func checkWindow(days int, allowed []int) error {
	strs := make([]string, 0, len(allowed))
	for _, d := range allowed {
		if d == days {
			return nil
		}
		strs = append(strs, strconv.Itoa(d))
	}
	return core.NewValidationError(nil, core.FieldError{
		Field: "days",
		Error: "days must be one of [" + strings.Join(strs, " ") + "]",
	})
}
