package analytics

import (
	"math"
	"sort"
	"time"
)

const (
	DefaultContestWindow = 90
	recentContestsCount  = 10
	chartDateFormat      = "Jan 02"
)

// ContestWindows are the accepted contest history windows, in days.
var ContestWindows = []int{30, 90, 365}

// RatingPoint is one point of the rating chart.
type RatingPoint struct {
	Date   string `json:"date"`
	Rating int    `json:"rating"`
	Change int    `json:"change"`
}

type ContestSummary struct {
	Days              int           `json:"days"`
	Contests          []Contest     `json:"contests"` // oldest first
	RatingSeries      []RatingPoint `json:"rating_series"`
	TotalRatingChange int           `json:"total_rating_change"`
	AverageRank       *int          `json:"average_rank"` // nil when there is no contest
	BestRank          *int          `json:"best_rank"`    // nil when there is no contest
	Recent            []Contest     `json:"recent"`
}

// SummarizeContests keeps the contests held in the last days and derives the rating chart and rank stats.
func SummarizeContests(contests []Contest, days int, now time.Time) (ContestSummary, error) {
	if err := checkWindow(days, ContestWindows); err != nil {
		return ContestSummary{}, err
	}

	cutoff := now.AddDate(0, 0, -days)
	kept := make([]Contest, 0, len(contests))
	for _, c := range contests {
		if !c.Date.Before(cutoff) {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })

	sum := ContestSummary{
		Days:         days,
		Contests:     kept,
		RatingSeries: make([]RatingPoint, 0, len(kept)),
	}
	var rankTotal int
	for _, c := range kept {
		sum.RatingSeries = append(sum.RatingSeries, RatingPoint{
			Date:   c.Date.Format(chartDateFormat),
			Rating: c.NewRating,
			Change: c.RatingChange,
		})
		sum.TotalRatingChange += c.RatingChange
		rankTotal += c.Rank
		if sum.BestRank == nil || c.Rank < *sum.BestRank {
			best := c.Rank
			sum.BestRank = &best
		}
	}
	if len(kept) > 0 {
		avg := int(math.Round(float64(rankTotal) / float64(len(kept))))
		sum.AverageRank = &avg
	}

	recent := kept
	if len(recent) > recentContestsCount {
		recent = recent[:recentContestsCount]
	}
	sum.Recent = recent
	return sum, nil
}
