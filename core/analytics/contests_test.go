package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/cptracker/core"
)

var testNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC) // a Sunday

func daysBefore(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func intPtr(n int) *int { return &n }

func TestSummarizeContests(t *testing.T) {
	contests := []Contest{
		{ID: "c1", Date: daysBefore(10), Rank: 100, RatingChange: 50, NewRating: 1550},
		{ID: "c2", Date: daysBefore(40), Rank: 51, RatingChange: -20, NewRating: 1500},
		{ID: "c3", Date: daysBefore(100), Rank: 10, RatingChange: 30, NewRating: 1520},
		{ID: "c4", Date: daysBefore(5), Rank: 200, RatingChange: 10, NewRating: 1560},
	}
	ids := func(cs []Contest) []string {
		res := make([]string, 0, len(cs))
		for _, c := range cs {
			res = append(res, c.ID)
		}
		return res
	}

	tests := []struct {
		name        string
		days        int
		wantIDs     []string
		wantChange  int
		wantAvgRank *int
		wantBest    *int
	}{
		{name: "30 days", days: 30, wantIDs: []string{"c1", "c4"}, wantChange: 60, wantAvgRank: intPtr(150), wantBest: intPtr(100)},
		{name: "90 days", days: 90, wantIDs: []string{"c2", "c1", "c4"}, wantChange: 40, wantAvgRank: intPtr(117), wantBest: intPtr(51)},
		{name: "365 days", days: 365, wantIDs: []string{"c3", "c2", "c1", "c4"}, wantChange: 70, wantAvgRank: intPtr(90), wantBest: intPtr(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := SummarizeContests(contests, tt.days, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.days, sum.Days)
			assert.Equal(t, tt.wantIDs, ids(sum.Contests))
			assert.Equal(t, tt.wantIDs, ids(sum.Recent))
			assert.Equal(t, tt.wantChange, sum.TotalRatingChange)
			assert.Equal(t, tt.wantAvgRank, sum.AverageRank)
			assert.Equal(t, tt.wantBest, sum.BestRank)
			require.Len(t, sum.RatingSeries, len(tt.wantIDs))
		})
	}

	t.Run("rating series", func(t *testing.T) {
		sum, err := SummarizeContests(contests, 30, testNow)
		require.NoError(t, err)
		assert.Equal(t, []RatingPoint{
			{Date: "Jun 20", Rating: 1550, Change: 50},
			{Date: "Jun 25", Rating: 1560, Change: 10},
		}, sum.RatingSeries)
	})

	t.Run("cutoff is inclusive", func(t *testing.T) {
		sum, err := SummarizeContests([]Contest{{ID: "edge", Date: daysBefore(30)}}, 30, testNow)
		require.NoError(t, err)
		assert.Len(t, sum.Contests, 1)
	})

	t.Run("empty window", func(t *testing.T) {
		sum, err := SummarizeContests(contests[2:3], 30, testNow)
		require.NoError(t, err)
		assert.Empty(t, sum.Contests)
		assert.Empty(t, sum.RatingSeries)
		assert.Zero(t, sum.TotalRatingChange)
		assert.Nil(t, sum.AverageRank)
		assert.Nil(t, sum.BestRank)
	})

	t.Run("recent keeps 10", func(t *testing.T) {
		many := make([]Contest, 0, 12)
		for i := 12; i > 0; i-- {
			many = append(many, Contest{Date: daysBefore(i), Rank: i})
		}
		sum, err := SummarizeContests(many, 30, testNow)
		require.NoError(t, err)
		assert.Len(t, sum.Contests, 12)
		require.Len(t, sum.Recent, recentContestsCount)
		assert.Equal(t, sum.Contests[:recentContestsCount], sum.Recent)
	})

	t.Run("invalid window", func(t *testing.T) {
		_, err := SummarizeContests(contests, 7, testNow)
		require.Error(t, err)
		assert.True(t, core.IsValidationError(err))
		assert.Equal(t, "days: days must be one of [30 90 365]", err.Error())
	})
}
