package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return testNow }

func TestGenerator_deterministic(t *testing.T) {
	h1 := NewGenerator(SeedFor(7), fixedNow).History()
	h2 := NewGenerator(SeedFor(7), fixedNow).History()
	assert.Equal(t, h1, h2)

	h3 := NewGenerator(SeedFor(8), fixedNow).History()
	assert.NotEqual(t, h1.Contests, h3.Contests)

	assert.Equal(t, SeedFor(7), SeedFor(7))
	assert.NotEqual(t, SeedFor(7), SeedFor(8))
}

func TestGenerator_History(t *testing.T) {
	h := NewGenerator(42, fixedNow).History()
	yearAgo := testNow.AddDate(0, 0, -365)
	quarterAgo := testNow.AddDate(0, 0, -90)

	require.Len(t, h.Contests, ContestsCount)
	for _, c := range h.Contests {
		assert.True(t, c.Date.After(yearAgo) && !c.Date.After(testNow), "contest date %s", c.Date)
		assert.GreaterOrEqual(t, c.Rank, 1)
		assert.Less(t, c.Rank, 1001)
		assert.GreaterOrEqual(t, c.RatingChange, -100)
		assert.Less(t, c.RatingChange, 100)
		assert.GreaterOrEqual(t, c.NewRating, 800)
		assert.Less(t, c.NewRating, 2800)
		assert.GreaterOrEqual(t, c.ProblemsSolved, 1)
		assert.LessOrEqual(t, c.ProblemsSolved, 6)
		assert.GreaterOrEqual(t, c.TotalProblems, 6)
		assert.LessOrEqual(t, c.TotalProblems, 8)
	}

	require.Len(t, h.Problems, ProblemsCount)
	for _, p := range h.Problems {
		assert.True(t, p.SolvedDate.After(quarterAgo) && !p.SolvedDate.After(testNow), "solved date %s", p.SolvedDate)
		assert.GreaterOrEqual(t, p.Rating, 800)
		assert.Less(t, p.Rating, 2300)
		assert.NotEmpty(t, p.Tags)
		assert.LessOrEqual(t, len(p.Tags), 3)
	}

	require.Len(t, h.Submissions, SubmissionsCount)
	for _, s := range h.Submissions {
		assert.Contains(t, Verdicts, s.Verdict)
		assert.Less(t, s.TimeConsumed, 2000)
	}

	require.Len(t, h.Heatmap, HeatmapDays)
	assert.Contains(t, h.Heatmap, testNow.Format(DateKeyFormat))
	assert.NotContains(t, h.Heatmap, testNow.AddDate(0, 0, -HeatmapDays).Format(DateKeyFormat))
	for day, n := range h.Heatmap {
		assert.True(t, n >= 0 && n < 10, "heatmap[%s] = %d", day, n)
	}

	assert.False(t, h.LastSubmission().IsZero())
	assert.True(t, History{}.LastSubmission().IsZero())
}

func TestGenerator_Student(t *testing.T) {
	gen := NewGenerator(1, fixedNow)
	for n := 1; n <= 20; n++ {
		s := gen.Student(n)
		assert.Equal(t, n, s.ID)
		assert.Contains(t, s.Name, "Student")
		assert.NotEmpty(t, s.Email)
		assert.NotEmpty(t, s.CodeforcesHandle)
		assert.GreaterOrEqual(t, s.CurrentRating, 800)
		assert.Less(t, s.CurrentRating, 2800)
		assert.GreaterOrEqual(t, s.MaxRating, s.CurrentRating)
		assert.Equal(t, time.UTC, s.JoinedDate.Location())
		assert.False(t, s.LastUpdated.After(testNow))
	}
}
