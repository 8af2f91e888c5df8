package syncjob

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/cptracker/core/analytics"
	"github.com/trezcool/cptracker/core/student"
)

// inactivity spread of the simulated accounts, in days
const mockMaxIdleDays = 14

// MockSource simulates an external rating API: ratings drift a little on every fetch
// and the last submission lands somewhere in the last two weeks.
type MockSource struct {
	mu  sync.Mutex
	gen *analytics.Generator
	now func() time.Time
	rnd func(n int) int
}

func NewMockSource(seed int64) *MockSource {
	gen := analytics.NewGenerator(seed, time.Now)
	return &MockSource{gen: gen, now: time.Now, rnd: gen.Intn}
}

func (src *MockSource) Fetch(ctx context.Context, s student.Student) (student.SyncSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return student.SyncSnapshot{}, err
	}
	src.mu.Lock()
	defer src.mu.Unlock()

	rating := clamp(s.CurrentRating+src.rnd(200)-100, student.MinRating, student.MaxRating)
	maxRating := s.MaxRating
	if rating > maxRating {
		maxRating = rating
	}
	idle := time.Duration(src.rnd(mockMaxIdleDays*24)) * time.Hour
	return student.SyncSnapshot{
		CurrentRating:  rating,
		MaxRating:      maxRating,
		LastSubmission: src.now().Add(-idle),
	}, nil
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
