package syncjob

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/cptracker/core/student"
)

func TestMockSource_Fetch(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		student student.Student
		rnd     int
		wantCur int
		wantMax int
	}{
		{name: "drop", student: student.Student{CurrentRating: 1500, MaxRating: 1600}, rnd: 0, wantCur: 1400, wantMax: 1600},
		{name: "new max", student: student.Student{CurrentRating: 1550, MaxRating: 1600}, rnd: 199, wantCur: 1649, wantMax: 1649},
		{name: "floor", student: student.Student{CurrentRating: 50, MaxRating: 50}, rnd: 0, wantCur: student.MinRating, wantMax: 50},
		{name: "ceiling", student: student.Student{CurrentRating: 3990, MaxRating: 3990}, rnd: 199, wantCur: student.MaxRating, wantMax: student.MaxRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewMockSource(1)
			src.now = func() time.Time { return now }
			src.rnd = func(int) int { return tt.rnd }

			snap, err := src.Fetch(context.Background(), tt.student)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCur, snap.CurrentRating)
			assert.Equal(t, tt.wantMax, snap.MaxRating)
			assert.Equal(t, now.Add(-time.Duration(tt.rnd)*time.Hour), snap.LastSubmission)
		})
	}

	t.Run("idle within two weeks", func(t *testing.T) {
		src := NewMockSource(time.Now().UnixNano())
		for i := 0; i < 50; i++ {
			snap, err := src.Fetch(context.Background(), student.Student{CurrentRating: 1500, MaxRating: 1500})
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now(), snap.LastSubmission, mockMaxIdleDays*24*time.Hour)
			assert.GreaterOrEqual(t, snap.MaxRating, snap.CurrentRating)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewMockSource(1).Fetch(ctx, student.Student{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
