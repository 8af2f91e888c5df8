package student_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/student"
	inmemdb "github.com/trezcool/cptracker/storage/database/inmem"
)

func newService() *student.Service {
	return student.NewService(inmemdb.NewStudentRepository(inmemdb.Open()))
}

func create(t *testing.T, svc *student.Service, name, email, handle string, rating int) student.Student {
	t.Helper()
	s, err := svc.Create(context.Background(), student.NewStudent{
		Name:             name,
		Email:            email,
		Phone:            "+15555555555",
		CodeforcesHandle: handle,
		CurrentRating:    rating,
		MaxRating:        rating,
	})
	require.NoError(t, err)
	return s
}

func TestService_Create(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	before := time.Now().UTC().Truncate(time.Millisecond)
	ada := create(t, svc, "Ada", "ada@test.io", "ada_l", 1500)
	bob := create(t, svc, "Bob", "bob@test.io", "bobby", 1200)

	assert.Equal(t, 1, ada.ID)
	assert.Equal(t, 2, bob.ID)
	assert.True(t, ada.EmailRemindersEnabled)
	assert.Zero(t, ada.EmailRemindersCount)
	assert.Equal(t, ada.JoinedDate, ada.LastUpdated)
	assert.False(t, ada.JoinedDate.Before(before))

	got, err := svc.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, ada, got)

	_, err = svc.GetByID(ctx, 42)
	assert.Equal(t, student.ErrNotFound, err)
}

func TestService_Query(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	ada := create(t, svc, "Ada", "ada@test.io", "ada_l", 1500)
	bob := create(t, svc, "Bob", "bob@school.io", "bobby", 1800)

	tests := []struct {
		name      string
		filter    student.QueryFilter
		orderings []core.DBOrdering
		want      []student.Student
	}{
		{name: "all", want: []student.Student{ada, bob}},
		{name: "search", filter: student.QueryFilter{Search: " SCHOOL "}, want: []student.Student{bob}},
		{name: "no match", filter: student.QueryFilter{Search: "zed"}, want: []student.Student{}},
		{name: "ordered", orderings: []core.DBOrdering{{Field: "current_rating"}}, want: []student.Student{bob, ada}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(ctx, tt.filter, tt.orderings...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Update(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	ada := create(t, svc, "Ada", "ada@test.io", "ada_l", 1500)

	var changed []int
	svc.OnChange(func(ids ...int) { changed = append(changed, ids...) })

	rating, off := 1700, false
	updated, err := svc.Update(ctx, ada.ID, student.UpdateStudent{
		Name:                  "Ada L.",
		Email:                 ada.Email,
		Phone:                 ada.Phone,
		CodeforcesHandle:      ada.CodeforcesHandle,
		CurrentRating:         &rating,
		EmailRemindersEnabled: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, 1700, updated.CurrentRating)
	assert.Equal(t, 1500, updated.MaxRating)
	assert.False(t, updated.EmailRemindersEnabled)
	assert.Equal(t, ada.JoinedDate, updated.JoinedDate)
	assert.Equal(t, []int{ada.ID}, changed)

	_, err = svc.Update(ctx, 42, student.UpdateStudent{})
	assert.Equal(t, student.ErrNotFound, err)
}

func TestService_RecordSync(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	ada := create(t, svc, "Ada", "ada@test.io", "ada_l", 1500)

	tests := []struct {
		name    string
		snap    student.SyncSnapshot
		wantCur int
		wantMax int
	}{
		{name: "progress", snap: student.SyncSnapshot{CurrentRating: 1550, MaxRating: 1600}, wantCur: 1550, wantMax: 1600},
		{name: "max raised to current", snap: student.SyncSnapshot{CurrentRating: 1800, MaxRating: 1600}, wantCur: 1800, wantMax: 1800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := svc.RecordSync(ctx, ada.ID, tt.snap)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCur, s.CurrentRating)
			assert.Equal(t, tt.wantMax, s.MaxRating)
			assert.False(t, s.LastUpdated.Before(ada.LastUpdated))
		})
	}

	_, err := svc.RecordSync(ctx, 42, student.SyncSnapshot{})
	assert.Equal(t, student.ErrNotFound, err)
}

func TestService_RecordReminder(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	ada := create(t, svc, "Ada", "ada@test.io", "ada_l", 1500)

	for i := 1; i <= 2; i++ {
		s, err := svc.RecordReminder(ctx, ada.ID)
		require.NoError(t, err)
		assert.Equal(t, i, s.EmailRemindersCount)
		assert.Equal(t, ada.LastUpdated, s.LastUpdated)
	}
}

func TestService_Delete(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	ada := create(t, svc, "Ada", "ada@test.io", "ada_l", 1500)
	bob := create(t, svc, "Bob", "bob@test.io", "bobby", 1200)
	cyd := create(t, svc, "Cyd", "cyd@test.io", "cyd", 1300)

	var changed []int
	svc.OnChange(func(ids ...int) { changed = append(changed, ids...) })

	require.NoError(t, svc.Delete(ctx))
	assert.Empty(t, changed)

	require.NoError(t, svc.Delete(ctx, ada.ID, cyd.ID, 42))
	assert.Equal(t, []int{ada.ID, cyd.ID, 42}, changed)

	left, err := svc.Query(ctx, student.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []student.Student{bob}, left)

	// IDs are never reused
	dan := create(t, svc, "Dan", "dan@test.io", "dan", 1000)
	assert.Equal(t, 4, dan.ID)
}

func TestService_Import(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	create(t, svc, "Ada", "ada@test.io", "ada_l", 1500)

	joined := time.Date(2023, 5, 1, 10, 0, 0, 999999999, time.UTC)
	s, err := svc.Import(ctx, student.Student{
		ID:                  99,
		Name:                "Imported",
		Email:               "imp@test.io",
		EmailRemindersCount: 4,
		JoinedDate:          joined,
		LastUpdated:         joined,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.ID)
	assert.Equal(t, 4, s.EmailRemindersCount)
	assert.Equal(t, joined.Truncate(time.Millisecond), s.JoinedDate)
}

func TestService_Export(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	create(t, svc, "Ada", "ada@test.io", "ada_l", 1500)
	create(t, svc, "Bob", "bob@school.io", "bobby", 1200)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf, student.QueryFilter{Search: "school"}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, student.CSVHeader, records[0])
	assert.Equal(t, "Bob", records[1][0])
}
