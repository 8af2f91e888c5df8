package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
	"github.com/trezcool/cptracker/storage"
	"github.com/trezcool/cptracker/storage/database"
	inmemdb "github.com/trezcool/cptracker/storage/database/inmem"
	sqlxrepos "github.com/trezcool/cptracker/storage/database/sqlx"
	"github.com/trezcool/cptracker/tests"
)

// backends returns fresh repositories of every storage backend.
func backends(t *testing.T) map[string]*storage.Repositories {
	mem := inmemdb.Open()
	db := testutil.PrepareDB(t)
	return map[string]*storage.Repositories{
		"memory": {
			Students: inmemdb.NewStudentRepository(mem),
			Settings: inmemdb.NewSettingsStore(mem),
			SyncRuns: inmemdb.NewSyncRunRepository(mem),
		},
		"sqlite": {
			Students: sqlxrepos.NewStudentRepository(db),
			Settings: sqlxrepos.NewSettingsStore(db),
			SyncRuns: sqlxrepos.NewSyncRunRepository(db),
			DB:       db,
		},
	}
}

func utc(s student.Student) student.Student {
	s.LastUpdated = s.LastUpdated.UTC()
	s.JoinedDate = s.JoinedDate.UTC()
	return s
}

func utcAll(students []student.Student) []student.Student {
	res := make([]student.Student, 0, len(students))
	for _, s := range students {
		res = append(res, utc(s))
	}
	return res
}

func newStudent(name, email, handle string, rating int) student.Student {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return student.Student{
		Name:                  name,
		Email:                 email,
		Phone:                 "+15555555555",
		CodeforcesHandle:      handle,
		CurrentRating:         rating,
		MaxRating:             rating,
		LastUpdated:           now,
		EmailRemindersEnabled: true,
		JoinedDate:            now,
	}
}

func TestStudentRepository(t *testing.T) {
	for name, repos := range backends(t) {
		repo := repos.Students
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			ada, err := repo.CreateStudent(ctx, newStudent("ada", "ada@test.io", "ada_l", 1500))
			require.NoError(t, err)
			bob, err := repo.CreateStudent(ctx, newStudent("Bob", "bob@school.io", "adaxl", 1800))
			require.NoError(t, err)
			cyd, err := repo.CreateStudent(ctx, newStudent("cyd", "cyd@test.io", "100%_cyd", 1200))
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3}, []int{ada.ID, bob.ID, cyd.ID})

			got, err := repo.GetStudentByID(ctx, bob.ID)
			require.NoError(t, err)
			assert.Equal(t, utc(bob), utc(got))

			_, err = repo.GetStudentByID(ctx, 42)
			assert.Equal(t, student.ErrNotFound, err)

			queryTests := []struct {
				name      string
				search    string
				orderings []core.DBOrdering
				want      []student.Student
			}{
				{name: "all", want: []student.Student{ada, bob, cyd}},
				{name: "underscore is literal", search: "a_l", want: []student.Student{ada}},
				{name: "percent is literal", search: "100%", want: []student.Student{cyd}},
				{name: "case-insensitive", search: "SCHOOL", want: []student.Student{bob}},
				{name: "no match", search: "zed", want: []student.Student{}},
				{name: "name desc", orderings: []core.DBOrdering{{Field: "name"}}, want: []student.Student{cyd, bob, ada}},
				{name: "rating asc", orderings: []core.DBOrdering{{Field: "current_rating", Ascending: true}}, want: []student.Student{cyd, ada, bob}},
			}
			for _, tt := range queryTests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := repo.QueryStudents(ctx, student.QueryFilter{Search: tt.search}, tt.orderings...)
					require.NoError(t, err)
					assert.Equal(t, utcAll(tt.want), utcAll(got))
				})
			}

			t.Run("update", func(t *testing.T) {
				upd := ada
				upd.Name = "Ada L."
				upd.EmailRemindersCount = 3
				upd.EmailRemindersEnabled = false
				upd.LastUpdated = upd.LastUpdated.Add(time.Hour)
				res, err := repo.UpdateStudent(ctx, upd)
				require.NoError(t, err)
				assert.Equal(t, utc(upd), utc(res))

				got, err := repo.GetStudentByID(ctx, ada.ID)
				require.NoError(t, err)
				assert.Equal(t, utc(upd), utc(got))

				upd.ID = 42
				_, err = repo.UpdateStudent(ctx, upd)
				assert.Equal(t, student.ErrNotFound, err)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, repo.DeleteStudentsByID(ctx))
				require.NoError(t, repo.DeleteStudentsByID(ctx, ada.ID, cyd.ID, 42))

				left, err := repo.QueryStudents(ctx, student.QueryFilter{})
				require.NoError(t, err)
				assert.Equal(t, utcAll([]student.Student{bob}), utcAll(left))

				dan, err := repo.CreateStudent(ctx, newStudent("Dan", "dan@test.io", "dan", 1000))
				require.NoError(t, err)
				assert.Equal(t, 4, dan.ID, "IDs are not reused")
			})
		})
	}
}

func TestStudentRepository_nonASCII(t *testing.T) {
	for name, repos := range backends(t) {
		repo := repos.Students
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			emile, err := repo.CreateStudent(ctx, newStudent("Émile Zola", "ezola@test.io", "ezola", 1500))
			require.NoError(t, err)
			zed, err := repo.CreateStudent(ctx, newStudent("zed", "zed@test.io", "ZED", 1400))
			require.NoError(t, err)
			olga, err := repo.CreateStudent(ctx, newStudent("ÖLGA", "olga@test.io", "olga", 1300))
			require.NoError(t, err)

			tests := []struct {
				name      string
				search    string
				orderings []core.DBOrdering
				want      []student.Student
			}{
				{name: "lower search", search: "émile", want: []student.Student{emile}},
				{name: "upper search", search: "ÉMILE", want: []student.Student{emile}},
				{name: "mixed", search: "ölga", want: []student.Student{olga}},
				{name: "name asc", orderings: []core.DBOrdering{{Field: "name", Ascending: true}}, want: []student.Student{zed, emile, olga}},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := repo.QueryStudents(ctx, student.QueryFilter{Search: tt.search}, tt.orderings...)
					require.NoError(t, err)
					assert.Equal(t, utcAll(tt.want), utcAll(got))
				})
			}
		})
	}
}

func TestSettingsStore(t *testing.T) {
	for name, repos := range backends(t) {
		store := repos.Settings
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, settings.KeyTheme)
			assert.Equal(t, settings.ErrKeyNotFound, err)

			require.NoError(t, store.Set(ctx, settings.KeyTheme, `"dark"`))
			require.NoError(t, store.Set(ctx, settings.KeyLastSyncTime, `"2024-06-30T12:00:00Z"`))
			require.NoError(t, store.Set(ctx, settings.KeyTheme, `"light"`))

			val, err := store.Get(ctx, settings.KeyTheme)
			require.NoError(t, err)
			assert.Equal(t, `"light"`, val)

			val, err = store.Get(ctx, settings.KeyLastSyncTime)
			require.NoError(t, err)
			assert.Equal(t, `"2024-06-30T12:00:00Z"`, val)
		})
	}
}

func TestSyncRunRepository(t *testing.T) {
	for name, repos := range backends(t) {
		repo := repos.SyncRuns
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			start := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

			runs := make([]syncjob.Run, 0, 3)
			for i, trigger := range []syncjob.Trigger{syncjob.TriggerScheduled, syncjob.TriggerManual, syncjob.TriggerScheduled} {
				run := syncjob.Run{
					ID:        "run-" + string(rune('a'+i)),
					Trigger:   trigger,
					Status:    syncjob.StatusRunning,
					StartedAt: start.Add(time.Duration(i) * time.Hour),
				}
				require.NoError(t, repo.CreateRun(ctx, run))
				runs = append(runs, run)
			}

			finished := runs[1]
			finished.Status = syncjob.StatusSucceeded
			finished.FinishedAt = null.TimeFrom(start.Add(90 * time.Minute))
			finished.Error = null.StringFrom("1 of 3 students could not be fetched")
			finished.StudentsSynced = 2
			finished.RemindersSent = 1
			require.NoError(t, repo.UpdateRun(ctx, finished))

			assert.Error(t, repo.UpdateRun(ctx, syncjob.Run{ID: "nope", StartedAt: start}))

			got, err := repo.QueryRuns(ctx, 2)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, runs[2].ID, got[0].ID)
			assert.False(t, got[0].FinishedAt.Valid)
			assert.False(t, got[0].Error.Valid)

			assert.Equal(t, finished.ID, got[1].ID)
			assert.Equal(t, finished.Status, got[1].Status)
			assert.Equal(t, finished.Trigger, got[1].Trigger)
			assert.Equal(t, finished.Error, got[1].Error)
			assert.Equal(t, finished.StudentsSynced, got[1].StudentsSynced)
			assert.Equal(t, finished.RemindersSent, got[1].RemindersSent)
			require.True(t, got[1].FinishedAt.Valid)
			assert.True(t, finished.FinishedAt.Time.Equal(got[1].FinishedAt.Time))
			assert.True(t, finished.StartedAt.Equal(got[1].StartedAt))
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repos, err := storage.Open(&core.Config{Storage: core.StorageMemory})
		require.NoError(t, err)
		assert.Nil(t, repos.DB)
		assert.NotNil(t, repos.Students)
		assert.NoError(t, repos.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		repos, err := storage.Open(&core.Config{
			Storage:  core.StorageDatabase,
			Database: core.DatabaseConfig{Engine: database.SQLite, Path: ":memory:"},
		})
		require.NoError(t, err)
		require.NotNil(t, repos.DB)
		defer repos.Close()

		_, err = repos.Students.CreateStudent(context.Background(), newStudent("Ada", "ada@test.io", "ada", 1500))
		assert.NoError(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := storage.Open(&core.Config{Storage: "cloud"})
		assert.EqualError(t, err, `unsupported storage "cloud"`)

		_, err = storage.Open(&core.Config{Storage: core.StorageDatabase, Database: core.DatabaseConfig{Engine: "oracle"}})
		assert.EqualError(t, err, `unsupported database engine "oracle"`)
	})
}
