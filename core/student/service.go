package student

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/trezcool/cptracker/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	// OrderingFields are the fields students can be ordered by.
	OrderingFields = map[string]bool{
		"id":                    true,
		"name":                  true,
		"email":                 true,
		"codeforces_handle":     true,
		"current_rating":        true,
		"max_rating":            true,
		"last_updated":          true,
		"email_reminders_count": true,
		"joined_date":           true,
	}
)

type (
	Repository interface {
		// CreateStudent assigns the next running ID to the Student and stores it.
		CreateStudent(ctx context.Context, s Student) (Student, error)
		// QueryStudents does a case-insensitive match of QueryFilter.Search on one of
		// Student.Name, Student.Email or Student.CodeforcesHandle. Results are ordered by ID by default.
		QueryStudents(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...int) error
	}

	// ChangeFunc is called with the IDs of students that were updated or deleted.
	ChangeFunc func(ids ...int)

	Service struct {
		repo Repository
		now  func() time.Time

		mu        sync.RWMutex
		listeners []ChangeFunc
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// OnChange registers fn to be notified whenever students are updated or deleted.
func (svc *Service) OnChange(fn ChangeFunc) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.listeners = append(svc.listeners, fn)
}

func (svc *Service) notify(ids ...int) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	for _, fn := range svc.listeners {
		fn(ids...)
	}
}

func (svc *Service) timestamp() time.Time {
	return svc.now().UTC().Truncate(time.Millisecond)
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := svc.timestamp()
	return svc.repo.CreateStudent(ctx, Student{
		Name:                  ns.Name,
		Email:                 ns.Email,
		Phone:                 ns.Phone,
		CodeforcesHandle:      ns.CodeforcesHandle,
		CurrentRating:         ns.CurrentRating,
		MaxRating:             ns.MaxRating,
		LastUpdated:           now,
		EmailRemindersCount:   0,
		EmailRemindersEnabled: ns.remindersEnabled(),
		JoinedDate:            now,
	})
}

// Import stores a fully populated Student as is, keeping its bookkeeping fields. The ID is reassigned.
func (svc *Service) Import(ctx context.Context, s Student) (Student, error) {
	s.ID = 0
	s.LastUpdated = s.LastUpdated.UTC().Truncate(time.Millisecond)
	s.JoinedDate = s.JoinedDate.UTC().Truncate(time.Millisecond)
	return svc.repo.CreateStudent(ctx, s)
}

// ImportLabelled imports s, then lets label rewrite it once its ID is assigned.
// Bookkeeping fields are kept as imported.
func (svc *Service) ImportLabelled(ctx context.Context, s Student, label func(*Student)) (Student, error) {
	created, err := svc.Import(ctx, s)
	if err != nil {
		return Student{}, err
	}
	label(&created)
	return svc.repo.UpdateStudent(ctx, created)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Student, error) {
	filter.Clean()
	return svc.repo.QueryStudents(ctx, filter, CleanOrderings(orderings)...)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

// Update replaces the form fields of the Student, keeping its ID, reminders count and joined date.
func (svc *Service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	orig.Name = us.Name
	orig.Email = us.Email
	orig.Phone = us.Phone
	orig.CodeforcesHandle = us.CodeforcesHandle
	if us.CurrentRating != nil {
		orig.CurrentRating = *us.CurrentRating
	}
	if us.MaxRating != nil {
		orig.MaxRating = *us.MaxRating
	}
	if us.EmailRemindersEnabled != nil {
		orig.EmailRemindersEnabled = *us.EmailRemindersEnabled
	}
	orig.LastUpdated = svc.timestamp()

	s, err := svc.repo.UpdateStudent(ctx, orig)
	if err != nil {
		return Student{}, err
	}
	svc.notify(id)
	return s, nil
}

// RecordSync stores the ratings fetched during a sync.
func (svc *Service) RecordSync(ctx context.Context, id int, snap SyncSnapshot) (Student, error) {
	s, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	s.CurrentRating = snap.CurrentRating
	s.MaxRating = snap.MaxRating
	if s.CurrentRating > s.MaxRating {
		s.MaxRating = s.CurrentRating
	}
	s.LastUpdated = svc.timestamp()

	s, err = svc.repo.UpdateStudent(ctx, s)
	if err != nil {
		return Student{}, err
	}
	svc.notify(id)
	return s, nil
}

// RecordReminder increments the reminders count of the Student.
func (svc *Service) RecordReminder(ctx context.Context, id int) (Student, error) {
	s, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	s.EmailRemindersCount++
	return svc.repo.UpdateStudent(ctx, s)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	if err := svc.repo.DeleteStudentsByID(ctx, ids...); err != nil {
		return err
	}
	svc.notify(ids...)
	return nil
}

// Export writes the students matching filter as CSV to w.
func (svc *Service) Export(ctx context.Context, w io.Writer, filter QueryFilter, orderings ...core.DBOrdering) error {
	students, err := svc.Query(ctx, filter, orderings...)
	if err != nil {
		return err
	}
	return WriteCSV(w, students)
}

// CleanOrderings drops orderings on unknown fields.
func CleanOrderings(orderings []core.DBOrdering) []core.DBOrdering {
	cleaned := make([]core.DBOrdering, 0, len(orderings))
	for _, ord := range orderings {
		if OrderingFields[ord.Field] {
			cleaned = append(cleaned, ord)
		}
	}
	return cleaned
}
