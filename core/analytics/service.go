package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/trezcool/cptracker/core/student"
)

const (
	historyTTL    = 5 * time.Minute
	cleanupPeriod = 10 * time.Minute
)

// Profile is everything shown on a student's page.
type Profile struct {
	Student  student.Student `json:"student"`
	Contests ContestSummary  `json:"contests"`
	Problems ProblemSummary  `json:"problems"`
}

// Service derives the analytics of roster students from their generated history.
// Histories are cached for a short while so that consecutive views of a profile agree.
type Service struct {
	students *student.Service
	cache    *cache.Cache
	now      func() time.Time
}

func NewService(students *student.Service) *Service {
	svc := &Service{
		students: students,
		cache:    cache.New(historyTTL, cleanupPeriod),
		now:      time.Now,
	}
	students.OnChange(svc.Forget)
	return svc
}

// Forget drops the cached histories of the given students.
func (svc *Service) Forget(ids ...int) {
	for _, id := range ids {
		svc.cache.Delete(strconv.Itoa(id))
	}
}

// History returns the activity history of the student, generating it when not cached.
func (svc *Service) History(ctx context.Context, id int) (History, error) {
	if _, err := svc.students.GetByID(ctx, id); err != nil {
		return History{}, err
	}
	return svc.history(id), nil
}

func (svc *Service) history(id int) History {
	key := strconv.Itoa(id)
	if h, ok := svc.cache.Get(key); ok {
		return h.(History)
	}
	h := NewGenerator(SeedFor(id), svc.now).History()
	svc.cache.SetDefault(key, h)
	return h
}

func (svc *Service) Contests(ctx context.Context, id, days int) (ContestSummary, error) {
	h, err := svc.History(ctx, id)
	if err != nil {
		return ContestSummary{}, err
	}
	return SummarizeContests(h.Contests, days, svc.now())
}

func (svc *Service) Problems(ctx context.Context, id, days int) (ProblemSummary, error) {
	h, err := svc.History(ctx, id)
	if err != nil {
		return ProblemSummary{}, err
	}
	return SummarizeProblems(h.Problems, h.Heatmap, days, svc.now())
}

func (svc *Service) Profile(ctx context.Context, id, contestDays, problemDays int) (Profile, error) {
	s, err := svc.students.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	h := svc.history(id)
	now := svc.now()

	contests, err := SummarizeContests(h.Contests, contestDays, now)
	if err != nil {
		return Profile{}, err
	}
	problems, err := SummarizeProblems(h.Problems, h.Heatmap, problemDays, now)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Student: s, Contests: contests, Problems: problems}, nil
}
