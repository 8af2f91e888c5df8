package inmemdb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core/syncjob"
)

type syncRunRepository struct {
	db *syncRunTable
}

var _ syncjob.Repository = (*syncRunRepository)(nil)

func NewSyncRunRepository(db *DB) syncjob.Repository {
	return &syncRunRepository{db: db.syncRun}
}

func (repo *syncRunRepository) CreateRun(_ context.Context, run syncjob.Run) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[run.ID]; ok {
		return errors.Errorf("sync run %s already exists", run.ID)
	}
	repo.db.table[run.ID] = &run
	return nil
}

func (repo *syncRunRepository) UpdateRun(_ context.Context, run syncjob.Run) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[run.ID]; !ok {
		return errors.Errorf("sync run %s not found", run.ID)
	}
	repo.db.table[run.ID] = &run
	return nil
}

func (repo *syncRunRepository) QueryRuns(_ context.Context, limit int) ([]syncjob.Run, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	runs := make([]syncjob.Run, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
