package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core/syncjob"
)

type syncRunRepository struct {
	db *sqlx.DB
}

var _ syncjob.Repository = (*syncRunRepository)(nil)

func NewSyncRunRepository(db *sqlx.DB) syncjob.Repository {
	return &syncRunRepository{db: db}
}

func (repo *syncRunRepository) CreateRun(ctx context.Context, run syncjob.Run) error {
	q := `INSERT INTO sync_run (id, triggered_by, status, started_at, finished_at, error, students_synced, reminders_sent)
		VALUES (:id, :triggered_by, :status, :started_at, :finished_at, :error, :students_synced, :reminders_sent)`
	if _, err := repo.db.NamedExecContext(ctx, q, run); err != nil {
		return errors.Wrap(err, "inserting sync run")
	}
	return nil
}

func (repo *syncRunRepository) UpdateRun(ctx context.Context, run syncjob.Run) error {
	q := `UPDATE sync_run SET status = :status, finished_at = :finished_at, error = :error,
		students_synced = :students_synced, reminders_sent = :reminders_sent
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, run)
	if err != nil {
		return errors.Wrap(err, "updating sync run")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Errorf("sync run %s not found", run.ID)
	}
	return nil
}

func (repo *syncRunRepository) QueryRuns(ctx context.Context, limit int) ([]syncjob.Run, error) {
	runs := make([]syncjob.Run, 0)
	q := repo.db.Rebind(`SELECT id, triggered_by, status, started_at, finished_at, error, students_synced, reminders_sent
		FROM sync_run ORDER BY started_at DESC LIMIT ?`)
	if err := repo.db.SelectContext(ctx, &runs, q, limit); err != nil {
		return nil, errors.Wrap(err, "selecting sync runs")
	}
	return runs, nil
}
