package storage

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
	"github.com/trezcool/cptracker/storage/database"
	inmemdb "github.com/trezcool/cptracker/storage/database/inmem"
	sqlxrepos "github.com/trezcool/cptracker/storage/database/sqlx"
)

// Repositories groups the repositories of the configured storage backend.
type Repositories struct {
	Students student.Repository
	Settings settings.Store
	SyncRuns syncjob.Repository

	DB *sqlx.DB // nil for the memory backend
}

// Open sets up the repositories of the configured backend. Database schemas are migrated up.
func Open(conf *core.Config) (*Repositories, error) {
	switch conf.Storage {
	case core.StorageMemory:
		db := inmemdb.Open()
		return &Repositories{
			Students: inmemdb.NewStudentRepository(db),
			Settings: inmemdb.NewSettingsStore(db),
			SyncRuns: inmemdb.NewSyncRunRepository(db),
		}, nil
	case core.StorageDatabase:
		db, err := database.Open(conf.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Repositories{
			Students: sqlxrepos.NewStudentRepository(db),
			Settings: sqlxrepos.NewSettingsStore(db),
			SyncRuns: sqlxrepos.NewSyncRunRepository(db),
			DB:       db,
		}, nil
	default:
		return nil, errors.Errorf("unsupported storage %q", conf.Storage)
	}
}

func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
