package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core/settings"
)

type settingsStore struct {
	db *sqlx.DB
}

var _ settings.Store = (*settingsStore)(nil)

func NewSettingsStore(db *sqlx.DB) settings.Store {
	return &settingsStore{db: db}
}

func (st *settingsStore) Get(ctx context.Context, key string) (string, error) {
	var val string
	if err := st.db.GetContext(ctx, &val, st.db.Rebind(`SELECT value FROM setting WHERE name = ?`), key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", settings.ErrKeyNotFound
		}
		return "", errors.Wrapf(err, "selecting setting %s", key)
	}
	return val, nil
}

func (st *settingsStore) Set(ctx context.Context, key, value string) error {
	q := st.db.Rebind(`INSERT INTO setting (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := st.db.ExecContext(ctx, q, key, value, time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "upserting setting %s", key)
	}
	return nil
}
