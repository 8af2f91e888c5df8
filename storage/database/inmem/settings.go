package inmemdb

import (
	"context"

	"github.com/trezcool/cptracker/core/settings"
)

type settingsStore struct {
	db *kvTable
}

var _ settings.Store = (*settingsStore)(nil)

func NewSettingsStore(db *DB) settings.Store {
	return &settingsStore{db: db.kv}
}

func (st *settingsStore) Get(_ context.Context, key string) (string, error) {
	st.db.mutex.RLock()
	defer st.db.mutex.RUnlock()

	if val, ok := st.db.table[key]; ok {
		return val, nil
	}
	return "", settings.ErrKeyNotFound
}

func (st *settingsStore) Set(_ context.Context, key, value string) error {
	st.db.mutex.Lock()
	defer st.db.mutex.Unlock()

	st.db.table[key] = value
	return nil
}
