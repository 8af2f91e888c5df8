package settings

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// errors
	ErrKeyNotFound = errors.New("settings key not found")
)

type (
	// Store is a string key/value store.
	Store interface {
		// Get returns ErrKeyNotFound when key was never set.
		Get(ctx context.Context, key string) (string, error)
		Set(ctx context.Context, key, value string) error
	}

	Service struct {
		store    Store
		validate *validator.Validate
		now      func() time.Time

		mu        sync.Mutex // serializes read-modify-write cycles
		listeners []func(SyncSettings)
	}
)

func NewService(store Store, validate *validator.Validate) *Service {
	return &Service{store: store, validate: validate, now: time.Now}
}

// OnSyncChange registers fn to be called with the new settings after every update.
func (svc *Service) OnSyncChange(fn func(SyncSettings)) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.listeners = append(svc.listeners, fn)
}

// load decodes the JSON value of key into v. It reports false when the key is missing or holds garbage.
func (svc *Service) load(ctx context.Context, key string, v interface{}) (bool, error) {
	raw, err := svc.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, nil
	}
	return true, nil
}

func (svc *Service) save(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return svc.store.Set(ctx, key, string(raw))
}

// SyncSettings returns the stored settings, or the defaults when nothing valid is stored.
func (svc *Service) SyncSettings(ctx context.Context) (SyncSettings, error) {
	var s SyncSettings
	ok, err := svc.load(ctx, KeySyncSettings, &s)
	if err != nil {
		return SyncSettings{}, err
	}
	if !ok || s.Validate(svc.validate) != nil {
		return DefaultSyncSettings(), nil
	}
	return s, nil
}

// UpdateSync merges patch into the stored settings. The patch must have been validated.
func (svc *Service) UpdateSync(ctx context.Context, patch SyncSettingsPatch) (SyncSettings, error) {
	svc.mu.Lock()
	curr, err := svc.SyncSettings(ctx)
	if err != nil {
		svc.mu.Unlock()
		return SyncSettings{}, err
	}
	s := patch.apply(curr)
	if err := s.Validate(svc.validate); err != nil {
		svc.mu.Unlock()
		return SyncSettings{}, err
	}
	if err := svc.save(ctx, KeySyncSettings, s); err != nil {
		svc.mu.Unlock()
		return SyncSettings{}, err
	}
	listeners := append([]func(SyncSettings){}, svc.listeners...)
	svc.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
	return s, nil
}

// Overview returns the settings along with their derived status and next run.
func (svc *Service) Overview(ctx context.Context) (SyncOverview, error) {
	s, err := svc.SyncSettings(ctx)
	if err != nil {
		return SyncOverview{}, err
	}
	last, err := svc.LastSyncTime(ctx)
	if err != nil {
		return SyncOverview{}, err
	}

	ov := SyncOverview{SyncSettings: s, Status: s.Status(), LastSyncTime: last}
	if s.Enabled {
		next := s.NextRun(svc.now())
		ov.NextRun = &next
	}
	return ov, nil
}

// Theme returns the stored theme, light by default.
func (svc *Service) Theme(ctx context.Context) (Theme, error) {
	var t Theme
	ok, err := svc.load(ctx, KeyTheme, &t)
	if err != nil {
		return "", err
	}
	if !ok || (t != Light && t != Dark) {
		return Light, nil
	}
	return t, nil
}

func (svc *Service) ToggleTheme(ctx context.Context) (Theme, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	t, err := svc.Theme(ctx)
	if err != nil {
		return "", err
	}
	t = t.Toggle()
	if err := svc.save(ctx, KeyTheme, t); err != nil {
		return "", err
	}
	return t, nil
}

// LastSyncTime returns the time of the last sync run. It is initialized to now on first read.
func (svc *Service) LastSyncTime(ctx context.Context) (time.Time, error) {
	var t time.Time
	ok, err := svc.load(ctx, KeyLastSyncTime, &t)
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return t, nil
	}

	t = svc.now().UTC().Truncate(time.Millisecond)
	if err := svc.SetLastSyncTime(ctx, t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (svc *Service) SetLastSyncTime(ctx context.Context, t time.Time) error {
	return svc.save(ctx, KeyLastSyncTime, t.UTC())
}
