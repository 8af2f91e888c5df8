package database

import (
	"database/sql"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/cptracker/core"
	appfs "github.com/trezcool/cptracker/fs"
)

// Engines
const (
	Postgres = "postgres"
	SQLite   = "sqlite3"
)

// sqliteDriver is go-sqlite3 with a "ulower" SQL function folding case like strings.ToLower.
// sqlite's own LOWER only folds ASCII letters.
const sqliteDriver = "sqlite3_ulower"

var gooseRunFunc = goose.Run // mockable

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

// LowerFunc returns the SQL function lowering text the way strings.ToLower does on the given engine.
func LowerFunc(engine string) string {
	if engine == SQLite {
		return "ulower"
	}
	return "LOWER"
}

// dsn returns the data source name of the configured database.
func dsn(conf core.DatabaseConfig) (string, error) {
	switch conf.Engine {
	case Postgres:
		sslMode := "require"
		if conf.DisableTLS {
			sslMode = "disable"
		}
		q := make(url.Values)
		q.Set("sslmode", sslMode)
		q.Set("timezone", "utc")

		u := url.URL{
			Scheme:   conf.Engine,
			User:     url.UserPassword(conf.User, conf.Password),
			Host:     conf.Address(),
			Path:     conf.Name,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	case SQLite:
		return conf.Path, nil
	default:
		return "", errors.Errorf("unsupported database engine %q", conf.Engine)
	}
}

// Open opens the configured database and waits for it to be ready.
func Open(conf core.DatabaseConfig) (*sqlx.DB, error) {
	src, err := dsn(conf)
	if err != nil {
		return nil, err
	}
	driver := conf.Engine
	if conf.Engine == SQLite {
		driver = sqliteDriver
	}
	sqlDB, err := sql.Open(driver, src)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	db := sqlx.NewDb(sqlDB, conf.Engine)
	if conf.Engine == SQLite {
		// sqlite allows a single writer; an in-memory DB also lives and dies with its connection
		db.SetMaxOpenConns(1)
	}
	if err := ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// RunMigrations runs a goose command (up, down, status, ...) with the embedded migrations of the DB engine.
func RunMigrations(db *sqlx.DB, command string, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(db.DriverName()); err != nil {
		return errors.Wrap(err, "setting migrations dialect")
	}
	return gooseRunFunc(command, db.DB, path.Join("migrations", db.DriverName()), args...)
}

func Migrate(db *sqlx.DB) error {
	if err := RunMigrations(db, "up"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
