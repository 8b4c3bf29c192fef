package database

import (
	"context"
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/kidlearn/core"
)

//go:embed migrations/*.sql
var migrations embed.FS

func open(cfg core.DatabaseConfig, dbName, usr, pwd string) (*sqlx.DB, error) {
	sslMode := "require"
	if cfg.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(usr, pwd),
		Host:     cfg.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sqlx.Open("postgres", u.String())
}

// Open opens the app database as the app user.
func Open(cfg core.DatabaseConfig) (*sqlx.DB, error) {
	return open(cfg, cfg.Name, cfg.User, cfg.Password)
}

// OpenAdmin opens the maintenance database as the admin user.
func OpenAdmin(cfg core.DatabaseConfig) (*sqlx.DB, error) {
	return open(cfg, "postgres", cfg.AdminUser, cfg.AdminPassword)
}

// StatusCheck waits for the database to be ready, backing off between attempts,
// then runs a proper round trip query.
func StatusCheck(ctx context.Context, db *sqlx.DB) error {
	var pingError error
	for attempts := 1; ; attempts++ {
		if pingError = db.Ping(); pingError == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
		if ctx.Err() != nil {
			return errors.Wrap(pingError, "database not ready")
		}
	}

	const q = `SELECT true`
	var tmp bool
	return db.QueryRowContext(ctx, q).Scan(&tmp)
}

// CreateIfNotExist creates the app user and database using admin credentials.
func CreateIfNotExist(cfg core.DatabaseConfig) error {
	db, err := OpenAdmin(cfg)
	if err != nil {
		return errors.Wrap(err, "opening admin database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = StatusCheck(ctx, db); err != nil {
		return errors.Wrap(err, "database status check")
	}

	var exists bool
	if err = db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)`, cfg.User); err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !exists {
		q := fmt.Sprintf(`CREATE ROLE %s WITH LOGIN PASSWORD '%s'`, cfg.User, cfg.Password)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}

	if err = db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.Name); err != nil {
		return errors.Wrap(err, "checking app database")
	}
	if !exists {
		q := fmt.Sprintf(`CREATE DATABASE %s OWNER %s`, cfg.Name, cfg.User)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app database")
		}
	}
	return nil
}

// Migrate brings the schema up to date.
func Migrate(db *sqlx.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	return errors.Wrap(goose.Up(db.DB, "migrations"), "applying migrations")
}
