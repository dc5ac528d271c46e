package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"skillswap/internal/domain/repository"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

type sqlStore struct {
	db *sqlx.DB
}

// NewSQLStore opens a records table on sqlite3 or postgres (pgx) and creates it when missing.
func NewSQLStore(ctx context.Context, driver, dsn string) (repository.RecordStore, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite serialises writers; one connection avoids "database is locked"
		db.SetMaxOpenConns(1)
	}

	store := &sqlStore{db: db}
	if err := store.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return store, nil
}

func (s *sqlStore) createTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `create table if not exists records(
		key   text not null primary key,
		value text not null
	)`)
	return err
}

func (s *sqlStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(`select value from records where key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("fetching record %q: %w", key, err)
	}
	return value, true, nil
}

func (s *sqlStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`insert into records (key, value) values (?, ?)
		on conflict (key) do update set value = excluded.value`), key, value)
	if err != nil {
		return fmt.Errorf("writing record %q: %w", key, err)
	}
	return nil
}

func (s *sqlStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`delete from records where key = ?`), key)
	if err != nil {
		return fmt.Errorf("deleting record %q: %w", key, err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
