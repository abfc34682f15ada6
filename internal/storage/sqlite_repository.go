package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

var _ Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens the database file and brings its schema up to date.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *SQLiteRepository) PutSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, mustTime(r.now()),
	)
	return err
}

func (r *SQLiteRepository) DeleteSetting(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) CreateTimer(ctx context.Context, in TimerRecord) error {
	return insertTimer(ctx, r.db, in, r.now())
}

func (r *SQLiteRepository) GetTimer(ctx context.Context, id string) (TimerRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, state, input, start_time, end_time, paused_left_ms, options, position, updated_at
		FROM timers WHERE id = ?`, id)
	rec, err := scanTimer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TimerRecord{}, ErrNotFound
		}
		return TimerRecord{}, err
	}
	return rec, nil
}

func (r *SQLiteRepository) UpdateTimer(ctx context.Context, in TimerRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE timers
		SET state = ?, input = ?, start_time = ?, end_time = ?, paused_left_ms = ?, options = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		in.State, in.Input, nullTime(in.StartTime), nullTime(in.EndTime), in.PausedLeft.Milliseconds(),
		optionsOrEmpty(in.Options), in.Position, mustTime(r.now()), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTimer(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTimers(ctx context.Context, filter TimerListFilter) ([]TimerRecord, error) {
	query := `SELECT id, state, input, start_time, end_time, paused_left_ms, options, position, updated_at FROM timers`
	args := make([]any, 0, 3)
	if filter.State != "" {
		query += ` WHERE state = ?`
		args = append(args, filter.State)
	}
	query += ` ORDER BY position ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TimerRecord, 0)
	for rows.Next() {
		rec, scanErr := scanTimer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ReplaceTimers(ctx context.Context, in []TimerRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM timers`); err != nil {
		return err
	}
	now := r.now()
	for i, rec := range in {
		rec.Position = i
		if err := insertTimer(ctx, tx, rec, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) ListRecentInputs(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT input FROM recent_inputs ORDER BY position ASC`
	args := make([]any, 0, 1)
	query += applyPagination(&args, limit, 0)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var input string
		if err := rows.Scan(&input); err != nil {
			return nil, err
		}
		out = append(out, input)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ReplaceRecentInputs(ctx context.Context, inputs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recent_inputs`); err != nil {
		return err
	}
	for i, input := range dedupeInputs(inputs) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO recent_inputs (position, input) VALUES (?, ?)`, i, input); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTimer(ctx context.Context, db execer, in TimerRecord, now time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO timers (id, state, input, start_time, end_time, paused_left_ms, options, position, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.State, in.Input, nullTime(in.StartTime), nullTime(in.EndTime), in.PausedLeft.Milliseconds(),
		optionsOrEmpty(in.Options), in.Position, mustTime(now),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: timer %s", ErrConflict, in.ID)
		}
		return err
	}
	return nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTimer(s scanner) (TimerRecord, error) {
	var out TimerRecord
	var start sql.NullString
	var end sql.NullString
	var pausedMS int64
	var updated string
	if err := s.Scan(&out.ID, &out.State, &out.Input, &start, &end, &pausedMS, &out.Options, &out.Position, &updated); err != nil {
		return TimerRecord{}, err
	}
	startAt, err := parseNullableTime(start)
	if err != nil {
		return TimerRecord{}, err
	}
	endAt, err := parseNullableTime(end)
	if err != nil {
		return TimerRecord{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return TimerRecord{}, err
	}
	out.StartTime = startAt
	out.EndTime = endAt
	out.PausedLeft = time.Duration(pausedMS) * time.Millisecond
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func optionsOrEmpty(v string) string {
	if strings.TrimSpace(v) == "" {
		return "{}"
	}
	return v
}

func dedupeInputs(inputs []string) []string {
	seen := make(map[string]struct{}, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}
		if _, ok := seen[in]; ok {
			continue
		}
		seen[in] = struct{}{}
		out = append(out, in)
	}
	return out
}
