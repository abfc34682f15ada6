package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "countdown-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestSettingsPutGetOverwriteDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSetting(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.PutSetting(ctx, SettingShowInNotificationArea, "false"); err != nil {
		t.Fatalf("put setting: %v", err)
	}
	if err := repo.PutSetting(ctx, SettingShowInNotificationArea, "true"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}
	got, err := repo.GetSetting(ctx, SettingShowInNotificationArea)
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if got != "true" {
		t.Fatalf("expected overwritten value, got %q", got)
	}
	if err := repo.DeleteSetting(ctx, SettingShowInNotificationArea); err != nil {
		t.Fatalf("delete setting: %v", err)
	}
	if err := repo.DeleteSetting(ctx, SettingShowInNotificationArea); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTimerCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	start := parseRFC3339(t, "2026-02-09T12:00:00Z")
	end := start.Add(10 * time.Minute)

	rec := TimerRecord{
		ID:        "timer-1",
		State:     "Running",
		Input:     "10 minutes",
		StartTime: &start,
		EndTime:   &end,
		Options:   `{"title":"Tea"}`,
	}
	if err := repo.CreateTimer(ctx, rec); err != nil {
		t.Fatalf("create timer: %v", err)
	}
	if err := repo.CreateTimer(ctx, rec); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate id, got %v", err)
	}

	got, err := repo.GetTimer(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get timer: %v", err)
	}
	if got.Input != rec.Input || got.State != "Running" || got.Options != rec.Options {
		t.Fatalf("unexpected timer get result: %#v", got)
	}
	if got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Fatalf("unexpected end time: %v", got.EndTime)
	}

	rec.State = "Paused"
	rec.PausedLeft = 4*time.Minute + 30*time.Second
	if err := repo.UpdateTimer(ctx, rec); err != nil {
		t.Fatalf("update timer: %v", err)
	}

	paused, err := repo.ListTimers(ctx, TimerListFilter{State: "Paused"})
	if err != nil {
		t.Fatalf("list timers: %v", err)
	}
	if len(paused) != 1 || paused[0].PausedLeft != rec.PausedLeft {
		t.Fatalf("unexpected paused list: %#v", paused)
	}

	if err := repo.DeleteTimer(ctx, rec.ID); err != nil {
		t.Fatalf("delete timer: %v", err)
	}
	if _, err := repo.GetTimer(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.UpdateTimer(ctx, rec); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update of missing timer, got %v", err)
	}
}

func TestReplaceTimersKeepsOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateTimer(ctx, TimerRecord{ID: "stale", State: "Stopped"}); err != nil {
		t.Fatalf("create stale: %v", err)
	}
	err := repo.ReplaceTimers(ctx, []TimerRecord{
		{ID: "b", State: "Paused", PausedLeft: time.Minute},
		{ID: "a", State: "Stopped"},
		{ID: "c", State: "Stopped"},
	})
	if err != nil {
		t.Fatalf("replace timers: %v", err)
	}

	all, err := repo.ListTimers(ctx, TimerListFilter{})
	if err != nil {
		t.Fatalf("list timers: %v", err)
	}
	if len(all) != 3 || all[0].ID != "b" || all[1].ID != "a" || all[2].ID != "c" {
		t.Fatalf("unexpected order after replace: %#v", all)
	}
	if all[1].Options != "{}" {
		t.Fatalf("expected default options json, got %q", all[1].Options)
	}

	page, err := repo.ListTimers(ctx, TimerListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if len(page) != 1 || page[0].ID != "a" {
		t.Fatalf("unexpected page: %#v", page)
	}

	if err := repo.ReplaceTimers(ctx, []TimerRecord{{ID: "x", State: "Stopped"}, {ID: "x", State: "Stopped"}}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for duplicate ids, got %v", err)
	}
	after, err := repo.ListTimers(ctx, TimerListFilter{})
	if err != nil {
		t.Fatalf("list after failed replace: %v", err)
	}
	if len(after) != 3 {
		t.Fatalf("failed replace should roll back, got %#v", after)
	}
}

func TestRecentInputsReplaceAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceRecentInputs(ctx, []string{"5:00", "until 17:30", "5:00", " ", "90"}); err != nil {
		t.Fatalf("replace recent: %v", err)
	}
	got, err := repo.ListRecentInputs(ctx, 0)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(got) != 3 || got[0] != "5:00" || got[1] != "until 17:30" || got[2] != "90" {
		t.Fatalf("unexpected recent inputs: %#v", got)
	}

	limited, err := repo.ListRecentInputs(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 inputs, got %#v", limited)
	}
}

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	repo, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "nested", "state.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()
	if err := repo.PutSetting(context.Background(), "k", "v"); err != nil {
		t.Fatalf("put after open: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mongo", "", ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if _, err := Open(context.Background(), DriverPostgres, "", ""); err == nil {
		t.Fatalf("expected error for missing dsn")
	}
}
