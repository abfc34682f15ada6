package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/countdown/internal/config"
	"github.com/sandeepkv93/countdown/internal/model"
	"github.com/sandeepkv93/countdown/internal/notify"
	"github.com/sandeepkv93/countdown/internal/sound"
	"github.com/sandeepkv93/countdown/internal/storage"
	"github.com/sandeepkv93/countdown/internal/timer"
)

// App is the application context shared by every window: the live timers,
// the recent inputs, persisted settings and the sound and notification
// backends.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Store    storage.Repository
	Registry *timer.Registry
	Recent   *model.RecentStarts
	Settings storage.Settings
	Clock    timer.Clock
	Player   sound.Player
	Trigger  *sound.Trigger
	Catalog  *sound.Catalog
	Notifier notify.Notifier

	unbind map[string]func()
	saveMu sync.Mutex
}

type Option func(*App)

func WithClock(c timer.Clock) Option {
	return func(a *App) { a.Clock = c }
}

func WithPlayer(p sound.Player) Option {
	return func(a *App) { a.Player = p }
}

func WithCatalog(c *sound.Catalog) Option {
	return func(a *App) { a.Catalog = c }
}

func WithNotifier(n notify.Notifier) Option {
	return func(a *App) { a.Notifier = n }
}

// New builds the context. A nil store falls back to an in-memory one.
func New(cfg config.Config, store storage.Repository, logger *slog.Logger, opts ...Option) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = storage.NewMemoryRepository()
	}
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Registry: timer.NewRegistry(),
		Recent:   model.NewRecentStarts(cfg.MaxRecentInputs),
		Settings: storage.DefaultSettings(),
		Clock:    timer.SystemClock,
		unbind:   make(map[string]func()),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Player == nil {
		a.Player = sound.NewExecPlayer(cfg.Sound.Command, sound.WithLogger(logger))
	}
	if a.Catalog == nil {
		catalog, err := sound.LoadCatalog(cfg.Sound.Dir)
		if err != nil {
			logger.Warn("load sound catalog", "dir", cfg.Sound.Dir, "error", err)
		}
		a.Catalog = catalog
	}
	if a.Notifier == nil {
		if cfg.DesktopNotifications {
			a.Notifier = notify.Exec{}
		} else {
			a.Notifier = notify.Noop{}
		}
	}
	a.Trigger = sound.NewTrigger(a.Player, logger)
	return a
}

// NewTimer creates a tracked timer seeded from the most recent options.
func (a *App) NewTimer() *timer.Timer {
	t := timer.New(a.Settings.MostRecentOptions, a.Clock)
	a.Track(t)
	return t
}

// Track registers t and binds its notification sound.
func (a *App) Track(t *timer.Timer) {
	if _, ok := a.unbind[t.ID()]; ok {
		return
	}
	a.Registry.Add(t)
	a.unbind[t.ID()] = a.Trigger.Bind(t)
}

// Untrack forgets t, silencing its sound if it is the one playing.
func (a *App) Untrack(id string) {
	if unbind, ok := a.unbind[id]; ok {
		unbind()
		delete(a.unbind, id)
	}
	a.Trigger.Silence(id)
	a.Registry.Remove(id)
}

// Remember records options and the input of a successful start so the next
// timer is seeded from them.
func (a *App) Remember(t *timer.Timer) {
	a.Settings.MostRecentOptions = t.Options().Clone()
	a.Settings.MostRecentOptions.Title = ""
	if ts := t.LastStart(); !ts.IsZero() {
		a.Recent.Add(ts)
	}
}

// Load restores settings, recent inputs and the running and paused timers.
// Failures are reported but leave defaults in place.
func (a *App) Load(ctx context.Context) ([]*timer.Timer, error) {
	var errs []error

	settings, err := storage.LoadSettings(ctx, a.Store)
	if err != nil {
		errs = append(errs, fmt.Errorf("load settings: %w", err))
	}
	a.Settings = settings

	inputs, err := a.Store.ListRecentInputs(ctx, a.Config.MaxRecentInputs)
	if err != nil {
		errs = append(errs, fmt.Errorf("load recent inputs: %w", err))
	} else {
		a.Recent.Load(inputs)
	}

	records, err := a.Store.ListTimers(ctx, storage.TimerListFilter{})
	if err != nil {
		errs = append(errs, fmt.Errorf("load timers: %w", err))
		return nil, errors.Join(errs...)
	}
	restored := make([]*timer.Timer, 0, len(records))
	for _, rec := range records {
		snap, err := snapshotFromRecord(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !snap.State.Active() {
			continue
		}
		t, err := timer.Restore(snap, a.Clock)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore timer %s: %w", rec.ID, err))
			continue
		}
		a.Track(t)
		restored = append(restored, t)
	}
	if len(restored) > 0 {
		a.Logger.Info("restored timers", "count", len(restored))
	}
	return restored, errors.Join(errs...)
}

// State is an immutable copy of everything that gets persisted. It is taken
// on the UI goroutine and may be saved from any other.
type State struct {
	Settings storage.Settings
	Timers   []timer.Snapshot
	Recent   []string
}

func (a *App) Snapshot() State {
	s := State{
		Settings: a.Settings,
		Recent:   a.Recent.Strings(),
	}
	s.Settings.MostRecentOptions = a.Settings.MostRecentOptions.Clone()
	for _, t := range a.Registry.Resumable() {
		s.Timers = append(s.Timers, t.Snapshot())
	}
	return s
}

// Save writes s to the store. Concurrent saves are serialized.
func (a *App) Save(ctx context.Context, s State) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	var errs []error
	if err := storage.SaveSettings(ctx, a.Store, s.Settings); err != nil {
		errs = append(errs, fmt.Errorf("save settings: %w", err))
	}
	records := make([]storage.TimerRecord, 0, len(s.Timers))
	for i, snap := range s.Timers {
		rec, err := recordFromSnapshot(snap, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	if err := a.Store.ReplaceTimers(ctx, records); err != nil {
		errs = append(errs, fmt.Errorf("save timers: %w", err))
	}
	if err := a.Store.ReplaceRecentInputs(ctx, s.Recent); err != nil {
		errs = append(errs, fmt.Errorf("save recent inputs: %w", err))
	}
	return errors.Join(errs...)
}

// SaveTimer writes a single timer's row. An active timer is updated in place,
// keeping its stored position, or created at position on its first save; any
// other timer's row is deleted.
func (a *App) SaveTimer(ctx context.Context, snap timer.Snapshot, position int) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	if !snap.State.Active() {
		if err := a.Store.DeleteTimer(ctx, snap.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete timer %s: %w", snap.ID, err)
		}
		return nil
	}
	rec, err := recordFromSnapshot(snap, position)
	if err != nil {
		return err
	}
	existing, err := a.Store.GetTimer(ctx, snap.ID)
	switch {
	case err == nil:
		rec.Position = existing.Position
		if err := a.Store.UpdateTimer(ctx, rec); err != nil {
			return fmt.Errorf("update timer %s: %w", snap.ID, err)
		}
	case errors.Is(err, storage.ErrNotFound):
		if err := a.Store.CreateTimer(ctx, rec); err != nil {
			return fmt.Errorf("create timer %s: %w", snap.ID, err)
		}
	default:
		return fmt.Errorf("get timer %s: %w", snap.ID, err)
	}
	return nil
}

func (a *App) Persist(ctx context.Context) error {
	return a.Save(ctx, a.Snapshot())
}

// Close stops playback and releases the store.
func (a *App) Close() error {
	a.Trigger.StopAll()
	return a.Store.Close()
}

func recordFromSnapshot(s timer.Snapshot, position int) (storage.TimerRecord, error) {
	opts, err := json.Marshal(s.Options)
	if err != nil {
		return storage.TimerRecord{}, fmt.Errorf("encode options of timer %s: %w", s.ID, err)
	}
	return storage.TimerRecord{
		ID:         s.ID,
		State:      string(s.State),
		Input:      s.Input,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		PausedLeft: s.PausedLeft,
		Options:    string(opts),
		Position:   position,
		UpdatedAt:  time.Now().UTC(),
	}, nil
}

func snapshotFromRecord(rec storage.TimerRecord) (timer.Snapshot, error) {
	opts := model.DefaultTimerOptions()
	if rec.Options != "" {
		if err := json.Unmarshal([]byte(rec.Options), &opts); err != nil {
			return timer.Snapshot{}, fmt.Errorf("decode options of timer %s: %w", rec.ID, err)
		}
	}
	return timer.Snapshot{
		ID:         rec.ID,
		State:      timer.State(rec.State),
		StartTime:  rec.StartTime,
		EndTime:    rec.EndTime,
		PausedLeft: rec.PausedLeft,
		Input:      rec.Input,
		Options:    opts,
	}, nil
}
