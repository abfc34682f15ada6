package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps everything in process memory. It backs the
// "memory" store driver and is the fallback when the configured store
// cannot be opened.
type MemoryRepository struct {
	mu       sync.Mutex
	settings map[string]string
	timers   map[string]TimerRecord
	recent   []string
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		settings: make(map[string]string),
		timers:   make(map[string]TimerRecord),
		now:      time.Now,
	}
}

func (r *MemoryRepository) Close() error { return nil }

func (r *MemoryRepository) GetSetting(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.settings[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (r *MemoryRepository) PutSetting(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[key] = value
	return nil
}

func (r *MemoryRepository) DeleteSetting(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.settings[key]; !ok {
		return ErrNotFound
	}
	delete(r.settings, key)
	return nil
}

func (r *MemoryRepository) CreateTimer(_ context.Context, in TimerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.timers[in.ID]; ok {
		return fmt.Errorf("%w: timer %s", ErrConflict, in.ID)
	}
	in.Options = optionsOrEmpty(in.Options)
	in.UpdatedAt = r.now().UTC()
	r.timers[in.ID] = in
	return nil
}

func (r *MemoryRepository) GetTimer(_ context.Context, id string) (TimerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.timers[id]
	if !ok {
		return TimerRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *MemoryRepository) UpdateTimer(_ context.Context, in TimerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.timers[in.ID]; !ok {
		return ErrNotFound
	}
	in.Options = optionsOrEmpty(in.Options)
	in.UpdatedAt = r.now().UTC()
	r.timers[in.ID] = in
	return nil
}

func (r *MemoryRepository) DeleteTimer(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.timers[id]; !ok {
		return ErrNotFound
	}
	delete(r.timers, id)
	return nil
}

func (r *MemoryRepository) ListTimers(_ context.Context, filter TimerListFilter) ([]TimerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TimerRecord, 0, len(r.timers))
	for _, rec := range r.timers {
		if filter.State != "" && rec.State != filter.State {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *MemoryRepository) ReplaceTimers(_ context.Context, in []TimerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make(map[string]TimerRecord, len(in))
	now := r.now().UTC()
	for i, rec := range in {
		if _, ok := next[rec.ID]; ok {
			return fmt.Errorf("%w: timer %s", ErrConflict, rec.ID)
		}
		rec.Position = i
		rec.Options = optionsOrEmpty(rec.Options)
		rec.UpdatedAt = now
		next[rec.ID] = rec
	}
	r.timers = next
	return nil
}

func (r *MemoryRepository) ListRecentInputs(_ context.Context, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.recent))
	copy(out, r.recent)
	return paginate(out, limit, 0), nil
}

func (r *MemoryRepository) ReplaceRecentInputs(_ context.Context, inputs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recent = dedupeInputs(inputs)
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
