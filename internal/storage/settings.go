package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/sandeepkv93/countdown/internal/model"
)

// Settings are the application-wide persisted preferences.
type Settings struct {
	MostRecentOptions      model.TimerOptions
	WindowSize             model.WindowSize
	ShowInNotificationArea bool
}

func DefaultSettings() Settings {
	return Settings{MostRecentOptions: model.DefaultTimerOptions()}
}

// LoadSettings reads the settings keys, keeping defaults for missing ones. A
// malformed value is reported together with the settings loaded so far.
func LoadSettings(ctx context.Context, repo Repository) (Settings, error) {
	out := DefaultSettings()
	var errs []error

	if raw, err := repo.GetSetting(ctx, SettingMostRecentOptions); err == nil {
		opts := model.DefaultTimerOptions()
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", SettingMostRecentOptions, err))
		} else {
			out.MostRecentOptions = opts
		}
	} else if !errors.Is(err, ErrNotFound) {
		return out, err
	}

	if raw, err := repo.GetSetting(ctx, SettingWindowSize); err == nil {
		var size model.WindowSize
		if err := json.Unmarshal([]byte(raw), &size); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", SettingWindowSize, err))
		} else {
			out.WindowSize = size
		}
	} else if !errors.Is(err, ErrNotFound) {
		return out, err
	}

	if raw, err := repo.GetSetting(ctx, SettingShowInNotificationArea); err == nil {
		v, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", SettingShowInNotificationArea, parseErr))
		} else {
			out.ShowInNotificationArea = v
		}
	} else if !errors.Is(err, ErrNotFound) {
		return out, err
	}

	return out, errors.Join(errs...)
}

func SaveSettings(ctx context.Context, repo Repository, s Settings) error {
	opts, err := json.Marshal(s.MostRecentOptions)
	if err != nil {
		return fmt.Errorf("encode %s: %w", SettingMostRecentOptions, err)
	}
	size, err := json.Marshal(s.WindowSize)
	if err != nil {
		return fmt.Errorf("encode %s: %w", SettingWindowSize, err)
	}
	if err := repo.PutSetting(ctx, SettingMostRecentOptions, string(opts)); err != nil {
		return err
	}
	if s.WindowSize.IsZero() {
		if err := repo.DeleteSetting(ctx, SettingWindowSize); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	} else if err := repo.PutSetting(ctx, SettingWindowSize, string(size)); err != nil {
		return err
	}
	return repo.PutSetting(ctx, SettingShowInNotificationArea, strconv.FormatBool(s.ShowInNotificationArea))
}
