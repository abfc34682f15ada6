package sound

import (
	"log/slog"

	"github.com/sandeepkv93/countdown/internal/timer"
)

// Trigger starts the notification sound when a bound timer expires and stops
// it when that timer is started, resumed or stopped again. The player is
// shared, so only the timer that started the current playback may stop it.
type Trigger struct {
	player Player
	logger *slog.Logger
	owner  string
}

func NewTrigger(player Player, logger *slog.Logger) *Trigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trigger{player: player, logger: logger}
}

func (tr *Trigger) Player() Player {
	return tr.player
}

// Owner is the id of the timer whose sound is playing, if any.
func (tr *Trigger) Owner() string {
	if !tr.player.IsPlaying() {
		return ""
	}
	return tr.owner
}

// Bind subscribes to t and returns the unbind func.
func (tr *Trigger) Bind(t *timer.Timer) func() {
	return t.Subscribe(timer.ObserverFunc(func(ev timer.Event) {
		switch ev.Kind {
		case timer.EventExpired:
			tr.Ring(t)
		case timer.EventStarted, timer.EventResumed, timer.EventStopped:
			tr.Silence(t.ID())
		}
	}))
}

// Ring plays t's configured sound, honouring its loop flag.
func (tr *Trigger) Ring(t *timer.Timer) {
	opts := t.Options()
	if opts.Sound == nil {
		return
	}
	if err := tr.player.Play(opts.Sound, opts.LoopSound); err != nil {
		tr.logger.Warn("play notification sound", "timer", t.ShortID(), "sound", opts.Sound.Name, "error", err)
		return
	}
	tr.owner = t.ID()
}

// Silence stops playback started by the given timer.
func (tr *Trigger) Silence(timerID string) bool {
	if tr.owner != timerID || !tr.player.IsPlaying() {
		return false
	}
	tr.player.Stop()
	tr.owner = ""
	return true
}

// StopAll stops playback regardless of owner.
func (tr *Trigger) StopAll() bool {
	if !tr.player.IsPlaying() {
		return false
	}
	tr.player.Stop()
	tr.owner = ""
	return true
}
