package sound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/countdown/internal/model"
)

var ErrNoPlayerCommand = errors.New("sound: no audio player command available")

type PlaybackKind string

const (
	PlaybackStarted   PlaybackKind = "started"
	PlaybackStopped   PlaybackKind = "stopped"
	PlaybackCompleted PlaybackKind = "completed"
)

type PlaybackEvent struct {
	Kind  PlaybackKind
	Sound string
	Err   error
}

// Player plays notification sounds. Play replaces whatever is playing.
type Player interface {
	Play(s *model.Sound, loop bool) error
	Stop()
	IsPlaying() bool
	Events() <-chan PlaybackEvent
}

// Runner runs one playback of a file and returns when it ends or ctx is done.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

const bellInterval = time.Second

// ExecPlayer plays files through an external command and rings the terminal
// bell for the built-in sound. Playback runs on its own goroutine.
type ExecPlayer struct {
	mu      sync.Mutex
	command []string
	bell    io.Writer
	run     Runner
	logger  *slog.Logger
	events  chan PlaybackEvent
	cancel  context.CancelFunc
	playing bool
	gen     uint64
	dropped uint64
}

type Option func(*ExecPlayer)

func WithRunner(r Runner) Option {
	return func(p *ExecPlayer) { p.run = r }
}

func WithBell(w io.Writer) Option {
	return func(p *ExecPlayer) { p.bell = w }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *ExecPlayer) { p.logger = l }
}

// NewExecPlayer uses command when set, otherwise the first player found on
// PATH for the platform.
func NewExecPlayer(command string, opts ...Option) *ExecPlayer {
	p := &ExecPlayer{
		command: strings.Fields(command),
		bell:    os.Stderr,
		run:     execRunner,
		logger:  slog.Default(),
		events:  make(chan PlaybackEvent, 16),
	}
	if len(p.command) == 0 {
		if name := DetectCommand(); name != "" {
			p.command = []string{name}
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DetectCommand returns the first known audio player on PATH.
func DetectCommand() string {
	candidates := []string{"paplay", "pw-play", "aplay", "ffplay"}
	if runtime.GOOS == "darwin" {
		candidates = []string{"afplay"}
	}
	for _, name := range candidates {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return ""
}

func (p *ExecPlayer) Events() <-chan PlaybackEvent {
	return p.events
}

func (p *ExecPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *ExecPlayer) Play(s *model.Sound, loop bool) error {
	if s == nil {
		p.Stop()
		return nil
	}
	var once func(ctx context.Context) error
	switch {
	case s.IsBell():
		once = p.ringBell
	case s.Path == "":
		return fmt.Errorf("sound: %q has no file", s.Name)
	case len(p.command) == 0:
		return ErrNoPlayerCommand
	default:
		args := append(append([]string{}, p.command[1:]...), s.Path)
		name := p.command[0]
		once = func(ctx context.Context) error { return p.run(ctx, name, args...) }
	}

	p.mu.Lock()
	p.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	p.gen++
	gen := p.gen
	p.cancel = cancel
	p.playing = true
	p.publish(PlaybackEvent{Kind: PlaybackStarted, Sound: s.Name})
	p.mu.Unlock()

	go p.loop(ctx, gen, s.Name, loop, once)
	return nil
}

func (p *ExecPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *ExecPlayer) stopLocked() {
	if !p.playing {
		return
	}
	p.cancel()
	p.cancel = nil
	p.playing = false
	p.publish(PlaybackEvent{Kind: PlaybackStopped})
}

func (p *ExecPlayer) loop(ctx context.Context, gen uint64, name string, loop bool, once func(context.Context) error) {
	for {
		err := once(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.logger.Warn("sound playback failed", "sound", name, "error", err)
		}
		if !loop || err != nil {
			p.finish(gen, name, err)
			return
		}
	}
}

func (p *ExecPlayer) finish(gen uint64, name string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || !p.playing {
		return
	}
	p.cancel()
	p.cancel = nil
	p.playing = false
	p.publish(PlaybackEvent{Kind: PlaybackCompleted, Sound: name, Err: err})
}

func (p *ExecPlayer) ringBell(ctx context.Context) error {
	if _, err := io.WriteString(p.bell, "\a"); err != nil {
		return err
	}
	t := time.NewTimer(bellInterval)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// publish never blocks; events are dropped when nobody is listening.
func (p *ExecPlayer) publish(ev PlaybackEvent) {
	select {
	case p.events <- ev:
	default:
		p.dropped++
	}
}
