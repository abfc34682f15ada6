package sound

import "github.com/sandeepkv93/countdown/internal/model"

// Recorder is a Player that only records what it was asked to play.
type Recorder struct {
	Played  []string
	Looped  []bool
	Stops   int
	playing bool
	events  chan PlaybackEvent
}

func NewRecorder() *Recorder {
	return &Recorder{events: make(chan PlaybackEvent, 8)}
}

func (r *Recorder) Play(s *model.Sound, loop bool) error {
	r.Played = append(r.Played, s.Name)
	r.Looped = append(r.Looped, loop)
	r.playing = true
	return nil
}

func (r *Recorder) Stop() {
	r.Stops++
	r.playing = false
}

func (r *Recorder) IsPlaying() bool { return r.playing }

func (r *Recorder) Events() <-chan PlaybackEvent { return r.events }
