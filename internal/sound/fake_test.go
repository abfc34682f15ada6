package sound

import "github.com/sandeepkv93/countdown/internal/model"

type playCall struct {
	sound string
	loop  bool
}

type fakePlayer struct {
	plays   []playCall
	stops   int
	playing bool
	err     error
	events  chan PlaybackEvent
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{events: make(chan PlaybackEvent, 8)}
}

func (f *fakePlayer) Play(s *model.Sound, loop bool) error {
	if f.err != nil {
		return f.err
	}
	f.plays = append(f.plays, playCall{sound: s.Name, loop: loop})
	f.playing = true
	return nil
}

func (f *fakePlayer) Stop() {
	f.stops++
	f.playing = false
}

func (f *fakePlayer) IsPlaying() bool { return f.playing }

func (f *fakePlayer) Events() <-chan PlaybackEvent { return f.events }
