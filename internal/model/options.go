package model

type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s WindowSize) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Sound identifies a notification sound by name. A nil *Sound means no sound.
type Sound struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	BuiltIn bool   `json:"built_in"`
}

// BellSound rings the terminal bell instead of playing a file.
var BellSound = Sound{Name: "Bell", BuiltIn: true}

func (s *Sound) DisplayName() string {
	if s == nil {
		return "None"
	}
	return s.Name
}

func (s *Sound) IsBell() bool {
	return s != nil && s.BuiltIn && s.Path == ""
}

func SameSound(a, b *Sound) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name == b.Name
}

// TimerOptions are the per-timer user preferences. They are owned by a single
// timer and copied with Clone when seeding a new one.
type TimerOptions struct {
	Title                 string     `json:"title"`
	AlwaysOnTop           bool       `json:"always_on_top"`
	PromptOnExit          bool       `json:"prompt_on_exit"`
	ShowProgressInTaskbar bool       `json:"show_progress_in_taskbar"`
	ShowTimeElapsed       bool       `json:"show_time_elapsed"`
	LockInterface         bool       `json:"lock_interface"`
	LoopTimer             bool       `json:"loop_timer"`
	LoopSound             bool       `json:"loop_sound"`
	Sound                 *Sound     `json:"sound"`
	WindowSize            WindowSize `json:"window_size"`
}

func DefaultTimerOptions() TimerOptions {
	bell := BellSound
	return TimerOptions{
		PromptOnExit:          true,
		ShowProgressInTaskbar: true,
		Sound:                 &bell,
	}
}

func (o TimerOptions) Clone() TimerOptions {
	out := o
	if o.Sound != nil {
		s := *o.Sound
		out.Sound = &s
	}
	return out
}
