package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeStart      Type = "start"
	TypePause      Type = "pause"
	TypeResume     Type = "resume"
	TypeToggle     Type = "toggle"
	TypeStop       Type = "stop"
	TypeReset      Type = "reset"
	TypeClose      Type = "close"
	TypeFullScreen Type = "fullscreen"
	TypeNew        Type = "new"
	TypeTitle      Type = "title"
	TypeSound      Type = "sound"
	TypeSet        Type = "set"
	TypeAttach     Type = "attach"
	TypeAbout      Type = "about"
)

var aliases = map[string]Type{
	"go":           TypeStart,
	"pr":           TypeToggle,
	"pause/resume": TypeToggle,
	"fs":           TypeFullScreen,
	"full-screen":  TypeFullScreen,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeLocked          ErrorCode = "locked"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func LockedError(action string) *CommandError {
	return &CommandError{Code: ErrCodeLocked, Message: action + " is disabled while the interface is locked"}
}

// Option names a boolean timer or application option for "set".
type Option string

const (
	OptionAlwaysOnTop            Option = "always-on-top"
	OptionPromptOnExit           Option = "prompt-on-exit"
	OptionShowProgress           Option = "show-progress"
	OptionShowInNotificationArea Option = "show-in-notification-area"
	OptionShowTimeElapsed        Option = "show-time-elapsed"
	OptionLoopTimer              Option = "loop-timer"
	OptionLoopSound              Option = "loop-sound"
	OptionLockInterface          Option = "lock-interface"
)

var options = []Option{
	OptionAlwaysOnTop,
	OptionPromptOnExit,
	OptionShowProgress,
	OptionShowInNotificationArea,
	OptionShowTimeElapsed,
	OptionLoopTimer,
	OptionLoopSound,
	OptionLockInterface,
}

func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// ParseOption accepts dashes, underscores, spaces or camelCase.
func ParseOption(s string) (Option, bool) {
	key := normalizeOption(s)
	for _, opt := range options {
		if normalizeOption(string(opt)) == key {
			return opt, true
		}
	}
	if key == "showprogressintaskbar" {
		return OptionShowProgress, true
	}
	return "", false
}

func normalizeOption(s string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

type StartArgs struct {
	Input string
}

type NewArgs struct {
	Input string
}

type TitleArgs struct {
	Text string
}

type SoundArgs struct {
	Name string
}

// SetArgs toggles the option when Value is nil.
type SetArgs struct {
	Option Option
	Value  *bool
}

type AttachArgs struct {
	TimerID string
}

type Command struct {
	Type   Type
	Raw    string
	Start  *StartArgs
	New    *NewArgs
	Title  *TitleArgs
	Sound  *SoundArgs
	Set    *SetArgs
	Attach *AttachArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(raw, parts[0]))

	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypePause, TypeResume, TypeToggle, TypeStop, TypeReset, TypeClose, TypeFullScreen, TypeAbout:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", typ)}
		}
		return Command{Type: typ, Raw: input}, nil
	case TypeStart:
		if rest == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "start requires a duration or end time"}
		}
		return Command{Type: TypeStart, Raw: input, Start: &StartArgs{Input: rest}}, nil
	case TypeNew:
		return Command{Type: TypeNew, Raw: input, New: &NewArgs{Input: rest}}, nil
	case TypeTitle:
		return Command{Type: TypeTitle, Raw: input, Title: &TitleArgs{Text: rest}}, nil
	case TypeSound:
		if rest == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sound requires a name or none"}
		}
		return Command{Type: TypeSound, Raw: input, Sound: &SoundArgs{Name: rest}}, nil
	case TypeSet:
		return parseSet(input, args)
	case TypeAttach:
		if len(args) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "attach requires a timer id"}
		}
		return Command{Type: TypeAttach, Raw: input, Attach: &AttachArgs{TimerID: args[0]}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires an option"}
	}
	valueArgs := args[1:]
	opt, ok := ParseOption(args[0])
	if !ok && len(args) > 1 {
		// allow "set loop timer on"
		if joined, okJoined := ParseOption(args[0] + args[1]); okJoined {
			opt, ok = joined, true
			valueArgs = args[2:]
		}
	}
	if !ok {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown option: %s", args[0])}
	}
	if len(valueArgs) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set takes at most one value"}
	}
	out := &SetArgs{Option: opt}
	if len(valueArgs) == 1 {
		v, ok := parseSwitch(valueArgs[0])
		if !ok {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid value %q, want on or off", valueArgs[0])}
		}
		out.Value = &v
	}
	return Command{Type: TypeSet, Raw: raw, Set: out}, nil
}

func parseSwitch(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, true
	case "off", "false", "no", "0":
		return false, true
	default:
		return false, false
	}
}
