package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Start      func(StartArgs) (Result, error)
	Pause      func() (Result, error)
	Resume     func() (Result, error)
	Toggle     func() (Result, error)
	Stop       func() (Result, error)
	Reset      func() (Result, error)
	Close      func() (Result, error)
	FullScreen func() (Result, error)
	New        func(NewArgs) (Result, error)
	Title      func(TitleArgs) (Result, error)
	Sound      func(SoundArgs) (Result, error)
	Set        func(SetArgs) (Result, error)
	Attach     func(AttachArgs) (Result, error)
	About      func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeStart:
		if handlers.Start == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Start(*cmd.Start)
	case TypeNew:
		if handlers.New == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.New(*cmd.New)
	case TypeTitle:
		if handlers.Title == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Title(*cmd.Title)
	case TypeSound:
		if handlers.Sound == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Sound(*cmd.Sound)
	case TypeSet:
		if handlers.Set == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Set(*cmd.Set)
	case TypeAttach:
		if handlers.Attach == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Attach(*cmd.Attach)
	}

	var fn func() (Result, error)
	switch cmd.Type {
	case TypePause:
		fn = handlers.Pause
	case TypeResume:
		fn = handlers.Resume
	case TypeToggle:
		fn = handlers.Toggle
	case TypeStop:
		fn = handlers.Stop
	case TypeReset:
		fn = handlers.Reset
	case TypeClose:
		fn = handlers.Close
	case TypeFullScreen:
		fn = handlers.FullScreen
	case TypeAbout:
		fn = handlers.About
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
	if fn == nil {
		return Result{}, missing(cmd.Type)
	}
	return fn()
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
