package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure
type Kind int

const (
	KindIO Kind = iota + 1
	KindFFmpeg
	KindInvalidPath
	KindInvalidInput
	KindUnsupportedFormat
	KindMissingDependency
)

var (
	// Filesystem errors
	ErrIO = errors.New("filesystem error")

	// Transcoding engine errors
	ErrFFmpeg            = errors.New("ffmpeg error")
	ErrMissingDependency = errors.New("missing dependency")

	// Input errors
	ErrInvalidPath       = errors.New("invalid path")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindFFmpeg:
		return ErrFFmpeg
	case KindInvalidPath:
		return ErrInvalidPath
	case KindInvalidInput:
		return ErrInvalidInput
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindMissingDependency:
		return ErrMissingDependency
	}
	return nil
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a classified failure with an optional underlying cause.
// errors.Is matches both the kind's sentinel and the cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func NewIOError(msg string, err error) *Error {
	return &Error{Kind: KindIO, Msg: msg, Err: err}
}

func NewFFmpegError(msg string, err error) *Error {
	return &Error{Kind: KindFFmpeg, Msg: msg, Err: err}
}

func NewInvalidPath(msg string) *Error {
	return &Error{Kind: KindInvalidPath, Msg: msg}
}

func NewInvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg}
}

func NewUnsupportedFormat(msg string) *Error {
	return &Error{Kind: KindUnsupportedFormat, Msg: msg}
}

func NewMissingDependency(msg string, err error) *Error {
	return &Error{Kind: KindMissingDependency, Msg: msg, Err: err}
}
