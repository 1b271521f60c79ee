package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindUnexpected Kind = iota
	KindClientInput
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindClientInput:
		return "client_input"
	case KindUpstream:
		return "upstream"
	default:
		return "unexpected"
	}
}

// Error is the error type returned by the normalizer and the dispatcher.
// Message is safe to return to API callers as-is.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind and message, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrNoAudio            = &Error{Kind: KindClientInput, Message: "No audio file provided"}
	ErrNoQuestion         = &Error{Kind: KindClientInput, Message: "No question provided"}
	ErrUnrecognizedSpeech = &Error{Kind: KindClientInput, Message: "Could not understand audio"}
)

func NewClientError(format string, args ...any) *Error {
	return &Error{Kind: KindClientInput, Message: fmt.Sprintf(format, args...)}
}

func NewDecodeError(err error) *Error {
	return &Error{Kind: KindClientInput, Message: fmt.Sprintf("Could not decode image: %v", err), Err: err}
}

func NewSpeechServiceError(err error) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf("Speech recognition service error: %v", err), Err: err}
}

func NewLLMError(err error) *Error {
	return &Error{Kind: KindUpstream, Message: err.Error(), Err: err}
}

// StatusCode maps an error to the HTTP status the API answers with.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindClientInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message returns the caller-facing text for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
