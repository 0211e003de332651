package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch on it instead of matching messages.
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"
	KindTransport  Kind = "TRANSPORT_ERROR"
	KindValidation Kind = "VALIDATION_ERROR"
	KindEncoding   Kind = "ENCODING_ERROR"
	KindStructure  Kind = "STRUCTURE_ERROR"
	KindCompose    Kind = "COMPOSE_ERROR"
)

type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// GameNotFound is returned when the game page has no title section.
func GameNotFound(gameID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("could not find any game with ID %s", gameID),
		Context: map[string]any{"game_id": gameID},
	}
}

func Transport(message, url string, cause error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: message,
		Context: map[string]any{"url": url},
		Cause:   cause,
	}
}

func Validation(message, field string, value any) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Context: map[string]any{
			"field": field,
			"value": value,
		},
	}
}

func Encoding(message, exportType string, cause error) *Error {
	return &Error{
		Kind:    KindEncoding,
		Message: message,
		Context: map[string]any{"type": exportType},
		Cause:   cause,
	}
}

func Structure(message, url string) *Error {
	return &Error{
		Kind:    KindStructure,
		Message: message,
		Context: map[string]any{"url": url},
	}
}

func Compose(message string, cause error) *Error {
	return &Error{
		Kind:    KindCompose,
		Message: message,
		Cause:   cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
