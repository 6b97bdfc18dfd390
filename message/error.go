package message

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyRequest    = errors.New("empty request")
	ErrRequestTooLarge = errors.New("request exceeds maximum size")
)

type ClientError struct {
	message string
}

func (e ClientError) Error() string {
	return fmt.Sprintf("[Client error]: %s", e.message)
}

type ServerError struct {
	message string
}

func NewServerError(format string, args ...any) ServerError {
	return ServerError{message: fmt.Sprintf(format, args...)}
}

func (e ServerError) Error() string {
	return fmt.Sprintf("[Server error]: %s", e.message)
}

// ErrorResponse maps err onto the response sent back to the peer. Client
// errors answer 400, everything else answers 500.
func ErrorResponse(err error) Response {
	code := StatusInternalServerError

	var clientErr ClientError
	if errors.As(err, &clientErr) {
		code = StatusBadRequest
	}

	return NewResponse(code, nil, StatusText(code))
}
