package handlers

import (
	"errors"
	"net/http"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
)

const (
	msgLoginRequired = "Login required."
	msgNotAuthorized = "Not authorized."
	msgNotFound      = "Search not found."
	msgRetry         = "Something went wrong, please try again."
)

type Handler func(http.ResponseWriter, *http.Request) Result

type Result struct {
	Error error
	Code  int
	Body  interface{}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func BadRequest(message string) Result {
	return Result{
		Code: http.StatusBadRequest,
		Body: ErrorResponse{message},
	}
}

// InternalError keeps the cause for the log; the client only gets a generic message.
func InternalError(error error, message string) Result {
	return Result{
		Error: errors.Join(errors.New(message), error),
		Code:  http.StatusInternalServerError,
		Body:  ErrorResponse{msgRetry},
	}
}

func NotFound(message string) Result {
	return Result{
		Code: http.StatusNotFound,
		Body: ErrorResponse{message},
	}
}

func Ok(body interface{}) Result {
	return Result{
		Code: http.StatusOK,
		Body: body,
	}
}

func Unauthorized(message string) Result {
	return Result{
		Code: http.StatusUnauthorized,
		Body: ErrorResponse{message},
	}
}

func Forbidden(message string) Result {
	return Result{
		Code: http.StatusForbidden,
		Body: ErrorResponse{message},
	}
}

func TooManyRequests(message string) Result {
	return Result{
		Code: http.StatusTooManyRequests,
		Body: ErrorResponse{message},
	}
}

// FromError maps a service error to a response. Only InvalidArgument messages reach the client.
func FromError(err error, op string) Result {
	switch domain.KindOf(err) {
	case domain.KindUnauthenticated:
		return Unauthorized(msgLoginRequired)
	case domain.KindForbidden:
		return Forbidden(msgNotAuthorized)
	case domain.KindNotFound:
		return NotFound(msgNotFound)
	case domain.KindInvalidArgument:
		return BadRequest(domain.MessageOf(err))
	}
	return InternalError(err, op)
}
