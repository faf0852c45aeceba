package cerr

import (
	"fmt"
	"net/http"
)

type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// InvalidTransition indicates a lifecycle guard failure: a stale
// request status, a wrong actor, or a wrong role. It is reported as a
// conflict since a concurrent transition may have won the guard
// window.
func InvalidTransition(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// InvalidCoordinate indicates a geographical input which is out of
// its valid range.
func InvalidCoordinate(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}
