package util

import (
	"errors"
	"fmt"
	"math"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

// ErrorCode returns the code of a wrapped *Error, or ErrInternalServerError for any other error.
func ErrorCode(err error) error {
	var ierr *Error
	if errors.As(err, &ierr) {
		return ierr.Code()
	}
	return ErrInternalServerError
}

var (
	ErrInternalServerError = errors.New("internal Server Error")
	ErrNotFound            = errors.New("your requested Item is not found")
	ErrConflict            = errors.New("your Item already exist")
	ErrBadParamInput       = errors.New("given Param is not valid")
	ErrSourceFetch         = errors.New("road network source is unavailable")
	ErrEmptyNetwork        = errors.New("road network is empty")
	ErrNoPath              = errors.New("no path exists")
)

func DegreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

