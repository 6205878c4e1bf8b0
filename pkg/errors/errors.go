// Package errors provides an error wrapper which remembers where it was created.
//
// Usage:
//
//	wrapped := xe.Wrap(err)
//
// returns a new error object wrapping `err`.
//
// `wrapped` knows filename, line and the name of the function where it is created.
//
// Messages of nested wrappers chain with "<-", so reading them bottom-up
// gives the path the error has travelled through.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

type ErrWithCaller struct {
	file     string
	line     int
	funcname string
	note     string
	err      error
}

func (e *ErrWithCaller) File() string {
	return e.file
}

func (e *ErrWithCaller) Line() int {
	return e.line
}

func (e *ErrWithCaller) Error() string {
	if e.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.funcname, e.file, e.line, e.err.Error())
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, e.funcname, e.file, e.line, e.note, e.err.Error())
}

func (e *ErrWithCaller) Unwrap() error {
	return e.err
}

// New creates a new error with the caller's location.
func New(text string) error {
	return wrap("", errors.New(text), 1)
}

// Wrap wraps err with the caller's location.
func Wrap(err error) error {
	return wrap("", err, 1)
}

// WrapAsOuter wraps err with the location of the caller's caller (and so on,
// for each extra depth). Use it in helper functions which wrap on behalf of
// their own caller.
func WrapAsOuter(err error, depth int) error {
	return wrap("", err, depth+1)
}

// WrapWithNote wraps err with the caller's location and a short note.
func WrapWithNote(note string, err error) error {
	return wrap(note, err, 1)
}

func wrap(note string, err error, depth int) error {
	pc, file, line, ok := runtime.Caller(depth + 1)
	funcname := "(unknown func)"
	if !ok {
		file = "?"
		line = -1
	}
	fn := runtime.FuncForPC(pc)
	if fn != nil {
		funcname = fn.Name()
	}

	return &ErrWithCaller{
		funcname: funcname,
		file:     file,
		line:     line,
		note:     note,
		err:      err,
	}
}
