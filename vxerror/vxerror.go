// Copyright (C) 2024 The Vortex Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package vxerror defines the typed error taxonomy shared by every
// core package: array, encodings, compress, and arrowbridge all
// construct and return *vxerror.Error rather than opaque fmt.Errorf
// values, so callers can switch on Kind.
package vxerror

import (
	"fmt"
	"os"
	"sync"
)

// Kind enumerates the error taxonomy of the core.
type Kind int

const (
	_ Kind = iota
	OutOfBounds
	LengthMismatch
	MismatchedTypes
	InvalidArgument
	InvalidDType
	InvalidEncoding
	ComputeError
	NotImplemented
	IOError
	Overflow
)

func (k Kind) String() string {
	switch k {
	case OutOfBounds:
		return "out of bounds"
	case LengthMismatch:
		return "length mismatch"
	case MismatchedTypes:
		return "mismatched types"
	case InvalidArgument:
		return "invalid argument"
	case InvalidDType:
		return "invalid dtype"
	case InvalidEncoding:
		return "invalid encoding"
	case ComputeError:
		return "compute error"
	case NotImplemented:
		return "not implemented"
	case IOError:
		return "io error"
	case Overflow:
		return "overflow"
	default:
		return "unknown error"
	}
}

// Error is the concrete error type returned from every public
// operation in the core. It carries a Kind plus whatever structured
// fields are relevant to that kind, similar to the way expr.TypeError
// and plan/pir.CompileError carry a Node alongside a message.
type Error struct {
	Kind Kind
	Msg  string

	// Fields populated depending on Kind.
	Index, Start, End int
	Expected, Actual  string
	Op, Encoding      string
}

func (e *Error) Error() string {
	switch e.Kind {
	case OutOfBounds:
		return fmt.Sprintf("index %d out of bounds [%d, %d): %s", e.Index, e.Start, e.End, e.Msg)
	case MismatchedTypes:
		return fmt.Sprintf("mismatched types: expected %s, got %s", e.Expected, e.Actual)
	case ComputeError:
		return fmt.Sprintf("compute error: op %s on encoding %s: %s", e.Op, e.Encoding, e.Msg)
	case NotImplemented:
		return fmt.Sprintf("%s not implemented for encoding %s", e.Op, e.Encoding)
	default:
		if e.Msg == "" {
			return e.Kind.String()
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

// Is lets errors.Is match on Kind alone via a sentinel *Error{Kind: k}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var panicOnErr = sync.OnceValue(func() bool {
	return os.Getenv("PANIC_ON_ERR") == "1"
})

func raise(e *Error) *Error {
	if panicOnErr() {
		panic(e)
	}
	return e
}

// NewOutOfBounds builds an OutOfBounds error for index i against [start,end).
func NewOutOfBounds(i, start, end int) *Error {
	return raise(&Error{Kind: OutOfBounds, Index: i, Start: start, End: end})
}

// NewLengthMismatch builds a LengthMismatch error with the given message.
func NewLengthMismatch(msg string, args ...any) *Error {
	return raise(&Error{Kind: LengthMismatch, Msg: fmt.Sprintf(msg, args...)})
}

// NewMismatchedTypes builds a MismatchedTypes error.
func NewMismatchedTypes(expected, actual string) *Error {
	return raise(&Error{Kind: MismatchedTypes, Expected: expected, Actual: actual})
}

// NewInvalidArgument builds an InvalidArgument error with the given message.
func NewInvalidArgument(msg string, args ...any) *Error {
	return raise(&Error{Kind: InvalidArgument, Msg: fmt.Sprintf(msg, args...)})
}

// NewInvalidDType builds an InvalidDType error with the given message.
func NewInvalidDType(msg string, args ...any) *Error {
	return raise(&Error{Kind: InvalidDType, Msg: fmt.Sprintf(msg, args...)})
}

// NewInvalidEncoding builds an InvalidEncoding error with the given message.
func NewInvalidEncoding(msg string, args ...any) *Error {
	return raise(&Error{Kind: InvalidEncoding, Msg: fmt.Sprintf(msg, args...)})
}

// NewComputeError builds a ComputeError for the given op/encoding pair.
func NewComputeError(op, encoding, msg string, args ...any) *Error {
	return raise(&Error{Kind: ComputeError, Op: op, Encoding: encoding, Msg: fmt.Sprintf(msg, args...)})
}

// NewNotImplemented builds a NotImplemented error for the given op/encoding pair.
func NewNotImplemented(op, encoding string) *Error {
	return raise(&Error{Kind: NotImplemented, Op: op, Encoding: encoding})
}

// NewIOError builds an IOError with the given message. IOError is
// reserved for boundary collaborators (IPC, object-store adapters);
// the core itself never returns one.
func NewIOError(msg string, args ...any) *Error {
	return raise(&Error{Kind: IOError, Msg: fmt.Sprintf(msg, args...)})
}

// NewOverflow builds an Overflow error with the given message.
func NewOverflow(msg string, args ...any) *Error {
	return raise(&Error{Kind: Overflow, Msg: fmt.Sprintf(msg, args...)})
}
