// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"errors"
	"fmt"
)

// The engine reports a small closed set of error kinds. Every error
// returned by this package wraps exactly one of the sentinels below, so
// callers can classify failures with errors.Is, or with CodeOf when they
// need a stable integer code at an embedding boundary.
var (
	// ErrInvalidArgument indicates a caller-supplied parameter violates a
	// documented precondition. Never worth retrying.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange indicates a row, column, offset, or length outside the
	// 24x80 buffer geometry. A specialization of ErrInvalidArgument.
	ErrOutOfRange = errors.New("out of range")

	// ErrUnencodable indicates a character with no representation in the
	// active EBCDIC codepage.
	ErrUnencodable = errors.New("unencodable character")

	// ErrBufferTooSmall indicates a caller-supplied output buffer has
	// insufficient capacity. Nothing is written on this failure; the
	// codec never truncates silently.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrConnectionFailed indicates the transport could not be established
	// or failed mid-session. Fatal to the current connection: the caller
	// must Disconnect and Connect again.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrProtocol indicates the host sent a malformed or unexpected data
	// stream. The connection remains usable if the client is still Ready.
	ErrProtocol = errors.New("protocol error")

	// ErrInvalidState indicates an operation was attempted in a connection
	// state that forbids it, e.g. SendCommand before Connect.
	ErrInvalidState = errors.New("invalid connection state")

	// ErrTimeout indicates a connect or read deadline elapsed. Recoverable:
	// the connection remains Ready and the operation may be retried.
	ErrTimeout = errors.New("timeout")

	// ErrFieldNotFound indicates a field index past the end of the field
	// list.
	ErrFieldNotFound = errors.New("field not found")
)

// ErrorCode is the stable integer form of an error kind, for embedders
// that pass results across a non-Go boundary.
type ErrorCode int

const (
	CodeOK ErrorCode = iota
	CodeInvalidArgument
	CodeOutOfMemory
	CodeConnectionFailed
	CodeParseError
	CodeInvalidState
	CodeTimeout
	CodeFieldNotFound
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeInvalidArgument:
		return "invalid argument"
	case CodeOutOfMemory:
		return "out of memory"
	case CodeConnectionFailed:
		return "connection failed"
	case CodeParseError:
		return "parse error"
	case CodeInvalidState:
		return "invalid state"
	case CodeTimeout:
		return "timeout"
	case CodeFieldNotFound:
		return "field not found"
	default:
		return fmt.Sprintf("unknown error code %d", int(c))
	}
}

// CodeOf classifies err into an ErrorCode. A nil error is CodeOK. Errors
// that did not originate in this package classify as CodeConnectionFailed
// when they wrap a transport failure, otherwise CodeParseError.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrOutOfRange),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrUnencodable),
		errors.Is(err, ErrBufferTooSmall):
		return CodeInvalidArgument
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrConnectionFailed):
		return CodeConnectionFailed
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrFieldNotFound):
		return CodeFieldNotFound
	case errors.Is(err, ErrProtocol):
		return CodeParseError
	default:
		return CodeParseError
	}
}
