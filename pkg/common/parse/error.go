/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type ErrorKind int

const (
	UsageError ErrorKind = iota
	SyntaxError
)

func (k ErrorKind) ToString() string {
	switch k {
	case UsageError:
		return "UsageError"
	case SyntaxError:
		return "SyntaxError"
	}
	return "UnknownError"
}

// Error is the single diagnostic produced by a failed compile. Location is
// nil for errors that do not point into the input.
type Error struct {
	Kind     ErrorKind
	Message  string
	Location *Location
}

func NewSyntaxError(t Token, m string) *Error {
	loc := t.Location
	return &Error{Kind: SyntaxError, Message: m, Location: &loc}
}

func NewSyntaxErrorAt(offset int, m string) *Error {
	return &Error{Kind: SyntaxError, Message: m, Location: &Location{Start: offset, End: offset}}
}

func NewUsageError(m string) *Error {
	return &Error{Kind: UsageError, Message: m}
}

func (e *Error) Error() string {
	if e.Location == nil {
		return e.Message
	}
	return fmt.Sprintf("%s at offset %d", e.Message, e.Location.Start)
}

// Offset returns the byte offset the error points at, or -1.
func (e *Error) Offset() int {
	if e.Location == nil {
		return -1
	}
	return e.Location.Start
}

// FormatError renders the diagnostic against the original input: the input
// line, then a caret under the failing byte followed by the message.
func (e *Error) FormatError(input string) string {
	if e.Location == nil {
		return e.Message + "\n"
	}

	errorString := input + "\n"
	errorString += fmt.Sprintf("%s^ %s\n", strings.Repeat(" ", e.Location.Start), e.Message)
	return errorString
}

// AsError finds a diagnostic anywhere in err's chain.
func AsError(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
