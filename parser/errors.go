/*
Copyright 2025 Trident Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package parser

import (
	"errors"
	"fmt"
)

// ErrIncomplete is returned when the input ends before a complete logical
// line or calendar could be read. It is not a failure: the caller should
// supply more bytes and try again.
var ErrIncomplete = errors.New("incomplete input, more data needed")

// ErrorKind classifies a ParseError.
type ErrorKind int

// Parse error kinds.
const (
	// KindSyntax is a malformed name, delimiter or component structure.
	KindSyntax ErrorKind = iota
	// KindInvalidValue is a property value that does not match its grammar.
	KindInvalidValue
	// KindInvalidParam is a parameter value that does not match its grammar.
	KindInvalidParam
	// KindInvalidValueParam is a VALUE parameter the property cannot honor.
	KindInvalidValueParam
	// KindMismatchedEnd is an END line whose name differs from its BEGIN.
	KindMismatchedEnd
	// KindInvalidRecurPart is an unknown rule part in a RECUR value.
	KindInvalidRecurPart
	// KindInvalidURI is a malformed URI in a value or a parameter.
	KindInvalidURI
	// KindInvalidLanguageTag is a malformed LANGUAGE parameter.
	KindInvalidLanguageTag
	// KindUnexpectedEOF is input that ends in the middle of a line or of a
	// calendar after the stream was closed.
	KindUnexpectedEOF
	// KindTrailingData is input left over after the last calendar.
	KindTrailingData
)

//nolint:gochecknoglobals // lookup table, never modified.
var errorKindNames = [...]string{
	KindSyntax:             "syntax error",
	KindInvalidValue:       "invalid value",
	KindInvalidParam:       "invalid parameter",
	KindInvalidValueParam:  "invalid VALUE parameter",
	KindMismatchedEnd:      "mismatched END",
	KindInvalidRecurPart:   "invalid recurrence rule part",
	KindInvalidURI:         "invalid URI",
	KindInvalidLanguageTag: "invalid language tag",
	KindUnexpectedEOF:      "unexpected end of input",
	KindTrailingData:       "trailing data",
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindNames) {
		return "unknown error"
	}
	return errorKindNames[k]
}

// ParseError is the error type returned for malformed input. Offset is the
// byte offset in the original, folded input where the problem was found.
type ParseError struct {
	Offset  int
	Kind    ErrorKind
	Message string
	Err     error
}

// Error returns the string representation of the parse error.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("iCalendar parse error at offset %d: %s: %s", e.Offset, e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap provides compatibility with Go's standard errors package.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// newError builds a ParseError at the given position.
func newError(pos int, kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Offset: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError builds a ParseError at the given position around a lower level
// error, such as a URI or language tag parse error.
func wrapError(pos int, kind ErrorKind, err error, format string, args ...any) *ParseError {
	return &ParseError{Offset: pos, Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// relocate moves a ParseError found at a position relative to a sub-slice
// to its position in the enclosing input. Other errors are returned as is.
func relocate(err error, mapPos func(int) int) error {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return err
	}
	moved := *pe
	moved.Offset = mapPos(pe.Offset)
	return &moved
}

// at shifts positions by base.
func at(base int) func(int) int {
	return func(pos int) int { return base + pos }
}
