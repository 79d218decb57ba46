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

package uri

import (
	"fmt"
)

var (
	// errEmpty is returned for an empty input. A URI always has a scheme.
	errEmpty = &kindError{message: "Empty URI"}
	// errNoScheme is returned when the input has no "scheme:" prefix, or
	// when it starts with a colon.
	errNoScheme = &kindError{message: "No scheme found in URI"}
)

// ParseError is the error type returned by Parse. It carries a descriptive
// message and wraps the internal error that caused it.
type ParseError struct {
	Message string
	Err     error
}

// Error returns the string representation of the parse error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("URI parse error: %s", e.Message)
}

// Unwrap provides compatibility with Go's standard errors package.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError creates a new ParseError wrapping err. It returns nil if err
// is nil.
func newParseError(err error) *ParseError {
	if err == nil {
		return nil
	}
	return &ParseError{Message: err.Error(), Err: err}
}

// kindError gives context about a parsing failure: the offending character
// or the offending chunk of input.
type kindError struct {
	message string
	char    rune
	details string
}

// Error formats the error message with the character or details when set.
func (e *kindError) Error() string {
	msg := e.message
	if e.char != 0 {
		msg = fmt.Sprintf("%s '%c'", msg, e.char)
	} else if e.details != "" {
		msg = fmt.Sprintf("%s '%s'", msg, e.details)
	}
	return msg
}
