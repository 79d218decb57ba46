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

// Package parser reads RFC 5545 iCalendar text into a parse tree.
//
// Input goes through three layers: the line unfolder joins folded physical
// lines into logical content lines; each content line is split into its
// name, parameters and value, and the value is parsed with the grammar of
// the property (DATE-TIME, DURATION, RECUR, URI...); a recursive descent
// parser matches BEGIN and END lines into nested components.
//
// Parsing is all or nothing: the first malformed line aborts it with a
// *ParseError. Structural rules that the grammar cannot express, such as
// how many times a property may appear, are left to the validate package.
package parser

import (
	"errors"
	"io"
)

// Parse parses data as one or more concatenated VCALENDAR objects. The whole
// input must be consumed.
func Parse(data []byte) ([]*Calendar, error) {
	s := NewStream()
	_, _ = s.Write(data)
	_ = s.Close()

	var cals []*Calendar
	for {
		cal, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		cals = append(cals, cal)
	}
	if len(cals) == 0 {
		return nil, newError(0, KindUnexpectedEOF, "no calendar found")
	}
	return cals, nil
}

// ParseCalendar parses data as exactly one VCALENDAR object.
func ParseCalendar(data []byte) (*Calendar, error) {
	s := NewStream()
	_, _ = s.Write(data)
	_ = s.Close()

	cal, err := s.Next()
	if errors.Is(err, io.EOF) {
		return nil, newError(0, KindUnexpectedEOF, "no calendar found")
	}
	if err != nil {
		return nil, err
	}
	next, err := s.Next()
	switch {
	case errors.Is(err, io.EOF):
		return cal, nil
	case err != nil:
		return nil, err
	default:
		return nil, newError(next.Offset, KindTrailingData, "more than one calendar in input")
	}
}
