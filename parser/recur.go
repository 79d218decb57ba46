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
	"bytes"

	"github.com/jplu/almanac/ical"
)

// numberShape is the digit count range and sign rule of a BYxxx list.
type numberShape struct {
	minDigits int
	maxDigits int
	signed    bool
}

//nolint:gochecknoglobals // lookup table, never modified.
var numberShapes = map[ical.RecurPartKind]numberShape{
	ical.PartBySecond:   {1, 2, false},
	ical.PartByMinute:   {1, 2, false},
	ical.PartByHour:     {1, 2, false},
	ical.PartByMonthDay: {1, 2, true},
	ical.PartByYearDay:  {1, 3, true},
	ical.PartByWeekNo:   {1, 2, true},
	ical.PartByMonth:    {1, 2, false},
	ical.PartBySetPos:   {1, 3, true},
}

// ParseRecur parses a RECUR value (RFC 5545, Section 3.3.10): rule parts
// "KEY=value" separated by ";", the first one being FREQ. Keys and keywords
// are matched ignoring case. Numeric ranges are left to the validator; only
// the number of digits is checked here.
func ParseRecur(b []byte) (ical.Recur, error) {
	upper := bytes.ToUpper(b)
	var recur ical.Recur
	for i, sp := range splitPlain(upper, ';') {
		part, err := parseRecurPart(upper[sp.start:sp.end])
		if err != nil {
			return ical.Recur{}, relocate(err, at(sp.start))
		}
		if i == 0 && part.Kind != ical.PartFreq {
			return ical.Recur{}, newError(sp.start, KindInvalidValue, "the first rule part must be FREQ")
		}
		recur.Parts = append(recur.Parts, part)
	}
	return recur, nil
}

func parseRecurPart(b []byte) (ical.RecurPart, error) {
	eq := bytes.IndexByte(b, '=')
	if eq <= 0 {
		return ical.RecurPart{}, newError(0, KindInvalidValue, "expected KEY=value in recurrence rule, got %q", b)
	}
	kind, ok := ical.RecurPartKindFromName(string(b[:eq]))
	if !ok {
		return ical.RecurPart{}, newError(0, KindInvalidRecurPart, "unknown rule part %q", b[:eq])
	}
	value := b[eq+1:]
	part := ical.RecurPart{Kind: kind}
	var err error
	switch kind {
	case ical.PartFreq:
		f, found := ical.FrequencyFromName(string(value))
		if !found {
			err = newError(0, KindInvalidValue, "invalid frequency %q", value)
		}
		part.Freq = f
	case ical.PartUntil:
		part.Until, err = parseDateOrDateTime(value)
	case ical.PartCount, ical.PartInterval:
		n, size, found := readNumber(value)
		if !found || size != len(value) {
			err = newError(0, KindInvalidValue, "%s must be a number, got %q", kind, value)
		}
		part.Count = n
	case ical.PartByDay:
		part.Days, err = parseWeekdayList(value)
	case ical.PartWeekStart:
		w, found := ical.WeekdayFromName(string(value))
		if !found {
			err = newError(0, KindInvalidValue, "invalid weekday %q", value)
		}
		part.Weekday = w
	default:
		part.Numbers, err = parseNumberList(value, numberShapes[kind], kind)
	}
	if err != nil {
		return ical.RecurPart{}, relocate(err, at(eq+1))
	}
	return part, nil
}

func parseNumberList(b []byte, shape numberShape, kind ical.RecurPartKind) ([]int, error) {
	var numbers []int
	for _, sp := range splitPlain(b, ',') {
		item := b[sp.start:sp.end]
		n, err := parseShapedNumber(item, shape)
		if err != nil {
			return nil, newError(sp.start, KindInvalidValue, "invalid %s value %q", kind, item)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// parseShapedNumber parses an optionally signed number whose digit count is
// within the shape bounds.
func parseShapedNumber(b []byte, shape numberShape) (int, error) {
	neg := false
	if shape.signed && len(b) > 0 && (b[0] == '+' || b[0] == '-') {
		neg = b[0] == '-'
		b = b[1:]
	}
	if len(b) < shape.minDigits || len(b) > shape.maxDigits {
		return 0, newError(0, KindInvalidValue, "wrong number of digits")
	}
	n, ok := digits(b, len(b))
	if !ok {
		return 0, newError(0, KindInvalidValue, "not a number")
	}
	if neg {
		n = -n
	}
	return n, nil
}

// parseWeekdayList parses a BYDAY list: "[+/-][1-2 digits]weekday" items.
func parseWeekdayList(b []byte) ([]ical.WeekdayNum, error) {
	var days []ical.WeekdayNum
	for _, sp := range splitPlain(b, ',') {
		item := b[sp.start:sp.end]
		if len(item) < 2 {
			return nil, newError(sp.start, KindInvalidValue, "invalid BYDAY value %q", item)
		}
		w, ok := ical.WeekdayFromName(string(item[len(item)-2:]))
		if !ok {
			return nil, newError(sp.start, KindInvalidValue, "invalid weekday in BYDAY value %q", item)
		}
		day := ical.WeekdayNum{Weekday: w}
		if prefix := item[:len(item)-2]; len(prefix) > 0 {
			n, err := parseShapedNumber(prefix, numberShape{1, 2, true})
			if err != nil {
				return nil, newError(sp.start, KindInvalidValue, "invalid offset in BYDAY value %q", item)
			}
			day.Offset = n
		}
		days = append(days, day)
	}
	return days, nil
}
