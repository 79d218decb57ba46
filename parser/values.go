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
	"strconv"

	"github.com/samber/mo"

	"github.com/jplu/almanac/ical"
)

const (
	dateLen     = 8
	timeLen     = 6
	dateTimeLen = dateLen + 1 + timeLen
)

// digits parses b as an unsigned decimal number made of exactly n digits.
func digits(b []byte, n int) (int, bool) {
	if len(b) != n {
		return 0, false
	}
	v := 0
	for _, c := range b {
		if !isDigit(c) {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

// ParseDate parses a DATE value: "YYYYMMDD".
func ParseDate(b []byte) (ical.Date, error) {
	if len(b) != dateLen {
		return ical.Date{}, newError(0, KindInvalidValue, "date must be 8 digits, got %q", b)
	}
	year, okY := digits(b[0:4], 4)
	month, okM := digits(b[4:6], 2)
	day, okD := digits(b[6:8], 2)
	if !okY || !okM || !okD {
		return ical.Date{}, newError(0, KindInvalidValue, "date must be 8 digits, got %q", b)
	}
	return ical.Date{Year: year, Month: month, Day: day}, nil
}

// ParseTime parses a TIME value: "HHMMSS" with an optional "Z" suffix.
// Ranges are not checked.
func ParseTime(b []byte) (ical.Time, error) {
	utc := false
	if len(b) == timeLen+1 && b[timeLen] == 'Z' {
		utc = true
		b = b[:timeLen]
	}
	if len(b) != timeLen {
		return ical.Time{}, newError(0, KindInvalidValue, "time must be 6 digits with an optional Z, got %q", b)
	}
	hour, okH := digits(b[0:2], 2)
	minute, okM := digits(b[2:4], 2)
	second, okS := digits(b[4:6], 2)
	if !okH || !okM || !okS {
		return ical.Time{}, newError(0, KindInvalidValue, "time must be 6 digits with an optional Z, got %q", b)
	}
	return ical.Time{Hour: hour, Minute: minute, Second: second, UTC: utc}, nil
}

// ParseDateTime parses a DATE-TIME value: a date, "T" and a time.
func ParseDateTime(b []byte) (ical.DateTime, error) {
	if len(b) < dateTimeLen || b[dateLen] != 'T' {
		return ical.DateTime{}, newError(0, KindInvalidValue, "expected a date-time, got %q", b)
	}
	date, err := ParseDate(b[:dateLen])
	if err != nil {
		return ical.DateTime{}, err
	}
	t, err := ParseTime(b[dateLen+1:])
	if err != nil {
		return ical.DateTime{}, relocate(err, at(dateLen+1))
	}
	return ical.DateTime{Date: date, Time: t}, nil
}

// parseDateOrDateTime parses a DATE-TIME when the value has a time part and
// a DATE otherwise.
func parseDateOrDateTime(b []byte) (ical.Value, error) {
	if len(b) == dateLen {
		return ParseDate(b)
	}
	return ParseDateTime(b)
}

// readNumber reads one or more digits at the start of b.
func readNumber(b []byte) (int, int, bool) {
	n := 0
	for n < len(b) && isDigit(b[n]) {
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	v, err := strconv.Atoi(string(b[:n]))
	if err != nil {
		return 0, 0, false
	}
	return v, n, true
}

// ParseDuration parses a DURATION value (RFC 5545, Section 3.3.6):
//
//	dur-value = ["+" / "-"] "P" (dur-date / dur-time / dur-week)
func ParseDuration(b []byte) (ical.Duration, error) {
	var d ical.Duration
	pos := 0
	if pos < len(b) && (b[pos] == '+' || b[pos] == '-') {
		d.Negative = b[pos] == '-'
		pos++
	}
	if pos >= len(b) || b[pos] != 'P' {
		return ical.Duration{}, newError(pos, KindInvalidValue, "duration must start with P")
	}
	pos++

	n, size, ok := readNumber(b[pos:])
	switch {
	case ok && pos+size < len(b) && b[pos+size] == 'W':
		d.Weeks = mo.Some(n)
		pos += size + 1
	case ok && pos+size < len(b) && b[pos+size] == 'D':
		d.Days = mo.Some(n)
		pos += size + 1
		if pos < len(b) {
			next, err := parseDurTime(b[pos:], &d)
			if err != nil {
				return ical.Duration{}, relocate(err, at(pos))
			}
			pos += next
		}
	case !ok && pos < len(b) && b[pos] == 'T':
		next, err := parseDurTime(b[pos:], &d)
		if err != nil {
			return ical.Duration{}, relocate(err, at(pos))
		}
		pos += next
	default:
		return ical.Duration{}, newError(pos, KindInvalidValue, "expected weeks, days or a time in duration %q", b)
	}
	if pos != len(b) {
		return ical.Duration{}, newError(pos, KindInvalidValue, "unexpected characters after duration")
	}
	return d, nil
}

// parseDurTime parses "T" followed by hours, minutes and seconds, in that
// order, each optional but at least one present. A unit may not be skipped
// between two present units ("T1H5S" is invalid).
func parseDurTime(b []byte, d *ical.Duration) (int, error) {
	if len(b) == 0 || b[0] != 'T' {
		return 0, newError(0, KindInvalidValue, "expected T in duration")
	}
	pos := 1
	units := []struct {
		suffix byte
		field  *mo.Option[int]
	}{{'H', &d.Hours}, {'M', &d.Minutes}, {'S', &d.Seconds}}

	seen := 0
	for i, unit := range units {
		n, size, ok := readNumber(b[pos:])
		if !ok || pos+size >= len(b) || b[pos+size] != unit.suffix {
			if seen > 0 && ok {
				// A number that does not belong to the next unit.
				return 0, newError(pos, KindInvalidValue, "misplaced unit in duration")
			}
			if seen > 0 {
				break
			}
			continue
		}
		if seen > 0 && seen != i {
			return 0, newError(pos, KindInvalidValue, "misplaced unit in duration")
		}
		*unit.field = mo.Some(n)
		pos += size + 1
		seen = i + 1
	}
	if seen == 0 {
		return 0, newError(pos, KindInvalidValue, "empty time in duration")
	}
	return pos, nil
}

// ParsePeriod parses a PERIOD value: a start date-time, "/", then an end
// date-time or a positive duration.
func ParsePeriod(b []byte) (ical.Period, error) {
	slash := bytes.IndexByte(b, '/')
	if slash < 0 {
		return ical.Period{}, newError(0, KindInvalidValue, "period must contain '/'")
	}
	start, err := ParseDateTime(b[:slash])
	if err != nil {
		return ical.Period{}, err
	}
	rest := b[slash+1:]
	if len(rest) > 0 && (rest[0] == 'P' || rest[0] == '+') {
		d, err := ParseDuration(rest)
		if err != nil {
			return ical.Period{}, relocate(err, at(slash+1))
		}
		return ical.Period{Start: start, Duration: mo.Some(d)}, nil
	}
	end, err := ParseDateTime(rest)
	if err != nil {
		return ical.Period{}, relocate(err, at(slash+1))
	}
	return ical.Period{Start: start, End: mo.Some(end)}, nil
}

// ParseUtcOffset parses a UTC-OFFSET value: a sign, two digit hours, two
// digit minutes and optional two digit seconds.
func ParseUtcOffset(b []byte) (ical.UtcOffset, error) {
	if (len(b) != 5 && len(b) != 7) || (b[0] != '+' && b[0] != '-') {
		return ical.UtcOffset{}, newError(0, KindInvalidValue, "expected a UTC offset like +0100, got %q", b)
	}
	hours, okH := digits(b[1:3], 2)
	minutes, okM := digits(b[3:5], 2)
	if !okH || !okM {
		return ical.UtcOffset{}, newError(1, KindInvalidValue, "expected a UTC offset like +0100, got %q", b)
	}
	o := ical.UtcOffset{Negative: b[0] == '-', Hours: hours, Minutes: minutes}
	if len(b) == 7 {
		seconds, ok := digits(b[5:7], 2)
		if !ok {
			return ical.UtcOffset{}, newError(5, KindInvalidValue, "expected two digit seconds in UTC offset")
		}
		o.Seconds = mo.Some(seconds)
	}
	return o, nil
}

// ParseInteger parses an INTEGER value: an optional sign and digits, within
// the signed 32-bit range.
func ParseInteger(b []byte) (int, error) {
	body := b
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	if len(body) == 0 {
		return 0, newError(0, KindInvalidValue, "expected an integer, got %q", b)
	}
	for i, c := range body {
		if !isDigit(c) {
			return 0, newError(len(b)-len(body)+i, KindInvalidValue, "expected an integer, got %q", b)
		}
	}
	n, err := strconv.ParseInt(string(b), 10, 32)
	if err != nil {
		return 0, wrapError(0, KindInvalidValue, err, "integer out of range")
	}
	return int(n), nil
}

// ParseFloat parses a FLOAT value: an optional sign, digits, and an optional
// fractional part.
func ParseFloat(b []byte) (float64, error) {
	body := b
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	intPart := 0
	for intPart < len(body) && isDigit(body[intPart]) {
		intPart++
	}
	rest := body[intPart:]
	if intPart == 0 {
		return 0, newError(0, KindInvalidValue, "expected a float, got %q", b)
	}
	if len(rest) > 0 {
		if rest[0] != '.' || len(rest) == 1 {
			return 0, newError(0, KindInvalidValue, "expected a float, got %q", b)
		}
		for _, c := range rest[1:] {
			if !isDigit(c) {
				return 0, newError(0, KindInvalidValue, "expected a float, got %q", b)
			}
		}
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, wrapError(0, KindInvalidValue, err, "float out of range")
	}
	return f, nil
}

// ParseBoolean parses a BOOLEAN value, ignoring case.
func ParseBoolean(b []byte) (bool, error) {
	switch {
	case equalFoldASCII(b, "TRUE"):
		return true, nil
	case equalFoldASCII(b, "FALSE"):
		return false, nil
	default:
		return false, newError(0, KindInvalidValue, "expected TRUE or FALSE, got %q", b)
	}
}

func isBase64Char(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '+' || c == '/'
}

// ParseBinary checks that b has the shape of base64 text: groups of four
// base64 characters, the last one possibly padded with "=" or "==". The
// content is decoded later, on demand.
func ParseBinary(b []byte) (ical.Binary, error) {
	if len(b)%4 != 0 {
		return "", newError(len(b), KindInvalidValue, "base64 length must be a multiple of 4")
	}
	for i, c := range b {
		if isBase64Char(c) {
			continue
		}
		tail := len(b) - i
		if c == '=' && tail <= 2 && (tail == 1 || b[len(b)-1] == '=') {
			break
		}
		return "", newError(i, KindInvalidValue, "invalid base64 character %q", c)
	}
	return ical.Binary(b), nil
}
