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

package ical

import (
	"strconv"
	"strings"
)

// Frequency is the value of the FREQ rule part.
type Frequency int

// Frequencies, from the shortest to the longest period.
const (
	Secondly Frequency = iota
	Minutely
	Hourly
	Daily
	Weekly
	Monthly
	Yearly
)

//nolint:gochecknoglobals // lookup table, never modified.
var frequencyNames = [...]string{
	Secondly: "SECONDLY",
	Minutely: "MINUTELY",
	Hourly:   "HOURLY",
	Daily:    "DAILY",
	Weekly:   "WEEKLY",
	Monthly:  "MONTHLY",
	Yearly:   "YEARLY",
}

// String returns the FREQ keyword.
func (f Frequency) String() string {
	if f < 0 || int(f) >= len(frequencyNames) {
		return ""
	}
	return frequencyNames[f]
}

// FrequencyFromName maps a FREQ keyword to its Frequency.
func FrequencyFromName(name string) (Frequency, bool) {
	for f, n := range frequencyNames {
		if n == name {
			return Frequency(f), true
		}
	}
	return 0, false
}

// Weekday is a day of the week as used by BYDAY and WKST.
type Weekday int

// Weekdays, starting on Monday like RFC 5545 does.
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

//nolint:gochecknoglobals // lookup table, never modified.
var weekdayNames = [...]string{
	Monday:    "MO",
	Tuesday:   "TU",
	Wednesday: "WE",
	Thursday:  "TH",
	Friday:    "FR",
	Saturday:  "SA",
	Sunday:    "SU",
}

// String returns the two-letter weekday code.
func (w Weekday) String() string {
	if w < 0 || int(w) >= len(weekdayNames) {
		return ""
	}
	return weekdayNames[w]
}

// WeekdayFromName maps a two-letter code to its Weekday.
func WeekdayFromName(name string) (Weekday, bool) {
	for w, n := range weekdayNames {
		if n == name {
			return Weekday(w), true
		}
	}
	return 0, false
}

// WeekdayNum is one element of a BYDAY list. Offset is zero when no ordinal
// was given; "-1SU" has Offset -1.
type WeekdayNum struct {
	Offset  int
	Weekday Weekday
}

// String returns the element as written in a BYDAY list.
func (w WeekdayNum) String() string {
	if w.Offset == 0 {
		return w.Weekday.String()
	}
	return strconv.Itoa(w.Offset) + w.Weekday.String()
}

// RecurPartKind identifies a rule part of a RECUR value.
type RecurPartKind int

// Rule parts of RFC 5545, Section 3.3.10.
const (
	PartFreq RecurPartKind = iota
	PartUntil
	PartCount
	PartInterval
	PartBySecond
	PartByMinute
	PartByHour
	PartByDay
	PartByMonthDay
	PartByYearDay
	PartByWeekNo
	PartByMonth
	PartBySetPos
	PartWeekStart
)

//nolint:gochecknoglobals // lookup table, never modified.
var recurPartNames = [...]string{
	PartFreq:       "FREQ",
	PartUntil:      "UNTIL",
	PartCount:      "COUNT",
	PartInterval:   "INTERVAL",
	PartBySecond:   "BYSECOND",
	PartByMinute:   "BYMINUTE",
	PartByHour:     "BYHOUR",
	PartByDay:      "BYDAY",
	PartByMonthDay: "BYMONTHDAY",
	PartByYearDay:  "BYYEARDAY",
	PartByWeekNo:   "BYWEEKNO",
	PartByMonth:    "BYMONTH",
	PartBySetPos:   "BYSETPOS",
	PartWeekStart:  "WKST",
}

// String returns the rule part name.
func (k RecurPartKind) String() string {
	if k < 0 || int(k) >= len(recurPartNames) {
		return ""
	}
	return recurPartNames[k]
}

// RecurPartKindFromName maps a rule part name to its kind.
func RecurPartKindFromName(name string) (RecurPartKind, bool) {
	for k, n := range recurPartNames {
		if n == name {
			return RecurPartKind(k), true
		}
	}
	return 0, false
}

// RecurPart is one "KEY=value" part of a RECUR value. Kind selects the field
// that holds the value:
//
//	PartFreq                          Freq
//	PartUntil                         Until (a Date or a DateTime)
//	PartCount, PartInterval           Count
//	PartBySecond ... PartBySetPos     Numbers, except PartByDay
//	PartByDay                         Days
//	PartWeekStart                     Weekday
type RecurPart struct {
	Kind    RecurPartKind
	Freq    Frequency
	Until   Value
	Count   int
	Numbers []int
	Days    []WeekdayNum
	Weekday Weekday
}

// String returns the part as written in a RECUR value.
func (p RecurPart) String() string {
	var b strings.Builder
	b.WriteString(p.Kind.String())
	b.WriteByte('=')
	switch p.Kind {
	case PartFreq:
		b.WriteString(p.Freq.String())
	case PartUntil:
		if s, ok := p.Until.(interface{ String() string }); ok {
			b.WriteString(s.String())
		}
	case PartCount, PartInterval:
		b.WriteString(strconv.Itoa(p.Count))
	case PartByDay:
		for i, d := range p.Days {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(d.String())
		}
	case PartWeekStart:
		b.WriteString(p.Weekday.String())
	default:
		for i, n := range p.Numbers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(n))
		}
	}
	return b.String()
}

// Recur is a RECUR value: rule parts in the order they were written.
type Recur struct {
	Parts []RecurPart
}

// ValueType implements Value.
func (Recur) ValueType() ValueType { return TypeRecur }

// String returns the value as written in an RRULE line.
func (r Recur) String() string {
	parts := make([]string, len(r.Parts))
	for i, p := range r.Parts {
		parts[i] = p.String()
	}
	return strings.Join(parts, ";")
}

// Part returns the first part of the given kind.
func (r Recur) Part(kind RecurPartKind) (RecurPart, bool) {
	for _, p := range r.Parts {
		if p.Kind == kind {
			return p, true
		}
	}
	return RecurPart{}, false
}

// Has reports whether a part of the given kind is present.
func (r Recur) Has(kind RecurPartKind) bool {
	_, ok := r.Part(kind)
	return ok
}

// Freq returns the frequency, if a FREQ part is present.
func (r Recur) Freq() (Frequency, bool) {
	p, ok := r.Part(PartFreq)
	return p.Freq, ok
}

// Interval returns the INTERVAL, defaulting to 1.
func (r Recur) Interval() int {
	if p, ok := r.Part(PartInterval); ok {
		return p.Count
	}
	return 1
}
