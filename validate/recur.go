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

package validate

import (
	"github.com/jplu/almanac/ical"
)

type numberRange struct {
	min, max int
	signed   bool
	message  string
}

// Ranges of the numeric BYxxx parts. Signed ranges also accept -max to -min.
//
//nolint:gochecknoglobals // lookup table, never modified.
var numberRanges = map[ical.RecurPartKind]numberRange{
	ical.PartBySecond:   {0, 60, false, "seconds must be between 0 and 60"},
	ical.PartByMinute:   {0, 59, false, "minutes must be between 0 and 59"},
	ical.PartByHour:     {0, 23, false, "hours must be between 0 and 23"},
	ical.PartByMonthDay: {1, 31, true, "days must be between 1 and 31, or -31 and -1"},
	ical.PartByYearDay:  {1, 366, true, "days must be between 1 and 366, or -366 and -1"},
	ical.PartByWeekNo:   {1, 53, true, "weeks must be between 1 and 53, or -53 and -1"},
	ical.PartByMonth:    {1, 12, false, "months must be between 1 and 12"},
	ical.PartBySetPos:   {1, 366, true, "set positions must be between 1 and 366, or -366 and -1"},
}

func (r numberRange) contains(n int) bool {
	if r.signed && n < 0 {
		n = -n
	}
	return n >= r.min && n <= r.max
}

// startInfo describes the DTSTART a rule is anchored to.
type startInfo struct {
	present bool
	date    bool
	utc     bool
	zoned   bool
}

func startOf(s *scope) startInfo {
	if s.dtstart == nil {
		return startInfo{}
	}
	info := startInfo{present: true, zoned: tzid(s.dtstart) != ""}
	switch x := s.dtstart.Value.(type) {
	case ical.Date:
		info.date = true
	case ical.DateTime:
		info.utc = x.UTC
	}
	return info
}

// recur checks a recurrence rule against RFC 5545, Section 3.3.10 and against
// the DTSTART of the enclosing component.
func (v *validator) recur(s *scope, r ical.Recur, loc Location) {
	start := startOf(s)
	if !start.present {
		v.errorf(loc, "Recurrence rule must have a DTSTART property associated with it")
	}

	freq, hasFreq := r.Freq()
	if !hasFreq {
		v.errorf(loc, "No frequency part found in recurrence rule, but it is required. This prevents the rest of the rule being checked")
		return
	}
	if r.Parts[0].Kind != ical.PartFreq {
		v.warnf(loc, "Recurrence rule must start with a frequency")
	}

	seen := make(map[ical.RecurPartKind]bool)
	for i, part := range r.Parts {
		if seen[part.Kind] {
			v.errorf(loc, "Repeated %s part at index %d", part.Kind, i)
		}
		seen[part.Kind] = true

		switch part.Kind {
		case ical.PartUntil:
			v.until(s, start, part.Until, i, loc)
			if r.Has(ical.PartCount) {
				v.errorf(loc, "UNTIL part at index %d is not allowed together with a COUNT part", i)
			}
		case ical.PartBySecond, ical.PartByMinute, ical.PartByHour:
			v.numbers(part, i, loc)
			if start.date {
				v.errorf(loc, "%s part at index %d is not valid when the associated DTSTART property has a DATE value type", part.Kind, i)
			}
		case ical.PartByDay:
			if hasOffset(part.Days) {
				switch {
				case freq != ical.Monthly && freq != ical.Yearly:
					v.errorf(loc, "BYDAY part at index %d has a day with an offset, but the frequency is not MONTHLY or YEARLY", i)
				case freq == ical.Yearly && r.Has(ical.PartByWeekNo):
					v.errorf(loc, "BYDAY part at index %d has a day with an offset, but the frequency is YEARLY and a BYWEEKNO part is specified", i)
				}
			}
		case ical.PartByMonthDay:
			v.numbers(part, i, loc)
			if freq == ical.Weekly {
				v.errorf(loc, "BYMONTHDAY part at index %d is not valid for a WEEKLY frequency", i)
			}
		case ical.PartByYearDay:
			v.numbers(part, i, loc)
			if freq == ical.Daily || freq == ical.Weekly || freq == ical.Monthly {
				v.errorf(loc, "BYYEARDAY part at index %d is not valid for a DAILY, WEEKLY or MONTHLY frequency", i)
			}
		case ical.PartByWeekNo:
			v.numbers(part, i, loc)
			if freq != ical.Yearly {
				v.errorf(loc, "BYWEEKNO part at index %d is only valid for a YEARLY frequency", i)
			}
		case ical.PartByMonth:
			v.numbers(part, i, loc)
		case ical.PartBySetPos:
			v.numbers(part, i, loc)
			if !hasOtherByPart(r) {
				v.errorf(loc, "BYSETPOS part at index %d is not valid without another BYxxx rule part", i)
			}
		case ical.PartWeekStart:
			weeklyDays := freq == ical.Weekly && r.Interval() > 1 && r.Has(ical.PartByDay)
			yearlyWeeks := freq == ical.Yearly && r.Has(ical.PartByWeekNo)
			if !weeklyDays && !yearlyWeeks {
				v.warnf(loc, "WKST part at index %d is redundant", i)
			}
		}
	}
}

func (v *validator) numbers(part ical.RecurPart, index int, loc Location) {
	rng := numberRanges[part.Kind]
	for _, n := range part.Numbers {
		if !rng.contains(n) {
			v.errorf(loc, "Invalid %s part at index %d, %s", part.Kind, index, rng.message)
			return
		}
	}
}

// until checks that UNTIL has the value type and time kind of DTSTART.
// Rules of a time zone observance are always bounded in UTC.
func (v *validator) until(s *scope, start startInfo, until ical.Value, index int, loc Location) {
	v.ranges(until, loc)
	dt, isDateTime := until.(ical.DateTime)

	if s.kind == ical.ComponentStandard || s.kind == ical.ComponentDaylight {
		if !isDateTime || !dt.UTC {
			v.errorf(loc, "UNTIL part at index %d must be a UTC time here", index)
		}
		return
	}
	if !start.present {
		return
	}
	switch {
	case !isDateTime && !start.date:
		v.errorf(loc, "UNTIL part at index %d is a date, but the associated DTSTART property is a date-time", index)
	case isDateTime && start.date:
		v.errorf(loc, "UNTIL part at index %d is a date-time, but the associated DTSTART property is a date", index)
	case isDateTime && !start.utc && !start.zoned && dt.UTC:
		v.errorf(loc, "UNTIL part at index %d must be a local time if the associated DTSTART property is a local time", index)
	case isDateTime && (start.utc || start.zoned) && !dt.UTC:
		v.errorf(loc, "UNTIL part at index %d must be a UTC time if the associated DTSTART property is a UTC time or a local time with a timezone", index)
	}
}

func hasOffset(days []ical.WeekdayNum) bool {
	for _, d := range days {
		if d.Offset != 0 {
			return true
		}
	}
	return false
}

func hasOtherByPart(r ical.Recur) bool {
	for _, p := range r.Parts {
		switch p.Kind {
		case ical.PartBySecond, ical.PartByMinute, ical.PartByHour, ical.PartByDay,
			ical.PartByMonthDay, ical.PartByYearDay, ical.PartByWeekNo, ical.PartByMonth:
			return true
		}
	}
	return false
}
