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

package interop

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/parser"
)

// ErrNoStart is returned when a recurrence set is requested for a component
// without DTSTART.
var ErrNoStart = errors.New("interop: component has no DTSTART")

//nolint:gochecknoglobals // lookup table, never modified.
var rruleFrequencies = map[ical.Frequency]rrule.Frequency{
	ical.Secondly: rrule.SECONDLY,
	ical.Minutely: rrule.MINUTELY,
	ical.Hourly:   rrule.HOURLY,
	ical.Daily:    rrule.DAILY,
	ical.Weekly:   rrule.WEEKLY,
	ical.Monthly:  rrule.MONTHLY,
	ical.Yearly:   rrule.YEARLY,
}

//nolint:gochecknoglobals // indexed by ical.Weekday, never modified.
var rruleWeekdays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// RRuleOption converts a RECUR value into rrule-go options. Floating dates and
// times, including a DATE UNTIL, are placed in loc. The rule is not expanded.
func RRuleOption(r ical.Recur, dtstart time.Time, loc *time.Location) (rrule.ROption, error) {
	opt := rrule.ROption{Dtstart: dtstart}
	freq, ok := r.Freq()
	if !ok {
		return rrule.ROption{}, fmt.Errorf("interop: rule %q has no FREQ part", r.String())
	}
	opt.Freq = rruleFrequencies[freq]

	for _, part := range r.Parts {
		switch part.Kind {
		case ical.PartFreq:
		case ical.PartUntil:
			until, err := timeOf(part.Until, loc)
			if err != nil {
				return rrule.ROption{}, err
			}
			opt.Until = until
		case ical.PartCount:
			opt.Count = part.Count
		case ical.PartInterval:
			opt.Interval = part.Count
		case ical.PartBySecond:
			opt.Bysecond = part.Numbers
		case ical.PartByMinute:
			opt.Byminute = part.Numbers
		case ical.PartByHour:
			opt.Byhour = part.Numbers
		case ical.PartByDay:
			for _, d := range part.Days {
				wd := rruleWeekdays[d.Weekday]
				if d.Offset != 0 {
					wd = wd.Nth(d.Offset)
				}
				opt.Byweekday = append(opt.Byweekday, wd)
			}
		case ical.PartByMonthDay:
			opt.Bymonthday = part.Numbers
		case ical.PartByYearDay:
			opt.Byyearday = part.Numbers
		case ical.PartByWeekNo:
			opt.Byweekno = part.Numbers
		case ical.PartByMonth:
			opt.Bymonth = part.Numbers
		case ical.PartBySetPos:
			opt.Bysetpos = part.Numbers
		case ical.PartWeekStart:
			opt.Wkst = rruleWeekdays[part.Weekday]
		}
	}
	return opt, nil
}

// RecurFromROption converts rrule-go options back into a RECUR value. The
// DTSTART of the options is ignored.
func RecurFromROption(opt *rrule.ROption) (ical.Recur, error) {
	r, err := parser.ParseRecur([]byte(opt.RRuleString()))
	if err != nil {
		return ical.Recur{}, fmt.Errorf("interop: %w", err)
	}
	return r, nil
}

// RecurrenceSet gathers the DTSTART, RRULE, RDATE and EXDATE properties of a
// component into an rrule-go set. Floating and TZID times are placed in loc;
// resolving TZID names is left to the caller. RDATE periods contribute their
// start. The set is returned unexpanded.
func RecurrenceSet(c *model.Component, loc *time.Location) (*rrule.Set, error) {
	startProp, ok := c.Property(ical.PropDTStart)
	if !ok {
		return nil, ErrNoStart
	}
	start, err := timeOf(startProp.Value, loc)
	if err != nil {
		return nil, err
	}

	set := &rrule.Set{}
	set.DTStart(start)
	for _, p := range c.PropertiesOf(ical.PropRRule) {
		recur, ok := p.Value.(ical.Recur)
		if !ok {
			continue
		}
		opt, err := RRuleOption(recur, start, loc)
		if err != nil {
			return nil, err
		}
		rule, err := rrule.NewRRule(opt)
		if err != nil {
			return nil, fmt.Errorf("interop: %w", err)
		}
		set.RRule(rule)
	}
	for _, p := range c.PropertiesOf(ical.PropRDate) {
		times, err := timesOf(p.Value, loc)
		if err != nil {
			return nil, err
		}
		for _, t := range times {
			set.RDate(t)
		}
	}
	for _, p := range c.PropertiesOf(ical.PropExDate) {
		times, err := timesOf(p.Value, loc)
		if err != nil {
			return nil, err
		}
		for _, t := range times {
			set.ExDate(t)
		}
	}
	return set, nil
}

func timeOf(v ical.Value, loc *time.Location) (time.Time, error) {
	switch v := v.(type) {
	case ical.Date:
		return time.Date(v.Year, time.Month(v.Month), v.Day, 0, 0, 0, 0, loc), nil
	case ical.DateTime:
		in := loc
		if v.UTC {
			in = time.UTC
		}
		return time.Date(v.Year, time.Month(v.Month), v.Day, v.Hour, v.Minute, v.Second, 0, in), nil
	default:
		return time.Time{}, fmt.Errorf("interop: %T is not a date or date-time", v)
	}
}

func timesOf(v ical.Value, loc *time.Location) ([]time.Time, error) {
	var values []ical.Value
	switch v := v.(type) {
	case ical.DateList:
		for _, d := range v {
			values = append(values, d)
		}
	case ical.DateTimeList:
		for _, dt := range v {
			values = append(values, dt)
		}
	case ical.PeriodList:
		for _, p := range v {
			values = append(values, p.Start)
		}
	default:
		values = append(values, v)
	}
	times := make([]time.Time, 0, len(values))
	for _, value := range values {
		t, err := timeOf(value, loc)
		if err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, nil
}
