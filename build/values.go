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

package build

import (
	"time"

	"github.com/samber/mo"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/uri"
)

// DateTimeOf returns the wall clock fields of t. The value is UTC when t is
// in time.UTC and floating otherwise.
func DateTimeOf(t time.Time) ical.DateTime {
	return ical.DateTime{
		Date: ical.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		Time: ical.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), UTC: t.Location() == time.UTC},
	}
}

// DateTimeProperty returns a date-time property for t. Times in time.UTC are
// written with the "Z" suffix, times in time.Local are floating, and times in
// any other location get a TZID parameter naming it. Such a TZID must be
// defined by a VTIMEZONE of the calendar.
func DateTimeProperty(kind ical.PropertyKind, t time.Time) model.Property {
	p := model.NewProperty(kind, DateTimeOf(t))
	if loc := t.Location(); loc != time.UTC && loc != time.Local {
		p.Params = append(p.Params, model.NewParam(ical.ParamTzID, ical.TzIDParam{ID: loc.String()}))
	}
	return p
}

// DateProperty returns a VALUE=DATE property.
func DateProperty(kind ical.PropertyKind, year int, month time.Month, day int) model.Property {
	return model.NewProperty(kind,
		ical.Date{Year: year, Month: int(month), Day: day},
		model.NewParam(ical.ParamValueType, ical.TokenParam(ical.TypeDate.String())))
}

// DurationOf converts d to a day and time duration. Whole days are written as
// days, the remainder as hours, minutes and seconds; sub-second precision is
// dropped. A zero duration is "PT0S".
func DurationOf(d time.Duration) ical.Duration {
	var out ical.Duration
	if d < 0 {
		out.Negative = true
		d = -d
	}
	secs := int(d / time.Second)
	days, secs := secs/86400, secs%86400
	hours, secs := secs/3600, secs%3600
	minutes, secs := secs/60, secs%60
	if days > 0 {
		out.Days = mo.Some(days)
	}
	if hours > 0 {
		out.Hours = mo.Some(hours)
	}
	if minutes > 0 {
		out.Minutes = mo.Some(minutes)
	}
	if secs > 0 || (days == 0 && hours == 0 && minutes == 0) {
		out.Seconds = mo.Some(secs)
	}
	return out
}

// Before returns a trigger duration of d before the start.
func Before(d time.Duration) ical.Duration {
	return DurationOf(-d)
}

// AlarmOption configures an alarm.
type AlarmOption func(*model.Component)

// Repeat makes the alarm fire count more times, every interval. DURATION
// and REPEAT are always set together.
func Repeat(count int, interval time.Duration) AlarmOption {
	return func(c *model.Component) {
		c.Properties = append(c.Properties,
			model.NewProperty(ical.PropDuration, DurationOf(interval)),
			model.NewProperty(ical.PropRepeat, ical.Integer(count)))
	}
}

// Attach adds an ATTACH property referencing u.
func Attach(u *uri.URI) AlarmOption {
	return func(c *model.Component) {
		c.Properties = append(c.Properties, model.NewProperty(ical.PropAttach, ical.URI{URI: u}))
	}
}

func alarm(action string, trigger ical.Duration, props []model.Property, opts []AlarmOption) model.Component {
	comp := model.NewComponent(ical.ComponentAlarm)
	comp.Properties = append(comp.Properties,
		model.NewProperty(ical.PropAction, ical.Text(action)),
		model.NewProperty(ical.PropTrigger, trigger))
	comp.Properties = append(comp.Properties, props...)
	for _, opt := range opts {
		opt(&comp)
	}
	return comp
}

// DisplayAlarm returns a DISPLAY alarm firing at trigger, relative to the
// start of its component.
func DisplayAlarm(trigger ical.Duration, description string, opts ...AlarmOption) model.Component {
	return alarm("DISPLAY", trigger,
		[]model.Property{model.NewProperty(ical.PropDescription, ical.Text(description))}, opts)
}

// AudioAlarm returns an AUDIO alarm firing at trigger.
func AudioAlarm(trigger ical.Duration, opts ...AlarmOption) model.Component {
	return alarm("AUDIO", trigger, nil, opts)
}

// EmailAlarm returns an EMAIL alarm sent to the given calendar addresses.
// RFC 5545 requires at least one attendee.
func EmailAlarm(trigger ical.Duration, summary, description string, to []*uri.URI, opts ...AlarmOption) model.Component {
	props := []model.Property{
		model.NewProperty(ical.PropDescription, ical.Text(description)),
		model.NewProperty(ical.PropSummary, ical.Text(summary)),
	}
	for _, u := range to {
		props = append(props, model.NewProperty(ical.PropAttendee, ical.CalAddress{URI: u}))
	}
	return alarm("EMAIL", trigger, props, opts)
}

// WithOrganizer sets ORGANIZER, with a CN parameter when name is not empty.
func WithOrganizer(address *uri.URI, name string) Option {
	p := model.NewProperty(ical.PropOrganizer, ical.CalAddress{URI: address})
	if name != "" {
		p.Params = append(p.Params, model.NewParam(ical.ParamCN, ical.TextParam(name)))
	}
	return set(ical.PropOrganizer, p)
}

// WithAttendee adds an ATTENDEE with the given participation status, which
// may be empty.
func WithAttendee(address *uri.URI, name, partStat string) Option {
	p := model.NewProperty(ical.PropAttendee, ical.CalAddress{URI: address})
	if name != "" {
		p.Params = append(p.Params, model.NewParam(ical.ParamCN, ical.TextParam(name)))
	}
	if partStat != "" {
		p.Params = append(p.Params, model.NewParam(ical.ParamPartStat, ical.TokenParam(partStat)))
	}
	return add(p)
}
