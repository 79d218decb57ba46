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

// Package build assembles calendars in code. Components built here carry the
// properties RFC 5545 requires of them, so a calendar made only of built
// components passes validation.
package build

import (
	"time"

	"github.com/google/uuid"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
)

// DefaultProdID is used when Calendar is given an empty product identifier.
const DefaultProdID = "-//jplu//almanac//EN"

// NewUID returns a random (version 4) UUID suitable for the UID property.
func NewUID() string {
	return uuid.NewString()
}

// Calendar returns a VERSION 2.0 calendar holding the given components.
func Calendar(prodID string, comps ...model.Component) model.Calendar {
	if prodID == "" {
		prodID = DefaultProdID
	}
	return model.Calendar{
		Properties: []model.Property{
			model.NewProperty(ical.PropProdID, ical.Text(prodID)),
			model.NewProperty(ical.PropVersion, ical.Version{Max: "2.0"}),
		},
		Components: comps,
	}
}

// SetMethod sets the METHOD of an iTIP message, replacing any previous one.
func SetMethod(cal *model.Calendar, method string) {
	for i := range cal.Properties {
		if cal.Properties[i].Kind == ical.PropMethod {
			cal.Properties[i].Value = ical.Text(method)
			return
		}
	}
	cal.Properties = append(cal.Properties, model.NewProperty(ical.PropMethod, ical.Text(method)))
}

// Option adds properties or children to a component.
type Option func(*model.Component)

// Event returns a VEVENT starting at start. UID and DTSTAMP are generated
// unless given with WithUID and WithStamp.
func Event(start time.Time, opts ...Option) model.Component {
	comp := model.NewComponent(ical.ComponentEvent)
	comp.Properties = append(comp.Properties, DateTimeProperty(ical.PropDTStart, start))
	return stamped(comp, opts)
}

// AllDayEvent returns a VEVENT on the given day, with a DATE start.
func AllDayEvent(year int, month time.Month, day int, opts ...Option) model.Component {
	comp := model.NewComponent(ical.ComponentEvent)
	comp.Properties = append(comp.Properties, DateProperty(ical.PropDTStart, year, month, day))
	return stamped(comp, opts)
}

// ToDo returns a VTODO.
func ToDo(opts ...Option) model.Component {
	return stamped(model.NewComponent(ical.ComponentToDo), opts)
}

// Journal returns a VJOURNAL.
func Journal(opts ...Option) model.Component {
	return stamped(model.NewComponent(ical.ComponentJournal), opts)
}

func stamped(comp model.Component, opts []Option) model.Component {
	for _, opt := range opts {
		opt(&comp)
	}
	if _, ok := comp.Property(ical.PropUID); !ok {
		comp.Properties = append(comp.Properties, model.NewProperty(ical.PropUID, ical.Text(NewUID())))
	}
	if _, ok := comp.Property(ical.PropDTStamp); !ok {
		comp.Properties = append(comp.Properties, DateTimeProperty(ical.PropDTStamp, time.Now().UTC()))
	}
	return comp
}

func set(kind ical.PropertyKind, p model.Property) Option {
	return func(c *model.Component) {
		for i := range c.Properties {
			if c.Properties[i].Kind == kind {
				c.Properties[i] = p
				return
			}
		}
		c.Properties = append(c.Properties, p)
	}
}

func add(p model.Property) Option {
	return func(c *model.Component) {
		c.Properties = append(c.Properties, p)
	}
}

// WithUID sets the UID.
func WithUID(uid string) Option {
	return set(ical.PropUID, model.NewProperty(ical.PropUID, ical.Text(uid)))
}

// WithStamp sets DTSTAMP. The time is converted to UTC.
func WithStamp(t time.Time) Option {
	return set(ical.PropDTStamp, DateTimeProperty(ical.PropDTStamp, t.UTC()))
}

// WithStart sets DTSTART.
func WithStart(t time.Time) Option {
	return set(ical.PropDTStart, DateTimeProperty(ical.PropDTStart, t))
}

// WithEnd sets DTEND.
func WithEnd(t time.Time) Option {
	return set(ical.PropDTEnd, DateTimeProperty(ical.PropDTEnd, t))
}

// WithDue sets DUE.
func WithDue(t time.Time) Option {
	return set(ical.PropDue, DateTimeProperty(ical.PropDue, t))
}

// WithDuration sets DURATION.
func WithDuration(d time.Duration) Option {
	return set(ical.PropDuration, model.NewProperty(ical.PropDuration, DurationOf(d)))
}

// WithSummary sets SUMMARY.
func WithSummary(s string) Option {
	return set(ical.PropSummary, model.NewProperty(ical.PropSummary, ical.Text(s)))
}

// WithDescription sets DESCRIPTION.
func WithDescription(s string) Option {
	return set(ical.PropDescription, model.NewProperty(ical.PropDescription, ical.Text(s)))
}

// WithLocation sets LOCATION.
func WithLocation(s string) Option {
	return set(ical.PropLocation, model.NewProperty(ical.PropLocation, ical.Text(s)))
}

// WithStatus sets STATUS. The value is not checked against the component.
func WithStatus(s string) Option {
	return set(ical.PropStatus, model.NewProperty(ical.PropStatus, ical.Text(s)))
}

// WithCategories adds a CATEGORIES property.
func WithCategories(categories ...string) Option {
	return add(model.NewProperty(ical.PropCategories, ical.TextList(categories)))
}

// WithRRule adds a recurrence rule.
func WithRRule(r ical.Recur) Option {
	return add(model.NewProperty(ical.PropRRule, r))
}

// WithProperty adds an arbitrary property.
func WithProperty(p model.Property) Option {
	return add(p)
}

// WithAlarm nests an alarm.
func WithAlarm(alarm model.Component) Option {
	return func(c *model.Component) {
		c.Components = append(c.Components, alarm)
	}
}
