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

// Package validate checks parsed calendars against the semantic rules of
// RFC 5545 that the grammar cannot express: how often each property may
// appear in each component, which properties exclude each other, which
// parameters make sense on which value types, and the constraints on
// date-times, durations and recurrence rules.
//
// The validator never modifies its input and never stops at the first
// problem. Every finding is returned as a Diagnostic with the path to the
// offending element.
package validate

import (
	"fmt"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
)

// scope is what property checks need to know about their surroundings.
type scope struct {
	// calendar is set for calendar properties; comp and kind are then unset.
	calendar bool
	kind     ical.ComponentKind
	comp     *model.Component
	action   Action
	dtstart  *model.Property
}

// contextName is the name used in messages about the enclosing object.
func (s *scope) contextName() string {
	if s.calendar {
		return "VCALENDAR"
	}
	return s.comp.Name
}

type validator struct {
	diags     []Diagnostic
	tzids     map[string]struct{}
	hasMethod bool
}

// Calendar validates one calendar.
func Calendar(cal *model.Calendar) []Diagnostic {
	v := &validator{tzids: timeZoneIDs(cal)}
	_, v.hasMethod = cal.Property(ical.PropMethod)

	v.calendarProperties(cal)

	if len(cal.Components) == 0 {
		v.errorf(nil, "No components found in calendar object, required at least one")
	}
	for i := range cal.Components {
		comp := &cal.Components[i]
		loc := Location{{Kind: HopComponent, Index: i, Name: comp.Name}}
		switch comp.Kind {
		case ical.ComponentAlarm, ical.ComponentStandard, ical.ComponentDaylight:
			v.errorf(loc, "Component is not allowed at the top level")
			continue
		}
		v.component(comp, loc, HopProperty)
	}
	return v.diags
}

// All validates each calendar and returns the diagnostics of calendar i at
// index i.
func All(cals []model.Calendar) [][]Diagnostic {
	out := make([][]Diagnostic, len(cals))
	for i := range cals {
		out[i] = Calendar(&cals[i])
	}
	return out
}

func timeZoneIDs(cal *model.Calendar) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, tz := range cal.ComponentsOf(ical.ComponentTimeZone) {
		for _, p := range tz.PropertiesOf(ical.PropTzID) {
			if id, ok := p.Text(); ok {
				ids[id] = struct{}{}
			}
		}
	}
	return ids
}

func (v *validator) report(severity Severity, loc Location, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	v.diags = append(v.diags, Diagnostic{Severity: severity, Message: msg, Location: loc})
}

func (v *validator) errorf(loc Location, format string, args ...any) {
	v.report(SeverityError, loc, format, args...)
}

func (v *validator) warnf(loc Location, format string, args ...any) {
	v.report(SeverityWarning, loc, format, args...)
}

func (v *validator) calendarProperties(cal *model.Calendar) {
	s := &scope{calendar: true}
	c := newCounter(ExpectInCalendar)
	for i := range cal.Properties {
		p := &cal.Properties[i]
		loc := Location{{Kind: HopCalendarProperty, Index: i, Name: p.Name}}
		msg, o := c.add(p.Kind, p.Name)
		if msg != "" {
			v.errorf(loc, "%s", msg)
		}
		if o == Never {
			continue
		}
		v.property(s, p, loc)
	}
	for _, k := range c.missing() {
		v.errorf(nil, "%s is required", k.Name())
	}
}

// component validates comp and its children. propHop is the hop kind used
// for its properties: HopProperty at the top level and HopNestedProperty
// below.
func (v *validator) component(comp *model.Component, loc Location, propHop HopKind) {
	if len(comp.Properties) == 0 {
		v.errorf(loc, "No properties found in component, required at least one")
	}

	s := &scope{kind: comp.Kind, comp: comp, action: ActionOther}
	if comp.Kind == ical.ComponentAlarm {
		actions := comp.PropertiesOf(ical.PropAction)
		if len(actions) != 1 {
			v.errorf(loc, "Required exactly one ACTION property but found %d", len(actions))
			return
		}
		if text, ok := actions[0].Text(); ok {
			s.action = ActionFromText(text)
		}
	}
	s.dtstart, _ = comp.Property(ical.PropDTStart)

	c := newCounter(func(k ical.PropertyKind) Occurrence {
		return Expect(comp.Kind, k, s.action, v.hasMethod)
	})
	for i := range comp.Properties {
		p := &comp.Properties[i]
		ploc := loc.with(propHop, i, p.Name)
		msg, o := c.add(p.Kind, p.Name)
		if msg != "" {
			v.errorf(ploc, "%s", msg)
		}
		if o == Never {
			continue
		}
		v.property(s, p, ploc)
	}
	for _, k := range c.missing() {
		v.errorf(loc, "%s is required", k.Name())
	}
	v.exclusions(comp.Kind, c, loc)
	v.children(comp, loc)
}

// exclusions checks the properties that must or must not appear together.
func (v *validator) exclusions(kind ical.ComponentKind, c *counter, loc Location) {
	switch kind {
	case ical.ComponentEvent:
		if c.count(ical.PropDTEnd) > 0 && c.count(ical.PropDuration) > 0 {
			v.errorf(loc, "Both DTEND and DURATION properties are present, only one is allowed")
		}
	case ical.ComponentToDo:
		if c.count(ical.PropDue) > 0 && c.count(ical.PropDuration) > 0 {
			v.errorf(loc, "Both DUE and DURATION properties are present, only one is allowed")
		}
		if c.count(ical.PropDuration) > 0 && c.count(ical.PropDTStart) == 0 {
			v.errorf(loc, "DURATION property is present but no DTSTART property is present")
		}
	case ical.ComponentAlarm:
		if (c.count(ical.PropDuration) > 0) != (c.count(ical.PropRepeat) > 0) {
			v.errorf(loc, "DURATION and REPEAT properties must be present together")
		}
	}
}

func (v *validator) children(comp *model.Component, loc Location) {
	rules := 0
	for j := range comp.Components {
		child := &comp.Components[j]
		cloc := loc.with(HopNestedComponent, j, child.Name)
		switch {
		case allowedChild(comp.Kind, child.Kind):
			if child.Kind == ical.ComponentStandard || child.Kind == ical.ComponentDaylight {
				rules++
			}
			v.component(child, cloc, HopNestedProperty)
		case comp.Kind == ical.ComponentTimeZone:
			v.errorf(cloc, "Component is not allowed in time zone")
		default:
			v.errorf(cloc, "Component is not allowed in %s", comp.Name)
		}
	}
	if comp.Kind == ical.ComponentTimeZone && rules == 0 {
		v.errorf(loc, "No standard or daylight components found in time zone, required at least one")
	}
}

func allowedChild(parent, child ical.ComponentKind) bool {
	switch parent {
	case ical.ComponentEvent, ical.ComponentToDo:
		return child == ical.ComponentAlarm
	case ical.ComponentTimeZone:
		return child == ical.ComponentStandard || child == ical.ComponentDaylight
	case ical.ComponentIANA, ical.ComponentX:
		return true
	default:
		return false
	}
}

// property runs the parameter and value checks of a property whose
// occurrence is legal.
func (v *validator) property(s *scope, p *model.Property, loc Location) {
	v.params(s, p, loc)
	if p.Kind == ical.PropIANA || p.Kind == ical.PropX {
		v.declaredRaw(s, p, loc)
		return
	}
	v.declared(p, loc)
	v.value(s, p, loc)
}
