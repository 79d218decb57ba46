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
	"errors"

	"github.com/jplu/almanac/ical"
)

// Calendar is a parsed VCALENDAR object.
type Calendar struct {
	Offset     int
	Properties []*Property
	Components []*Component
}

// Component is a parsed component. Typed components fill Properties;
// VEVENT and VTODO may own Alarms and VTIMEZONE owns its STANDARD and
// DAYLIGHT Rules. IANA and X- components, whose grammar is unknown, keep
// their raw Lines and their nested Components instead.
type Component struct {
	Offset     int
	Kind       ical.ComponentKind
	Name       string
	Properties []*Property
	Alarms     []*Component
	Rules      []*Component
	Components []*Component
	Lines      []*ContentLine
}

// ContentLine is a raw content line of an IANA or X- component. Parameter
// values are kept as ical.RawParam.
type ContentLine struct {
	Offset int
	Name   string
	Params []*Param
	Value  string
}

//nolint:gochecknoglobals // grammar tables, never modified.
var (
	calendarProperties = kindSet(
		ical.PropProdID, ical.PropVersion, ical.PropCalScale, ical.PropMethod,
	)
	eventProperties = kindSet(
		ical.PropDTStamp, ical.PropUID, ical.PropDTStart, ical.PropClass, ical.PropCreated,
		ical.PropDescription, ical.PropGeo, ical.PropLastModified, ical.PropLocation,
		ical.PropOrganizer, ical.PropPriority, ical.PropSequence, ical.PropStatus,
		ical.PropSummary, ical.PropTransp, ical.PropURL, ical.PropRecurrenceID, ical.PropRRule,
		ical.PropDTEnd, ical.PropDuration, ical.PropAttach, ical.PropAttendee,
		ical.PropCategories, ical.PropComment, ical.PropContact, ical.PropExDate,
		ical.PropRequestStatus, ical.PropRelatedTo, ical.PropResources, ical.PropRDate,
	)
	toDoProperties = kindSet(
		ical.PropDTStamp, ical.PropUID, ical.PropClass, ical.PropCompleted, ical.PropCreated,
		ical.PropDescription, ical.PropDTStart, ical.PropGeo, ical.PropLastModified,
		ical.PropLocation, ical.PropOrganizer, ical.PropPercentComplete, ical.PropPriority,
		ical.PropRecurrenceID, ical.PropSequence, ical.PropStatus, ical.PropSummary,
		ical.PropURL, ical.PropRRule, ical.PropDue, ical.PropDuration, ical.PropAttach,
		ical.PropAttendee, ical.PropCategories, ical.PropComment, ical.PropContact,
		ical.PropExDate, ical.PropRequestStatus, ical.PropRelatedTo, ical.PropResources,
		ical.PropRDate,
	)
	journalProperties = kindSet(
		ical.PropDTStamp, ical.PropUID, ical.PropClass, ical.PropCreated, ical.PropDTStart,
		ical.PropLastModified, ical.PropOrganizer, ical.PropRecurrenceID, ical.PropSequence,
		ical.PropStatus, ical.PropSummary, ical.PropURL, ical.PropRRule, ical.PropAttach,
		ical.PropAttendee, ical.PropCategories, ical.PropComment, ical.PropContact,
		ical.PropDescription, ical.PropExDate, ical.PropRelatedTo, ical.PropRDate,
		ical.PropRequestStatus,
	)
	freeBusyProperties = kindSet(
		ical.PropDTStamp, ical.PropUID, ical.PropContact, ical.PropDTStart, ical.PropDTEnd,
		ical.PropOrganizer, ical.PropURL, ical.PropAttendee, ical.PropComment,
		ical.PropFreeBusy, ical.PropRequestStatus,
	)
	timeZoneProperties = kindSet(
		ical.PropTzID, ical.PropLastModified, ical.PropTzURL,
	)
	ruleProperties = kindSet(
		ical.PropDTStart, ical.PropTzOffsetTo, ical.PropTzOffsetFrom, ical.PropRRule,
		ical.PropComment, ical.PropRDate, ical.PropTzName,
	)
	alarmProperties = kindSet(
		ical.PropAction, ical.PropTrigger, ical.PropDuration, ical.PropRepeat,
		ical.PropAttach, ical.PropDescription, ical.PropSummary, ical.PropAttendee,
	)

	componentProperties = map[ical.ComponentKind]map[ical.PropertyKind]bool{
		ical.ComponentEvent:    eventProperties,
		ical.ComponentToDo:     toDoProperties,
		ical.ComponentJournal:  journalProperties,
		ical.ComponentFreeBusy: freeBusyProperties,
		ical.ComponentTimeZone: timeZoneProperties,
		ical.ComponentStandard: ruleProperties,
		ical.ComponentDaylight: ruleProperties,
		ical.ComponentAlarm:    alarmProperties,
	}
)

func kindSet(kinds ...ical.PropertyKind) map[ical.PropertyKind]bool {
	set := make(map[ical.PropertyKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// allowedChild reports whether a component of kind child may be nested in a
// typed component of kind parent.
func allowedChild(parent, child ical.ComponentKind) bool {
	switch parent {
	case ical.ComponentEvent, ical.ComponentToDo:
		return child == ical.ComponentAlarm
	case ical.ComponentTimeZone:
		return child == ical.ComponentStandard || child == ical.ComponentDaylight
	default:
		return false
	}
}

// allowedAtTopLevel reports whether a component of kind k may appear
// directly in a VCALENDAR.
func allowedAtTopLevel(k ical.ComponentKind) bool {
	switch k {
	case ical.ComponentAlarm, ical.ComponentStandard, ical.ComponentDaylight:
		return false
	default:
		return true
	}
}

// logicalLine is an unfolded line waiting to be parsed. The lexed form and
// the parsed property are cached so that a calendar cut by the end of the
// available input is not parsed again when more input arrives. A line
// always sits in the same component on every attempt, so the property
// table used the first time stays valid.
type logicalLine struct {
	offset  int
	content []byte
	folds   []int
	lexed   *contentLine
	prop    *Property
	raw     *ContentLine
}

// pos maps a position in the unfolded content to the folded input.
func (l *logicalLine) pos(col int) int {
	return l.offset + rawPos(l.folds, col)
}

// property parses the line as a property of a component whose grammar
// accepts allowed.
func (l *logicalLine) property(cl *contentLine, allowed map[ical.PropertyKind]bool) (*Property, error) {
	if l.prop != nil {
		return l.prop, nil
	}
	prop, err := parseProperty(cl, allowed)
	if err != nil {
		return nil, relocate(err, l.pos)
	}
	prop.Offset = l.offset
	l.prop = prop
	return prop, nil
}

// rawLine returns the line as the raw content line of an IANA or X-
// component.
func (l *logicalLine) rawLine(cl *contentLine) *ContentLine {
	if l.raw == nil {
		l.raw = rawContentLine(l, cl)
	}
	return l.raw
}

func (l *logicalLine) lex() (*contentLine, error) {
	if l.lexed != nil {
		return l.lexed, nil
	}
	cl, err := lexContentLine(l.content)
	if err != nil {
		return nil, relocate(err, l.pos)
	}
	l.lexed = cl
	return cl, nil
}

// lineKind tells the delimiter lines apart from properties.
type lineKind int

const (
	lineProperty lineKind = iota
	lineBegin
	lineEnd
)

// cursor walks a slice of logical lines with recursive descent, one method
// per grammar production.
type cursor struct {
	lines []*logicalLine
	pos   int
}

// next returns the next line, or ErrIncomplete when the available lines are
// exhausted.
func (c *cursor) next() (*logicalLine, *contentLine, lineKind, error) {
	if c.pos >= len(c.lines) {
		return nil, nil, 0, ErrIncomplete
	}
	line := c.lines[c.pos]
	c.pos++
	cl, err := line.lex()
	if err != nil {
		return nil, nil, 0, err
	}
	kind := lineProperty
	switch {
	case equalFoldASCII([]byte(cl.name), "BEGIN"):
		kind = lineBegin
	case equalFoldASCII([]byte(cl.name), "END"):
		kind = lineEnd
	default:
		return line, cl, kind, nil
	}
	if len(cl.params) > 0 {
		return nil, nil, 0, newError(line.pos(cl.params[0].column), KindSyntax, "%s takes no parameters", cl.name)
	}
	if name := string(cl.value); !isIANAToken(name) {
		return nil, nil, 0, newError(line.pos(cl.valueColumn), KindSyntax, "invalid component name %q", name)
	}
	return line, cl, kind, nil
}

// parseCalendar reads one VCALENDAR object. When trailing is set, a first
// line that does not open a calendar is reported as trailing data.
func (c *cursor) parseCalendar(trailing bool) (*Calendar, error) {
	line, cl, kind, err := c.next()
	if err != nil {
		if trailing && !errors.Is(err, ErrIncomplete) {
			return nil, newError(c.lines[c.pos-1].offset, KindTrailingData, "unexpected content after the last calendar")
		}
		return nil, err
	}
	if kind != lineBegin || !equalFoldASCII(cl.value, "VCALENDAR") {
		if trailing {
			return nil, newError(line.offset, KindTrailingData, "unexpected content after the last calendar")
		}
		return nil, newError(line.offset, KindSyntax, "expected BEGIN:VCALENDAR")
	}
	cal := &Calendar{Offset: line.offset}

	for {
		line, cl, kind, err = c.next()
		if err != nil {
			return nil, err
		}
		switch kind {
		case lineBegin:
			name := string(cl.value)
			compKind := ical.ComponentKindFromName(name)
			if equalFoldASCII(cl.value, "VCALENDAR") || !allowedAtTopLevel(compKind) {
				return nil, newError(line.offset, KindSyntax, "component %s is not allowed in VCALENDAR", name)
			}
			comp, err := c.parseComponent(line, name, compKind)
			if err != nil {
				return nil, err
			}
			cal.Components = append(cal.Components, comp)
		case lineEnd:
			if !equalFoldASCII(cl.value, "VCALENDAR") {
				return nil, newError(line.offset, KindMismatchedEnd, "expected END:VCALENDAR, got END:%s", cl.value)
			}
			if len(cal.Components) == 0 {
				return nil, newError(line.offset, KindSyntax, "a calendar must contain at least one component")
			}
			return cal, nil
		default:
			if len(cal.Components) > 0 {
				return nil, newError(line.offset, KindSyntax, "calendar property %s after a component", cl.name)
			}
			prop, err := line.property(cl, calendarProperties)
			if err != nil {
				return nil, err
			}
			cal.Properties = append(cal.Properties, prop)
		}
	}
}

// parseComponent reads the body of a component whose BEGIN line was just
// consumed, up to and including its END line.
func (c *cursor) parseComponent(begin *logicalLine, name string, kind ical.ComponentKind) (*Component, error) {
	if kind == ical.ComponentIANA || kind == ical.ComponentX {
		return c.parseUnknownComponent(begin, name)
	}
	comp := &Component{Offset: begin.offset, Kind: kind, Name: name}
	allowed := componentProperties[kind]
	for {
		line, cl, lk, err := c.next()
		if err != nil {
			return nil, err
		}
		switch lk {
		case lineBegin:
			childName := string(cl.value)
			childKind := ical.ComponentKindFromName(childName)
			if !allowedChild(kind, childKind) {
				return nil, newError(line.offset, KindSyntax, "component %s is not allowed in %s", childName, kind.Name())
			}
			child, err := c.parseComponent(line, childName, childKind)
			if err != nil {
				return nil, err
			}
			if childKind == ical.ComponentAlarm {
				comp.Alarms = append(comp.Alarms, child)
			} else {
				comp.Rules = append(comp.Rules, child)
			}
		case lineEnd:
			if !equalFoldASCII(cl.value, kind.Name()) {
				return nil, newError(line.offset, KindMismatchedEnd, "expected END:%s, got END:%s", kind.Name(), cl.value)
			}
			return comp, nil
		default:
			prop, err := line.property(cl, allowed)
			if err != nil {
				return nil, err
			}
			comp.Properties = append(comp.Properties, prop)
		}
	}
}

// parseUnknownComponent reads an IANA or X- component. Its END name must be
// byte for byte the BEGIN name; everything inside is kept raw.
func (c *cursor) parseUnknownComponent(begin *logicalLine, name string) (*Component, error) {
	comp := &Component{Offset: begin.offset, Kind: ical.ComponentKindFromName(name), Name: name}
	if comp.Kind != ical.ComponentX {
		comp.Kind = ical.ComponentIANA
	}
	for {
		line, cl, lk, err := c.next()
		if err != nil {
			return nil, err
		}
		switch lk {
		case lineBegin:
			child, err := c.parseUnknownComponent(line, string(cl.value))
			if err != nil {
				return nil, err
			}
			comp.Components = append(comp.Components, child)
		case lineEnd:
			if string(cl.value) != name {
				return nil, newError(line.offset, KindMismatchedEnd, "expected END:%s, got END:%s", name, cl.value)
			}
			return comp, nil
		default:
			comp.Lines = append(comp.Lines, line.rawLine(cl))
		}
	}
}

func rawContentLine(line *logicalLine, cl *contentLine) *ContentLine {
	out := &ContentLine{Offset: line.offset, Name: cl.name, Value: string(cl.value)}
	for _, rp := range cl.params {
		kind := ical.ParamIANA
		if isXName(rp.name) {
			kind = ical.ParamX
		}
		values := make(ical.RawParam, len(rp.values))
		for i, v := range rp.values {
			values[i] = v.text
		}
		out.Params = append(out.Params, &Param{Kind: kind, Name: rp.name, Value: values})
	}
	return out
}
