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
	"fmt"
	"strings"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/parser"
	"github.com/jplu/almanac/uri"
)

//nolint:gochecknoglobals // lookup table, never modified.
var statusValues = map[ical.ComponentKind]struct {
	context string
	allowed []string
}{
	ical.ComponentEvent:   {"event", []string{"TENTATIVE", "CONFIRMED", "CANCELLED"}},
	ical.ComponentToDo:    {"to-do", []string{"NEEDS-ACTION", "COMPLETED", "IN-PROCESS", "CANCELLED"}},
	ical.ComponentJournal: {"journal", []string{"DRAFT", "FINAL", "CANCELLED"}},
}

// typeLabel spells a value type the way messages do ("date-time").
func typeLabel(t ical.ValueType) string {
	return strings.ToLower(t.String())
}

// declaredName returns the text of the VALUE parameter.
func declaredName(p *model.Property) string {
	param, ok := p.Param(ical.ParamValueType)
	if !ok {
		return ""
	}
	if texts := param.Value.Texts(); len(texts) > 0 {
		return texts[0]
	}
	return ""
}

// declared checks the VALUE parameter of a known property against the
// property definition and the parsed value.
func (v *validator) declared(p *model.Property, loc Location) {
	t, ok := p.DeclaredValueType()
	if !ok {
		return
	}
	name := strings.ToLower(declaredName(p))
	if t == ical.TypeOther || !p.Kind.AllowsValueType(t) {
		v.errorf(loc, "Property is declared to have a %s value but that is not valid for this property", name)
		return
	}
	if t == p.Kind.DefaultValueType() {
		v.warnf(loc, "Redundant value specification which matches the default value")
	}
	if actual := p.Value.ValueType(); actual != t && actual != ical.TypeUnknown {
		v.errorf(loc, "Property is declared to have a %s value but the value is a %s", name, typeLabel(actual))
	}
	if t == ical.TypeBinary {
		v.encoding(p, loc)
	}
}

func (v *validator) encoding(p *model.Property, loc Location) {
	enc, ok := p.Param(ical.ParamEncoding)
	if !ok {
		v.errorf(loc, "Property is declared to have a binary value but no encoding is set, must be set to BASE64")
		return
	}
	if texts := enc.Value.Texts(); len(texts) > 0 && !strings.EqualFold(texts[0], "BASE64") {
		v.errorf(loc, "Property is declared to have a binary value but the encoding is set to %s, instead of BASE64",
			strings.ToUpper(texts[0]))
	}
}

// declaredRaw parses the raw value of an IANA or X- property with the
// grammar named by its VALUE parameter.
func (v *validator) declaredRaw(s *scope, p *model.Property, loc Location) {
	t, ok := p.DeclaredValueType()
	if !ok || t == ical.TypeOther {
		return
	}
	raw, isRaw := p.Value.(ical.Raw)
	if !isRaw {
		return
	}
	vloc := loc.with(HopValue, 0, "")
	label := typeLabel(t)
	notA := func() {
		v.errorf(loc, "Property is declared to have a %s value but the value is not a %s", label, label)
	}

	switch t {
	case ical.TypeText:
		if _, err := parser.ParseText([]byte(raw)); err != nil {
			notA()
		}
	case ical.TypeBinary:
		if _, err := parser.ParseBinary([]byte(raw)); err != nil {
			notA()
		}
		v.encoding(p, loc)
	case ical.TypeURI, ical.TypeCalAddress:
		if _, err := uri.Parse(string(raw)); err != nil {
			notA()
		}
	case ical.TypeRecur:
		r, err := parser.ParseRecur([]byte(raw))
		if err != nil {
			notA()
			return
		}
		v.recur(s, r, vloc)
	case ical.TypeTime:
		for i, item := range strings.Split(string(raw), ",") {
			tm, err := parser.ParseTime([]byte(item))
			if err != nil {
				v.errorf(loc, "Found an invalid time at index %d - %v", i, err)
				continue
			}
			v.timeRanges(tm, vloc)
		}
	default:
		for _, item := range strings.Split(string(raw), ",") {
			value, err := parseTyped(t, item)
			if err != nil {
				notA()
				return
			}
			v.ranges(value, vloc)
		}
	}
}

// parseTyped parses one element of a multi-valued raw property.
func parseTyped(t ical.ValueType, s string) (ical.Value, error) {
	b := []byte(s)
	switch t {
	case ical.TypeBoolean:
		x, err := parser.ParseBoolean(b)
		return ical.Boolean(x), err
	case ical.TypeDate:
		x, err := parser.ParseDate(b)
		return x, err
	case ical.TypeDateTime:
		x, err := parser.ParseDateTime(b)
		return x, err
	case ical.TypeDuration:
		x, err := parser.ParseDuration(b)
		return x, err
	case ical.TypeFloat:
		x, err := parser.ParseFloat(b)
		return ical.Float(x), err
	case ical.TypeInteger:
		x, err := parser.ParseInteger(b)
		return ical.Integer(x), err
	case ical.TypePeriod:
		x, err := parser.ParsePeriod(b)
		return x, err
	case ical.TypeUtcOffset:
		x, err := parser.ParseUtcOffset(b)
		return x, err
	default:
		return nil, fmt.Errorf("no parser for %s values", t)
	}
}

// value runs the checks tied to a known property.
func (v *validator) value(s *scope, p *model.Property, loc Location) {
	vloc := loc.with(HopValue, 0, "")
	v.ranges(p.Value, vloc)
	name := p.Kind.Name()
	_, hasDeclared := p.DeclaredValueType()

	switch p.Kind {
	case ical.PropDTStamp, ical.PropLastModified, ical.PropCompleted, ical.PropCreated:
		if !isUTCDateTime(p.Value) {
			v.errorf(vloc, "%s must be a UTC date-time", name)
		}
	case ical.PropDTStart:
		v.dateDefault(p, name, hasDeclared, vloc)
		switch s.kind {
		case ical.ComponentFreeBusy:
			if !isUTCDateTime(p.Value) {
				v.errorf(vloc, "DTSTART for FREEBUSY must be a UTC date-time")
			}
		case ical.ComponentStandard, ical.ComponentDaylight:
			if dt, ok := p.Value.(ical.DateTime); !ok || dt.UTC {
				v.errorf(vloc, "DTSTART must be a local time")
			}
		}
	case ical.PropDTEnd, ical.PropDue:
		v.dateDefault(p, name, hasDeclared, vloc)
		if s.kind == ical.ComponentFreeBusy && !isUTCDateTime(p.Value) {
			v.errorf(vloc, "%s for FREEBUSY must be a UTC date-time", name)
		}
		v.endAfterStart(s, p, name, vloc)
	case ical.PropRecurrenceID, ical.PropExDate, ical.PropRDate:
		v.dateDefault(p, name, hasDeclared, vloc)
	case ical.PropDuration:
		v.durationOfDate(s, p, vloc)
	case ical.PropTrigger:
		if dt, ok := p.Value.(ical.DateTime); ok && !dt.UTC {
			v.errorf(vloc, "TRIGGER must be a UTC date-time when it is not a duration")
		}
	case ical.PropStatus:
		v.status(s, p, vloc)
	case ical.PropFreeBusy:
		v.freeBusy(p, vloc)
	case ical.PropRRule:
		if r, ok := p.Value.(ical.Recur); ok {
			v.recur(s, r, vloc)
		}
	case ical.PropPriority:
		if n, ok := p.Value.(ical.Integer); ok && (n < 0 || n > 9) {
			v.errorf(vloc, "PRIORITY must be between 0 and 9")
		}
	case ical.PropPercentComplete:
		if n, ok := p.Value.(ical.Integer); ok && (n < 0 || n > 100) {
			v.errorf(vloc, "PERCENT-COMPLETE must be between 0 and 100")
		}
	case ical.PropGeo:
		if g, ok := p.Value.(ical.Geo); ok {
			if g.Latitude < -90 || g.Latitude > 90 {
				v.errorf(vloc, "Latitude must be between -90 and 90")
			}
			if g.Longitude < -180 || g.Longitude > 180 {
				v.errorf(vloc, "Longitude must be between -180 and 180")
			}
		}
	}
}

func isUTCDateTime(value ical.Value) bool {
	dt, ok := value.(ical.DateTime)
	return ok && dt.UTC
}

// dateDefault reports date and period values written without the VALUE
// parameter their type requires.
func (v *validator) dateDefault(p *model.Property, name string, hasDeclared bool, loc Location) {
	if hasDeclared {
		return
	}
	switch p.Value.(type) {
	case ical.Date, ical.DateList:
		v.errorf(loc, "%s defaults to date-time but only has a date value", name)
	case ical.Period, ical.PeriodList:
		v.errorf(loc, "%s defaults to date-time but has a period value", name)
	}
}

// endAfterStart compares DTEND or DUE with the DTSTART of the component.
// Date-times are only ordered when both use the same time zone.
func (v *validator) endAfterStart(s *scope, p *model.Property, name string, loc Location) {
	if s.dtstart == nil {
		return
	}
	switch start := s.dtstart.Value.(type) {
	case ical.DateTime:
		switch end := p.Value.(type) {
		case ical.Date:
			v.errorf(loc, "DTSTART is date-time but %s is date", name)
		case ical.DateTime:
			if start.UTC != end.UTC {
				v.errorf(loc, "%s must have the same time type as DTSTART, both UTC or both not UTC", name)
				return
			}
			if tzid(s.dtstart) == tzid(p) && end.Compare(start) < 0 {
				v.errorf(loc, "%s is before DTSTART", name)
			}
		}
	case ical.Date:
		switch end := p.Value.(type) {
		case ical.DateTime:
			v.errorf(loc, "DTSTART is date but %s is date-time", name)
		case ical.Date:
			if end.Compare(start) < 0 {
				v.errorf(loc, "%s is before DTSTART", name)
			}
		}
	}
}

func tzid(p *model.Property) string {
	param, ok := p.Param(ical.ParamTzID)
	if !ok {
		return ""
	}
	if id, isTzID := param.Value.(ical.TzIDParam); isTzID {
		return id.ID
	}
	return ""
}

// durationOfDate checks that an all-day component lasts whole days.
func (v *validator) durationOfDate(s *scope, p *model.Property, loc Location) {
	if s.dtstart == nil {
		return
	}
	if _, isDate := s.dtstart.Value.(ical.Date); !isDate {
		return
	}
	d, ok := p.Value.(ical.Duration)
	if !ok {
		return
	}
	if d.Hours.IsPresent() || d.Minutes.IsPresent() || d.Seconds.IsPresent() ||
		(d.Weeks.IsAbsent() && d.Days.IsAbsent()) {
		v.errorf(loc, "DURATION must have at least one of weeks or days when DTSTART is a date")
	}
}

func (v *validator) status(s *scope, p *model.Property, loc Location) {
	rule, ok := statusValues[s.kind]
	if !ok {
		return
	}
	text, ok := p.Text()
	if !ok {
		return
	}
	for _, a := range rule.allowed {
		if strings.EqualFold(a, text) {
			return
		}
	}
	v.errorf(loc, "Invalid STATUS value for %s: %s", rule.context, text)
}

func (v *validator) freeBusy(p *model.Property, loc Location) {
	periods, ok := p.Value.(ical.PeriodList)
	if !ok {
		return
	}
	for i, period := range periods {
		end, hasEnd := period.End.Get()
		if !period.Start.UTC || (hasEnd && !end.UTC) {
			v.errorf(loc, "FREEBUSY periods must be UTC")
			break
		}
		if i > 0 && period.Start.Compare(periods[i-1].Start) < 0 {
			v.warnf(loc, "FREEBUSY periods should be ordered")
			break
		}
	}
}

// ranges checks the fields of date, time and offset values, which the
// parser only checks for shape.
func (v *validator) ranges(value ical.Value, loc Location) {
	switch x := value.(type) {
	case ical.Date:
		v.dateRanges(x, loc)
	case ical.Time:
		v.timeRanges(x, loc)
	case ical.DateTime:
		v.dateRanges(x.Date, loc)
		v.timeRanges(x.Time, loc)
	case ical.Period:
		v.ranges(x.Start, loc)
		if end, ok := x.End.Get(); ok {
			v.ranges(end, loc)
		}
	case ical.DateList:
		for _, d := range x {
			v.dateRanges(d, loc)
		}
	case ical.DateTimeList:
		for _, dt := range x {
			v.ranges(dt, loc)
		}
	case ical.PeriodList:
		for _, p := range x {
			v.ranges(p, loc)
		}
	case ical.UtcOffset:
		if x.Negative && x.IsZero() {
			v.errorf(loc, "UTC offset must have a non-zero value if it is negative")
		}
		if x.Minutes > 59 {
			v.errorf(loc, "Minutes must be between 0 and 59")
		}
		if sec, ok := x.Seconds.Get(); ok && sec > 59 {
			v.errorf(loc, "Seconds must be between 0 and 59")
		}
	}
}

func (v *validator) dateRanges(d ical.Date, loc Location) {
	if d.Month < 1 || d.Month > 12 {
		v.errorf(loc, "Month must be between 1 and 12")
	}
	if d.Day < 1 || d.Day > 31 {
		v.errorf(loc, "Day must be between 1 and 31")
	}
}

func (v *validator) timeRanges(t ical.Time, loc Location) {
	if t.Hour > 23 {
		v.errorf(loc, "Hour must be between 0 and 23")
	}
	if t.Minute > 59 {
		v.errorf(loc, "Minute must be between 0 and 59")
	}
	if t.Second > 60 {
		v.errorf(loc, "Second must be between 0 and 60")
	}
}
