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

// Package xcal renders the semantic model as xCal, the XML representation of
// iCalendar defined by RFC 6321.
package xcal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/serialize"
)

// Namespace is the xCal XML namespace.
const Namespace = "urn:ietf:params:xml:ns:icalendar-2.0"

// Document returns an xCal document holding one vcalendar element per
// calendar.
func Document(cals ...model.Calendar) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("icalendar")
	root.CreateAttr("xmlns", Namespace)
	for i := range cals {
		vcal := root.CreateElement("vcalendar")
		writeProperties(vcal, cals[i].Properties)
		writeComponents(vcal, cals[i].Components)
	}
	return doc
}

// Encode writes the indented xCal document for cals to w.
func Encode(w io.Writer, cals ...model.Calendar) error {
	doc := Document(cals...)
	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("xcal: %w", err)
	}
	return nil
}

func writeComponents(parent *etree.Element, comps []model.Component) {
	if len(comps) == 0 {
		return
	}
	el := parent.CreateElement("components")
	for i := range comps {
		c := &comps[i]
		name := c.Name
		if name == "" {
			name = c.Kind.Name()
		}
		comp := el.CreateElement(strings.ToLower(name))
		writeProperties(comp, c.Properties)
		writeComponents(comp, c.Components)
	}
}

func writeProperties(parent *etree.Element, props []model.Property) {
	if len(props) == 0 {
		return
	}
	el := parent.CreateElement("properties")
	for i := range props {
		writeProperty(el, &props[i])
	}
}

func writeProperty(parent *etree.Element, p *model.Property) {
	el := parent.CreateElement(strings.ToLower(serialize.PropertyName(p)))
	writeParams(el, p.Params)
	writeValue(el, p)
}

func writeParams(el *etree.Element, params []model.Param) {
	var out *etree.Element
	for i := range params {
		p := &params[i]
		// The value element carries the type.
		if p.Kind == ical.ParamValueType {
			continue
		}
		if out == nil {
			out = el.CreateElement("parameters")
		}
		param := out.CreateElement(strings.ToLower(serialize.ParamName(p)))
		typ := paramValueElement(p.Kind)
		for _, v := range serialize.ParamValues(p) {
			if typ == "boolean" {
				v = strings.ToLower(v)
			}
			param.CreateElement(typ).SetText(v)
		}
	}
}

func paramValueElement(k ical.ParamKind) string {
	switch k {
	case ical.ParamAltRep, ical.ParamDir:
		return "uri"
	case ical.ParamDelegatedFrom, ical.ParamDelegatedTo, ical.ParamMember, ical.ParamSentBy:
		return "cal-address"
	case ical.ParamRSVP:
		return "boolean"
	default:
		return "text"
	}
}

func writeValue(el *etree.Element, p *model.Property) {
	switch v := p.Value.(type) {
	case ical.Text:
		el.CreateElement("text").SetText(string(v))
	case ical.TextList:
		for _, s := range v {
			el.CreateElement("text").SetText(s)
		}
	case ical.Version:
		el.CreateElement("text").SetText(v.String())
	case ical.Integer:
		el.CreateElement("integer").SetText(strconv.Itoa(int(v)))
	case ical.Float:
		el.CreateElement("float").SetText(strconv.FormatFloat(float64(v), 'f', -1, 64))
	case ical.Boolean:
		el.CreateElement("boolean").SetText(strconv.FormatBool(bool(v)))
	case ical.Geo:
		geo := el.CreateElement("geo")
		geo.CreateElement("latitude").SetText(strconv.FormatFloat(v.Latitude, 'f', -1, 64))
		geo.CreateElement("longitude").SetText(strconv.FormatFloat(v.Longitude, 'f', -1, 64))
	case ical.RequestStatus:
		rs := el.CreateElement("request-status")
		rs.CreateElement("code").SetText(v.CodeString())
		rs.CreateElement("description").SetText(v.Description)
		if extra, ok := v.ExtraData.Get(); ok {
			rs.CreateElement("data").SetText(extra)
		}
	case ical.Binary:
		el.CreateElement("binary").SetText(string(v))
	case ical.URI:
		el.CreateElement("uri").SetText(serialize.FormatValue(v))
	case ical.CalAddress:
		el.CreateElement("cal-address").SetText(serialize.FormatValue(v))
	case ical.Date:
		el.CreateElement("date").SetText(date(v))
	case ical.DateTime:
		el.CreateElement("date-time").SetText(dateTime(v))
	case ical.Time:
		el.CreateElement("time").SetText(clock(v))
	case ical.Duration:
		el.CreateElement("duration").SetText(v.String())
	case ical.Period:
		writePeriod(el, v)
	case ical.UtcOffset:
		el.CreateElement("utc-offset").SetText(utcOffset(v))
	case ical.DateList:
		for _, d := range v {
			el.CreateElement("date").SetText(date(d))
		}
	case ical.DateTimeList:
		for _, dt := range v {
			el.CreateElement("date-time").SetText(dateTime(dt))
		}
	case ical.PeriodList:
		for _, period := range v {
			writePeriod(el, period)
		}
	case ical.Recur:
		writeRecur(el.CreateElement("recur"), v)
	case ical.Raw:
		typ := "unknown"
		if t, ok := p.DeclaredValueType(); ok && t != ical.TypeOther {
			typ = strings.ToLower(t.String())
		}
		el.CreateElement(typ).SetText(string(v))
	default:
		el.CreateElement("unknown").SetText(serialize.FormatValue(v))
	}
}

func writePeriod(el *etree.Element, p ical.Period) {
	period := el.CreateElement("period")
	period.CreateElement("start").SetText(dateTime(p.Start))
	if end, ok := p.End.Get(); ok {
		period.CreateElement("end").SetText(dateTime(end))
		return
	}
	period.CreateElement("duration").SetText(p.Duration.OrEmpty().String())
}

func writeRecur(el *etree.Element, r ical.Recur) {
	for _, part := range r.Parts {
		name := strings.ToLower(part.Kind.String())
		switch part.Kind {
		case ical.PartFreq:
			el.CreateElement(name).SetText(part.Freq.String())
		case ical.PartUntil:
			switch u := part.Until.(type) {
			case ical.Date:
				el.CreateElement(name).SetText(date(u))
			case ical.DateTime:
				el.CreateElement(name).SetText(dateTime(u))
			}
		case ical.PartCount, ical.PartInterval:
			el.CreateElement(name).SetText(strconv.Itoa(part.Count))
		case ical.PartByDay:
			for _, d := range part.Days {
				el.CreateElement(name).SetText(d.String())
			}
		case ical.PartWeekStart:
			el.CreateElement(name).SetText(part.Weekday.String())
		default:
			for _, n := range part.Numbers {
				el.CreateElement(name).SetText(strconv.Itoa(n))
			}
		}
	}
}

func date(d ical.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func clock(t ical.Time) string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.UTC {
		s += "Z"
	}
	return s
}

func dateTime(dt ical.DateTime) string {
	return date(dt.Date) + "T" + clock(dt.Time)
}

func utcOffset(o ical.UtcOffset) string {
	sign := '+'
	if o.Negative {
		sign = '-'
	}
	s := fmt.Sprintf("%c%02d:%02d", sign, o.Hours, o.Minutes)
	if sec, ok := o.Seconds.Get(); ok {
		s += fmt.Sprintf(":%02d", sec)
	}
	return s
}
