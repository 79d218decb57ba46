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
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"

	"github.com/jplu/almanac/convert"
	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/serialize"
)

// ToArran returns cal as a golang-ical calendar. golang-ical stores the
// values of the properties it types as TEXT unescaped, and escapes them again
// when serializing; other values keep their content line form. Within a TEXT
// list, an escaped comma does not survive that round trip.
func ToArran(cal *model.Calendar) *ics.Calendar {
	out := &ics.Calendar{
		Components:         make([]ics.Component, 0, len(cal.Components)),
		CalendarProperties: make([]ics.CalendarProperty, 0, len(cal.Properties)),
	}
	for i := range cal.Properties {
		out.CalendarProperties = append(out.CalendarProperties, ics.CalendarProperty{BaseProperty: arranProperty(&cal.Properties[i])})
	}
	for i := range cal.Components {
		out.Components = append(out.Components, toArranComponent(&cal.Components[i]))
	}
	return out
}

func arranProperty(p *model.Property) ics.BaseProperty {
	bp := ics.BaseProperty{
		IANAToken:      serialize.PropertyName(p),
		ICalParameters: paramMap(p),
	}
	value := serialize.FormatValue(p.Value)
	if bp.GetValueType() == ics.ValueDataTypeText {
		value = ics.FromText(value)
	}
	bp.Value = value
	return bp
}

func toArranComponent(c *model.Component) ics.Component {
	base := ics.ComponentBase{
		Properties: make([]ics.IANAProperty, 0, len(c.Properties)),
	}
	for i := range c.Properties {
		base.Properties = append(base.Properties, ics.IANAProperty{BaseProperty: arranProperty(&c.Properties[i])})
	}
	for i := range c.Components {
		base.Components = append(base.Components, toArranComponent(&c.Components[i]))
	}

	switch c.Kind {
	case ical.ComponentEvent:
		return &ics.VEvent{ComponentBase: base}
	case ical.ComponentToDo:
		return &ics.VTodo{ComponentBase: base}
	case ical.ComponentJournal:
		return &ics.VJournal{ComponentBase: base}
	case ical.ComponentFreeBusy:
		return &ics.VBusy{ComponentBase: base}
	case ical.ComponentTimeZone:
		return &ics.VTimezone{ComponentBase: base}
	case ical.ComponentAlarm:
		return &ics.VAlarm{ComponentBase: base}
	case ical.ComponentStandard:
		return &ics.Standard{ComponentBase: base}
	case ical.ComponentDaylight:
		return &ics.Daylight{ComponentBase: base}
	default:
		name := c.Name
		if name == "" {
			name = c.Kind.Name()
		}
		return &ics.GeneralComponent{ComponentBase: base, Token: name}
	}
}

// FromArran converts a golang-ical calendar.
func FromArran(cal *ics.Calendar, opts ...convert.Option) (model.Calendar, error) {
	if cal == nil {
		return model.Calendar{}, ErrNotCalendar
	}
	var doc document
	doc.begin(string(ics.ComponentVCalendar))
	for i := range cal.CalendarProperties {
		writeArranProperty(&doc, &cal.CalendarProperties[i].BaseProperty)
	}
	for _, c := range cal.Components {
		if err := writeArranComponent(&doc, c); err != nil {
			return model.Calendar{}, err
		}
	}
	doc.end(string(ics.ComponentVCalendar))
	return doc.calendar(opts)
}

func writeArranComponent(doc *document, c ics.Component) error {
	name, err := arranName(c)
	if err != nil {
		return err
	}
	doc.begin(name)
	props := c.UnknownPropertiesIANAProperties()
	for i := range props {
		writeArranProperty(doc, &props[i].BaseProperty)
	}
	for _, child := range c.SubComponents() {
		if err := writeArranComponent(doc, child); err != nil {
			return err
		}
	}
	doc.end(name)
	return nil
}

func writeArranProperty(doc *document, bp *ics.BaseProperty) {
	value := bp.Value
	if bp.GetValueType() == ics.ValueDataTypeText {
		value = arranText(bp.IANAToken, value)
	}
	doc.property(bp.IANAToken, bp.ICalParameters, value)
}

// arranText escapes a value golang-ical holds as plain text. List and
// structured values are split on their separators first, since golang-ical
// keeps them joined and unescaped.
func arranText(name, value string) string {
	var sep string
	limit := -1
	switch ical.PropertyKindFromName(name) {
	case ical.PropCategories, ical.PropResources:
		sep = ","
	case ical.PropRequestStatus:
		sep, limit = ";", 3
	default:
		return ics.ToText(value)
	}
	items := strings.SplitN(value, sep, limit)
	for i, item := range items {
		items[i] = ics.ToText(item)
	}
	return strings.Join(items, sep)
}

func arranName(c ics.Component) (string, error) {
	switch c := c.(type) {
	case *ics.VEvent:
		return string(ics.ComponentVEvent), nil
	case *ics.VTodo:
		return string(ics.ComponentVTodo), nil
	case *ics.VJournal:
		return string(ics.ComponentVJournal), nil
	case *ics.VBusy:
		return string(ics.ComponentVFreeBusy), nil
	case *ics.VTimezone:
		return string(ics.ComponentVTimezone), nil
	case *ics.VAlarm:
		return string(ics.ComponentVAlarm), nil
	case *ics.Standard:
		return string(ics.ComponentStandard), nil
	case *ics.Daylight:
		return string(ics.ComponentDaylight), nil
	case *ics.GeneralComponent:
		return c.Token, nil
	default:
		return "", fmt.Errorf("interop: unsupported golang-ical component %T", c)
	}
}
