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
	"sort"
	"strings"

	goical "github.com/emersion/go-ical"

	"github.com/jplu/almanac/convert"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/serialize"
)

// ToGoICal returns cal as a go-ical calendar. Property values keep their
// escaped text form, which is what go-ical stores.
func ToGoICal(cal *model.Calendar) *goical.Calendar {
	root := goical.NewComponent(goical.CompCalendar)
	for i := range cal.Properties {
		addGoProp(root, &cal.Properties[i])
	}
	for i := range cal.Components {
		root.Children = append(root.Children, toGoComponent(&cal.Components[i]))
	}
	return &goical.Calendar{Component: root}
}

func toGoComponent(c *model.Component) *goical.Component {
	name := c.Name
	if name == "" {
		name = c.Kind.Name()
	}
	out := goical.NewComponent(name)
	for i := range c.Properties {
		addGoProp(out, &c.Properties[i])
	}
	for i := range c.Components {
		out.Children = append(out.Children, toGoComponent(&c.Components[i]))
	}
	return out
}

func addGoProp(c *goical.Component, p *model.Property) {
	prop := goical.NewProp(serialize.PropertyName(p))
	for name, values := range paramMap(p) {
		prop.Params[name] = values
	}
	prop.Value = serialize.FormatValue(p.Value)
	c.Props.Add(prop)
}

// FromGoICal converts a go-ical calendar. go-ical keeps properties in a map,
// so they come out grouped by name, in name order.
func FromGoICal(cal *goical.Calendar, opts ...convert.Option) (model.Calendar, error) {
	if cal == nil || cal.Component == nil || !strings.EqualFold(cal.Name, goical.CompCalendar) {
		return model.Calendar{}, ErrNotCalendar
	}
	var doc document
	writeGoComponent(&doc, cal.Component)
	return doc.calendar(opts)
}

func writeGoComponent(doc *document, c *goical.Component) {
	doc.begin(c.Name)
	names := make([]string, 0, len(c.Props))
	for name := range c.Props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, prop := range c.Props[name] {
			propName := prop.Name
			if propName == "" {
				propName = name
			}
			doc.property(propName, prop.Params, prop.Value)
		}
	}
	for _, child := range c.Children {
		writeGoComponent(doc, child)
	}
	doc.end(c.Name)
}
