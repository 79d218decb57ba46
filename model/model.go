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

// Package model holds the semantic representation of iCalendar data that the
// validator, the serializer and the interop bridges work on.
//
// Unlike the parse tree it carries no input offsets and treats every
// component alike: nested alarms, time zone rules and the children of IANA
// and X- components all live in Components, and the content lines of IANA
// and X- components are ordinary properties with an ical.Raw value.
package model

import (
	"strings"

	"github.com/jplu/almanac/ical"
)

// Calendar is a VCALENDAR object.
type Calendar struct {
	Properties []Property
	Components []Component
}

// Component is a calendar component. Name is the BEGIN/END name as written,
// which matters for IANA and X- components.
type Component struct {
	Kind       ical.ComponentKind
	Name       string
	Properties []Property
	Components []Component
}

// Property is a content line. Name keeps its original spelling; Kind is
// ical.PropIANA or ical.PropX for names the grammar does not know.
type Property struct {
	Kind   ical.PropertyKind
	Name   string
	Params []Param
	Value  ical.Value
}

// Param is a property parameter.
type Param struct {
	Kind  ical.ParamKind
	Name  string
	Value ical.ParamValue
}

// NewProperty returns a property of a known kind, spelled the way RFC 5545
// spells it.
func NewProperty(kind ical.PropertyKind, value ical.Value, params ...Param) Property {
	return Property{Kind: kind, Name: kind.Name(), Params: params, Value: value}
}

// NewParam returns a parameter of a known kind.
func NewParam(kind ical.ParamKind, value ical.ParamValue) Param {
	return Param{Kind: kind, Name: kind.Name(), Value: value}
}

// NewComponent returns an empty component of a known kind.
func NewComponent(kind ical.ComponentKind) Component {
	return Component{Kind: kind, Name: kind.Name()}
}

// Property returns the first calendar property of the given kind.
func (c *Calendar) Property(kind ical.PropertyKind) (*Property, bool) {
	return first(c.Properties, kind)
}

// PropertiesOf returns every calendar property of the given kind.
func (c *Calendar) PropertiesOf(kind ical.PropertyKind) []*Property {
	return all(c.Properties, kind)
}

// ComponentsOf returns the top level components of the given kind.
func (c *Calendar) ComponentsOf(kind ical.ComponentKind) []*Component {
	return children(c.Components, kind)
}

// Property returns the first property of the given kind.
func (c *Component) Property(kind ical.PropertyKind) (*Property, bool) {
	return first(c.Properties, kind)
}

// PropertiesOf returns every property of the given kind.
func (c *Component) PropertiesOf(kind ical.PropertyKind) []*Property {
	return all(c.Properties, kind)
}

// Named returns the properties whose name matches, ignoring case. It is the
// way to reach IANA and X- properties.
func (c *Component) Named(name string) []*Property {
	var out []*Property
	for i := range c.Properties {
		if strings.EqualFold(c.Properties[i].Name, name) {
			out = append(out, &c.Properties[i])
		}
	}
	return out
}

// ComponentsOf returns the nested components of the given kind.
func (c *Component) ComponentsOf(kind ical.ComponentKind) []*Component {
	return children(c.Components, kind)
}

// Param returns the first parameter of the given kind.
func (p *Property) Param(kind ical.ParamKind) (*Param, bool) {
	for i := range p.Params {
		if p.Params[i].Kind == kind {
			return &p.Params[i], true
		}
	}
	return nil, false
}

// ParamsNamed returns the parameters whose name matches, ignoring case.
func (p *Property) ParamsNamed(name string) []*Param {
	var out []*Param
	for i := range p.Params {
		if strings.EqualFold(p.Params[i].Name, name) {
			out = append(out, &p.Params[i])
		}
	}
	return out
}

// DeclaredValueType returns the type named by the VALUE parameter, if any.
func (p *Property) DeclaredValueType() (ical.ValueType, bool) {
	param, ok := p.Param(ical.ParamValueType)
	if !ok {
		return ical.TypeUnknown, false
	}
	texts := param.Value.Texts()
	if len(texts) == 0 {
		return ical.TypeUnknown, false
	}
	return ical.ValueTypeFromName(texts[0]), true
}

// Text returns the value of a TEXT property.
func (p *Property) Text() (string, bool) {
	t, ok := p.Value.(ical.Text)
	return string(t), ok
}

func first(props []Property, kind ical.PropertyKind) (*Property, bool) {
	for i := range props {
		if props[i].Kind == kind {
			return &props[i], true
		}
	}
	return nil, false
}

func all(props []Property, kind ical.PropertyKind) []*Property {
	var out []*Property
	for i := range props {
		if props[i].Kind == kind {
			out = append(out, &props[i])
		}
	}
	return out
}

func children(comps []Component, kind ical.ComponentKind) []*Component {
	var out []*Component
	for i := range comps {
		if comps[i].Kind == kind {
			out = append(out, &comps[i])
		}
	}
	return out
}
