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

// Package convert turns parse trees into the semantic model.
//
// The conversion copies the tree one to one. Known component, property and
// parameter names are respelled the way RFC 5545 writes them; IANA and X-
// names keep their original spelling. Content lines of IANA and X-
// components become properties with an ical.Raw value.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/parser"
)

// ErrInvalidBinary is returned when a BINARY value does not decode as base64.
var ErrInvalidBinary = errors.New("binary value is not valid base64")

type options struct {
	logger    *slog.Logger
	normalize bool
}

// Option configures a conversion.
type Option func(*options)

// WithLogger sets the logger used for debug messages. It defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTextNormalization puts TEXT values and CN parameters in Unicode
// Normalization Form C.
func WithTextNormalization() Option {
	return func(o *options) {
		o.normalize = true
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ToModel converts parsed calendars.
func ToModel(cals []*parser.Calendar, opts ...Option) ([]model.Calendar, error) {
	o := newOptions(opts)
	out := make([]model.Calendar, 0, len(cals))
	for i, cal := range cals {
		converted, err := o.calendar(cal)
		if err != nil {
			return nil, fmt.Errorf("converting calendar %d: %w", i, err)
		}
		o.logger.Debug("converted calendar",
			slog.Int("index", i),
			slog.Int("components", len(converted.Components)))
		out = append(out, converted)
	}
	return out, nil
}

// Load parses data and converts the result.
func Load(data []byte, opts ...Option) ([]model.Calendar, error) {
	cals, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return ToModel(cals, opts...)
}

// Read parses every calendar from r and converts the result. The logger
// given with WithLogger is also used by the decoder.
func Read(ctx context.Context, r io.Reader, opts ...Option) ([]model.Calendar, error) {
	o := newOptions(opts)
	cals, err := parser.NewDecoder(r, parser.WithLogger(o.logger)).DecodeAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToModel(cals, opts...)
}

func (o *options) calendar(cal *parser.Calendar) (model.Calendar, error) {
	props, err := o.properties(cal.Properties)
	if err != nil {
		return model.Calendar{}, err
	}
	out := model.Calendar{Properties: props}
	for _, comp := range cal.Components {
		c, err := o.component(comp)
		if err != nil {
			return model.Calendar{}, err
		}
		out.Components = append(out.Components, c)
	}
	return out, nil
}

func (o *options) component(comp *parser.Component) (model.Component, error) {
	out := model.Component{Kind: comp.Kind, Name: componentName(comp)}

	props, err := o.properties(comp.Properties)
	if err != nil {
		return model.Component{}, fmt.Errorf("in %s: %w", out.Name, err)
	}
	out.Properties = props
	for _, line := range comp.Lines {
		out.Properties = append(out.Properties, rawProperty(line))
	}

	nested := make([]*parser.Component, 0, len(comp.Alarms)+len(comp.Rules)+len(comp.Components))
	nested = append(nested, comp.Alarms...)
	nested = append(nested, comp.Rules...)
	nested = append(nested, comp.Components...)
	for _, child := range nested {
		c, err := o.component(child)
		if err != nil {
			return model.Component{}, fmt.Errorf("in %s: %w", out.Name, err)
		}
		out.Components = append(out.Components, c)
	}
	return out, nil
}

func componentName(comp *parser.Component) string {
	if name := comp.Kind.Name(); name != "" {
		return name
	}
	return comp.Name
}

func (o *options) properties(props []*parser.Property) ([]model.Property, error) {
	if len(props) == 0 {
		return nil, nil
	}
	out := make([]model.Property, 0, len(props))
	for _, p := range props {
		value, err := o.value(p)
		if err != nil {
			return nil, err
		}
		name := p.Name
		if p.Kind != ical.PropIANA && p.Kind != ical.PropX {
			name = p.Kind.Name()
		}
		out = append(out, model.Property{Kind: p.Kind, Name: name, Params: o.params(p.Params), Value: value})
	}
	return out, nil
}

func (o *options) value(p *parser.Property) (ical.Value, error) {
	switch v := p.Value.(type) {
	case ical.Binary:
		if _, err := v.Decode(); err != nil {
			return nil, fmt.Errorf("%s at offset %d: %w: %w", p.Name, p.Offset, ErrInvalidBinary, err)
		}
	case ical.Text:
		if o.normalize {
			return ical.Text(norm.NFC.String(string(v))), nil
		}
	case ical.TextList:
		if o.normalize {
			out := make(ical.TextList, len(v))
			for i, t := range v {
				out[i] = norm.NFC.String(t)
			}
			return out, nil
		}
	}
	return p.Value, nil
}

func (o *options) params(params []*parser.Param) []model.Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]model.Param, 0, len(params))
	for _, p := range params {
		name := p.Name
		if p.Kind != ical.ParamIANA && p.Kind != ical.ParamX {
			name = p.Kind.Name()
		}
		value := p.Value
		if cn, ok := value.(ical.TextParam); ok && o.normalize {
			value = ical.TextParam(norm.NFC.String(string(cn)))
		}
		out = append(out, model.Param{Kind: p.Kind, Name: name, Value: value})
	}
	return out
}

// rawProperty turns a content line of an IANA or X- component into a
// property carrying its raw value.
func rawProperty(line *parser.ContentLine) model.Property {
	kind := ical.PropIANA
	if ical.IsXName(line.Name) {
		kind = ical.PropX
	}
	prop := model.Property{Kind: kind, Name: line.Name, Value: ical.Raw(line.Value)}
	for _, p := range line.Params {
		prop.Params = append(prop.Params, model.Param{Kind: p.Kind, Name: p.Name, Value: p.Value})
	}
	return prop
}
