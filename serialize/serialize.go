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

// Package serialize writes the semantic model back as iCalendar text.
//
// Output uses CRLF line endings. TEXT values are escaped, parameter values
// are quoted when they contain ":", ";" or "," and URI parameters are always
// quoted. Content lines longer than the fold width are folded without
// splitting a UTF-8 sequence. Parsing and converting the output yields a
// model equal to the input.
package serialize

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
)

// DefaultFoldWidth is the line length limit of RFC 5545, Section 3.1, in
// octets and without the line break.
const DefaultFoldWidth = 75

const crlf = "\r\n"

type options struct {
	foldWidth int
}

// Option configures an Encoder.
type Option func(*options)

// WithFoldWidth sets the octet length after which lines are folded. Zero
// disables folding. Widths below 2 are raised to 2 so that every physical
// line carries content.
func WithFoldWidth(n int) Option {
	return func(o *options) {
		switch {
		case n <= 0:
			o.foldWidth = 0
		case n < 2:
			o.foldWidth = 2
		default:
			o.foldWidth = n
		}
	}
}

// Encoder writes calendars to a stream.
type Encoder struct {
	w    *bufio.Writer
	opts options
	line strings.Builder
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	e := &Encoder{w: bufio.NewWriter(w), opts: options{foldWidth: DefaultFoldWidth}}
	for _, opt := range opts {
		opt(&e.opts)
	}
	return e
}

// Encode writes one VCALENDAR object.
func (e *Encoder) Encode(cal *model.Calendar) error {
	e.begin("VCALENDAR")
	for i := range cal.Properties {
		e.property(&cal.Properties[i])
	}
	for i := range cal.Components {
		e.component(&cal.Components[i])
	}
	e.end("VCALENDAR")
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("serialize: writing calendar: %w", err)
	}
	return nil
}

// Write encodes the calendars to w with the default options.
func Write(w io.Writer, cals ...model.Calendar) error {
	enc := NewEncoder(w)
	for i := range cals {
		if err := enc.Encode(&cals[i]); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the encoding of the calendars.
func Bytes(cals ...model.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, cals...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) component(c *model.Component) {
	name := componentName(c)
	e.begin(name)
	for i := range c.Properties {
		e.property(&c.Properties[i])
	}
	for i := range c.Components {
		e.component(&c.Components[i])
	}
	e.end(name)
}

func componentName(c *model.Component) string {
	if c.Name != "" {
		return c.Name
	}
	return c.Kind.Name()
}

func (e *Encoder) begin(name string) {
	e.line.Reset()
	e.line.WriteString("BEGIN:")
	e.line.WriteString(name)
	e.flushLine()
}

func (e *Encoder) end(name string) {
	e.line.Reset()
	e.line.WriteString("END:")
	e.line.WriteString(name)
	e.flushLine()
}

func (e *Encoder) property(p *model.Property) {
	e.line.Reset()
	e.line.WriteString(PropertyName(p))
	for i := range p.Params {
		e.line.WriteByte(';')
		WriteParam(&e.line, ParamName(&p.Params[i]), ParamValues(&p.Params[i]))
	}
	e.line.WriteByte(':')
	e.line.WriteString(FormatValue(p.Value))
	e.flushLine()
}

// PropertyName returns the name a property is written with.
func PropertyName(p *model.Property) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Kind.Name()
}

// flushLine writes the pending content line, folded. Write errors are kept
// by the bufio.Writer and reported by Flush.
func (e *Encoder) flushLine() {
	for _, part := range fold(e.line.String(), e.opts.foldWidth) {
		_, _ = e.w.WriteString(part)
	}
	_, _ = e.w.WriteString(crlf)
}

// WriteParam appends "NAME=value[,value...]" to b. Values are quoted when
// they contain ":", ";" or ",", and always for parameters whose values are
// URIs.
func WriteParam(b *strings.Builder, name string, values []string) {
	b.WriteString(name)
	b.WriteByte('=')
	alwaysQuote := ical.ParamKindFromName(name).TakesURI()
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		if alwaysQuote || strings.ContainsAny(v, ":;,") {
			b.WriteByte('"')
			b.WriteString(v)
			b.WriteByte('"')
			continue
		}
		b.WriteString(v)
	}
}

// ParamName returns the name a parameter is written with.
func ParamName(p *model.Param) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Kind.Name()
}

// ParamValues returns the unquoted values of a parameter.
func ParamValues(p *model.Param) []string {
	if p.Value == nil {
		return nil
	}
	return p.Value.Texts()
}
