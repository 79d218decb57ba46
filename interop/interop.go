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

// Package interop converts the semantic model to and from the calendar types
// of other Go libraries: github.com/emersion/go-ical,
// github.com/arran4/golang-ical and github.com/teambition/rrule-go.
//
// Conversions into the model go through iCalendar text, so values are typed
// and checked by the same parser as any other input.
package interop

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jplu/almanac/convert"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/serialize"
)

// ErrNotCalendar is returned when the root of a foreign calendar is not a
// VCALENDAR.
var ErrNotCalendar = errors.New("interop: root component is not a VCALENDAR")

// document accumulates unfolded content lines.
type document struct {
	b strings.Builder
}

func (d *document) begin(name string) {
	d.b.WriteString("BEGIN:")
	d.b.WriteString(name)
	d.b.WriteString("\r\n")
}

func (d *document) end(name string) {
	d.b.WriteString("END:")
	d.b.WriteString(name)
	d.b.WriteString("\r\n")
}

// property writes a content line. The value must already be in its escaped
// form; params map names to unquoted values and are written in name order.
func (d *document) property(name string, params map[string][]string, value string) {
	d.b.WriteString(name)
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		d.b.WriteByte(';')
		serialize.WriteParam(&d.b, n, params[n])
	}
	d.b.WriteByte(':')
	d.b.WriteString(value)
	d.b.WriteString("\r\n")
}

func (d *document) calendar(opts []convert.Option) (model.Calendar, error) {
	cals, err := convert.Load([]byte(d.b.String()), opts...)
	if err != nil {
		return model.Calendar{}, fmt.Errorf("interop: %w", err)
	}
	if len(cals) != 1 {
		return model.Calendar{}, fmt.Errorf("interop: expected one calendar, got %d", len(cals))
	}
	return cals[0], nil
}

// paramMap groups the parameter values of p by name.
func paramMap(p *model.Property) map[string][]string {
	params := make(map[string][]string, len(p.Params))
	for i := range p.Params {
		name := serialize.ParamName(&p.Params[i])
		params[name] = append(params[name], serialize.ParamValues(&p.Params[i])...)
	}
	return params
}
