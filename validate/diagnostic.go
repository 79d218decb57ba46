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
)

// Severity tells errors from warnings.
type Severity int

const (
	// SeverityError marks a violation of RFC 5545.
	SeverityError Severity = iota
	// SeverityWarning marks legal but questionable content.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// HopKind is the kind of one step of a Location.
type HopKind int

const (
	HopCalendarProperty HopKind = iota
	HopComponent
	HopNestedComponent
	HopProperty
	HopNestedProperty
	HopParam
	HopValue
)

// Hop is one step from the calendar down to the offending element. Index is
// the position among the siblings; Name is empty for HopValue.
type Hop struct {
	Kind  HopKind
	Index int
	Name  string
}

func (h Hop) String() string {
	switch h.Kind {
	case HopCalendarProperty:
		return fmt.Sprintf("calendar property %q at index %d", h.Name, h.Index)
	case HopComponent:
		return fmt.Sprintf("component %q at index %d", h.Name, h.Index)
	case HopNestedComponent:
		return fmt.Sprintf("nested component %q at index %d", h.Name, h.Index)
	case HopProperty:
		return fmt.Sprintf("component property %q at index %d", h.Name, h.Index)
	case HopNestedProperty:
		return fmt.Sprintf("nested component property %q at index %d", h.Name, h.Index)
	case HopParam:
		return fmt.Sprintf("parameter %q at index %d", h.Name, h.Index)
	default:
		return "value"
	}
}

// Location is the path to the element a diagnostic is about. An empty
// location designates the calendar itself.
type Location []Hop

// String renders the location as `In component "VEVENT" at index 0, in
// component property "DTSTAMP" at index 1`.
func (l Location) String() string {
	var b strings.Builder
	for i, h := range l {
		if i == 0 {
			b.WriteString("In ")
		} else {
			b.WriteString(", in ")
		}
		b.WriteString(h.String())
	}
	return b.String()
}

// with returns a copy of l extended by h. The copy keeps sibling locations
// from sharing a backing array.
func (l Location) with(kind HopKind, index int, name string) Location {
	out := make(Location, len(l), len(l)+1)
	copy(out, l)
	return append(out, Hop{Kind: kind, Index: index, Name: name})
}

// Diagnostic is a single finding of the validator.
type Diagnostic struct {
	Severity Severity
	Message  string
	Location Location
}

func (d Diagnostic) String() string {
	if len(d.Location) == 0 {
		return d.Message
	}
	return d.Location.String() + ": " + d.Message
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
