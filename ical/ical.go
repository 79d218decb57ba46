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

// Package ical holds the vocabulary shared by the parser, the semantic model,
// the validator and the serializer: component, property and parameter kinds
// with their RFC 5545 names, value types, and the immutable value kinds that
// property and parameter values are parsed into.
package ical

import "strings"

// ValueType identifies one of the value data types of RFC 5545, Section 3.3.
type ValueType int

// The value types of RFC 5545, Section 3.3. TypeUnknown is the zero value and
// is reported by unparsed values. TypeOther stands for an IANA or X- name
// given in a VALUE parameter.
const (
	TypeUnknown ValueType = iota
	TypeBinary
	TypeBoolean
	TypeCalAddress
	TypeDate
	TypeDateTime
	TypeDuration
	TypeFloat
	TypeInteger
	TypePeriod
	TypeRecur
	TypeText
	TypeTime
	TypeURI
	TypeUtcOffset
	TypeOther
)

//nolint:gochecknoglobals // lookup table, never modified.
var valueTypeNames = [...]string{
	TypeUnknown:    "",
	TypeBinary:     "BINARY",
	TypeBoolean:    "BOOLEAN",
	TypeCalAddress: "CAL-ADDRESS",
	TypeDate:       "DATE",
	TypeDateTime:   "DATE-TIME",
	TypeDuration:   "DURATION",
	TypeFloat:      "FLOAT",
	TypeInteger:    "INTEGER",
	TypePeriod:     "PERIOD",
	TypeRecur:      "RECUR",
	TypeText:       "TEXT",
	TypeTime:       "TIME",
	TypeURI:        "URI",
	TypeUtcOffset:  "UTC-OFFSET",
	TypeOther:      "",
}

// String returns the name used in the VALUE parameter, or an empty string for
// TypeUnknown and TypeOther.
func (t ValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return ""
	}
	return valueTypeNames[t]
}

// ValueTypeFromName maps a VALUE parameter value to its ValueType. Matching
// ignores case. Names that are not one of the RFC 5545 types map to TypeOther.
func ValueTypeFromName(name string) ValueType {
	for t := TypeBinary; t < TypeOther; t++ {
		if strings.EqualFold(valueTypeNames[t], name) {
			return t
		}
	}
	return TypeOther
}

// Value is implemented by every typed property value.
type Value interface {
	ValueType() ValueType
}

// IsXName reports whether name has the "X-" prefix of experimental names.
func IsXName(name string) bool {
	return len(name) > 2 && (name[0] == 'X' || name[0] == 'x') && name[1] == '-'
}
