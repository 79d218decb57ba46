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

package serialize

import (
	"strconv"
	"strings"

	"github.com/jplu/almanac/ical"
)

//nolint:gochecknoglobals // fixed escape table.
var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// EscapeText escapes a TEXT value (RFC 5545, Section 3.3.11).
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// FormatValue returns a property value as written after the ":" of a content
// line.
func FormatValue(v ical.Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case ical.Text:
		return EscapeText(string(v))
	case ical.TextList:
		escaped := make([]string, len(v))
		for i, s := range v {
			escaped[i] = EscapeText(s)
		}
		return strings.Join(escaped, ",")
	case ical.Integer:
		return strconv.Itoa(int(v))
	case ical.Float:
		return formatFloat(float64(v))
	case ical.Boolean:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case ical.Geo:
		return formatFloat(v.Latitude) + ";" + formatFloat(v.Longitude)
	case ical.Binary:
		return string(v)
	case ical.URI:
		if v.URI == nil {
			return ""
		}
		return v.URI.String()
	case ical.CalAddress:
		if v.URI == nil {
			return ""
		}
		return v.URI.String()
	case ical.RequestStatus:
		s := v.CodeString() + ";" + EscapeText(v.Description)
		if extra, ok := v.ExtraData.Get(); ok {
			s += ";" + EscapeText(extra)
		}
		return s
	case ical.DateList:
		return joinList(v)
	case ical.DateTimeList:
		return joinList(v)
	case ical.PeriodList:
		return joinList(v)
	case ical.Raw:
		return string(v)
	case interface{ String() string }:
		return v.String()
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinList[T interface{ String() string }](items []T) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, ",")
}
