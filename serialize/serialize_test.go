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

//nolint:testpackage // This is a white-box test file for an internal package. It needs to be in the same package to test unexported functions.
package serialize

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplu/almanac/convert"
	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/parser"
	"github.com/jplu/almanac/uri"
)

const canonical = "BEGIN:VCALENDAR\r\n" +
	"PRODID:-//Example//Almanac//EN\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:20240101T100000Z-1@example.com\r\n" +
	"DTSTAMP:20240101T100000Z\r\n" +
	"DTSTART;TZID=Europe/Paris:20240102T090000\r\n" +
	"DURATION:PT1H30M\r\n" +
	"SUMMARY;LANGUAGE=fr-FR:R\xc3\xa9union\\, salle 2\\; \\\\tableau\\nsuite\r\n" +
	"CATEGORIES:WORK,PLANNING\\, Q1\r\n" +
	"GEO:37.386013;-122.082932\r\n" +
	"PRIORITY:1\r\n" +
	"ORGANIZER;CN=\"Doe, Jane\";SENT-BY=\"mailto:assistant@example.com\":mailto:jane\r\n" +
	" @example.com\r\n" +
	"ATTENDEE;ROLE=REQ-PARTICIPANT;DELEGATED-TO=\"mailto:a@example.com\",\"mailto:b\r\n" +
	" @example.com\":mailto:c@example.com\r\n" +
	"RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE\r\n" +
	"EXDATE;TZID=Europe/Paris:20240108T090000,20240110T090000\r\n" +
	"REQUEST-STATUS:2.0;Success\r\n" +
	"X-VENDOR-FLAG;X-MODE=strict:raw\\,kept\r\n" +
	"BEGIN:VALARM\r\n" +
	"ACTION:DISPLAY\r\n" +
	"DESCRIPTION:Reminder\r\n" +
	"TRIGGER;RELATED=START:-PT15M\r\n" +
	"END:VALARM\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:X-VENDOR-DATA\r\n" +
	"X-COUNT;VALUE=INTEGER:12\r\n" +
	"END:X-VENDOR-DATA\r\n" +
	"END:VCALENDAR\r\n"

func load(t *testing.T, data string) []model.Calendar {
	t.Helper()
	cals, err := convert.Load([]byte(data))
	require.NoError(t, err)
	return cals
}

func TestCanonicalInputIsReproduced(t *testing.T) {
	out, err := Bytes(load(t, canonical)...)
	require.NoError(t, err)
	assert.Equal(t, canonical, string(out))

	unfolded, err := parser.UnfoldAll([]byte(canonical))
	require.NoError(t, err)
	var buf bytes.Buffer
	enc := NewEncoder(&buf, WithFoldWidth(0))
	cals := load(t, canonical)
	require.NoError(t, enc.Encode(&cals[0]))
	assert.Equal(t, string(unfolded), buf.String())
}

func TestModelRoundTrip(t *testing.T) {
	cals := load(t, canonical+canonical)
	require.Len(t, cals, 2)

	out, err := Bytes(cals...)
	require.NoError(t, err)
	assert.Equal(t, cals, load(t, string(out)))
}

func TestNamesFallBackToKind(t *testing.T) {
	comp := model.Component{Kind: ical.ComponentEvent}
	comp.Properties = append(comp.Properties, model.Property{
		Kind:  ical.PropSummary,
		Value: ical.Text("x"),
		Params: []model.Param{{
			Kind:  ical.ParamLanguage,
			Value: ical.TextParam("en"),
		}},
	})
	cal := model.Calendar{Components: []model.Component{comp}}

	out, err := Bytes(cal)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nSUMMARY;LANGUAGE=en:x\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n", string(out))
}

func TestFormatValue(t *testing.T) {
	at := ical.DateTime{Date: ical.Date{Year: 2024, Month: 3, Day: 5}, Time: ical.Time{Hour: 7, UTC: true}}
	tests := []struct {
		name  string
		value ical.Value
		want  string
	}{
		{"nil", nil, ""},
		{"text", ical.Text("a,b;c\\d\ne"), `a\,b\;c\\d\ne`},
		{"text crlf", ical.Text("a\r\nb"), `a\nb`},
		{"text list", ical.TextList{"a,b", "c"}, `a\,b,c`},
		{"integer", ical.Integer(-3), "-3"},
		{"float", ical.Float(1.5), "1.5"},
		{"boolean", ical.Boolean(true), "TRUE"},
		{"geo", ical.Geo{Latitude: 1, Longitude: -2.25}, "1;-2.25"},
		{"uri", ical.URI{URI: uri.MustParse("https://example.com/a")}, "https://example.com/a"},
		{"cal-address", ical.CalAddress{URI: uri.MustParse("mailto:a@example.com")}, "mailto:a@example.com"},
		{"date", at.Date, "20240305"},
		{"date-time", at, "20240305T070000Z"},
		{"date-time list", ical.DateTimeList{at, at}, "20240305T070000Z,20240305T070000Z"},
		{"date list", ical.DateList{at.Date}, "20240305"},
		{"version range", ical.Version{Min: "1.0", Max: "2.0"}, "1.0;2.0"},
		{"raw", ical.Raw(`a\,b`), `a\,b`},
		{"binary", ical.Binary("aGk="), "aGk="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestRequestStatusExtraData(t *testing.T) {
	cals := load(t, "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\n"+
		"REQUEST-STATUS:3.1;Invalid property value;DTSTART:96-Apr-01\r\n"+
		"END:VEVENT\r\nEND:VCALENDAR\r\n")
	p, ok := cals[0].Components[0].Property(ical.PropRequestStatus)
	require.True(t, ok)
	assert.Equal(t, "3.1;Invalid property value;DTSTART:96-Apr-01", FormatValue(p.Value))
}

func TestFold(t *testing.T) {
	assert.Equal(t, []string{"short"}, fold("short", 75))
	assert.Equal(t, []string{strings.Repeat("a", 100)}, fold(strings.Repeat("a", 100), 0))
	assert.Equal(t, []string{"abcde", "\r\n fghi", "\r\n jk"}, fold("abcdefghijk", 5))
	// "é" is two octets and must not be split.
	assert.Equal(t, []string{"abcd", "\r\n \xc3\xa9f"}, fold("abcd\xc3\xa9f", 5))
}

func TestLongLinesAreFolded(t *testing.T) {
	description := strings.Repeat("Ünïcödé text ", 40)
	comp := model.NewComponent(ical.ComponentEvent)
	comp.Properties = append(comp.Properties, model.NewProperty(ical.PropDescription, ical.Text(description)))
	cal := model.Calendar{Components: []model.Component{comp}}

	for _, width := range []int{75, 20} {
		var buf bytes.Buffer
		require.NoError(t, NewEncoder(&buf, WithFoldWidth(width)).Encode(&cal))

		for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n") {
			assert.LessOrEqual(t, len(line), width)
			assert.True(t, utf8.ValidString(line), "line %q splits a character", line)
		}

		unfolded, err := parser.UnfoldAll(buf.Bytes())
		require.NoError(t, err)
		assert.Contains(t, string(unfolded), "DESCRIPTION:"+description+"\r\n")
		assert.Equal(t, []model.Calendar{cal}, load(t, buf.String()))
	}
}

func TestFoldingDisabled(t *testing.T) {
	description := strings.Repeat("x", 200)
	comp := model.NewComponent(ical.ComponentEvent)
	comp.Properties = append(comp.Properties, model.NewProperty(ical.PropDescription, ical.Text(description)))

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf, WithFoldWidth(0)).Encode(&model.Calendar{Components: []model.Component{comp}}))
	assert.Contains(t, buf.String(), "\r\nDESCRIPTION:"+description+"\r\n")
}

type failingWriter struct{}

var errWrite = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestWriteError(t *testing.T) {
	err := Write(failingWriter{}, model.Calendar{})
	require.ErrorIs(t, err, errWrite)
}
