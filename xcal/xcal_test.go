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
package xcal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplu/almanac/convert"
	"github.com/jplu/almanac/model"
)

const calendars = "BEGIN:VCALENDAR\r\n" +
	"PRODID:-//Example//Almanac//EN\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VTIMEZONE\r\n" +
	"TZID:Europe/Paris\r\n" +
	"BEGIN:STANDARD\r\n" +
	"DTSTART:19701025T030000\r\n" +
	"TZOFFSETFROM:+0200\r\n" +
	"TZOFFSETTO:+0100\r\n" +
	"END:STANDARD\r\n" +
	"END:VTIMEZONE\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:1@example.com\r\n" +
	"DTSTAMP:20240101T100000Z\r\n" +
	"DTSTART;TZID=Europe/Paris:20240102T090000\r\n" +
	"DURATION:PT1H\r\n" +
	"SUMMARY:Tea\\, biscuits\r\n" +
	"CATEGORIES:A,B\r\n" +
	"GEO:48.85;2.35\r\n" +
	"ATTENDEE;RSVP=TRUE;DELEGATED-FROM=\"mailto:a@example.com\":mailto:b@example.com\r\n" +
	"RRULE:FREQ=MONTHLY;BYDAY=1MO,-1FR;COUNT=6\r\n" +
	"REQUEST-STATUS:2.0;Success\r\n" +
	"X-RANK;VALUE=INTEGER:7\r\n" +
	"X-NOTE:free form\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n" +
	"BEGIN:VCALENDAR\r\n" +
	"PRODID:-//Example//Almanac//EN\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VFREEBUSY\r\n" +
	"UID:2@example.com\r\n" +
	"DTSTAMP:20240101T100000Z\r\n" +
	"FREEBUSY:20240102T090000Z/20240102T100000Z,20240103T090000Z/PT30M\r\n" +
	"END:VFREEBUSY\r\n" +
	"END:VCALENDAR\r\n"

func render(t *testing.T) *etree.Element {
	t.Helper()
	cals, err := convert.Load([]byte(calendars))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cals...))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	root := doc.SelectElement("icalendar")
	require.NotNil(t, root)
	return root
}

func texts(els []*etree.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.Text()
	}
	return out
}

func TestOneVCalendarPerCalendar(t *testing.T) {
	root := render(t)
	assert.Equal(t, Namespace, root.SelectAttrValue("xmlns", ""))
	assert.Len(t, root.SelectElements("vcalendar"), 2)

	empty := Document()
	assert.Empty(t, empty.Root().ChildElements())
}

func TestStructure(t *testing.T) {
	root := render(t)
	assert.Equal(t, []string{"2.0"}, texts(root.FindElements("vcalendar[1]/properties/version/text")))
	assert.Len(t, root.FindElements("vcalendar[1]/components/vtimezone/components/standard"), 1)
	assert.Len(t, root.FindElements("vcalendar[2]/components/vfreebusy"), 1)
}

func TestValues(t *testing.T) {
	ev := render(t).FindElement("vcalendar[1]/components/vevent/properties")
	require.NotNil(t, ev)

	tests := []struct {
		path string
		want []string
	}{
		{"dtstamp/date-time", []string{"2024-01-01T10:00:00Z"}},
		{"dtstart/date-time", []string{"2024-01-02T09:00:00"}},
		{"dtstart/parameters/tzid/text", []string{"Europe/Paris"}},
		{"duration/duration", []string{"PT1H"}},
		{"summary/text", []string{"Tea, biscuits"}},
		{"categories/text", []string{"A", "B"}},
		{"geo/geo/latitude", []string{"48.85"}},
		{"geo/geo/longitude", []string{"2.35"}},
		{"attendee/cal-address", []string{"mailto:b@example.com"}},
		{"attendee/parameters/rsvp/boolean", []string{"true"}},
		{"attendee/parameters/delegated-from/cal-address", []string{"mailto:a@example.com"}},
		{"rrule/recur/freq", []string{"MONTHLY"}},
		{"rrule/recur/byday", []string{"1MO", "-1FR"}},
		{"rrule/recur/count", []string{"6"}},
		{"request-status/request-status/code", []string{"2.0"}},
		{"request-status/request-status/description", []string{"Success"}},
		{"x-rank/integer", []string{"7"}},
		{"x-note/unknown", []string{"free form"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, texts(ev.FindElements(tt.path)))
		})
	}

	assert.Empty(t, ev.FindElements("x-rank/parameters"), "VALUE is carried by the value element")
}

func TestTimeZoneAndFreeBusy(t *testing.T) {
	root := render(t)
	std := root.FindElement("vcalendar[1]/components/vtimezone/components/standard/properties")
	require.NotNil(t, std)
	assert.Equal(t, []string{"+02:00"}, texts(std.FindElements("tzoffsetfrom/utc-offset")))
	assert.Equal(t, []string{"1970-10-25T03:00:00"}, texts(std.FindElements("dtstart/date-time")))

	fb := root.FindElement("vcalendar[2]/components/vfreebusy/properties/freebusy")
	require.NotNil(t, fb)
	periods := fb.SelectElements("period")
	require.Len(t, periods, 2)
	assert.Equal(t, "2024-01-02T10:00:00Z", periods[0].SelectElement("end").Text())
	assert.Equal(t, "PT30M", periods[1].SelectElement("duration").Text())
}

func TestEncodeIsIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, model.Calendar{}))
	assert.True(t, strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, buf.String(), "\n  <vcalendar/>")
}
