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
package interop

import (
	"bytes"
	"sort"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"
	goical "github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/jplu/almanac/convert"
	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/parser"
	"github.com/jplu/almanac/serialize"
	"github.com/jplu/almanac/validate"
)

const sample = "BEGIN:VCALENDAR\r\n" +
	"PRODID:-//Example//Almanac//EN\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:42@example.com\r\n" +
	"DTSTAMP:20240101T100000Z\r\n" +
	"DTSTART:20240102T090000Z\r\n" +
	"DTEND:20240102T100000Z\r\n" +
	"SUMMARY;LANGUAGE=en:Review\\, then lunch\r\n" +
	"DESCRIPTION:Line one\\nLine two\\; done\r\n" +
	"CATEGORIES:WORK,PLANNING\r\n" +
	"GEO:48.85;2.35\r\n" +
	"PRIORITY:3\r\n" +
	"ATTENDEE;CN=Bob;PARTSTAT=ACCEPTED:mailto:bob@example.com\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=3;BYDAY=TU,TH\r\n" +
	"REQUEST-STATUS:2.0;Success\r\n" +
	"BEGIN:VALARM\r\n" +
	"ACTION:DISPLAY\r\n" +
	"DESCRIPTION:Soon\r\n" +
	"TRIGGER:-PT15M\r\n" +
	"END:VALARM\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VTODO\r\n" +
	"UID:43@example.com\r\n" +
	"DTSTAMP:20240101T100000Z\r\n" +
	"DUE;VALUE=DATE:20240110\r\n" +
	"END:VTODO\r\n" +
	"END:VCALENDAR\r\n"

func loadSample(t *testing.T) model.Calendar {
	t.Helper()
	cals, err := convert.Load([]byte(sample))
	require.NoError(t, err)
	require.Len(t, cals, 1)
	require.Empty(t, validate.Calendar(&cals[0]))
	return cals[0]
}

// canonical orders properties and parameters by name, keeping the relative
// order of equal names.
func canonical(cal model.Calendar) model.Calendar {
	cal.Properties = sortedProperties(cal.Properties)
	cal.Components = canonicalComponents(cal.Components)
	return cal
}

func canonicalComponents(comps []model.Component) []model.Component {
	out := make([]model.Component, len(comps))
	for i, c := range comps {
		c.Properties = sortedProperties(c.Properties)
		c.Components = canonicalComponents(c.Components)
		out[i] = c
	}
	return out
}

func sortedProperties(props []model.Property) []model.Property {
	out := make([]model.Property, len(props))
	for i, p := range props {
		params := append([]model.Param(nil), p.Params...)
		sort.SliceStable(params, func(a, b int) bool { return params[a].Name < params[b].Name })
		if len(params) == 0 {
			params = nil
		}
		p.Params = params
		out[i] = p
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func TestToGoICal(t *testing.T) {
	cal := loadSample(t)
	gc := ToGoICal(&cal)

	assert.Equal(t, goical.CompCalendar, gc.Name)
	assert.Equal(t, "-//Example//Almanac//EN", gc.Props.Get(goical.PropProductID).Value)
	require.Len(t, gc.Children, 2)

	ev := gc.Children[0]
	assert.Equal(t, goical.CompEvent, ev.Name)
	summary, err := ev.Props.Get(goical.PropSummary).Text()
	require.NoError(t, err)
	assert.Equal(t, "Review, then lunch", summary)
	assert.Equal(t, "en", ev.Props.Get(goical.PropSummary).Params.Get("LANGUAGE"))
	assert.Equal(t, "ACCEPTED", ev.Props.Get(goical.PropAttendee).Params.Get("PARTSTAT"))
	assert.Equal(t, "FREQ=WEEKLY;COUNT=3;BYDAY=TU,TH", ev.Props.Get(goical.PropRecurrenceRule).Value)

	require.Len(t, ev.Children, 1)
	assert.Equal(t, goical.CompAlarm, ev.Children[0].Name)
}

func TestGoICalRoundTrip(t *testing.T) {
	cal := loadSample(t)

	var buf bytes.Buffer
	require.NoError(t, goical.NewEncoder(&buf).Encode(ToGoICal(&cal)))
	decoded, err := goical.NewDecoder(&buf).Decode()
	require.NoError(t, err)

	back, err := FromGoICal(decoded)
	require.NoError(t, err)
	assert.Equal(t, canonical(cal), canonical(back))
	assert.Empty(t, validate.Calendar(&back))
}

func TestFromGoICalRejectsOtherRoots(t *testing.T) {
	_, err := FromGoICal(&goical.Calendar{Component: goical.NewComponent(goical.CompEvent)})
	require.ErrorIs(t, err, ErrNotCalendar)

	_, err = FromGoICal(nil)
	require.ErrorIs(t, err, ErrNotCalendar)
}

func TestFromGoICalReportsParseErrors(t *testing.T) {
	root := goical.NewCalendar()
	root.Props.SetText(goical.PropProductID, "-//x//y//EN")
	ev := goical.NewEvent()
	prop := goical.NewProp(goical.PropDateTimeStart)
	prop.Value = "not-a-date"
	ev.Props.Add(prop)
	root.Children = append(root.Children, ev.Component)

	_, err := FromGoICal(root)
	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestToArran(t *testing.T) {
	cal := loadSample(t)
	ac := ToArran(&cal)

	require.Len(t, ac.CalendarProperties, 2)
	assert.Equal(t, "PRODID", ac.CalendarProperties[0].IANAToken)

	events := ac.Events()
	require.Len(t, events, 1)
	summary := events[0].GetProperty(ics.ComponentPropertySummary)
	require.NotNil(t, summary)
	assert.Equal(t, "Review, then lunch", summary.Value)
	assert.Equal(t, []string{"en"}, summary.ICalParameters["LANGUAGE"])

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC), start.UTC())

	require.Len(t, ac.Components, 2)
	_, isTodo := ac.Components[1].(*ics.VTodo)
	assert.True(t, isTodo)
}

func TestArranRoundTrip(t *testing.T) {
	cal := loadSample(t)

	text := ToArran(&cal).Serialize()
	parsed, err := ics.ParseCalendar(strings.NewReader(text))
	require.NoError(t, err)

	back, err := FromArran(parsed)
	require.NoError(t, err)
	assert.Equal(t, canonical(cal), canonical(back))
}

func TestArranText(t *testing.T) {
	assert.Equal(t, `a\,b`, arranText("SUMMARY", "a,b"))
	assert.Equal(t, `a,b\;c`, arranText("CATEGORIES", "a,b;c"))
	assert.Equal(t, `3.1;Bad\, value;DTSTART:x\;y`, arranText("REQUEST-STATUS", "3.1;Bad, value;DTSTART:x;y"))
}

func TestFromArranUnknownComponent(t *testing.T) {
	cal := &ics.Calendar{Components: []ics.Component{&ics.GeneralComponent{Token: "X-THING"}}}
	cal.Components[0].(*ics.GeneralComponent).Properties = []ics.IANAProperty{{BaseProperty: ics.BaseProperty{
		IANAToken: "X-COLOR",
		Value:     "blue",
	}}}

	back, err := FromArran(cal)
	require.NoError(t, err)
	require.Len(t, back.Components, 1)
	assert.Equal(t, ical.ComponentX, back.Components[0].Kind)
	assert.Equal(t, "X-THING", back.Components[0].Name)
	assert.Equal(t, ical.Raw("blue"), back.Components[0].Properties[0].Value)
}

func recurOf(t *testing.T, s string) ical.Recur {
	t.Helper()
	r, err := parser.ParseRecur([]byte(s))
	require.NoError(t, err)
	return r
}

func TestRRuleOption(t *testing.T) {
	start := time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)
	opt, err := RRuleOption(recurOf(t, "FREQ=MONTHLY;INTERVAL=2;BYDAY=-1FR,MO;BYMONTH=1,7;UNTIL=20241231T000000Z;WKST=SU"), start, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, rrule.MONTHLY, opt.Freq)
	assert.Equal(t, 2, opt.Interval)
	assert.Equal(t, []rrule.Weekday{rrule.FR.Nth(-1), rrule.MO}, opt.Byweekday)
	assert.Equal(t, []int{1, 7}, opt.Bymonth)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), opt.Until)
	assert.Equal(t, rrule.SU, opt.Wkst)
	assert.Equal(t, start, opt.Dtstart)

	_, err = RRuleOption(ical.Recur{}, start, time.UTC)
	require.Error(t, err)
}

func TestRRuleOptionDateUntil(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	opt, err := RRuleOption(recurOf(t, "FREQ=DAILY;UNTIL=20240301"), time.Time{}, paris)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, paris), opt.Until)
}

func TestRecurFromROption(t *testing.T) {
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Count:     4,
		Byweekday: []rrule.Weekday{rrule.TU, rrule.TH},
	}
	r, err := RecurFromROption(&opt)
	require.NoError(t, err)
	assert.Equal(t, "FREQ=WEEKLY;COUNT=4;BYDAY=TU,TH", r.String())

	back, err := RRuleOption(r, time.Time{}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, opt, back)
}

func TestRecurrenceSet(t *testing.T) {
	cals, err := convert.Load([]byte("BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\n" +
		"DTSTART:20240101T090000Z\r\n" +
		"RRULE:FREQ=DAILY;COUNT=5\r\n" +
		"EXDATE:20240103T090000Z\r\n" +
		"RDATE;VALUE=PERIOD:20240110T090000Z/PT1H\r\n" +
		"END:VEVENT\r\nEND:VCALENDAR\r\n"))
	require.NoError(t, err)

	set, err := RecurrenceSet(&cals[0].Components[0], time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC), set.GetDTStart())
	assert.Equal(t, []time.Time{time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC)}, set.GetExDate())
	assert.Equal(t, []time.Time{time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)}, set.GetRDate())
	require.NotNil(t, set.GetRRule())
	assert.Equal(t, 5, set.GetRRule().OrigOptions.Count)

	empty := model.NewComponent(ical.ComponentEvent)
	_, err = RecurrenceSet(&empty, time.UTC)
	require.ErrorIs(t, err, ErrNoStart)
}

func TestSerializedGoICalMatches(t *testing.T) {
	cal := loadSample(t)
	want, err := serialize.Bytes(cal)
	require.NoError(t, err)

	back, err := FromGoICal(ToGoICal(&cal))
	require.NoError(t, err)
	got, err := serialize.Bytes(canonical(back))
	require.NoError(t, err)

	wantCal, err := convert.Load(want)
	require.NoError(t, err)
	gotCal, err := convert.Load(got)
	require.NoError(t, err)
	assert.Equal(t, canonical(wantCal[0]), canonical(gotCal[0]))
}
