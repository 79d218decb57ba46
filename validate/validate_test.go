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
package validate

import (
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplu/almanac/convert"
	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/uri"
)

const validCalendar = "BEGIN:VCALENDAR\r\n" +
	"PRODID:-//Example//Almanac//EN\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VTIMEZONE\r\n" +
	"TZID:America/New_York\r\n" +
	"BEGIN:STANDARD\r\n" +
	"DTSTART:19701101T020000\r\n" +
	"RRULE:FREQ=YEARLY;BYMONTH=11;BYDAY=1SU\r\n" +
	"TZOFFSETFROM:-0400\r\n" +
	"TZOFFSETTO:-0500\r\n" +
	"TZNAME:EST\r\n" +
	"END:STANDARD\r\n" +
	"BEGIN:DAYLIGHT\r\n" +
	"DTSTART:19700308T020000\r\n" +
	"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=2SU\r\n" +
	"TZOFFSETFROM:-0500\r\n" +
	"TZOFFSETTO:-0400\r\n" +
	"TZNAME:EDT\r\n" +
	"END:DAYLIGHT\r\n" +
	"END:VTIMEZONE\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:19970901T130000Z-123401@example.com\r\n" +
	"DTSTAMP:19970901T130000Z\r\n" +
	"DTSTART;TZID=America/New_York:19970903T163000\r\n" +
	"DTEND;TZID=America/New_York:19970903T190000\r\n" +
	"SUMMARY;LANGUAGE=en-US:Annual Employee Review\r\n" +
	"CATEGORIES:BUSINESS,HUMAN RESOURCES\r\n" +
	"RRULE:FREQ=MONTHLY;BYDAY=MO,TU,WE,TH,FR;BYSETPOS=-1\r\n" +
	"ATTENDEE;CN=\"Henry Cabot\";ROLE=REQ-PARTICIPANT;PARTSTAT=ACCEPTED:mailto:hcabot@example.com\r\n" +
	"ORGANIZER;CN=John Smith;SENT-BY=\"mailto:assistant@example.com\":mailto:jsmith@example.com\r\n" +
	"BEGIN:VALARM\r\n" +
	"ACTION:DISPLAY\r\n" +
	"TRIGGER;RELATED=START:-PT15M\r\n" +
	"DESCRIPTION:Reminder\r\n" +
	"END:VALARM\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VTODO\r\n" +
	"UID:todo-1@example.com\r\n" +
	"DTSTAMP:19970901T130000Z\r\n" +
	"DTSTART;VALUE=DATE:19970903\r\n" +
	"DUE;VALUE=DATE:19970910\r\n" +
	"STATUS:NEEDS-ACTION\r\n" +
	"END:VTODO\r\n" +
	"BEGIN:X-VENDOR\r\n" +
	"X-COUNT;VALUE=INTEGER:12\r\n" +
	"END:X-VENDOR\r\n" +
	"END:VCALENDAR\r\n"

func loadOne(t *testing.T, data string) model.Calendar {
	t.Helper()
	cals, err := convert.Load([]byte(data))
	require.NoError(t, err)
	require.Len(t, cals, 1)
	return cals[0]
}

func messages(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

//nolint:gochecknoglobals // shared fixture.
var start = ical.DateTime{
	Date: ical.Date{Year: 2024, Month: 1, Day: 1},
	Time: ical.Time{Hour: 10, UTC: true},
}

func utcAt(hour int) ical.DateTime {
	dt := start
	dt.Hour = hour
	return dt
}

func localAt(hour int) ical.DateTime {
	dt := utcAt(hour)
	dt.UTC = false
	return dt
}

func calendarOf(comps ...model.Component) model.Calendar {
	return model.Calendar{
		Properties: []model.Property{
			model.NewProperty(ical.PropProdID, ical.Text("-//Example//EN")),
			model.NewProperty(ical.PropVersion, ical.Version{Max: "2.0"}),
		},
		Components: comps,
	}
}

// event returns a VEVENT with its required properties followed by props.
func event(props ...model.Property) model.Component {
	e := model.NewComponent(ical.ComponentEvent)
	e.Properties = append([]model.Property{
		model.NewProperty(ical.PropDTStamp, start),
		model.NewProperty(ical.PropUID, ical.Text("1@example.com")),
	}, props...)
	return e
}

func withStart(props ...model.Property) model.Component {
	return event(append([]model.Property{model.NewProperty(ical.PropDTStart, start)}, props...)...)
}

func recur(parts ...ical.RecurPart) ical.Recur {
	return ical.Recur{Parts: parts}
}

func freq(f ical.Frequency) ical.RecurPart {
	return ical.RecurPart{Kind: ical.PartFreq, Freq: f}
}

func numbers(kind ical.RecurPartKind, n ...int) ical.RecurPart {
	return ical.RecurPart{Kind: kind, Numbers: n}
}

func days(d ...ical.WeekdayNum) ical.RecurPart {
	return ical.RecurPart{Kind: ical.PartByDay, Days: d}
}

func param(kind ical.ParamKind, value ical.ParamValue) model.Param {
	return model.NewParam(kind, value)
}

func TestValidCalendarIsClean(t *testing.T) {
	cal := loadOne(t, validCalendar)
	assert.Empty(t, Calendar(&cal))
}

func TestCalendarIsNotModified(t *testing.T) {
	cal := loadOne(t, validCalendar)
	cal.Components[1].Properties = append(cal.Components[1].Properties,
		model.NewProperty(ical.PropDTEnd, utcAt(1)))
	before := loadOne(t, validCalendar)
	before.Components[1].Properties = append(before.Components[1].Properties,
		model.NewProperty(ical.PropDTEnd, utcAt(1)))

	require.NotEmpty(t, Calendar(&cal))
	assert.Equal(t, before, cal)
}

func TestAll(t *testing.T) {
	good := calendarOf(withStart())
	bad := calendarOf()
	diags := All([]model.Calendar{good, bad})
	require.Len(t, diags, 2)
	assert.Empty(t, diags[0])
	assert.Equal(t, []string{"No components found in calendar object, required at least one"}, messages(diags[1]))
	assert.False(t, HasErrors(diags[0]))
	assert.True(t, HasErrors(diags[1]))
}

func TestLocationString(t *testing.T) {
	testCases := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			name: "no location",
			diag: Diagnostic{Message: "PRODID is required"},
			want: "PRODID is required",
		},
		{
			name: "component property",
			diag: Diagnostic{Message: "m", Location: Location{
				{Kind: HopComponent, Index: 0, Name: "VEVENT"},
				{Kind: HopProperty, Index: 2, Name: "DESCRIPTION"},
			}},
			want: `In component "VEVENT" at index 0, in component property "DESCRIPTION" at index 2: m`,
		},
		{
			name: "nested parameter",
			diag: Diagnostic{Message: "m", Location: Location{
				{Kind: HopComponent, Index: 1, Name: "VEVENT"},
				{Kind: HopNestedComponent, Index: 0, Name: "VALARM"},
				{Kind: HopNestedProperty, Index: 3, Name: "ATTENDEE"},
				{Kind: HopParam, Index: 0, Name: "CN"},
			}},
			want: `In component "VEVENT" at index 1, in nested component "VALARM" at index 0, ` +
				`in nested component property "ATTENDEE" at index 3, in parameter "CN" at index 0: m`,
		},
		{
			name: "calendar property value",
			diag: Diagnostic{Message: "m", Location: Location{
				{Kind: HopCalendarProperty, Index: 1, Name: "VERSION"},
				{Kind: HopValue},
			}},
			want: `In calendar property "VERSION" at index 1, in value: m`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.diag.String())
		})
	}
}

func TestDiagnosticLocations(t *testing.T) {
	alarm := model.NewComponent(ical.ComponentAlarm)
	alarm.Properties = []model.Property{
		model.NewProperty(ical.PropAction, ical.Text("DISPLAY")),
		model.NewProperty(ical.PropTrigger, ical.Duration{Minutes: mo.Some(5)}),
		model.NewProperty(ical.PropDescription, ical.Text("a")),
		model.NewProperty(ical.PropDescription, ical.Text("b")),
	}
	e := withStart()
	e.Components = []model.Component{alarm}
	cal := calendarOf(withStart(), e)

	diags := Calendar(&cal)
	require.Len(t, diags, 1)
	assert.Equal(t,
		`In component "VEVENT" at index 1, in nested component "VALARM" at index 0, `+
			`in nested component property "DESCRIPTION" at index 3: DESCRIPTION must only appear once`,
		diags[0].String())
}

func TestStructure(t *testing.T) {
	alarm := model.NewComponent(ical.ComponentAlarm)
	alarm.Properties = []model.Property{
		model.NewProperty(ical.PropAction, ical.Text("AUDIO")),
		model.NewProperty(ical.PropTrigger, ical.Duration{Minutes: mo.Some(5)}),
	}
	tz := model.NewComponent(ical.ComponentTimeZone)
	tz.Properties = []model.Property{model.NewProperty(ical.PropTzID, ical.Text("Europe/Paris"))}
	journal := model.NewComponent(ical.ComponentJournal)
	journal.Properties = withStart().Properties
	journal.Components = []model.Component{alarm}

	testCases := []struct {
		name string
		cal  model.Calendar
		want []string
	}{
		{
			name: "no components",
			cal:  calendarOf(),
			want: []string{"No components found in calendar object, required at least one"},
		},
		{
			name: "missing calendar properties",
			cal:  model.Calendar{Components: []model.Component{withStart()}},
			want: []string{"PRODID is required", "VERSION is required"},
		},
		{
			name: "top level alarm",
			cal:  calendarOf(withStart(), alarm),
			want: []string{"Component is not allowed at the top level"},
		},
		{
			name: "empty component",
			cal:  calendarOf(model.NewComponent(ical.ComponentX)),
			want: []string{"No properties found in component, required at least one"},
		},
		{
			name: "time zone without rules",
			cal:  calendarOf(withStart(), tz),
			want: []string{"No standard or daylight components found in time zone, required at least one"},
		},
		{
			name: "alarm in journal",
			cal:  calendarOf(journal),
			want: []string{"Component is not allowed in VJOURNAL"},
		},
		{
			name: "missing event properties",
			cal:  calendarOf(model.Component{Kind: ical.ComponentEvent, Name: "VEVENT", Properties: []model.Property{
				model.NewProperty(ical.PropSummary, ical.Text("x")),
			}}),
			want: []string{"DTSTART is required", "UID is required", "DTSTAMP is required"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, messages(Calendar(&tc.cal)))
		})
	}
}

func TestMethodMakesStartOptional(t *testing.T) {
	cal := calendarOf(event())
	assert.Equal(t, []string{"DTSTART is required"}, messages(Calendar(&cal)))

	cal.Properties = append(cal.Properties, model.NewProperty(ical.PropMethod, ical.Text("REQUEST")))
	assert.Empty(t, Calendar(&cal))
}

func TestAlarmRules(t *testing.T) {
	trigger := model.NewProperty(ical.PropTrigger, ical.Duration{Negative: true, Minutes: mo.Some(15)})
	testCases := []struct {
		name  string
		props []model.Property
		want  []string
	}{
		{
			name:  "no action",
			props: []model.Property{trigger},
			want:  []string{"Required exactly one ACTION property but found 0"},
		},
		{
			name: "two actions",
			props: []model.Property{
				model.NewProperty(ical.PropAction, ical.Text("AUDIO")),
				model.NewProperty(ical.PropAction, ical.Text("AUDIO")),
				trigger,
			},
			want: []string{"Required exactly one ACTION property but found 2"},
		},
		{
			name: "duration without repeat",
			props: []model.Property{
				model.NewProperty(ical.PropAction, ical.Text("AUDIO")),
				trigger,
				model.NewProperty(ical.PropDuration, ical.Duration{Minutes: mo.Some(5)}),
			},
			want: []string{"DURATION and REPEAT properties must be present together"},
		},
		{
			name: "email alarm",
			props: []model.Property{
				model.NewProperty(ical.PropAction, ical.Text("EMAIL")),
				trigger,
				model.NewProperty(ical.PropDescription, ical.Text("body")),
			},
			want: []string{"SUMMARY is required", "ATTENDEE is required"},
		},
		{
			name: "display alarm with attendee",
			props: []model.Property{
				model.NewProperty(ical.PropAction, ical.Text("DISPLAY")),
				trigger,
				model.NewProperty(ical.PropDescription, ical.Text("body")),
				model.NewProperty(ical.PropAttendee, ical.CalAddress{URI: uri.MustParse("mailto:a@example.com")}),
			},
			want: []string{"ATTENDEE is not allowed"},
		},
		{
			name: "date-time trigger must be UTC",
			props: []model.Property{
				model.NewProperty(ical.PropAction, ical.Text("AUDIO")),
				model.NewProperty(ical.PropTrigger, localAt(9),
					param(ical.ParamValueType, ical.TokenParam("DATE-TIME"))),
			},
			want: []string{"TRIGGER must be a UTC date-time when it is not a duration"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alarm := model.NewComponent(ical.ComponentAlarm)
			alarm.Properties = tc.props
			e := withStart()
			e.Components = []model.Component{alarm}
			cal := calendarOf(e)
			assert.Equal(t, tc.want, messages(Calendar(&cal)))
		})
	}
}

func TestComponentRules(t *testing.T) {
	date := ical.Date{Year: 2024, Month: 1, Day: 1}
	valueDate := param(ical.ParamValueType, ical.TokenParam("DATE"))
	hour := ical.Duration{Hours: mo.Some(1)}

	toDo := func(props ...model.Property) model.Component {
		c := event(props...)
		c.Kind, c.Name = ical.ComponentToDo, "VTODO"
		return c
	}
	freeBusy := func(props ...model.Property) model.Component {
		c := event(props...)
		c.Kind, c.Name = ical.ComponentFreeBusy, "VFREEBUSY"
		return c
	}
	rule := func(props ...model.Property) model.Component {
		tz := model.NewComponent(ical.ComponentTimeZone)
		tz.Properties = []model.Property{model.NewProperty(ical.PropTzID, ical.Text("Europe/Paris"))}
		std := model.NewComponent(ical.ComponentStandard)
		std.Properties = append([]model.Property{
			model.NewProperty(ical.PropTzOffsetFrom, ical.UtcOffset{Hours: 2}),
			model.NewProperty(ical.PropTzOffsetTo, ical.UtcOffset{Hours: 1}),
		}, props...)
		tz.Components = []model.Component{std}
		return tz
	}

	testCases := []struct {
		name string
		comp model.Component
		want []string
	}{
		{
			name: "end before start",
			comp: withStart(model.NewProperty(ical.PropDTEnd, utcAt(9))),
			want: []string{"DTEND is before DTSTART"},
		},
		{
			name: "end and duration",
			comp: withStart(model.NewProperty(ical.PropDTEnd, utcAt(11)), model.NewProperty(ical.PropDuration, hour)),
			want: []string{"Both DTEND and DURATION properties are present, only one is allowed"},
		},
		{
			name: "date start with date-time end",
			comp: event(model.NewProperty(ical.PropDTStart, date, valueDate), model.NewProperty(ical.PropDTEnd, utcAt(11))),
			want: []string{"DTSTART is date but DTEND is date-time"},
		},
		{
			name: "mixed time kinds",
			comp: withStart(model.NewProperty(ical.PropDTEnd, localAt(11))),
			want: []string{"DTEND must have the same time type as DTSTART, both UTC or both not UTC"},
		},
		{
			name: "date without VALUE",
			comp: event(model.NewProperty(ical.PropDTStart, date)),
			want: []string{"DTSTART defaults to date-time but only has a date value"},
		},
		{
			name: "hourly duration of an all day event",
			comp: event(model.NewProperty(ical.PropDTStart, date, valueDate), model.NewProperty(ical.PropDuration, hour)),
			want: []string{"DURATION must have at least one of weeks or days when DTSTART is a date"},
		},
		{
			name: "non UTC stamp",
			comp: model.Component{Kind: ical.ComponentEvent, Name: "VEVENT", Properties: []model.Property{
				model.NewProperty(ical.PropDTStamp, localAt(10)),
				model.NewProperty(ical.PropUID, ical.Text("1")),
				model.NewProperty(ical.PropDTStart, start),
			}},
			want: []string{"DTSTAMP must be a UTC date-time"},
		},
		{
			name: "event status",
			comp: withStart(model.NewProperty(ical.PropStatus, ical.Text("DRAFT"))),
			want: []string{"Invalid STATUS value for event: DRAFT"},
		},
		{
			name: "hour out of range",
			comp: withStart(model.NewProperty(ical.PropCreated, ical.DateTime{
				Date: ical.Date{Year: 2024, Month: 13, Day: 1}, Time: ical.Time{Hour: 25, UTC: true},
			})),
			want: []string{"Month must be between 1 and 12", "Hour must be between 0 and 23"},
		},
		{
			name: "priority",
			comp: withStart(model.NewProperty(ical.PropPriority, ical.Integer(10))),
			want: []string{"PRIORITY must be between 0 and 9"},
		},
		{
			name: "to-do duration without start",
			comp: toDo(model.NewProperty(ical.PropDuration, hour)),
			want: []string{"DURATION property is present but no DTSTART property is present"},
		},
		{
			name: "to-do due and duration",
			comp: toDo(
				model.NewProperty(ical.PropDTStart, start),
				model.NewProperty(ical.PropDue, utcAt(12)),
				model.NewProperty(ical.PropDuration, hour),
			),
			want: []string{"Both DUE and DURATION properties are present, only one is allowed"},
		},
		{
			name: "free/busy local start",
			comp: freeBusy(model.NewProperty(ical.PropDTStart, localAt(10))),
			want: []string{"DTSTART for FREEBUSY must be a UTC date-time"},
		},
		{
			name: "free/busy periods",
			comp: freeBusy(
				model.NewProperty(ical.PropFreeBusy, ical.PeriodList{
					{Start: utcAt(12), Duration: mo.Some(hour)},
					{Start: utcAt(10), Duration: mo.Some(hour)},
				}),
				model.NewProperty(ical.PropFreeBusy, ical.PeriodList{
					{Start: localAt(10), End: mo.Some(localAt(11))},
				}),
			),
			want: []string{"FREEBUSY periods should be ordered", "FREEBUSY periods must be UTC"},
		},
		{
			name: "observance in UTC",
			comp: rule(model.NewProperty(ical.PropDTStart, utcAt(2))),
			want: []string{"DTSTART must be a local time"},
		},
		{
			name: "negative zero offset",
			comp: rule(
				model.NewProperty(ical.PropDTStart, localAt(2)),
				model.NewProperty(ical.PropTzName, ical.Text("X")),
				model.NewProperty(ical.PropComment, ical.Text("x")),
				model.NewProperty(ical.PropTzOffsetTo, ical.UtcOffset{Negative: true}),
			),
			want: []string{"TZOFFSETTO must only appear once", "UTC offset must have a non-zero value if it is negative"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cal := calendarOf(tc.comp)
			assert.Equal(t, tc.want, messages(Calendar(&cal)))
		})
	}
}

func TestParameterRules(t *testing.T) {
	mailto := ical.CalAddress{URI: uri.MustParse("mailto:a@example.com")}
	testCases := []struct {
		name string
		prop model.Property
		want []string
	}{
		{
			name: "CN on text",
			prop: model.NewProperty(ical.PropSummary, ical.Text("x"), param(ical.ParamCN, ical.TextParam("Bob"))),
			want: []string{"Common name (CN) is not allowed for this property type"},
		},
		{
			name: "ALTREP on a calendar address",
			prop: model.NewProperty(ical.PropAttendee, mailto,
				param(ical.ParamAltRep, ical.URIParam{URI: uri.MustParse("https://example.com/a")})),
			want: []string{"Alternate text representation (ALTREP) is not allowed for this property type"},
		},
		{
			name: "SENT-BY must be mailto",
			prop: model.NewProperty(ical.PropOrganizer, mailto,
				param(ical.ParamSentBy, ical.URIParam{URI: uri.MustParse("https://example.com/a")})),
			want: []string{"Sent by (SENT-BY) must be a 'mailto:' URI"},
		},
		{
			name: "PARTSTAT not for events",
			prop: model.NewProperty(ical.PropAttendee, mailto, param(ical.ParamPartStat, ical.TokenParam("COMPLETED"))),
			want: []string{"Invalid participation status (PARTSTAT) value [COMPLETED] in a VEVENT component context"},
		},
		{
			name: "experimental PARTSTAT",
			prop: model.NewProperty(ical.PropAttendee, mailto, param(ical.ParamPartStat, ical.TokenParam("X-MAYBE"))),
		},
		{
			name: "undefined time zone",
			prop: model.NewProperty(ical.PropRecurrenceID, localAt(10), param(ical.ParamTzID, ical.TzIDParam{ID: "Mars/Olympus"})),
			want: []string{"Required time zone ID [Mars/Olympus] is not defined in the calendar"},
		},
		{
			name: "unique time zone",
			prop: model.NewProperty(ical.PropRecurrenceID, localAt(10),
				param(ical.ParamTzID, ical.TzIDParam{ID: "Mars/Olympus", Unique: true})),
		},
		{
			name: "time zone on a UTC time",
			prop: model.NewProperty(ical.PropRecurrenceID, utcAt(10),
				param(ical.ParamTzID, ical.TzIDParam{ID: "Mars/Olympus", Unique: true})),
			want: []string{"Time zone ID (TZID) cannot be specified on a property with a UTC time"},
		},
		{
			name: "time zone on a date",
			prop: model.NewProperty(ical.PropRecurrenceID, ical.Date{Year: 2024, Month: 1, Day: 1},
				param(ical.ParamValueType, ical.TokenParam("DATE")),
				param(ical.ParamTzID, ical.TzIDParam{ID: "Mars/Olympus", Unique: true})),
			want: []string{"Time zone ID (TZID) is not allowed for the property value type DATE"},
		},
		{
			name: "RELATED on a date-time",
			prop: model.NewProperty(ical.PropRecurrenceID, utcAt(10), param(ical.ParamRelated, ical.TokenParam("START"))),
			want: []string{"Related (RELATED) is not allowed for this property type"},
		},
		{
			name: "FMTTYPE outside ATTACH",
			prop: model.NewProperty(ical.PropURL, ical.URI{URI: uri.MustParse("https://example.com")},
				param(ical.ParamFmtType, ical.TokenParam("text/html"))),
			want: []string{"Format type (FMTTYPE) is not allowed for this property type"},
		},
		{
			name: "repeated LANGUAGE",
			prop: model.NewProperty(ical.PropSummary, ical.Text("x"),
				param(ical.ParamLanguage, ical.LanguageParam{}), param(ical.ParamLanguage, ical.LanguageParam{})),
			want: []string{"Language (LANGUAGE) must only appear once"},
		},
		{
			name: "redundant VALUE",
			prop: model.NewProperty(ical.PropRecurrenceID, utcAt(10), param(ical.ParamValueType, ical.TokenParam("DATE-TIME"))),
			want: []string{"Redundant value specification which matches the default value"},
		},
		{
			name: "VALUE not allowed",
			prop: model.NewProperty(ical.PropSummary, ical.Text("x"), param(ical.ParamValueType, ical.TokenParam("INTEGER"))),
			want: []string{"Property is declared to have a integer value but that is not valid for this property"},
		},
		{
			name: "VALUE does not match",
			prop: model.NewProperty(ical.PropRecurrenceID, utcAt(10), param(ical.ParamValueType, ical.TokenParam("DATE"))),
			want: []string{"Property is declared to have a date value but the value is a date-time"},
		},
		{
			name: "binary without encoding",
			prop: model.NewProperty(ical.PropAttach, ical.Binary("AAAA"), param(ical.ParamValueType, ical.TokenParam("BINARY"))),
			want: []string{"Property is declared to have a binary value but no encoding is set, must be set to BASE64"},
		},
		{
			name: "binary with 8BIT",
			prop: model.NewProperty(ical.PropAttach, ical.Binary("AAAA"),
				param(ical.ParamValueType, ical.TokenParam("BINARY")), param(ical.ParamEncoding, ical.TokenParam("8bit"))),
			want: []string{"Property is declared to have a binary value but the encoding is set to 8BIT, instead of BASE64"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cal := calendarOf(withStart(tc.prop))
			diags := Calendar(&cal)
			if tc.want == nil {
				assert.Empty(t, diags)
				return
			}
			assert.Equal(t, tc.want, messages(diags))
		})
	}
}

func TestPartStatContext(t *testing.T) {
	attendee := model.NewProperty(ical.PropAttendee, ical.CalAddress{URI: uri.MustParse("mailto:a@example.com")},
		param(ical.ParamPartStat, ical.TokenParam("ACCEPTED")))
	fb := event(attendee)
	fb.Kind, fb.Name = ical.ComponentFreeBusy, "VFREEBUSY"
	cal := calendarOf(fb)

	diags := Calendar(&cal)
	require.Len(t, diags, 1)
	assert.Equal(t, "Participation status (PARTSTAT) property is not expected in a [VFREEBUSY] component context", diags[0].Message)
	assert.Equal(t, Hop{Kind: HopParam, Index: 0, Name: "PARTSTAT"}, diags[0].Location[len(diags[0].Location)-1])
}

func TestDeclaredRawValues(t *testing.T) {
	raw := func(value, typ string) model.Property {
		return model.Property{Kind: ical.PropX, Name: "X-THING", Value: ical.Raw(value), Params: []model.Param{
			param(ical.ParamValueType, ical.TokenParam(typ)),
		}}
	}
	testCases := []struct {
		name string
		prop model.Property
		want []string
	}{
		{name: "integer", prop: raw("12,-4", "INTEGER")},
		{name: "bad integer", prop: raw("twelve", "INTEGER"),
			want: []string{"Property is declared to have a integer value but the value is not a integer"}},
		{name: "bad date", prop: raw("2024-01-01", "DATE"),
			want: []string{"Property is declared to have a date value but the value is not a date"}},
		{name: "date out of range", prop: raw("20241301", "DATE"),
			want: []string{"Month must be between 1 and 12"}},
		{name: "times", prop: raw("100000,250000", "TIME"),
			want: []string{"Hour must be between 0 and 23"}},
		{name: "bad uri", prop: raw("not a uri", "URI"),
			want: []string{"Property is declared to have a uri value but the value is not a uri"}},
		{name: "recur", prop: raw("FREQ=WEEKLY;BYMONTHDAY=1", "RECUR"),
			want: []string{"BYMONTHDAY part at index 1 is not valid for a WEEKLY frequency"}},
		{name: "unknown type", prop: raw("anything", "X-TYPE")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cal := calendarOf(withStart(tc.prop))
			diags := Calendar(&cal)
			if tc.want == nil {
				assert.Empty(t, diags)
				return
			}
			assert.Equal(t, tc.want, messages(diags))
		})
	}

	t.Run("invalid time", func(t *testing.T) {
		cal := calendarOf(withStart(raw("100000,12", "TIME")))
		diags := Calendar(&cal)
		require.Len(t, diags, 1)
		assert.Contains(t, diags[0].Message, "Found an invalid time at index 1 - ")
	})
}

func TestRecurRules(t *testing.T) {
	date := ical.Date{Year: 2024, Month: 1, Day: 1}
	dateStart := model.NewProperty(ical.PropDTStart, date, param(ical.ParamValueType, ical.TokenParam("DATE")))
	weekdays := days(
		ical.WeekdayNum{Weekday: ical.Monday}, ical.WeekdayNum{Weekday: ical.Tuesday},
		ical.WeekdayNum{Weekday: ical.Wednesday}, ical.WeekdayNum{Weekday: ical.Thursday},
		ical.WeekdayNum{Weekday: ical.Friday},
	)
	until := func(v ical.Value) ical.RecurPart { return ical.RecurPart{Kind: ical.PartUntil, Until: v} }

	testCases := []struct {
		name  string
		start *model.Property
		rule  ical.Recur
		want  []string
	}{
		{
			name: "last workday of the month",
			rule: recur(freq(ical.Monthly), weekdays, numbers(ical.PartBySetPos, -1)),
		},
		{
			name: "month day in a weekly rule",
			rule: recur(freq(ical.Weekly), numbers(ical.PartByMonthDay, 1)),
			want: []string{"BYMONTHDAY part at index 1 is not valid for a WEEKLY frequency"},
		},
		{
			name: "day offset in a weekly rule",
			rule: recur(freq(ical.Weekly), days(ical.WeekdayNum{Offset: 1, Weekday: ical.Monday})),
			want: []string{"BYDAY part at index 1 has a day with an offset, but the frequency is not MONTHLY or YEARLY"},
		},
		{
			name: "day offset with week numbers",
			rule: recur(freq(ical.Yearly), numbers(ical.PartByWeekNo, 20), days(ical.WeekdayNum{Offset: -1, Weekday: ical.Friday})),
			want: []string{"BYDAY part at index 2 has a day with an offset, but the frequency is YEARLY and a BYWEEKNO part is specified"},
		},
		{
			name: "set position alone",
			rule: recur(freq(ical.Monthly), numbers(ical.PartBySetPos, 1)),
			want: []string{"BYSETPOS part at index 1 is not valid without another BYxxx rule part"},
		},
		{
			name: "ranges",
			rule: recur(freq(ical.Yearly), numbers(ical.PartByMonth, 13), numbers(ical.PartByHour, 24),
				numbers(ical.PartByYearDay, -367), numbers(ical.PartByMonthDay, 0)),
			want: []string{
				"Invalid BYMONTH part at index 1, months must be between 1 and 12",
				"Invalid BYHOUR part at index 2, hours must be between 0 and 23",
				"Invalid BYYEARDAY part at index 3, days must be between 1 and 366, or -366 and -1",
				"Invalid BYMONTHDAY part at index 4, days must be between 1 and 31, or -31 and -1",
			},
		},
		{
			name: "week number outside yearly",
			rule: recur(freq(ical.Monthly), numbers(ical.PartByWeekNo, 1)),
			want: []string{"BYWEEKNO part at index 1 is only valid for a YEARLY frequency"},
		},
		{
			name: "year day in a monthly rule",
			rule: recur(freq(ical.Monthly), numbers(ical.PartByYearDay, 100)),
			want: []string{"BYYEARDAY part at index 1 is not valid for a DAILY, WEEKLY or MONTHLY frequency"},
		},
		{
			name: "repeated part",
			rule: recur(freq(ical.Daily), numbers(ical.PartByMonth, 1), numbers(ical.PartByMonth, 2)),
			want: []string{"Repeated BYMONTH part at index 2"},
		},
		{
			name: "redundant week start",
			rule: recur(freq(ical.Weekly), ical.RecurPart{Kind: ical.PartWeekStart, Weekday: ical.Sunday}),
			want: []string{"WKST part at index 1 is redundant"},
		},
		{
			name: "useful week start",
			rule: recur(freq(ical.Weekly), ical.RecurPart{Kind: ical.PartInterval, Count: 2}, weekdays,
				ical.RecurPart{Kind: ical.PartWeekStart, Weekday: ical.Sunday}),
		},
		{
			name:  "hour with a date start",
			start: &dateStart,
			rule:  recur(freq(ical.Daily), numbers(ical.PartByHour, 9)),
			want:  []string{"BYHOUR part at index 1 is not valid when the associated DTSTART property has a DATE value type"},
		},
		{
			name:  "date until with a date-time start",
			rule:  recur(freq(ical.Daily), until(date)),
			want:  []string{"UNTIL part at index 1 is a date, but the associated DTSTART property is a date-time"},
		},
		{
			name:  "date-time until with a date start",
			start: &dateStart,
			rule:  recur(freq(ical.Daily), until(utcAt(0))),
			want:  []string{"UNTIL part at index 1 is a date-time, but the associated DTSTART property is a date"},
		},
		{
			name: "local until with a UTC start",
			rule: recur(freq(ical.Daily), until(localAt(0))),
			want: []string{"UNTIL part at index 1 must be a UTC time if the associated DTSTART property is a UTC time or a local time with a timezone"},
		},
		{
			name: "until and count",
			rule: recur(freq(ical.Daily), ical.RecurPart{Kind: ical.PartCount, Count: 3}, until(utcAt(0))),
			want: []string{"UNTIL part at index 2 is not allowed together with a COUNT part"},
		},
		{
			name: "frequency not first",
			rule: recur(numbers(ical.PartByMonth, 1), freq(ical.Yearly)),
			want: []string{"Recurrence rule must start with a frequency"},
		},
		{
			name: "no frequency",
			rule: recur(numbers(ical.PartByMonth, 1)),
			want: []string{"No frequency part found in recurrence rule, but it is required. This prevents the rest of the rule being checked"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := model.NewProperty(ical.PropDTStart, start)
			if tc.start != nil {
				s = *tc.start
			}
			cal := calendarOf(event(s, model.NewProperty(ical.PropRRule, tc.rule)))
			diags := Calendar(&cal)
			if tc.want == nil {
				assert.Empty(t, diags)
				return
			}
			assert.Equal(t, tc.want, messages(diags))
		})
	}

	t.Run("rule without start", func(t *testing.T) {
		cal := calendarOf(event(model.NewProperty(ical.PropRRule, recur(freq(ical.Daily)))))
		cal.Properties = append(cal.Properties, model.NewProperty(ical.PropMethod, ical.Text("PUBLISH")))
		assert.Equal(t, []string{"Recurrence rule must have a DTSTART property associated with it"}, messages(Calendar(&cal)))
	})

	t.Run("observance until must be UTC", func(t *testing.T) {
		std := model.NewComponent(ical.ComponentStandard)
		std.Properties = []model.Property{
			model.NewProperty(ical.PropDTStart, localAt(2)),
			model.NewProperty(ical.PropTzOffsetFrom, ical.UtcOffset{Hours: 2}),
			model.NewProperty(ical.PropTzOffsetTo, ical.UtcOffset{Hours: 1}),
			model.NewProperty(ical.PropRRule, recur(freq(ical.Yearly), until(localAt(2)))),
		}
		tz := model.NewComponent(ical.ComponentTimeZone)
		tz.Properties = []model.Property{model.NewProperty(ical.PropTzID, ical.Text("Europe/Paris"))}
		tz.Components = []model.Component{std}
		cal := calendarOf(withStart(), tz)
		assert.Equal(t, []string{"UNTIL part at index 1 must be a UTC time here"}, messages(Calendar(&cal)))
	})
}
