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
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/uri"
)

type occurrenceContext struct {
	kind   ical.ComponentKind
	action Action
}

func (c occurrenceContext) String() string {
	if c.kind == ical.ComponentAlarm {
		return fmt.Sprintf("%s/%d", c.kind, c.action)
	}
	return c.kind.String()
}

//nolint:gochecknoglobals // shared fixture.
var occurrenceContexts = []occurrenceContext{
	{kind: ical.ComponentEvent},
	{kind: ical.ComponentToDo},
	{kind: ical.ComponentJournal},
	{kind: ical.ComponentFreeBusy},
	{kind: ical.ComponentTimeZone},
	{kind: ical.ComponentStandard},
	{kind: ical.ComponentDaylight},
	{kind: ical.ComponentAlarm, action: ActionAudio},
	{kind: ical.ComponentAlarm, action: ActionDisplay},
	{kind: ical.ComponentAlarm, action: ActionEmail},
	{kind: ical.ComponentAlarm, action: ActionOther},
}

// sample returns a property of the given kind whose value is legal in the
// context on its own.
func sample(kind ical.PropertyKind, ctx occurrenceContext) model.Property {
	mailto := uri.MustParse("mailto:a@example.com")
	web := uri.MustParse("https://example.com/x")
	var value ical.Value
	switch kind {
	case ical.PropVersion:
		value = ical.Version{Max: "2.0"}
	case ical.PropAttach, ical.PropTzURL, ical.PropURL:
		value = ical.URI{URI: web}
	case ical.PropAttendee, ical.PropOrganizer:
		value = ical.CalAddress{URI: mailto}
	case ical.PropCategories, ical.PropResources:
		value = ical.TextList{"A"}
	case ical.PropGeo:
		value = ical.Geo{Latitude: 1, Longitude: 2}
	case ical.PropPercentComplete, ical.PropPriority, ical.PropSequence, ical.PropRepeat:
		value = ical.Integer(1)
	case ical.PropStatus:
		value = ical.Text(map[ical.ComponentKind]string{
			ical.ComponentEvent: "CONFIRMED", ical.ComponentToDo: "COMPLETED", ical.ComponentJournal: "FINAL",
		}[ctx.kind])
	case ical.PropCompleted, ical.PropCreated, ical.PropDTStamp, ical.PropLastModified, ical.PropRecurrenceID:
		value = start
	case ical.PropDTStart:
		value = start
		if ctx.kind == ical.ComponentStandard || ctx.kind == ical.ComponentDaylight {
			value = localAt(2)
		}
	case ical.PropDTEnd, ical.PropDue:
		value = utcAt(12)
	case ical.PropDuration:
		value = ical.Duration{Hours: mo.Some(1)}
	case ical.PropTrigger:
		value = ical.Duration{Negative: true, Minutes: mo.Some(15)}
	case ical.PropFreeBusy:
		value = ical.PeriodList{{Start: start, End: mo.Some(utcAt(11))}}
	case ical.PropTzOffsetFrom, ical.PropTzOffsetTo:
		value = ical.UtcOffset{Hours: 1}
	case ical.PropExDate, ical.PropRDate:
		value = ical.DateTimeList{start}
	case ical.PropRRule:
		value = recur(freq(ical.Daily))
	case ical.PropRequestStatus:
		value = ical.RequestStatus{Code: []int{2, 0}, Description: "Success"}
	case ical.PropAction:
		value = ical.Text(map[Action]string{
			ActionAudio: "AUDIO", ActionDisplay: "DISPLAY", ActionEmail: "EMAIL", ActionOther: "X-SPEAK",
		}[ctx.action])
	case ical.PropTzID:
		value = ical.Text("Europe/Paris")
	default:
		value = ical.Text("x")
	}
	return model.NewProperty(kind, value)
}

// companions are the properties another one cannot go without.
func companions(kind ical.PropertyKind, ctx occurrenceContext) []ical.PropertyKind {
	switch {
	case ctx.kind == ical.ComponentAlarm && kind == ical.PropDuration:
		return []ical.PropertyKind{ical.PropRepeat}
	case ctx.kind == ical.ComponentAlarm && kind == ical.PropRepeat:
		return []ical.PropertyKind{ical.PropDuration}
	case ctx.kind == ical.ComponentToDo && kind == ical.PropDuration:
		return []ical.PropertyKind{ical.PropDTStart}
	}
	return nil
}

// minimal returns a component holding exactly its required properties.
func minimal(ctx occurrenceContext) model.Component {
	comp := model.NewComponent(ctx.kind)
	for k := ical.PropCalScale; k < ical.PropIANA; k++ {
		if Expect(ctx.kind, k, ctx.action, false).Required() {
			comp.Properties = append(comp.Properties, sample(k, ctx))
		}
	}
	if ctx.kind == ical.ComponentTimeZone {
		comp.Components = []model.Component{minimal(occurrenceContext{kind: ical.ComponentStandard})}
	}
	return comp
}

// place puts comp where its kind may appear and returns the calendar and the
// hop kind of its properties.
func place(comp model.Component) (model.Calendar, HopKind) {
	switch comp.Kind {
	case ical.ComponentStandard, ical.ComponentDaylight:
		tz := minimal(occurrenceContext{kind: ical.ComponentTimeZone})
		tz.Components = []model.Component{comp}
		return calendarOf(tz), HopNestedProperty
	case ical.ComponentAlarm:
		e := minimal(occurrenceContext{kind: ical.ComponentEvent})
		e.Components = []model.Component{comp}
		return calendarOf(e), HopNestedProperty
	default:
		return calendarOf(comp), HopProperty
	}
}

func TestMinimalComponentsAreClean(t *testing.T) {
	for _, ctx := range occurrenceContexts {
		t.Run(ctx.String(), func(t *testing.T) {
			cal, _ := place(minimal(ctx))
			assert.Empty(t, Calendar(&cal))
		})
	}
}

func TestOccurrenceLimits(t *testing.T) {
	for _, ctx := range occurrenceContexts {
		for k := ical.PropCalScale; k < ical.PropIANA; k++ {
			o := Expect(ctx.kind, k, ctx.action, false)
			if k == ical.PropAction || (o != Once && o != OptionalOnce && o != Never) {
				continue
			}
			t.Run(fmt.Sprintf("%s/%s", ctx, k), func(t *testing.T) {
				comp := minimal(ctx)
				for _, c := range companions(k, ctx) {
					if len(comp.PropertiesOf(c)) == 0 {
						comp.Properties = append(comp.Properties, sample(c, ctx))
					}
				}
				for len(comp.PropertiesOf(k)) <= o.Max() {
					comp.Properties = append(comp.Properties, sample(k, ctx))
				}
				extra := len(comp.Properties) - 1
				cal, hop := place(comp)

				diags := Calendar(&cal)
				require.Len(t, diags, 1, "%v", diags)
				want := k.Name() + " must only appear once"
				if o == Never {
					want = k.Name() + " is not allowed"
				}
				assert.Equal(t, want, diags[0].Message)
				loc := diags[0].Location
				assert.Equal(t, Hop{Kind: hop, Index: extra, Name: k.Name()}, loc[len(loc)-1])
			})
		}
	}
}

func TestCalendarOccurrences(t *testing.T) {
	for _, k := range []ical.PropertyKind{ical.PropProdID, ical.PropVersion, ical.PropCalScale, ical.PropMethod} {
		t.Run(k.String(), func(t *testing.T) {
			cal := calendarOf(withStart())
			for len(cal.PropertiesOf(k)) < 2 {
				cal.Properties = append(cal.Properties, sample(k, occurrenceContext{}))
			}
			extra := len(cal.Properties) - 1

			diags := Calendar(&cal)
			require.Len(t, diags, 1, "%v", diags)
			assert.Equal(t, k.Name()+" must only appear once", diags[0].Message)
			assert.Equal(t, Location{{Kind: HopCalendarProperty, Index: extra, Name: k.Name()}}, diags[0].Location)
		})
	}

	t.Run("component property in calendar", func(t *testing.T) {
		cal := calendarOf(withStart())
		cal.Properties = append(cal.Properties, model.NewProperty(ical.PropUID, ical.Text("1")))
		assert.Equal(t, []string{"UID is not allowed"}, messages(Calendar(&cal)))
	})
}

func TestExpect(t *testing.T) {
	testCases := []struct {
		kind      ical.ComponentKind
		prop      ical.PropertyKind
		action    Action
		hasMethod bool
		want      Occurrence
	}{
		{ical.ComponentEvent, ical.PropDTStart, ActionOther, false, Once},
		{ical.ComponentEvent, ical.PropDTStart, ActionOther, true, OptionalOnce},
		{ical.ComponentDaylight, ical.PropTzOffsetTo, ActionOther, false, Once},
		{ical.ComponentAlarm, ical.PropAttendee, ActionEmail, false, OnceOrMany},
		{ical.ComponentAlarm, ical.PropAttach, ActionDisplay, false, Never},
		{ical.ComponentAlarm, ical.PropAttach, ActionAudio, false, OptionalOnce},
		{ical.ComponentJournal, ical.PropDescription, ActionOther, false, OptionalMany},
		{ical.ComponentFreeBusy, ical.PropContact, ActionOther, false, OptionalOnce},
		{ical.ComponentX, ical.PropUID, ActionOther, false, OptionalMany},
		{ical.ComponentEvent, ical.PropX, ActionOther, false, OptionalMany},
		{ical.ComponentEvent, ical.PropTzID, ActionOther, false, Never},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s/%s", tc.kind, tc.prop), func(t *testing.T) {
			assert.Equal(t, tc.want, Expect(tc.kind, tc.prop, tc.action, tc.hasMethod))
		})
	}
}
