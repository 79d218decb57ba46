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
	"strings"

	"github.com/jplu/almanac/ical"
)

// Occurrence is how many times a property may appear in a component.
type Occurrence int

const (
	Never Occurrence = iota
	OptionalOnce
	Once
	OptionalMany
	OnceOrMany
)

func (o Occurrence) String() string {
	switch o {
	case OptionalOnce:
		return "optional, at most once"
	case Once:
		return "exactly once"
	case OptionalMany:
		return "optional, any number of times"
	case OnceOrMany:
		return "at least once"
	default:
		return "never"
	}
}

// Required reports whether at least one occurrence is needed.
func (o Occurrence) Required() bool { return o == Once || o == OnceOrMany }

// Max returns the largest legal count, or -1 when unbounded.
func (o Occurrence) Max() int {
	switch o {
	case Never:
		return 0
	case OptionalOnce, Once:
		return 1
	default:
		return -1
	}
}

// Action is the ACTION of an alarm. It selects the alarm's occurrence rules.
type Action int

const (
	// ActionOther is an IANA or X- action, or no alarm at all.
	ActionOther Action = iota
	ActionAudio
	ActionDisplay
	ActionEmail
)

// ActionFromText maps an ACTION value to its Action.
func ActionFromText(s string) Action {
	switch strings.ToUpper(s) {
	case "AUDIO":
		return ActionAudio
	case "DISPLAY":
		return ActionDisplay
	case "EMAIL":
		return ActionEmail
	default:
		return ActionOther
	}
}

type occurrences map[ical.PropertyKind]Occurrence

// Calendar properties.
//
//nolint:gochecknoglobals // lookup table, never modified.
var calendarOccurrences = occurrences{
	ical.PropProdID:   Once,
	ical.PropVersion:  Once,
	ical.PropCalScale: OptionalOnce,
	ical.PropMethod:   OptionalOnce,
}

// Component properties, RFC 5545 Section 3.6. DAYLIGHT shares the STANDARD
// row and VALARM is completed by alarmOccurrences.
//
//nolint:gochecknoglobals // lookup table, never modified.
var componentOccurrences = map[ical.ComponentKind]occurrences{
	ical.ComponentEvent: {
		ical.PropDTStamp:       Once,
		ical.PropUID:           Once,
		ical.PropDTStart:       Once,
		ical.PropClass:         OptionalOnce,
		ical.PropCreated:       OptionalOnce,
		ical.PropDescription:   OptionalOnce,
		ical.PropGeo:           OptionalOnce,
		ical.PropLastModified:  OptionalOnce,
		ical.PropLocation:      OptionalOnce,
		ical.PropOrganizer:     OptionalOnce,
		ical.PropPriority:      OptionalOnce,
		ical.PropSequence:      OptionalOnce,
		ical.PropStatus:        OptionalOnce,
		ical.PropSummary:       OptionalOnce,
		ical.PropTransp:        OptionalOnce,
		ical.PropURL:           OptionalOnce,
		ical.PropRecurrenceID:  OptionalOnce,
		ical.PropDTEnd:         OptionalOnce,
		ical.PropDuration:      OptionalOnce,
		ical.PropRRule:         OptionalMany,
		ical.PropAttach:        OptionalMany,
		ical.PropAttendee:      OptionalMany,
		ical.PropCategories:    OptionalMany,
		ical.PropComment:       OptionalMany,
		ical.PropContact:       OptionalMany,
		ical.PropExDate:        OptionalMany,
		ical.PropRequestStatus: OptionalMany,
		ical.PropRelatedTo:     OptionalMany,
		ical.PropResources:     OptionalMany,
		ical.PropRDate:         OptionalMany,
	},
	ical.ComponentToDo: {
		ical.PropDTStamp:         Once,
		ical.PropUID:             Once,
		ical.PropClass:           OptionalOnce,
		ical.PropCompleted:       OptionalOnce,
		ical.PropCreated:         OptionalOnce,
		ical.PropDescription:     OptionalOnce,
		ical.PropDTStart:         OptionalOnce,
		ical.PropGeo:             OptionalOnce,
		ical.PropLastModified:    OptionalOnce,
		ical.PropLocation:        OptionalOnce,
		ical.PropOrganizer:       OptionalOnce,
		ical.PropPercentComplete: OptionalOnce,
		ical.PropPriority:        OptionalOnce,
		ical.PropRecurrenceID:    OptionalOnce,
		ical.PropSequence:        OptionalOnce,
		ical.PropStatus:          OptionalOnce,
		ical.PropSummary:         OptionalOnce,
		ical.PropURL:             OptionalOnce,
		ical.PropDue:             OptionalOnce,
		ical.PropDuration:        OptionalOnce,
		ical.PropRRule:           OptionalMany,
		ical.PropAttach:          OptionalMany,
		ical.PropAttendee:        OptionalMany,
		ical.PropCategories:      OptionalMany,
		ical.PropComment:         OptionalMany,
		ical.PropContact:         OptionalMany,
		ical.PropExDate:          OptionalMany,
		ical.PropRequestStatus:   OptionalMany,
		ical.PropRelatedTo:       OptionalMany,
		ical.PropResources:       OptionalMany,
		ical.PropRDate:           OptionalMany,
	},
	ical.ComponentJournal: {
		ical.PropDTStamp:       Once,
		ical.PropUID:           Once,
		ical.PropClass:         OptionalOnce,
		ical.PropCreated:       OptionalOnce,
		ical.PropDTStart:       OptionalOnce,
		ical.PropLastModified:  OptionalOnce,
		ical.PropOrganizer:     OptionalOnce,
		ical.PropRecurrenceID:  OptionalOnce,
		ical.PropSequence:      OptionalOnce,
		ical.PropStatus:        OptionalOnce,
		ical.PropSummary:       OptionalOnce,
		ical.PropURL:           OptionalOnce,
		ical.PropRRule:         OptionalMany,
		ical.PropAttach:        OptionalMany,
		ical.PropAttendee:      OptionalMany,
		ical.PropCategories:    OptionalMany,
		ical.PropComment:       OptionalMany,
		ical.PropContact:       OptionalMany,
		ical.PropDescription:   OptionalMany,
		ical.PropExDate:        OptionalMany,
		ical.PropRelatedTo:     OptionalMany,
		ical.PropRDate:         OptionalMany,
		ical.PropRequestStatus: OptionalMany,
	},
	ical.ComponentFreeBusy: {
		ical.PropDTStamp:       Once,
		ical.PropUID:           Once,
		ical.PropContact:       OptionalOnce,
		ical.PropDTStart:       OptionalOnce,
		ical.PropDTEnd:         OptionalOnce,
		ical.PropOrganizer:     OptionalOnce,
		ical.PropURL:           OptionalOnce,
		ical.PropAttendee:      OptionalMany,
		ical.PropComment:       OptionalMany,
		ical.PropFreeBusy:      OptionalMany,
		ical.PropRequestStatus: OptionalMany,
	},
	ical.ComponentTimeZone: {
		ical.PropTzID:         Once,
		ical.PropLastModified: OptionalOnce,
		ical.PropTzURL:        OptionalOnce,
	},
	ical.ComponentStandard: {
		ical.PropDTStart:      Once,
		ical.PropTzOffsetTo:   Once,
		ical.PropTzOffsetFrom: Once,
		ical.PropRRule:        OptionalMany,
		ical.PropComment:      OptionalMany,
		ical.PropRDate:        OptionalMany,
		ical.PropTzName:       OptionalMany,
	},
	ical.ComponentAlarm: {
		ical.PropAction:   Once,
		ical.PropTrigger:  Once,
		ical.PropDuration: OptionalOnce,
		ical.PropRepeat:   OptionalOnce,
	},
}

// Alarm properties that depend on the ACTION, RFC 5545 Section 3.6.6.
//
//nolint:gochecknoglobals // lookup table, never modified.
var alarmOccurrences = map[Action]occurrences{
	ActionAudio: {
		ical.PropAttach: OptionalOnce,
	},
	ActionDisplay: {
		ical.PropDescription: Once,
	},
	ActionEmail: {
		ical.PropDescription: Once,
		ical.PropSummary:     Once,
		ical.PropAttendee:    OnceOrMany,
		ical.PropAttach:      OptionalMany,
	},
	ActionOther: {
		ical.PropDescription: OptionalMany,
		ical.PropSummary:     OptionalMany,
		ical.PropAttendee:    OptionalMany,
		ical.PropAttach:      OptionalMany,
	},
}

// Expect returns how often a property of kind prop may appear in a component
// of kind comp. The action only matters for alarms. hasMethod relaxes DTSTART
// in events, which a calendar with a METHOD may leave out.
//
// IANA and X- properties and everything inside IANA and X- components may
// appear any number of times; known properties missing from the tables may
// not appear at all.
func Expect(comp ical.ComponentKind, prop ical.PropertyKind, action Action, hasMethod bool) Occurrence {
	if prop == ical.PropIANA || prop == ical.PropX {
		return OptionalMany
	}
	switch comp {
	case ical.ComponentIANA, ical.ComponentX:
		return OptionalMany
	case ical.ComponentDaylight:
		comp = ical.ComponentStandard
	case ical.ComponentEvent:
		if prop == ical.PropDTStart && hasMethod {
			return OptionalOnce
		}
	case ical.ComponentAlarm:
		if o, ok := alarmOccurrences[action][prop]; ok {
			return o
		}
	}
	return componentOccurrences[comp][prop]
}

// ExpectInCalendar is Expect for calendar properties.
func ExpectInCalendar(prop ical.PropertyKind) Occurrence {
	if prop == ical.PropIANA || prop == ical.PropX {
		return OptionalMany
	}
	return calendarOccurrences[prop]
}

// counter tracks the occurrences of properties during a scan.
type counter struct {
	seen   map[ical.PropertyKind]int
	expect func(ical.PropertyKind) Occurrence
}

func newCounter(expect func(ical.PropertyKind) Occurrence) *counter {
	return &counter{seen: make(map[ical.PropertyKind]int), expect: expect}
}

// add counts one more property and returns the message for a violation, or
// "" when the count is still legal. A property that is never allowed is
// reported on every occurrence; one that is allowed once is reported on each
// extra occurrence.
func (c *counter) add(kind ical.PropertyKind, name string) (string, Occurrence) {
	o := c.expect(kind)
	if kind == ical.PropIANA || kind == ical.PropX {
		return "", o
	}
	c.seen[kind]++
	switch limit := o.Max(); {
	case limit == 0:
		return name + " is not allowed", o
	case limit > 0 && c.seen[kind] > limit:
		return name + " must only appear once", o
	}
	return "", o
}

// missing returns the required properties that were not seen, in kind order.
func (c *counter) missing() []ical.PropertyKind {
	var out []ical.PropertyKind
	for k := ical.PropCalScale; k < ical.PropIANA; k++ {
		if c.seen[k] == 0 && c.expect(k).Required() {
			out = append(out, k)
		}
	}
	return out
}

func (c *counter) count(kind ical.PropertyKind) int { return c.seen[kind] }
