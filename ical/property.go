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

package ical

import "strings"

// PropertyKind identifies a property.
type PropertyKind int

// Known properties of RFC 5545, Section 3.7 and 3.8, in RFC order.
// PropIANA and PropX are the fallbacks for any other name.
const (
	PropCalScale PropertyKind = iota
	PropMethod
	PropProdID
	PropVersion
	PropAttach
	PropCategories
	PropClass
	PropComment
	PropDescription
	PropGeo
	PropLocation
	PropPercentComplete
	PropPriority
	PropResources
	PropStatus
	PropSummary
	PropCompleted
	PropDTEnd
	PropDue
	PropDTStart
	PropDuration
	PropFreeBusy
	PropTransp
	PropTzID
	PropTzName
	PropTzOffsetFrom
	PropTzOffsetTo
	PropTzURL
	PropAttendee
	PropContact
	PropOrganizer
	PropRecurrenceID
	PropRelatedTo
	PropURL
	PropUID
	PropExDate
	PropRDate
	PropRRule
	PropAction
	PropRepeat
	PropTrigger
	PropCreated
	PropDTStamp
	PropLastModified
	PropSequence
	PropRequestStatus
	PropIANA
	PropX
)

type propertyInfo struct {
	name         string
	defaultType  ValueType
	alternatives []ValueType
}

//nolint:gochecknoglobals // lookup table, never modified.
var propertyInfos = [...]propertyInfo{
	PropCalScale:        {"CALSCALE", TypeText, nil},
	PropMethod:          {"METHOD", TypeText, nil},
	PropProdID:          {"PRODID", TypeText, nil},
	PropVersion:         {"VERSION", TypeText, nil},
	PropAttach:          {"ATTACH", TypeURI, []ValueType{TypeBinary}},
	PropCategories:      {"CATEGORIES", TypeText, nil},
	PropClass:           {"CLASS", TypeText, nil},
	PropComment:         {"COMMENT", TypeText, nil},
	PropDescription:     {"DESCRIPTION", TypeText, nil},
	PropGeo:             {"GEO", TypeFloat, nil},
	PropLocation:        {"LOCATION", TypeText, nil},
	PropPercentComplete: {"PERCENT-COMPLETE", TypeInteger, nil},
	PropPriority:        {"PRIORITY", TypeInteger, nil},
	PropResources:       {"RESOURCES", TypeText, nil},
	PropStatus:          {"STATUS", TypeText, nil},
	PropSummary:         {"SUMMARY", TypeText, nil},
	PropCompleted:       {"COMPLETED", TypeDateTime, nil},
	PropDTEnd:           {"DTEND", TypeDateTime, []ValueType{TypeDate}},
	PropDue:             {"DUE", TypeDateTime, []ValueType{TypeDate}},
	PropDTStart:         {"DTSTART", TypeDateTime, []ValueType{TypeDate}},
	PropDuration:        {"DURATION", TypeDuration, nil},
	PropFreeBusy:        {"FREEBUSY", TypePeriod, nil},
	PropTransp:          {"TRANSP", TypeText, nil},
	PropTzID:            {"TZID", TypeText, nil},
	PropTzName:          {"TZNAME", TypeText, nil},
	PropTzOffsetFrom:    {"TZOFFSETFROM", TypeUtcOffset, nil},
	PropTzOffsetTo:      {"TZOFFSETTO", TypeUtcOffset, nil},
	PropTzURL:           {"TZURL", TypeURI, nil},
	PropAttendee:        {"ATTENDEE", TypeCalAddress, nil},
	PropContact:         {"CONTACT", TypeText, nil},
	PropOrganizer:       {"ORGANIZER", TypeCalAddress, nil},
	PropRecurrenceID:    {"RECURRENCE-ID", TypeDateTime, []ValueType{TypeDate}},
	PropRelatedTo:       {"RELATED-TO", TypeText, nil},
	PropURL:             {"URL", TypeURI, nil},
	PropUID:             {"UID", TypeText, nil},
	PropExDate:          {"EXDATE", TypeDateTime, []ValueType{TypeDate}},
	PropRDate:           {"RDATE", TypeDateTime, []ValueType{TypeDate, TypePeriod}},
	PropRRule:           {"RRULE", TypeRecur, nil},
	PropAction:          {"ACTION", TypeText, nil},
	PropRepeat:          {"REPEAT", TypeInteger, nil},
	PropTrigger:         {"TRIGGER", TypeDuration, []ValueType{TypeDateTime}},
	PropCreated:         {"CREATED", TypeDateTime, nil},
	PropDTStamp:         {"DTSTAMP", TypeDateTime, nil},
	PropLastModified:    {"LAST-MODIFIED", TypeDateTime, nil},
	PropSequence:        {"SEQUENCE", TypeInteger, nil},
	PropRequestStatus:   {"REQUEST-STATUS", TypeText, nil},
	PropIANA:            {"", TypeUnknown, nil},
	PropX:               {"", TypeUnknown, nil},
}

func (k PropertyKind) info() propertyInfo {
	if k < 0 || int(k) >= len(propertyInfos) {
		return propertyInfo{}
	}
	return propertyInfos[k]
}

// Name returns the property name, or an empty string for PropIANA and PropX.
func (k PropertyKind) Name() string {
	return k.info().name
}

// String implements fmt.Stringer.
func (k PropertyKind) String() string {
	switch k {
	case PropIANA:
		return "IANA"
	case PropX:
		return "X"
	default:
		return k.Name()
	}
}

// DefaultValueType returns the value type the property has when no VALUE
// parameter is given. IANA and X- properties report TypeUnknown.
func (k PropertyKind) DefaultValueType() ValueType {
	return k.info().defaultType
}

// AllowsValueType reports whether t is the default value type of the
// property or one of the alternatives selectable with a VALUE parameter.
// IANA and X- properties allow any type.
func (k PropertyKind) AllowsValueType(t ValueType) bool {
	if k == PropIANA || k == PropX {
		return true
	}
	info := k.info()
	if t == info.defaultType {
		return true
	}
	for _, alt := range info.alternatives {
		if alt == t {
			return true
		}
	}
	return false
}

// PropertyKindFromName maps a property name to its kind, ignoring case.
func PropertyKindFromName(name string) PropertyKind {
	for k := PropCalScale; k < PropIANA; k++ {
		if strings.EqualFold(propertyInfos[k].name, name) {
			return k
		}
	}
	if IsXName(name) {
		return PropX
	}
	return PropIANA
}
