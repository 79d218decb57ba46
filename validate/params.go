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
	"github.com/jplu/almanac/model"
)

// paramLabels are the names parameters go by in messages.
//
//nolint:gochecknoglobals // lookup table, never modified.
var paramLabels = map[ical.ParamKind]string{
	ical.ParamAltRep:        "Alternate text representation (ALTREP)",
	ical.ParamCN:            "Common name (CN)",
	ical.ParamCUType:        "Calendar user type (CUTYPE)",
	ical.ParamDelegatedFrom: "Delegated from (DELEGATED-FROM)",
	ical.ParamDelegatedTo:   "Delegated to (DELEGATED-TO)",
	ical.ParamDir:           "Directory entry reference (DIR)",
	ical.ParamEncoding:      "Inline encoding (ENCODING)",
	ical.ParamFmtType:       "Format type (FMTTYPE)",
	ical.ParamFBType:        "Free/busy time type (FBTYPE)",
	ical.ParamLanguage:      "Language (LANGUAGE)",
	ical.ParamMember:        "Group or list membership (MEMBER)",
	ical.ParamPartStat:      "Participation status (PARTSTAT)",
	ical.ParamRange:         "Recurrence identifier range (RANGE)",
	ical.ParamRelated:       "Related (RELATED)",
	ical.ParamRelType:       "Relationship type (RELTYPE)",
	ical.ParamRole:          "Participation role (ROLE)",
	ical.ParamRSVP:          "RSVP expectation (RSVP)",
	ical.ParamSentBy:        "Sent by (SENT-BY)",
	ical.ParamTzID:          "Time zone ID (TZID)",
	ical.ParamValueType:     "Value data type (VALUE)",
}

// Registered PARTSTAT values, RFC 5545 Section 3.2.12. Values outside this
// list are IANA or X- values and are accepted everywhere.
//
//nolint:gochecknoglobals // lookup table, never modified.
var (
	partStatRegistered = []string{"NEEDS-ACTION", "ACCEPTED", "DECLINED", "TENTATIVE", "DELEGATED", "COMPLETED", "IN-PROCESS"}
	partStatByContext  = map[ical.ComponentKind][]string{
		ical.ComponentEvent:   {"NEEDS-ACTION", "ACCEPTED", "DECLINED", "TENTATIVE", "DELEGATED"},
		ical.ComponentToDo:    partStatRegistered,
		ical.ComponentJournal: {"NEEDS-ACTION", "ACCEPTED", "DECLINED"},
	}
)

// Properties that take a TZID parameter.
//
//nolint:gochecknoglobals // lookup table, never modified.
var tzidProperties = map[ical.PropertyKind]bool{
	ical.PropDTStart:      true,
	ical.PropDTEnd:        true,
	ical.PropDue:          true,
	ical.PropExDate:       true,
	ical.PropRDate:        true,
	ical.PropRecurrenceID: true,
}

// Parameters bound to a single property.
//
//nolint:gochecknoglobals // lookup table, never modified.
var paramOwners = map[ical.ParamKind]ical.PropertyKind{
	ical.ParamFmtType: ical.PropAttach,
	ical.ParamFBType:  ical.PropFreeBusy,
	ical.ParamRange:   ical.PropRecurrenceID,
	ical.ParamRelType: ical.PropRelatedTo,
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}

// effectiveType is the declared type of a property, or the type of its value.
func effectiveType(p *model.Property) ical.ValueType {
	if t, ok := p.DeclaredValueType(); ok && t != ical.TypeOther {
		return t
	}
	return p.Value.ValueType()
}

// params checks the parameters of a property. IANA and X- properties only
// get the checks that do not depend on the property definition.
func (v *validator) params(s *scope, p *model.Property, loc Location) {
	known := p.Kind != ical.PropIANA && p.Kind != ical.PropX
	t := effectiveType(p)
	seen := make(map[ical.ParamKind]int)

	for j := range p.Params {
		param := &p.Params[j]
		if param.Kind == ical.ParamIANA || param.Kind == ical.ParamX {
			continue
		}
		ploc := loc.with(HopParam, j, param.Name)
		label := paramLabels[param.Kind]

		seen[param.Kind]++
		if seen[param.Kind] == 2 {
			v.errorf(ploc, "%s must only appear once", label)
		}

		switch param.Kind {
		case ical.ParamSentBy:
			if u, ok := param.Value.(ical.URIParam); ok && u.URI != nil && !u.URI.HasScheme("mailto") {
				v.errorf(ploc, "Sent by (SENT-BY) must be a 'mailto:' URI")
			}
		case ical.ParamPartStat:
			v.partStat(s, param, ploc)
		case ical.ParamTzID:
			v.tzidParam(p, param, known, ploc)
		}

		if !known {
			continue
		}
		if !paramFits(p.Kind, param.Kind, t) {
			v.errorf(ploc, "%s is not allowed for this property type", label)
		}
	}
}

// paramFits reports whether a parameter makes sense on a property of the
// given kind and effective value type.
func paramFits(prop ical.PropertyKind, kind ical.ParamKind, t ical.ValueType) bool {
	if owner, ok := paramOwners[kind]; ok {
		return owner == prop
	}
	switch kind {
	case ical.ParamCN, ical.ParamCUType, ical.ParamDelegatedFrom, ical.ParamDelegatedTo, ical.ParamDir,
		ical.ParamMember, ical.ParamRole, ical.ParamRSVP, ical.ParamSentBy, ical.ParamPartStat:
		return t == ical.TypeCalAddress
	case ical.ParamAltRep, ical.ParamLanguage:
		return t == ical.TypeText
	case ical.ParamRelated:
		return t == ical.TypeDuration
	case ical.ParamTzID:
		// DATE values are reported by tzidParam.
		return tzidProperties[prop]
	default:
		return true
	}
}

func (v *validator) partStat(s *scope, param *model.Param, loc Location) {
	texts := param.Value.Texts()
	if len(texts) == 0 {
		return
	}
	value := texts[0]
	if !s.calendar && (s.kind == ical.ComponentIANA || s.kind == ical.ComponentX) {
		return
	}
	allowed, ok := partStatByContext[s.kind]
	if s.calendar || !ok {
		v.errorf(loc, "Participation status (PARTSTAT) property is not expected in a [%s] component context", s.contextName())
		return
	}
	if contains(partStatRegistered, value) && !contains(allowed, value) {
		v.errorf(loc, "Invalid participation status (PARTSTAT) value [%s] in a %s component context",
			strings.ToUpper(value), s.contextName())
	}
}

func (v *validator) tzidParam(p *model.Property, param *model.Param, known bool, loc Location) {
	id, ok := param.Value.(ical.TzIDParam)
	if !ok {
		return
	}
	if known && effectiveType(p) == ical.TypeDate {
		v.errorf(loc, "Time zone ID (TZID) is not allowed for the property value type DATE")
		return
	}
	if !id.Unique {
		if _, defined := v.tzids[id.ID]; !defined {
			v.errorf(loc, "Required time zone ID [%s] is not defined in the calendar", id.ID)
		}
	}
	if hasUTCTime(p.Value) {
		v.errorf(loc, "Time zone ID (TZID) cannot be specified on a property with a UTC time")
	}
}

func hasUTCTime(value ical.Value) bool {
	switch x := value.(type) {
	case ical.DateTime:
		return x.UTC
	case ical.Time:
		return x.UTC
	case ical.DateTimeList:
		for _, dt := range x {
			if dt.UTC {
				return true
			}
		}
	case ical.PeriodList:
		for _, p := range x {
			if p.Start.UTC {
				return true
			}
		}
	}
	return false
}
