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

import (
	"strings"

	"github.com/jplu/almanac/langtag"
	"github.com/jplu/almanac/uri"
)

// ParamKind identifies a property parameter.
type ParamKind int

// Known parameters of RFC 5545, Section 3.2. ParamIANA and ParamX are the
// fallbacks for any other name.
const (
	ParamAltRep ParamKind = iota
	ParamCN
	ParamCUType
	ParamDelegatedFrom
	ParamDelegatedTo
	ParamDir
	ParamEncoding
	ParamFmtType
	ParamFBType
	ParamLanguage
	ParamMember
	ParamPartStat
	ParamRange
	ParamRelated
	ParamRelType
	ParamRole
	ParamRSVP
	ParamSentBy
	ParamTzID
	ParamValueType
	ParamIANA
	ParamX
)

//nolint:gochecknoglobals // lookup table, never modified.
var paramNames = [...]string{
	ParamAltRep:        "ALTREP",
	ParamCN:            "CN",
	ParamCUType:        "CUTYPE",
	ParamDelegatedFrom: "DELEGATED-FROM",
	ParamDelegatedTo:   "DELEGATED-TO",
	ParamDir:           "DIR",
	ParamEncoding:      "ENCODING",
	ParamFmtType:       "FMTTYPE",
	ParamFBType:        "FBTYPE",
	ParamLanguage:      "LANGUAGE",
	ParamMember:        "MEMBER",
	ParamPartStat:      "PARTSTAT",
	ParamRange:         "RANGE",
	ParamRelated:       "RELATED",
	ParamRelType:       "RELTYPE",
	ParamRole:          "ROLE",
	ParamRSVP:          "RSVP",
	ParamSentBy:        "SENT-BY",
	ParamTzID:          "TZID",
	ParamValueType:     "VALUE",
	ParamIANA:          "",
	ParamX:             "",
}

// Name returns the parameter name, or an empty string for ParamIANA and
// ParamX.
func (k ParamKind) Name() string {
	if k < 0 || int(k) >= len(paramNames) {
		return ""
	}
	return paramNames[k]
}

// String implements fmt.Stringer.
func (k ParamKind) String() string {
	switch k {
	case ParamIANA:
		return "IANA"
	case ParamX:
		return "X"
	default:
		return k.Name()
	}
}

// TakesURI reports whether the parameter value is one or more quoted URIs.
func (k ParamKind) TakesURI() bool {
	switch k {
	case ParamAltRep, ParamDir, ParamSentBy, ParamMember, ParamDelegatedFrom, ParamDelegatedTo:
		return true
	default:
		return false
	}
}

// ParamKindFromName maps a parameter name to its kind, ignoring case.
func ParamKindFromName(name string) ParamKind {
	for k := ParamAltRep; k < ParamIANA; k++ {
		if strings.EqualFold(paramNames[k], name) {
			return k
		}
	}
	if IsXName(name) {
		return ParamX
	}
	return ParamIANA
}

// ParamValue is implemented by every typed parameter value.
type ParamValue interface {
	// Texts returns the values as they appear in a content line, unquoted.
	Texts() []string
}

// TextParam is a free text parameter value such as CN.
type TextParam string

// Texts implements ParamValue.
func (p TextParam) Texts() []string { return []string{string(p)} }

// TokenParam is an enumerated parameter value (PARTSTAT, ROLE, VALUE...). The
// token keeps the case it was written with; compare it with Is.
type TokenParam string

// Texts implements ParamValue.
func (p TokenParam) Texts() []string { return []string{string(p)} }

// Is reports whether the token equals s, ignoring case.
func (p TokenParam) Is(s string) bool { return strings.EqualFold(string(p), s) }

// URIParam is a single quoted URI (ALTREP, DIR, SENT-BY).
type URIParam struct {
	URI *uri.URI
}

// Texts implements ParamValue.
func (p URIParam) Texts() []string { return []string{p.URI.String()} }

// URIListParam is a list of quoted URIs (MEMBER, DELEGATED-FROM, DELEGATED-TO).
type URIListParam []*uri.URI

// Texts implements ParamValue.
func (p URIListParam) Texts() []string {
	texts := make([]string, len(p))
	for i, u := range p {
		texts[i] = u.String()
	}
	return texts
}

// BoolParam is the RSVP value.
type BoolParam bool

// Texts implements ParamValue.
func (p BoolParam) Texts() []string {
	if p {
		return []string{"TRUE"}
	}
	return []string{"FALSE"}
}

// LanguageParam is a LANGUAGE value.
type LanguageParam struct {
	Tag langtag.LanguageTag
}

// Texts implements ParamValue.
func (p LanguageParam) Texts() []string { return []string{p.Tag.String()} }

// TzIDParam is a TZID parameter value. Unique is set when the identifier was
// prefixed with "/", marking a globally unique identifier that need not be
// defined by a VTIMEZONE of the calendar.
type TzIDParam struct {
	ID     string
	Unique bool
}

// Texts implements ParamValue.
func (p TzIDParam) Texts() []string {
	if p.Unique {
		return []string{"/" + p.ID}
	}
	return []string{p.ID}
}

// RawParam holds the values of an IANA or X- parameter.
type RawParam []string

// Texts implements ParamValue.
func (p RawParam) Texts() []string { return []string(p) }
