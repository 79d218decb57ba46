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

package parser

import (
	"strings"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/langtag"
	"github.com/jplu/almanac/uri"
)

// Param is a parsed property parameter. Name keeps the spelling of the input.
type Param struct {
	Kind  ical.ParamKind
	Name  string
	Value ical.ParamValue
}

// Enumerations of RFC 5545, Section 3.2. Parameters whose grammar also admits
// iana-token and x-name values only need the token shape.
//
//nolint:gochecknoglobals // lookup tables, never modified.
var (
	encodingValues = []string{"8BIT", "BASE64"}
	rangeValues    = []string{"THISANDFUTURE"}
	relatedValues  = []string{"START", "END"}
)

const maxRegNameLen = 127

// parseParam gives a typed value to a lexed parameter.
func parseParam(rp rawParam) (*Param, error) {
	kind := ical.ParamKindFromName(rp.name)
	p := &Param{Kind: kind, Name: rp.name}

	if kind == ical.ParamIANA || kind == ical.ParamX {
		values := make(ical.RawParam, len(rp.values))
		for i, v := range rp.values {
			values[i] = v.text
		}
		p.Value = values
		return p, nil
	}

	if kind == ical.ParamMember || kind == ical.ParamDelegatedFrom || kind == ical.ParamDelegatedTo {
		list := make(ical.URIListParam, 0, len(rp.values))
		for _, v := range rp.values {
			u, err := parseQuotedURI(kind, v)
			if err != nil {
				return nil, err
			}
			list = append(list, u)
		}
		p.Value = list
		return p, nil
	}

	if len(rp.values) != 1 {
		return nil, newError(rp.column, KindInvalidParam, "%s takes a single value", kind.Name())
	}
	v := rp.values[0]

	var err error
	switch kind {
	case ical.ParamAltRep, ical.ParamDir, ical.ParamSentBy:
		var u *uri.URI
		u, err = parseQuotedURI(kind, v)
		p.Value = ical.URIParam{URI: u}
	case ical.ParamCN:
		p.Value = ical.TextParam(v.text)
	case ical.ParamCUType, ical.ParamFBType, ical.ParamPartStat, ical.ParamRelType, ical.ParamRole, ical.ParamValueType:
		if !isIANAToken(v.text) {
			err = newError(v.column, KindInvalidParam, "%s value must be a token, got %q", kind.Name(), v.text)
		}
		p.Value = ical.TokenParam(v.text)
	case ical.ParamEncoding:
		p.Value, err = parseEnumParam(kind, v, encodingValues)
	case ical.ParamRange:
		p.Value, err = parseEnumParam(kind, v, rangeValues)
	case ical.ParamRelated:
		p.Value, err = parseEnumParam(kind, v, relatedValues)
	case ical.ParamFmtType:
		if !isFmtType(v.text) {
			err = newError(v.column, KindInvalidParam, "FMTTYPE must be a media type, got %q", v.text)
		}
		p.Value = ical.TokenParam(v.text)
	case ical.ParamLanguage:
		var tag langtag.LanguageTag
		tag, err = langtag.Parse(v.text)
		if err != nil {
			err = wrapError(v.column, KindInvalidLanguageTag, err, "LANGUAGE %q", v.text)
		}
		p.Value = ical.LanguageParam{Tag: tag}
	case ical.ParamRSVP:
		var b bool
		b, err = ParseBoolean([]byte(v.text))
		if err != nil {
			err = newError(v.column, KindInvalidParam, "RSVP must be TRUE or FALSE, got %q", v.text)
		}
		p.Value = ical.BoolParam(b)
	case ical.ParamTzID:
		id, unique := strings.CutPrefix(v.text, "/")
		if id == "" {
			err = newError(v.column, KindInvalidParam, "empty TZID")
		}
		p.Value = ical.TzIDParam{ID: id, Unique: unique}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func parseQuotedURI(kind ical.ParamKind, v rawParamValue) (*uri.URI, error) {
	if !v.quoted {
		return nil, newError(v.column, KindInvalidParam, "%s value must be a quoted URI", kind.Name())
	}
	u, err := uri.Parse(v.text)
	if err != nil {
		return nil, wrapError(v.column, KindInvalidURI, err, "%s value %q", kind.Name(), v.text)
	}
	return u, nil
}

func parseEnumParam(kind ical.ParamKind, v rawParamValue, allowed []string) (ical.ParamValue, error) {
	for _, a := range allowed {
		if strings.EqualFold(a, v.text) {
			return ical.TokenParam(v.text), nil
		}
	}
	return nil, newError(v.column, KindInvalidParam, "%s must be one of %s, got %q",
		kind.Name(), strings.Join(allowed, ", "), v.text)
}

func isRegNameChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || strings.IndexByte("!#$&.+-^_", c) >= 0
}

// isFmtType matches type-name "/" subtype-name of RFC 4288, Section 4.2.
func isFmtType(s string) bool {
	typ, sub, ok := strings.Cut(s, "/")
	return ok && isRegName(typ) && isRegName(sub)
}

func isRegName(s string) bool {
	if s == "" || len(s) > maxRegNameLen {
		return false
	}
	for i := range len(s) {
		if !isRegNameChar(s[i]) {
			return false
		}
	}
	return true
}
