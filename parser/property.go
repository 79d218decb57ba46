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
	"bytes"
	"errors"
	"strings"

	"github.com/samber/mo"

	"github.com/jplu/almanac/ical"
	"github.com/jplu/almanac/uri"
)

// Property is a parsed content line. Name keeps the spelling of the input;
// Value holds one of the ical value kinds, or ical.Raw for IANA and X-
// properties.
type Property struct {
	Offset int
	Kind   ical.PropertyKind
	Name   string
	Params []*Param
	Value  ical.Value
}

// Param returns the first parameter of the given kind.
func (p *Property) Param(kind ical.ParamKind) (*Param, bool) {
	for _, param := range p.Params {
		if param.Kind == kind {
			return param, true
		}
	}
	return nil, false
}

// valueParser turns the raw value of a known property into a typed value.
// Parameters are given because some properties pick their grammar from
// VALUE or ENCODING.
type valueParser func(value []byte, params []*Param) (ical.Value, error)

//nolint:gochecknoglobals // dispatch table, never modified.
var propertyTable = map[ical.PropertyKind]valueParser{
	ical.PropCalScale:        tokenValue,
	ical.PropMethod:          tokenValue,
	ical.PropProdID:          textValue,
	ical.PropVersion:         versionValue,
	ical.PropAttach:          attachValue,
	ical.PropCategories:      textListValue,
	ical.PropClass:           tokenValue,
	ical.PropComment:         textValue,
	ical.PropDescription:     textValue,
	ical.PropGeo:             geoValue,
	ical.PropLocation:        textValue,
	ical.PropPercentComplete: integerValue,
	ical.PropPriority:        integerValue,
	ical.PropResources:       textListValue,
	ical.PropStatus:          closedTokenValue(statusValues...),
	ical.PropSummary:         textValue,
	ical.PropCompleted:       dateTimeValue,
	ical.PropDTEnd:           dateOrDateTimeValue,
	ical.PropDue:             dateOrDateTimeValue,
	ical.PropDTStart:         dateOrDateTimeValue,
	ical.PropDuration:        durationValue,
	ical.PropFreeBusy:        periodListValue,
	ical.PropTransp:          closedTokenValue("OPAQUE", "TRANSPARENT"),
	ical.PropTzID:            textValue,
	ical.PropTzName:          textValue,
	ical.PropTzOffsetFrom:    utcOffsetValue,
	ical.PropTzOffsetTo:      utcOffsetValue,
	ical.PropTzURL:           uriValue,
	ical.PropAttendee:        calAddressValue,
	ical.PropContact:         textValue,
	ical.PropOrganizer:       calAddressValue,
	ical.PropRecurrenceID:    dateOrDateTimeValue,
	ical.PropRelatedTo:       textValue,
	ical.PropURL:             uriValue,
	ical.PropUID:             textValue,
	ical.PropExDate:          dateListValue(false),
	ical.PropRDate:           dateListValue(true),
	ical.PropRRule:           recurValue,
	ical.PropAction:          tokenValue,
	ical.PropRepeat:          integerValue,
	ical.PropTrigger:         triggerValue,
	ical.PropCreated:         dateTimeValue,
	ical.PropDTStamp:         dateTimeValue,
	ical.PropLastModified:    dateTimeValue,
	ical.PropSequence:        integerValue,
	ical.PropRequestStatus:   requestStatusValue,
}

// statusValues lists the STATUS keywords of RFC 5545, Section 3.8.1.11 for
// all components.
//
//nolint:gochecknoglobals // lookup table, never modified.
var statusValues = []string{
	"TENTATIVE", "CONFIRMED", "CANCELLED",
	"NEEDS-ACTION", "COMPLETED", "IN-PROCESS",
	"DRAFT", "FINAL",
}

// parseProperty parses one lexed content line. Known properties that are
// not part of the enclosing grammar (allowed) fall back to IANA properties
// and keep their raw value, like any unknown name.
func parseProperty(line *contentLine, allowed map[ical.PropertyKind]bool) (*Property, error) {
	prop := &Property{Name: line.name}
	for _, rp := range line.params {
		param, err := parseParam(rp)
		if err != nil {
			return nil, err
		}
		prop.Params = append(prop.Params, param)
	}

	prop.Kind = ical.PropertyKindFromName(line.name)
	if prop.Kind != ical.PropX && prop.Kind != ical.PropIANA && !allowed[prop.Kind] {
		prop.Kind = ical.PropIANA
	}

	parse, known := propertyTable[prop.Kind]
	if !known {
		prop.Value = ical.Raw(line.value)
		return prop, nil
	}
	value, err := parse(line.value, prop.Params)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Kind != KindInvalidValueParam {
			pe.Message = prop.Kind.Name() + ": " + pe.Message
		}
		return nil, relocate(err, at(line.valueColumn))
	}
	prop.Value = value
	return prop, nil
}

func findParam(params []*Param, kind ical.ParamKind) (*Param, bool) {
	for _, p := range params {
		if p.Kind == kind {
			return p, true
		}
	}
	return nil, false
}

// declaredType returns the type given by a VALUE parameter.
func declaredType(params []*Param) (ical.ValueType, bool) {
	p, ok := findParam(params, ical.ParamValueType)
	if !ok {
		return ical.TypeUnknown, false
	}
	texts := p.Value.Texts()
	return ical.ValueTypeFromName(texts[0]), true
}

func textValue(b []byte, _ []*Param) (ical.Value, error) {
	text, err := ParseText(b)
	if err != nil {
		return nil, err
	}
	return ical.Text(text), nil
}

func textListValue(b []byte, _ []*Param) (ical.Value, error) {
	texts, err := ParseTextList(b)
	if err != nil {
		return nil, err
	}
	return ical.TextList(texts), nil
}

// tokenValue accepts any iana-token or x-name. CALSCALE, METHOD, CLASS and
// ACTION define keywords but leave room for registered and experimental ones.
func tokenValue(b []byte, _ []*Param) (ical.Value, error) {
	if !isIANAToken(string(b)) {
		return nil, newError(0, KindInvalidValue, "expected a token, got %q", b)
	}
	return ical.Text(b), nil
}

// closedTokenValue only accepts the given keywords, ignoring case.
func closedTokenValue(allowed ...string) valueParser {
	return func(b []byte, _ []*Param) (ical.Value, error) {
		for _, a := range allowed {
			if equalFoldASCII(b, a) {
				return ical.Text(b), nil
			}
		}
		return nil, newError(0, KindInvalidValue, "expected one of %s, got %q", strings.Join(allowed, ", "), b)
	}
}

func isVersionChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '.' || c == '-'
}

func versionValue(b []byte, _ []*Param) (ical.Value, error) {
	spans := splitPlain(b, ';')
	if len(spans) > 2 {
		return nil, newError(0, KindInvalidValue, "expected a version or a min;max version range, got %q", b)
	}
	for _, sp := range spans {
		if sp.start == sp.end || scanChars(b[sp.start:sp.end], isVersionChar) != sp.end-sp.start {
			return nil, newError(sp.start, KindInvalidValue, "invalid version %q", b[sp.start:sp.end])
		}
	}
	if len(spans) == 2 {
		return ical.Version{Min: string(b[:spans[0].end]), Max: string(b[spans[1].start:])}, nil
	}
	return ical.Version{Max: string(b)}, nil
}

func integerValue(b []byte, _ []*Param) (ical.Value, error) {
	n, err := ParseInteger(b)
	if err != nil {
		return nil, err
	}
	return ical.Integer(n), nil
}

func geoValue(b []byte, _ []*Param) (ical.Value, error) {
	semi := bytes.IndexByte(b, ';')
	if semi < 0 {
		return nil, newError(0, KindInvalidValue, "GEO needs latitude;longitude, got %q", b)
	}
	lat, err := ParseFloat(b[:semi])
	if err != nil {
		return nil, err
	}
	lon, err := ParseFloat(b[semi+1:])
	if err != nil {
		return nil, relocate(err, at(semi+1))
	}
	return ical.Geo{Latitude: lat, Longitude: lon}, nil
}

func dateTimeValue(b []byte, _ []*Param) (ical.Value, error) {
	return ParseDateTime(b)
}

func dateOrDateTimeValue(b []byte, _ []*Param) (ical.Value, error) {
	return parseDateOrDateTime(b)
}

func durationValue(b []byte, _ []*Param) (ical.Value, error) {
	return ParseDuration(b)
}

func utcOffsetValue(b []byte, _ []*Param) (ical.Value, error) {
	return ParseUtcOffset(b)
}

func recurValue(b []byte, _ []*Param) (ical.Value, error) {
	return ParseRecur(b)
}

func parseURIValue(b []byte) (*uri.URI, error) {
	u, err := uri.Parse(string(b))
	if err != nil {
		return nil, wrapError(0, KindInvalidURI, err, "%q", b)
	}
	return u, nil
}

func uriValue(b []byte, _ []*Param) (ical.Value, error) {
	u, err := parseURIValue(b)
	if err != nil {
		return nil, err
	}
	return ical.URI{URI: u}, nil
}

func calAddressValue(b []byte, _ []*Param) (ical.Value, error) {
	u, err := parseURIValue(b)
	if err != nil {
		return nil, err
	}
	return ical.CalAddress{URI: u}, nil
}

// attachValue reads inline base64 data when ENCODING=BASE64 or VALUE=BINARY
// is given, and a URI otherwise.
func attachValue(b []byte, params []*Param) (ical.Value, error) {
	binary := false
	if p, ok := findParam(params, ical.ParamEncoding); ok {
		if enc, isToken := p.Value.(ical.TokenParam); isToken {
			binary = enc.Is("BASE64")
		}
	}
	if t, ok := declaredType(params); ok && t == ical.TypeBinary {
		binary = true
	}
	if binary {
		return ParseBinary(b)
	}
	return uriValue(b, params)
}

func periodListValue(b []byte, _ []*Param) (ical.Value, error) {
	var periods ical.PeriodList
	for _, sp := range splitPlain(b, ',') {
		p, err := ParsePeriod(b[sp.start:sp.end])
		if err != nil {
			return nil, relocate(err, at(sp.start))
		}
		periods = append(periods, p)
	}
	return periods, nil
}

// dateListValue parses EXDATE and RDATE lists. The type of each element is
// taken from its shape; all elements must share it.
func dateListValue(allowPeriod bool) valueParser {
	return func(b []byte, _ []*Param) (ical.Value, error) {
		var (
			dates     ical.DateList
			dateTimes ical.DateTimeList
			periods   ical.PeriodList
			kinds     int
		)
		for _, sp := range splitPlain(b, ',') {
			item := b[sp.start:sp.end]
			var err error
			switch {
			case allowPeriod && bytes.IndexByte(item, '/') >= 0:
				var p ical.Period
				p, err = ParsePeriod(item)
				if periods == nil {
					kinds++
				}
				periods = append(periods, p)
			case len(item) == dateLen:
				var d ical.Date
				d, err = ParseDate(item)
				if dates == nil {
					kinds++
				}
				dates = append(dates, d)
			default:
				var dt ical.DateTime
				dt, err = ParseDateTime(item)
				if dateTimes == nil {
					kinds++
				}
				dateTimes = append(dateTimes, dt)
			}
			if err != nil {
				return nil, relocate(err, at(sp.start))
			}
			if kinds > 1 {
				return nil, newError(sp.start, KindInvalidValue, "mixed value types in list")
			}
		}
		switch {
		case periods != nil:
			return periods, nil
		case dates != nil:
			return dates, nil
		default:
			return dateTimes, nil
		}
	}
}

// triggerValue reads a duration unless VALUE=DATE-TIME is given.
func triggerValue(b []byte, params []*Param) (ical.Value, error) {
	t, ok := declaredType(params)
	switch {
	case !ok || t == ical.TypeDuration:
		return ParseDuration(b)
	case t == ical.TypeDateTime:
		return ParseDateTime(b)
	default:
		p, _ := findParam(params, ical.ParamValueType)
		return nil, newError(0, KindInvalidValueParam, "TRIGGER value must be DURATION or DATE-TIME, got %s", p.Value.Texts()[0])
	}
}

// requestStatusValue parses "statcode;description[;extdata]".
func requestStatusValue(b []byte, _ []*Param) (ical.Value, error) {
	spans := splitUnescaped(b, ';')
	if len(spans) < 2 {
		return nil, newError(0, KindInvalidValue, "REQUEST-STATUS needs a code and a description, got %q", b)
	}
	code, err := parseStatusCode(b[spans[0].start:spans[0].end])
	if err != nil {
		return nil, err
	}
	status := ical.RequestStatus{Code: code}
	status.Description, err = ParseText(b[spans[1].start:spans[1].end])
	if err != nil {
		return nil, relocate(err, at(spans[1].start))
	}
	if len(spans) > 2 {
		extra, err := ParseText(b[spans[2].start:])
		if err != nil {
			return nil, relocate(err, at(spans[2].start))
		}
		status.ExtraData = mo.Some(extra)
	}
	return status, nil
}

// parseStatusCode parses "1*DIGIT 1*2("." 1*DIGIT)".
func parseStatusCode(b []byte) ([]int, error) {
	spans := splitPlain(b, '.')
	if len(spans) < 2 || len(spans) > 3 {
		return nil, newError(0, KindInvalidValue, "invalid status code %q", b)
	}
	code := make([]int, 0, len(spans))
	for _, sp := range spans {
		n, size, ok := readNumber(b[sp.start:sp.end])
		if !ok || size != sp.end-sp.start {
			return nil, newError(sp.start, KindInvalidValue, "invalid status code %q", b)
		}
		code = append(code, n)
	}
	return code, nil
}
