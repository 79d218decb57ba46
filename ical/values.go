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
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/mo"

	"github.com/jplu/almanac/uri"
)

// Date is a DATE value (RFC 5545, Section 3.3.4). Fields are not range
// checked by the parser.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ValueType implements Value.
func (Date) ValueType() ValueType { return TypeDate }

// String returns the value in its "YYYYMMDD" form.
func (d Date) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

// Time is a TIME value (RFC 5545, Section 3.3.12). UTC is set by the "Z"
// suffix.
type Time struct {
	Hour   int
	Minute int
	Second int
	UTC    bool
}

// ValueType implements Value.
func (Time) ValueType() ValueType { return TypeTime }

// String returns the value in its "HHMMSS[Z]" form.
func (t Time) String() string {
	s := fmt.Sprintf("%02d%02d%02d", t.Hour, t.Minute, t.Second)
	if t.UTC {
		s += "Z"
	}
	return s
}

func (t Time) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// DateTime is a DATE-TIME value (RFC 5545, Section 3.3.5).
type DateTime struct {
	Date
	Time
}

// ValueType implements Value.
func (DateTime) ValueType() ValueType { return TypeDateTime }

// String returns the value in its "YYYYMMDDTHHMMSS[Z]" form.
func (dt DateTime) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}

// Compare orders two date-times by their fields, ignoring the UTC flag.
func (dt DateTime) Compare(o DateTime) int {
	if c := dt.Date.Compare(o.Date); c != 0 {
		return c
	}
	return sign(dt.Time.seconds() - o.Time.seconds())
}

// Duration is a DURATION value (RFC 5545, Section 3.3.6). The week form and
// the day/time form are exclusive: when Weeks is present, the other fields are
// absent.
type Duration struct {
	Negative bool
	Weeks    mo.Option[int]
	Days     mo.Option[int]
	Hours    mo.Option[int]
	Minutes  mo.Option[int]
	Seconds  mo.Option[int]
}

// ValueType implements Value.
func (Duration) ValueType() ValueType { return TypeDuration }

// String returns the value in its "[-]P..." form. An empty duration is
// written "PT0S".
func (d Duration) String() string {
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if w, ok := d.Weeks.Get(); ok {
		b.WriteString(strconv.Itoa(w))
		b.WriteByte('W')
		return b.String()
	}
	if days, ok := d.Days.Get(); ok {
		b.WriteString(strconv.Itoa(days))
		b.WriteByte('D')
	}
	if d.Hours.IsPresent() || d.Minutes.IsPresent() || d.Seconds.IsPresent() {
		b.WriteByte('T')
		for _, part := range []struct {
			value  mo.Option[int]
			suffix byte
		}{{d.Hours, 'H'}, {d.Minutes, 'M'}, {d.Seconds, 'S'}} {
			if n, ok := part.value.Get(); ok {
				b.WriteString(strconv.Itoa(n))
				b.WriteByte(part.suffix)
			}
		}
	} else if !d.Days.IsPresent() {
		b.WriteString("T0S")
	}
	return b.String()
}

// TotalSeconds returns the signed length of the duration in seconds, counting
// a day as 86400 seconds.
func (d Duration) TotalSeconds() int {
	total := d.Weeks.OrElse(0)*7*86400 +
		d.Days.OrElse(0)*86400 +
		d.Hours.OrElse(0)*3600 +
		d.Minutes.OrElse(0)*60 +
		d.Seconds.OrElse(0)
	if d.Negative {
		return -total
	}
	return total
}

// Period is a PERIOD value (RFC 5545, Section 3.3.9). Exactly one of End and
// Duration is present.
type Period struct {
	Start    DateTime
	End      mo.Option[DateTime]
	Duration mo.Option[Duration]
}

// ValueType implements Value.
func (Period) ValueType() ValueType { return TypePeriod }

// String returns the value in its "start/end" or "start/duration" form.
func (p Period) String() string {
	if end, ok := p.End.Get(); ok {
		return p.Start.String() + "/" + end.String()
	}
	return p.Start.String() + "/" + p.Duration.OrEmpty().String()
}

// UtcOffset is a UTC-OFFSET value (RFC 5545, Section 3.3.14).
type UtcOffset struct {
	Negative bool
	Hours    int
	Minutes  int
	Seconds  mo.Option[int]
}

// ValueType implements Value.
func (UtcOffset) ValueType() ValueType { return TypeUtcOffset }

// String returns the value in its "+HHMM[SS]" form.
func (o UtcOffset) String() string {
	sign := '+'
	if o.Negative {
		sign = '-'
	}
	s := fmt.Sprintf("%c%02d%02d", sign, o.Hours, o.Minutes)
	if sec, ok := o.Seconds.Get(); ok {
		s += fmt.Sprintf("%02d", sec)
	}
	return s
}

// IsZero reports whether the offset is zero, whatever its sign.
func (o UtcOffset) IsZero() bool {
	return o.Hours == 0 && o.Minutes == 0 && o.Seconds.OrElse(0) == 0
}

// Text is a TEXT value, unescaped.
type Text string

// ValueType implements Value.
func (Text) ValueType() ValueType { return TypeText }

// TextList is a comma separated list of TEXT values (CATEGORIES, RESOURCES).
type TextList []string

// ValueType implements Value.
func (TextList) ValueType() ValueType { return TypeText }

// Integer is an INTEGER value.
type Integer int

// ValueType implements Value.
func (Integer) ValueType() ValueType { return TypeInteger }

// Float is a FLOAT value.
type Float float64

// ValueType implements Value.
func (Float) ValueType() ValueType { return TypeFloat }

// Boolean is a BOOLEAN value.
type Boolean bool

// ValueType implements Value.
func (Boolean) ValueType() ValueType { return TypeBoolean }

// Geo is the value of the GEO property: two FLOAT values separated by ";".
type Geo struct {
	Latitude  float64
	Longitude float64
}

// ValueType implements Value.
func (Geo) ValueType() ValueType { return TypeFloat }

// Binary is a BINARY value, kept in its base64 form.
type Binary string

// ValueType implements Value.
func (Binary) ValueType() ValueType { return TypeBinary }

// Decode returns the decoded bytes.
func (b Binary) Decode() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(string(b))
	if err != nil {
		return nil, fmt.Errorf("decoding binary value: %w", err)
	}
	return data, nil
}

// URI is a URI value.
type URI struct {
	*uri.URI
}

// ValueType implements Value.
func (URI) ValueType() ValueType { return TypeURI }

// CalAddress is a CAL-ADDRESS value, usually a "mailto:" URI.
type CalAddress struct {
	*uri.URI
}

// ValueType implements Value.
func (CalAddress) ValueType() ValueType { return TypeCalAddress }

// Version is the value of the VERSION property. Min is empty unless a range
// "min;max" was given.
type Version struct {
	Min string
	Max string
}

// ValueType implements Value.
func (Version) ValueType() ValueType { return TypeText }

// String returns the value as written in a VERSION line.
func (v Version) String() string {
	if v.Min == "" {
		return v.Max
	}
	return v.Min + ";" + v.Max
}

// RequestStatus is the value of the REQUEST-STATUS property
// (RFC 5545, Section 3.8.8.3).
type RequestStatus struct {
	Code        []int
	Description string
	ExtraData   mo.Option[string]
}

// ValueType implements Value.
func (RequestStatus) ValueType() ValueType { return TypeText }

// CodeString returns the status code in its dotted form, e.g. "2.0".
func (r RequestStatus) CodeString() string {
	parts := make([]string, len(r.Code))
	for i, c := range r.Code {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ".")
}

// DateList is a list of DATE values (EXDATE, RDATE).
type DateList []Date

// ValueType implements Value.
func (DateList) ValueType() ValueType { return TypeDate }

// DateTimeList is a list of DATE-TIME values (EXDATE, RDATE).
type DateTimeList []DateTime

// ValueType implements Value.
func (DateTimeList) ValueType() ValueType { return TypeDateTime }

// PeriodList is a list of PERIOD values (RDATE, FREEBUSY).
type PeriodList []Period

// ValueType implements Value.
func (PeriodList) ValueType() ValueType { return TypePeriod }

// Raw is the unparsed value of an IANA or X- property.
type Raw string

// ValueType implements Value.
func (Raw) ValueType() ValueType { return TypeUnknown }

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
