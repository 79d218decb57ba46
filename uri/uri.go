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

// Package uri parses and validates absolute Uniform Resource Identifiers as
// defined by RFC 3986.
//
// iCalendar carries URIs in URI and CAL-ADDRESS values (URL, TZURL, ATTACH,
// ORGANIZER, ATTENDEE) and in quoted parameters (ALTREP, DIR, SENT-BY,
// MEMBER, DELEGATED-FROM, DELEGATED-TO). All of them are absolute, so the
// package only accepts the "URI" production:
//
//	URI = scheme ":" hier-part [ "?" query ] [ "#" fragment ]
//
// The authority form ("//" authority) distinguishes IPv6 literals, IPvFuture
// literals, dotted-decimal IPv4 addresses and registered names. Paths without
// authority cover "mailto:", "tel:" and "urn:" style URIs.
package uri

import (
	"strconv"
	"strings"
)

// URI is a parsed, validated absolute URI. It is immutable; the original text
// is kept exactly as given so that it can be written back unchanged.
type URI struct {
	uri       string
	positions Positions
	hostKind  HostKind
}

// Parse parses and validates s as an absolute URI.
func Parse(s string) (*URI, error) {
	pos, hostKind, err := run(s, &voidOutputBuffer{})
	if err != nil {
		return nil, newParseError(err)
	}
	return &URI{uri: s, positions: pos, hostKind: hostKind}, nil
}

// MustParse is like Parse but panics if s is not a valid URI. It is meant for
// literals in code and tests.
func MustParse(s string) *URI {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// String returns the URI exactly as it was parsed.
func (u *URI) String() string {
	return u.uri
}

// Scheme returns the scheme component (e.g., "mailto"), without the colon.
func (u *URI) Scheme() string {
	return u.uri[:u.positions.SchemeEnd-1]
}

// HasScheme reports whether the scheme equals s, ignoring case as required
// by RFC 3986, Section 3.1.
func (u *URI) HasScheme(s string) bool {
	return strings.EqualFold(u.Scheme(), s)
}

// Authority returns the authority component without the leading "//" and a
// boolean indicating whether it was present.
func (u *URI) Authority() (string, bool) {
	if u.positions.AuthorityEnd <= u.positions.SchemeEnd {
		return "", false
	}
	return u.uri[u.positions.SchemeEnd+2 : u.positions.AuthorityEnd], true
}

// UserInfo returns the userinfo subcomponent and whether it was present.
func (u *URI) UserInfo() (string, bool) {
	authority, ok := u.Authority()
	if !ok {
		return "", false
	}
	userinfo, hasUserinfo, _, _, _ := splitAuthority(authority)
	return userinfo, hasUserinfo
}

// Host returns the host subcomponent. IP literals keep their brackets. It is
// empty when there is no authority.
func (u *URI) Host() string {
	authority, ok := u.Authority()
	if !ok {
		return ""
	}
	_, _, host, _, _ := splitAuthority(authority)
	return host
}

// HostKind returns which alternative of the host production matched.
func (u *URI) HostKind() HostKind {
	return u.hostKind
}

// Port returns the port as an integer. The boolean is false when there is no
// port, when the port is empty, or when it does not fit in an int.
func (u *URI) Port() (int, bool) {
	authority, ok := u.Authority()
	if !ok {
		return 0, false
	}
	_, _, _, port, hasPort := splitAuthority(authority)
	if !hasPort || port == "" {
		return 0, false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Path returns the path component. A path is always present, though it may
// be empty.
func (u *URI) Path() string {
	return u.uri[u.positions.AuthorityEnd:u.positions.PathEnd]
}

// Query returns the query component without the "?" and whether it was
// present.
func (u *URI) Query() (string, bool) {
	if u.positions.PathEnd >= u.positions.QueryEnd {
		return "", false
	}
	return u.uri[u.positions.PathEnd+1 : u.positions.QueryEnd], true
}

// Fragment returns the fragment component without the "#" and whether it was
// present.
func (u *URI) Fragment() (string, bool) {
	if u.positions.QueryEnd >= len(u.uri) {
		return "", false
	}
	return u.uri[u.positions.QueryEnd+1:], true
}

// Equal reports whether both URIs have the same text.
func (u *URI) Equal(o *URI) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.uri == o.uri
}

// Normalize applies syntax-based normalization (RFC 3986, Section 6.2.2):
// lowercase scheme and host, IDNA validation of punycode hosts, removal of
// default ports, percent-encoding normalization and dot-segment removal. It
// returns a new URI, or u itself when nothing changes.
func (u *URI) Normalize() *URI {
	scheme := strings.ToLower(u.Scheme())
	authority, hasAuthority := u.Authority()
	path := u.Path()
	query, hasQuery := u.Query()
	fragment, hasFragment := u.Fragment()

	var builder strings.Builder
	builder.Grow(len(u.uri))
	builder.WriteString(scheme)
	builder.WriteByte(':')

	if hasAuthority {
		userinfo, hasUserinfo, host, port, _ := splitAuthority(authority)
		host, port = normalizeHostAndPort(host, port, scheme)
		builder.WriteString("//")
		if hasUserinfo {
			builder.WriteString(normalizePercentEncoding(userinfo))
			builder.WriteByte('@')
		}
		builder.WriteString(normalizePercentEncoding(host))
		if port != "" {
			builder.WriteByte(':')
			builder.WriteString(port)
		}
		path = removeDotSegments(normalizePercentEncoding(path))
		if path == "" {
			path = "/"
		}
	} else if strings.HasPrefix(path, "/") {
		path = removeDotSegments(normalizePercentEncoding(path))
	} else {
		path = normalizePercentEncoding(path)
	}
	builder.WriteString(path)

	if hasQuery {
		builder.WriteByte('?')
		builder.WriteString(normalizePercentEncoding(query))
	}
	if hasFragment {
		builder.WriteByte('#')
		builder.WriteString(normalizePercentEncoding(fragment))
	}

	normalized := builder.String()
	if normalized == u.uri {
		return u
	}
	n, err := Parse(normalized)
	if err != nil {
		// Normalization only rewrites valid components, keep the original
		// if that ever fails.
		return u
	}
	return n
}

// MarshalText implements encoding.TextMarshaler.
func (u *URI) MarshalText() ([]byte, error) {
	return []byte(u.uri), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, validating the input.
func (u *URI) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*u = *parsed
	return nil
}
