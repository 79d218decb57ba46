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

package uri

import (
	"net"
	"strings"

	"golang.org/x/net/idna"
)

const (
	// ipvFutureParts is the number of parts expected in an IPvFuture literal
	// (e.g., "v1.abc"), separated by a dot.
	ipvFutureParts = 2
	// ipv4Octets is the number of dec-octets in an IPv4address.
	ipv4Octets = 4
	// maxDecOctet is the largest value of a dec-octet.
	maxDecOctet = 255
)

// HostKind tells which alternative of the host production matched.
type HostKind int

const (
	// HostNone means the URI has no authority.
	HostNone HostKind = iota
	// HostRegName is a registered name, possibly empty.
	HostRegName
	// HostIPv4 is a dotted-decimal IPv4 literal.
	HostIPv4
	// HostIPv6 is a bracketed IPv6 literal.
	HostIPv6
	// HostIPvFuture is a bracketed "v" IPvFuture literal.
	HostIPvFuture
)

// String returns a readable name of the host kind.
func (k HostKind) String() string {
	switch k {
	case HostRegName:
		return "reg-name"
	case HostIPv4:
		return "IPv4"
	case HostIPv6:
		return "IPv6"
	case HostIPvFuture:
		return "IPvFuture"
	default:
		return "none"
	}
}

// parseAuthority consumes and validates the authority component, which ends
// at the first '/', '?' or '#'.
func (p *uriParser) parseAuthority() error {
	authorityStr := p.input.asStr()
	end := len(authorityStr)
	for i, r := range authorityStr {
		if r == '/' || r == '?' || r == '#' {
			end = i
			break
		}
	}
	authorityPart := authorityStr[:end]

	userinfo, hasUserinfo, host, port, hasPort := splitAuthority(authorityPart)

	if hasUserinfo {
		if err := p.parseUserinfo(userinfo); err != nil {
			return err
		}
	}
	if err := p.parseHost(host); err != nil {
		return err
	}
	if hasPort {
		if err := p.parsePort(port); err != nil {
			return err
		}
	}

	p.input.skip(end)
	p.outputPositions.AuthorityEnd = p.output.len()
	return nil
}

// parseUserinfo handles the userinfo part of the authority.
func (p *uriParser) parseUserinfo(userinfo string) error {
	// A temporary parser keeps the parse transactional.
	var tempBuffer strings.Builder
	tempParser := &uriParser{
		input:  newParserInput(userinfo),
		output: &stringOutputBuffer{builder: &tempBuffer},
	}
	for {
		r, ok := tempParser.input.next()
		if !ok {
			break
		}
		if err := tempParser.readCodepointOrEchar(r, isUserinfoChar); err != nil {
			return err
		}
	}

	p.output.writeString(tempBuffer.String())
	p.output.writeRune('@')
	return nil
}

// parseHost handles the host part of the authority and records its kind.
func (p *uriParser) parseHost(host string) error {
	if strings.HasPrefix(host, "[") {
		if !strings.HasSuffix(host, "]") {
			return &kindError{message: "Invalid host IP: unterminated IP literal", details: host}
		}
		kind, err := validateIPLiteral(host[1 : len(host)-1])
		if err != nil {
			return err
		}
		p.hostKind = kind
		p.output.writeString(host)
		return nil
	}

	if isIPv4Address(host) {
		p.hostKind = HostIPv4
		p.output.writeString(host)
		return nil
	}

	var tempBuffer strings.Builder
	tempParser := &uriParser{
		input:  newParserInput(host),
		output: &stringOutputBuffer{builder: &tempBuffer},
	}
	for {
		r, ok := tempParser.input.next()
		if !ok {
			break
		}
		if r == '%' {
			if err := tempParser.readEchar(); err != nil {
				return err
			}
			continue
		}
		if !isUnreservedOrSubDelims(r) {
			return &kindError{message: "Invalid character in host", char: r}
		}
		tempParser.output.writeRune(r)
	}
	p.hostKind = HostRegName
	p.output.writeString(tempBuffer.String())
	return nil
}

// parsePort handles the port part of the authority. RFC 3986 allows an
// empty port.
func (p *uriParser) parsePort(port string) error {
	for _, r := range port {
		if !isASCIIDigit(r) {
			return &kindError{message: "Invalid port character", char: r}
		}
	}
	p.output.writeRune(':')
	p.output.writeString(port)
	return nil
}

// validateIPLiteral checks the text inside brackets: an IPv6address or an
// IPvFuture.
func validateIPLiteral(ipLiteral string) (HostKind, error) {
	if strings.HasPrefix(ipLiteral, "v") || strings.HasPrefix(ipLiteral, "V") {
		return HostIPvFuture, validateIPVFuture(ipLiteral)
	}
	if !isIPv6Shape(ipLiteral) || net.ParseIP(ipLiteral) == nil {
		return HostNone, &kindError{message: "Invalid host IP", details: ipLiteral}
	}
	return HostIPv6, nil
}

// isIPv6Shape restricts the characters of an IPv6 literal to hex digits,
// colons and the dots of an embedded IPv4 address. net.ParseIP accepts a
// few forms (zones, bare IPv4) that RFC 3986 does not.
func isIPv6Shape(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	for _, r := range s {
		if !isASCIIHexDigit(r) && r != ':' && r != '.' {
			return false
		}
	}
	if i := strings.LastIndex(s, ":"); strings.Contains(s[i+1:], ".") {
		return isIPv4Address(s[i+1:])
	}
	return !strings.Contains(s, ".")
}

// validateIPVFuture validates an IPvFuture literal (e.g., "v1.something").
func validateIPVFuture(ip string) error {
	parts := strings.SplitN(ip[1:], ".", ipvFutureParts)
	if len(parts) != ipvFutureParts {
		return &kindError{message: "Invalid IPvFuture format: no dot separator", details: ip}
	}
	version, address := parts[0], parts[1]
	if version == "" {
		return &kindError{message: "Invalid IPvFuture: missing version", details: ip}
	}
	for _, r := range version {
		if !isASCIIHexDigit(r) {
			return &kindError{message: "Invalid IPvFuture version char", char: r}
		}
	}
	if address == "" {
		return &kindError{message: "Invalid IPvFuture: empty address part", details: ip}
	}
	for _, r := range address {
		if !isUnreservedOrSubDelims(r) && r != ':' {
			return &kindError{message: "Invalid IPvFuture address char", char: r}
		}
	}
	return nil
}

// isIPv4Address matches dec-octet "." dec-octet "." dec-octet "." dec-octet.
// A dec-octet has no leading zero, so "192.0.2.016" is a reg-name.
func isIPv4Address(s string) bool {
	octets := strings.Split(s, ".")
	if len(octets) != ipv4Octets {
		return false
	}
	for _, octet := range octets {
		if !isDecOctet(octet) {
			return false
		}
	}
	return true
}

// isDecOctet matches "0" to "255" without leading zeros.
func isDecOctet(s string) bool {
	if s == "" || len(s) > 3 || (len(s) > 1 && s[0] == '0') {
		return false
	}
	n := 0
	for _, r := range s {
		if !isASCIIDigit(r) {
			return false
		}
		n = n*10 + int(r-'0')
	}
	return n <= maxDecOctet
}

// splitAuthority splits an authority string into its userinfo, host and
// port components. The booleans tell whether the "@" and ":" delimiters were
// present, since both userinfo and port may be empty.
func splitAuthority(authority string) (string, bool, string, string, bool) {
	var userinfo, host, port string
	var hasUserinfo, hasPort bool

	hostport := authority
	if endUserinfo := strings.LastIndex(authority, "@"); endUserinfo != -1 {
		userinfo = authority[:endUserinfo]
		hostport = authority[endUserinfo+1:]
		hasUserinfo = true
	}

	if strings.HasPrefix(hostport, "[") {
		endBracket := strings.LastIndex(hostport, "]")
		if endBracket == -1 {
			return userinfo, hasUserinfo, hostport, "", false
		}
		host = hostport[:endBracket+1]
		rest := hostport[endBracket+1:]
		if strings.HasPrefix(rest, ":") {
			port, hasPort = rest[1:], true
		} else if rest != "" {
			// Garbage after the literal is reported as a bad port.
			port, hasPort = rest, true
		}
		return userinfo, hasUserinfo, host, port, hasPort
	}

	if endHost := strings.LastIndex(hostport, ":"); endHost != -1 {
		host = hostport[:endHost]
		port, hasPort = hostport[endHost+1:], true
	} else {
		host = hostport
	}
	return userinfo, hasUserinfo, host, port, hasPort
}

// normalizeHostAndPort applies case, IDNA, and scheme-based port
// normalization.
func normalizeHostAndPort(host, port, scheme string) (string, string) {
	normalizedHost := strings.ToLower(host)

	if !strings.HasPrefix(normalizedHost, "[") && strings.Contains(normalizedHost, "xn--") {
		// Punycode labels are validated and lowercased through IDNA; an
		// invalid label is left untouched rather than rejected.
		if asciiHost, err := idna.Lookup.ToASCII(normalizedHost); err == nil {
			normalizedHost = asciiHost
		}
	}

	normalizedPort := port
	if normalizedPort != "" {
		isDefaultPort := (scheme == "http" && normalizedPort == "80") ||
			(scheme == "https" && normalizedPort == "443") ||
			(scheme == "ftp" && normalizedPort == "21") ||
			(scheme == "ldap" && normalizedPort == "389") ||
			(scheme == "ws" && normalizedPort == "80") ||
			(scheme == "wss" && normalizedPort == "443")
		if isDefaultPort {
			normalizedPort = ""
		}
	}

	return normalizedHost, normalizedPort
}
