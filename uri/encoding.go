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
	"encoding/hex"
	"strings"
	"unicode"
)

// readCodepointOrEchar processes a single rune. A '%' starts a pct-encoded
// triplet, anything else must satisfy valid.
func (p *uriParser) readCodepointOrEchar(r rune, valid func(rune) bool) error {
	if r == '%' {
		return p.readEchar()
	}
	if valid(r) {
		p.output.writeRune(r)
		return nil
	}
	if r > unicode.MaxASCII {
		return &kindError{message: "Non US-ASCII character in URI", char: r}
	}
	return &kindError{message: "Invalid URI character", char: r}
}

// readEchar handles a percent-encoded octet (e.g., "%20"). The '%' has
// already been consumed.
func (p *uriParser) readEchar() error {
	c1, ok1 := p.input.next()
	c2, ok2 := p.input.next()
	if !ok1 || !ok2 || !isUpperHexDigit(c1) || !isUpperHexDigit(c2) {
		details := "%"
		if ok1 {
			details += string(c1)
		}
		if ok2 {
			details += string(c2)
		}
		return &kindError{message: "Invalid URI percent encoding", details: details}
	}
	p.output.writeRune('%')
	p.output.writeRune(c1)
	p.output.writeRune(c2)
	return nil
}

// normalizePercentEncoding decodes every percent-encoded octet that
// corresponds to an unreserved character and uppercases the hexadecimal
// digits of the others (RFC 3986, Sections 6.2.2.1 and 6.2.2.2). The host
// reaches it already lowercased.
func normalizePercentEncoding(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] == '%' && i+2 < len(s) &&
			isASCIIHexDigit(rune(s[i+1])) && isASCIIHexDigit(rune(s[i+2])) {
			decoded, err := hex.DecodeString(s[i+1 : i+3])
			if err == nil && isUnreserved(rune(decoded[0])) {
				b.WriteByte(decoded[0])
			} else {
				b.WriteByte('%')
				b.WriteString(strings.ToUpper(s[i+1 : i+3]))
			}
			i += 3
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
