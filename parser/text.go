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
	"unicode/utf8"
)

// ParseText decodes a TEXT value (RFC 5545, Section 3.3.11): the escapes
// "\\", "\;", "\," and "\n" (or "\N") are resolved. Unescaped ";" and ","
// are accepted. Control characters other than HTAB are rejected.
func ParseText(b []byte) (string, error) {
	var out strings.Builder
	out.Grow(len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '\\':
			if i+1 == len(b) {
				return "", newError(i, KindInvalidValue, "unterminated escape sequence")
			}
			switch b[i+1] {
			case '\\', ';', ',':
				out.WriteByte(b[i+1])
			case 'n', 'N':
				out.WriteByte('\n')
			default:
				return "", newError(i, KindInvalidValue, "invalid escape sequence %q", b[i:i+2])
			}
			i += 2
		case c < utf8.RuneSelf:
			if !isValueChar(c) {
				return "", newError(i, KindInvalidValue, "control character %#02x in text", c)
			}
			out.WriteByte(c)
			i++
		default:
			n := utf8Sequence(b[i:])
			if n == 0 {
				return "", newError(i, KindInvalidValue, "invalid UTF-8 sequence in text")
			}
			out.Write(b[i : i+n])
			i += n
		}
	}
	return out.String(), nil
}

// ParseTextList decodes a comma separated list of TEXT values, as used by
// CATEGORIES and RESOURCES.
func ParseTextList(b []byte) ([]string, error) {
	var texts []string
	for _, span := range splitUnescaped(b, ',') {
		text, err := ParseText(b[span.start:span.end])
		if err != nil {
			return nil, relocate(err, at(span.start))
		}
		texts = append(texts, text)
	}
	return texts, nil
}

type span struct {
	start int
	end   int
}

// splitUnescaped splits b on every sep byte that is not preceded by a
// backslash escape. It always returns at least one span.
func splitUnescaped(b []byte, sep byte) []span {
	var spans []span
	start := 0
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case sep:
			spans = append(spans, span{start, i})
			start = i + 1
		}
	}
	return append(spans, span{start, len(b)})
}

// splitPlain splits b on every sep byte.
func splitPlain(b []byte, sep byte) []span {
	var spans []span
	start := 0
	for i, c := range b {
		if c == sep {
			spans = append(spans, span{start, i})
			start = i + 1
		}
	}
	return append(spans, span{start, len(b)})
}
