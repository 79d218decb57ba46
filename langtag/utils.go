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

package langtag

import (
	"strings"
	"unicode"
)

func isAlpha(b byte) bool    { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isDigit(b byte) bool    { return b >= '0' && b <= '9' }
func isAlphanum(b byte) bool { return isAlpha(b) || isDigit(b) }

// isLangtagChar reports whether r may appear in a tag at all.
func isLangtagChar(r rune) bool {
	return r < unicode.MaxASCII && (isAlphanum(byte(r)) || r == '-')
}

// allBytes reports whether s is non-empty and every byte satisfies pred.
func allBytes(s string, pred func(byte) bool) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if !pred(s[i]) {
			return false
		}
	}
	return true
}

func isAlphabetic(s string) bool   { return allBytes(s, isAlpha) }
func isNumeric(s string) bool      { return allBytes(s, isDigit) }
func isAlphanumeric(s string) bool { return allBytes(s, isAlphanum) }

// writeTitleCase writes s with its first letter uppercased and the rest
// lowercased (e.g., "Latn").
func writeTitleCase(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	b.WriteString(strings.ToUpper(s[:1]))
	b.WriteString(strings.ToLower(s[1:]))
}
