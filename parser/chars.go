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

import "unicode/utf8"

// Character classes of RFC 5545, Section 3.1.

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isWSP matches SPACE and HTAB.
func isWSP(b byte) bool {
	return b == ' ' || b == '\t'
}

// isControl matches CONTROL: all controls except HTAB, plus DEL.
func isControl(b byte) bool {
	return (b <= 0x08) || (b >= 0x0A && b <= 0x1F) || b == 0x7F
}

// isNameChar matches the characters of iana-token and x-name.
func isNameChar(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '-'
}

// isSafeChar matches the US-ASCII part of SAFE-CHAR: any character except
// CONTROL, DQUOTE, ";", ":" and ",".
func isSafeChar(b byte) bool {
	return b < 0x80 && !isControl(b) && b != '"' && b != ';' && b != ':' && b != ','
}

// isQSafeChar matches the US-ASCII part of QSAFE-CHAR: any character except
// CONTROL and DQUOTE.
func isQSafeChar(b byte) bool {
	return b < 0x80 && !isControl(b) && b != '"'
}

// isValueChar matches the US-ASCII part of VALUE-CHAR: any character except
// CONTROL.
func isValueChar(b byte) bool {
	return b < 0x80 && !isControl(b)
}

// utf8Sequence returns the length of the well-formed non US-ASCII UTF-8
// sequence at the start of b, or 0 when there is none.
func utf8Sequence(b []byte) int {
	if len(b) == 0 || b[0] < utf8.RuneSelf {
		return 0
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return 0
	}
	return size
}

// scanChars returns the length of the longest prefix of b made of bytes
// matching ascii or of well-formed non US-ASCII sequences.
func scanChars(b []byte, ascii func(byte) bool) int {
	i := 0
	for i < len(b) {
		if b[i] < utf8.RuneSelf {
			if !ascii(b[i]) {
				return i
			}
			i++
			continue
		}
		n := utf8Sequence(b[i:])
		if n == 0 {
			return i
		}
		i += n
	}
	return i
}

// equalFoldASCII reports whether b equals the upper case keyword s, ignoring
// ASCII case.
func equalFoldASCII(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := range len(b) {
		c := b[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c != s[i] {
			return false
		}
	}
	return true
}

// isIANAToken matches iana-token: one or more ALPHA, DIGIT or "-".
func isIANAToken(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

// isXName matches x-name: "X-" [vendorid "-"] 1*(ALPHA / DIGIT / "-").
// The vendor id part is made of name characters too, so any "X-" prefixed
// token with at least one more character matches.
func isXName(s string) bool {
	return len(s) > 2 && (s[0] == 'X' || s[0] == 'x') && s[1] == '-' && isIANAToken(s[2:])
}
