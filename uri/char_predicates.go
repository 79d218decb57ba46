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

import "strings"

// isASCIILetter checks if a rune is an ASCII letter.
func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// isASCIIDigit checks if a rune is an ASCII digit.
func isASCIIDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isASCIIHexDigit checks if a rune is an ASCII hexadecimal digit.
func isASCIIHexDigit(r rune) bool {
	return isASCIIDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// isUpperHexDigit checks for the hexadecimal digits allowed in a
// pct-encoded triplet, which are uppercase only.
func isUpperHexDigit(r rune) bool {
	return isASCIIDigit(r) || ('A' <= r && r <= 'F')
}

// isSchemeChar checks the characters allowed after the first letter of a
// scheme (RFC 3986, Section 3.1).
func isSchemeChar(r rune) bool {
	return isASCIILetter(r) || isASCIIDigit(r) || r == '+' || r == '-' || r == '.'
}

// isUnreserved checks if a character is in the unreserved set of RFC 3986.
func isUnreserved(c rune) bool {
	return isASCIILetter(c) || isASCIIDigit(c) || c == '-' || c == '.' || c == '_' || c == '~'
}

// isSubDelim checks if a character is in the sub-delims set of RFC 3986.
func isSubDelim(c rune) bool {
	return strings.ContainsRune("!$&'()*+,;=", c)
}

// isUnreservedOrSubDelims checks if a character is in the unreserved or
// sub-delims sets.
func isUnreservedOrSubDelims(c rune) bool {
	return isUnreserved(c) || isSubDelim(c)
}

// isPChar checks the pchar production, excluding pct-encoded which the
// parser handles on its own.
func isPChar(c rune) bool {
	return isUnreservedOrSubDelims(c) || c == ':' || c == '@'
}

// isPathChar is a predicate for characters allowed in a path.
func isPathChar(c rune) bool {
	return isPChar(c) || c == '/'
}

// isQueryOrFragmentChar is a predicate for characters allowed in a query or a
// fragment.
func isQueryOrFragmentChar(c rune) bool {
	return isPChar(c) || c == '/' || c == '?'
}

// isUserinfoChar is a predicate for characters allowed in the userinfo.
func isUserinfoChar(c rune) bool {
	return isUnreservedOrSubDelims(c) || c == ':'
}
