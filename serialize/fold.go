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

package serialize

import "unicode/utf8"

// fold splits a content line into physical lines of at most width octets.
// Every line after the first starts with a single space, which counts toward
// the width. A cut never falls inside a UTF-8 sequence. A width of zero
// returns the line unchanged.
func fold(line string, width int) []string {
	if width <= 0 || len(line) <= width {
		return []string{line}
	}
	parts := make([]string, 0, len(line)/(width-1)+1)
	limit := width
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			// A single sequence longer than the budget, keep it whole.
			_, size := utf8.DecodeRuneInString(line)
			cut = size
		}
		if len(parts) > 0 {
			parts = append(parts, "\r\n "+line[:cut])
		} else {
			parts = append(parts, line[:cut])
		}
		line = line[cut:]
		limit = width - 1
	}
	if len(parts) > 0 {
		return append(parts, "\r\n "+line)
	}
	return append(parts, line)
}
