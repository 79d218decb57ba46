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

// applyDotSegmentRules handles rules 2A-2D of RFC 3986, Section 5.2.4. It
// returns the remaining input, the output segments and whether a rule
// matched.
func applyDotSegmentRules(in string, output []string) (string, []string, bool) {
	// Rule 2A: "../" or "./"
	if strings.HasPrefix(in, "../") {
		return in[3:], output, true
	}
	if strings.HasPrefix(in, "./") {
		return in[2:], output, true
	}
	// Rule 2B: "/./" or "/."
	if strings.HasPrefix(in, "/./") {
		return "/" + in[3:], output, true
	}
	if in == "/." {
		return "/", output, true
	}
	// Rule 2C: "/../" or "/.."
	if strings.HasPrefix(in, "/../") || in == "/.." {
		newIn := "/"
		if len(in) > len("/..") {
			newIn += in[4:]
		}
		if len(output) > 0 {
			lastSegment := output[len(output)-1]
			output = output[:len(output)-1]

			if len(output) == 0 && !strings.HasPrefix(lastSegment, "/") {
				newIn = strings.TrimPrefix(newIn, "/")
			}
		}
		return newIn, output, true
	}
	// Rule 2D: "." or ".."
	if in == "." || in == ".." {
		return "", output, true
	}
	return in, output, false
}

// extractFirstSegment handles rule 2E of RFC 3986, Section 5.2.4: it splits
// the first path segment, including its leading slash, from the rest.
func extractFirstSegment(in string) (string, string) {
	slashIndex := strings.Index(in, "/")
	if slashIndex == 0 {
		nextSlash := strings.Index(in[1:], "/")
		if nextSlash == -1 {
			return in, ""
		}
		return in[:nextSlash+1], in[nextSlash+1:]
	}
	if slashIndex == -1 {
		return in, ""
	}
	return in[:slashIndex], in[slashIndex:]
}

// removeDotSegments implements the "Remove Dot Segments" algorithm from
// RFC 3986, Section 5.2.4.
func removeDotSegments(input string) string {
	var output []string
	in := input

	for len(in) > 0 {
		var ruleApplied bool
		in, output, ruleApplied = applyDotSegmentRules(in, output)
		if ruleApplied {
			continue
		}
		var segment string
		segment, in = extractFirstSegment(in)
		output = append(output, segment)
	}

	return strings.Join(output, "")
}
