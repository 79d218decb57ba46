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

//nolint:testpackage // This is a white-box test file for an internal package. It needs to be in the same package to test unexported functions.
package uri

import "testing"

// Examples are taken from RFC 3986, Section 5.2.4 and Section 5.4.
func TestRemoveDotSegments(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/a/b/c/./../../g", "/a/g"},
		{"mid/content=5/../6", "mid/6"},
		{"/a/b/../../../g", "/g"},
		{"/./g", "/g"},
		{"/g/.", "/g/"},
		{"/g/..", "/"},
		{"../g", "g"},
		{".", ""},
		{"..", ""},
		{"", ""},
		{"/a//b", "/a//b"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := removeDotSegments(tt.input); got != tt.want {
				t.Errorf("removeDotSegments(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractFirstSegment(t *testing.T) {
	tests := []struct {
		in, segment, rest string
	}{
		{"/a/b", "/a", "/b"},
		{"/a", "/a", ""},
		{"a/b", "a", "/b"},
		{"a", "a", ""},
	}
	for _, tt := range tests {
		segment, rest := extractFirstSegment(tt.in)
		if segment != tt.segment || rest != tt.rest {
			t.Errorf("extractFirstSegment(%q) = (%q, %q), want (%q, %q)", tt.in, segment, rest, tt.segment, tt.rest)
		}
	}
}
