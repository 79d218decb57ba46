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

// grandfathered maps the lowercased irregular and regular grandfathered tags
// of RFC 5646, Section 2.1 to their registered spelling.
//
//nolint:gochecknoglobals // fixed by the RFC, never modified.
var grandfathered = map[string]string{
	// irregular
	"en-gb-oed":   "en-GB-oed",
	"i-ami":       "i-ami",
	"i-bnn":       "i-bnn",
	"i-default":   "i-default",
	"i-enochian":  "i-enochian",
	"i-hak":       "i-hak",
	"i-klingon":   "i-klingon",
	"i-lux":       "i-lux",
	"i-mingo":     "i-mingo",
	"i-navajo":    "i-navajo",
	"i-pwn":       "i-pwn",
	"i-tao":       "i-tao",
	"i-tay":       "i-tay",
	"i-tsu":       "i-tsu",
	"sgn-be-fr":   "sgn-BE-FR",
	"sgn-be-nl":   "sgn-BE-NL",
	"sgn-ch-de":   "sgn-CH-DE",
	// regular
	"art-lojban":  "art-lojban",
	"cel-gaulish": "cel-gaulish",
	"no-bok":      "no-bok",
	"no-nyn":      "no-nyn",
	"zh-guoyu":    "zh-guoyu",
	"zh-hakka":    "zh-hakka",
	"zh-min":      "zh-min",
	"zh-min-nan":  "zh-min-nan",
	"zh-xiang":    "zh-xiang",
}
