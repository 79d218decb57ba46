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

// Package langtag parses IETF BCP 47 language tags (RFC 5646) as they appear
// in the iCalendar LANGUAGE parameter.
//
// Parsing is syntactic: a tag is "well-formed" when it matches the ABNF of
// RFC 5646, Section 2.1. Subtags are not checked against the IANA Language
// Subtag Registry. Canonical delegates to golang.org/x/text/language, which
// carries its own copy of the registry data.
//
// The parsed tag keeps its original text so that it can be written back
// byte for byte.
package langtag

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Errors that can occur during language tag parsing.
var (
	ErrEmptyExtension     = errors.New("if an extension subtag is present, it must not be empty")
	ErrEmptyPrivateUse    = errors.New("if the 'x' subtag is present, it must not be empty")
	ErrForbiddenChar      = errors.New("the langtag contains a char not allowed")
	ErrInvalidSubtag      = errors.New("a subtag does not match any production of the grammar")
	ErrInvalidLanguage    = errors.New("the given language subtag is invalid")
	ErrSubtagTooLong      = errors.New("a subtag may be eight characters in length at maximum")
	ErrEmptySubtag        = errors.New("a subtag should not be empty")
	ErrTooManyExtlangs    = errors.New("at maximum three extlangs are allowed")
	ErrDuplicateVariant   = errors.New("the same variant subtag appears more than once")
	ErrDuplicateSingleton = errors.New("the same extension singleton appears more than once")
)

// LanguageTag represents a well-formed RFC 5646 language tag.
type LanguageTag struct {
	tag        string
	normalized string
	positions  tagElementsPositions
	extensions []Extension
}

// Extension represents a single extension in a language tag, e.g., `-u-co-phonebk`.
type Extension struct {
	Singleton rune
	Value     string
}

// Parse checks if a tag is "well-formed" according to RFC 5646 syntax and
// splits it into its components.
//
// Grandfathered tags (e.g., "i-klingon") are part of the ABNF syntax and
// cannot be parsed compositionally: they are matched first, as whole units,
// and report no subtags.
func Parse(tag string) (LanguageTag, error) {
	for _, r := range tag {
		// As per RFC 5646 Sec 2.1, only US-ASCII alphanumeric chars and hyphens are allowed.
		if !isLangtagChar(r) {
			return LanguageTag{}, fmt.Errorf("%w: %q", ErrForbiddenChar, r)
		}
	}

	if preferred, ok := grandfathered[strings.ToLower(tag)]; ok {
		return LanguageTag{
			tag:        tag,
			normalized: preferred,
			positions:  tagElementsPositions{isGrandfathered: true},
		}, nil
	}

	pr := newParseRun(tag)
	if err := pr.parse(); err != nil {
		return LanguageTag{}, err
	}

	var builder strings.Builder
	builder.Grow(len(tag))
	pr.render(&builder)

	return LanguageTag{
		tag:        tag,
		normalized: builder.String(),
		positions:  pr.getPositions(),
		extensions: pr.extensions,
	}, nil
}

// MustParse is like Parse but panics on a malformed tag.
func MustParse(tag string) LanguageTag {
	lt, err := Parse(tag)
	if err != nil {
		panic(err)
	}
	return lt
}

// String returns the tag exactly as it was parsed. It implements the fmt.Stringer interface.
func (lt *LanguageTag) String() string {
	return lt.tag
}

// Normalized returns the tag with the case conventions of RFC 5646,
// Section 2.1.1 ("zh-hant-tw" becomes "zh-Hant-TW"). Grandfathered tags are
// returned in their registered form.
func (lt *LanguageTag) Normalized() string {
	return lt.normalized
}

// Canonical returns the canonical form of the tag as computed by
// golang.org/x/text/language: deprecated subtags are replaced, and
// grandfathered tags are mapped to their preferred value when one exists.
func (lt *LanguageTag) Canonical() (string, error) {
	t, err := language.Parse(lt.tag)
	if err != nil {
		return "", fmt.Errorf("langtag: canonicalizing %q: %w", lt.tag, err)
	}
	return t.String(), nil
}

// PrimaryLanguage returns the primary language subtag.
func (lt *LanguageTag) PrimaryLanguage() string {
	return lt.tag[:lt.positions.languageEnd]
}

// ExtendedLanguage returns the extended language subtags as a single string.
func (lt *LanguageTag) ExtendedLanguage() (string, bool) {
	if lt.positions.languageEnd == lt.positions.extlangEnd {
		return "", false
	}
	return lt.tag[lt.positions.languageEnd+1 : lt.positions.extlangEnd], true
}

// ExtendedLanguageSubtags returns a slice of extended language subtags.
func (lt *LanguageTag) ExtendedLanguageSubtags() []string {
	ext, ok := lt.ExtendedLanguage()
	if !ok {
		return nil
	}
	return strings.Split(ext, "-")
}

// FullLanguage returns the primary language subtag and its extended language subtags.
func (lt *LanguageTag) FullLanguage() string {
	return lt.tag[:lt.positions.extlangEnd]
}

// Script returns the script subtag.
func (lt *LanguageTag) Script() (string, bool) {
	if lt.positions.extlangEnd == lt.positions.scriptEnd {
		return "", false
	}
	return lt.tag[lt.positions.extlangEnd+1 : lt.positions.scriptEnd], true
}

// Region returns the region subtag.
func (lt *LanguageTag) Region() (string, bool) {
	if lt.positions.scriptEnd == lt.positions.regionEnd {
		return "", false
	}
	return lt.tag[lt.positions.scriptEnd+1 : lt.positions.regionEnd], true
}

// Variant returns the variant subtags as a single string.
func (lt *LanguageTag) Variant() (string, bool) {
	if lt.positions.regionEnd == lt.positions.variantEnd {
		return "", false
	}
	return lt.tag[lt.positions.regionEnd+1 : lt.positions.variantEnd], true
}

// VariantSubtags returns a slice of variant subtags.
func (lt *LanguageTag) VariantSubtags() []string {
	v, ok := lt.Variant()
	if !ok {
		return nil
	}
	return strings.Split(v, "-")
}

// ExtensionSubtags returns a copy of the parsed extensions, in tag order.
// Singletons are lowercased, values keep their original case.
func (lt *LanguageTag) ExtensionSubtags() []Extension {
	if len(lt.extensions) == 0 {
		return nil
	}
	exts := make([]Extension, len(lt.extensions))
	copy(exts, lt.extensions)
	return exts
}

// PrivateUse returns the private-use sequence including its "x-" singleton
// (e.g., "x-phonebk").
func (lt *LanguageTag) PrivateUse() (string, bool) {
	if lt.positions.isGrandfathered {
		return "", false
	}
	if strings.HasPrefix(lt.tag, "x-") || strings.HasPrefix(lt.tag, "X-") {
		return lt.tag, true
	}
	start := lt.positions.extensionEnd
	if start+2 < len(lt.tag) && lt.tag[start] == '-' && (lt.tag[start+1] == 'x' || lt.tag[start+1] == 'X') {
		return lt.tag[start+1:], true
	}
	return "", false
}

// PrivateUseSubtags returns the private use subtags without the singleton.
func (lt *LanguageTag) PrivateUseSubtags() []string {
	part, ok := lt.PrivateUse()
	if !ok {
		return nil
	}
	return strings.Split(part[2:], "-")
}

// IsGrandfathered returns true if the tag is one of the grandfathered tags
// of RFC 5646, Section 2.2.8.
func (lt *LanguageTag) IsGrandfathered() bool {
	return lt.positions.isGrandfathered
}

// MarshalJSON implements the json.Marshaler interface. It marshals the language
// tag as a JSON string.
func (lt *LanguageTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(lt.tag)
}

// UnmarshalJSON implements the json.Unmarshaler interface. It checks that the
// tag is well-formed.
func (lt *LanguageTag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		*lt = LanguageTag{}
		return nil
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*lt = parsed
	return nil
}
