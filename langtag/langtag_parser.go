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
	"fmt"
	"strings"
	"unicode"
)

// BCP 47 constants for subtag validation.
const (
	maxSubtagLen        = 8 // Maximum length of any subtag.
	maxExtlangs         = 3 // extlang = 3ALPHA *2("-" 3ALPHA)
	minLanguageLen      = 2 // Shortest primary language subtag.
	scriptLen           = 4 // A script subtag is always 4 letters.
	regionAlphaLen      = 2 // An alphabetic region subtag is always 2 letters.
	regionNumericLen    = 3 // A numeric region subtag is always 3 digits.
	extlangLen          = 3 // An extended language subtag is always 3 letters.
	shortPrimaryLangLen = 3 // Max length of a primary language that can be followed by an extlang.
	minVariantLenAlpha  = 5 // Min length of a variant starting with a letter.
	minVariantLenDigit  = 4 // Min length of a variant starting with a digit.
	minExtensionLen     = 2 // Min length of a subtag following an extension singleton.
)

// tagElementsPositions stores the end positions of each major component
// within the tag string.
type tagElementsPositions struct {
	languageEnd, extlangEnd, scriptEnd, regionEnd, variantEnd, extensionEnd int
	isGrandfathered                                                         bool
}

// parseState represents the current position in the state machine during parsing.
type parseState int

const (
	stateStart         parseState = iota // Expecting a primary language subtag.
	stateAfterLanguage                   // After a 2-3 letter primary language, expecting extlang, script, etc.
	stateAfterExtLang                    // After a >3 letter primary lang or an extlang, expecting script, region, etc.
	stateAfterScript                     // After a script, expecting region, variant, etc.
	stateAfterRegion                     // After a region, expecting variant, etc.
	stateInVariant                       // In a sequence of one or more variants.
	stateInExtension                     // In an extension sequence (after a singleton).
	stateInPrivateUse                    // In a private-use sequence (after 'x').
)

// parseRun holds the state for a single syntactic parse.
type parseRun struct {
	// The fields below hold the parsed subtags, in their original case.
	language   string
	extlangs   []string
	script     string
	region     string
	variants   []string
	extensions []Extension
	privateuse []string
	// Internal state for the parsing process.
	subtags           []string
	state             parseState
	seenVariants      map[string]struct{}
	seenSingletons    map[rune]struct{}
	extensionExpected bool
}

// newParseRun creates a new parsing run for a given tag string. Splitting on
// '-' first means every subtag is classified whole: a 3-letter extlang can
// never match the prefix of a 4-letter script.
func newParseRun(input string) *parseRun {
	return &parseRun{subtags: strings.Split(input, "-")}
}

// validateSubtag performs basic syntactic checks on a single subtag.
func validateSubtag(subtag string) error {
	if len(subtag) == 0 {
		return ErrEmptySubtag
	}
	if len(subtag) > maxSubtagLen {
		return fmt.Errorf("%w: %q", ErrSubtagTooLong, subtag)
	}
	return nil
}

// parse executes the parsing state machine over the subtags.
func (pr *parseRun) parse() error {
	if len(pr.subtags) > 0 && strings.EqualFold(pr.subtags[0], "x") {
		return pr.parsePrivateUseOnly()
	}
	for i, subtag := range pr.subtags {
		if err := validateSubtag(subtag); err != nil {
			return err
		}
		var err error
		switch pr.state {
		case stateInPrivateUse:
			pr.privateuse = append(pr.privateuse, subtag)
		case stateInExtension:
			err = pr.handleExtensionSubtag(subtag)
		case stateStart, stateAfterLanguage, stateAfterExtLang, stateAfterScript, stateAfterRegion, stateInVariant:
			err = pr.handleLangtagSubtag(i, subtag)
		}
		if err != nil {
			return err
		}
	}
	return pr.checkFinalState()
}

// parsePrivateUseOnly handles tags that start with the private-use singleton "x".
func (pr *parseRun) parsePrivateUseOnly() error {
	if len(pr.subtags) == 1 {
		return ErrEmptyPrivateUse
	}
	for _, subtag := range pr.subtags[1:] {
		if err := validateSubtag(subtag); err != nil {
			return err
		}
		pr.privateuse = append(pr.privateuse, subtag)
	}
	pr.state = stateInPrivateUse
	return nil
}

// checkFinalState reports a singleton left without subtags at the end of
// the tag, e.g. "en-a" or "en-x".
func (pr *parseRun) checkFinalState() error {
	if pr.extensionExpected {
		return ErrEmptyExtension
	}
	if pr.state == stateInPrivateUse && len(pr.privateuse) == 0 {
		return ErrEmptyPrivateUse
	}
	return nil
}

// handlePrimaryLanguage checks the first subtag: 2 to 8 letters.
func (pr *parseRun) handlePrimaryLanguage(subtag string) error {
	if len(subtag) < minLanguageLen || !isAlphabetic(subtag) {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, subtag)
	}
	pr.language = subtag
	pr.state = stateAfterExtLang
	if len(subtag) <= shortPrimaryLangLen {
		pr.state = stateAfterLanguage
	}
	return nil
}

// handleLangtagSubtag dispatches parsing for a subtag that is part of the main langtag.
func (pr *parseRun) handleLangtagSubtag(i int, subtag string) error {
	if i == 0 {
		return pr.handlePrimaryLanguage(subtag)
	}
	if len(subtag) == 1 {
		return pr.handleSingleton(subtag)
	}
	if len(pr.extlangs) >= maxExtlangs && pr.state == stateAfterLanguage &&
		len(subtag) == extlangLen && isAlphabetic(subtag) {
		return ErrTooManyExtlangs
	}

	// Attempt to parse the subtag in the order defined by the RFC:
	// extlang -> script -> region -> variant
	if pr.tryParseAsExtlang(subtag) {
		return nil
	}
	if pr.tryParseAsScript(subtag) {
		pr.state = stateAfterScript
		return nil
	}
	if pr.tryParseAsRegion(subtag) {
		pr.state = stateAfterRegion
		return nil
	}
	if parsed, err := pr.tryParseAsVariant(subtag); parsed || err != nil {
		if parsed {
			pr.state = stateInVariant
		}
		return err
	}
	return fmt.Errorf("%w: %q", ErrInvalidSubtag, subtag)
}

// tryParseAsExtlang attempts to parse the subtag as an extended language.
// Extlangs only follow a 2 or 3 letter primary language, so the state stays
// stateAfterLanguage until the third one.
func (pr *parseRun) tryParseAsExtlang(subtag string) bool {
	if pr.state != stateAfterLanguage || len(pr.extlangs) >= maxExtlangs ||
		len(subtag) != extlangLen || !isAlphabetic(subtag) {
		return false
	}
	pr.extlangs = append(pr.extlangs, subtag)
	return true
}

// tryParseAsScript attempts to parse the subtag as a script.
func (pr *parseRun) tryParseAsScript(subtag string) bool {
	if pr.state > stateAfterExtLang || len(subtag) != scriptLen || !isAlphabetic(subtag) {
		return false
	}
	pr.script = subtag
	return true
}

// tryParseAsRegion attempts to parse the subtag as a region.
func (pr *parseRun) tryParseAsRegion(subtag string) bool {
	isRegionFmt := (len(subtag) == regionAlphaLen && isAlphabetic(subtag)) ||
		(len(subtag) == regionNumericLen && isNumeric(subtag))
	if pr.state > stateAfterScript || !isRegionFmt {
		return false
	}
	pr.region = subtag
	return true
}

// isVariant matches 5*8alphanum / (DIGIT 3alphanum).
func isVariant(subtag string) bool {
	if !isAlphanumeric(subtag) {
		return false
	}
	if len(subtag) >= minVariantLenAlpha {
		return true
	}
	return len(subtag) == minVariantLenDigit && isDigit(subtag[0])
}

// tryParseAsVariant attempts to parse the subtag as a variant. A repeated
// variant is an error.
func (pr *parseRun) tryParseAsVariant(subtag string) (bool, error) {
	if pr.state > stateInVariant || !isVariant(subtag) {
		return false, nil
	}
	lowerSubtag := strings.ToLower(subtag)
	if pr.seenVariants == nil {
		pr.seenVariants = make(map[string]struct{})
	}
	if _, seen := pr.seenVariants[lowerSubtag]; seen {
		return false, fmt.Errorf("%w: %q", ErrDuplicateVariant, subtag)
	}
	pr.seenVariants[lowerSubtag] = struct{}{}
	pr.variants = append(pr.variants, subtag)
	return true, nil
}

// handleExtensionSubtag parses a subtag that is part of an extension sequence.
func (pr *parseRun) handleExtensionSubtag(subtag string) error {
	if len(subtag) == 1 {
		return pr.handleSingleton(subtag)
	}
	if len(subtag) < minExtensionLen || !isAlphanumeric(subtag) || len(pr.extensions) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidSubtag, subtag)
	}
	lastExt := &pr.extensions[len(pr.extensions)-1]
	if lastExt.Value == "" {
		lastExt.Value = subtag
	} else {
		lastExt.Value += "-" + subtag
	}
	pr.extensionExpected = false
	return nil
}

// handleSingleton handles a single-character subtag, which starts an
// extension or a private-use sequence.
func (pr *parseRun) handleSingleton(subtag string) error {
	if pr.extensionExpected {
		return ErrEmptyExtension
	}
	if !isAlphanum(subtag[0]) {
		return fmt.Errorf("%w: %q", ErrInvalidSubtag, subtag)
	}
	s := unicode.ToLower(rune(subtag[0]))
	if s == 'x' {
		pr.state = stateInPrivateUse
		return nil
	}
	if pr.seenSingletons == nil {
		pr.seenSingletons = make(map[rune]struct{})
	}
	if _, ok := pr.seenSingletons[s]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSingleton, subtag)
	}
	pr.seenSingletons[s] = struct{}{}
	pr.state = stateInExtension
	pr.extensionExpected = true
	pr.extensions = append(pr.extensions, Extension{Singleton: s})
	return nil
}

// render writes the tag with the case conventions of RFC 5646, Section 2.1.1:
// lowercase everywhere, title-case scripts, uppercase alphabetic regions.
func (pr *parseRun) render(b *strings.Builder) {
	if pr.language == "" && len(pr.privateuse) > 0 {
		b.WriteByte('x')
		for _, subtag := range pr.privateuse {
			b.WriteByte('-')
			b.WriteString(strings.ToLower(subtag))
		}
		return
	}

	b.WriteString(strings.ToLower(pr.language))
	for _, subtag := range pr.extlangs {
		b.WriteByte('-')
		b.WriteString(strings.ToLower(subtag))
	}
	if pr.script != "" {
		b.WriteByte('-')
		writeTitleCase(b, pr.script)
	}
	if pr.region != "" {
		b.WriteByte('-')
		b.WriteString(strings.ToUpper(pr.region))
	}
	for _, subtag := range pr.variants {
		b.WriteByte('-')
		b.WriteString(strings.ToLower(subtag))
	}
	for _, ext := range pr.extensions {
		b.WriteByte('-')
		b.WriteRune(ext.Singleton)
		b.WriteByte('-')
		b.WriteString(strings.ToLower(ext.Value))
	}
	if len(pr.privateuse) > 0 {
		b.WriteString("-x")
		for _, subtag := range pr.privateuse {
			b.WriteByte('-')
			b.WriteString(strings.ToLower(subtag))
		}
	}
}

// getPositions calculates the end positions of each component. The tag keeps
// its original text, so subtag lengths map one to one onto it.
func (pr *parseRun) getPositions() tagElementsPositions {
	var pos tagElementsPositions
	cursor := len(pr.language)
	pos.languageEnd = cursor

	for _, ext := range pr.extlangs {
		cursor += 1 + len(ext)
	}
	pos.extlangEnd = cursor

	if pr.script != "" {
		cursor += 1 + len(pr.script)
	}
	pos.scriptEnd = cursor

	if pr.region != "" {
		cursor += 1 + len(pr.region)
	}
	pos.regionEnd = cursor

	for _, v := range pr.variants {
		cursor += 1 + len(v)
	}
	pos.variantEnd = cursor

	for _, ext := range pr.extensions {
		cursor += 1 + 1 + 1 + len(ext.Value) // "-s-value"
	}
	pos.extensionEnd = cursor

	return pos
}
