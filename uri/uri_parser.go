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

// Positions holds the end indices of the components of a parsed URI.
//
//   - SchemeEnd is the index just after the ':' of the scheme.
//   - AuthorityEnd equals SchemeEnd when there is no authority.
//   - PathEnd is the index of the '?' or '#' following the path, or the length.
//   - QueryEnd is the index of the '#' following the query, or the length.
type Positions struct {
	SchemeEnd    int
	AuthorityEnd int
	PathEnd      int
	QueryEnd     int
}

// uriParser holds the state for a single parsing operation.
type uriParser struct {
	input           *parserInput
	output          outputBuffer
	outputPositions Positions
	hostKind        HostKind
}

// run parses s as an absolute URI: scheme ":" hier-part ["?" query]
// ["#" fragment] (RFC 3986, Section 3).
func run(s string, output outputBuffer) (Positions, HostKind, error) {
	p := &uriParser{
		input:  newParserInput(s),
		output: output,
	}
	if s == "" {
		return Positions{}, HostNone, errEmpty
	}
	err := p.parseScheme()
	return p.outputPositions, p.hostKind, err
}

// parseScheme consumes the scheme and the ':' separator, then dispatches to
// the hier-part.
func (p *uriParser) parseScheme() error {
	r, _ := p.input.next()
	if !isASCIILetter(r) {
		if r == ':' {
			return errNoScheme
		}
		return &kindError{message: "Invalid scheme first character", char: r}
	}
	p.output.writeRune(r)

	for {
		r, ok := p.input.next()
		if !ok {
			return errNoScheme
		}
		switch {
		case isSchemeChar(r):
			p.output.writeRune(r)
		case r == ':':
			p.output.writeRune(':')
			p.outputPositions.SchemeEnd = p.output.len()
			return p.parseHierPart()
		default:
			return &kindError{message: "Invalid scheme character", char: r}
		}
	}
}

// parseHierPart handles "//" authority path-abempty, path-absolute,
// path-rootless and path-empty.
func (p *uriParser) parseHierPart() error {
	if p.input.startsWithString("//") {
		p.input.skip(2)
		p.output.writeString("//")
		if err := p.parseAuthority(); err != nil {
			return err
		}
		r, ok := p.input.peek()
		if ok && r != '/' && r != '?' && r != '#' {
			return &kindError{message: "Invalid character after authority", char: r}
		}
		return p.parsePath()
	}
	p.outputPositions.AuthorityEnd = p.outputPositions.SchemeEnd
	return p.parsePath()
}

// parsePath consumes the path component up to a '?' or '#'. A path can
// never start with "//" here: that prefix is always read as an authority.
func (p *uriParser) parsePath() error {
	for {
		c, ok := p.input.peek()
		if !ok {
			break
		}
		if c == '?' || c == '#' {
			p.outputPositions.PathEnd = p.output.len()
			p.input.next()
			if c == '?' {
				p.output.writeRune('?')
				return p.parseQuery()
			}
			p.outputPositions.QueryEnd = p.output.len()
			p.output.writeRune('#')
			return p.parseFragment()
		}
		p.input.next()
		if err := p.readCodepointOrEchar(c, isPathChar); err != nil {
			return err
		}
	}
	p.outputPositions.PathEnd = p.output.len()
	p.outputPositions.QueryEnd = p.output.len()
	return nil
}

// parseQuery consumes the query component.
func (p *uriParser) parseQuery() error {
	for {
		r, ok := p.input.peek()
		if !ok {
			p.outputPositions.QueryEnd = p.output.len()
			return nil
		}
		if r == '#' {
			p.outputPositions.QueryEnd = p.output.len()
			p.input.next()
			p.output.writeRune('#')
			return p.parseFragment()
		}
		p.input.next()
		if err := p.readCodepointOrEchar(r, isQueryOrFragmentChar); err != nil {
			return err
		}
	}
}

// parseFragment consumes the fragment component.
func (p *uriParser) parseFragment() error {
	for {
		r, ok := p.input.next()
		if !ok {
			return nil
		}
		if err := p.readCodepointOrEchar(r, isQueryOrFragmentChar); err != nil {
			return err
		}
	}
}
