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

import (
	"bytes"
	"io"
)

// Unfold reads one logical line from the start of buf, removing the folds of
// RFC 5545, Section 3.1: each CRLF immediately followed by one SPACE or HTAB
// is dropped together with that single whitespace character. The returned
// line ends with its CRLF; advance is the number of bytes of buf it used.
//
// When buf ends before the line does, Unfold returns ErrIncomplete. A buffer
// that ends right after a CRLF is also incomplete unless atEOF is set, since
// the next byte decides whether the line is folded. At EOF, input without a
// final CRLF is a *ParseError, and an empty buf yields io.EOF.
//
// Unfolding an already unfolded line returns it unchanged.
func Unfold(buf []byte, atEOF bool) ([]byte, int, error) {
	content, _, advance, err := unfold(buf, atEOF)
	if err != nil {
		return nil, 0, err
	}
	line := make([]byte, 0, len(content)+2)
	line = append(line, content...)
	line = append(line, '\r', '\n')
	return line, advance, nil
}

// UnfoldAll unfolds a complete input, returning every logical line
// concatenated.
func UnfoldAll(buf []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(buf))
	for pos := 0; pos < len(buf); {
		content, _, advance, err := unfold(buf[pos:], true)
		if err != nil {
			return nil, relocate(err, at(pos))
		}
		out.Write(content)
		out.WriteString("\r\n")
		pos += advance
	}
	return out.Bytes(), nil
}

// unfold returns the content of the first logical line of buf without its
// CRLF, the positions in that content where folds were removed, and the
// number of raw bytes used.
func unfold(buf []byte, atEOF bool) ([]byte, []int, int, error) {
	if len(buf) == 0 {
		if atEOF {
			return nil, nil, 0, io.EOF
		}
		return nil, nil, 0, ErrIncomplete
	}

	var (
		content []byte
		folds   []int
		start   int
	)
	for {
		idx := bytes.Index(buf[start:], []byte("\r\n"))
		if idx < 0 {
			if atEOF {
				return nil, nil, 0, newError(len(buf), KindUnexpectedEOF, "missing CRLF at end of input")
			}
			return nil, nil, 0, ErrIncomplete
		}
		end := start + idx
		next := end + 2
		if next == len(buf) && !atEOF {
			return nil, nil, 0, ErrIncomplete
		}
		if next < len(buf) && isWSP(buf[next]) {
			// Folded: keep scanning after the single whitespace byte.
			if content == nil {
				content = make([]byte, 0, len(buf))
			}
			content = append(content, buf[start:end]...)
			folds = append(folds, len(content))
			start = next + 1
			continue
		}
		if content == nil {
			return buf[:end], nil, next, nil
		}
		content = append(content, buf[start:end]...)
		return content, folds, next, nil
	}
}

// rawPos maps a position in unfolded content back to the folded input,
// relative to the start of the line.
func rawPos(folds []int, pos int) int {
	raw := pos
	for _, f := range folds {
		if f > pos {
			break
		}
		raw += 3
	}
	return raw
}
