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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

const defaultChunkSize = 32 * 1024

// ErrClosed is returned when writing to a closed Stream.
var ErrClosed = errors.New("write to closed stream")

type options struct {
	logger    *slog.Logger
	chunkSize int
}

// Option configures a Stream or a Decoder.
type Option func(*options)

// WithLogger sets the logger used for debug messages. It defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithChunkSize sets the size of the reads made by a Decoder.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default(), chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Stream parses calendars from input supplied in chunks of any size.
//
// Bytes given to Write are unfolded into logical lines as soon as each line
// is known to be complete; those lines are kept until a whole calendar can
// be parsed from them. Next returns ErrIncomplete while the input seen so
// far is a valid prefix. Once Close is called, a truncated calendar is a
// *ParseError of kind KindUnexpectedEOF, and Next returns io.EOF after the
// last calendar.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	buf    []byte
	base   int
	lines  []*logicalLine
	closed bool
	count  int
	logger *slog.Logger

	// waiting is the number of cached lines that were not enough for a
	// calendar on the last attempt.
	waiting int
}

// NewStream returns an empty Stream.
func NewStream(opts ...Option) *Stream {
	o := newOptions(opts)
	return &Stream{logger: o.logger}
}

// Write appends p to the pending input. It never fails unless the stream
// was closed.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Close marks the end of the input.
func (s *Stream) Close() error {
	s.closed = true
	return nil
}

// Next returns the next complete calendar.
func (s *Stream) Next() (*Calendar, error) {
	if err := s.fill(); err != nil {
		return nil, err
	}
	if len(s.lines) == 0 {
		if s.closed {
			return nil, io.EOF
		}
		return nil, ErrIncomplete
	}

	if !s.closed && len(s.lines) == s.waiting {
		return nil, ErrIncomplete
	}

	c := cursor{lines: s.lines}
	cal, err := c.parseCalendar(s.count > 0)
	if errors.Is(err, ErrIncomplete) {
		if s.closed {
			return nil, newError(s.base+len(s.buf), KindUnexpectedEOF, "input ends inside a calendar")
		}
		s.waiting = len(s.lines)
		return nil, ErrIncomplete
	}
	if err != nil {
		return nil, err
	}

	s.lines = s.lines[c.pos:]
	s.waiting = 0
	s.count++
	s.logger.Debug("parsed calendar",
		slog.Int("offset", cal.Offset),
		slog.Int("properties", len(cal.Properties)),
		slog.Int("components", len(cal.Components)))
	return cal, nil
}

// fill moves every complete logical line from the pending bytes to the
// line cache.
func (s *Stream) fill() error {
	pos := 0
	for {
		content, folds, advance, err := unfold(s.buf[pos:], s.closed)
		if errors.Is(err, ErrIncomplete) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return relocate(err, at(s.base+pos))
		}
		owned := make([]byte, len(content))
		copy(owned, content)
		s.lines = append(s.lines, &logicalLine{offset: s.base + pos, content: owned, folds: folds})
		pos += advance
	}
	if pos > 0 {
		s.buf = append(s.buf[:0], s.buf[pos:]...)
		s.base += pos
	}
	return nil
}

// Decoder reads calendars from an io.Reader.
type Decoder struct {
	r      io.Reader
	stream *Stream
	chunk  []byte
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	o := newOptions(opts)
	return &Decoder{
		r:      r,
		stream: NewStream(opts...),
		chunk:  make([]byte, o.chunkSize),
	}
}

// Decode returns the next calendar, reading from the underlying reader as
// needed. It returns io.EOF when the input holds no more calendars. The
// context is checked between reads.
func (d *Decoder) Decode(ctx context.Context) (*Calendar, error) {
	for {
		cal, err := d.stream.Next()
		if !errors.Is(err, ErrIncomplete) {
			return cal, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, rerr := d.r.Read(d.chunk)
		if n > 0 {
			_, _ = d.stream.Write(d.chunk[:n])
		}
		switch {
		case errors.Is(rerr, io.EOF):
			_ = d.stream.Close()
		case rerr != nil:
			return nil, fmt.Errorf("reading calendar input: %w", rerr)
		}
	}
}

// DecodeAll reads calendars until the end of the input. It fails if there
// is none.
func (d *Decoder) DecodeAll(ctx context.Context) ([]*Calendar, error) {
	var cals []*Calendar
	for {
		cal, err := d.Decode(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		cals = append(cals, cal)
	}
	if len(cals) == 0 {
		return nil, newError(0, KindUnexpectedEOF, "no calendar found")
	}
	return cals, nil
}
