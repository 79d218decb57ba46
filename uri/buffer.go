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

// outputBuffer receives the characters accepted by the parser. Validation
// only needs the running length (voidOutputBuffer); normalization needs the
// rewritten text (stringOutputBuffer).
type outputBuffer interface {
	// writeRune appends a single rune to the buffer.
	writeRune(r rune)
	// writeString appends a string to the buffer.
	writeString(s string)
	// string returns the complete content of the buffer.
	string() string
	// len returns the number of bytes currently in the buffer.
	len() int
}

// voidOutputBuffer discards all writes and only tracks the length of the
// would-be output.
type voidOutputBuffer struct {
	length int
}

func (b *voidOutputBuffer) writeRune(r rune)     { b.length += len(string(r)) }
func (b *voidOutputBuffer) writeString(s string) { b.length += len(s) }
func (b *voidOutputBuffer) string() string       { return "" }
func (b *voidOutputBuffer) len() int             { return b.length }

// stringOutputBuffer builds the output in a strings.Builder.
type stringOutputBuffer struct {
	builder *strings.Builder
}

func (b *stringOutputBuffer) writeRune(r rune)     { b.builder.WriteRune(r) }
func (b *stringOutputBuffer) writeString(s string) { b.builder.WriteString(s) }
func (b *stringOutputBuffer) string() string       { return b.builder.String() }
func (b *stringOutputBuffer) len() int             { return b.builder.Len() }
