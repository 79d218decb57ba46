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

// contentLine is one lexed logical line:
//
//	contentline = name *(";" param ) ":" value CRLF
//
// Positions are byte indexes in the unfolded line.
type contentLine struct {
	name        string
	params      []rawParam
	value       []byte
	valueColumn int
}

type rawParam struct {
	name   string
	values []rawParamValue
	column int
}

type rawParamValue struct {
	text   string
	quoted bool
	column int
}

// lexContentLine splits an unfolded line, without its CRLF, into its name,
// parameters and value. The value is only checked to be made of VALUE-CHAR.
func lexContentLine(b []byte) (*contentLine, error) {
	pos := 0
	for pos < len(b) && isNameChar(b[pos]) {
		pos++
	}
	if pos == 0 {
		return nil, newError(0, KindSyntax, "expected a property name")
	}
	line := &contentLine{name: string(b[:pos])}

	for pos < len(b) && b[pos] == ';' {
		param, next, err := lexParam(b, pos+1)
		if err != nil {
			return nil, err
		}
		line.params = append(line.params, param)
		pos = next
	}

	if pos >= len(b) || b[pos] != ':' {
		return nil, newError(pos, KindSyntax, "expected ':' or ';' after %q", line.name)
	}
	pos++
	if n := scanChars(b[pos:], isValueChar); n != len(b)-pos {
		return nil, newError(pos+n, KindSyntax, "invalid character in value of %q", line.name)
	}
	line.value = b[pos:]
	line.valueColumn = pos
	return line, nil
}

// lexParam reads "name=value[,value...]" starting at pos.
func lexParam(b []byte, pos int) (rawParam, int, error) {
	start := pos
	for pos < len(b) && isNameChar(b[pos]) {
		pos++
	}
	if pos == start {
		return rawParam{}, 0, newError(pos, KindSyntax, "expected a parameter name")
	}
	param := rawParam{name: string(b[start:pos]), column: start}
	if pos >= len(b) || b[pos] != '=' {
		return rawParam{}, 0, newError(pos, KindSyntax, "expected '=' after parameter %q", param.name)
	}
	pos++

	for {
		value, next, err := lexParamValue(b, pos)
		if err != nil {
			return rawParam{}, 0, err
		}
		param.values = append(param.values, value)
		pos = next
		if pos < len(b) && b[pos] == ',' {
			pos++
			continue
		}
		return param, pos, nil
	}
}

// lexParamValue reads a quoted-string or a paramtext starting at pos.
func lexParamValue(b []byte, pos int) (rawParamValue, int, error) {
	if pos < len(b) && b[pos] == '"' {
		n := scanChars(b[pos+1:], isQSafeChar)
		end := pos + 1 + n
		if end >= len(b) || b[end] != '"' {
			return rawParamValue{}, 0, newError(end, KindSyntax, "unterminated quoted parameter value")
		}
		return rawParamValue{text: string(b[pos+1 : end]), quoted: true, column: pos + 1}, end + 1, nil
	}
	n := scanChars(b[pos:], isSafeChar)
	return rawParamValue{text: string(b[pos : pos+n]), column: pos}, pos + n, nil
}
