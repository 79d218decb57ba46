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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jplu/almanac/convert"
	"github.com/jplu/almanac/model"
	"github.com/jplu/almanac/serialize"
	"github.com/jplu/almanac/validate"
	"github.com/jplu/almanac/xcal"
)

// input is a named source of calendars.
type input struct {
	name string
	cals []model.Calendar
}

// load reads every file, or standard input when files is empty. It stops at
// the first file that cannot be parsed.
func (c *command) load(ctx context.Context, files []string) ([]input, error) {
	opts := []convert.Option{convert.WithLogger(c.logger)}
	if c.cfg.NormalizeText {
		opts = append(opts, convert.WithTextNormalization())
	}
	if len(files) == 0 {
		cals, err := convert.Read(ctx, c.stdin, opts...)
		if err != nil {
			return nil, fmt.Errorf("<stdin>: %w", err)
		}
		return []input{{name: "<stdin>", cals: cals}}, nil
	}

	inputs := make([]input, 0, len(files))
	for _, name := range files {
		cals, err := readFile(ctx, name, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c.logger.Debug("loaded file", "file", name, "calendars", len(cals))
		inputs = append(inputs, input{name: name, cals: cals})
	}
	return inputs, nil
}

func readFile(ctx context.Context, name string, opts []convert.Option) ([]model.Calendar, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return convert.Read(ctx, f, opts...)
}

func (c *command) check(ctx context.Context, files []string) int {
	inputs, err := c.load(ctx, files)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return exitFailure
	}

	var errs, warnings int
	for _, in := range inputs {
		for i, diags := range validate.All(in.cals) {
			for _, d := range diags {
				fmt.Fprintf(c.stdout, "%s: calendar %d: %s: %s\n", in.name, i, d.Severity, d)
				if d.Severity == validate.SeverityError {
					errs++
				} else {
					warnings++
				}
			}
		}
	}
	c.logger.Info("check finished", "files", len(inputs), "errors", errs, "warnings", warnings)

	if errs > 0 || (warnings > 0 && c.cfg.FailOnWarning) {
		return exitInvalid
	}
	return exitOK
}

func (c *command) format(ctx context.Context, files []string) int {
	inputs, err := c.load(ctx, files)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return exitFailure
	}
	enc := serialize.NewEncoder(c.stdout, serialize.WithFoldWidth(c.cfg.SerializeFoldWidth()))
	for _, in := range inputs {
		for i := range in.cals {
			if err := enc.Encode(&in.cals[i]); err != nil {
				return c.fail(err)
			}
		}
	}
	return exitOK
}

func (c *command) xcal(ctx context.Context, files []string) int {
	inputs, err := c.load(ctx, files)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return exitFailure
	}
	var cals []model.Calendar
	for _, in := range inputs {
		cals = append(cals, in.cals...)
	}
	if err := xcal.Encode(c.stdout, cals...); err != nil {
		return c.fail(err)
	}
	return exitOK
}

func (c *command) fail(err error) int {
	c.logger.Error("writing output", "err", err)
	return exitFailure
}
