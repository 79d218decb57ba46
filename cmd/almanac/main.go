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

// Command almanac checks, reformats and converts iCalendar files.
//
//	almanac [flags] check [files...]
//	almanac [flags] fmt [files...]
//	almanac [flags] xcal [files...]
//
// Files are read from standard input when none is given.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jplu/almanac/internal/config"
)

// Exit statuses.
const (
	exitOK      = 0
	exitInvalid = 1
	exitFailure = 2
)

var errUsage = errors.New("usage: almanac [flags] check|fmt|xcal [files...]")

// flagConfig holds the command line flags that override the file config.
type flagConfig struct {
	configPath    string
	logLevel      string
	logFormat     string
	foldWidth     int
	normalizeText bool
	failOnWarning bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("almanac", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var flags flagConfig
	fs.StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	fs.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json (overrides config)")
	fs.IntVar(&flags.foldWidth, "fold-width", 0, "Line length for fmt, negative disables folding (overrides config)")
	fs.BoolVar(&flags.normalizeText, "normalize", false, "Apply Unicode NFC to TEXT values")
	fs.BoolVar(&flags.failOnWarning, "fail-on-warning", false, "Make check fail on warnings")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	applyFlags(fs, &flags, cfg)
	logger := cfg.Logger(stderr)

	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, errUsage)
		return exitFailure
	}
	cmd := command{
		cfg:    cfg,
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	files := fs.Args()[1:]
	logger.Debug("running command", "command", fs.Arg(0), "files", len(files))

	switch fs.Arg(0) {
	case "check":
		return cmd.check(ctx, files)
	case "fmt":
		return cmd.format(ctx, files)
	case "xcal":
		return cmd.xcal(ctx, files)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%v\n", fs.Arg(0), errUsage)
		return exitFailure
	}
}

// applyFlags copies the flags that were set onto cfg.
func applyFlags(fs *flag.FlagSet, flags *flagConfig, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = flags.logLevel
		case "log-format":
			cfg.LogFormat = flags.logFormat
		case "fold-width":
			cfg.FoldWidth = flags.foldWidth
		case "normalize":
			cfg.NormalizeText = flags.normalizeText
		case "fail-on-warning":
			cfg.FailOnWarning = flags.failOnWarning
		}
	})
	cfg.Normalize()
}

type command struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}
