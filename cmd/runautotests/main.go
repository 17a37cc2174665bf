// runautotests runs a Qt module's compiled autotests and colors their output.
//
// Usage:
//
//	cd tests/auto && runautotests          # unit, then integration
//	cd tests/auto/unit && runautotests     # just this directory
//	runautotests tests/auto/integration    # an explicit directory
//
// Every q* directory is expected to hold a tst_<name> executable (or
// <name>\debug\tst_<name>.exe on Windows). Each one is run in turn, its
// PASS/FAIL/XFAIL/XPASS/QFATAL lines are counted, and a summary of what
// ran and what could not be run is printed at the end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/dkoosis/runautotests/internal/config"
	"github.com/dkoosis/runautotests/internal/discover"
	"github.com/dkoosis/runautotests/internal/harness"
	"github.com/dkoosis/runautotests/internal/runner"
	"github.com/dkoosis/runautotests/internal/transcript"
	"github.com/dkoosis/runautotests/internal/version"
	"github.com/dkoosis/runautotests/pkg/render"
)

const instructions = "This script can be used as follows:\n" +
	"    a) if run from tests/auto without any arguments it runs unit tests and then integration tests\n" +
	"    b) if run from tests/auto/unit, it runs unit tests\n" +
	"    c) if run from tests/auto/integration, it runs integration tests\n" +
	"    d) if run from tests/auto with \"unit\" it runs unit tests, and correspondingly for \"integration\""

// Exit codes.
const (
	exitOK          = 0
	exitStrict      = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("runautotests", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: runautotests [flags] [DIR]\n\n%s\n\nFlags:\n", instructions)
		fs.PrintDefaults()
	}

	var cli config.CliFlags
	fs.StringVar(&cli.Color, "color", config.ColorAuto, "Color output: auto, always, never")
	fs.DurationVar(&cli.Timeout, "timeout", 0, "Kill a test that runs longer than this (0 disables)")
	fs.StringVar(&cli.ConfigPath, "config", "", "Config file (default .runautotests.yaml, then the user config dir)")
	fs.StringVar(&cli.Transcript, "transcript", "", "Also write uncolored output to this file")
	fs.BoolVar(&cli.Strict, "strict", false, "Exit 1 when any test failed, passed unexpectedly or crashed")
	fs.BoolVar(&cli.Debug, "debug", false, "Log discovery and exit status details to stderr")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *versionFlag {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			cli.ColorSet = true
		case "timeout":
			cli.TimeoutSet = true
		case "strict":
			cli.StrictSet = true
		case "debug":
			cli.DebugSet = true
		}
	})

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "runautotests", Level: log.WarnLevel})

	cwd, err := os.Getwd()
	if err != nil {
		logger.Error("cannot determine working directory", "err", err)
		return exitUsage
	}
	plan, err := config.ResolvePlan(fs.Args(), cwd)
	if err != nil {
		fmt.Fprintln(stdout, usageMessage(err, fs.Args()))
		return exitUsage
	}
	cfg, err := config.ResolveConfig(cli)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return exitUsage
	}
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	logger.Debug("configuration",
		"file", cfg.ConfigFile,
		"color", cfg.Color, "colorSource", cfg.ColorSource,
		"timeout", cfg.Timeout, "timeoutSource", cfg.TimeoutSource,
		"layout", cfg.Layout, "sort", cfg.Sort)
	logger.Debug("plan", "mode", plan.Mode, "dirs", plan.Dirs)

	layout, err := discover.ParseLayout(cfg.Layout)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return exitUsage
	}

	out := stdout
	if cfg.Transcript != "" {
		tf, err := transcript.Create(cfg.Transcript)
		if err != nil {
			logger.Error("cannot open transcript", "err", err)
			return exitUsage
		}
		defer func() {
			if err := tf.Close(); err != nil {
				logger.Warn("closing transcript", "err", err)
			}
		}()
		out = io.MultiWriter(stdout, tf)
	}

	renderer := render.NewRenderer(stdout, cfg.UseColor(isTTYWriter(stdout)))
	h := harness.New(harness.Config{
		Out:   out,
		Theme: render.ThemeByName(cfg.Theme, renderer),
		Scanner: discover.New(discover.Options{
			Prefix:           cfg.Prefix,
			ExecutablePrefix: cfg.ExecutablePrefix,
			Exclusions:       cfg.Exclusions,
			Layout:           layout,
			NaturalSort:      cfg.NaturalSort(),
		}, logger),
		Runner: runner.New(runner.Options{Timeout: cfg.Timeout}, logger),
		Logger: logger,
		Width:  termWidth(stdout),
	})

	totals := h.RunDirs(ctx, plan.Dirs)
	if err := totals.WriteSummary(out); err != nil {
		logger.Warn("writing summary", "err", err)
	}

	switch {
	case totals.Interrupted:
		return exitInterrupted
	case cfg.Strict && !totals.Clean():
		return exitStrict
	default:
		return exitOK
	}
}

// usageMessage maps an invocation error to the text printed on stdout.
func usageMessage(err error, args []string) string {
	switch {
	case errors.Is(err, config.ErrPathNotFound):
		return args[0] + " test cases do not exist! " + instructions
	case errors.Is(err, config.ErrTooManyArgs):
		return "You have passed too many arguments! " + instructions
	default:
		return "You are running this script from the wrong directory! " + instructions
	}
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width of w, or 0 when unknown.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 0
}
