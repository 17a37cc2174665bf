// Package harness drives a whole autotest run: it scans each directory,
// runs every runnable test case in turn, echoes colored output and keeps
// the run totals.
package harness

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/dkoosis/runautotests/internal/discover"
	"github.com/dkoosis/runautotests/internal/runner"
	"github.com/dkoosis/runautotests/pkg/classify"
	"github.com/dkoosis/runautotests/pkg/render"
)

// Scanner lists the test-case candidates of one directory and checks
// whether a candidate's executable is present.
type Scanner interface {
	Scan(ctx context.Context, root string) ([]discover.Candidate, error)
	Runnable(path string) bool
}

// Runner runs one test executable, streaming its output lines.
type Runner interface {
	Run(ctx context.Context, path string, onLine runner.LineFunc) runner.Outcome
}

// Config wires a Harness.
type Config struct {
	Out     io.Writer
	Theme   render.Theme
	Scanner Scanner
	Runner  Runner
	Logger  *log.Logger
	// Width is the display width of directory headers. Zero uses
	// DefaultWidth.
	Width int
}

// Harness runs test directories one candidate at a time.
type Harness struct {
	cfg Config
}

// New creates a Harness.
func New(cfg Config) *Harness {
	return &Harness{cfg: cfg}
}

// RunDirs runs every directory in order and returns the totals. A
// directory that cannot be scanned is logged and skipped. When ctx is
// cancelled the run stops before the next candidate and the totals are
// marked Interrupted.
func (h *Harness) RunDirs(ctx context.Context, dirs []string) *Totals {
	totals := &Totals{}
	for _, dir := range dirs {
		if ctx.Err() != nil {
			totals.Interrupted = true
			break
		}
		h.runDir(ctx, dir, totals)
		if totals.Interrupted {
			break
		}
	}
	return totals
}

func (h *Harness) runDir(ctx context.Context, dir string, totals *Totals) {
	h.println(h.cfg.Theme.Bold.Render(header(dir, h.cfg.Width)))

	h.cfg.Logger.Debug("scanning", "dir", dir)
	candidates, err := h.cfg.Scanner.Scan(ctx, dir)
	if err != nil {
		if ctx.Err() != nil {
			totals.Interrupted = true
			return
		}
		h.cfg.Logger.Warn("skipping directory", "dir", dir, "err", err)
		return
	}

	for _, c := range candidates {
		if ctx.Err() != nil {
			totals.Interrupted = true
			return
		}
		if !h.cfg.Scanner.Runnable(c.Path) {
			h.cfg.Logger.Debug("not runnable", "name", c.Name, "path", c.Path, "atScan", c.Runnable)
			totals.NotRun = append(totals.NotRun, c.Name)
			continue
		}
		totals.Run = append(totals.Run, c.Name)
		h.runTest(ctx, c, totals)
		if totals.Interrupted {
			return
		}
	}
}

func (h *Harness) runTest(ctx context.Context, c discover.Candidate, totals *Totals) {
	out := h.cfg.Runner.Run(ctx, c.Path, func(line string) {
		m := classify.Classify(line)
		totals.Apply(m)
		h.println(h.cfg.Theme.Line(line, m))
	})

	if totals.Record(out) {
		h.println(h.cfg.Theme.Error(out.Message()))
	}
	if out.Interrupted {
		totals.Interrupted = true
	}
	h.cfg.Logger.Debug("test finished",
		"name", c.Name,
		"current", totals.CurrentTest,
		"code", out.ExitCode,
		"signal", out.Signal,
		"crashed", out.Crashed())
}

func (h *Harness) println(s string) {
	if _, err := fmt.Fprintln(h.cfg.Out, s); err != nil {
		h.cfg.Logger.Debug("write failed", "err", err)
	}
}
