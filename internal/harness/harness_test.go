package harness

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/runautotests/internal/discover"
	"github.com/dkoosis/runautotests/internal/runner"
	"github.com/dkoosis/runautotests/pkg/classify"
	"github.com/dkoosis/runautotests/pkg/render"
)

type fakeScanner struct {
	dirs    map[string][]discover.Candidate
	present map[string]bool
}

// newFakeScanner marks every candidate flagged Runnable as present on disk.
func newFakeScanner(dirs map[string][]discover.Candidate) *fakeScanner {
	f := &fakeScanner{dirs: dirs, present: map[string]bool{}}
	for _, cs := range dirs {
		for _, c := range cs {
			if c.Runnable {
				f.present[c.Path] = true
			}
		}
	}
	return f
}

func (f *fakeScanner) Scan(_ context.Context, root string) ([]discover.Candidate, error) {
	c, ok := f.dirs[root]
	if !ok {
		return nil, errors.New("scanning " + root + ": no such file or directory")
	}
	return c, nil
}

func (f *fakeScanner) Runnable(path string) bool {
	return f.present[path]
}

type fakeTest struct {
	lines   []string
	outcome runner.Outcome
	// before runs ahead of the output, e.g. to cancel the run.
	before func()
}

type fakeRunner struct {
	tests map[string]fakeTest
	ran   []string
}

func (f *fakeRunner) Run(_ context.Context, path string, onLine runner.LineFunc) runner.Outcome {
	f.ran = append(f.ran, path)
	tt := f.tests[path]
	if tt.before != nil {
		tt.before()
	}
	for _, l := range tt.lines {
		onLine(l)
	}
	out := tt.outcome
	out.Path = path
	return out
}

func newHarness(out io.Writer, s Scanner, r Runner) *Harness {
	return New(Config{
		Out:     out,
		Theme:   render.MonoTheme(render.NewRenderer(io.Discard, false)),
		Scanner: s,
		Runner:  r,
		Logger:  log.New(io.Discard),
		Width:   20,
	})
}

func TestRunDirs_CountsAndSummary(t *testing.T) {
	t.Parallel()

	scanner := newFakeScanner(map[string][]discover.Candidate{"unit": {
		{Name: "qfoo", Path: "unit/qfoo/tst_qfoo", Runnable: true},
		{Name: "qbar", Path: "unit/qbar/tst_qbar"},
	}})
	r := &fakeRunner{tests: map[string]fakeTest{
		"unit/qfoo/tst_qfoo": {lines: []string{
			"********* Start testing of tst_QFoo *********",
			"PASS   : tst_QFoo::initTestCase()",
			"FAIL!  : tst_QFoo::compare() Compared values are not the same",
			"   Loc: [tst_qfoo.cpp(42)]",
			"PASS   : tst_QFoo::cleanupTestCase()",
			"********* Finished testing of tst_QFoo *********",
		}, outcome: runner.Outcome{ExitCode: 1}},
	}}

	var buf bytes.Buffer
	totals := newHarness(&buf, scanner, r).RunDirs(context.Background(), []string{"unit"})

	assert.Equal(t, 2, totals.Passes)
	assert.Equal(t, 1, totals.Failures)
	assert.Zero(t, totals.Unexpected)
	assert.Zero(t, totals.Crashes)
	assert.Equal(t, "tst_QFoo", totals.CurrentTest)
	assert.Equal(t, []string{"qfoo"}, totals.Run)
	assert.Equal(t, []string{"qbar"}, totals.NotRun)
	assert.False(t, totals.Interrupted)
	assert.False(t, totals.Clean())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "── Unit ─"), out)
	assert.Contains(t, out, "   Loc: [tst_qfoo.cpp(42)]\n")

	var summary bytes.Buffer
	require.NoError(t, totals.WriteSummary(&summary))
	assert.Equal(t, "Total of all tests: 2 passes, 1 failures, 0 unexpected, 0 badnesses.\n"+
		"The following test cases were run: \n"+
		"qfoo\n"+
		"The following test cases could not be run: \n"+
		"qbar\n", summary.String())
}

func TestRunDirs_EveryCrashIsCounted(t *testing.T) {
	t.Parallel()

	scanner := newFakeScanner(map[string][]discover.Candidate{"integration": {
		{Name: "qa", Path: "qa", Runnable: true},
		{Name: "qb", Path: "qb", Runnable: true},
		{Name: "qc", Path: "qc", Runnable: true},
	}})
	r := &fakeRunner{tests: map[string]fakeTest{
		"qa": {lines: []string{"PASS   : a()"}, outcome: runner.Outcome{Signal: 11}},
		"qb": {outcome: runner.Outcome{Err: errors.New("exec format error")}},
		"qc": {outcome: runner.Outcome{ExitCode: 3}},
	}}

	var buf bytes.Buffer
	totals := newHarness(&buf, scanner, r).RunDirs(context.Background(), []string{"integration"})

	assert.Equal(t, 2, totals.Crashes)
	assert.Equal(t, 1, totals.Passes)
	assert.Equal(t, []string{"qa", "qb", "qc"}, totals.Run)
	assert.Contains(t, buf.String(), "Error: 'qa' exited with signal 11\n")
	assert.Contains(t, buf.String(), "Got an exception running 'qb': exec format error \n")
}

func TestRunDirs_UnscannableDirectoryIsSkipped(t *testing.T) {
	t.Parallel()

	scanner := newFakeScanner(map[string][]discover.Candidate{"integration": {{Name: "qok", Path: "qok", Runnable: true}}})
	r := &fakeRunner{tests: map[string]fakeTest{"qok": {lines: []string{"XPASS  : ok()"}}}}

	var buf bytes.Buffer
	totals := newHarness(&buf, scanner, r).RunDirs(context.Background(), []string{"unit", "integration"})

	assert.Equal(t, []string{"qok"}, r.ran)
	assert.Equal(t, 1, totals.Unexpected)
	assert.Contains(t, buf.String(), "── Unit ─")
	assert.Contains(t, buf.String(), "── Integration ─")
}

func TestRunDirs_StopsWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanner := newFakeScanner(map[string][]discover.Candidate{
		"unit":        {{Name: "qfirst", Path: "qfirst", Runnable: true}, {Name: "qsecond", Path: "qsecond", Runnable: true}},
		"integration": {{Name: "qthird", Path: "qthird", Runnable: true}},
	})
	r := &fakeRunner{tests: map[string]fakeTest{
		"qfirst": {before: cancel, outcome: runner.Outcome{Signal: 2, Interrupted: true}},
	}}

	totals := newHarness(io.Discard, scanner, r).RunDirs(ctx, []string{"unit", "integration"})

	assert.Equal(t, []string{"qfirst"}, r.ran)
	assert.True(t, totals.Interrupted)
	assert.Zero(t, totals.Crashes)
	assert.Equal(t, []string{"qfirst"}, totals.Run)
}

func TestRunDirs_ChecksExecutableJustBeforeLaunch(t *testing.T) {
	t.Parallel()

	scanner := newFakeScanner(map[string][]discover.Candidate{"unit": {
		{Name: "qbuild", Path: "qbuild", Runnable: true},
		{Name: "qlater", Path: "qlater"},
		{Name: "qremoved", Path: "qremoved", Runnable: true},
	}})
	r := &fakeRunner{tests: map[string]fakeTest{
		"qbuild": {before: func() {
			scanner.present["qlater"] = true
			delete(scanner.present, "qremoved")
		}},
	}}

	totals := newHarness(io.Discard, scanner, r).RunDirs(context.Background(), []string{"unit"})

	assert.Equal(t, []string{"qbuild", "qlater"}, r.ran)
	assert.Equal(t, []string{"qbuild", "qlater"}, totals.Run)
	assert.Equal(t, []string{"qremoved"}, totals.NotRun)
}

func TestTotals_Apply(t *testing.T) {
	t.Parallel()

	var totals Totals
	for _, line := range []string{
		"PASS   : a()",
		"FAIL!  : b()",
		"XFAIL  : c()",
		"XPASS  : d()",
		"QFATAL : e()",
		"QDEBUG : f()",
		"QWARN  : g()",
		"SKIP   : h()",
		"********* Start testing of tst_QBar *********",
	} {
		totals.Apply(classify.Classify(line))
	}

	assert.Equal(t, 1, totals.Passes)
	assert.Equal(t, 1, totals.Failures)
	assert.Equal(t, 3, totals.Unexpected)
	assert.Equal(t, "tst_QBar", totals.CurrentTest)
}

func TestTotals_WriteSummary_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&Totals{}).WriteSummary(&buf))
	assert.Equal(t, "Total of all tests: 0 passes, 0 failures, 0 unexpected, 0 badnesses.\n"+
		"No test cases were run!\n"+
		"All test cases were run.\n", buf.String())
	assert.True(t, (&Totals{}).Clean())
}

func TestHeader(t *testing.T) {
	t.Parallel()

	h := header("/src/qt/tests/auto/integration", 40)
	assert.True(t, strings.HasPrefix(h, "── Integration ─"), h)
	assert.Equal(t, 40, runewidth.StringWidth(h))

	assert.Equal(t, DefaultWidth, runewidth.StringWidth(header("unit", 0)))
	assert.Equal(t, "── Qmultimedia ───", header("qmultimedia", 5))
	assert.Equal(t, "Unit", title("unit/"))
}
