package harness

import (
	"fmt"
	"io"
	"strings"

	"github.com/dkoosis/runautotests/internal/runner"
	"github.com/dkoosis/runautotests/pkg/classify"
)

// Totals accumulates the results of one invocation. It is created zeroed
// and read once, by WriteSummary, after the last test has finished.
type Totals struct {
	Passes     int
	Failures   int
	Unexpected int
	Crashes    int

	// CurrentTest is the name captured by the latest start or finish banner.
	CurrentTest string

	Run    []string
	NotRun []string

	// Interrupted is set when the run stopped before every candidate ran.
	Interrupted bool
}

// Apply updates the counter a classified line feeds.
func (t *Totals) Apply(m classify.Match) {
	switch m.Counter {
	case classify.CountPass:
		t.Passes++
	case classify.CountFail:
		t.Failures++
	case classify.CountUnexpected:
		t.Unexpected++
	case classify.CaptureName:
		t.CurrentTest = m.Name
	}
}

// Record counts o as a crash when it is one and reports whether it was.
func (t *Totals) Record(o runner.Outcome) bool {
	if !o.Crashed() {
		return false
	}
	t.Crashes++
	return true
}

// Clean reports whether nothing went wrong: no failures, no unexpected
// results and no crashes.
func (t *Totals) Clean() bool {
	return t.Failures == 0 && t.Unexpected == 0 && t.Crashes == 0
}

// WriteSummary prints the closing report.
func (t *Totals) WriteSummary(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total of all tests: %d passes, %d failures, %d unexpected, %d badnesses.\n",
		t.Passes, t.Failures, t.Unexpected, t.Crashes)

	if len(t.Run) > 0 {
		b.WriteString("The following test cases were run: \n")
		for _, name := range t.Run {
			b.WriteString(name + "\n")
		}
	} else {
		b.WriteString("No test cases were run!\n")
	}

	if len(t.NotRun) > 0 {
		b.WriteString("The following test cases could not be run: \n")
		for _, name := range t.NotRun {
			b.WriteString(name + "\n")
		}
	} else {
		b.WriteString("All test cases were run.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
