// Package classify recognizes the structured markers QTestLib-style test
// executables print and reports which span of a line should be highlighted.
//
// Classification is a pure function of the line. Counting and rendering
// are left to callers.
package classify

import "regexp"

// Category identifies the kind of marker a line carries.
type Category int

const (
	None Category = iota
	StartBanner
	Pass
	Fail
	XFail
	XPass
	Fatal
	Debug
	Warn
	FinishBanner
)

var categoryNames = map[Category]string{
	None:         "none",
	StartBanner:  "start",
	Pass:         "pass",
	Fail:         "fail",
	XFail:        "xfail",
	XPass:        "xpass",
	Fatal:        "fatal",
	Debug:        "debug",
	Warn:         "warn",
	FinishBanner: "finish",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// Role is the color role a category is rendered with.
type Role int

const (
	RoleNone Role = iota
	RoleInfo
	RoleSuccess
	RoleAlert
	RoleAlertFg
	RoleDim
	RoleWarning
)

// Counter names the run-wide accumulator a category feeds.
type Counter int

const (
	NoCounter Counter = iota
	CountPass
	CountFail
	CountUnexpected
	CaptureName
)

// Rule is one entry of the ordered classification table.
// Group 0 highlights the whole line; any other value highlights that
// capture group only.
type Rule struct {
	Re       *regexp.Regexp
	Category Category
	Role     Role
	Group    int
	Counter  Counter
}

// Rules is the fixed priority order. The first match wins.
var Rules = []Rule{
	{regexp.MustCompile(`^\*{9} Start testing of (\S+)`), StartBanner, RoleInfo, 1, CaptureName},
	{regexp.MustCompile(`^(PASS) `), Pass, RoleSuccess, 1, CountPass},
	{regexp.MustCompile(`^(FAIL!) `), Fail, RoleAlert, 0, CountFail},
	{regexp.MustCompile(`^(XFAIL) `), XFail, RoleAlertFg, 1, CountUnexpected},
	{regexp.MustCompile(`^(XPASS) `), XPass, RoleAlertFg, 1, CountUnexpected},
	{regexp.MustCompile(`^(QFATAL) `), Fatal, RoleAlert, 0, CountUnexpected},
	{regexp.MustCompile(`^(QDEBUG) `), Debug, RoleDim, 0, NoCounter},
	{regexp.MustCompile(`^(QWARN) `), Warn, RoleWarning, 1, NoCounter},
	{regexp.MustCompile(`^\*{9} Finished testing of (\S+)`), FinishBanner, RoleInfo, 1, CaptureName},
}

// Match is the result of classifying one line.
type Match struct {
	Category Category
	Role     Role
	Counter  Counter
	// Start and End bound the highlighted span in bytes. For whole-line
	// rules they cover the entire line.
	Start, End int
	Whole      bool
	// Name is the test case captured from a start or finish banner.
	Name string
}

// Matched reports whether any rule fired.
func (m Match) Matched() bool {
	return m.Category != None
}

// Classify runs line through Rules and returns the first match. The line
// must not carry its trailing newline.
func Classify(line string) Match {
	for _, r := range Rules {
		loc := r.Re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		m := Match{
			Category: r.Category,
			Role:     r.Role,
			Counter:  r.Counter,
		}
		if r.Group == 0 {
			m.Start, m.End, m.Whole = 0, len(line), true
		} else {
			m.Start, m.End = loc[2*r.Group], loc[2*r.Group+1]
		}
		if r.Counter == CaptureName {
			m.Name = line[loc[2]:loc[3]]
		}
		return m
	}
	return Match{}
}
