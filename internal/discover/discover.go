// Package discover finds test-case executables under an autotest
// directory such as tests/auto/unit.
package discover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/natural"
)

// Layout describes where the build system puts a test executable relative
// to its candidate directory.
type Layout int

const (
	// LayoutAuto picks LayoutDebug on Windows and LayoutFlat elsewhere.
	LayoutAuto Layout = iota
	// LayoutDebug is ROOT\NAME\debug\tst_NAME.exe.
	LayoutDebug
	// LayoutFlat is ROOT/NAME/tst_NAME.
	LayoutFlat
)

// ParseLayout maps a config value to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return LayoutAuto, nil
	case "debug":
		return LayoutDebug, nil
	case "flat":
		return LayoutFlat, nil
	default:
		return LayoutAuto, fmt.Errorf("unknown layout %q (expected auto, debug, flat)", s)
	}
}

func (l Layout) resolve() Layout {
	if l != LayoutAuto {
		return l
	}
	if runtime.GOOS == "windows" {
		return LayoutDebug
	}
	return LayoutFlat
}

// Defaults used when the config does not override them.
const (
	DefaultPrefix           = "q"
	DefaultExecutablePrefix = "tst_"
)

// DefaultExclusions are directory name fragments that are never run.
var DefaultExclusions = []string{"qdeclarativevideo", "qmultimedia_common"}

// Candidate is a directory believed to contain a test executable.
// Runnable reflects the filesystem at scan time; see Discoverer.Runnable.
type Candidate struct {
	Name     string
	Path     string
	Runnable bool
}

// Options configures a Discoverer.
type Options struct {
	Prefix           string
	ExecutablePrefix string
	Exclusions       []string
	Layout           Layout
	NaturalSort      bool
}

// Discoverer scans autotest directories.
type Discoverer struct {
	opts   Options
	logger *log.Logger
}

// New creates a Discoverer. Empty options fall back to the defaults.
func New(opts Options, logger *log.Logger) *Discoverer {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.ExecutablePrefix == "" {
		opts.ExecutablePrefix = DefaultExecutablePrefix
	}
	if opts.Exclusions == nil {
		opts.Exclusions = DefaultExclusions
	}
	opts.Layout = opts.Layout.resolve()
	return &Discoverer{opts: opts, logger: logger}
}

// Excluded reports whether name contains any exclusion fragment.
func (d *Discoverer) Excluded(name string) bool {
	for _, frag := range d.opts.Exclusions {
		if frag != "" && strings.Contains(name, frag) {
			return true
		}
	}
	return false
}

// ExecutablePath returns where the test executable for name is expected
// under root.
func (d *Discoverer) ExecutablePath(root, name string) string {
	exe := d.opts.ExecutablePrefix + name
	if d.opts.Layout == LayoutDebug {
		// Joined by hand so the Windows layout is identical on every host.
		return root + `\` + name + `\debug\` + exe + ".exe"
	}
	return filepath.Join(root, name, exe)
}

// Scan lists the immediate entries of root and returns the candidates in
// the order the filesystem reports them. Excluded names are dropped
// entirely.
func (d *Discoverer) Scan(ctx context.Context, root string) ([]Candidate, error) {
	names, err := readNames(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if d.opts.NaturalSort {
		sort.SliceStable(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	}

	var candidates []Candidate
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return candidates, err
		}
		if !strings.HasPrefix(name, d.opts.Prefix) {
			continue
		}
		if d.Excluded(name) {
			d.logger.Debug("excluded", "name", name)
			continue
		}
		path := d.ExecutablePath(root, name)
		c := Candidate{Name: name, Path: path, Runnable: d.Runnable(path)}
		d.logger.Debug("candidate", "name", name, "path", path, "runnable", c.Runnable)
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// readNames returns directory entry names unsorted; os.ReadDir would sort
// them.
func readNames(root string) ([]string, error) {
	f, err := os.Open(root) // #nosec G304 - scan root comes from the invocation
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

// Runnable reports whether the executable at path exists now. Earlier
// tests may create or remove later ones, so callers check again just
// before launching.
func (d *Discoverer) Runnable(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
