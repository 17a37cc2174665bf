package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Mode is how the invocation decided which directories to scan.
type Mode int

const (
	// ModeUnit runs the working directory, which ends in "unit".
	ModeUnit Mode = iota + 1
	// ModeIntegration runs the working directory, which ends in "integration".
	ModeIntegration
	// ModeBoth runs ./unit then ./integration from a directory ending in "auto".
	ModeBoth
	// ModeExplicitPath runs the single directory named on the command line.
	ModeExplicitPath
)

func (m Mode) String() string {
	switch m {
	case ModeUnit:
		return "unit"
	case ModeIntegration:
		return "integration"
	case ModeBoth:
		return "both"
	case ModeExplicitPath:
		return "path"
	default:
		return "unknown"
	}
}

// Invocation errors. Callers print the usage instructions for each.
var (
	ErrWrongDirectory = errors.New("not an autotest directory")
	ErrTooManyArgs    = errors.New("too many arguments")
	ErrPathNotFound   = errors.New("test cases do not exist")
)

// Plan is the resolved set of directories to scan, in order.
type Plan struct {
	Mode Mode
	Dirs []string
}

// ResolvePlan decides the run from the positional arguments and the
// working directory. The suffix checks are plain string suffixes, so
// "/src/myunit" selects ModeUnit.
func ResolvePlan(args []string, cwd string) (Plan, error) {
	switch len(args) {
	case 0:
		switch {
		case strings.HasSuffix(cwd, "auto"):
			return Plan{Mode: ModeBoth, Dirs: []string{"unit", "integration"}}, nil
		case strings.HasSuffix(cwd, "unit"):
			return Plan{Mode: ModeUnit, Dirs: []string{cwd}}, nil
		case strings.HasSuffix(cwd, "integration"):
			return Plan{Mode: ModeIntegration, Dirs: []string{cwd}}, nil
		default:
			return Plan{}, fmt.Errorf("%w: %s", ErrWrongDirectory, cwd)
		}
	case 1:
		if _, err := os.Stat(args[0]); err != nil {
			return Plan{}, fmt.Errorf("%w: %s", ErrPathNotFound, args[0])
		}
		return Plan{Mode: ModeExplicitPath, Dirs: []string{args[0]}}, nil
	default:
		return Plan{}, fmt.Errorf("%w: got %d", ErrTooManyArgs, len(args))
	}
}
