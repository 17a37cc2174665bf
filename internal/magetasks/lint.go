package magetasks

import (
	"errors"
	"fmt"
)

const golangciDisabled = "--disable=exhaustruct,varnamelen,ireturn,wrapcheck,nlreturn,gochecknoglobals,mnd,depguard,tagalign"

// LintAll runs every linter. Linters that are not installed are skipped.
func LintAll() error {
	var errs []error
	for _, lint := range []func() error{LintFormat, LintVet, LintStaticcheck, LintGolangci} {
		if err := lint(); err != nil && !IsCommandNotFound(err) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	PrintSuccess("All linters passed")
	return nil
}

// LintFormat runs go fmt.
func LintFormat() error {
	return run("Go Format", "Formatted", "go", "fmt", "./...")
}

// LintVet runs go vet.
func LintVet() error {
	return run("Go Vet", "Vet clean", "go", "vet", "./...")
}

// LintStaticcheck runs staticcheck.
func LintStaticcheck() error {
	return optional(run("Staticcheck", "Staticcheck clean", "staticcheck", "./..."),
		"Staticcheck not found (install: go install honnef.co/go/tools/cmd/staticcheck@latest)")
}

// LintGolangci runs golangci-lint.
func LintGolangci() error {
	return optional(run("Golangci-lint", "Golangci-lint clean", "golangci-lint", "run", golangciDisabled, "--timeout=5m", "./..."),
		"Golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
}

// optional turns a missing tool into a warning while keeping the error so
// callers can still tell the linter did not run.
func optional(err error, hint string) error {
	if err == nil {
		return nil
	}
	if IsCommandNotFound(err) {
		PrintWarning(hint)
		return err
	}
	return fmt.Errorf("lint failed: %w", err)
}
