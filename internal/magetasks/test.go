package magetasks

import "github.com/magefile/mage/sh"

// TestAll runs all tests.
func TestAll() error {
	return run("Tests", "All tests passed", "go", "test", "./...")
}

// TestCoverage runs tests with coverage and prints the per-function report.
func TestCoverage() error {
	if err := run("Test Coverage", "Coverage report generated", "go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	_ = sh.RunV("go", "tool", "cover", "-func=coverage.out")
	return nil
}

// TestRace runs tests with the race detector.
func TestRace() error {
	return run("Race Detector", "No race conditions detected", "go", "test", "-race", "./...")
}

// run prints a header, runs the command with output attached and reports
// the result.
func run(title, success, cmd string, args ...string) error {
	PrintHeader(title)
	if err := sh.RunV(cmd, args...); err != nil {
		PrintError(title + " failed")
		return err
	}
	PrintSuccess(success)
	return nil
}
