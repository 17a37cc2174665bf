// Package magetasks holds the build, test and lint tasks behind the
// Magefile, so the Magefile itself stays a thin list of targets.
package magetasks
