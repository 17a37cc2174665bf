package harness

import (
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultWidth is the header width used when the terminal size is unknown.
const DefaultWidth = 72

const rule = "─"

// header returns "── Unit ─────…" filling width display columns.
func header(dir string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	label := rule + rule + " " + title(dir) + " "
	fill := (width - runewidth.StringWidth(label)) / runewidth.StringWidth(rule)
	if fill < 3 {
		fill = 3
	}
	return label + strings.Repeat(rule, fill)
}

// title turns the directory's base name into a heading: "unit" is "Unit".
func title(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	if base == "." || base == string(filepath.Separator) {
		base = dir
	}
	return cases.Title(language.English).String(base)
}
