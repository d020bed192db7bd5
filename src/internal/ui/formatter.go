package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// Truncate cuts a string down to the given display width, counting
// terminal cells rather than bytes so wide runes survive intact.
func Truncate(str string, width int) string {
	return runewidth.Truncate(str, width, "...")
}

// Oneline flattens a multi-line body into a single table-friendly line
func Oneline(str string) string {
	return strings.Join(strings.Fields(str), " ")
}
