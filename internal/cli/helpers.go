package cli

import (
	"bufio"
	"io"
	"strings"
)

const barWidth = 30 // Characters for the level progress bar

// levelBar renders a terminal progress bar: [=======>............]
func levelBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := percent * barWidth / 100
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	if filled == barWidth {
		return "[" + strings.Repeat("=", filled) + "]"
	}
	if filled > 0 {
		return "[" + strings.Repeat("=", filled-1) + ">" + strings.Repeat(".", empty) + "]"
	}
	return "[" + strings.Repeat(".", barWidth) + "]"
}

// newLineScanner creates a line scanner from a reader.
func newLineScanner(r io.Reader) *bufio.Scanner {
	return bufio.NewScanner(r)
}
