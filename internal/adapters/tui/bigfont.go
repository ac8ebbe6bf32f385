package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphRows = 5

// digitMap holds the block glyph for each digit and the colon.
var digitMap = map[rune][glyphRows]string{
	'0': {
		"████",
		"█  █",
		"█  █",
		"█  █",
		"████",
	},
	'1': {
		" █ ",
		"██ ",
		" █ ",
		" █ ",
		"███",
	},
	'2': {
		"████",
		"   █",
		"████",
		"█   ",
		"████",
	},
	'3': {
		"████",
		"   █",
		"████",
		"   █",
		"████",
	},
	'4': {
		"█  █",
		"█  █",
		"████",
		"   █",
		"   █",
	},
	'5': {
		"████",
		"█   ",
		"████",
		"   █",
		"████",
	},
	'6': {
		"████",
		"█   ",
		"████",
		"█  █",
		"████",
	},
	'7': {
		"████",
		"   █",
		"  █ ",
		" █  ",
		" █  ",
	},
	'8': {
		"████",
		"█  █",
		"████",
		"█  █",
		"████",
	},
	'9': {
		"████",
		"█  █",
		"████",
		"   █",
		"████",
	},
	':': {
		" ",
		"█",
		" ",
		"█",
		" ",
	},
}

// renderBigClock draws an MM:SS string in block digits. Narrow terminals
// get a single bold line instead.
func renderBigClock(clock string, style lipgloss.Style, width int) string {
	if width < 40 {
		return style.Bold(true).Render(clock)
	}

	var rows [glyphRows]string
	for _, ch := range clock {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		for i := range rows {
			if rows[i] != "" {
				rows[i] += " "
			}
			rows[i] += glyph[i]
		}
	}

	style = style.Bold(true)
	lines := make([]string, glyphRows)
	for i, row := range rows {
		lines[i] = style.Render(row)
	}
	return strings.Join(lines, "\n")
}
