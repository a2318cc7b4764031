package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type glyph struct {
	r       rune
	width   int
	isSpace bool
}

func toGlyphs(text string) []glyph {
	out := make([]glyph, 0, len(text))
	for _, r := range text {
		out = append(out, glyph{r: r, width: runewidth.RuneWidth(r), isSpace: r == ' '})
	}
	return out
}

func renderGlyphs(glyphs []glyph) string {
	var b strings.Builder
	for _, g := range glyphs {
		b.WriteRune(g.r)
	}
	return b.String()
}

// wrapText breaks text at spaces so no line is wider than width display
// columns. Words longer than width are split.
func wrapText(text string, width int) string {
	glyphs := toGlyphs(text)
	if width <= 0 {
		return renderGlyphs(glyphs)
	}
	var out strings.Builder
	line := make([]glyph, 0, len(glyphs))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(glyphs); {
		item := glyphs[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				out.WriteString(renderGlyphs(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
				continue
			}
			if lastSpaceIdx >= 0 {
				out.WriteString(renderGlyphs(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]glyph{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderGlyphs(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderGlyphs(line))
	return out.String()
}

func lineWidthOf(line []glyph) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []glyph) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// padCell centers s in a cell of width display columns.
func padCell(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
