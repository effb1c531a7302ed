package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"profview/internal/domain"
	"profview/internal/render"
)

var partialBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

type cell struct {
	r    rune
	fg   domain.ColorTag
	bg   domain.ColorTag
	bold bool
}

// canvas is a terminal cell grid implementing render.Backend; one cell is
// one pixel.
type canvas struct {
	width  int
	height int
	cells  []cell
}

func newCanvas(width, height int) *canvas {
	width = max(width, 0)
	height = max(height, 0)
	cells := make([]cell, width*height)
	for i := range cells {
		cells[i].r = ' '
	}
	return &canvas{width: width, height: height, cells: cells}
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return nil
	}
	return &c.cells[y*c.width+x]
}

// FillRect paints full rects as background. A partial fill becomes a bar
// rising from the bottom of the rect in eighth-cell steps.
func (c *canvas) FillRect(rect render.Rect) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	eighths := rect.H * 8
	if rect.Fill < 1 {
		eighths = int(math.Round(rect.Fill * float64(rect.H*8)))
		if rect.Fill > 0 {
			eighths = max(eighths, 1)
		}
	}
	for dy := 0; dy < rect.H; dy++ {
		fromBottom := rect.H - 1 - dy
		level := min(max(eighths-fromBottom*8, 0), 8)
		if level == 0 {
			continue
		}
		for dx := 0; dx < rect.W; dx++ {
			target := c.at(rect.X+dx, rect.Y+dy)
			if target == nil {
				continue
			}
			if level == 8 {
				target.r = ' '
				target.bg = rect.Color
				continue
			}
			target.r = partialBlocks[level]
			target.fg = rect.Color
		}
	}
}

func (c *canvas) DrawText(text render.Text) {
	x := text.X
	for _, r := range text.Text {
		if target := c.at(x, text.Y); target != nil {
			target.r = r
			target.fg = text.Color
			target.bold = text.Bold
		}
		x++
	}
}

// Rune returns the character at a cell, for tests.
func (c *canvas) Rune(x, y int) rune {
	if target := c.at(x, y); target != nil {
		return target.r
	}
	return 0
}

func (c *canvas) Background(x, y int) domain.ColorTag {
	if target := c.at(x, y); target != nil {
		return target.bg
	}
	return ""
}

// String renders rows, grouping runs of identically styled cells.
func (c *canvas) String() string {
	lines := make([]string, c.height)
	for y := 0; y < c.height; y++ {
		var line strings.Builder
		row := c.cells[y*c.width : (y+1)*c.width]
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && sameStyle(row[start], row[end]) {
				end++
			}
			var run strings.Builder
			for _, each := range row[start:end] {
				run.WriteRune(each.r)
			}
			line.WriteString(styleFor(row[start]).Render(run.String()))
			start = end
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.bold == b.bold
}

func styleFor(c cell) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(c.bold)
	if c.fg != "" {
		style = style.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		style = style.Background(lipgloss.Color(c.bg))
	}
	return style
}
