package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nextart/internal/imaging"
)

// renderImage draws buf as half-block characters, packing two image rows
// into each terminal line. The image is scaled down to fit maxCols x
// maxRows cells before drawing.
func renderImage(buf *imaging.Buffer, maxCols, maxRows int) string {
	if buf == nil || maxCols <= 0 || maxRows <= 0 {
		return ""
	}
	scaled := imaging.Scale(buf, maxCols, maxRows*2)

	var b strings.Builder
	for y := 0; y < scaled.Height; y += 2 {
		for x := 0; x < scaled.Width; x++ {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(cellColor(scaled, x, y)))
			if y+1 < scaled.Height {
				style = style.Background(lipgloss.Color(cellColor(scaled, x, y+1)))
			}
			b.WriteString(style.Render("▀"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func cellColor(buf *imaging.Buffer, x, y int) string {
	r, g, b, a := buf.RGBAAt(x, y)
	if a == 0 {
		return "#000000"
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
