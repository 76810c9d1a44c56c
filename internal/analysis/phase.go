package analysis

import (
	"strings"
)

// PhasePortrait2D pairs two series sample by sample, for example alive
// count against edge count.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []struct{ X, Y float64 }
}

// NewPhasePortrait zips xs and ys, truncating to the shorter.
func NewPhasePortrait(xLabel string, xs []float64, yLabel string, ys []float64) *PhasePortrait2D {
	n := min(len(xs), len(ys))
	portrait := &PhasePortrait2D{
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]struct{ X, Y float64 }, n),
	}
	for i := 0; i < n; i++ {
		portrait.Points[i].X = xs[i]
		portrait.Points[i].Y = ys[i]
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Later points overwrite earlier ones; the last is marked.
	for i, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		if i == len(portrait.Points)-1 {
			canvas[row][col] = '●'
		} else {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	if portrait.YLabel != "" {
		sb.WriteString(portrait.YLabel)
		sb.WriteRune('\n')
	}
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	if portrait.XLabel != "" {
		sb.WriteString(strings.Repeat(" ", max(0, width-len(portrait.XLabel))))
		sb.WriteString(portrait.XLabel)
		sb.WriteRune('\n')
	}
	return sb.String()
}
