package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/lifenet/internal/sim"
	"github.com/san-kum/lifenet/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// NetworkToSVG draws the snapshot projected onto the xy-plane. The view
// spans twice the layout bounds so contained nodes always fit.
func NetworkToSVG(snap sim.Snapshot, size int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, size, size, size, size)

	bounds := snap.Bounds
	if bounds <= 0 {
		bounds = 1
	}
	project := func(p [3]float64) (float64, float64) {
		x := (p[0] + 2*bounds) / (4 * bounds) * float64(size)
		y := float64(size) - (p[1]+2*bounds)/(4*bounds)*float64(size)
		return x, y
	}

	sb.WriteString(`<g stroke="#3a5a7a" stroke-width="0.8">` + "\n")
	for _, e := range snap.Edges() {
		x1, y1 := project(snap.Nodes[e[0]].Pos)
		x2, y2 := project(snap.Nodes[e[1]].Pos)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y1, x2, y2)
	}
	sb.WriteString("</g>\n")

	for _, n := range snap.Nodes {
		x, y := project(n.Pos)
		if n.Alive {
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="#00ff88"/>`+"\n", x, y)
			continue
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="#777777" fill-opacity="%.2f"/>`+"\n", x, y, 1-n.Fade)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a series against its sample index, e.g. the alive
// count of a run.
func SeriesToSVG(series []float64, width, height int, strokeColor string) string {
	if len(series) < 2 {
		return ""
	}

	minY, maxY := series[0], series[0]
	for _, v := range series {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	last := float64(len(series) - 1)
	for i, v := range series {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
