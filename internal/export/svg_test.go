package export

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/san-kum/lifenet/internal/sim"
	"github.com/san-kum/lifenet/internal/viz"
)

func wellFormed(t *testing.T, svg string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("malformed svg: %v", err)
		}
	}
}

func TestNetworkToSVG(t *testing.T) {
	snap := sim.Snapshot{
		Bounds: 100,
		Nodes: []sim.NodeSnapshot{
			{ID: 0, Pos: [3]float64{0, 0, 0}, Alive: true, Connections: []int{1}},
			{ID: 1, Pos: [3]float64{50, 50, 0}, Alive: true, Connections: []int{0, 2}},
			{ID: 2, Pos: [3]float64{-50, 20, 0}, Fade: 0.5, Connections: []int{1}},
		},
	}

	svg := NetworkToSVG(snap, 400)
	wellFormed(t, svg)

	if got := strings.Count(svg, "<line"); got != 2 {
		t.Errorf("expected 2 edges, got %d", got)
	}
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("expected 3 nodes, got %d", got)
	}
	if !strings.Contains(svg, `cx="200.0" cy="200.0"`) {
		t.Error("expected the origin at the centre of the view")
	}
	if !strings.Contains(svg, `fill-opacity="0.50"`) {
		t.Error("expected the fading node half transparent")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)

	svg := CanvasToSVG(c, 2)
	wellFormed(t, svg)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{3, 5, 4, 8}, 300, 100, "#ff0")
	wellFormed(t, svg)
	if strings.Count(svg, " L") != 3 {
		t.Error("expected three line segments")
	}
	if SeriesToSVG([]float64{1}, 300, 100, "#ff0") != "" {
		t.Error("expected empty output for a single sample")
	}
}
