package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/san-kum/lifenet/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	if w, h := c.Dots(); w != 4 || h != 4 {
		t.Fatalf("expected 4x4 dots, got %dx%d", w, h)
	}

	c.Set(1, 3)
	if !c.IsSet(1, 3) {
		t.Error("expected dot to be set")
	}
	if c.Grid[0][0] != brailleBase+0x80 {
		t.Errorf("expected %U, got %U", brailleBase+0x80, c.Grid[0][0])
	}

	c.Unset(1, 3)
	if c.IsSet(1, 3) || c.Grid[0][0] != brailleBase {
		t.Error("expected dot to be cleared")
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	if blank := strings.Repeat(string(rune(brailleBase)), 2) + "\n"; c.String() != blank {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for x := 0; x < 8; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("expected dot %d set", x)
		}
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera(100)
	x, y, _, ok := cam.Project(r3.Vec{}, 80, 40)
	if !ok || x != 40 || y != 20 {
		t.Errorf("expected origin at (40, 20), got (%d, %d) ok=%v", x, y, ok)
	}

	x, y, _, ok = cam.Project(r3.Vec{X: 100}, 80, 40)
	if !ok || x != 50 || y != 20 {
		t.Errorf("expected extent a quarter side right of centre, got (%d, %d)", x, y)
	}

	_, y, _, _ = cam.Project(r3.Vec{Y: 100}, 80, 40)
	if y >= 20 {
		t.Errorf("expected +y above centre, got %d", y)
	}

	_, _, _, ok = cam.Project(r3.Vec{Z: 1000}, 80, 40)
	if ok {
		t.Error("expected point behind the camera to be hidden")
	}
}

func TestRenderNetwork(t *testing.T) {
	snap := sim.Snapshot{
		Bounds: 100,
		Nodes: []sim.NodeSnapshot{
			{Pos: [3]float64{-50, 0, 0}, Alive: true, Connections: []int{1}},
			{Pos: [3]float64{50, 0, 0}, Alive: true, Connections: []int{0}},
			{Pos: [3]float64{0, 80, 0}, Fade: 0.9},
		},
	}
	c := NewCanvas(40, 20)
	cam := NewCamera(100)
	RenderNetwork(c, snap, cam)

	cw, ch := c.Dots()
	x0, y0, _, _ := cam.Project(r3.Vec{X: -50}, cw, ch)
	x1, _, _, _ := cam.Project(r3.Vec{X: 50}, cw, ch)
	for x := x0; x <= x1; x++ {
		if !c.IsSet(x, y0) {
			t.Fatalf("expected edge to cover x=%d", x)
		}
	}
	xf, yf, _, _ := cam.Project(r3.Vec{Y: 80}, cw, ch)
	if c.IsSet(xf, yf) {
		t.Error("expected a nearly faded node to be hidden")
	}
}

func TestBoundsWireframe(t *testing.T) {
	w := BoundsWireframe(10)
	if len(w.Segments) != 12 {
		t.Errorf("expected 12 edges, got %d", len(w.Segments))
	}
}

func newModel(t *testing.T) Model {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.Layout.NodeCount = 20
	w, err := sim.NewWorld(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(w, 0)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTicks(t *testing.T) {
	m := newModel(t)
	for i := 0; i < 5; i++ {
		m = update(m, TickMsg{})
	}
	if m.world.FrameCount() != 5 {
		t.Errorf("expected 5 frames, got %d", m.world.FrameCount())
	}
	if len(m.alive) != 5 {
		t.Errorf("expected 5 history points, got %d", len(m.alive))
	}

	m = update(m, key(" "))
	m = update(m, TickMsg{})
	if m.world.FrameCount() != 5 {
		t.Error("expected no frame while paused")
	}
	m = update(m, key("n"))
	if m.world.FrameCount() != 6 {
		t.Error("expected single step while paused")
	}
}

func TestModelTuning(t *testing.T) {
	m := newModel(t)
	before := m.world.Params().Repulsion
	m = update(m, key("up"))
	if got := m.world.Params().Repulsion; got <= before {
		t.Errorf("expected repulsion above %g, got %g", before, got)
	}

	m = update(m, key("tab"))
	m = update(m, key("tab"))
	m = update(m, key("up"))
	if m.world.Speed() <= sim.DefaultSpeed {
		t.Errorf("expected speed raised, got %g", m.world.Speed())
	}
}

func TestModelNodeControls(t *testing.T) {
	m := newModel(t)
	m = update(m, key("d"))
	if m.world.AliveAt(0) {
		t.Error("expected cursor node killed")
	}
	m = update(m, key("v"))
	if !m.world.AliveAt(0) {
		t.Error("expected cursor node revived")
	}

	n := m.world.Len()
	m = update(m, key("a"))
	if m.world.Len() != n+1 || m.cursor != n {
		t.Errorf("expected node added under cursor, got len %d cursor %d", m.world.Len(), m.cursor)
	}

	m = update(m, key("]"))
	if m.cursor != 0 {
		t.Errorf("expected cursor to wrap, got %d", m.cursor)
	}
}

func TestModelReload(t *testing.T) {
	m := newModel(t)
	cfg := m.world.Config()
	cfg.Speed = 3
	cfg.Layout.Repulsion = 2

	m = update(m, ReloadMsg{Config: cfg})
	if m.world.Speed() != 3 || m.world.Params().Repulsion != 2 {
		t.Error("expected reloaded parameters applied")
	}

	m = update(m, ReloadMsg{Err: errors.New("bad yaml")})
	if !strings.Contains(m.status, "bad yaml") {
		t.Errorf("expected reload error in status, got %q", m.status)
	}
}

func TestModelView(t *testing.T) {
	m := newModel(t)
	m = update(m, TickMsg{})
	m = update(m, TickMsg{})
	view := m.View()
	for _, want := range []string{"LIFENET", "Generation", "repulsion"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
