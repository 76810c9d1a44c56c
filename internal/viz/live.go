package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifenet/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	tuneStep        = 1.05
	rotateStep      = 0.1
	spawnOffset     = 25.0
)

var paramNames = []string{"repulsion", "connection_distance", "speed"}

type TickMsg time.Time

// ReloadMsg carries a world config read from disk while the viewer runs.
type ReloadMsg struct {
	Config sim.Config
	Err    error
}

// Model drives a World one frame per tick and draws it.
type Model struct {
	world    *sim.World
	canvas   *Canvas
	camera   *Camera
	frameDur float64
	now      float64
	running  bool
	bounds   bool
	showHelp bool
	selected int
	cursor   int
	alive    []float64
	last     sim.FrameReport
	births   int
	deaths   int
	status   string
	reloads  <-chan ReloadMsg
}

func NewModel(w *sim.World, frameDuration float64) Model {
	if frameDuration <= 0 {
		frameDuration = sim.DefaultFrameDuration
	}
	return Model{
		world:    w,
		canvas:   NewCanvas(width, height),
		camera:   NewCamera(w.Config().Layout.Bounds),
		frameDur: frameDuration,
		running:  true,
		alive:    make([]float64, 0, historyCapacity),
	}
}

// WithReloads makes the viewer apply every config received on ch.
func (m Model) WithReloads(ch <-chan ReloadMsg) Model {
	m.reloads = ch
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitReload(ch <-chan ReloadMsg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitReload(m.reloads))
}

// Update handles input events and advances the world.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(paramNames)
		case "up", "k":
			m.adjustParam(tuneStep)
		case "down", "j":
			m.adjustParam(1 / tuneStep)
		case "[":
			m.moveCursor(-1)
		case "]":
			m.moveCursor(1)
		case "d":
			m.report(m.world.Kill(m.cursor))
		case "v":
			m.report(m.world.Revive(m.cursor))
		case "a":
			m.addNode()
		case "n":
			m.step()
		case "b":
			m.bounds = !m.bounds
		case "x":
			m.camera.RotateX(rotateStep)
		case "X":
			m.camera.RotateX(-rotateStep)
		case "y":
			m.camera.RotateY(rotateStep)
		case "Y":
			m.camera.RotateY(-rotateStep)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	case ReloadMsg:
		m.reload(msg)
		return m, waitReload(m.reloads)
	}
	return m, nil
}

func (m *Model) step() {
	m.now += m.frameDur
	m.last = m.world.Frame(m.now)
	m.births += len(m.last.Births)
	m.deaths += len(m.last.Deaths)

	m.alive = append(m.alive, float64(m.world.AliveCount()))
	if len(m.alive) > historyCapacity {
		m.alive = m.alive[1:]
	}
	m.clampCursor()
}

func (m *Model) reset() {
	m.world.Reset()
	m.alive = m.alive[:0]
	m.births, m.deaths = 0, 0
	m.status = "reset"
}

func (m *Model) adjustParam(factor float64) {
	p := m.world.Params()
	var err error
	switch paramNames[m.selected] {
	case "repulsion":
		p.Repulsion *= factor
		err = m.world.SetParams(p)
	case "connection_distance":
		p.ConnectionDistance *= factor
		err = m.world.SetParams(p)
	case "speed":
		err = m.world.SetSpeed(m.world.Speed() * factor)
	}
	m.report(err)
}

func (m *Model) moveCursor(dir int) {
	n := m.world.Len()
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = (m.cursor + dir + n) % n
}

func (m *Model) clampCursor() {
	if m.cursor >= m.world.Len() {
		m.cursor = max(0, m.world.Len()-1)
	}
}

// addNode places a node beside the node under the cursor, or at the origin
// when the graph is empty.
func (m *Model) addNode() {
	var pos r3.Vec
	if nodes := m.world.Nodes(); m.cursor < len(nodes) {
		pos = r3.Add(nodes[m.cursor].Pos, r3.Vec{X: spawnOffset})
	}
	i, err := m.world.AddNode(pos)
	if err == nil {
		m.cursor = i
	}
	m.report(err)
}

func (m *Model) reload(msg ReloadMsg) {
	if msg.Err != nil {
		m.status = "reload: " + msg.Err.Error()
		return
	}
	cfg := msg.Config
	if err := m.world.SetParams(cfg.Layout.Params()); err != nil {
		m.report(err)
		return
	}
	if err := m.world.SetSpeed(cfg.Speed); err != nil {
		m.report(err)
		return
	}
	if err := m.world.SetLifeConfig(cfg.Life); err != nil {
		m.report(err)
		return
	}
	m.status = "config reloaded"
}

func (m *Model) report(err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.bounds {
		Render3D(m.canvas, BoundsWireframe(m.world.Config().Layout.Bounds), m.camera)
	}
	snap := m.world.Snapshot()
	RenderNetwork(m.canvas, snap, m.camera)

	if m.cursor < len(snap.Nodes) {
		n := snap.Nodes[m.cursor]
		cw, ch := m.canvas.Dots()
		if x, y, _, ok := m.camera.Project(r3.Vec{X: n.Pos[0], Y: n.Pos[1], Z: n.Pos[2]}, cw, ch); ok {
			m.canvas.DrawLine(x-3, y, x+3, y)
			m.canvas.DrawLine(x, y-3, x, y+3)
		}
	}
}

func (m Model) fading() int {
	n := 0
	for i := 0; i < m.world.Len(); i++ {
		if s, _ := m.world.StateAt(i); s == sim.Fading {
			n++
		}
	}
	return n
}

func (m Model) paramValue(name string) float64 {
	switch name {
	case "repulsion":
		return m.world.Params().Repulsion
	case "connection_distance":
		return m.world.Params().ConnectionDistance
	}
	return m.world.Speed()
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("LIFENET") + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING"))
	} else {
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	if len(m.alive) > 1 {
		chart := asciigraph.Plot(m.alive, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Alive"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	maxNodes := m.world.Config().Layout.MaxNodes
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Generation", fmt.Sprintf("%d", m.world.Generation()))
	row("Nodes", fmt.Sprintf("%d/%d ", m.world.Len(), maxNodes)+ProgressBar(float64(m.world.Len())/float64(maxNodes), 10))
	row("Alive", fmt.Sprintf("%d", m.world.AliveCount()))
	row("Fading", fmt.Sprintf("%d", m.fading()))
	row("Edges", fmt.Sprintf("%d", m.world.ConnectionCount()))
	row("Births", fmt.Sprintf("%d", m.births))
	row("Deaths", fmt.Sprintf("%d", m.deaths))
	row("Cursor", fmt.Sprintf("#%d", m.cursor))

	s.WriteString("\nPARAMETERS\n")
	for i, name := range paramNames {
		line := fmt.Sprintf("%-20s %.2f", name, m.paramValue(name))
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}
	if m.status != "" {
		s.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit ?:Help\nTab:Param ↑↓:Tune [ ]:Cursor"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause / resume        Tab      next parameter
  n        single frame          Up/K     parameter +5%
  r        revive all, gen 0     Down/J   parameter -5%
  [ ]      move cursor           d        kill cursor node
  v        revive cursor node    a        add node by cursor
  x/X y/Y  rotate                + -      zoom
  b        toggle bounds         q        quit
`
