package viz

import (
	"math"

	"github.com/san-kum/lifenet/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera projects layout space onto the canvas. Extent is the distance from
// the origin, in layout units, that lands a quarter of the shorter screen
// side away from the centre.
type Camera struct {
	Distance   float64
	Near       float64
	RotX, RotY float64
	Zoom       float64
	Extent     float64
}

func NewCamera(extent float64) *Camera {
	return &Camera{Distance: 6, Near: 0.1, Zoom: 1, Extent: extent}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Rotate turns p about the x axis, then the y axis.
func (c *Camera) Rotate(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project maps p to screen dots on a sw x sh screen. It returns the screen
// position, the depth after rotation and whether the point is in front of
// the camera and on screen.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, float64, bool) {
	extent := c.Extent
	if extent <= 0 {
		extent = 1
	}
	rot := r3.Scale(c.Zoom/extent, c.Rotate(p))
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	unit := float64(min(sw, sh)) / 4
	sx := int(math.Round(rot.X*scale*unit)) + sw/2
	sy := int(math.Round(-rot.Y*scale*unit)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Segment struct{ Start, End r3.Vec }

type Wireframe struct{ Segments []Segment }

func (w *Wireframe) Add(s, e r3.Vec) { w.Segments = append(w.Segments, Segment{s, e}) }

// BoundsWireframe outlines the cube [-b, b]^3 that containment pulls nodes
// back into.
func BoundsWireframe(b float64) *Wireframe {
	w := &Wireframe{}
	v := []r3.Vec{{X: -b, Y: -b, Z: -b}, {X: b, Y: -b, Z: -b}, {X: b, Y: b, Z: -b}, {X: -b, Y: b, Z: -b},
		{X: -b, Y: -b, Z: b}, {X: b, Y: -b, Z: b}, {X: b, Y: b, Z: b}, {X: -b, Y: b, Z: b}}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.Add(v[e[0]], v[e[1]])
	}
	return w
}

// Render3D draws every segment with at least one visible end.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	for _, s := range w.Segments {
		x1, y1, _, v1 := cam.Project(s.Start, cw, ch)
		x2, y2, _, v2 := cam.Project(s.End, cw, ch)
		if v1 || v2 {
			c.DrawLine(x1, y1, x2, y2)
		}
	}
}

// RenderNetwork draws the snapshot's edges, then its nodes: living nodes as
// a 2x2 block, fading nodes as a single dot until halfway through the fade.
func RenderNetwork(c *Canvas, snap sim.Snapshot, cam *Camera) {
	if c == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	type point struct {
		x, y int
		ok   bool
	}
	pts := make([]point, len(snap.Nodes))
	for i, n := range snap.Nodes {
		x, y, _, ok := cam.Project(r3.Vec{X: n.Pos[0], Y: n.Pos[1], Z: n.Pos[2]}, cw, ch)
		pts[i] = point{x, y, ok}
	}

	for _, e := range snap.Edges() {
		a, b := pts[e[0]], pts[e[1]]
		if a.ok || b.ok {
			c.DrawLine(a.x, a.y, b.x, b.y)
		}
	}
	for i, n := range snap.Nodes {
		p := pts[i]
		switch {
		case !p.ok:
		case n.Alive:
			c.Dot(p.x, p.y)
		case n.Fade < 0.5:
			c.Set(p.x, p.y)
		}
	}
}
