package analysis

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/lifenet/internal/dynamo"
	"github.com/san-kum/lifenet/internal/layout"
)

type testNetwork struct {
	n     int
	edges [][2]int
}

func (t testNetwork) Len() int        { return t.n }
func (t testNetwork) Edges() [][2]int { return t.edges }

func TestComponents(t *testing.T) {
	net := testNetwork{n: 6, edges: [][2]int{{0, 1}, {1, 2}, {3, 4}}}

	got := Components(net)
	want := [][]int{{0, 1, 2}, {3, 4}, {5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if Components(testNetwork{}) != nil {
		t.Error("expected no components for an empty network")
	}
}

func TestComponentsCoverLayout(t *testing.T) {
	g := layout.New(layout.DefaultConfig(), dynamo.NewSource(3))
	total := 0
	for _, c := range Components(g) {
		total += len(c)
	}
	if total != g.Len() {
		t.Errorf("expected components to cover %d nodes, got %d", g.Len(), total)
	}
}

func TestDegrees(t *testing.T) {
	net := testNetwork{n: 6, edges: [][2]int{{0, 1}, {1, 2}, {3, 4}}}
	s := Degrees(net)

	if s.Mean != 1 {
		t.Errorf("expected mean 1, got %f", s.Mean)
	}
	if math.Abs(s.StdDev-math.Sqrt(0.4)) > 1e-9 {
		t.Errorf("expected std dev %f, got %f", math.Sqrt(0.4), s.StdDev)
	}
	if s.Min != 0 || s.Max != 2 || s.Isolated != 1 {
		t.Errorf("unexpected stats %+v", s)
	}

	if (Degrees(testNetwork{}) != DegreeStats{}) {
		t.Error("expected zero stats for an empty network")
	}
}

func TestFFTImpulse(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0, 0, 0, 0, 0})
	for k, v := range out {
		if math.Abs(real(v)-1) > 1e-12 || math.Abs(imag(v)) > 1e-12 {
			t.Errorf("bin %d: expected 1, got %v", k, v)
		}
	}
}

func TestFFTAnyLength(t *testing.T) {
	out := FFT([]float64{2, 2, 2, 2, 2})
	if len(out) != 5 {
		t.Fatalf("expected 5 bins, got %d", len(out))
	}
	if math.Abs(real(out[0])-10) > 1e-9 {
		t.Errorf("expected dc bin 10, got %v", out[0])
	}
	for k := 1; k < len(out); k++ {
		if math.Abs(real(out[k])) > 1e-9 || math.Abs(imag(out[k])) > 1e-9 {
			t.Errorf("bin %d: expected 0, got %v", k, out[k])
		}
	}
}

func TestPowerSpectrumPads(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 64 {
		t.Errorf("expected 64 bins, got %d", len(ps))
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for no data")
	}
}

func TestDominantPeriod(t *testing.T) {
	data := make([]float64, 128)
	for i := range data {
		data[i] = 50 + 10*math.Sin(2*math.Pi*float64(i)/16)
	}
	if p := DominantPeriod(data); math.Abs(p-16) > 1e-9 {
		t.Errorf("expected period 16, got %f", p)
	}

	flat := make([]float64, 64)
	for i := range flat {
		flat[i] = 7
	}
	if p := DominantPeriod(flat); p != 0 {
		t.Errorf("expected no period for a flat series, got %f", p)
	}
}

func TestLayoutDivergence(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.NodeCount = 30

	lambda := LayoutDivergence(cfg, 5, 200, 1e-3)
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		t.Errorf("expected finite divergence, got %f", lambda)
	}

	if LayoutDivergence(cfg, 5, 0, 1e-3) != 0 {
		t.Error("expected 0 for no ticks")
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	p := NewPhasePortrait("alive", []float64{1, 2, 3}, "edges", []float64{4, 5})
	if len(p.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(p.Points))
	}

	out := PhasePortraitToASCII(p, 20, 10)
	if !strings.Contains(out, "●") || !strings.Contains(out, "•") {
		t.Errorf("expected both markers in output:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines != 12 {
		t.Errorf("expected 12 lines, got %d", lines)
	}

	if PhasePortraitToASCII(nil, 20, 10) != "" {
		t.Error("expected empty output for nil portrait")
	}
}
