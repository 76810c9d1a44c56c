package metrics

import "github.com/san-kum/lifenet/internal/sim"

// Population is the mean alive count over the run.
type Population struct {
	name    string
	sum     float64
	samples int
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(f sim.Frame) {
	p.sum += float64(f.World.AliveCount())
	p.samples++
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *Population) Reset() {
	p.sum = 0
	p.samples = 0
}

// Turnover is births plus deaths per life step.
type Turnover struct {
	name   string
	events int
	steps  int
}

func NewTurnover() *Turnover {
	return &Turnover{name: "turnover"}
}

func (t *Turnover) Name() string { return t.name }

func (t *Turnover) Observe(f sim.Frame) {
	if !f.Report.Stepped {
		return
	}
	t.events += len(f.Report.Births) + len(f.Report.Deaths)
	t.steps++
}

func (t *Turnover) Value() float64 {
	if t.steps == 0 {
		return 0
	}
	return float64(t.events) / float64(t.steps)
}

func (t *Turnover) Reset() {
	t.events = 0
	t.steps = 0
}
