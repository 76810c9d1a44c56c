package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/lifenet/internal/dynamo"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run drives w for cfg.Frames frames, advancing time by cfg.FrameDuration
// per frame. Metrics and observers see the world after every frame. The
// partial result is returned alongside any error.
func (s *Simulator) Run(ctx context.Context, w *World, cfg RunConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Seed:    w.Config().Seed,
		Samples: make([]Sample, 0, cfg.Frames),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		t := float64(i+1) * cfg.FrameDuration
		rep := w.Frame(t)
		if !w.Graph().Valid() {
			s.finish(result)
			return result, &dynamo.StepError{Frame: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}

		result.FramesRun++
		result.Births += len(rep.Births)
		result.Deaths += len(rep.Deaths)
		result.Samples = append(result.Samples, sample(w, rep))

		f := Frame{Index: i, Time: t, World: w, Report: rep}
		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			if err := obs.OnFrame(f); err != nil {
				s.finish(result)
				return result, &dynamo.StepError{Frame: i, Time: t, Wrapped: err}
			}
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func sample(w *World, rep FrameReport) Sample {
	return Sample{
		Frame:      rep.Frame,
		Time:       rep.Time,
		Generation: w.Generation(),
		Nodes:      w.Len(),
		Alive:      w.AliveCount(),
		Edges:      w.ConnectionCount(),
		Births:     len(rep.Births),
		Deaths:     len(rep.Deaths),
	}
}

// RunWithCallback drives w until callback returns false or ctx is done.
// Nothing is recorded; the callback sees every frame report.
func (s *Simulator) RunWithCallback(ctx context.Context, w *World, frameDuration float64, callback func(FrameReport) bool) error {
	if frameDuration <= 0 {
		return fmt.Errorf("frame duration must be positive, got %g: %w", frameDuration, dynamo.ErrParameterBounds)
	}
	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t += frameDuration
		rep := w.Frame(t)
		if !w.Graph().Valid() {
			return &dynamo.StepError{Frame: rep.Frame, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		if !callback(rep) {
			return nil
		}
	}
}
