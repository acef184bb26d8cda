// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress drives the decorative progress bar shown while a
// conversion request is in flight.
//
// The bar is not derived from transfer or processing telemetry. It climbs
// by random steps up to a ceiling and is forced to 100% at a fixed deadline,
// whether or not the response has arrived. A response arriving first does
// not stop it either; only Cancel or a new Start does.
package progress

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/pdiddy/file-converter/internal/clock"
	"github.com/pdiddy/file-converter/internal/view"
	"github.com/pdiddy/file-converter/pkg/types"
)

// StatusComplete is shown when the deadline forces the bar to 100%.
const StatusComplete = "Conversion complete!"

// Source yields uniform random numbers in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Simulator is the fake progress bar. It is not safe for concurrent use;
// the controller calls it under its lock and gives it a serialized clock.
type Simulator struct {
	clock clock.Clock
	sink  view.Sink
	rnd   Source
	cfg   types.ProgressConfig

	run      uint64
	value    float64
	ticking  bool
	running  bool
	tick     clock.Task
	deadline clock.Task
}

// New returns a Simulator. A nil rnd uses the process-wide generator.
func New(c clock.Clock, sink view.Sink, rnd Source, cfg types.ProgressConfig) *Simulator {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &Simulator{
		clock: c,
		sink:  sink,
		rnd:   rnd,
		cfg:   cfg.WithDefaults(),
	}
}

// Start resets the bar to 0 and begins a new run, cancelling any run in
// progress.
func (s *Simulator) Start() {
	s.Cancel()

	s.run++
	run := s.run
	s.value = 0
	s.ticking = true
	s.running = true
	s.emit()

	s.deadline = s.clock.AfterFunc(s.cfg.Deadline, func() { s.complete(run) })
	s.tick = s.clock.AfterFunc(s.cfg.TickInterval, func() { s.step(run) })
}

// Cancel stops the current run without touching the displayed value.
func (s *Simulator) Cancel() {
	s.stopTicking()
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
	s.running = false
	s.run++
}

// Value returns the current percentage.
func (s *Simulator) Value() float64 {
	return s.value
}

// Running reports whether a run has started and not yet reached its
// deadline or been cancelled.
func (s *Simulator) Running() bool {
	return s.running
}

func (s *Simulator) step(run uint64) {
	if run != s.run || !s.ticking {
		return
	}
	s.value += s.rnd.Float64() * s.cfg.MaxIncrement
	if s.value > s.cfg.Ceiling {
		s.value = s.cfg.Ceiling
	}
	s.emit()

	if s.value >= s.cfg.Ceiling {
		s.ticking = false
		s.tick = nil
		return
	}
	s.tick = s.clock.AfterFunc(s.cfg.TickInterval, func() { s.step(run) })
}

func (s *Simulator) complete(run uint64) {
	if run != s.run {
		return
	}
	s.stopTicking()
	s.deadline = nil
	s.running = false
	s.value = 100
	s.emit()
	s.sink.Apply(view.Status{Message: StatusComplete})
}

func (s *Simulator) stopTicking() {
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	s.ticking = false
}

func (s *Simulator) emit() {
	s.sink.Apply(view.Progress{
		Percent: s.value,
		Text:    fmt.Sprintf("%d%%", int(math.Round(s.value))),
	})
}
