// Package observ records wall-clock phases of a build for --timings output.
package observ

import (
	"fmt"
	"io"
	"time"
)

// Phase is one measured span of a build.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	open  bool
}

// Timer collects build phases in the order they were started.
type Timer struct {
	now    func() time.Time
	phases []Phase
}

// NewTimer returns an empty Timer using the wall clock.
func NewTimer() *Timer { return &Timer{now: time.Now, phases: make([]Phase, 0, 4)} }

// Begin opens a phase and returns its handle for End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now(), open: true})
	return len(t.phases) - 1
}

// End closes the phase idx with an optional note. Closing a phase twice or
// an unknown handle is a no-op.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) || !t.phases[idx].open {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Note = note
	p.open = false
}

// Measure runs fn as a single phase. The note is computed after fn returns.
func (t *Timer) Measure(name string, fn func() string) {
	idx := t.Begin(name)
	t.End(idx, fn())
}

// PhaseReport is the serialized form of a closed phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates the closed phases of a Timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots closed phases; phases still open are skipped.
func (t *Timer) Report() Report {
	var report Report
	var total time.Duration
	for _, phase := range t.phases {
		if phase.open {
			continue
		}
		total += phase.Dur
		report.Phases = append(report.Phases, PhaseReport{
			Name:       phase.Name,
			DurationMS: toMillis(phase.Dur),
			Note:       phase.Note,
		})
	}
	report.TotalMS = toMillis(total)
	return report
}

// WriteTo prints one line per phase followed by the total.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		k, err := fmt.Fprintln(w, line)
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	k, err := fmt.Fprintf(w, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return n + int64(k), err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
