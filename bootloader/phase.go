package bootloader

import (
	"fmt"
	"time"
)

// Phase is a step of a programming run.
type Phase string

// Run phases, in order. PhaseFailed is reachable from any non-terminal phase.
const (
	PhasePlanning    Phase = "planning"
	PhaseWriting     Phase = "writing"
	PhaseReadingBack Phase = "reading-back"
	PhaseVerifying   Phase = "verifying"
	PhaseRebooting   Phase = "rebooting"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// Terminal reports whether no further transition is possible.
func (ph Phase) Terminal() bool {
	return ph == PhaseDone || ph == PhaseFailed
}

// transitions lists the forward edges of the run state machine.
// Verify-only runs skip Writing; runs without reboot skip Rebooting.
var transitions = map[Phase][]Phase{
	PhasePlanning:    {PhaseWriting, PhaseReadingBack},
	PhaseWriting:     {PhaseReadingBack},
	PhaseReadingBack: {PhaseVerifying},
	PhaseVerifying:   {PhaseRebooting, PhaseDone},
	PhaseRebooting:   {PhaseDone},
}

func canTransition(from, to Phase) bool {
	if from.Terminal() {
		return false
	}
	if to == PhaseFailed {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Result summarises a programming or verify run.
type Result struct {
	// Phase is the terminal phase: PhaseDone or PhaseFailed
	Phase Phase

	// FailedIn is the phase that failed (empty on success)
	FailedIn Phase

	// Phases lists every phase entered, in order
	Phases []Phase

	// Space is the memory space name
	Space string

	// HighWaterMark is the image extent that was written and compared
	HighWaterMark int

	// Chunks is the number of write transfers completed
	Chunks int

	// BytesWritten counts bytes sent, padding included
	BytesWritten int

	// Verified is true once read-back matched the image
	Verified bool

	// Rebooted is true once the reboot request was accepted
	Rebooted bool

	// Elapsed is the wall time of the run
	Elapsed time.Duration
}

// run tracks one pass through the state machine.
type run struct {
	p      *Programmer
	space  Space
	start  time.Time
	result *Result
}

func (p *Programmer) newRun(space Space) *run {
	r := &run{
		p:     p,
		space: space,
		start: time.Now(),
		result: &Result{
			Phase:  PhasePlanning,
			Phases: []Phase{PhasePlanning},
			Space:  space.Name,
		},
	}
	p.logDebug("run started", "space", space.Name, "phase", PhasePlanning)
	return r
}

// enter moves the run to next. An illegal edge is a programming error.
func (r *run) enter(next Phase) {
	from := r.result.Phase
	if !canTransition(from, next) {
		panic(fmt.Sprintf("bootloader: illegal phase transition %s -> %s", from, next))
	}
	r.result.Phase = next
	r.result.Phases = append(r.result.Phases, next)
	r.result.Elapsed = time.Since(r.start)
	r.p.logDebug("phase", "space", r.space.Name, "from", from, "to", next)
}

// fail moves the run to PhaseFailed and returns the result with err.
func (r *run) fail(err error) (*Result, error) {
	r.result.FailedIn = r.result.Phase
	r.enter(PhaseFailed)
	r.p.logError("run failed",
		"space", r.space.Name,
		"phase", r.result.FailedIn,
		"error", err,
	)
	return r.result, err
}

func (r *run) done() (*Result, error) {
	r.enter(PhaseDone)
	r.p.logInfo("run complete",
		"space", r.space.Name,
		"bytes", r.result.HighWaterMark,
		"chunks", r.result.Chunks,
		"verified", r.result.Verified,
		"rebooted", r.result.Rebooted,
		"elapsed", r.result.Elapsed.String(),
	)
	return r.result, nil
}

func (r *run) progress(done, total int) {
	pct := 100.0
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}
	r.p.reportProgress(Progress{
		Phase:      r.result.Phase,
		Space:      r.space.Name,
		Done:       done,
		Total:      total,
		Percentage: pct,
		Elapsed:    time.Since(r.start),
	})
}
