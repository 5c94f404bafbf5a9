package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported by Lower.
const (
	PhaseLoad  = "load"
	PhaseLower = "lower"
	PhasePrint = "print"
)

// PhaseEvent describes a timing phase boundary for one input.
type PhaseEvent struct {
	Path    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	// Failed is set on PhaseEnd when the phase recorded errors.
	Failed bool
}

// PhaseObserver receives phase events. With parallel lowering it is called
// from several goroutines at once.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) emit(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
