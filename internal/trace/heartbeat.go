package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a driver-scope event at a fixed interval while a batch
// runs, so a stalled build still shows signs of life in the trace.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when t is disabled or every is not positive.
// status, if set, is appended to each beat.
func StartHeartbeat(t Tracer, every time.Duration, status func() string) *Heartbeat {
	if t == nil || !t.Enabled() || every <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(t, every, status)
	return h
}

func (h *Heartbeat) loop(t Tracer, every time.Duration, status func() string) {
	defer close(h.done)
	tick := time.NewTicker(every)
	defer tick.Stop()
	for n := 1; ; n++ {
		select {
		case <-h.stop:
			return
		case now := <-tick.C:
			detail := "#" + strconv.Itoa(n)
			if status != nil {
				detail += " " + status()
			}
			t.Emit(&Event{Time: now, Kind: KindHeartbeat, Scope: ScopeDriver, Name: "heartbeat", Detail: detail})
		}
	}
}

// Stop ends the loop and waits for it. Safe on nil and safe to repeat.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
