package arena

import "time"

// timerSet tracks one pending timeout per challenge id. Cancelling is only an
// optimization: a late fire still hits the stale check in challengeTimeout.
type timerSet struct {
	timers map[int]*time.Timer
}

func newTimerSet() *timerSet {
	return &timerSet{timers: make(map[int]*time.Timer)}
}

func (ts *timerSet) schedule(challengeID int, d time.Duration, fire func()) {
	ts.cancel(challengeID)
	ts.timers[challengeID] = time.AfterFunc(d, fire)
}

func (ts *timerSet) cancel(challengeID int) {
	if t, ok := ts.timers[challengeID]; ok {
		t.Stop()
		delete(ts.timers, challengeID)
	}
}

func (ts *timerSet) stopAll() {
	for id, t := range ts.timers {
		t.Stop()
		delete(ts.timers, id)
	}
}

func (ts *timerSet) pending() int { return len(ts.timers) }
