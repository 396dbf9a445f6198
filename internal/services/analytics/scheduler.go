package analytics

import "time"

// Scheduler defers a function call. The returned cancel func stops the
// pending call; calling it after the function ran is a no-op.
type Scheduler interface {
	Schedule(after time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

// NewTimerScheduler returns the production scheduler backed by
// time.AfterFunc.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(after time.Duration, fn func()) func() {
	t := time.AfterFunc(after, fn)
	return func() { t.Stop() }
}
