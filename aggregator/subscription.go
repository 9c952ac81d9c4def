package aggregator

import "sync"

// Subscription is a disposable registration on an Aggregator.
type Subscription struct {
	once    sync.Once
	dispose func()
}

// Dispose removes the registration. Calling it again is a no-op.
func (s *Subscription) Dispose() {
	if s == nil {
		return
	}
	s.once.Do(s.dispose)
}
