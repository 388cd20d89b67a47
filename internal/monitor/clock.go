package monitor

import "time"

// Clock tells the Coordinator what time it is. Tests substitute a clock
// they advance by hand.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return realClock{} }
