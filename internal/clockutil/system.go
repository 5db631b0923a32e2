// Package clockutil provides the production ports.Clock implementation.
package clockutil

import "time"

// System is a ports.Clock backed by the real wall clock.
type System struct{}

func (System) Now() time.Time        { return time.Now() }
func (System) Sleep(d time.Duration) { time.Sleep(d) }
