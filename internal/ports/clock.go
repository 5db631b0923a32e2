package ports

import "time"

// Clock abstracts time so backoff and heartbeat timing are testable
// without real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}
