package services

import "time"

// Clock abstracts "now" so streak and future-date checks stay
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
