package reminder

import "time"

type Clock interface {
	Now() Timestamp
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Now() Timestamp {
	return Timestamp(time.Now().Unix())
}
