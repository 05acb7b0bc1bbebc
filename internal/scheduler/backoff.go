package scheduler

const (
	MIN_INTERVAL = 1
	MAX_INTERVAL = 3
)

// Backoff is the polling interval of the scheduler in time units. It drops to
// MIN_INTERVAL once something was sent and grows by one unit per idle
// iteration up to MAX_INTERVAL.
type Backoff struct {
	interval int
}

func NewBackoff() Backoff {
	return Backoff{interval: MIN_INTERVAL}
}

func (b *Backoff) Interval() int {
	if b.interval < MIN_INTERVAL {
		return MIN_INTERVAL
	}
	return b.interval
}

func (b *Backoff) Next(sentAnything bool) int {
	if sentAnything {
		b.interval = MIN_INTERVAL
	} else {
		b.interval = min(MAX_INTERVAL, b.Interval()+1)
	}
	return b.interval
}

func (b *Backoff) Reset() {
	b.interval = MIN_INTERVAL
}
