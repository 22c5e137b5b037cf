package scanner

import (
	"time"
)

type (
	Ticker interface {
		C() <-chan time.Time
		Stop()
	}

	TickerFactory func(interval time.Duration) Ticker

	realTicker struct {
		t *time.Ticker
	}
)

func NewRealTicker(interval time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(interval)}
}

func (r *realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r *realTicker) Stop() {
	r.t.Stop()
}
