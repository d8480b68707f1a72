package service

import "time"

// Ticker is the part of *time.Ticker a Countdown needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory starts a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (tt timeTicker) C() <-chan time.Time { return tt.t.C }
func (tt timeTicker) Stop()               { tt.t.Stop() }

// NewTimeTicker is the production TickerFactory.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Countdown owns at most one live ticker. Restart stops the previous ticker
// before starting a new one, and C returns nil while stopped, so a select on
// it never sees a tick from a superseded question.
type Countdown struct {
	interval  time.Duration
	newTicker TickerFactory
	current   Ticker
}

func NewCountdown(interval time.Duration, factory TickerFactory) *Countdown {
	if factory == nil {
		factory = NewTimeTicker
	}
	return &Countdown{interval: interval, newTicker: factory}
}

func (c *Countdown) Restart() {
	c.Stop()
	c.current = c.newTicker(c.interval)
}

func (c *Countdown) Stop() {
	if c.current != nil {
		c.current.Stop()
		c.current = nil
	}
}

func (c *Countdown) Running() bool {
	return c.current != nil
}

// C is the tick channel of the live ticker, or nil when stopped.
func (c *Countdown) C() <-chan time.Time {
	if c.current == nil {
		return nil
	}
	return c.current.C()
}
