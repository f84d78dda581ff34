// Package curve holds a zero-coupon curve as an ordered set of pillars.
//
// Zero rates are continuously compounded and annualised; time is measured in years. Between
// pillars the zero rate is interpolated linearly, outside the pillar range it is held flat.
// Discount factors are always derived from the zero rate, DF(t) = exp(-z(t)*t).
package curve

import (
	"math"
	"sync"
)

// Pillar is a calibrated (time, zero rate) anchor point.
type Pillar struct {
	Time     float64 `json:"time"`
	ZeroRate float64 `json:"zero_rate"`
}

// Curve is an ordered pillar store keyed by time.
//
// Times are unique and kept in ascending order. A Curve is safe for concurrent use: readers
// never observe a pillar set in the middle of an insertion.
type Curve struct {
	mu    sync.RWMutex
	times []float64
	rates []float64
}

// New returns a curve holding the given pillars. Later duplicates overwrite earlier ones.
func New(pillars ...Pillar) *Curve {
	c := &Curve{
		times: make([]float64, 0, len(pillars)),
		rates: make([]float64, 0, len(pillars)),
	}
	for _, p := range pillars {
		c.insert(p.Time, p.ZeroRate)
	}
	return c
}

// FromMap builds a curve from a time -> zero rate map.
func FromMap(zeros map[float64]float64) *Curve {
	c := New()
	for t, r := range zeros {
		c.insert(t, r)
	}
	return c
}

// AddNode inserts a pillar at time, overwriting any pillar already there.
func (c *Curve) AddNode(time, rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insert(time, rate)
}

func (c *Curve) insert(time, rate float64) {
	idx, exact := findExact(c.times, time)
	if exact {
		c.rates[idx] = rate
		return
	}
	c.times = append(c.times, 0)
	c.rates = append(c.rates, 0)
	copy(c.times[idx+1:], c.times[idx:])
	copy(c.rates[idx+1:], c.rates[idx:])
	c.times[idx] = time
	c.rates[idx] = rate
}

// ZeroRate returns the zero rate at time. An empty curve returns 0.
func (c *Curve) ZeroRate(time float64) float64 {
	r, _ := c.Lookup(time)
	return r
}

// Lookup returns the zero rate at time and false when the curve has no pillars.
func (c *Curve) Lookup(time float64) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(c.times)
	if n == 0 {
		return 0.0, false
	}

	idx := lowerBound(c.times, time)
	switch {
	case idx >= n:
		// Flat beyond the last pillar.
		return c.rates[n-1], true
	case idx == 0:
		// At or before the first pillar.
		return c.rates[0], true
	case c.times[idx] == time:
		return c.rates[idx], true
	}

	t1, t2 := c.times[idx-1], c.times[idx]
	r1, r2 := c.rates[idx-1], c.rates[idx]
	return (r2-r1)/(t2-t1)*(time-t1) + r1, true
}

// DiscountFactor returns exp(-z(t)*t).
func (c *Curve) DiscountFactor(time float64) float64 {
	return math.Exp(-c.ZeroRate(time) * time)
}

// MaxMaturity returns the latest pillar time, or 0 for an empty curve.
func (c *Curve) MaxMaturity() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.times) == 0 {
		return 0.0
	}
	return c.times[len(c.times)-1]
}

// Has reports whether a pillar exists at exactly time.
func (c *Curve) Has(time float64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exact := findExact(c.times, time)
	return exact
}

// Len returns the number of pillars.
func (c *Curve) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.times)
}

// Pillars returns a copy of the pillar set in ascending time order.
func (c *Curve) Pillars() []Pillar {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Pillar, len(c.times))
	for i := range c.times {
		out[i] = Pillar{Time: c.times[i], ZeroRate: c.rates[i]}
	}
	return out
}

// Clone returns an independent copy of the curve.
func (c *Curve) Clone() *Curve {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Curve{
		times: append([]float64(nil), c.times...),
		rates: append([]float64(nil), c.rates...),
	}
}
