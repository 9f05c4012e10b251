package metrics

import "github.com/san-kum/radsim/internal/transport"

// Completion is the fraction of histories that finished without hitting
// the collision limit.
type Completion struct {
	name      string
	truncated int
	samples   int
}

func NewCompletion() *Completion {
	return &Completion{
		name: "completion",
	}
}

func (c *Completion) Name() string {
	return c.name
}

func (c *Completion) Observe(t *transport.HistoryTally) {
	c.samples++
	if t.Truncated > 0 {
		c.truncated++
	}
}

func (c *Completion) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.truncated)/float64(c.samples)
}

func (c *Completion) Reset() {
	c.truncated = 0
	c.samples = 0
}
