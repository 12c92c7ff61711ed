package tool

import (
	"fmt"
	"sync/atomic"
	"time"
)

// taskIDLayout matches the wall-clock task IDs clients already parse.
const taskIDLayout = "2006-01-02 15:04:05.000000"

// IDGenerator produces unique task IDs. Timestamp resolution alone can
// collide when the model dispatches several tools in one turn, so each ID
// carries a process-wide counter suffix.
type IDGenerator struct {
	counter atomic.Uint64
	now     func() time.Time
}

// NewIDGenerator returns a generator backed by the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns a fresh task ID. IDs are assigned exactly once and never
// reused within the process.
func (g *IDGenerator) Next() string {
	n := g.counter.Add(1)
	return fmt.Sprintf("%s-%d", g.now().UTC().Format(taskIDLayout), n)
}
