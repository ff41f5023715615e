package render

import (
	"fmt"
	"time"
)

// Stats collects one frame's timings and recursion counters.
type Stats struct {
	Frame    time.Duration
	Prepare  time.Duration
	Query    time.Duration
	Transfer time.Duration

	Total int // traversal entries
	Oct   int // octree descents
	Quad  int // quadtree descents
}

func (s Stats) String() string {
	ms := func(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1e6 }
	return fmt.Sprintf("%7.2f | prepare:%5.2f query:%7.2f transfer:%5.2f | count:%9d oct:%9d quad:%9d",
		ms(s.Frame), ms(s.Prepare), ms(s.Query), ms(s.Transfer), s.Total, s.Oct, s.Quad)
}
