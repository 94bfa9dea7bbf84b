// Package clipper implements the angular occlusion clipper: a set of closed
// angle ranges around the viewpoint that are known to be hidden.
package clipper

import (
	"sort"

	"portal-engine/math"
)

const fullCircle = uint64(1) << 32

// span is a closed, non-wrapping range on the unrolled circle.
type span struct {
	lo, hi uint64
}

// Clipper tracks which directions are already occluded. Ranges run
// counter-clockwise from start to end and wrap through zero when
// start > end.
type Clipper struct {
	clipped    []span
	silhouette []span
	blocked    bool
}

func New() *Clipper {
	return &Clipper{}
}

// Clear opens the whole circle and drops the silhouette and blocked state.
func (c *Clipper) Clear() {
	c.clipped = c.clipped[:0]
	c.silhouette = c.silhouette[:0]
	c.blocked = false
}

// RejectRange marks start..end as occluded.
func (c *Clipper) RejectRange(start, end math.BAM) {
	for _, s := range split(start, end) {
		c.clipped = addSpan(c.clipped, s)
	}
}

// AcceptRange opens start..end again, except where the silhouette is locked.
func (c *Clipper) AcceptRange(start, end math.BAM) {
	for _, s := range split(start, end) {
		c.clipped = subtractSpan(c.clipped, s)
		for _, locked := range c.silhouette {
			if i, ok := intersect(locked, s); ok {
				c.clipped = addSpan(c.clipped, i)
			}
		}
	}
}

// SetSilhouette locks everything clipped so far; AcceptRange can no longer
// open it until the next Clear.
func (c *Clipper) SetSilhouette() {
	c.silhouette = append(c.silhouette[:0], c.clipped...)
}

// SetBlocked marks the whole view as invalid until the scene walker
// re-validates parts of it.
func (c *Clipper) SetBlocked(blocked bool) {
	c.blocked = blocked
}

func (c *Clipper) IsBlocked() bool {
	return c.blocked
}

// IsRangeVisible reports whether any part of start..end is still open.
func (c *Clipper) IsRangeVisible(start, end math.BAM) bool {
	if c.blocked {
		return false
	}
	for _, s := range split(start, end) {
		if !covered(c.clipped, s) {
			return true
		}
	}
	return false
}

// IsAngleVisible reports whether the single direction a is open.
func (c *Clipper) IsAngleVisible(a math.BAM) bool {
	return c.IsRangeVisible(a, a)
}

// IsFullyClipped reports whether nothing is visible any more.
func (c *Clipper) IsFullyClipped() bool {
	return c.blocked || covered(c.clipped, span{0, fullCircle - 1})
}

func split(start, end math.BAM) []span {
	if start > end {
		return []span{{uint64(start), fullCircle - 1}, {0, uint64(end)}}
	}
	return []span{{uint64(start), uint64(end)}}
}

func intersect(a, b span) (span, bool) {
	lo, hi := a.lo, a.hi
	if b.lo > lo {
		lo = b.lo
	}
	if b.hi < hi {
		hi = b.hi
	}
	return span{lo, hi}, lo <= hi
}

func covered(list []span, s span) bool {
	i := sort.Search(len(list), func(i int) bool { return list[i].hi >= s.lo })
	return i < len(list) && list[i].lo <= s.lo && list[i].hi >= s.hi
}

// addSpan inserts s into the sorted list, merging overlapping and adjacent
// spans.
func addSpan(list []span, s span) []span {
	out := make([]span, 0, len(list)+1)
	i := 0
	for ; i < len(list) && list[i].hi+1 < s.lo; i++ {
		out = append(out, list[i])
	}
	for ; i < len(list) && list[i].lo <= s.hi+1; i++ {
		if list[i].lo < s.lo {
			s.lo = list[i].lo
		}
		if list[i].hi > s.hi {
			s.hi = list[i].hi
		}
	}
	out = append(out, s)
	return append(out, list[i:]...)
}

func subtractSpan(list []span, s span) []span {
	out := make([]span, 0, len(list)+1)
	for _, cur := range list {
		if cur.hi < s.lo || cur.lo > s.hi {
			out = append(out, cur)
			continue
		}
		if cur.lo < s.lo {
			out = append(out, span{cur.lo, s.lo - 1})
		}
		if cur.hi > s.hi {
			out = append(out, span{s.hi + 1, cur.hi})
		}
	}
	return out
}
