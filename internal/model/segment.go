package model

import "strings"

// Segment names a sub-interval of a game used to scope aggregation.
type Segment string

const (
	SegmentAll        Segment = "all"
	SegmentQ1         Segment = "q1"
	SegmentQ2         Segment = "q2"
	SegmentQ3         Segment = "q3"
	SegmentQ4         Segment = "q4"
	SegmentQ1Q3       Segment = "q1-q3"
	SegmentFirstHalf  Segment = "first-half"
	SegmentSecondHalf Segment = "second-half"
)

// Segments lists every named segment in display order.
var Segments = []Segment{
	SegmentAll, SegmentQ1, SegmentQ2, SegmentQ3, SegmentQ4,
	SegmentQ1Q3, SegmentFirstHalf, SegmentSecondHalf,
}

// ParseSegment maps a name to a Segment. Unknown names fall back to SegmentAll.
func ParseSegment(s string) Segment {
	seg := Segment(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Segments {
		if seg == known {
			return seg
		}
	}
	return SegmentAll
}

// Includes reports whether period p belongs to the segment. Unknown segments
// include every period, overtime included.
func (s Segment) Includes(p int) bool {
	switch s {
	case SegmentQ1:
		return p == 1
	case SegmentQ2:
		return p == 2
	case SegmentQ3:
		return p == 3
	case SegmentQ4:
		return p == 4
	case SegmentQ1Q3:
		return p >= 1 && p <= 3
	case SegmentFirstHalf:
		return p == 1 || p == 2
	case SegmentSecondHalf:
		return p == 3 || p == 4
	default:
		return true
	}
}

// IsAll reports whether the segment covers the whole game.
func (s Segment) IsAll() bool {
	return s.Includes(1) && s.Includes(4) && s.Includes(5)
}

// DefaultSeconds is the nominal regulation length of the segment.
func (s Segment) DefaultSeconds() float64 {
	switch s {
	case SegmentQ1, SegmentQ2, SegmentQ3, SegmentQ4:
		return 12 * 60
	case SegmentQ1Q3:
		return 36 * 60
	case SegmentFirstHalf, SegmentSecondHalf:
		return 24 * 60
	default:
		return 48 * 60
	}
}

// LastPeriod is the final regulation period the segment covers (0 for all).
func (s Segment) LastPeriod() int {
	switch s {
	case SegmentQ1:
		return 1
	case SegmentQ2, SegmentFirstHalf:
		return 2
	case SegmentQ3, SegmentQ1Q3:
		return 3
	case SegmentQ4, SegmentSecondHalf:
		return 4
	default:
		return 0
	}
}

// FirstPeriod is the first period the segment covers.
func (s Segment) FirstPeriod() int {
	switch s {
	case SegmentQ2:
		return 2
	case SegmentQ3, SegmentSecondHalf:
		return 3
	case SegmentQ4:
		return 4
	default:
		return 1
	}
}
