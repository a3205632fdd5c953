package metrics

import "github.com/pable/go-nba-metrics/internal/model"

// SnapshotDiff is the per-team and per-player change between two snapshots.
type SnapshotDiff struct {
	Teams   map[int]model.BoxCounts `json:"teams"`
	Players map[int]model.BoxCounts `json:"players"`
}

// Diff returns end - start for every team and player present in end. A nil
// start is the zero snapshot; a nil end yields nil.
func Diff(start, end *model.Snapshot) *SnapshotDiff {
	if end == nil {
		return nil
	}
	if start == nil {
		start = model.NewSnapshot()
	}
	d := &SnapshotDiff{
		Teams:   make(map[int]model.BoxCounts, len(end.Teams)),
		Players: make(map[int]model.BoxCounts, len(end.Players)),
	}
	for id, e := range end.Teams {
		d.Teams[id] = e.Sub(start.Teams[id])
	}
	for id, e := range end.Players {
		d.Players[id] = e.Sub(start.Players[id])
	}
	return d
}

// IsZero reports whether no counting stat changed.
func (d *SnapshotDiff) IsZero() bool {
	if d == nil {
		return true
	}
	for _, c := range d.Teams {
		if !c.IsZero() {
			return false
		}
	}
	for _, c := range d.Players {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// Bounds are the snapshots that delimit a segment. Start or End is nil when
// the boundary has not been captured.
type Bounds struct {
	Start     *model.Snapshot
	StartMeta *model.SnapshotEntry
	End       *model.Snapshot
	EndIsLive bool
}

// SnapshotBounds picks the start and end snapshots for seg. Segments that
// begin at tip-off start from the zero snapshot; later ones start at the
// previous period-end capture. The end is the segment's own period-end
// capture or, while the segment is in progress, the current snapshot.
func SnapshotBounds(seg model.Segment, entries []model.SnapshotEntry, current *model.Snapshot, currentPeriod int) *Bounds {
	byKey := make(map[string]*model.SnapshotEntry, len(entries))
	for i := range entries {
		byKey[entries[i].Key] = &entries[i]
	}
	periodEnd := func(p int) (*model.Snapshot, *model.SnapshotEntry) {
		e, ok := byKey[model.PeriodEndKey(p)]
		if !ok {
			return nil, nil
		}
		return e.Snapshot, e
	}

	if seg.IsAll() {
		return &Bounds{Start: model.NewSnapshot(), End: current}
	}

	first, last := seg.FirstPeriod(), seg.LastPeriod()
	b := &Bounds{}
	if first == 1 {
		b.Start = model.NewSnapshot()
	} else {
		b.Start, b.StartMeta = periodEnd(first - 1)
	}

	b.EndIsLive = currentPeriod >= first && currentPeriod <= last
	b.End, _ = periodEnd(last)
	if b.End == nil && b.EndIsLive {
		b.End = current
	}
	return b
}
