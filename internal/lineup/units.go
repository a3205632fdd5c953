package lineup

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pable/go-nba-metrics/internal/model"
)

// court is the set of players currently on the floor for one team.
type court struct {
	on map[int]bool
}

func newCourt(refs []model.PlayerRef) *court {
	c := &court{on: make(map[int]bool, len(refs))}
	for _, p := range refs {
		c.insert(p.PersonID)
	}
	return c
}

func (c *court) insert(id int) {
	if id != 0 {
		c.on[id] = true
	}
}

func (c *court) remove(id int) { delete(c.on, id) }

// ids returns the on-court player IDs in ascending order.
func (c *court) ids() []int {
	out := make([]int, 0, len(c.on))
	for id := range c.on {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Unit is the replayed line of one on-court group.
type Unit struct {
	TeamID    int   `json:"teamId"`
	PersonIDs []int `json:"personIds"`
	Line
}

// Key identifies the unit by team and sorted player IDs.
func (u *Unit) Key() string {
	return UnitKey(u.TeamID, u.PersonIDs)
}

// UnitKey renders "team:id-id-id-id-id". ids must be sorted.
func UnitKey(teamID int, ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strconv.Itoa(teamID) + ":" + strings.Join(parts, "-")
}

type unitBook struct {
	units map[string]*Unit
}

func newUnitBook() *unitBook {
	return &unitBook{units: make(map[string]*Unit)}
}

func (b *unitBook) add(teamID int, ids []int, w *window, home bool) {
	if len(ids) == 0 {
		return
	}
	key := UnitKey(teamID, ids)
	u, ok := b.units[key]
	if !ok {
		u = &Unit{TeamID: teamID, PersonIDs: ids}
		b.units[key] = u
	}
	u.add(w, home)
}

// sorted returns units by descending floor time, then key.
func (b *unitBook) sorted() []Unit {
	out := make([]Unit, 0, len(b.units))
	for _, u := range b.units {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

// TeamUnits filters units to one team, keeping order.
func TeamUnits(units []Unit, teamID int) []Unit {
	var out []Unit
	for _, u := range units {
		if u.TeamID == teamID {
			out = append(out, u)
		}
	}
	return out
}
