package segment

import (
	"sort"
	"strconv"
)

// Store is the ordered collection of segments for one open image (or one
// linked multi-view set), plus class bookkeeping. Segments live in an arena
// keyed by stable id; a separate ordered id list defines render z-order, so
// deletions never renumber the survivors.
//
// The store performs no internal locking: it assumes single-writer
// discipline from the session's owning goroutine.
type Store struct {
	segments map[ID]*Segment
	order    []ID
	nextID   ID

	classAliases map[int]string
	nextClassID  int
	activeClass  int // ClassNone when no class is active
	lastToggled  int // ClassNone when no class was ever touched
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		segments:     make(map[ID]*Segment),
		classAliases: make(map[int]string),
		activeClass:  ClassNone,
		lastToggled:  ClassNone,
	}
}

// Clear removes all segments and resets class state. Ids are not reused
// afterwards.
func (st *Store) Clear() {
	st.segments = make(map[ID]*Segment)
	st.order = st.order[:0]
	st.classAliases = make(map[int]string)
	st.nextClassID = 0
	st.activeClass = ClassNone
	st.lastToggled = ClassNone
}

// Len returns the number of segments.
func (st *Store) Len() int {
	return len(st.order)
}

// IDs returns the segment ids in render z-order (bottom first).
func (st *Store) IDs() []ID {
	out := make([]ID, len(st.order))
	copy(out, st.order)
	return out
}

// Get returns the segment for an id.
func (st *Store) Get(id ID) (*Segment, bool) {
	s, ok := st.segments[id]
	return s, ok
}

// Z returns the render-order position of a segment, or -1 if the id is not
// in the store.
func (st *Store) Z(id ID) int {
	for i, oid := range st.order {
		if oid == id {
			return i
		}
	}
	return -1
}

// Add takes ownership of the segment, assigns its class if unset (active
// class when one is toggled on, otherwise the next free class id), records
// that class as the most recently used, and appends the segment at the top
// of the z-order. Returns the new segment's id. Add never fails.
func (st *Store) Add(s *Segment) ID {
	if s.ClassID == ClassNone {
		if st.activeClass != ClassNone {
			s.ClassID = st.activeClass
		} else {
			s.ClassID = st.nextClassID
		}
	}
	st.lastToggled = s.ClassID

	id := st.nextID
	st.nextID++
	st.segments[id] = s
	st.order = append(st.order, id)
	st.updateNextClassID()
	return id
}

// insertAt places a segment at a specific z position. Used by callers
// restoring an undo snapshot.
func (st *Store) insertAt(s *Segment, z int) ID {
	id := st.nextID
	st.nextID++
	st.segments[id] = s
	if z < 0 || z >= len(st.order) {
		st.order = append(st.order, id)
	} else {
		st.order = append(st.order[:z], append([]ID{id}, st.order[z:]...)...)
	}
	return id
}

// Restore reinserts a snapshot at its recorded z position and returns the
// new id. The undo/redo collaborator calls this to reverse a delete/erase.
func (st *Store) Restore(snap Snapshot) ID {
	id := st.insertAt(snap.Segment.Clone(), snap.Z)
	st.updateNextClassID()
	return id
}

// Delete removes the given segments. Unknown ids are silently ignored.
// Returns snapshots of what was removed, in descending z-order.
func (st *Store) Delete(ids []ID) []Snapshot {
	var snaps []Snapshot
	for _, id := range ids {
		if _, ok := st.segments[id]; !ok {
			continue
		}
		snaps = append(snaps, Snapshot{ID: id, Z: st.Z(id), Segment: st.segments[id]})
	}
	// Remove in descending z-order so each recorded position stays valid
	// while earlier entries are spliced out.
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Z > snaps[j].Z })
	for _, snap := range snaps {
		st.remove(snap.ID)
	}
	if len(snaps) > 0 {
		st.updateNextClassID()
	}
	return snaps
}

// remove drops a segment from the arena and the z-order list.
func (st *Store) remove(id ID) {
	delete(st.segments, id)
	for i, oid := range st.order {
		if oid == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			return
		}
	}
}

// AssignToClass assigns the selected segments to one class. If any of them
// already has a class, all take the minimum of those class ids; otherwise
// all receive the next free class id. No-op on empty input.
func (st *Store) AssignToClass(ids []ID) {
	if len(ids) == 0 {
		return
	}

	target := ClassNone
	for _, id := range ids {
		s, ok := st.segments[id]
		if !ok || s.ClassID == ClassNone {
			continue
		}
		if target == ClassNone || s.ClassID < target {
			target = s.ClassID
		}
	}
	if target == ClassNone {
		target = st.nextClassID
	}

	for _, id := range ids {
		if s, ok := st.segments[id]; ok {
			s.ClassID = target
		}
	}
	st.updateNextClassID()
}

// ReassignClassIDs remaps class ids so that newOrder[i] becomes class i,
// and remaps aliases the same way. Segments whose class is absent from
// newOrder keep their old (now orphaned) id.
func (st *Store) ReassignClassIDs(newOrder []int) {
	idMap := make(map[int]int, len(newOrder))
	for pos, old := range newOrder {
		idMap[old] = pos
	}

	for _, id := range st.order {
		s := st.segments[id]
		if mapped, ok := idMap[s.ClassID]; ok {
			s.ClassID = mapped
		}
	}

	aliases := make(map[int]string)
	for old, alias := range st.classAliases {
		if mapped, ok := idMap[old]; ok {
			aliases[mapped] = alias
		}
	}
	st.classAliases = aliases
	st.updateNextClassID()
}

// UniqueClassIDs returns the sorted set of class ids in use.
func (st *Store) UniqueClassIDs() []int {
	seen := make(map[int]bool)
	for _, id := range st.order {
		if c := st.segments[id].ClassID; c != ClassNone {
			seen[c] = true
		}
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// NextClassID returns the class id a new unclassified segment would get.
func (st *Store) NextClassID() int {
	return st.nextClassID
}

// updateNextClassID recomputes the next free class id: one past the highest
// id in use, or 0 for an empty store.
func (st *Store) updateNextClassID() {
	next := 0
	for _, id := range st.order {
		if c := st.segments[id].ClassID; c != ClassNone && c >= next {
			next = c + 1
		}
	}
	st.nextClassID = next
}

// ToggleActiveClass toggles a class as the active target for new segments.
// Returns true if the class is now active, false if it was deactivated.
// Either way the class becomes the most recently touched one.
func (st *Store) ToggleActiveClass(classID int) bool {
	st.lastToggled = classID
	if st.activeClass == classID {
		st.activeClass = ClassNone
		return false
	}
	st.activeClass = classID
	return true
}

// ActiveClass returns the active class, or ClassNone.
func (st *Store) ActiveClass() int {
	return st.activeClass
}

// LastToggledClass returns the most recently touched class, or ClassNone.
func (st *Store) LastToggledClass() int {
	return st.lastToggled
}

// HotkeyClass returns the class a "repeat last class" hotkey should act on:
// the most recently touched class, else the highest class id in use, else
// ClassNone.
func (st *Store) HotkeyClass() int {
	if st.lastToggled != ClassNone {
		return st.lastToggled
	}
	if ids := st.UniqueClassIDs(); len(ids) > 0 {
		return ids[len(ids)-1]
	}
	return ClassNone
}

// Alias returns the display name for a class, defaulting to its numeric id.
func (st *Store) Alias(classID int) string {
	if alias, ok := st.classAliases[classID]; ok {
		return alias
	}
	return strconv.Itoa(classID)
}

// SetAlias sets the display name for a class.
func (st *Store) SetAlias(classID int, alias string) {
	st.classAliases[classID] = alias
}

// HitTest returns the ids of all segments containing the image point for
// the given view, topmost first.
func (st *Store) HitTest(x, y float64, view ViewID) []ID {
	var hits []ID
	for i := len(st.order) - 1; i >= 0; i-- {
		id := st.order[i]
		g := st.segments[id].View(view)
		if g != nil && g.Contains(x, y) {
			hits = append(hits, id)
		}
	}
	return hits
}
