package tracks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store holds the segment list for one session and serializes every
// edit on its mutex. Operations either apply fully or leave the list
// untouched and return one of the package sentinels; callers surface
// rejections on the status line and move on. The slice is kept sorted
// by Order, and Order values stay dense from zero.
type Store struct {
	mu       sync.Mutex
	segments []Segment
}

// NewStore seeds a store with the builder's output.
func NewStore(segments []Segment) *Store {
	own := make([]Segment, len(segments))
	copy(own, segments)
	return &Store{segments: own}
}

// Len returns the number of segments, deleted ones included.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.segments)
}

// Segments returns a snapshot of the full list in display order.
func (st *Store) Segments() []Segment {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Segment, len(st.segments))
	copy(out, st.segments)
	return out
}

// View returns the export view: non-deleted segments in order, as
// copies. Deleted segments are simply absent; their Order values still
// count positions in the full list.
func (st *Store) View() []Segment {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Segment, 0, len(st.segments))
	for _, s := range st.segments {
		if !s.Deleted {
			out = append(out, s)
		}
	}
	return out
}

// Get returns a copy of one segment by ID.
func (st *Store) Get(id string) (Segment, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	i := st.index(id)
	if i < 0 {
		return Segment{}, false
	}
	return st.segments[i], true
}

// Crop narrows a segment's export range. The new range must sit inside
// the segment's native bounds and be non-empty.
func (st *Store) Crop(id string, start, end int) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	i := st.index(id)
	if i < 0 {
		return fmt.Errorf("tracks: crop %s: %w", id, ErrNoSuchSegment)
	}
	s := &st.segments[i]
	if start < s.NativeStart || end > s.NativeEnd || start >= end {
		return fmt.Errorf("tracks: crop [%d, %d) of native [%d, %d): %w",
			start, end, s.NativeStart, s.NativeEnd, ErrOutOfBounds)
	}
	s.CropStart, s.CropEnd = start, end
	return nil
}

// Rename sets a segment's name. Blank names are rejected; surrounding
// whitespace is the caller's to keep if they insist.
func (st *Store) Rename(id, name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	i := st.index(id)
	if i < 0 {
		return fmt.Errorf("tracks: rename %s: %w", id, ErrNoSuchSegment)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("tracks: rename %s to %q: %w", id, name, ErrInvalidName)
	}
	st.segments[i].Name = name
	return nil
}

// Delete marks a segment deleted. It stays in the list at its position
// so the edit can be undone; View skips it. Idempotent.
func (st *Store) Delete(id string) error {
	return st.setDeleted(id, true)
}

// Undelete clears the deleted mark. Idempotent.
func (st *Store) Undelete(id string) error {
	return st.setDeleted(id, false)
}

func (st *Store) setDeleted(id string, deleted bool) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	i := st.index(id)
	if i < 0 {
		return fmt.Errorf("tracks: delete %s: %w", id, ErrNoSuchSegment)
	}
	st.segments[i].Deleted = deleted
	return nil
}

// Reorder moves a segment to position newIdx in the full list. The
// other segments keep their relative order; every Order field is
// re-densified afterwards.
func (st *Store) Reorder(id string, newIdx int) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	i := st.index(id)
	if i < 0 {
		return fmt.Errorf("tracks: reorder %s: %w", id, ErrNoSuchSegment)
	}
	if newIdx < 0 || newIdx >= len(st.segments) {
		return fmt.Errorf("tracks: reorder to %d of %d: %w", newIdx, len(st.segments), ErrOutOfRange)
	}
	if newIdx == i {
		return nil
	}
	s := st.segments[i]
	st.segments = append(st.segments[:i], st.segments[i+1:]...)
	st.segments = append(st.segments[:newIdx], append([]Segment{s}, st.segments[newIdx:]...)...)
	st.renumber()
	return nil
}

// Split cuts a segment in two at a sample offset strictly inside its
// crop range. Both halves get fresh IDs; the right half takes the
// left's name with a " b" suffix. The original segment is retired.
func (st *Store) Split(id string, at int) (left, right Segment, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	i := st.index(id)
	if i < 0 {
		return Segment{}, Segment{}, fmt.Errorf("tracks: split %s: %w", id, ErrNoSuchSegment)
	}
	s := st.segments[i]
	if at <= s.CropStart || at >= s.CropEnd {
		return Segment{}, Segment{}, fmt.Errorf("tracks: split at %d outside crop (%d, %d): %w",
			at, s.CropStart, s.CropEnd, ErrOutOfBounds)
	}

	left = Segment{
		ID:          uuid.New().String(),
		NativeStart: s.NativeStart,
		NativeEnd:   at,
		CropStart:   s.CropStart,
		CropEnd:     at,
		Name:        s.Name,
		Deleted:     s.Deleted,
	}
	right = Segment{
		ID:          uuid.New().String(),
		NativeStart: at,
		NativeEnd:   s.NativeEnd,
		CropStart:   at,
		CropEnd:     s.CropEnd,
		Name:        s.Name + " b",
		Deleted:     s.Deleted,
	}

	st.segments = append(st.segments[:i], append([]Segment{left, right}, st.segments[i+1:]...)...)
	st.renumber()
	return st.segments[i], st.segments[i+1], nil
}

// Merge joins two segments that share a native edge into one with the
// first's name and the union of their native ranges. The crop spans
// from the first's crop start to the second's crop end. Deleted
// segments cannot participate.
func (st *Store) Merge(firstID, secondID string) (Segment, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	i := st.index(firstID)
	if i < 0 {
		return Segment{}, fmt.Errorf("tracks: merge %s: %w", firstID, ErrNoSuchSegment)
	}
	j := st.index(secondID)
	if j < 0 {
		return Segment{}, fmt.Errorf("tracks: merge %s: %w", secondID, ErrNoSuchSegment)
	}
	a, b := st.segments[i], st.segments[j]
	if a.NativeEnd != b.NativeStart {
		return Segment{}, fmt.Errorf("tracks: merge %q and %q: native ranges [%d, %d) and [%d, %d): %w",
			a.Name, b.Name, a.NativeStart, a.NativeEnd, b.NativeStart, b.NativeEnd, ErrNotAdjacent)
	}
	if a.Deleted || b.Deleted {
		return Segment{}, fmt.Errorf("tracks: merge %q and %q: deleted segment: %w", a.Name, b.Name, ErrNotAdjacent)
	}

	merged := Segment{
		ID:          uuid.New().String(),
		NativeStart: a.NativeStart,
		NativeEnd:   b.NativeEnd,
		CropStart:   a.CropStart,
		CropEnd:     b.CropEnd,
		Name:        a.Name,
	}

	// Replace the first, drop the second.
	st.segments[i] = merged
	if j < i {
		i--
	}
	st.segments = append(st.segments[:j], st.segments[j+1:]...)
	st.renumber()
	return st.segments[i], nil
}

// index returns the position of a segment by ID, or -1. Callers hold
// the mutex.
func (st *Store) index(id string) int {
	for i := range st.segments {
		if st.segments[i].ID == id {
			return i
		}
	}
	return -1
}

// renumber re-densifies Order after any structural edit. Callers hold
// the mutex.
func (st *Store) renumber() {
	for i := range st.segments {
		st.segments[i].Order = i
	}
}
