// Package tracks models the editable segment list a detection run
// produces: building the initial segments from boundaries, and the
// store through which every user edit flows.
package tracks

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidBoundary means the detector handed the builder an
	// offset that cannot partition the recording. This is a contract
	// violation between pipeline stages, not a user mistake.
	ErrInvalidBoundary = errors.New("invalid boundary")

	// ErrNoSuchSegment is returned by store operations given an
	// unknown segment ID.
	ErrNoSuchSegment = errors.New("no such segment")

	// ErrOutOfBounds rejects crop and split positions outside the
	// segment's allowed range.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidName rejects empty or blank segment names.
	ErrInvalidName = errors.New("invalid name")

	// ErrOutOfRange rejects reorder targets outside the list.
	ErrOutOfRange = errors.New("order index out of range")

	// ErrNotAdjacent rejects merging segments that do not share a
	// native edge.
	ErrNotAdjacent = errors.New("segments not adjacent")
)

// Segment is one track slice of the decoded recording. Native bounds
// record the span the detector assigned and never change; the crop
// range narrows within them and is what export actually cuts. All
// offsets are per-channel sample positions, half-open [start, end).
type Segment struct {
	ID          string
	Order       int
	NativeStart int
	NativeEnd   int
	CropStart   int
	CropEnd     int
	Name        string
	Deleted     bool
}

// CropLen returns the exported sample count.
func (s Segment) CropLen() int { return s.CropEnd - s.CropStart }

// CropDuration returns the exported length as wall-clock time.
func (s Segment) CropDuration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	secs := float64(s.CropLen()) / float64(sampleRate)
	return time.Duration(secs * float64(time.Second))
}

// Cropped reports whether the crop range has been narrowed from the
// native span.
func (s Segment) Cropped() bool {
	return s.CropStart != s.NativeStart || s.CropEnd != s.NativeEnd
}

// Build partitions a recording of totalSamples into N+1 segments at N
// boundary offsets. Boundaries must be strictly ascending and strictly
// inside (0, totalSamples); anything else fails with a wrapped
// ErrInvalidBoundary rather than being clamped, since bad boundaries
// mean the detector broke its contract. Zero boundaries produce a
// single whole-file segment.
func Build(totalSamples int, boundaries []int) ([]Segment, error) {
	if totalSamples <= 0 {
		return nil, fmt.Errorf("tracks: total sample count %d: %w", totalSamples, ErrInvalidBoundary)
	}
	prev := 0
	for i, b := range boundaries {
		if b <= 0 || b >= totalSamples {
			return nil, fmt.Errorf("tracks: boundary %d at %d outside (0, %d): %w", i, b, totalSamples, ErrInvalidBoundary)
		}
		if b <= prev {
			return nil, fmt.Errorf("tracks: boundary %d at %d not after %d: %w", i, b, prev, ErrInvalidBoundary)
		}
		prev = b
	}

	edges := make([]int, 0, len(boundaries)+2)
	edges = append(edges, 0)
	edges = append(edges, boundaries...)
	edges = append(edges, totalSamples)

	segments := make([]Segment, 0, len(edges)-1)
	for i := 0; i < len(edges)-1; i++ {
		segments = append(segments, Segment{
			ID:          uuid.New().String(),
			Order:       i,
			NativeStart: edges[i],
			NativeEnd:   edges[i+1],
			CropStart:   edges[i],
			CropEnd:     edges[i+1],
			Name:        fmt.Sprintf("Track %d", i+1),
		})
	}
	return segments, nil
}
