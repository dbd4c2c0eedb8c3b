// Package export turns the edited segment view into deliverables: a
// ZIP archive of per-track WAV files, and MP3 renditions for upload.
package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tapeworks/bandsaw/internal/audio"
	"github.com/tapeworks/bandsaw/internal/tracks"
)

// ErrNothingToExport is returned when the export view is empty, which
// happens once every segment has been deleted.
var ErrNothingToExport = errors.New("nothing to export")

// SanitizeName makes a segment name safe as an archive entry and as an
// upload key component: path separators become dashes, control
// characters are dropped, surrounding whitespace and dots are trimmed.
// A name with nothing left falls back to the given fallback.
func SanitizeName(name, fallback string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('-')
		case r < 0x20 || r == 0x7f:
			// control characters dropped
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), " .")
	if out == "" {
		return fallback
	}
	return out
}

// archiveEntryName turns a segment name into a unique `<name>.wav`
// entry. A name already carrying a .wav suffix keeps it; collisions
// get a numbered suffix before the extension.
func archiveEntryName(name string, position int, used map[string]bool) string {
	base := SanitizeName(name, fmt.Sprintf("Track %d", position+1))
	if !strings.HasSuffix(strings.ToLower(base), ".wav") {
		base += ".wav"
	}
	entry := base
	for n := 2; used[strings.ToLower(entry)]; n++ {
		entry = fmt.Sprintf("%s (%d).wav", base[:len(base)-len(".wav")], n)
	}
	used[strings.ToLower(entry)] = true
	return entry
}

// WriteArchive writes one WAV per segment into w as a ZIP archive,
// cutting each track at its crop bounds. Callers pass the store's
// export view, so deleted segments never reach here; the segment names
// are the rename map for the archive entries.
func WriteArchive(w io.Writer, buf *audio.SampleBuffer, segments []tracks.Segment) error {
	if len(segments) == 0 {
		return fmt.Errorf("export: %w", ErrNothingToExport)
	}

	zw := zip.NewWriter(w)
	used := make(map[string]bool, len(segments))
	for i, seg := range segments {
		entry, err := zw.Create(archiveEntryName(seg.Name, i, used))
		if err != nil {
			return fmt.Errorf("export: create entry for %q: %w", seg.Name, err)
		}
		if err := audio.WriteWAV(entry, buf, seg.CropStart, seg.CropEnd); err != nil {
			return fmt.Errorf("export: write %q: %w", seg.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("export: close archive: %w", err)
	}
	return nil
}

// WriteArchiveFile is WriteArchive into a freshly created file. A
// failed export removes the partial file instead of leaving a broken
// archive behind.
func WriteArchiveFile(path string, buf *audio.SampleBuffer, segments []tracks.Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WriteArchive(f, buf, segments); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}
