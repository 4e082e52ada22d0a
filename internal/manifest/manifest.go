// Package manifest loads segment placement manifests produced by an
// upstream synthesis step: a JSON list of time windows and WAV file paths.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aobrainsystems/voxshift/internal/audio"
	"github.com/aobrainsystems/voxshift/internal/timeline"
)

// Entry is one placement: a time window and the WAV file holding its audio.
// Relative file paths resolve against the manifest's directory.
type Entry struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	File  string  `json:"file"`
}

// Manifest is a validated list of segment placements.
type Manifest struct {
	Segments []Entry `json:"segments"`

	dir string
}

// Load reads and validates the manifest at path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)

	for i, e := range m.Segments {
		if e.Start < 0 {
			return Manifest{}, fmt.Errorf("manifest segment %d: start %g must be >= 0", i, e.Start)
		}
		if e.End <= e.Start {
			return Manifest{}, fmt.Errorf("manifest segment %d: end %g must be after start %g", i, e.End, e.Start)
		}
		if e.File == "" {
			return Manifest{}, fmt.Errorf("manifest segment %d: missing file", i)
		}
	}

	return m, nil
}

// Placements reads each entry's WAV file and returns the segments ready for
// composition. Any unreadable or malformed segment file fails the whole
// call; there is no partial result.
func (m Manifest) Placements() ([]timeline.Segment, error) {
	segments := make([]timeline.Segment, len(m.Segments))
	for i, e := range m.Segments {
		path := e.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.dir, path)
		}

		buf, err := audio.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		segments[i] = timeline.Segment{Start: e.Start, End: e.End, Audio: buf}
	}

	return segments, nil
}
