// Package index builds and holds the in-memory catalog of a roms directory.
package index

// Rom is one catalog entry derived from a file inside a collection
// directory. BoxartSize is 0 when no box art exists on disk.
type Rom struct {
	Name       string
	BoxartPath string
	BoxartSize uint64
}

// Collection groups roms by their parent subdirectory. RomIndices point into
// the owning Index's Roms slice, in discovery order.
type Collection struct {
	Name       string
	RomIndices []int
}

// Index is the aggregate result of one scan. Roms is append-only during a
// scan and never reordered afterwards, so rom indices stay valid for the
// lifetime of the Index.
type Index struct {
	Roms        []Rom
	Collections []Collection
}

// State is the session-scoped bundle carried across views: the chosen roms
// folder, the index built from it, and the accumulated error log. Exactly
// one view owns a State at any time.
type State struct {
	RomsFolder string
	Index      Index
	Errors     []string
}

// NewState returns an empty state rooted at romsFolder.
func NewState(romsFolder string) *State {
	return &State{RomsFolder: romsFolder}
}

// RecordError appends a human-readable error to the session log. The log is
// append-only; entries are never removed or reordered.
func (s *State) RecordError(text string) {
	s.Errors = append(s.Errors, text)
}
