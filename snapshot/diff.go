package snapshot

// RecordKind discriminates a DiffRecord.
type RecordKind uint8

const (
	Added RecordKind = iota
	Removed
	Changed
)

// DiffRecord is one element of a diff result: a path that appeared
// (Added), a path that disappeared (Removed), or a path present on both
// sides with unequal entries (Changed, carrying both sides).
type DiffRecord struct {
	Kind RecordKind
	Path string
	Prev Entry
	Curr Entry
}

// Diff computes the set of added/removed/changed entries between prev
// and curr, per §4.3: it builds a map from path to entry for curr, then
// walks prev classifying each path as Removed (absent from curr),
// Changed (present but unequal, per Entry.Equal), or dropped (equal).
// Whatever remains unclaimed in the curr map becomes Added.
func Diff(prev, curr []Entry) []DiffRecord {
	byPath := make(map[string]Entry, len(curr))
	for _, e := range curr {
		byPath[e.Path] = e
	}

	var records []DiffRecord

	for _, p := range prev {
		c, ok := byPath[p.Path]
		if !ok {
			records = append(records, DiffRecord{Kind: Removed, Path: p.Path, Prev: p})
			continue
		}

		delete(byPath, p.Path)

		if !p.Equal(c) {
			records = append(records, DiffRecord{Kind: Changed, Path: p.Path, Prev: p, Curr: c})
		}
	}

	for _, c := range byPath {
		records = append(records, DiffRecord{Kind: Added, Path: c.Path, Curr: c})
	}

	return records
}
