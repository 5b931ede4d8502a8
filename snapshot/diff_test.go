package snapshot_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/snapshot"
)

func dirEntry(path string, mode uint32) snapshot.Entry {
	return snapshot.Entry{Type: snapshot.KindDir, Path: path, Attr: snapshot.Attributes{Mode: mode}}
}

func TestDiffOfIdenticalSequencesIsEmpty(t *testing.T) {
	entries := []snapshot.Entry{dirEntry("/a", 0o755), dirEntry("/b", 0o755)}

	require.Empty(t, snapshot.Diff(entries, entries))
}

func TestDiffDetectsAddedRemovedChanged(t *testing.T) {
	prev := []snapshot.Entry{
		dirEntry("/a", 0o755),
		dirEntry("/b", 0o755),
		dirEntry("/c", 0o755),
	}
	curr := []snapshot.Entry{
		dirEntry("/a", 0o755),        // unchanged
		dirEntry("/b", 0o700),        // changed
		dirEntry("/d", 0o755),        // added
	}

	records := snapshot.Diff(prev, curr)
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })

	want := []snapshot.DiffRecord{
		{Kind: snapshot.Changed, Path: "/b", Prev: dirEntry("/b", 0o755), Curr: dirEntry("/b", 0o700)},
		{Kind: snapshot.Removed, Path: "/c", Prev: dirEntry("/c", 0o755)},
		{Kind: snapshot.Added, Path: "/d", Curr: dirEntry("/d", 0o755)},
	}

	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("diff records mismatch (-want +got):\n%s", diff)
	}
}
