//go:build linux

package snapshot

import (
	"io/fs"
	"syscall"
)

// attributesOf extracts POSIX mode bits and unix-epoch atime/mtime from
// the stat_t embedded in a FileInfo. The engine is POSIX-only by design
// (see SPEC_FULL.md Non-goals); there is no portable fallback.
func attributesOf(info fs.FileInfo) Attributes {
	mode := uint32(info.Mode().Perm())
	if info.IsDir() {
		mode |= 0o40000
	}

	var atime int64

	mtime := info.ModTime().Unix()

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		mode = st.Mode
		atime = st.Atim.Sec
		mtime = st.Mtim.Sec
	}

	return Attributes{Mode: mode, Atime: atime, Mtime: mtime}
}
