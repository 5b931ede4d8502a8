package snapshot

import (
	"io"
	"sort"

	"github.com/klauspost/compress/s2"

	"github.com/tc-cache/tc-cache/internal/errs"
	"github.com/tc-cache/tc-cache/internal/memio"
	"github.com/tc-cache/tc-cache/internal/stats"
)

// Magic is the four-byte archive header. Any future change to the wire
// format must change this value.
var Magic = [4]byte{0xA0, 0xF1, 0xB2, 0x01}

// writeChunk is the chunk size used when streaming file payloads into
// the compressor, per §4.4.
const writeChunk = 64 * 1024

// Writer emits the binary snapshot format described in §4.4, streamed
// through a Snappy-framed block compressor. A Writer owns its
// destination stream exclusively for its lifetime and is not safe for
// concurrent use.
type Writer struct {
	comp *s2.Writer
}

// NewWriter wraps w in Snappy-frame compression and writes the MAGIC
// header.
func NewWriter(w io.Writer) (*Writer, error) {
	comp := s2.NewWriter(w, s2.WriterSnappyCompat())

	if _, err := comp.Write(Magic[:]); err != nil {
		return nil, errs.Snapshot("failed to write archive header", err)
	}

	return &Writer{comp: comp}, nil
}

// WriteEntry serializes e, prefixes it with its little-endian length,
// and writes both to the stream. It returns the number of bytes written.
func (w *Writer) WriteEntry(e Entry) (int, error) {
	meta, err := encodeEntry(e)
	if err != nil {
		return 0, err
	}

	lenBytes := IntoLEBytes(uint32(len(meta)))

	if _, err := w.comp.Write(lenBytes[:]); err != nil {
		return 0, errs.Snapshot("failed to write entry length", err)
	}

	if _, err := w.comp.Write(meta); err != nil {
		return 0, errs.Snapshot("failed to write entry metadata", err)
	}

	return len(lenBytes) + len(meta), nil
}

// WriteFile copies up to length bytes from the file at path to the
// stream, memory-mapping the source to avoid a user-space copy, and
// writing to the compressor in fixed chunks.
func (w *Writer) WriteFile(path string, length uint32) error {
	if length == 0 {
		return nil
	}

	m, err := memio.ReadMap(path, int(length))
	if err != nil {
		return err
	}
	defer m.Close()

	src := m.Bytes()
	for len(src) > 0 {
		n := writeChunk
		if n > len(src) {
			n = len(src)
		}

		if _, err := w.comp.Write(src[:n]); err != nil {
			return errs.IO(path, err)
		}

		src = src[n:]
	}

	return nil
}

// Flush finalizes the compressor frame. The archive is not guaranteed
// to be complete on disk until Flush returns nil.
func (w *Writer) Flush() error {
	if err := w.comp.Close(); err != nil {
		return errs.Snapshot("failed to flush archive", err)
	}

	return nil
}

// Pack writes entries (sorted by path for determinism, invariant 4) to
// w as a complete archive: header, then metadata and payload per entry.
func Pack(w io.Writer, entries []Entry) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	timer := stats.Current().Packing.Timer()
	defer timer.Stop()

	writer, err := NewWriter(w)
	if err != nil {
		return err
	}

	for _, e := range sorted {
		n, err := writer.WriteEntry(e)
		if err != nil {
			return err
		}

		timer.AddBytes(uint64(n))

		if e.Type == KindFile && e.Len > 0 {
			if err := writer.WriteFile(e.Path, e.Len); err != nil {
				return err
			}

			timer.AddBytes(uint64(e.Len))
		}
	}

	return writer.Flush()
}
