/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package ziparchive

import (
	"hash/crc32"
	"time"

	"github.com/nabbar/corestream/compress"
	liberr "github.com/nabbar/corestream/errors"
	libhsh "github.com/nabbar/corestream/hashstream"
	liblog "github.com/nabbar/corestream/logger"
	libstm "github.com/nabbar/corestream/stream"
	libfmt "github.com/nabbar/corestream/zipformat"
)

const maxEntries = 65535
const warnEntries = 32767

// Options configures a Writer. Logger receives the entry-count warning
// raised once BeginFile crosses warnEntries; it defaults to a no-op sink
// so callers that do not care about the diagnostic need not provide one.
type Options struct {
	CompressionLevel  compress.Level
	CopyBufferSize    int
	DeflateBufferSize int
	Logger            liblog.Logger

	// Progress, when set, is used by CompressFileAndComputeCRC32 whenever
	// its own progress argument is nil. ProgressFromBar adapts an
	// mpb.Bar into this shape.
	Progress func(done, total int64)
}

func (o Options) withDefaults() Options {
	if o.CopyBufferSize <= 0 {
		o.CopyBufferSize = 32 * 1024
	}
	o.Logger = liblog.OrNop(o.Logger)
	return o
}

type writerState int

const (
	stateIdle writerState = iota
	stateBegan
	stateCompressed
	stateClosed
)

// pendingFile holds the per-file bookkeeping between BeginFile and EndFile.
type pendingFile struct {
	filename         string
	extra            []byte
	lentOffset       int64
	compressedSize   int64
	uncompressedSize int64
	crc32            uint32
	method           uint16
	modTime          time.Time
}

// Writer is a two-pass, per-file ZIP archive writer. It
// requires a seekable output stream: beginFile reserves a local-header
// placeholder that endFile later overwrites in place.
type Writer struct {
	dst     libstm.Stream
	opts    Options
	central []*libfmt.CentralDirectoryEntry
	comment string

	state   writerState
	pending pendingFile
}

// NewWriter returns a Writer over dst (must support Seek).
func NewWriter(dst libstm.Stream, opts Options) *Writer {
	return &Writer{dst: dst, opts: opts.withDefaults()}
}

// BeginFile reserves the local-header placeholder for filename; the real
// header is patched in by EndFile once the sizes and CRC are known.
func (w *Writer) BeginFile(filename string, extra []byte, modTime time.Time) liberr.Error {
	if w.state != stateIdle {
		return ErrorOutOfOrder.Error(nil)
	}
	if len(w.central) >= maxEntries {
		return ErrorTooManyEntries.Error(nil)
	}
	if len(w.central) == warnEntries {
		w.opts.Logger.Warn().Int("entries", len(w.central)).Msg("zip archive entry count exceeds 32767; some extractors may mishandle this archive")
	}

	w.pending = pendingFile{
		filename: filename,
		extra:    extra,
		modTime:  modTime,
	}
	w.pending.lentOffset = w.dst.Offset()

	placeholder := make([]byte, libfmt.LocalFixedSize+len(filename)+len(extra))
	if _, err := writeFull(w.dst, placeholder); err != nil {
		return err
	}

	w.state = stateBegan
	return nil
}

// CompressFileAndComputeCRC32 streams src through the compression pipeline:
// deflate at opts.CompressionLevel, falling back to
// store (with a rewind-and-recopy) whenever compression would not save any
// space. src must be seekable when opts.CompressionLevel > 0, to support
// that rewind.
func (w *Writer) CompressFileAndComputeCRC32(src libstm.Stream, uncompressedSize int64, progress func(done, total int64)) (int64, uint32, uint16, liberr.Error) {
	if w.state != stateBegan {
		return 0, 0, 0, ErrorOutOfOrder.Error(nil)
	}
	if progress == nil {
		progress = w.opts.Progress
	}

	start := w.dst.Offset()
	srcStart := src.Offset()

	compressedSize, crcVal, method, err := w.tryCompress(src, uncompressedSize, start, progress)
	if err != nil {
		return 0, 0, 0, err
	}

	if method == libfmt.MethodDeflate && compressedSize >= uncompressedSize {
		if _, serr := w.dst.Seek(start, libstm.SeekStart); serr != nil {
			return 0, 0, 0, ErrorOutOfOrder.Error(serr)
		}
		if _, serr := src.Seek(srcStart, libstm.SeekStart); serr != nil {
			return 0, 0, 0, ErrorOutOfOrder.Error(serr)
		}

		hw := libhsh.NewWriter(w.dst, crc32.NewIEEE())
		n, cerr := copyWithProgress(hw, src, uncompressedSize, w.opts.CopyBufferSize, progress)
		if cerr != nil {
			return 0, 0, 0, cerr
		}

		compressedSize = n
		crcVal = hw.Sum32()
		method = libfmt.MethodStore
		_ = w.dst.SetSize(start + compressedSize)
	}

	w.pending.compressedSize = compressedSize
	w.pending.uncompressedSize = uncompressedSize
	w.pending.crc32 = crcVal
	w.pending.method = method
	w.state = stateCompressed

	return compressedSize, crcVal, method, nil
}

func (w *Writer) tryCompress(src libstm.Stream, uncompressedSize, start int64, progress func(int64, int64)) (int64, uint32, uint16, liberr.Error) {
	if w.opts.CompressionLevel <= compress.NoCompression {
		hw := libhsh.NewWriter(w.dst, crc32.NewIEEE())
		n, err := copyWithProgress(hw, src, uncompressedSize, w.opts.CopyBufferSize, progress)
		if err != nil {
			return 0, 0, 0, err
		}
		return n, hw.Sum32(), libfmt.MethodStore, nil
	}

	// DeflateBufferSize batches the encoder's output before it hits the
	// archive stream; the batch is drained back out before the compressed
	// size is measured.
	sink := libstm.Stream(w.dst)
	var bw *libstm.Buffer
	if w.opts.DeflateBufferSize > 0 {
		var berr liberr.Error
		bw, berr = libstm.NewBuffer(w.dst, libstm.BufferOptions{Capacity: w.opts.DeflateBufferSize})
		if berr != nil {
			return 0, 0, 0, berr
		}
		sink = bw
	}

	cw := compress.DeflateStream(sink, w.opts.CompressionLevel)
	hw := libhsh.NewWriter(cw, crc32.NewIEEE())

	if _, err := copyWithProgress(hw, src, uncompressedSize, w.opts.CopyBufferSize, progress); err != nil {
		return 0, 0, 0, err
	}
	if cerr := cw.Close(); cerr != nil {
		return 0, 0, 0, ErrorOutOfOrder.Error(cerr)
	}
	if bw != nil {
		if ferr := bw.UnbufferSync(false); ferr != nil {
			return 0, 0, 0, ferr
		}
	}

	compressedSize := w.dst.Offset() - start
	return compressedSize, hw.Sum32(), libfmt.MethodDeflate, nil
}

func copyWithProgress(dst libstm.Stream, src libstm.Stream, limit int64, bufSize int, progress func(done, total int64)) (int64, liberr.Error) {
	if bufSize <= 0 {
		bufSize = 32 * 1024
	}
	buf := make([]byte, bufSize)

	var done int64
	for limit < 0 || done < limit {
		chunk := buf
		if limit >= 0 {
			remain := limit - done
			if int64(len(chunk)) > remain {
				chunk = chunk[:remain]
			}
		}

		n, err := src.ReadSome(chunk)
		if n > 0 {
			if _, werr := writeFull(dst, chunk[:n]); werr != nil {
				return done, werr
			}
			done += int64(n)
			if progress != nil {
				progress(done, limit)
			}
		}

		if err != nil {
			if err.HasCode(libstm.ErrorEOF) {
				return done, nil
			}
			return done, err
		}
		if n == 0 {
			return done, nil
		}
	}

	return done, nil
}

func writeFull(dst libstm.Stream, p []byte) (int, liberr.Error) {
	written := 0
	for written < len(p) {
		n, err := dst.WriteSome(p[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, ErrorOutOfOrder.Error(nil)
		}
	}
	return written, nil
}

// EndFile patches the reserved local header in place and accumulates the
// central-directory entry.
func (w *Writer) EndFile(comment string) liberr.Error {
	if w.state != stateCompressed {
		return ErrorOutOfOrder.Error(nil)
	}

	p := w.pending
	modDate, modTime := libfmt.EncodeDOSTime(p.modTime)

	lde := &libfmt.LocalDirectoryEntry{
		ExtractVersion:   20,
		Method:           p.method,
		ModTime:          modTime,
		ModDate:          modDate,
		CRC32:            p.crc32,
		CompressedSize:   uint32(p.compressedSize),
		UncompressedSize: uint32(p.uncompressedSize),
		Filename:         p.filename,
		Extra:            p.extra,
	}

	endOfPayload := w.dst.Offset()

	if _, err := w.dst.Seek(p.lentOffset, libstm.SeekStart); err != nil {
		return ErrorOutOfOrder.Error(err)
	}
	if _, err := writeFull(w.dst, lde.Encode(nil)); err != nil {
		return err
	}
	if _, err := w.dst.Seek(endOfPayload, libstm.SeekStart); err != nil {
		return ErrorOutOfOrder.Error(err)
	}

	w.central = append(w.central, &libfmt.CentralDirectoryEntry{
		MadeByVersion:      20,
		ExtractVersion:     20,
		Method:             p.method,
		ModTime:            modTime,
		ModDate:            modDate,
		CRC32:              p.crc32,
		CompressedSize:     uint32(p.compressedSize),
		UncompressedSize:   uint32(p.uncompressedSize),
		LocalHeaderOffset:  uint32(p.lentOffset),
		Filename:           p.filename,
		Extra:              p.extra,
		Comment:            comment,
	})

	w.state = stateIdle
	return nil
}

// SetArchiveComment sets the trailing comment written by End.
func (w *Writer) SetArchiveComment(comment string) { w.comment = comment }

// End writes the accumulated central directory and the end record.
func (w *Writer) End() liberr.Error {
	if w.state == stateClosed {
		return ErrorWriterClosed.Error(nil)
	}
	if w.state != stateIdle {
		return ErrorOutOfOrder.Error(nil)
	}
	if len(w.central) > maxEntries {
		return ErrorTooManyEntries.Error(nil)
	}

	cdStart := w.dst.Offset()

	var buf []byte
	for _, e := range w.central {
		buf = e.Encode(buf)
	}
	if _, err := writeFull(w.dst, buf); err != nil {
		return err
	}

	cdSize := w.dst.Offset() - cdStart

	total := cdStart + cdSize + int64(libfmt.EndFixedSize) + int64(len(w.comment))
	if total > 0xffffffff || cdStart > 0xffffffff || cdSize > 0xffffffff {
		return ErrorArchiveTooLarge.Error(nil)
	}

	erec := &libfmt.EndRecord{
		EntriesOnThisDisk: uint16(len(w.central)),
		EntriesTotal:      uint16(len(w.central)),
		CentralDirSize:    uint32(cdSize),
		CentralDirOffset:  uint32(cdStart),
		Comment:           w.comment,
	}

	if _, err := writeFull(w.dst, erec.Encode(nil)); err != nil {
		return err
	}

	w.state = stateClosed
	return w.dst.Flush()
}

// EntryCount returns the number of entries finalised with EndFile so far.
func (w *Writer) EntryCount() int { return len(w.central) }
