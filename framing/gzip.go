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

package framing

import (
	"bytes"
	"hash/crc32"
	"io"

	kgzip "github.com/klauspost/compress/gzip"

	libcmp "github.com/nabbar/corestream/compress"
	liberr "github.com/nabbar/corestream/errors"
	libhsh "github.com/nabbar/corestream/hashstream"
	libstm "github.com/nabbar/corestream/stream"
)

// GZipOptions configures the streaming gzip member writer.
type GZipOptions struct {
	// CompressionLevel is the deflate effort for the member body.
	CompressionLevel libcmp.Level
}

// GZipWriter frames application writes as one RFC 1952 gzip member on dst:
// the 10-byte header goes out at construction, writes pass through a deflate
// filter that keeps a running CRC-32 and byte count of the uncompressed
// data, and Close finishes the deflate stream and appends the 8-byte
// CRC/ISIZE footer.
type GZipWriter struct {
	dst     libstm.Stream
	deflate libstm.Stream
	crc     *libhsh.Writer
	closed  bool
}

func NewGZipWriter(dst libstm.Stream, opt GZipOptions) (*GZipWriter, liberr.Error) {
	// id1 id2 method flags mtime(4) xfl os; no optional fields, mtime
	// unset, originating system unknown.
	header := []byte{0x1f, 0x8b, 8, 0, 0, 0, 0, 0, 0, 255}
	if _, err := writeAll(dst, header); err != nil {
		return nil, err
	}

	deflate := libcmp.DeflateStream(dst, opt.CompressionLevel)
	return &GZipWriter{
		dst:     dst,
		deflate: deflate,
		crc:     libhsh.NewWriter(deflate, crc32.NewIEEE()),
	}, nil
}

func (w *GZipWriter) WriteSome(p []byte) (int, liberr.Error) {
	if w.closed {
		return 0, libstm.ErrorClosed.Error(nil)
	}
	return w.crc.WriteSome(p)
}

func (w *GZipWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.deflate.Close(); err != nil {
		return err
	}

	var footer []byte
	footer = libstm.PutUint32LE(footer, w.crc.Sum32())
	footer = libstm.PutUint32LE(footer, uint32(w.crc.BytesWritten()))
	_, err := writeAll(w.dst, footer)
	return err
}

func (w *GZipWriter) Closed() bool { return w.closed }

// BytesWritten returns the count of uncompressed bytes accepted so far (the
// value the footer's ISIZE field will carry, modulo 2^32).
func (w *GZipWriter) BytesWritten() int64 { return w.crc.BytesWritten() }

func (w *GZipWriter) ReadSome(p []byte) (int, liberr.Error) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (w *GZipWriter) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (w *GZipWriter) Offset() int64 { return w.crc.BytesWritten() }

func (w *GZipWriter) Size() (int64, liberr.Error) {
	return w.crc.BytesWritten(), nil
}

func (w *GZipWriter) SetSize(n int64) liberr.Error {
	return libstm.ErrorReadOnly.Error(nil)
}

func (w *GZipWriter) Flush() liberr.Error { return w.deflate.Flush() }

// GzipEncode frames p as a single-member gzip stream (RFC 1952) at level,
// using klauspost/compress/gzip for the deflate body so this package and
// package compress share one deflate implementation end to end.
func GzipEncode(level int, name string) func(p []byte) ([]byte, liberr.Error) {
	return func(p []byte) ([]byte, liberr.Error) {
		buf := &bytes.Buffer{}
		w, err := kgzip.NewWriterLevel(buf, level)
		if err != nil {
			return nil, ErrorGzipHeaderInvalid.Error(err)
		}
		w.Name = name

		if _, e := w.Write(p); e != nil {
			return nil, ErrorGzipHeaderInvalid.Error(e)
		}
		if e := w.Close(); e != nil {
			return nil, ErrorGzipHeaderInvalid.Error(e)
		}
		return buf.Bytes(), nil
	}
}

// GzipDecode decodes a single-member gzip stream, verifying the CRC-32 and
// ISIZE trailer fields against the decompressed content.
func GzipDecode(p []byte) ([]byte, liberr.Error) {
	r, err := kgzip.NewReader(bytes.NewReader(p))
	if err != nil {
		return nil, ErrorGzipHeaderInvalid.Error(err)
	}
	defer func() { _ = r.Close() }()

	out, err := io.ReadAll(r)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, ErrorGzipSizeMismatch.Error(err)
		}
		return nil, ErrorGzipChecksumMismatch.Error(err)
	}

	return out, nil
}
