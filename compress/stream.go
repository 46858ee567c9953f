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

package compress

import (
	"io"

	"github.com/klauspost/compress/flate"

	liberr "github.com/nabbar/corestream/errors"
	libstm "github.com/nabbar/corestream/stream"
)

type errT = liberr.Error

// streamAsReader/streamAsWriter let the stdlib-shaped flate package operate
// directly on top of this module's Stream contract without an intermediate
// copy into a bytes.Buffer.
type streamAsReader struct{ s libstm.Stream }

func (r streamAsReader) Read(p []byte) (int, error) {
	n, err := r.s.ReadSome(p)
	if err != nil {
		if err.HasCode(libstm.ErrorEOF) {
			return n, io.EOF
		}
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

type streamAsWriter struct{ s libstm.Stream }

func (w streamAsWriter) Write(p []byte) (int, error) {
	n, err := w.s.WriteSome(p)
	if err != nil {
		return n, err
	}
	return n, nil
}

// inflateStream adapts a flate.Reader into the Stream contract: a read-only,
// forward-only, non-seekable decompression filter.
type inflateStream struct {
	src    libstm.Stream
	fr     io.ReadCloser
	size   int64 // known decompressed size, -1 if unknown
	offset int64
	closed bool
}

// InflateStream wraps src (typically a SubStream bounded to one ZIP entry's
// compressed size) with raw DEFLATE decompression.
func InflateStream(src libstm.Stream) libstm.Stream {
	return InflateStreamSize(src, -1)
}

// InflateStreamSize is InflateStream with a known decompressed size hint
// (e.g. a ZIP entry's uncompressed size), reported through Size. The stream
// itself remains forward-only.
func InflateStreamSize(src libstm.Stream, size int64) libstm.Stream {
	return &inflateStream{
		src:  src,
		fr:   flate.NewReader(streamAsReader{src}),
		size: size,
	}
}

func (s *inflateStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.fr.Close()
}

func (s *inflateStream) Closed() bool { return s.closed }

func (s *inflateStream) ReadSome(p []byte) (int, errT) {
	if s.closed {
		return 0, ErrorAlreadyClosed.Error(nil)
	}
	n, err := s.fr.Read(p)
	s.offset += int64(n)
	if err != nil {
		if err == io.EOF {
			return n, nil
		}
		return n, ErrorReadFailed.Error(err)
	}
	return n, nil
}

func (s *inflateStream) WriteSome(p []byte) (int, errT) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (s *inflateStream) Seek(offset int64, whence libstm.Whence) (int64, errT) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (s *inflateStream) Offset() int64 { return s.offset }

func (s *inflateStream) Size() (int64, errT) {
	if s.size < 0 {
		return 0, libstm.ErrorNotSeekable.Error(nil)
	}
	return s.size, nil
}

func (s *inflateStream) SetSize(n int64) errT { return libstm.ErrorReadOnly.Error(nil) }

func (s *inflateStream) Flush() errT { return nil }

// deflateStream adapts a flate.Writer into the Stream contract: a
// write-only, forward-only compression filter. Close flushes and closes the
// deflate writer but not the destination Stream, following the "caller
// owns the outer writer" convention used for compress writers generally.
type deflateStream struct {
	dst    libstm.Stream
	fw     *flate.Writer
	offset int64
	closed bool
}

// DeflateStream wraps dst so writes are compressed with raw DEFLATE at
// level before landing on dst. An out-of-range level falls back to the
// default.
func DeflateStream(dst libstm.Stream, level Level) libstm.Stream {
	fw, err := flate.NewWriter(streamAsWriter{dst}, int(level))
	if err != nil {
		fw, _ = flate.NewWriter(streamAsWriter{dst}, int(DefaultCompression))
	}
	return &deflateStream{dst: dst, fw: fw}
}

func (s *deflateStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.fw.Close()
}

func (s *deflateStream) Closed() bool { return s.closed }

func (s *deflateStream) ReadSome(p []byte) (int, errT) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (s *deflateStream) WriteSome(p []byte) (int, errT) {
	if s.closed {
		return 0, ErrorAlreadyClosed.Error(nil)
	}
	n, err := s.fw.Write(p)
	s.offset += int64(n)
	if err != nil {
		return n, ErrorWriteFailed.Error(err)
	}
	return n, nil
}

func (s *deflateStream) Seek(offset int64, whence libstm.Whence) (int64, errT) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (s *deflateStream) Offset() int64 { return s.offset }

func (s *deflateStream) Size() (int64, errT) { return 0, libstm.ErrorNotSeekable.Error(nil) }

func (s *deflateStream) SetSize(n int64) errT { return libstm.ErrorReadOnly.Error(nil) }

func (s *deflateStream) Flush() errT {
	if err := s.fw.Flush(); err != nil {
		return ErrorWriteFailed.Error(err)
	}
	return s.dst.Flush()
}
