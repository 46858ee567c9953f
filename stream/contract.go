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

// Package stream defines the polymorphic byte-stream contract shared by every
// codec and archive component in this module, plus the buffered adapter
// (Buffer) that amortises I/O over it.
package stream

import (
	"io"

	liberr "github.com/nabbar/corestream/errors"
)

// Whence mirrors io.Seeker's origin values so implementations do not need to
// import io just to reference SeekStart/SeekCurrent/SeekEnd.
type Whence int

const (
	SeekStart   Whence = Whence(io.SeekStart)
	SeekCurrent Whence = Whence(io.SeekCurrent)
	SeekEnd     Whence = Whence(io.SeekEnd)
)

// Raw is the optional "give me your underlying transport" hook a Stream may
// implement to let CopyFrom bypass intermediate buffers.
type Raw interface {
	UnderlyingStream() Stream
}

// Stream is the polymorphic byte channel every codec and archive component in
// this module is built on. Offset is -1 for non-seekable streams. A
// zero-length successful ReadSome signals end-of-stream; a zero-length
// successful WriteSome signals a full-but-not-failed sink.
type Stream interface {
	io.Closer

	// ReadSome transfers at most len(p) bytes, returning the count read. A
	// zero-length successful read signals end of stream. It may return
	// fewer bytes than requested.
	ReadSome(p []byte) (n int, err liberr.Error)

	// WriteSome transfers at most len(p) bytes, returning the count written.
	// A short write is not itself an error; callers must loop.
	WriteSome(p []byte) (n int, err liberr.Error)

	// Seek repositions the stream. Non-seekable streams fail every Seek
	// request.
	Seek(offset int64, whence Whence) (int64, liberr.Error)

	// Offset returns the current byte offset, or -1 if unknown/non-seekable.
	Offset() int64

	// Size returns the total size of the stream if known.
	Size() (int64, liberr.Error)

	// SetSize truncates or extends the stream to n bytes, if supported.
	SetSize(n int64) liberr.Error

	// Flush commits buffered writes to the next layer without closing.
	Flush() liberr.Error

	// Closed reports whether Close has already succeeded on this stream.
	Closed() bool
}

// CopyFrom transfers up to limit bytes from src into dst (or until EOF when
// limit < 0). An unbounded copy between two file-backed streams is delegated
// to io.Copy, which lets the runtime use the kernel's file-to-file fast path;
// every other combination goes through buf. Callers holding a wrapper whose
// Raw hook they know is safe to bypass may unwrap it before calling.
func CopyFrom(dst Stream, src Stream, limit int64, buf []byte) (int64, liberr.Error) {
	if dst == nil || src == nil {
		return 0, ErrorParamEmpty.Error(nil)
	}

	if limit < 0 {
		if df, dok := dst.(*fileStream); dok && !df.closed {
			if sf, sok := src.(*fileStream); sok && !sf.closed {
				n, err := io.Copy(df.f, sf.f)
				if err != nil {
					return n, ErrorUnderlyingIO.Error(err)
				}
				return n, nil
			}
		}
	}

	if len(buf) == 0 {
		buf = make([]byte, 32*1024)
	}

	var total int64

	for limit < 0 || total < limit {
		chunk := buf
		if limit >= 0 {
			remain := limit - total
			if int64(len(chunk)) > remain {
				chunk = chunk[:remain]
			}
		}

		n, err := src.ReadSome(chunk)
		if n > 0 {
			w, werr := writeFull(dst, chunk[:n])
			total += int64(w)
			if werr != nil {
				return total, werr
			}
		}

		if err != nil {
			if isEOF(err) {
				return total, nil
			}
			return total, err
		}

		if n == 0 {
			return total, nil
		}
	}

	return total, nil
}

func writeFull(dst Stream, p []byte) (int, liberr.Error) {
	var written int
	for written < len(p) {
		n, err := dst.WriteSome(p[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, ErrorShortWrite.Error(nil)
		}
	}
	return written, nil
}

func isEOF(err liberr.Error) bool {
	return err != nil && err.HasCode(ErrorEOF)
}
