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

// Package hashstream wraps a Stream with a running checksum, verifying it
// against an expected value once the expected length (if any) has been
// consumed. ZipReader uses it to verify each entry's CRC-32 as it is
// decompressed; it is written generically over hash.Hash32 so a
// future digest need not duplicate the bookkeeping.
package hashstream

import (
	"fmt"
	"hash"

	liberr "github.com/nabbar/corestream/errors"
	libstm "github.com/nabbar/corestream/stream"
)

const (
	ErrorMismatch liberr.CodeError = iota + liberr.MinPkgHashStream
	ErrorSizeMismatch
	ErrorAlreadyVerified
)

func init() {
	if liberr.ExistInMapMessage(ErrorMismatch) {
		panic(fmt.Errorf("error code collision corestream/hashstream"))
	}
	liberr.RegisterIdFctMessage(ErrorMismatch, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorMismatch:
		return "checksum mismatch"
	case ErrorSizeMismatch:
		return "decoded size does not match expected size"
	case ErrorAlreadyVerified:
		return "stream already verified and closed"
	}
	return liberr.NullMessage
}

// Reader wraps a read-only Stream, accumulating h over every byte read and
// comparing Sum32() against expected once size bytes have been consumed (or
// at Close, when size < 0 and the caller trusts EOF to mark completion).
type Reader struct {
	src      libstm.Stream
	h        hash.Hash32
	expected uint32
	size     int64 // -1: unknown, verify only at Close
	read     int64
	verified bool
	failed   liberr.Error
}

// NewReader returns a verifying Stream: exactly size bytes (or, if size<0,
// everything until EOF) must be read from it and match the expected CRC.
func NewReader(src libstm.Stream, h hash.Hash32, expected uint32, size int64) *Reader {
	return &Reader{src: src, h: h, expected: expected, size: size}
}

func (r *Reader) Close() error {
	if r.size < 0 && !r.verified {
		if err := r.verify(); err != nil {
			return err
		}
	}
	return r.src.Close()
}

func (r *Reader) Closed() bool { return r.src.Closed() }

func (r *Reader) verify() liberr.Error {
	if r.verified {
		return nil
	}
	r.verified = true
	if r.size >= 0 && r.read != r.size {
		r.failed = ErrorSizeMismatch.Error(nil)
		return r.failed
	}
	if r.h.Sum32() != r.expected {
		r.failed = ErrorMismatch.Error(nil)
		return r.failed
	}
	return nil
}

func (r *Reader) ReadSome(p []byte) (int, liberr.Error) {
	if r.failed != nil {
		return 0, r.failed
	}

	n, err := r.src.ReadSome(p)
	if n > 0 {
		_, _ = r.h.Write(p[:n])
		r.read += int64(n)
	}

	if err != nil {
		return n, err
	}

	if n == 0 {
		return 0, r.verify()
	}

	if r.size >= 0 && r.read >= r.size {
		if verr := r.verify(); verr != nil {
			return n, verr
		}
	}

	return n, nil
}

func (r *Reader) WriteSome(p []byte) (int, liberr.Error) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (r *Reader) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (r *Reader) Offset() int64 { return r.read }

func (r *Reader) Size() (int64, liberr.Error) {
	if r.size < 0 {
		return 0, libstm.ErrorNotSeekable.Error(nil)
	}
	return r.size, nil
}

func (r *Reader) SetSize(n int64) liberr.Error { return libstm.ErrorReadOnly.Error(nil) }

func (r *Reader) Flush() liberr.Error { return nil }

// Writer wraps a write-only Stream, accumulating h over every byte written
// so the final Sum32() can be read back by the caller (e.g. ZipWriter
// computing an entry's CRC-32 while it streams compressed bytes to disk).
type Writer struct {
	dst    libstm.Stream
	h      hash.Hash32
	n      int64
	closed bool
}

func NewWriter(dst libstm.Stream, h hash.Hash32) *Writer {
	return &Writer{dst: dst, h: h}
}

func (w *Writer) Close() error {
	w.closed = true
	return w.dst.Close()
}

func (w *Writer) Closed() bool { return w.closed }

func (w *Writer) ReadSome(p []byte) (int, liberr.Error) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (w *Writer) WriteSome(p []byte) (int, liberr.Error) {
	n, err := w.dst.WriteSome(p)
	if n > 0 {
		_, _ = w.h.Write(p[:n])
		w.n += int64(n)
	}
	return n, err
}

func (w *Writer) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (w *Writer) Offset() int64 { return w.n }

func (w *Writer) Size() (int64, liberr.Error) { return w.n, nil }

func (w *Writer) SetSize(n int64) liberr.Error { return libstm.ErrorReadOnly.Error(nil) }

func (w *Writer) Flush() liberr.Error { return w.dst.Flush() }

// Sum32 returns the checksum accumulated so far.
func (w *Writer) Sum32() uint32 { return w.h.Sum32() }

// BytesWritten returns the number of bytes written so far (the "uncompressed
// size" field of a ZIP local/central directory entry).
func (w *Writer) BytesWritten() int64 { return w.n }
