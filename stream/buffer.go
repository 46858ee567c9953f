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

package stream

import (
	"bytes"

	liberr "github.com/nabbar/corestream/errors"
)

// BufferOptions configures a new Buffer. Capacity is the fixed size of the
// internal buffer; MaxPutBack reserves that many bytes at the start of the
// window during shifts so short look-behinds never require a re-read.
type BufferOptions struct {
	Capacity   int
	MaxPutBack int
	ReadOnly   bool
}

const defaultCapacity = 64 * 1024

func (o BufferOptions) withDefaults() BufferOptions {
	if o.Capacity <= 0 {
		o.Capacity = defaultCapacity
	}
	if o.MaxPutBack <= 0 {
		o.MaxPutBack = 1
	}
	if o.MaxPutBack >= o.Capacity {
		o.MaxPutBack = o.Capacity - 1
	}
	return o
}

// Buffer is a seek-aware, checksum-agnostic read/write adapter. It owns
// a fixed-capacity byte buffer and five
// cursors into it (begin, readPtr, top, end, and the dirty range), and defers
// underlying I/O until fetchMore/flushWrites actually need it.
type Buffer struct {
	underlying Stream
	borrowed   bool // true when constructed over an immutable byte slice: no underlying stream
	readOnly   bool
	seekable   bool

	buf        []byte
	begin      int // start of the currently valid window (>=0, <= readPtr)
	readPtr    int // next byte to be read
	top        int // one past the last filled byte
	end        int // len(buf); constant
	maxPutBack int

	dirtyBegin int
	dirtyEnd   int

	bufferOffset     int64 // absolute offset of buf[begin] in the logical stream
	underlyingOffset int64 // offset of the underlying stream's cursor, -1 if unknown

	closed bool
	sticky liberr.Error
}

// NewBuffer wraps an underlying Stream (readable, and writable unless
// opts.ReadOnly) in a Buffer.
func NewBuffer(underlying Stream, opts BufferOptions) (*Buffer, liberr.Error) {
	if underlying == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	opts = opts.withDefaults()

	off := underlying.Offset()
	b := &Buffer{
		underlying: underlying,
		readOnly:   opts.ReadOnly,
		seekable:   off >= 0,
		buf:        make([]byte, opts.Capacity),
		maxPutBack: opts.MaxPutBack,
	}
	// A non-seekable underlying stream is consumed strictly in order; its
	// cursor then tracks the emulated offset from zero without ever
	// needing a repositioning seek. A seekable one keeps its current
	// position: the buffer window starts wherever the stream already is.
	if off < 0 {
		off = 0
	}
	b.bufferOffset = off
	b.underlyingOffset = off
	b.end = len(b.buf)

	return b, nil
}

// NewBufferFromBytes wraps an immutable, borrowed byte slice: there is no
// underlying stream, Close/Flush are no-ops, and any mutating call fails.
func NewBufferFromBytes(data []byte) *Buffer {
	b := &Buffer{
		borrowed:         true,
		readOnly:         true,
		buf:              data,
		top:              len(data),
		underlyingOffset: -1,
	}
	b.end = len(data)
	return b
}

func (b *Buffer) Close() error {
	if b.closed {
		return nil
	}
	if !b.borrowed {
		if err := b.flushWrites(); err != nil {
			b.closed = true
			return err
		}
		if b.underlying != nil {
			_ = b.underlying.Close()
		}
	}
	b.closed = true
	return nil
}

func (b *Buffer) Closed() bool {
	return b.closed
}

func (b *Buffer) checkAlive() liberr.Error {
	if b.closed {
		return ErrorClosed.Error(nil)
	}
	if b.sticky != nil {
		return b.sticky
	}
	return nil
}

func (b *Buffer) fail(err liberr.Error) liberr.Error {
	if err != nil {
		b.sticky = err
	}
	return err
}

// dirty reports whether there are unflushed written bytes.
func (b *Buffer) dirty() bool {
	return b.dirtyEnd > b.dirtyBegin
}

// Offset returns the emulated logical offset: bufferOffset + (readPtr-begin).
func (b *Buffer) Offset() int64 {
	return b.bufferOffset + int64(b.readPtr-b.begin)
}

// Len returns the number of buffered, unread bytes.
func (b *Buffer) Len() int {
	return b.top - b.readPtr
}

// ReadSome copies from the filled region, fetching more from the underlying
// stream when empty.
func (b *Buffer) ReadSome(p []byte) (int, liberr.Error) {
	if err := b.checkAlive(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	if b.readPtr == b.top {
		if b.borrowed {
			return 0, nil // EOF: no underlying stream to refill from
		}
		if err := b.fetchMore(); err != nil {
			return 0, b.fail(err)
		}
		if b.readPtr == b.top {
			return 0, nil // genuine EOF
		}
	}

	n := copy(p, b.buf[b.readPtr:b.top])
	b.readPtr += n
	return n, nil
}

// PeekByte ensures at least offset+1 bytes are buffered ahead of readPtr,
// fetching more as needed, and returns that byte without consuming it.
func (b *Buffer) PeekByte(offset int) (byte, liberr.Error) {
	if err := b.checkAlive(); err != nil {
		return 0, err
	}

	for b.readPtr+offset >= b.top {
		if b.borrowed {
			return 0, ErrorEOF.Error(nil)
		}
		before := b.top
		if err := b.fetchMore(); err != nil {
			return 0, b.fail(err)
		}
		if b.top == before {
			return 0, ErrorEOF.Error(nil)
		}
	}

	return b.buf[b.readPtr+offset], nil
}

// fetchMore flushes dirty bytes, makes room if the window is full (shifting,
// preserving up to maxPutBack bytes behind readPtr), repositions the
// underlying stream if its cursor has drifted, and reads more bytes in.
func (b *Buffer) fetchMore() liberr.Error {
	if err := b.flushWrites(); err != nil {
		return err
	}

	if b.top == b.end {
		b.shift()
	}

	wantOffset := b.bufferOffset + int64(b.top-b.begin)
	if b.underlyingOffset != wantOffset {
		if !b.seekable {
			return ErrorNotSeekable.Error(nil)
		}
		if _, err := b.underlying.Seek(wantOffset, SeekStart); err != nil {
			return ErrorUnderlyingIO.Error(err)
		}
		b.underlyingOffset = wantOffset
	}

	n, err := b.underlying.ReadSome(b.buf[b.top:b.end])
	if err != nil {
		return err
	}

	b.top += n
	b.underlyingOffset += int64(n)
	return nil
}

// shift slides the buffered window toward the start of buf, keeping up to
// maxPutBack bytes behind readPtr so short look-behinds need no re-read.
func (b *Buffer) shift() {
	keep := b.readPtr - b.begin
	if keep > b.maxPutBack {
		keep = b.maxPutBack
	}

	src := b.readPtr - keep
	n := copy(b.buf, b.buf[src:b.top])

	moved := int64(src - 0)
	b.bufferOffset += moved
	b.begin = 0
	b.readPtr -= src
	b.top = n
	if b.dirty() {
		b.dirtyBegin -= src
		b.dirtyEnd -= src
	} else {
		b.dirtyBegin, b.dirtyEnd = 0, 0
	}
}

// WriteSome copies into the writable region, widening the dirty range, and
// unbuffers (flush + reset) once the window fills.
func (b *Buffer) WriteSome(p []byte) (int, liberr.Error) {
	if err := b.checkAlive(); err != nil {
		return 0, err
	}
	if b.readOnly || b.borrowed {
		return 0, b.fail(ErrorReadOnly.Error(nil))
	}
	if len(p) == 0 {
		return 0, nil
	}

	if b.readPtr == b.end {
		if err := b.unbuffer(); err != nil {
			return 0, b.fail(err)
		}
	}

	n := copy(b.buf[b.readPtr:b.end], p)
	if n == 0 {
		if err := b.unbuffer(); err != nil {
			return 0, b.fail(err)
		}
		n = copy(b.buf[b.readPtr:b.end], p)
	}

	start := b.readPtr
	end := b.readPtr + n

	if !b.dirty() {
		b.dirtyBegin, b.dirtyEnd = start, end
	} else {
		if start < b.dirtyBegin {
			b.dirtyBegin = start
		}
		if end > b.dirtyEnd {
			b.dirtyEnd = end
		}
	}

	b.readPtr = end
	if b.readPtr > b.top {
		b.top = b.readPtr
	}

	return n, nil
}

// flushWrites issues the underlying seek and write for any dirty bytes. It
// never silently discards buffered writes.
func (b *Buffer) flushWrites() liberr.Error {
	if b.borrowed || !b.dirty() {
		return nil
	}

	wantOffset := b.bufferOffset + int64(b.dirtyBegin-b.begin)
	if b.underlyingOffset != wantOffset {
		if !b.seekable {
			return ErrorNotSeekable.Error(nil)
		}
		if _, err := b.underlying.Seek(wantOffset, SeekStart); err != nil {
			return ErrorUnderlyingIO.Error(err)
		}
		b.underlyingOffset = wantOffset
	}

	region := b.buf[b.dirtyBegin:b.dirtyEnd]
	written := 0
	for written < len(region) {
		n, err := b.underlying.WriteSome(region[written:])
		written += n
		b.underlyingOffset += int64(n)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrorShortWrite.Error(nil)
		}
	}

	b.dirtyBegin, b.dirtyEnd = 0, 0
	return nil
}

// unbuffer flushes the dirty range and resets cursors so writing can
// continue into a freshly emptied window.
func (b *Buffer) unbuffer() liberr.Error {
	if err := b.flushWrites(); err != nil {
		return err
	}

	b.bufferOffset += int64(b.top - b.begin)
	b.begin = 0
	b.readPtr = 0
	b.top = 0
	b.dirtyBegin, b.dirtyEnd = 0, 0
	return nil
}

// Size returns the underlying stream's size, extended by any buffered
// bytes not yet flushed past its end. For a borrowed buffer it is the
// borrowed slice's length.
func (b *Buffer) Size() (int64, liberr.Error) {
	if b.borrowed {
		return int64(b.top), nil
	}
	sz, err := b.underlying.Size()
	if err != nil {
		return 0, err
	}
	if end := b.bufferOffset + int64(b.top-b.begin); end > sz {
		sz = end
	}
	return sz, nil
}

// SetSize flushes dirty bytes and truncates or extends the underlying
// stream.
func (b *Buffer) SetSize(n int64) liberr.Error {
	if err := b.checkAlive(); err != nil {
		return err
	}
	if b.readOnly || b.borrowed {
		return b.fail(ErrorReadOnly.Error(nil))
	}
	if err := b.flushWrites(); err != nil {
		return b.fail(err)
	}
	return b.underlying.SetSize(n)
}

// Flush commits any dirty bytes without closing.
func (b *Buffer) Flush() liberr.Error {
	if err := b.checkAlive(); err != nil {
		return err
	}
	if b.borrowed {
		return nil
	}
	if err := b.flushWrites(); err != nil {
		return b.fail(err)
	}
	return b.underlying.Flush()
}

// Seek repositions the emulated offset. Seeking within the already-buffered
// window never touches the underlying stream.
func (b *Buffer) Seek(offset int64, whence Whence) (int64, liberr.Error) {
	if err := b.checkAlive(); err != nil {
		return 0, err
	}

	var target int64
	switch whence {
	case SeekStart:
		target = offset
	case SeekCurrent:
		target = b.Offset() + offset
	case SeekEnd:
		if b.underlying == nil {
			return 0, ErrorNotSeekable.Error(nil)
		}
		sz, err := b.underlying.Size()
		if err != nil {
			return 0, err
		}
		target = sz + offset
	default:
		return 0, ErrorSeekInvalid.Error(nil)
	}

	if target < 0 {
		return 0, ErrorSeekInvalid.Error(nil)
	}

	windowStart := b.bufferOffset
	windowEnd := b.bufferOffset + int64(b.top-b.begin)

	if target >= windowStart && target <= windowEnd {
		b.readPtr = b.begin + int(target-windowStart)
		return target, nil
	}

	if err := b.flushWrites(); err != nil {
		return 0, err
	}
	if b.underlying == nil {
		return 0, ErrorNotSeekable.Error(nil)
	}

	if _, err := b.underlying.Seek(target, SeekStart); err != nil {
		return 0, ErrorUnderlyingIO.Error(err)
	}

	b.bufferOffset = target
	b.begin = 0
	b.readPtr = 0
	b.top = 0
	b.underlyingOffset = target

	return target, nil
}

// UnbufferSync flushes dirty bytes and, when seekBack is true,
// repositions the underlying stream to the emulated offset so its cursor is
// left matching what callers observe via Offset().
func (b *Buffer) UnbufferSync(seekBack bool) liberr.Error {
	if err := b.flushWrites(); err != nil {
		return err
	}
	if !seekBack || b.underlying == nil {
		return nil
	}
	want := b.Offset()
	if b.underlyingOffset != want {
		if _, err := b.underlying.Seek(want, SeekStart); err != nil {
			return ErrorUnderlyingIO.Error(err)
		}
		b.underlyingOffset = want
	}
	return nil
}

// Find searches the buffered window for needle, extending via fetchMore when
// the match window would exceed the filled region. It returns the offset of
// the match relative to readPtr, or -1 with a nil error when no match is
// possible without exceeding the buffer capacity.
func (b *Buffer) Find(needle []byte) (int, liberr.Error) {
	if err := b.checkAlive(); err != nil {
		return -1, err
	}
	if len(needle) == 0 {
		return 0, nil
	}

	for {
		if idx := bytes.Index(b.buf[b.readPtr:b.top], needle); idx >= 0 {
			return idx, nil
		}

		if b.borrowed || b.top == b.end {
			if b.top-b.readPtr >= b.end-b.begin {
				return -1, nil
			}
		}

		before := b.top
		if b.borrowed {
			return -1, nil
		}
		if err := b.fetchMore(); err != nil {
			return -1, b.fail(err)
		}
		if b.top == before {
			return -1, nil
		}
	}
}

// FindFirstOf searches for the first byte in set, extending the buffered
// window as needed.
func (b *Buffer) FindFirstOf(set []byte) (int, liberr.Error) {
	if err := b.checkAlive(); err != nil {
		return -1, err
	}

	for {
		if idx := bytes.IndexAny(b.buf[b.readPtr:b.top], string(set)); idx >= 0 {
			return idx, nil
		}

		if b.borrowed {
			return -1, nil
		}

		before := b.top
		if err := b.fetchMore(); err != nil {
			return -1, b.fail(err)
		}
		if b.top == before {
			return -1, nil
		}
	}
}

var newlineSet = []byte{'\r', '\n'}

// ReadLine reads a line terminated by CRLF, LF, CR or LFCR, returning the
// line without the terminator. err is ErrorEOF when the stream ends without
// a trailing newline and no bytes were read.
func (b *Buffer) ReadLine() ([]byte, liberr.Error) {
	if err := b.checkAlive(); err != nil {
		return nil, err
	}

	idx, err := b.FindFirstOf(newlineSet)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		if b.readPtr == b.top {
			return nil, ErrorEOF.Error(nil)
		}
		line := append([]byte(nil), b.buf[b.readPtr:b.top]...)
		b.readPtr = b.top
		return line, nil
	}

	line := append([]byte(nil), b.buf[b.readPtr:b.readPtr+idx]...)
	term := b.buf[b.readPtr+idx]
	b.readPtr += idx + 1

	next, perr := b.PeekByte(0)
	if perr == nil {
		if term == '\r' && next == '\n' {
			b.readPtr++
		} else if term == '\n' && next == '\r' {
			b.readPtr++
		}
	}

	return line, nil
}

// ReadNullTerminated reads up to a NUL byte (excluded from the result) or
// maxLen bytes, whichever comes first. truncated reports whether maxLen was
// hit before a NUL was found (maxLen<=0 means unbounded).
func (b *Buffer) ReadNullTerminated(maxLen int) (data []byte, truncated bool, err liberr.Error) {
	if e := b.checkAlive(); e != nil {
		return nil, false, e
	}

	for {
		window := b.buf[b.readPtr:b.top]
		if idx := bytes.IndexByte(window, 0); idx >= 0 {
			if maxLen > 0 && idx > maxLen {
				idx = maxLen
				truncated = true
			}
			data = append([]byte(nil), window[:idx]...)
			b.readPtr += idx
			if !truncated {
				b.readPtr++ // consume the NUL
			}
			return data, truncated, nil
		}

		if maxLen > 0 && len(window) >= maxLen {
			data = append([]byte(nil), window[:maxLen]...)
			b.readPtr += maxLen
			return data, true, nil
		}

		if b.borrowed {
			data = append([]byte(nil), window...)
			b.readPtr = b.top
			return data, false, ErrorEOF.Error(nil)
		}

		before := b.top
		if e := b.fetchMore(); e != nil {
			return nil, false, b.fail(e)
		}
		if b.top == before {
			data = append([]byte(nil), window...)
			b.readPtr = b.top
			return data, false, ErrorEOF.Error(nil)
		}
	}
}

// SetUnderlyingStream swaps the underlying stream. Legal only when the
// buffer is empty and clean.
func (b *Buffer) SetUnderlyingStream(s Stream) liberr.Error {
	if b.readPtr != b.top || b.dirty() {
		return ErrorBufferTooSmall.Error(nil)
	}
	b.underlying = s
	off := s.Offset()
	b.seekable = off >= 0
	if off < 0 {
		off = 0
	}
	b.underlyingOffset = off
	b.bufferOffset = off
	b.begin, b.readPtr, b.top = 0, 0, 0
	return nil
}
