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
	"io"
	"os"

	liberr "github.com/nabbar/corestream/errors"
)

// memStream is a Stream backed by a growable in-memory byte slice. It backs
// the in-memory ZipWriter scenarios and small property-list payloads where
// spilling to disk is not worth the syscalls.
type memStream struct {
	buf    []byte
	offset int64
	closed bool
}

// NewMemoryStream returns an empty, writable, seekable in-memory Stream.
func NewMemoryStream() Stream {
	return &memStream{}
}

// NewMemoryStreamFromBytes returns a writable Stream pre-seeded with a copy
// of data; offset starts at 0.
func NewMemoryStreamFromBytes(data []byte) Stream {
	b := make([]byte, len(data))
	copy(b, data)
	return &memStream{buf: b}
}

func (m *memStream) Close() error {
	m.closed = true
	return nil
}

func (m *memStream) Closed() bool {
	return m.closed
}

func (m *memStream) ReadSome(p []byte) (int, liberr.Error) {
	if m.closed {
		return 0, ErrorClosed.Error(nil)
	}
	if m.offset >= int64(len(m.buf)) {
		return 0, nil
	}
	n := copy(p, m.buf[m.offset:])
	m.offset += int64(n)
	return n, nil
}

func (m *memStream) WriteSome(p []byte) (int, liberr.Error) {
	if m.closed {
		return 0, ErrorClosed.Error(nil)
	}
	if len(p) == 0 {
		return 0, nil
	}

	end := m.offset + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}

	n := copy(m.buf[m.offset:end], p)
	m.offset += int64(n)
	return n, nil
}

func (m *memStream) Seek(offset int64, whence Whence) (int64, liberr.Error) {
	var target int64
	switch whence {
	case SeekStart:
		target = offset
	case SeekCurrent:
		target = m.offset + offset
	case SeekEnd:
		target = int64(len(m.buf)) + offset
	default:
		return 0, ErrorSeekInvalid.Error(nil)
	}
	if target < 0 {
		return 0, ErrorSeekInvalid.Error(nil)
	}
	m.offset = target
	return target, nil
}

func (m *memStream) Offset() int64 {
	return m.offset
}

func (m *memStream) Size() (int64, liberr.Error) {
	return int64(len(m.buf)), nil
}

func (m *memStream) SetSize(n int64) liberr.Error {
	if n < 0 {
		return ErrorSeekInvalid.Error(nil)
	}
	if n <= int64(len(m.buf)) {
		m.buf = m.buf[:n]
		return nil
	}
	grown := make([]byte, n)
	copy(grown, m.buf)
	m.buf = grown
	return nil
}

func (m *memStream) Flush() liberr.Error {
	return nil
}

// Bytes returns the accumulated content without copying.
func (m *memStream) Bytes() []byte {
	return m.buf
}

// MemoryBytes extracts the underlying byte slice of a Stream created by
// NewMemoryStream, or nil if s is not a memory stream.
func MemoryBytes(s Stream) []byte {
	if m, ok := s.(*memStream); ok {
		return m.Bytes()
	}
	return nil
}

// fileStream adapts *os.File to Stream, wrapping std handles with
// liberr-carrying methods instead of bare errors.
type fileStream struct {
	f      *os.File
	closed bool
}

// NewFileStream wraps an already-opened *os.File as a Stream.
func NewFileStream(f *os.File) Stream {
	return &fileStream{f: f}
}

func (s *fileStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}

func (s *fileStream) Closed() bool {
	return s.closed
}

func (s *fileStream) ReadSome(p []byte) (int, liberr.Error) {
	n, err := s.f.Read(p)
	if err != nil && err != io.EOF {
		return n, ErrorUnderlyingIO.Error(err)
	}
	return n, nil
}

func (s *fileStream) WriteSome(p []byte) (int, liberr.Error) {
	n, err := s.f.Write(p)
	if err != nil {
		return n, ErrorUnderlyingIO.Error(err)
	}
	return n, nil
}

func (s *fileStream) Seek(offset int64, whence Whence) (int64, liberr.Error) {
	n, err := s.f.Seek(offset, int(whence))
	if err != nil {
		return 0, ErrorUnderlyingIO.Error(err)
	}
	return n, nil
}

func (s *fileStream) Offset() int64 {
	n, err := s.f.Seek(0, int(SeekCurrent))
	if err != nil {
		return -1
	}
	return n
}

func (s *fileStream) Size() (int64, liberr.Error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, ErrorUnderlyingIO.Error(err)
	}
	return info.Size(), nil
}

func (s *fileStream) SetSize(n int64) liberr.Error {
	if err := s.f.Truncate(n); err != nil {
		return ErrorUnderlyingIO.Error(err)
	}
	return nil
}

func (s *fileStream) Flush() liberr.Error {
	if err := s.f.Sync(); err != nil {
		return ErrorUnderlyingIO.Error(err)
	}
	return nil
}
