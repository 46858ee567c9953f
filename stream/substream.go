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
	liberr "github.com/nabbar/corestream/errors"
)

// SubStream is a read-only, bounded window over a parent Stream, starting at
// a fixed base offset and exposing exactly size bytes (or, when size < 0, an
// unbounded window that tracks the parent to its own EOF). It is how
// ZipReader hands out a single archived entry's compressed bytes, and how an
// HTTP body with a known Content-Length is carved out of the connection
// stream, without either consumer being able to read past its own bounds.
type SubStream struct {
	parent Stream
	base   int64
	size   int64 // -1 means unbounded
	cursor int64 // relative to base
	closed bool
}

// NewSubStream returns a bounded view of parent starting at base and
// spanning size bytes (size < 0 for unbounded). A seekable parent is
// repositioned to base immediately; a non-seekable parent is taken to
// already be positioned there and the window is forward-only.
func NewSubStream(parent Stream, base int64, size int64) (*SubStream, liberr.Error) {
	if parent == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	if off := parent.Offset(); off >= 0 && off != base {
		if _, err := parent.Seek(base, SeekStart); err != nil {
			return nil, err
		}
	}
	return &SubStream{parent: parent, base: base, size: size}, nil
}

func (s *SubStream) Close() error {
	s.closed = true
	return nil
}

func (s *SubStream) Closed() bool {
	return s.closed
}

func (s *SubStream) remaining() int64 {
	if s.size < 0 {
		return -1
	}
	return s.size - s.cursor
}

func (s *SubStream) ReadSome(p []byte) (int, liberr.Error) {
	if s.closed {
		return 0, ErrorClosed.Error(nil)
	}

	if rem := s.remaining(); rem == 0 {
		return 0, nil
	} else if rem > 0 && int64(len(p)) > rem {
		p = p[:rem]
	}

	if off := s.parent.Offset(); off >= 0 && off != s.base+s.cursor {
		if _, err := s.parent.Seek(s.base+s.cursor, SeekStart); err != nil {
			return 0, err
		}
	}

	n, err := s.parent.ReadSome(p)
	s.cursor += int64(n)
	return n, err
}

// WriteSome is rejected: a SubStream only ever models a bounded read view.
func (s *SubStream) WriteSome(p []byte) (int, liberr.Error) {
	return 0, ErrorReadOnly.Error(nil)
}

func (s *SubStream) Seek(offset int64, whence Whence) (int64, liberr.Error) {
	var target int64
	switch whence {
	case SeekStart:
		target = offset
	case SeekCurrent:
		target = s.cursor + offset
	case SeekEnd:
		if s.size < 0 {
			return 0, ErrorNotSeekable.Error(nil)
		}
		target = s.size + offset
	default:
		return 0, ErrorSeekInvalid.Error(nil)
	}

	if target < 0 || (s.size >= 0 && target > s.size) {
		return 0, ErrorSeekInvalid.Error(nil)
	}

	if _, err := s.parent.Seek(s.base+target, SeekStart); err != nil {
		return 0, err
	}
	s.cursor = target
	return target, nil
}

func (s *SubStream) Offset() int64 {
	return s.cursor
}

func (s *SubStream) Size() (int64, liberr.Error) {
	if s.size < 0 {
		return 0, ErrorNotSeekable.Error(nil)
	}
	return s.size, nil
}

func (s *SubStream) SetSize(n int64) liberr.Error {
	return ErrorReadOnly.Error(nil)
}

func (s *SubStream) Flush() liberr.Error {
	return nil
}

// UnderlyingStream implements Raw, letting CopyFrom fast-paths reach past
// the bound when a caller already knows it is safe to do so.
func (s *SubStream) UnderlyingStream() Stream {
	return s.parent
}
