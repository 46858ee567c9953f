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
	"strconv"

	liberr "github.com/nabbar/corestream/errors"
	libstm "github.com/nabbar/corestream/stream"
)

// defaultMaxChunkSize bounds a single chunk-size line's declared value,
// guarding against a malicious or corrupt peer asking us to allocate an
// unbounded read.
const defaultMaxChunkSize = 512 * 1024 * 1024

// ChunkedWriter wraps dst with HTTP/1.1 chunked transfer-coding (RFC 7230
// §4.1): each WriteSome call is framed as one chunk, Close emits the
// zero-length terminating chunk and an empty trailer.
type ChunkedWriter struct {
	dst    libstm.Stream
	closed bool
}

func NewChunkedWriter(dst libstm.Stream) *ChunkedWriter {
	return &ChunkedWriter{dst: dst}
}

func (c *ChunkedWriter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	_, err := writeAll(c.dst, []byte("0\r\n\r\n"))
	return err
}

func (c *ChunkedWriter) Closed() bool { return c.closed }

func (c *ChunkedWriter) WriteSome(p []byte) (int, liberr.Error) {
	if c.closed {
		return 0, libstm.ErrorClosed.Error(nil)
	}
	if len(p) == 0 {
		return 0, nil
	}

	header := []byte(strconv.FormatInt(int64(len(p)), 16) + "\r\n")
	if _, err := writeAll(c.dst, header); err != nil {
		return 0, err
	}
	if _, err := writeAll(c.dst, p); err != nil {
		return 0, err
	}
	if _, err := writeAll(c.dst, []byte("\r\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *ChunkedWriter) ReadSome(p []byte) (int, liberr.Error) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (c *ChunkedWriter) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (c *ChunkedWriter) Offset() int64 { return -1 }

func (c *ChunkedWriter) Size() (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (c *ChunkedWriter) SetSize(n int64) liberr.Error {
	return libstm.ErrorReadOnly.Error(nil)
}

func (c *ChunkedWriter) Flush() liberr.Error { return c.dst.Flush() }

func writeAll(dst libstm.Stream, p []byte) (int, liberr.Error) {
	written := 0
	for written < len(p) {
		n, err := dst.WriteSome(p[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, libstm.ErrorShortWrite.Error(nil)
		}
	}
	return written, nil
}

// ChunkedReader reverses ChunkedWriter: it parses chunk-size lines from a
// Buffer (for ReadLine) and hands back decoded payload bytes, stopping at
// the zero-length terminating chunk and consuming the (assumed empty)
// trailer.
type ChunkedReader struct {
	src       *libstm.Buffer
	maxChunk  int64
	remaining int64
	done      bool
	closed    bool
}

// NewChunkedReader wraps a Buffer already positioned at the start of the
// chunked body. maxChunk<=0 selects defaultMaxChunkSize.
func NewChunkedReader(src *libstm.Buffer, maxChunk int64) *ChunkedReader {
	if maxChunk <= 0 {
		maxChunk = defaultMaxChunkSize
	}
	return &ChunkedReader{src: src, maxChunk: maxChunk}
}

func (c *ChunkedReader) Close() error {
	c.closed = true
	return nil
}

func (c *ChunkedReader) Closed() bool { return c.closed }

func (c *ChunkedReader) nextChunk() liberr.Error {
	line, err := c.src.ReadLine()
	if err != nil {
		return ErrorChunkSizeInvalid.Error(err)
	}

	// strip chunk-extensions (";name=value") per RFC 7230 §4.1.1.
	if idx := indexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}

	size, perr := strconv.ParseInt(string(line), 16, 64)
	if perr != nil || size < 0 {
		return ErrorChunkSizeInvalid.Error(perr)
	}
	if size > c.maxChunk {
		return ErrorChunkTooLarge.Error(nil)
	}

	if size == 0 {
		c.done = true
		for {
			trailer, terr := c.src.ReadLine()
			if terr != nil {
				return ErrorChunkTrailerInvalid.Error(terr)
			}
			if len(trailer) == 0 {
				break
			}
		}
		return nil
	}

	c.remaining = size
	return nil
}

func indexByte(p []byte, b byte) int {
	for i, c := range p {
		if c == b {
			return i
		}
	}
	return -1
}

func (c *ChunkedReader) ReadSome(p []byte) (int, liberr.Error) {
	if c.closed {
		return 0, libstm.ErrorClosed.Error(nil)
	}
	if c.done {
		return 0, nil
	}

	if c.remaining == 0 {
		if err := c.nextChunk(); err != nil {
			return 0, err
		}
		if c.done {
			return 0, nil
		}
	}

	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}

	n, err := c.src.ReadSome(p)
	c.remaining -= int64(n)
	if err != nil {
		return n, err
	}

	if c.remaining == 0 {
		// consume the trailing CRLF after the chunk data.
		if _, terr := c.src.ReadLine(); terr != nil {
			return n, ErrorChunkTrailerInvalid.Error(terr)
		}
	}

	return n, nil
}

func (c *ChunkedReader) WriteSome(p []byte) (int, liberr.Error) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (c *ChunkedReader) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (c *ChunkedReader) Offset() int64 { return -1 }

func (c *ChunkedReader) Size() (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (c *ChunkedReader) SetSize(n int64) liberr.Error {
	return libstm.ErrorReadOnly.Error(nil)
}

func (c *ChunkedReader) Flush() liberr.Error { return nil }
