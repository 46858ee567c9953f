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
	"encoding/base64"
	"io"

	libenc "github.com/nabbar/corestream/encoding"
	liberr "github.com/nabbar/corestream/errors"
	liblog "github.com/nabbar/corestream/logger"
	libstm "github.com/nabbar/corestream/stream"
)

const (
	base64StdAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	base64MinLineLength = 6

	base64Pad     = -2
	base64Invalid = -1
)

// Base64Options configures the streaming base64 filters.
type Base64Options struct {
	// LineLength wraps encoder output with CRLF every LineLength characters.
	// 0 disables wrapping; values below 6 are raised to 6.
	LineLength int

	// Alphabet overrides the standard RFC 4648 alphabet (64 characters).
	// Leave empty for the standard alphabet; use the URL-safe one for
	// filename-safe output.
	Alphabet string

	// Logger receives decoder warnings for invalid or incomplete blocks.
	Logger liblog.Logger
}

func (o Base64Options) withDefaults() Base64Options {
	if o.LineLength < 0 {
		o.LineLength = 0
	}
	if o.LineLength > 0 && o.LineLength < base64MinLineLength {
		o.LineLength = base64MinLineLength
	}
	if len(o.Alphabet) != 64 {
		o.Alphabet = base64StdAlphabet
	}
	o.Logger = liblog.OrNop(o.Logger)
	return o
}

// Base64Writer encodes writes as base64 onto dst, holding back up to two
// input bytes between calls so block boundaries never depend on the caller's
// write sizes. Close pads and emits the final partial block; CRLF is placed
// between output lines, never after the last one.
type Base64Writer struct {
	dst      libstm.Stream
	opt      Base64Options
	block    [3]byte
	blockLen int
	col      int
	closed   bool
}

func NewBase64Writer(dst libstm.Stream, opt Base64Options) *Base64Writer {
	return &Base64Writer{dst: dst, opt: opt.withDefaults()}
}

func (w *Base64Writer) emit(quad []byte) liberr.Error {
	var out [10]byte
	o := out[:0]
	for _, c := range quad {
		if w.opt.LineLength > 0 && w.col == w.opt.LineLength {
			o = append(o, '\r', '\n')
			w.col = 0
		}
		o = append(o, c)
		w.col++
	}
	_, err := writeAll(w.dst, o)
	return err
}

func (w *Base64Writer) encodeBlock(quad []byte, n int) {
	a := w.opt.Alphabet
	b := w.block
	quad[0] = a[b[0]>>2]
	quad[1] = a[(b[0]&0x03)<<4|b[1]>>4]
	quad[2] = a[(b[1]&0x0f)<<2|b[2]>>6]
	quad[3] = a[b[2]&0x3f]
	if n < 3 {
		quad[3] = '='
	}
	if n < 2 {
		quad[2] = '='
	}
}

func (w *Base64Writer) WriteSome(p []byte) (int, liberr.Error) {
	if w.closed {
		return 0, libstm.ErrorClosed.Error(nil)
	}

	var quad [4]byte
	written := 0
	for _, ch := range p {
		w.block[w.blockLen] = ch
		w.blockLen++
		written++
		if w.blockLen == 3 {
			w.encodeBlock(quad[:], 3)
			w.blockLen = 0
			if err := w.emit(quad[:]); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (w *Base64Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.blockLen > 0 {
		var quad [4]byte
		for i := w.blockLen; i < 3; i++ {
			w.block[i] = 0
		}
		w.encodeBlock(quad[:], w.blockLen)
		w.blockLen = 0
		if err := w.emit(quad[:]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Base64Writer) Closed() bool { return w.closed }

func (w *Base64Writer) ReadSome(p []byte) (int, liberr.Error) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (w *Base64Writer) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (w *Base64Writer) Offset() int64 { return -1 }

func (w *Base64Writer) Size() (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (w *Base64Writer) SetSize(n int64) liberr.Error {
	return libstm.ErrorReadOnly.Error(nil)
}

func (w *Base64Writer) Flush() liberr.Error { return w.dst.Flush() }

// Base64Reader decodes base64 from src, ignoring any byte outside the
// alphabet (whitespace, CRLF line breaks, garbage). A block with more than
// two pad characters is dropped with a warning; an incomplete trailing block
// at EOF is discarded with a warning. Up to three decoded bytes are carried
// between calls so callers may read with any buffer size.
type Base64Reader struct {
	src        libstm.Stream
	opt        Base64Options
	table      [256]int8
	block      [4]byte
	blockLen   int
	padCount   int
	decoded    [3]byte
	decodedLen int
	scratch    [512]byte
	pending    []byte
	eof        bool
	closed     bool
}

func NewBase64Reader(src libstm.Stream, opt Base64Options) *Base64Reader {
	r := &Base64Reader{src: src, opt: opt.withDefaults()}
	for i := range r.table {
		r.table[i] = base64Invalid
	}
	for i := 0; i < 64; i++ {
		r.table[r.opt.Alphabet[i]] = int8(i)
	}
	r.table['='] = base64Pad
	return r
}

func (r *Base64Reader) decodeBlock(dst []byte) int {
	b := r.block
	dst[0] = b[0]<<2 | b[1]>>4
	dst[1] = b[1]<<4 | b[2]>>2
	dst[2] = b[2]<<6 | b[3]
	return 3 - r.padCount
}

func (r *Base64Reader) ReadSome(p []byte) (int, liberr.Error) {
	if r.closed {
		return 0, libstm.ErrorClosed.Error(nil)
	}
	if len(p) == 0 {
		return 0, nil
	}

	n := 0

	// Leftover decoded bytes from a previous call go out first.
	if r.decodedLen > 0 {
		c := copy(p, r.decoded[:r.decodedLen])
		copy(r.decoded[:], r.decoded[c:r.decodedLen])
		r.decodedLen -= c
		n += c
		if n == len(p) {
			return n, nil
		}
	}

	for {
		if len(r.pending) == 0 {
			if r.eof {
				if r.blockLen > 0 {
					r.opt.Logger.Warn().Msg("base64: incomplete final block discarded")
					r.blockLen = 0
					r.padCount = 0
				}
				return n, nil
			}
			got, err := r.src.ReadSome(r.scratch[:])
			if err != nil && !err.HasCode(libstm.ErrorEOF) {
				return n, err
			}
			if got == 0 {
				r.eof = true
				continue
			}
			r.pending = r.scratch[:got]
		}

		for len(r.pending) > 0 {
			v := r.table[r.pending[0]]
			r.pending = r.pending[1:]
			if v == base64Invalid {
				continue
			}

			if v == base64Pad {
				r.padCount++
				r.block[r.blockLen] = 0
			} else {
				r.block[r.blockLen] = byte(v)
			}
			r.blockLen++
			if r.blockLen < 4 {
				continue
			}
			r.blockLen = 0

			if r.padCount > 2 {
				r.opt.Logger.Warn().Msg("base64: invalid block with more than two pad characters")
				r.padCount = 0
				continue
			}

			var out [3]byte
			outLen := r.decodeBlock(out[:])
			r.padCount = 0

			c := copy(p[n:], out[:outLen])
			n += c
			if c < outLen {
				copy(r.decoded[:], out[c:outLen])
				r.decodedLen = outLen - c
				return n, nil
			}
			if n == len(p) {
				return n, nil
			}
		}
	}
}

func (r *Base64Reader) Close() error {
	r.closed = true
	return nil
}

func (r *Base64Reader) Closed() bool { return r.closed }

func (r *Base64Reader) WriteSome(p []byte) (int, liberr.Error) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (r *Base64Reader) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (r *Base64Reader) Offset() int64 { return -1 }

func (r *Base64Reader) Size() (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (r *Base64Reader) SetSize(n int64) liberr.Error {
	return libstm.ErrorReadOnly.Error(nil)
}

func (r *Base64Reader) Flush() liberr.Error { return nil }

// base64Coder implements libenc.Coder over the standard library's
// encoding/base64 for whole-buffer convenience; streaming callers use
// Base64Writer/Base64Reader, which carry the line-wrapping and lenient
// decode behaviour the wire formats need.
type base64Coder struct {
	enc *base64.Encoding
}

// NewBase64 returns a Coder using the standard (padded) base64 alphabet.
func NewBase64() libenc.Coder {
	return &base64Coder{enc: base64.StdEncoding}
}

// NewBase64URL returns a Coder using the URL-safe base64 alphabet.
func NewBase64URL() libenc.Coder {
	return &base64Coder{enc: base64.URLEncoding}
}

func (c *base64Coder) Encode(p []byte) []byte {
	out := make([]byte, c.enc.EncodedLen(len(p)))
	c.enc.Encode(out, p)
	return out
}

func (c *base64Coder) Decode(p []byte) ([]byte, error) {
	out := make([]byte, c.enc.DecodedLen(len(p)))
	n, err := c.enc.Decode(out, p)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

func (c *base64Coder) EncodeReader(r io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		enc := base64.NewEncoder(c.enc, pw)
		_, err := io.Copy(enc, r)
		if err == nil {
			err = enc.Close()
		}
		_ = pw.CloseWithError(err)
	}()
	return pr
}

func (c *base64Coder) DecodeReader(r io.Reader) io.ReadCloser {
	return io.NopCloser(base64.NewDecoder(c.enc, r))
}

func (c *base64Coder) EncodeWriter(w io.Writer) io.WriteCloser {
	return base64.NewEncoder(c.enc, w)
}

func (c *base64Coder) DecodeWriter(w io.Writer) io.WriteCloser {
	pr, pw := io.Pipe()
	go func() {
		_, err := io.Copy(w, base64.NewDecoder(c.enc, pr))
		_ = pr.CloseWithError(err)
	}()
	return pw
}

func (c *base64Coder) Reset() {}
