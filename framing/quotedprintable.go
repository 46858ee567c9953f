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
	"io"
	"mime/quotedprintable"

	libenc "github.com/nabbar/corestream/encoding"
	liberr "github.com/nabbar/corestream/errors"
	libstm "github.com/nabbar/corestream/stream"
)

var qpHexDigit = []byte("0123456789ABCDEF")

// TextMode selects how the quoted-printable encoder treats newline bytes in
// its input.
type TextMode int

const (
	// TextModeBinary escapes every CR and LF; the input is an opaque byte
	// stream.
	TextModeBinary TextMode = iota
	// TextModeBinaryCRLF passes CRLF pairs through as output line breaks but
	// escapes lone CR and LF bytes.
	TextModeBinaryCRLF
	// TextModeText normalises LF, CR, CRLF and LFCR newlines to CRLF.
	TextModeText
)

// QuotedPrintableOptions configures the streaming quoted-printable encoder.
type QuotedPrintableOptions struct {
	// LineLength caps output lines; 0 selects 76, values below 8 are raised
	// to 8.
	LineLength int

	TextMode TextMode

	// EscapeDot escapes a '.' in column 0, for transports (SMTP) where a
	// leading dot is significant.
	EscapeDot bool

	// EscapeDash escapes a '-' in column 0, so encoded output can never form
	// a MIME boundary delimiter.
	EscapeDash bool
}

func (o QuotedPrintableOptions) withDefaults() QuotedPrintableOptions {
	if o.LineLength == 0 {
		o.LineLength = 76
	}
	if o.LineLength < 8 {
		o.LineLength = 8
	}
	return o
}

// QuotedPrintableWriter encodes writes as RFC 2045 quoted-printable onto
// dst. Lines are built in an internal buffer and flushed on hard newlines,
// soft line breaks, and Close; a CR seen at the end of one WriteSome call is
// held back so CRLF pairs split across calls are still recognised.
type QuotedPrintableWriter struct {
	dst     libstm.Stream
	opt     QuotedPrintableOptions
	line    []byte
	putBack int
	closed  bool
}

func NewQuotedPrintableWriter(dst libstm.Stream, opt QuotedPrintableOptions) *QuotedPrintableWriter {
	opt = opt.withDefaults()
	return &QuotedPrintableWriter{
		dst:     dst,
		opt:     opt,
		line:    make([]byte, 0, opt.LineLength+3),
		putBack: -1,
	}
}

// flushLine writes the buffered line to dst, first escaping the trailing
// whitespace run so no output line ever ends in a bare space or tab. When
// crlf is true a hard line break follows the data.
func (w *QuotedPrintableWriter) flushLine(crlf bool) liberr.Error {
	i := len(w.line)
	for i > 0 && (w.line[i-1] == ' ' || w.line[i-1] == '\t') {
		i--
	}
	if i < len(w.line) {
		ws := make([]byte, len(w.line)-i)
		copy(ws, w.line[i:])
		w.line = w.line[:i]
		for _, c := range ws {
			if len(w.line)+3 > w.opt.LineLength {
				w.line = append(w.line, '=', '\r', '\n')
				if _, err := writeAll(w.dst, w.line); err != nil {
					return err
				}
				w.line = w.line[:0]
			}
			w.line = append(w.line, '=', qpHexDigit[c>>4], qpHexDigit[c&0x0f])
		}
	}

	if crlf {
		w.line = append(w.line, '\r', '\n')
	}
	if len(w.line) > 0 {
		if _, err := writeAll(w.dst, w.line); err != nil {
			return err
		}
	}
	w.line = w.line[:0]
	return nil
}

// softBreak ends the current line with a soft line break ("=" CRLF),
// carrying a trailing escape sequence over to the next line so it is never
// split.
func (w *QuotedPrintableWriter) softBreak() liberr.Error {
	var carry [3]byte
	n := 0
	if len(w.line) >= 3 && w.line[len(w.line)-3] == '=' {
		copy(carry[:], w.line[len(w.line)-3:])
		n = 3
		w.line = w.line[:len(w.line)-3]
	}
	w.line = append(w.line, '=', '\r', '\n')
	if _, werr := writeAll(w.dst, w.line); werr != nil {
		return werr
	}
	w.line = append(w.line[:0], carry[:n]...)
	return nil
}

func (w *QuotedPrintableWriter) literal(ch byte) bool {
	if ch == '\t' {
		return true
	}
	if ch < 32 || ch > 126 || ch == '=' {
		return false
	}
	if len(w.line) == 0 {
		if ch == '.' && w.opt.EscapeDot {
			return false
		}
		if ch == '-' && w.opt.EscapeDash {
			return false
		}
	}
	return true
}

func (w *QuotedPrintableWriter) putByte(ch byte) liberr.Error {
	if len(w.line) >= w.opt.LineLength-1 {
		// Keep one column free for a soft line break.
		if err := w.softBreak(); err != nil {
			return err
		}
	}

	if w.literal(ch) {
		w.line = append(w.line, ch)
		return nil
	}

	if len(w.line)+4 > w.opt.LineLength {
		if err := w.softBreak(); err != nil {
			return err
		}
	}
	w.line = append(w.line, '=', qpHexDigit[ch>>4], qpHexDigit[ch&0x0f])
	return nil
}

func (w *QuotedPrintableWriter) WriteSome(p []byte) (int, liberr.Error) {
	if w.closed {
		return 0, libstm.ErrorClosed.Error(nil)
	}
	if len(p) == 0 {
		return 0, nil
	}

	mode := w.opt.TextMode
	i := 0

	if w.putBack >= 0 {
		// A held-back CR (or LF in text mode) meets its next byte here.
		held := byte(w.putBack)
		w.putBack = -1
		next := p[0]
		if (held == '\r' && next == '\n') || (mode == TextModeText && held == '\n' && next == '\r') {
			if err := w.flushLine(true); err != nil {
				return 0, err
			}
			i = 1
		} else if mode == TextModeText {
			if err := w.flushLine(true); err != nil {
				return 0, err
			}
		} else {
			if err := w.putByte(held); err != nil {
				return 0, err
			}
		}
	}

	for ; i < len(p); i++ {
		ch := p[i]

		if (ch == '\r' && mode != TextModeBinary) || (ch == '\n' && mode == TextModeText) {
			if i+1 == len(p) {
				w.putBack = int(ch)
				i++
				break
			}
			if mode == TextModeText {
				if (ch == '\r' && p[i+1] == '\n') || (ch == '\n' && p[i+1] == '\r') {
					i++
				}
				if err := w.flushLine(true); err != nil {
					return i, err
				}
				continue
			}
			// TextModeBinaryCRLF: only an exact CRLF pair becomes a line
			// break; a lone CR falls through and gets escaped.
			if p[i+1] == '\n' {
				i++
				if err := w.flushLine(true); err != nil {
					return i, err
				}
				continue
			}
		}

		if err := w.putByte(ch); err != nil {
			return i, err
		}
	}

	return len(p), nil
}

func (w *QuotedPrintableWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.putBack >= 0 {
		held := byte(w.putBack)
		w.putBack = -1
		if w.opt.TextMode == TextModeText {
			// Input ended on a newline byte: emit the hard break.
			if err := w.flushLine(true); err != nil {
				return err
			}
			return nil
		}
		if err := w.putByte(held); err != nil {
			return err
		}
	}

	if len(w.line) > 0 {
		if err := w.flushLine(false); err != nil {
			return err
		}
	}
	return nil
}

func (w *QuotedPrintableWriter) Closed() bool { return w.closed }

func (w *QuotedPrintableWriter) ReadSome(p []byte) (int, liberr.Error) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (w *QuotedPrintableWriter) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (w *QuotedPrintableWriter) Offset() int64 { return -1 }

func (w *QuotedPrintableWriter) Size() (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (w *QuotedPrintableWriter) SetSize(n int64) liberr.Error {
	return libstm.ErrorReadOnly.Error(nil)
}

func (w *QuotedPrintableWriter) Flush() liberr.Error { return w.dst.Flush() }

// QuotedPrintableReader decodes quoted-printable from src. Soft line breaks
// ("=" CRLF) disappear, "=XX" hex escapes become their byte, and a lone '='
// followed by anything else is passed through verbatim rather than treated
// as an error. Escape sequences split across ReadSome boundaries are carried
// in a small pending buffer.
type QuotedPrintableReader struct {
	src     libstm.Stream
	pend    [2]byte
	pendLen int
	inEsc   bool
	scratch [512]byte
	buffer  []byte
	eof     bool
	closed  bool
}

func NewQuotedPrintableReader(src libstm.Stream) *QuotedPrintableReader {
	return &QuotedPrintableReader{src: src}
}

func fromHexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func (r *QuotedPrintableReader) fill() liberr.Error {
	if r.eof || len(r.buffer) > 0 {
		return nil
	}
	got, err := r.src.ReadSome(r.scratch[:])
	if err != nil && !err.HasCode(libstm.ErrorEOF) {
		return err
	}
	if got == 0 {
		r.eof = true
		return nil
	}
	r.buffer = r.scratch[:got]
	return nil
}

// resolveEscape consumes the two bytes following an '=' from pend and writes
// the decoded result to p. It is only called with pendLen == 2 or at EOF.
func (r *QuotedPrintableReader) resolveEscape(p []byte, n int) int {
	a := r.pend[0]
	if r.pendLen == 2 {
		b := r.pend[1]
		hi, okA := fromHexDigit(a)
		lo, okB := fromHexDigit(b)
		r.inEsc = false
		r.pendLen = 0
		switch {
		case okA && okB:
			p[n] = hi<<4 | lo
			n++
		case a == '\r':
			// Soft line break; a bare CR means the byte after it is input.
			if b != '\n' {
				r.buffer = append([]byte{b}, r.buffer...)
			}
		case a == '\n':
			if b != '\r' {
				r.buffer = append([]byte{b}, r.buffer...)
			}
		default:
			// Rogue '=': emit it, re-process both held bytes.
			p[n] = '='
			n++
			r.buffer = append([]byte{a, b}, r.buffer...)
		}
		return n
	}

	// EOF with a partial escape: emit what we held, verbatim.
	p[n] = '='
	n++
	r.inEsc = false
	if r.pendLen == 1 {
		r.buffer = append(r.buffer, a)
		r.pendLen = 0
	}
	return n
}

func (r *QuotedPrintableReader) ReadSome(p []byte) (int, liberr.Error) {
	if r.closed {
		return 0, libstm.ErrorClosed.Error(nil)
	}
	if len(p) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(p) {
		if len(r.buffer) == 0 {
			if err := r.fill(); err != nil {
				return n, err
			}
			if r.eof && len(r.buffer) == 0 {
				if r.inEsc {
					n = r.resolveEscape(p, n)
				}
				return n, nil
			}
		}

		if r.inEsc {
			for r.pendLen < 2 && len(r.buffer) > 0 {
				r.pend[r.pendLen] = r.buffer[0]
				r.pendLen++
				r.buffer = r.buffer[1:]
			}
			if r.pendLen < 2 && !r.eof {
				continue
			}
			n = r.resolveEscape(p, n)
			continue
		}

		ch := r.buffer[0]
		r.buffer = r.buffer[1:]
		if ch == '=' {
			r.inEsc = true
			r.pendLen = 0
			continue
		}
		p[n] = ch
		n++
	}

	return n, nil
}

func (r *QuotedPrintableReader) Close() error {
	r.closed = true
	return nil
}

func (r *QuotedPrintableReader) Closed() bool { return r.closed }

func (r *QuotedPrintableReader) WriteSome(p []byte) (int, liberr.Error) {
	return 0, libstm.ErrorReadOnly.Error(nil)
}

func (r *QuotedPrintableReader) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (r *QuotedPrintableReader) Offset() int64 { return -1 }

func (r *QuotedPrintableReader) Size() (int64, liberr.Error) {
	return 0, libstm.ErrorNotSeekable.Error(nil)
}

func (r *QuotedPrintableReader) SetSize(n int64) liberr.Error {
	return libstm.ErrorReadOnly.Error(nil)
}

func (r *QuotedPrintableReader) Flush() liberr.Error { return nil }

// qpCoder implements libenc.Coder over the standard library's
// mime/quotedprintable for whole-buffer convenience; streaming callers use
// QuotedPrintableWriter/QuotedPrintableReader, which carry the text-mode,
// line-length and leading-dot options the wire formats need.
type qpCoder struct{}

// NewQuotedPrintable returns a Coder for RFC 2045 quoted-printable.
func NewQuotedPrintable() libenc.Coder {
	return &qpCoder{}
}

func (q *qpCoder) Encode(p []byte) []byte {
	buf := &bytes.Buffer{}
	w := quotedprintable.NewWriter(buf)
	_, _ = w.Write(p)
	_ = w.Close()
	return buf.Bytes()
}

func (q *qpCoder) Decode(p []byte) ([]byte, error) {
	r := quotedprintable.NewReader(bytes.NewReader(p))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (q *qpCoder) EncodeReader(r io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		w := quotedprintable.NewWriter(pw)
		_, err := io.Copy(w, r)
		if err == nil {
			err = w.Close()
		}
		_ = pw.CloseWithError(err)
	}()
	return pr
}

func (q *qpCoder) DecodeReader(r io.Reader) io.ReadCloser {
	return io.NopCloser(quotedprintable.NewReader(r))
}

func (q *qpCoder) EncodeWriter(w io.Writer) io.WriteCloser {
	return quotedprintable.NewWriter(w)
}

func (q *qpCoder) DecodeWriter(w io.Writer) io.WriteCloser {
	pr, pw := io.Pipe()
	go func() {
		_, err := io.Copy(w, quotedprintable.NewReader(pr))
		_ = pr.CloseWithError(err)
	}()
	return pw
}

func (q *qpCoder) Reset() {}
