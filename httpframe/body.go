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

package httpframe

import (
	"strconv"
	"strings"

	liberr "github.com/nabbar/corestream/errors"
	libfrm "github.com/nabbar/corestream/framing"
	libstm "github.com/nabbar/corestream/stream"
)

const maxChunkedBody = 512 * 1024 * 1024

// SelectBodyStream picks the body-framing rule in RFC 7230 precedence
// order: chunked transfer-coding, then a fixed Content-Length window,
// then "read until the connection closes", failing only when none apply
// and the message nonetheless claims a body is framed.
//
// respond is where the "HTTP/1.1 100 continue" interim response goes when
// the parsed request carried "Expect: 100-continue": the returned stream
// emits and flushes it on the first body read, before any body byte is
// consumed. A client-side caller (no interim response to send) passes nil
// and no continue line is ever written.
func SelectBodyStream(m *Message, transport *libstm.Buffer, respond libstm.Stream) (libstm.Stream, liberr.Error) {
	body, err := selectBody(m, transport)
	if err != nil {
		return nil, err
	}

	if m.ExpectContinue && respond != nil {
		return &continueStream{body: body, respond: respond}, nil
	}
	return body, nil
}

func selectBody(m *Message, transport *libstm.Buffer) (libstm.Stream, liberr.Error) {
	if raw, ok := m.Header.Get("Transfer-Encoding"); ok && strings.Contains(strings.ToLower(raw), "chunked") {
		return libfrm.NewChunkedReader(transport, maxChunkedBody), nil
	}

	if raw, ok := m.Header.Get("Content-Length"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || n < 0 {
			return nil, ErrorBadContentLength.Error(err)
		}
		return libstm.NewSubStream(transport, transport.Offset(), n)
	}

	if tokens := connectionTokens(m.Header); len(tokens) == 0 || containsFold(tokens, "close") {
		return transport, nil
	}

	return nil, ErrorNoBodyFraming.Error(nil)
}

// continueStream defers the interim response until the application actually
// asks for the body: the first ReadSome writes and flushes the continue
// line, then every call passes through to the framed body stream.
type continueStream struct {
	body    libstm.Stream
	respond libstm.Stream
	sent    bool
}

func (c *continueStream) ReadSome(p []byte) (int, liberr.Error) {
	if !c.sent {
		c.sent = true
		if err := WriteContinue(c.respond); err != nil {
			return 0, err
		}
	}
	return c.body.ReadSome(p)
}

func (c *continueStream) WriteSome(p []byte) (int, liberr.Error) { return c.body.WriteSome(p) }

func (c *continueStream) Seek(offset int64, whence libstm.Whence) (int64, liberr.Error) {
	return c.body.Seek(offset, whence)
}

func (c *continueStream) Offset() int64 { return c.body.Offset() }

func (c *continueStream) Size() (int64, liberr.Error) { return c.body.Size() }

func (c *continueStream) SetSize(n int64) liberr.Error { return c.body.SetSize(n) }

func (c *continueStream) Flush() liberr.Error { return c.body.Flush() }

func (c *continueStream) Close() error { return c.body.Close() }

func (c *continueStream) Closed() bool { return c.body.Closed() }

// WriteContinue emits the "HTTP/1.1 100 continue" interim response and
// flushes it, as required before a request parser that observed
// "Expect: 100-continue" consumes the first body byte.
func WriteContinue(dst libstm.Stream) liberr.Error {
	if err := writeFull(dst, []byte("HTTP/1.1 100 continue\r\n\r\n")); err != nil {
		return err
	}
	return dst.Flush()
}

func writeFull(dst libstm.Stream, p []byte) liberr.Error {
	written := 0
	for written < len(p) {
		n, err := dst.WriteSome(p[written:])
		written += n
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrorShortWrite.Error(nil)
		}
	}
	return nil
}
