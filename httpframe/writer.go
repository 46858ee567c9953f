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
	"fmt"

	liberr "github.com/nabbar/corestream/errors"
	libstm "github.com/nabbar/corestream/stream"
)

// WriteStatusLine emits "HTTP/M.N <code> <reason>\r\n" followed by each
// header as "name: value\r\n" and the terminating blank line. It does
// not write a body; callers select and write the body separately (plain,
// SubStream-bounded, or a framing.ChunkedWriter).
func WriteStatusLine(dst libstm.Stream, m *Message) liberr.Error {
	line := fmt.Sprintf("HTTP/%d.%d %d %s\r\n", m.Version.Major, m.Version.Minor, m.StatusCode, m.Reason)
	if err := writeFull(dst, []byte(line)); err != nil {
		return err
	}
	return writeHeaderBlock(dst, m.Header)
}

// WriteRequestLine emits "METHOD target HTTP/M.N\r\n" followed by the
// header block and terminating blank line.
func WriteRequestLine(dst libstm.Stream, m *Message) liberr.Error {
	target := "/"
	if m.RequestURL != nil {
		target = m.RequestURL.RequestURI()
	}
	line := fmt.Sprintf("%s %s HTTP/%d.%d\r\n", m.Method.String(), target, m.Version.Major, m.Version.Minor)
	if err := writeFull(dst, []byte(line)); err != nil {
		return err
	}
	return writeHeaderBlock(dst, m.Header)
}

func writeHeaderBlock(dst libstm.Stream, h *Header) liberr.Error {
	var werr liberr.Error
	if h != nil {
		h.Range(func(name, value string) {
			if werr != nil {
				return
			}
			werr = writeFull(dst, []byte(fmt.Sprintf("%s: %s\r\n", name, value)))
		})
	}
	if werr != nil {
		return werr
	}
	return writeFull(dst, []byte("\r\n"))
}
