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
	"net/url"
	"strconv"
	"strings"

	liberr "github.com/nabbar/corestream/errors"
	libstm "github.com/nabbar/corestream/stream"
)

// Mode selects which start line ParseMessage expects, or whether there is
// none at all (a trailer block or a mid-stream header-only read).
type Mode int

const (
	ModeRequest Mode = iota
	ModeResponse
	ModeHeadersOnly
)

// ParseMessage reads one start line (unless mode is ModeHeadersOnly) and
// its header block from src, stopping at the CRLFCRLF terminator. src's
// buffer capacity bounds the maximum header size; a header block that
// does not fit fails with ErrorHeaderTooLarge once fetchMore stalls.
func ParseMessage(src *libstm.Buffer, mode Mode) (*Message, liberr.Error) {
	m := &Message{Header: NewHeader()}

	if mode != ModeHeadersOnly {
		line, err := src.ReadLine()
		if err != nil {
			return nil, err
		}
		switch mode {
		case ModeRequest:
			if err := parseRequestLine(m, string(line)); err != nil {
				return nil, err
			}
		case ModeResponse:
			m.isResponse = true
			if err := parseStatusLine(m, string(line)); err != nil {
				return nil, err
			}
		}
	}

	if err := parseHeaderBlock(m, src); err != nil {
		return nil, err
	}

	if raw, ok := m.Header.Get("Expect"); ok && strings.EqualFold(strings.TrimSpace(raw), "100-continue") {
		m.ExpectContinue = true
	}

	return m, nil
}

func parseRequestLine(m *Message, line string) liberr.Error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return ErrorMalformedRequestLine.Error(nil)
	}

	method, ok := methodTokens[parts[0]]
	if !ok {
		return ErrorUnknownMethod.Error(nil)
	}

	u, perr := url.ParseRequestURI(parts[1])
	if perr != nil {
		return ErrorBadRequestTarget.Error(perr)
	}

	major, minor, verr := parseVersion(parts[2])
	if verr != nil {
		return verr
	}

	m.Method = method
	m.RequestURL = u
	m.Version = Version{Major: major, Minor: minor}
	return nil
}

func parseStatusLine(m *Message, line string) liberr.Error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return ErrorMalformedStatusLine.Error(nil)
	}

	major, minor, verr := parseVersion(parts[0])
	if verr != nil {
		return verr
	}

	code, cerr := strconv.Atoi(parts[1])
	if cerr != nil || code < 100 || code > 999 {
		return ErrorMalformedStatusLine.Error(cerr)
	}

	m.Version = Version{Major: major, Minor: minor}
	m.StatusCode = code
	if len(parts) == 3 {
		m.Reason = parts[2]
	}
	return nil
}

func parseVersion(tok string) (int, int, liberr.Error) {
	if !strings.HasPrefix(tok, "HTTP/") {
		return 0, 0, ErrorMalformedRequestLine.Error(nil)
	}
	tok = strings.TrimPrefix(tok, "HTTP/")
	dot := strings.IndexByte(tok, '.')
	if dot < 0 {
		return 0, 0, ErrorMalformedRequestLine.Error(nil)
	}
	major, merr := strconv.Atoi(tok[:dot])
	minor, nerr := strconv.Atoi(tok[dot+1:])
	if merr != nil || nerr != nil {
		return 0, 0, ErrorMalformedRequestLine.Error(nil)
	}
	return major, minor, nil
}

func parseHeaderBlock(m *Message, src *libstm.Buffer) liberr.Error {
	for {
		line, err := src.ReadLine()
		if err != nil {
			if isEOF(err) {
				return ErrorHeaderTooLarge.Error(nil)
			}
			return err
		}
		if len(line) == 0 {
			return nil
		}

		name, value, ok := splitHeaderLine(string(line))
		if !ok {
			return ErrorMalformedHeader.Error(nil)
		}

		for {
			b, perr := src.PeekByte(0)
			if perr != nil || (b != ' ' && b != '\t') {
				break
			}
			cont, cerr := src.ReadLine()
			if cerr != nil {
				return cerr
			}
			value = value + " " + foldValue(string(cont))
		}

		m.Header.Add(name, foldValue(value))
	}
}

func splitHeaderLine(line string) (name, value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return "", "", false
	}
	return line[:idx], line[idx+1:], true
}

func isEOF(err liberr.Error) bool {
	return err != nil && err.HasCode(libstm.ErrorEOF)
}
