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

// Package httpframe parses and emits HTTP/1.1 request/response framing
// (start line, headers, body-stream selection) over the corestream Stream
// contract, without pulling in net/http's transport or routing machinery.
package httpframe

import (
	"net/url"
	"strings"
)

// Method is one of the nine HTTP/1.1 method tokens this framer recognizes,
// matched case-sensitively against the wire token.
type Method int

const (
	MethodUnknown Method = iota
	MethodOptions
	MethodGet
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodTrace
	MethodConnect
	MethodPatch
)

var methodTokens = map[string]Method{
	"OPTIONS": MethodOptions,
	"GET":     MethodGet,
	"HEAD":    MethodHead,
	"POST":    MethodPost,
	"PUT":     MethodPut,
	"DELETE":  MethodDelete,
	"TRACE":   MethodTrace,
	"CONNECT": MethodConnect,
	"PATCH":   MethodPatch,
}

func (m Method) String() string {
	for k, v := range methodTokens {
		if v == m {
			return k
		}
	}
	return "UNKNOWN"
}

// Version is an HTTP major.minor pair, e.g. {1, 1} for HTTP/1.1.
type Version struct {
	Major int
	Minor int
}

// Message is either a request (Method set to something other than
// MethodUnknown) or a response (StatusCode != 0), carrying an ordered,
// case-insensitive header multimap shared by both shapes.
type Message struct {
	Method         Method
	RequestURL     *url.URL
	StatusCode     int
	Reason         string
	Version        Version
	Header         *Header
	ExpectContinue bool
	isResponse     bool
}

// IsRequest reports whether this message was parsed (or built) as a
// request rather than a response.
func (m *Message) IsRequest() bool {
	return !m.isResponse && m.Method != MethodUnknown
}

// IsKeepAlive reports whether the connection should remain open after this
// message: true for HTTP/1.1 unless "Connection: close" is present, false
// for HTTP/1.0 unless "Connection: keep-alive" is present.
func (m *Message) IsKeepAlive() bool {
	tokens := connectionTokens(m.Header)

	if m.Version.Major > 1 || (m.Version.Major == 1 && m.Version.Minor >= 1) {
		return !containsFold(tokens, "close")
	}
	return containsFold(tokens, "keep-alive")
}

func connectionTokens(h *Header) []string {
	if h == nil {
		return nil
	}
	raw, ok := h.Get("Connection")
	if !ok {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func containsFold(tokens []string, want string) bool {
	for _, t := range tokens {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
