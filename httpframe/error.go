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
)

const (
	ErrorMalformedRequestLine liberr.CodeError = iota + liberr.MinPkgHTTPFrame
	ErrorMalformedStatusLine
	ErrorUnknownMethod
	ErrorMalformedHeader
	ErrorHeaderTooLarge
	ErrorBadRequestTarget
	ErrorNoBodyFraming
	ErrorBadContentLength
	ErrorShortWrite
)

func init() {
	if liberr.ExistInMapMessage(ErrorMalformedRequestLine) {
		panic(fmt.Errorf("error code collision corestream/httpframe"))
	}
	liberr.RegisterIdFctMessage(ErrorMalformedRequestLine, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorMalformedRequestLine:
		return "malformed HTTP request line"
	case ErrorMalformedStatusLine:
		return "malformed HTTP status line"
	case ErrorUnknownMethod:
		return "unrecognized HTTP method token"
	case ErrorMalformedHeader:
		return "malformed HTTP header line"
	case ErrorHeaderTooLarge:
		return "header block exceeds buffer capacity before CRLFCRLF was found"
	case ErrorBadRequestTarget:
		return "request target is not a valid URL"
	case ErrorNoBodyFraming:
		return "no body-framing rule matched (chunked, content-length, or close)"
	case ErrorBadContentLength:
		return "Content-Length header is not a non-negative integer"
	case ErrorShortWrite:
		return "underlying stream accepted zero bytes (stalled write)"
	}
	return liberr.NullMessage
}
