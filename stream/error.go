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
	"fmt"

	liberr "github.com/nabbar/corestream/errors"
)

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgStream
	ErrorClosed
	ErrorReadOnly
	ErrorNotSeekable
	ErrorSeekInvalid
	ErrorUnderlyingIO
	ErrorShortWrite
	ErrorPutBackOverflow
	ErrorBufferTooSmall
	ErrorEOF
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamEmpty) {
		panic(fmt.Errorf("error code collision corestream/stream"))
	}
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorParamEmpty:
		return "given parameters is empty"
	case ErrorClosed:
		return "stream is closed"
	case ErrorReadOnly:
		return "buffer is read-only"
	case ErrorNotSeekable:
		return "underlying stream does not support seek"
	case ErrorSeekInvalid:
		return "seek request is out of range"
	case ErrorUnderlyingIO:
		return "underlying stream I/O error"
	case ErrorShortWrite:
		return "short write to underlying stream"
	case ErrorPutBackOverflow:
		return "put-back request exceeds reserved space"
	case ErrorBufferTooSmall:
		return "buffer capacity too small for requested operation"
	case ErrorEOF:
		return "end of stream"
	}

	return liberr.NullMessage
}
