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

// Package compress wraps klauspost/compress/flate as a pair of composable
// stream filters (deflate/inflate), matching the Coder shape the rest of
// this module's codecs share.
package compress

import (
	"fmt"

	liberr "github.com/nabbar/corestream/errors"
)

const (
	ErrorLevelInvalid liberr.CodeError = iota + liberr.MinPkgCompress
	ErrorWriterInit
	ErrorReaderInit
	ErrorWriteFailed
	ErrorReadFailed
	ErrorCloseFailed
	ErrorAlreadyClosed
)

func init() {
	if liberr.ExistInMapMessage(ErrorLevelInvalid) {
		panic(fmt.Errorf("error code collision corestream/compress"))
	}
	liberr.RegisterIdFctMessage(ErrorLevelInvalid, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorLevelInvalid:
		return "deflate level out of range"
	case ErrorWriterInit:
		return "cannot initialize deflate writer"
	case ErrorReaderInit:
		return "cannot initialize inflate reader"
	case ErrorWriteFailed:
		return "deflate write failed"
	case ErrorReadFailed:
		return "inflate read failed"
	case ErrorCloseFailed:
		return "failed to close compression stream"
	case ErrorAlreadyClosed:
		return "compression stream already closed"
	}

	return liberr.NullMessage
}
