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

// Package ziparchive implements the ZIP archive read/write engine: a
// seekable or sequential Reader producing per-entry tokens and
// decompressing, checksum-verifying streams, and a two-pass Writer with
// size-clamp-on-overflow and central directory accumulation.
package ziparchive

import (
	"fmt"

	liberr "github.com/nabbar/corestream/errors"
)

const (
	ErrorNotOpened liberr.CodeError = iota + liberr.MinPkgZipArchive
	ErrorAlreadyOpened
	ErrorIterationFinished
	ErrorTokenInvalid
	ErrorNotSeekableForRandomAccess
	ErrorOutOfOrder
	ErrorTooManyEntries
	ErrorArchiveTooLarge
	ErrorWriterClosed
	ErrorLocalHeaderSignatureInvalid
)

func init() {
	if liberr.ExistInMapMessage(ErrorNotOpened) {
		panic(fmt.Errorf("error code collision corestream/ziparchive"))
	}
	liberr.RegisterIdFctMessage(ErrorNotOpened, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorNotOpened:
		return "archive not opened"
	case ErrorAlreadyOpened:
		return "archive already opened"
	case ErrorIterationFinished:
		return "directory iteration already finished"
	case ErrorTokenInvalid:
		return "archive entry token is invalid for this archive"
	case ErrorNotSeekableForRandomAccess:
		return "random-access mode requires a seekable, sized stream"
	case ErrorOutOfOrder:
		return "beginFile/compressFile/endFile called out of order"
	case ErrorTooManyEntries:
		return "archive exceeds 65535 entries"
	case ErrorArchiveTooLarge:
		return "archive total size does not fit in 32 bits"
	case ErrorWriterClosed:
		return "writer already finalised"
	case ErrorLocalHeaderSignatureInvalid:
		return "expected zip local directory entry but got incorrect signature"
	}

	return liberr.NullMessage
}
