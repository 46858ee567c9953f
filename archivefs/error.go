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

// Package archivefs defines the polymorphic ArchiveReader contract, an
// in-memory Archive aggregator over one or more ArchiveReaders, and
// ArchiveFileSystem, a read-only filesystem view over any ArchiveReader.
package archivefs

import (
	"fmt"

	liberr "github.com/nabbar/corestream/errors"
)

const (
	ErrorOpenDisallowed liberr.CodeError = iota + liberr.MinPkgArchiveFS
	ErrorNotFound
	ErrorNotAFile
	ErrorNotADirectory
	ErrorIsWriteOnly
	ErrorVerificationFailed
)

func init() {
	if liberr.ExistInMapMessage(ErrorOpenDisallowed) {
		panic(fmt.Errorf("error code collision corestream/archivefs"))
	}
	liberr.RegisterIdFctMessage(ErrorOpenDisallowed, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorOpenDisallowed:
		return "open is not supported by this archive reader"
	case ErrorNotFound:
		return "path not found in archive"
	case ErrorNotAFile:
		return "path refers to a directory, not a file"
	case ErrorNotADirectory:
		return "path does not refer to a directory"
	case ErrorIsWriteOnly:
		return "archive filesystem is read-only"
	case ErrorVerificationFailed:
		return "one or more archive entries failed verification"
	}

	return liberr.NullMessage
}
