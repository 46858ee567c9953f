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

package bplist

import (
	"fmt"

	liberr "github.com/nabbar/corestream/errors"
)

const (
	ErrorBadMagic liberr.CodeError = iota + liberr.MinPkgBPList
	ErrorNotSeekable
	ErrorTrailerTooSmall
	ErrorRefSizeTooLarge
	ErrorOffsetSizeTooLarge
	ErrorBadObjectMarker
	ErrorIndexOutOfRange
	ErrorCycle
	ErrorUnsupportedKind
	ErrorShortWrite
	ErrorUnsupportedVersion
)

func init() {
	if liberr.ExistInMapMessage(ErrorBadMagic) {
		panic(fmt.Errorf("error code collision corestream/bplist"))
	}
	liberr.RegisterIdFctMessage(ErrorBadMagic, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorBadMagic:
		return "not a binary property list (bad magic)"
	case ErrorNotSeekable:
		return "binary property list reader requires a seekable, sized stream"
	case ErrorTrailerTooSmall:
		return "file too small to contain a bplist trailer"
	case ErrorRefSizeTooLarge:
		return "object reference size exceeds 8 bytes"
	case ErrorOffsetSizeTooLarge:
		return "offset-table entry size exceeds 8 bytes"
	case ErrorBadObjectMarker:
		return "invalid object type/length marker"
	case ErrorIndexOutOfRange:
		return "object or offset-table index out of range"
	case ErrorCycle:
		return "property list object graph is not acyclic"
	case ErrorUnsupportedKind:
		return "value kind cannot be encoded in a binary property list"
	case ErrorShortWrite:
		return "underlying stream accepted zero bytes (stalled write)"
	case ErrorUnsupportedVersion:
		return "unsupported binary property list major version"
	}
	return liberr.NullMessage
}
