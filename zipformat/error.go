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

// Package zipformat implements the bit-exact, little-endian ZIP on-disk
// records: the local directory entry, the central directory entry and the
// end-of-central-directory record, plus the MS-DOS date/time codec and path
// normalisation rules they depend on.
package zipformat

import (
	"fmt"

	liberr "github.com/nabbar/corestream/errors"
)

const (
	ErrorSignatureMismatch liberr.CodeError = iota + liberr.MinPkgZipFormat
	ErrorRecordTooShort
	ErrorDataDescriptorUnsupported
	ErrorMethodUnsupported
	ErrorEndRecordNotFound
	ErrorEndRecordArithmetic
	ErrorStartDiskNotZero
	ErrorEntryCountMismatch
)

func init() {
	if liberr.ExistInMapMessage(ErrorSignatureMismatch) {
		panic(fmt.Errorf("error code collision corestream/zipformat"))
	}
	liberr.RegisterIdFctMessage(ErrorSignatureMismatch, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorSignatureMismatch:
		return "record signature mismatch"
	case ErrorRecordTooShort:
		return "record shorter than fixed head"
	case ErrorDataDescriptorUnsupported:
		return "data descriptor streaming (bit flag 3) is not supported"
	case ErrorMethodUnsupported:
		return "compression method not supported"
	case ErrorEndRecordNotFound:
		return "end-of-central-directory record not found"
	case ErrorEndRecordArithmetic:
		return "end-of-central-directory offset arithmetic does not fit file size"
	case ErrorStartDiskNotZero:
		return "starting disk number must be zero (multi-volume archives unsupported)"
	case ErrorEntryCountMismatch:
		return "central directory entry count mismatch"
	}

	return liberr.NullMessage
}
