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

// Package framing holds the wire-framing filters layered on top of package
// compress: gzip container framing, HTTP chunked transfer-coding, base64 and
// quoted-printable text encodings. Each codec is a stream.Stream filter so
// it chains with the rest of the pipeline without copying; the text
// encodings are additionally exposed as whole-buffer
// github.com/nabbar/corestream/encoding.Coder conveniences.
package framing

import (
	"fmt"

	liberr "github.com/nabbar/corestream/errors"
)

const (
	ErrorGzipHeaderInvalid liberr.CodeError = iota + liberr.MinPkgFraming
	ErrorGzipChecksumMismatch
	ErrorGzipSizeMismatch
	ErrorChunkSizeInvalid
	ErrorChunkTrailerInvalid
	ErrorChunkTooLarge
	ErrorBase64Invalid
	ErrorQuotedPrintableInvalid
)

func init() {
	if liberr.ExistInMapMessage(ErrorGzipHeaderInvalid) {
		panic(fmt.Errorf("error code collision corestream/framing"))
	}
	liberr.RegisterIdFctMessage(ErrorGzipHeaderInvalid, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorGzipHeaderInvalid:
		return "invalid gzip header"
	case ErrorGzipChecksumMismatch:
		return "gzip trailer CRC-32 does not match decompressed content"
	case ErrorGzipSizeMismatch:
		return "gzip trailer ISIZE does not match decompressed content length"
	case ErrorChunkSizeInvalid:
		return "invalid chunked transfer-coding chunk-size line"
	case ErrorChunkTrailerInvalid:
		return "invalid chunked transfer-coding trailer"
	case ErrorChunkTooLarge:
		return "chunk size exceeds configured maximum"
	case ErrorBase64Invalid:
		return "invalid base64 input"
	case ErrorQuotedPrintableInvalid:
		return "invalid quoted-printable input"
	}

	return liberr.NullMessage
}
