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

// Package encoding defines the Coder contract shared by this module's
// whole-buffer codecs: deflate (compress.New), base64 (framing.NewBase64,
// framing.NewBase64URL) and quoted-printable (framing.NewQuotedPrintable).
// The streaming filter types in packages compress and framing cover the
// byte-at-a-time cases; a Coder is the convenience surface for callers that
// hold the entire payload and want one call per direction, or a stdlib
// io.Reader/io.Writer adapter around it.
package encoding

import (
	"io"
)

// Coder encodes and decodes one payload format, both as whole byte slices
// and as stdlib stream adapters. Implementations are cheap to construct;
// whether one value is safe for concurrent use depends on the
// implementation.
type Coder interface {
	// Encode returns the encoded form of p.
	Encode(p []byte) []byte

	// Decode reverses Encode, failing on input the format rejects.
	Decode(p []byte) ([]byte, error)

	// EncodeReader returns a reader producing the encoded form of
	// everything read from r.
	EncodeReader(r io.Reader) io.ReadCloser

	// DecodeReader returns a reader producing the decoded form of
	// everything read from r.
	DecodeReader(r io.Reader) io.ReadCloser

	// EncodeWriter returns a writer encoding everything written to it onto
	// w. Close flushes any partial final block.
	EncodeWriter(w io.Writer) io.WriteCloser

	// DecodeWriter returns a writer decoding everything written to it onto
	// w.
	DecodeWriter(w io.Writer) io.WriteCloser

	// Reset drops any internal state so the Coder can be reused.
	Reset()
}
