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

package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"

	libenc "github.com/nabbar/corestream/encoding"
)

// Level selects the deflate compression effort, mirroring flate's own scale
// so callers never need to import klauspost/compress directly.
type Level int

const (
	NoCompression      Level = Level(flate.NoCompression)
	BestSpeed          Level = Level(flate.BestSpeed)
	BestCompression    Level = Level(flate.BestCompression)
	DefaultCompression Level = Level(flate.DefaultCompression)
)

// deflateCoder implements libenc.Coder over klauspost/compress/flate: Encode
// compresses (deflate), Decode inflates. ZIP's "deflate" method
// and gzip framing both sit on top of this.
type deflateCoder struct {
	level Level
}

// New returns a Coder performing raw DEFLATE (no zlib/gzip wrapper) at the
// given level.
func New(level Level) libenc.Coder {
	return &deflateCoder{level: level}
}

func (d *deflateCoder) Encode(p []byte) []byte {
	buf := &bytes.Buffer{}
	w, err := flate.NewWriter(buf, int(d.level))
	if err != nil {
		return nil
	}
	_, _ = w.Write(p)
	_ = w.Close()
	return buf.Bytes()
}

func (d *deflateCoder) Decode(p []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(p))
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func (d *deflateCoder) EncodeReader(r io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		w, err := flate.NewWriter(pw, int(d.level))
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_, err = io.Copy(w, r)
		if err == nil {
			err = w.Close()
		}
		_ = pw.CloseWithError(err)
	}()
	return pr
}

func (d *deflateCoder) DecodeReader(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}

func (d *deflateCoder) EncodeWriter(w io.Writer) io.WriteCloser {
	fw, err := flate.NewWriter(w, int(d.level))
	if err != nil {
		return nopWriteCloser{w}
	}
	return fw
}

func (d *deflateCoder) DecodeWriter(w io.Writer) io.WriteCloser {
	pr, pw := io.Pipe()
	go func() {
		r := flate.NewReader(pr)
		_, _ = io.Copy(w, r)
		_ = r.Close()
	}()
	return pw
}

func (d *deflateCoder) Reset() {}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
