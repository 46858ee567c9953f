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

package framing_test

import (
	"io"

	libfrm "github.com/nabbar/corestream/framing"
	libstm "github.com/nabbar/corestream/stream"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func drainMemStream(m libstm.Stream) []byte {
	sz, err := m.Size()
	Expect(err).ToNot(HaveOccurred())
	_, serr := m.Seek(0, libstm.SeekStart)
	Expect(serr).ToNot(HaveOccurred())

	out := make([]byte, sz)
	n, rerr := m.ReadSome(out)
	Expect(rerr).ToNot(HaveOccurred())
	return out[:n]
}

var _ = Describe("framing/ChunkedWriter", func() {
	It("frames a single write exactly as RFC 7230 prescribes", func() {
		// Writing "Hello" then closing produces exactly
		// "5\r\nHello\r\n0\r\n\r\n" on the wire.
		dst := libstm.NewMemoryStream()
		w := libfrm.NewChunkedWriter(dst)

		n, err := w.WriteSome([]byte("Hello"))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(5))

		Expect(w.Close()).ToNot(HaveOccurred())
		Expect(w.Closed()).To(BeTrue())

		Expect(string(drainMemStream(dst))).To(Equal("5\r\nHello\r\n0\r\n\r\n"))
	})

	It("frames multiple writes as independent chunks", func() {
		dst := libstm.NewMemoryStream()
		w := libfrm.NewChunkedWriter(dst)

		_, err := w.WriteSome([]byte("foo"))
		Expect(err).ToNot(HaveOccurred())
		_, err = w.WriteSome([]byte("bazqux"))
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).ToNot(HaveOccurred())

		Expect(string(drainMemStream(dst))).To(Equal("3\r\nfoo\r\n6\r\nbazqux\r\n0\r\n\r\n"))
	})

	It("rejects writes and reads after Close", func() {
		dst := libstm.NewMemoryStream()
		w := libfrm.NewChunkedWriter(dst)
		Expect(w.Close()).ToNot(HaveOccurred())

		_, err := w.WriteSome([]byte("x"))
		Expect(err).To(HaveOccurred())
		Expect(err.HasCode(libstm.ErrorClosed)).To(BeTrue())

		_, rerr := w.ReadSome(make([]byte, 1))
		Expect(rerr).To(HaveOccurred())
		Expect(rerr.HasCode(libstm.ErrorReadOnly)).To(BeTrue())
	})
})

var _ = Describe("framing/ChunkedReader", func() {
	It("decodes a single-chunk body back to the original payload", func() {
		src := libstm.NewMemoryStreamFromBytes([]byte("5\r\nHello\r\n0\r\n\r\n"))
		buf, err := libstm.NewBuffer(src, libstm.BufferOptions{})
		Expect(err).ToNot(HaveOccurred())

		r := libfrm.NewChunkedReader(buf, 0)
		out, rerr := io.ReadAll(chunkedReaderAdapter{r})
		Expect(rerr).ToNot(HaveOccurred())
		Expect(string(out)).To(Equal("Hello"))
	})

	It("decodes multiple chunks in sequence", func() {
		src := libstm.NewMemoryStreamFromBytes([]byte("3\r\nfoo\r\n6\r\nbazqux\r\n0\r\n\r\n"))
		buf, err := libstm.NewBuffer(src, libstm.BufferOptions{})
		Expect(err).ToNot(HaveOccurred())

		r := libfrm.NewChunkedReader(buf, 0)
		out, rerr := io.ReadAll(chunkedReaderAdapter{r})
		Expect(rerr).ToNot(HaveOccurred())
		Expect(string(out)).To(Equal("foobazqux"))
	})

	It("rejects a chunk-size line exceeding the configured maximum", func() {
		src := libstm.NewMemoryStreamFromBytes([]byte("FFFFFFF\r\n"))
		buf, err := libstm.NewBuffer(src, libstm.BufferOptions{})
		Expect(err).ToNot(HaveOccurred())

		r := libfrm.NewChunkedReader(buf, 16)
		_, rerr := r.ReadSome(make([]byte, 1))
		Expect(rerr).To(HaveOccurred())
		Expect(rerr.HasCode(libfrm.ErrorChunkTooLarge)).To(BeTrue())
	})

	It("rejects a malformed chunk-size line", func() {
		src := libstm.NewMemoryStreamFromBytes([]byte("not-hex\r\n"))
		buf, err := libstm.NewBuffer(src, libstm.BufferOptions{})
		Expect(err).ToNot(HaveOccurred())

		r := libfrm.NewChunkedReader(buf, 0)
		_, rerr := r.ReadSome(make([]byte, 1))
		Expect(rerr).To(HaveOccurred())
		Expect(rerr.HasCode(libfrm.ErrorChunkSizeInvalid)).To(BeTrue())
	})
})

// chunkedReaderAdapter exposes ChunkedReader's ReadSome as a stdlib io.Reader
// so tests can drive it with io.ReadAll.
type chunkedReaderAdapter struct {
	r *libfrm.ChunkedReader
}

func (a chunkedReaderAdapter) Read(p []byte) (int, error) {
	n, err := a.r.ReadSome(p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
