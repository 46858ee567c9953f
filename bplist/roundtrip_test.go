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

package bplist_test

import (
	"time"

	libpl "github.com/nabbar/corestream/bplist"
	libstm "github.com/nabbar/corestream/stream"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func roundtrip(v *libpl.Value) *libpl.Value {
	dst := libstm.NewMemoryStream()
	Expect(libpl.Write(dst, v)).ToNot(HaveOccurred())

	_, err := dst.Seek(0, libstm.SeekStart)
	Expect(err).ToNot(HaveOccurred())

	got, rerr := libpl.Read(dst, libpl.ReadOptions{})
	Expect(rerr).ToNot(HaveOccurred())
	return got
}

var _ = Describe("bplist round-trip", func() {
	Context("scalars", func() {
		It("round-trips null", func() {
			Expect(roundtrip(libpl.NewNull()).Equal(libpl.NewNull())).To(BeTrue())
		})

		It("round-trips bool true and false", func() {
			Expect(roundtrip(libpl.NewBool(true)).Equal(libpl.NewBool(true))).To(BeTrue())
			Expect(roundtrip(libpl.NewBool(false)).Equal(libpl.NewBool(false))).To(BeTrue())
		})

		It("round-trips small and large integers across width boundaries", func() {
			for _, n := range []int64{0, 1, 0xFF, 0x100, 0xFFFF, 0x10000, 0xFFFFFFFF, 0x100000000, -1, -42} {
				got := roundtrip(libpl.NewInt(n))
				v, ok := got.Int()
				Expect(ok).To(BeTrue())
				Expect(v).To(Equal(n))
			}
		})

		It("round-trips a real using the compact 4-byte form when exact", func() {
			got := roundtrip(libpl.NewReal(1.5))
			v, ok := got.Real()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(1.5))
		})

		It("round-trips a real that needs the 8-byte form", func() {
			const precise = 0.1234567890123
			got := roundtrip(libpl.NewReal(precise))
			v, ok := got.Real()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(precise))
		})

		It("round-trips a date truncated to whole seconds", func() {
			ts := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
			got := roundtrip(libpl.NewDate(ts))
			v, ok := got.Date()
			Expect(ok).To(BeTrue())
			Expect(v.Unix()).To(Equal(ts.Unix()))
		})

		It("round-trips binary data", func() {
			d := []byte{0x00, 0x01, 0xFF, 0x7F, 0x80}
			got := roundtrip(libpl.NewData(d))
			v, ok := got.Data()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(d))
		})

		It("round-trips an ASCII string", func() {
			got := roundtrip(libpl.NewString("hello world"))
			v, ok := got.String()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("hello world"))
		})

		It("round-trips a non-ASCII string via UTF-16BE", func() {
			got := roundtrip(libpl.NewString("café 中文"))
			v, ok := got.String()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("café 中文"))
		})

		It("round-trips a UID across width boundaries", func() {
			for _, n := range []uint64{0, 0xFF, 0x100, 0xFFFFFFFF, 0x100000000} {
				got := roundtrip(libpl.NewUID(n))
				v, ok := got.UID()
				Expect(ok).To(BeTrue())
				Expect(v).To(Equal(n))
			}
		})
	})

	Context("containers", func() {
		It("round-trips an array of mixed scalars", func() {
			a := libpl.NewArray(libpl.NewInt(1), libpl.NewString("two"), libpl.NewBool(true))
			got := roundtrip(a)
			arr, ok := got.Array()
			Expect(ok).To(BeTrue())
			Expect(arr).To(HaveLen(3))
		})

		It("round-trips a dict preserving key insertion order", func() {
			d := libpl.NewDict()
			d.Put("z", libpl.NewInt(1))
			d.Put("a", libpl.NewInt(2))
			d.Put("m", libpl.NewInt(3))

			got := roundtrip(d)
			gd, ok := got.Dict()
			Expect(ok).To(BeTrue())
			Expect(gd.Keys()).To(Equal([]string{"z", "a", "m"}))
		})

		It("round-trips nested arrays and dicts", func() {
			inner := libpl.NewDict()
			inner.Put("k", libpl.NewInt(99))

			outer := libpl.NewArray(inner, libpl.NewString("sibling"))

			got := roundtrip(outer)
			Expect(got.Equal(outer)).To(BeTrue())
		})

		It("round-trips an array that repeats the same scalar value twice", func() {
			shared := libpl.NewString("shared")
			a := libpl.NewArray(shared, shared, libpl.NewInt(1), libpl.NewInt(1))

			got := roundtrip(a)
			Expect(got.Equal(a)).To(BeTrue())
		})
	})

	Context("malformed input", func() {
		It("rejects a stream too small to hold a trailer", func() {
			dst := libstm.NewMemoryStreamFromBytes([]byte("short"))
			_, err := libpl.Read(dst, libpl.ReadOptions{})
			Expect(err).To(HaveOccurred())
			Expect(err.HasCode(libpl.ErrorTrailerTooSmall)).To(BeTrue())
		})

		It("rejects bad magic bytes", func() {
			buf := make([]byte, 8+32)
			copy(buf, "NOTAPLST")
			dst := libstm.NewMemoryStreamFromBytes(buf)
			_, err := libpl.Read(dst, libpl.ReadOptions{})
			Expect(err).To(HaveOccurred())
			Expect(err.HasCode(libpl.ErrorBadMagic)).To(BeTrue())
		})

		It("treats a zero-byte stream as an empty dictionary", func() {
			dst := libstm.NewMemoryStream()
			v, err := libpl.Read(dst, libpl.ReadOptions{})
			Expect(err).ToNot(HaveOccurred())
			d, ok := v.Dict()
			Expect(ok).To(BeTrue())
			Expect(d.Len()).To(Equal(0))
		})

		It("rejects a major version other than 0", func() {
			buf := make([]byte, 8+32)
			copy(buf, "bplist10")
			dst := libstm.NewMemoryStreamFromBytes(buf)
			_, err := libpl.Read(dst, libpl.ReadOptions{})
			Expect(err).To(HaveOccurred())
			Expect(err.HasCode(libpl.ErrorUnsupportedVersion)).To(BeTrue())
		})

		It("tolerates a non-canonical minor version and still parses", func() {
			var buf []byte
			buf = append(buf, []byte("bplist02")...) // minor version '2', neither '0' nor '1'
			buf = append(buf, 0x08)                  // object 0: false, at offset 8
			buf = append(buf, 0x08)                  // offset table: object 0 at abs offset 8

			trailer := make([]byte, 32)
			trailer[6] = 1  // offsetIntSize
			trailer[7] = 1  // refSize
			trailer[15] = 1 // numObjects = 1
			trailer[31] = 9 // offsetTableOffset: object area ends at absolute offset 9
			buf = append(buf, trailer...)

			dst := libstm.NewMemoryStreamFromBytes(buf)
			v, err := libpl.Read(dst, libpl.ReadOptions{})
			Expect(err).ToNot(HaveOccurred())
			b, ok := v.Bool()
			Expect(ok).To(BeTrue())
			Expect(b).To(BeFalse())
		})

		It("rejects an object graph that references itself", func() {
			// A hand-built document: a single one-element array (marker
			// 0xA1) whose sole reference (a 1-byte ref, value 0) points
			// back at itself. Write can never produce this (a self
			// -referencing Value would make its visitor recurse forever),
			// so the malformed bytes are assembled directly to exercise
			// the reader's cycle guard in isolation.
			var buf []byte
			buf = append(buf, []byte("bplist00")...) // magic, offset 0-7
			buf = append(buf, 0xA1, 0x00)            // object 0 at offset 8-9
			buf = append(buf, 0x08)                  // offset table: object 0 at abs offset 8

			trailer := make([]byte, 32)
			trailer[6] = 1   // offsetIntSize
			trailer[7] = 1   // refSize
			trailer[15] = 1  // numObjects = 1
			// topObject = 0 (already zero)
			trailer[31] = 10 // offsetTableOffset: object area ends at absolute offset 10
			buf = append(buf, trailer...)

			dst := libstm.NewMemoryStreamFromBytes(buf)
			_, err := libpl.Read(dst, libpl.ReadOptions{})
			Expect(err).To(HaveOccurred())
			Expect(err.HasCode(libpl.ErrorCycle)).To(BeTrue())
		})
	})
})
