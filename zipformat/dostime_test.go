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

package zipformat_test

import (
	"time"

	libfmt "github.com/nabbar/corestream/zipformat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("zipformat/DOS time codec", func() {
	It("decodes and re-encodes a known bit pattern exactly", func() {
		// 0x2A28 packs year 21 (2001), month 1, day 8; 0x5CE0 packs
		// 11:39:00. The encode direction must reproduce the same bits.
		out := libfmt.DecodeDOSTime(0x2A28, 0x5CE0)
		Expect(out).To(Equal(time.Date(2001, time.January, 8, 11, 39, 0, 0, time.UTC)))

		date, dosTime := libfmt.EncodeDOSTime(out)
		Expect(date).To(Equal(uint16(0x2A28)))
		Expect(dosTime).To(Equal(uint16(0x5CE0)))
	})

	It("round-trips an arbitrary instant with even seconds", func() {
		in := time.Date(2021, time.May, 17, 13, 30, 44, 0, time.UTC)
		date, dosTime := libfmt.EncodeDOSTime(in)
		out := libfmt.DecodeDOSTime(date, dosTime)
		Expect(out).To(Equal(in))
	})

	It("truncates odd seconds down to the nearest even second", func() {
		in := time.Date(2021, time.May, 17, 13, 30, 45, 0, time.UTC)
		date, dosTime := libfmt.EncodeDOSTime(in)
		out := libfmt.DecodeDOSTime(date, dosTime)
		Expect(out).To(Equal(in.Add(-time.Second)))
	})

	It("clamps years before 1980 to the MS-DOS epoch", func() {
		in := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
		date, dosTime := libfmt.EncodeDOSTime(in)
		out := libfmt.DecodeDOSTime(date, dosTime)
		Expect(out.Year()).To(Equal(1980))
	})

	It("round-trips the maximum representable date", func() {
		in := time.Date(2107, time.December, 31, 23, 58, 58, 0, time.UTC)
		date, dosTime := libfmt.EncodeDOSTime(in)
		out := libfmt.DecodeDOSTime(date, dosTime)
		Expect(out).To(Equal(in))
	})
})

var _ = Describe("zipformat/path normalisation", func() {
	It("converts backslashes to forward slashes", func() {
		Expect(libfmt.NormalizePath(`a\b\c.txt`)).To(Equal("a/b/c.txt"))
	})

	It("strips a leading drive letter", func() {
		Expect(libfmt.NormalizePath(`C:\Users\file.txt`)).To(Equal("Users/file.txt"))
	})

	It("trims leading slashes and colons", func() {
		Expect(libfmt.NormalizePath("///:abs/path")).To(Equal("abs/path"))
	})

	It("IsDirectory honours the MS-DOS attribute bit and trailing slash", func() {
		Expect(libfmt.IsDirectory("plain/dir/", 0)).To(BeTrue())
		Expect(libfmt.IsDirectory("plain/file", 0x10)).To(BeTrue())
		Expect(libfmt.IsDirectory("plain/file", 0)).To(BeFalse())
	})
})
