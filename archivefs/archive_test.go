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

package archivefs_test

import (
	"io"

	libarc "github.com/nabbar/corestream/archivefs"
	libent "github.com/nabbar/corestream/entry"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func twoFileReader() *fakeReader {
	return newFakeReader([]fakeFile{
		{
			entry:   libent.DirectoryEntry{Path: "a.txt", ID: 0, UnpackedSize: 5},
			token:   libent.Token{Offset: 0, CRC32: 1},
			content: []byte("alpha"),
		},
		{
			entry:   libent.DirectoryEntry{Path: "b.txt", ID: 1, UnpackedSize: 4},
			token:   libent.Token{Offset: 1, CRC32: 2},
			content: []byte("beta"),
		},
	})
}

var _ = Describe("archivefs/Archive", func() {
	It("imports every entry from a source and replays them via ReadDirectoryEntry", func() {
		src := twoFileReader()
		a := libarc.NewArchive()
		Expect(a.Load(src)).ToNot(HaveOccurred())

		var names []string
		for {
			status, err := a.ReadDirectoryEntry()
			Expect(err).ToNot(HaveOccurred())
			if status == libarc.StatusEnd {
				break
			}
			names = append(names, a.Entry().Path)
		}
		Expect(names).To(Equal([]string{"a.txt", "b.txt"}))
	})

	It("copies the source's archive-level properties", func() {
		src := twoFileReader()
		a := libarc.NewArchive()
		Expect(a.Load(src)).ToNot(HaveOccurred())
		Expect(a.GetArchiveProperties()).To(HaveKeyWithValue("origin", "fake"))
	})

	It("is idempotent when Load is called twice with the same source", func() {
		src := twoFileReader()
		a := libarc.NewArchive()
		Expect(a.Load(src)).ToNot(HaveOccurred())
		Expect(a.Load(src)).ToNot(HaveOccurred())

		count := 0
		Expect(a.Reopen()).ToNot(HaveOccurred())
		for {
			status, _ := a.ReadDirectoryEntry()
			if status == libarc.StatusEnd {
				break
			}
			count++
		}
		Expect(count).To(Equal(2))
	})

	It("aggregates entries from two distinct sources without deduplicating across them", func() {
		a := libarc.NewArchive()
		Expect(a.Load(twoFileReader())).ToNot(HaveOccurred())
		Expect(a.Load(twoFileReader())).ToNot(HaveOccurred())

		count := 0
		Expect(a.Reopen()).ToNot(HaveOccurred())
		for {
			status, _ := a.ReadDirectoryEntry()
			if status == libarc.StatusEnd {
				break
			}
			count++
		}
		Expect(count).To(Equal(4))
	})

	It("OpenFile and OpenByID both read back the imported file's content", func() {
		src := twoFileReader()
		a := libarc.NewArchive()
		Expect(a.Load(src)).ToNot(HaveOccurred())

		status, derr := a.ReadDirectoryEntry()
		Expect(derr).ToNot(HaveOccurred())
		Expect(status).To(Equal(libarc.StatusOK))
		tok := a.Token()
		id := a.Entry().ID

		s, err := a.OpenFile(tok, libarc.OpenOptions{})
		Expect(err).ToNot(HaveOccurred())
		content, rerr := io.ReadAll(streamReaderAdapter{s})
		Expect(rerr).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("alpha"))

		s2, err := a.OpenByID(id, libarc.OpenOptions{})
		Expect(err).ToNot(HaveOccurred())
		content2, rerr := io.ReadAll(streamReaderAdapter{s2})
		Expect(rerr).ToNot(HaveOccurred())
		Expect(string(content2)).To(Equal("alpha"))
	})

	It("rejects Open, since an in-memory aggregate only replays what Load imported", func() {
		a := libarc.NewArchive()
		_, err := a.Open("a.txt")
		Expect(err).To(HaveOccurred())
		Expect(err.HasCode(libarc.ErrorOpenDisallowed)).To(BeTrue())
	})
})
