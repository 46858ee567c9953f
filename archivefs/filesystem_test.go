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
	"strings"

	libarc "github.com/nabbar/corestream/archivefs"
	libent "github.com/nabbar/corestream/entry"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func treeReader() *fakeReader {
	return newFakeReader([]fakeFile{
		{
			entry:   libent.DirectoryEntry{Path: "docs/readme.txt", ID: 0, UnpackedSize: 5},
			token:   libent.Token{Offset: 0, CRC32: 1},
			content: []byte("howdy"),
		},
		{
			entry:   libent.DirectoryEntry{Path: "docs/notes/a.txt", ID: 1, UnpackedSize: 3},
			token:   libent.Token{Offset: 1, CRC32: 2},
			content: []byte("abc"),
		},
		{
			entry:   libent.DirectoryEntry{Path: "docs/", ID: 2, IsDirectory: true},
			token:   libent.Token{Offset: 2},
			content: nil,
		},
		{
			entry:   libent.DirectoryEntry{Path: "ROOT.TXT", ID: 3, UnpackedSize: 4},
			token:   libent.Token{Offset: 3, CRC32: 3},
			content: []byte("root"),
		},
	})
}

var _ = Describe("archivefs/ArchiveFileSystem", func() {
	It("opens a file by its normalised path and reads back its content", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{})
		Expect(err).ToNot(HaveOccurred())

		s, operr := fs.Open("docs/readme.txt")
		Expect(operr).ToNot(HaveOccurred())
		content, rerr := io.ReadAll(streamReaderAdapter{s})
		Expect(rerr).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("howdy"))
	})

	It("reports Test() and Open() consistently for both files and directories", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{})
		Expect(err).ToNot(HaveOccurred())

		ok, props := fs.Test("docs/notes/a.txt")
		Expect(ok).To(BeTrue())
		Expect(props.IsDirectory).To(BeFalse())
		Expect(props.Size).To(Equal(int64(3)))

		_, operr := fs.Open("docs/notes/a.txt")
		Expect(operr).ToNot(HaveOccurred())

		ok, props = fs.Test("docs")
		Expect(ok).To(BeFalse())
		Expect(props.IsDirectory).To(BeTrue())

		_, operr = fs.Open("docs")
		Expect(operr).To(HaveOccurred())
		Expect(operr.HasCode(libarc.ErrorNotAFile)).To(BeTrue())
	})

	It("fails Test() and Open() for a path that was never imported", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{})
		Expect(err).ToNot(HaveOccurred())

		ok, _ := fs.Test("missing.txt")
		Expect(ok).To(BeFalse())

		_, operr := fs.Open("missing.txt")
		Expect(operr).To(HaveOccurred())
		Expect(operr.HasCode(libarc.ErrorNotFound)).To(BeTrue())
	})

	It("strips a matching Prefix by default", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{Prefix: "docs"})
		Expect(err).ToNot(HaveOccurred())

		ok, _ := fs.Test("readme.txt")
		Expect(ok).To(BeTrue())
		ok, _ = fs.Test("docs/readme.txt")
		Expect(ok).To(BeFalse())
	})

	It("keeps the Prefix in place when KeepPrefix is set", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{
			Prefix:     "docs",
			KeepPrefix: true,
		})
		Expect(err).ToNot(HaveOccurred())

		ok, _ := fs.Test("docs/readme.txt")
		Expect(ok).To(BeTrue())
		ok, _ = fs.Test("readme.txt")
		Expect(ok).To(BeFalse())
	})

	It("excludes entries that do not match Prefix", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{Prefix: "docs"})
		Expect(err).ToNot(HaveOccurred())

		ok, _ := fs.Test("ROOT.TXT")
		Expect(ok).To(BeFalse())
	})

	It("matches case-insensitively when IgnoreCase is set", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{IgnoreCase: true})
		Expect(err).ToNot(HaveOccurred())

		ok, _ := fs.Test("root.txt")
		Expect(ok).To(BeTrue())
	})

	It("is case-sensitive by default", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{})
		Expect(err).ToNot(HaveOccurred())

		ok, _ := fs.Test("root.txt")
		Expect(ok).To(BeFalse())
		ok, _ = fs.Test("ROOT.TXT")
		Expect(ok).To(BeTrue())
	})

	It("honours a custom Compare function for sorting and search", func() {
		reversed := func(a, b string) int { return strings.Compare(b, a) }
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{Compare: reversed})
		Expect(err).ToNot(HaveOccurred())

		ok, _ := fs.Test("ROOT.TXT")
		Expect(ok).To(BeTrue())
	})

	It("passes IgnoreChecksum through to OpenFile as DoNotVerifyCRC", func() {
		src := treeReader()
		fs, err := libarc.NewArchiveFileSystem(src, libarc.Options{IgnoreChecksum: true})
		Expect(err).ToNot(HaveOccurred())

		s, operr := fs.Open("docs/readme.txt")
		Expect(operr).ToNot(HaveOccurred())
		Expect(s).ToNot(BeNil())
		Expect(src.lastOpts.DoNotVerifyCRC).To(BeTrue())
	})

	It("lists only the immediate children of a directory", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{})
		Expect(err).ToNot(HaveOccurred())

		entries := fs.ReadDirectory("docs")
		var names []string
		for _, e := range entries {
			names = append(names, e.Path)
		}
		Expect(names).To(ConsistOf("docs/readme.txt"))
	})

	It("lists root-level entries when path is empty", func() {
		fs, err := libarc.NewArchiveFileSystem(treeReader(), libarc.Options{})
		Expect(err).ToNot(HaveOccurred())

		entries := fs.ReadDirectory("")
		var names []string
		for _, e := range entries {
			names = append(names, e.Path)
		}
		Expect(names).To(ConsistOf("ROOT.TXT", "docs/"))
	})
})
