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

package ziparchive_test

import (
	"io"
	"time"

	libcmp "github.com/nabbar/corestream/compress"
	libstm "github.com/nabbar/corestream/stream"
	libzip "github.com/nabbar/corestream/ziparchive"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// buildArchive writes a two-entry archive (one stored, one deflated) with a
// trailing archive comment, exercising locateEndRecord's arithmetic check
// since the comment shifts the end record off the very last 22 bytes of
// the file.
func buildArchive(modTime time.Time) libstm.Stream {
	dst := libstm.NewMemoryStream()
	// BestCompression applies to both entries; CompressFileAndComputeCRC32
	// transparently falls back to storing raw whenever deflate would not
	// save space, so either entry's on-disk method is left for the reader
	// round trip below to discover rather than asserted here.
	w := libzip.NewWriter(dst, libzip.Options{CompressionLevel: libcmp.BestCompression})

	Expect(w.BeginFile("store.txt", nil, modTime)).ToNot(HaveOccurred())
	stored := []byte("stored content, no compression")
	src1 := libstm.NewMemoryStreamFromBytes(stored)
	_, _, _, err := w.CompressFileAndComputeCRC32(src1, int64(len(stored)), nil)
	Expect(err).ToNot(HaveOccurred())
	Expect(w.EndFile("")).ToNot(HaveOccurred())

	Expect(w.BeginFile("deflated.txt", nil, modTime)).ToNot(HaveOccurred())
	payload := []byte("deflated content deflated content deflated content deflated content")
	src2 := libstm.NewMemoryStreamFromBytes(payload)
	_, _, method, err := w.CompressFileAndComputeCRC32(src2, int64(len(payload)), nil)
	Expect(err).ToNot(HaveOccurred())
	Expect(method).To(BeElementOf(uint16(0), uint16(8)))
	Expect(w.EndFile("entry comment")).ToNot(HaveOccurred())

	w.SetArchiveComment("archive-level trailing comment")
	Expect(w.End()).ToNot(HaveOccurred())
	Expect(w.EntryCount()).To(Equal(2))

	return dst
}

var _ = Describe("ziparchive/Writer and Reader (random access)", func() {
	It("round-trips two entries through write then random-access read", func() {
		modTime := time.Date(2021, time.May, 17, 13, 30, 44, 0, time.UTC)
		dst := buildArchive(modTime)

		r, err := libzip.NewRandomAccessReader(dst)
		Expect(err).ToNot(HaveOccurred())

		var names []string
		for {
			status, serr := r.ReadDirectoryEntry()
			Expect(serr).ToNot(HaveOccurred())
			if status == libzip.StatusEnd {
				break
			}
			Expect(status).To(Equal(libzip.StatusOK))

			de := r.Entry()
			names = append(names, de.Path)

			payload, operr := r.OpenFile(r.Token(), libzip.StreamOptions{})
			Expect(operr).ToNot(HaveOccurred())

			content, rerr := io.ReadAll(streamReaderAdapter{payload})
			Expect(rerr).ToNot(HaveOccurred())

			switch de.Path {
			case "store.txt":
				Expect(string(content)).To(Equal("stored content, no compression"))
			case "deflated.txt":
				Expect(string(content)).To(Equal("deflated content deflated content deflated content deflated content"))
			}

			Expect(payload.Close()).ToNot(HaveOccurred())
		}

		Expect(names).To(ConsistOf("store.txt", "deflated.txt"))
	})

	It("re-enumerates after Reopen", func() {
		modTime := time.Date(2021, time.May, 17, 13, 30, 44, 0, time.UTC)
		dst := buildArchive(modTime)

		r, err := libzip.NewRandomAccessReader(dst)
		Expect(err).ToNot(HaveOccurred())

		count := 0
		for {
			status, _ := r.ReadDirectoryEntry()
			if status == libzip.StatusEnd {
				break
			}
			count++
		}
		Expect(count).To(Equal(2))

		Expect(r.Reopen()).ToNot(HaveOccurred())

		count = 0
		for {
			status, _ := r.ReadDirectoryEntry()
			if status == libzip.StatusEnd {
				break
			}
			count++
		}
		Expect(count).To(Equal(2))
	})
})

var _ = Describe("ziparchive/Reader (sequential)", func() {
	It("scans local headers in stream order without seeking", func() {
		modTime := time.Date(2021, time.May, 17, 13, 30, 44, 0, time.UTC)
		dst := buildArchive(modTime)
		_, serr := dst.Seek(0, libstm.SeekStart)
		Expect(serr).ToNot(HaveOccurred())

		r := libzip.NewSequentialReader(dst)
		Expect(r.DoFileContentsFollowDirectoryEntries()).To(BeTrue())

		status, err := r.ReadDirectoryEntry()
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(libzip.StatusOK))
		Expect(r.Entry().Path).To(Equal("store.txt"))

		payload, operr := r.OpenFile(r.Token(), libzip.StreamOptions{})
		Expect(operr).ToNot(HaveOccurred())
		content, rerr := io.ReadAll(streamReaderAdapter{payload})
		Expect(rerr).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("stored content, no compression"))
	})

	It("rejects non-zip input instead of silently reporting an empty archive", func() {
		src := libstm.NewMemoryStreamFromBytes([]byte("this is not a zip file at all"))

		r := libzip.NewSequentialReader(src)
		status, err := r.ReadDirectoryEntry()
		Expect(err).To(HaveOccurred())
		Expect(err.HasCode(libzip.ErrorLocalHeaderSignatureInvalid)).To(BeTrue())
		Expect(status).To(Equal(libzip.StatusError))
	})

	It("stops cleanly once scanning reaches the central directory", func() {
		modTime := time.Date(2021, time.May, 17, 13, 30, 44, 0, time.UTC)
		dst := buildArchive(modTime)
		_, serr := dst.Seek(0, libstm.SeekStart)
		Expect(serr).ToNot(HaveOccurred())

		r := libzip.NewSequentialReader(dst)
		count := 0
		for {
			status, err := r.ReadDirectoryEntry()
			Expect(err).ToNot(HaveOccurred())
			if status == libzip.StatusEnd {
				break
			}
			count++
			payload, operr := r.OpenFile(r.Token(), libzip.StreamOptions{DoNotDecompress: true, DoNotVerifyCRC: true})
			Expect(operr).ToNot(HaveOccurred())
			_, rerr := io.ReadAll(streamReaderAdapter{payload})
			Expect(rerr).ToNot(HaveOccurred())
		}
		Expect(count).To(Equal(2))
	})
})

// streamReaderAdapter exposes a stream.Stream as a stdlib io.Reader so tests
// can drive it with io.ReadAll.
type streamReaderAdapter struct {
	s libstm.Stream
}

func (a streamReaderAdapter) Read(p []byte) (int, error) {
	n, err := a.s.ReadSome(p)
	if err != nil {
		if err.HasCode(libstm.ErrorEOF) {
			return n, io.EOF
		}
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
