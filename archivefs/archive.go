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

package archivefs

import (
	"github.com/bits-and-blooms/bitset"

	liberr "github.com/nabbar/corestream/errors"
	libent "github.com/nabbar/corestream/entry"
	libstm "github.com/nabbar/corestream/stream"
)

// file pins a source ArchiveReader plus that reader's per-file directory
// entry and token, at the time it was imported by Load.
type file struct {
	src   ArchiveReader
	entry *libent.DirectoryEntry
	token libent.Token
}

// Archive is an in-memory ArchiveReader that aggregates entries imported
// from one or more other ArchiveReaders. Open is explicitly disallowed:
// an Archive only replays what Load already enumerated.
type Archive struct {
	files      []file
	properties libent.Properties
	cursor     int
	imported   map[ArchiveReader]*bitset.BitSet // per-source: which of src's own entry IDs are already in files
}

// NewArchive returns an empty aggregator.
func NewArchive() *Archive {
	return &Archive{properties: libent.Properties{}, imported: make(map[ArchiveReader]*bitset.BitSet)}
}

// Load imports every entry from src (rewound first via Reopen), assigning
// dense indices into this Archive's file list, and copies src's
// archive-level properties. Calling Load again with a source already
// loaded is idempotent: entries whose original ID was already imported
// from that source are skipped rather than duplicated.
func (a *Archive) Load(src ArchiveReader) liberr.Error {
	if err := src.Reopen(); err != nil {
		return err
	}

	seen, ok := a.imported[src]
	if !ok {
		seen = bitset.New(0)
		a.imported[src] = seen
	}

	for {
		status, err := src.ReadDirectoryEntry()
		if err != nil {
			return err
		}
		if status == StatusEnd {
			break
		}
		if status == StatusError {
			return ErrorNotFound.Error(nil)
		}

		e := src.Entry()
		tok := src.Token()

		if e.ID >= 0 && seen.Test(uint(e.ID)) {
			continue
		}
		if e.ID >= 0 {
			seen.Set(uint(e.ID))
		}

		imported := *e
		imported.ID = int64(len(a.files))

		a.files = append(a.files, file{src: src, entry: &imported, token: tok})
	}

	for k, v := range src.GetArchiveProperties() {
		a.properties[k] = v
	}

	return nil
}

func (a *Archive) ReadDirectoryEntry() (ReadStatus, liberr.Error) {
	if a.cursor >= len(a.files) {
		return StatusEnd, nil
	}
	a.cursor++
	return StatusOK, nil
}

func (a *Archive) Entry() *libent.DirectoryEntry {
	if a.cursor == 0 || a.cursor > len(a.files) {
		return nil
	}
	return a.files[a.cursor-1].entry
}

func (a *Archive) Token() libent.Token {
	if a.cursor == 0 || a.cursor > len(a.files) {
		return libent.Token{}
	}
	return a.files[a.cursor-1].token
}

func (a *Archive) DoFileContentsFollowDirectoryEntries() bool { return false }

// OpenFile delegates to the owning source reader for the imported file whose
// token equals tok.
func (a *Archive) OpenFile(tok libent.Token, opts OpenOptions) (libstm.Stream, liberr.Error) {
	for i := range a.files {
		if a.files[i].token == tok {
			return a.files[i].src.OpenFile(tok, opts)
		}
	}
	return nil, ErrorNotFound.Error(nil)
}

// OpenByID opens the file at dense index id directly, bypassing token
// matching (useful once the caller already holds an Entry().ID).
func (a *Archive) OpenByID(id int64, opts OpenOptions) (libstm.Stream, liberr.Error) {
	for i := range a.files {
		if a.files[i].entry.ID == id {
			return a.files[i].src.OpenFile(a.files[i].token, opts)
		}
	}
	return nil, ErrorNotFound.Error(nil)
}

// CopyFile opens the identified file through its owning source reader and
// drains it into dst.
func (a *Archive) CopyFile(tok libent.Token, dst libstm.Stream, opts OpenOptions) (int64, liberr.Error) {
	return copyFile(a, tok, dst, opts)
}

func (a *Archive) GetArchiveProperties() libent.Properties { return a.properties }

// Reopen resets the replay cursor to the start of the aggregate list.
func (a *Archive) Reopen() liberr.Error {
	a.cursor = 0
	return nil
}

// Open is disallowed on an in-memory aggregate: it only replays what
// Load already imported.
func (a *Archive) Open(path string) (libstm.Stream, liberr.Error) {
	return nil, ErrorOpenDisallowed.Error(nil)
}
