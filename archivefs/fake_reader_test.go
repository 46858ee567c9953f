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
	libarc "github.com/nabbar/corestream/archivefs"
	liberr "github.com/nabbar/corestream/errors"
	libent "github.com/nabbar/corestream/entry"
	libstm "github.com/nabbar/corestream/stream"
)

// fakeFile is one entry known to a fakeReader: its metadata, reopen token
// and raw content.
type fakeFile struct {
	entry   libent.DirectoryEntry
	token   libent.Token
	content []byte
}

// fakeReader is a minimal in-memory ArchiveReader stand-in, used to exercise
// Archive and ArchiveFileSystem without depending on a concrete archive
// format's on-disk encoding.
type fakeReader struct {
	files    []fakeFile
	cursor   int
	props    libent.Properties
	lastOpts libarc.OpenOptions // options passed to the most recent OpenFile
}

func newFakeReader(files []fakeFile) *fakeReader {
	return &fakeReader{files: files, props: libent.Properties{"origin": "fake"}}
}

func (f *fakeReader) ReadDirectoryEntry() (libarc.ReadStatus, liberr.Error) {
	if f.cursor >= len(f.files) {
		return libarc.StatusEnd, nil
	}
	f.cursor++
	return libarc.StatusOK, nil
}

func (f *fakeReader) Entry() *libent.DirectoryEntry {
	if f.cursor == 0 || f.cursor > len(f.files) {
		return nil
	}
	return &f.files[f.cursor-1].entry
}

func (f *fakeReader) Token() libent.Token {
	if f.cursor == 0 || f.cursor > len(f.files) {
		return libent.Token{}
	}
	return f.files[f.cursor-1].token
}

func (f *fakeReader) DoFileContentsFollowDirectoryEntries() bool { return false }

func (f *fakeReader) OpenFile(tok libent.Token, opts libarc.OpenOptions) (libstm.Stream, liberr.Error) {
	f.lastOpts = opts
	for i := range f.files {
		if f.files[i].token == tok {
			return libstm.NewMemoryStreamFromBytes(f.files[i].content), nil
		}
	}
	return nil, libarc.ErrorNotFound.Error(nil)
}

func (f *fakeReader) CopyFile(tok libent.Token, dst libstm.Stream, opts libarc.OpenOptions) (int64, liberr.Error) {
	s, err := f.OpenFile(tok, opts)
	if err != nil {
		return 0, err
	}
	defer func() { _ = s.Close() }()
	return libstm.CopyFrom(dst, s, -1, nil)
}

func (f *fakeReader) GetArchiveProperties() libent.Properties { return f.props }

func (f *fakeReader) Reopen() liberr.Error {
	f.cursor = 0
	return nil
}
