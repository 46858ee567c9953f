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
	liberr "github.com/nabbar/corestream/errors"
	libent "github.com/nabbar/corestream/entry"
	libstm "github.com/nabbar/corestream/stream"
)

// ReadStatus mirrors ziparchive.Status so this package does not need to
// import ziparchive just to expose the same three-way enumeration result.
type ReadStatus int

const (
	StatusOK ReadStatus = iota
	StatusEnd
	StatusError
)

// OpenOptions is the options struct accepted by ArchiveReader.OpenFile.
type OpenOptions struct {
	DoNotDecompress bool
	DoNotVerifyCRC  bool
}

// ArchiveReader is the polymorphic archive enumeration interface
// implemented by the ZipAdapter and by Archive itself.
type ArchiveReader interface {
	ReadDirectoryEntry() (ReadStatus, liberr.Error)
	Entry() *libent.DirectoryEntry
	Token() libent.Token
	DoFileContentsFollowDirectoryEntries() bool
	OpenFile(tok libent.Token, opts OpenOptions) (libstm.Stream, liberr.Error)
	CopyFile(tok libent.Token, dst libstm.Stream, opts OpenOptions) (int64, liberr.Error)
	GetArchiveProperties() libent.Properties
	Reopen() liberr.Error
}

// copyFile is the shared CopyFile implementation: open the entry through r
// and drain it into dst.
func copyFile(r ArchiveReader, tok libent.Token, dst libstm.Stream, opts OpenOptions) (int64, liberr.Error) {
	s, err := r.OpenFile(tok, opts)
	if err != nil {
		return 0, err
	}

	n, cerr := libstm.CopyFrom(dst, s, -1, nil)
	if cerr != nil {
		_ = s.Close()
		return n, cerr
	}

	if clErr := s.Close(); clErr != nil {
		return n, liberr.Make(clErr)
	}
	return n, nil
}
