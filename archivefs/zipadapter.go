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
	libzip "github.com/nabbar/corestream/ziparchive"
)

// ZipAdapter wraps a *ziparchive.Reader as an ArchiveReader, translating its
// ZIP-specific status/options types to this package's archive-agnostic ones.
type ZipAdapter struct {
	r       *libzip.Reader
	comment string
}

// NewZipAdapter wraps r. comment is surfaced as the "comment" archive
// property (central-directory-level comment is not modeled by
// ziparchive.Reader today, so callers pass it in explicitly if known).
func NewZipAdapter(r *libzip.Reader, comment string) *ZipAdapter {
	return &ZipAdapter{r: r, comment: comment}
}

func (a *ZipAdapter) ReadDirectoryEntry() (ReadStatus, liberr.Error) {
	st, err := a.r.ReadDirectoryEntry()
	return ReadStatus(st), err
}

func (a *ZipAdapter) Entry() *libent.DirectoryEntry { return a.r.Entry() }

func (a *ZipAdapter) Token() libent.Token { return a.r.Token() }

func (a *ZipAdapter) DoFileContentsFollowDirectoryEntries() bool {
	return a.r.DoFileContentsFollowDirectoryEntries()
}

func (a *ZipAdapter) OpenFile(tok libent.Token, opts OpenOptions) (libstm.Stream, liberr.Error) {
	return a.r.OpenFile(tok, libzip.StreamOptions{
		DoNotDecompress: opts.DoNotDecompress,
		DoNotVerifyCRC:  opts.DoNotVerifyCRC,
	})
}

func (a *ZipAdapter) CopyFile(tok libent.Token, dst libstm.Stream, opts OpenOptions) (int64, liberr.Error) {
	return copyFile(a, tok, dst, opts)
}

func (a *ZipAdapter) GetArchiveProperties() libent.Properties {
	return libent.Properties{libent.PropComment: a.comment}
}

func (a *ZipAdapter) Reopen() liberr.Error { return a.r.Reopen() }
