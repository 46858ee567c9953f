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
	"fmt"
	"sort"
	"strings"

	libent "github.com/nabbar/corestream/entry"
	liberr "github.com/nabbar/corestream/errors"
	libpool "github.com/nabbar/corestream/errors/pool"
	libstm "github.com/nabbar/corestream/stream"
)

// Options configures ArchiveFileSystem construction.
type Options struct {
	// Prefix restricts the view to entries under this path. A matching
	// prefix is stripped from every name unless KeepPrefix is set.
	Prefix         string
	KeepPrefix     bool
	IgnoreChecksum bool
	IgnoreCase     bool

	// Compare overrides the sort/search comparator; when nil, a
	// case-sensitive or case-insensitive byte comparison is used per
	// IgnoreCase.
	Compare func(a, b string) int
}

// FileProperties is the result struct populated by Test.
type FileProperties struct {
	Size        int64
	IsDirectory bool
	CRC32       uint32
	Method      string
}

type fsEntry struct {
	name string
	key  string // comparison key (lower-cased when IgnoreCase)
	de   *libent.DirectoryEntry
	tok  libent.Token
	src  ArchiveReader
}

// ArchiveFileSystem presents any ArchiveReader as a read-only filesystem:
// paths are normalised and sorted once at construction so Open/Test can
// binary-search.
type ArchiveFileSystem struct {
	opts    Options
	entries []fsEntry
}

// NewArchiveFileSystem enumerates src fully and builds the sorted index.
func NewArchiveFileSystem(src ArchiveReader, opts Options) (*ArchiveFileSystem, liberr.Error) {
	if err := src.Reopen(); err != nil {
		return nil, err
	}

	fs := &ArchiveFileSystem{opts: opts}

	for {
		status, err := src.ReadDirectoryEntry()
		if err != nil {
			return nil, err
		}
		if status == StatusEnd {
			break
		}
		if status == StatusError {
			return nil, ErrorNotFound.Error(nil)
		}

		de := src.Entry()
		name := tidy(de.Path)

		if opts.Prefix != "" {
			if !strings.HasPrefix(name, opts.Prefix) {
				continue
			}
			if !opts.KeepPrefix {
				name = strings.TrimPrefix(name, opts.Prefix)
				name = strings.TrimPrefix(name, "/")
			}
		}

		key := name
		if opts.IgnoreCase {
			key = strings.ToLower(key)
		}

		fs.entries = append(fs.entries, fsEntry{name: name, key: key, de: de, tok: src.Token(), src: src})
	}

	cmp := opts.Compare
	if cmp == nil {
		cmp = strings.Compare
	}
	sort.Slice(fs.entries, func(i, j int) bool {
		return cmp(fs.entries[i].key, fs.entries[j].key) < 0
	})

	return fs, nil
}

// tidy strips leading slashes and collapses "." and ".." path segments,
// on top of the zipformat.NormalizePath already applied by the archive
// reader itself.
func tidy(p string) string {
	p = strings.TrimLeft(p, "/")

	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

func (fs *ArchiveFileSystem) search(path string) (int, bool) {
	key := tidy(path)
	if fs.opts.IgnoreCase {
		key = strings.ToLower(key)
	}

	cmp := fs.opts.Compare
	if cmp == nil {
		cmp = strings.Compare
	}

	i := sort.Search(len(fs.entries), func(i int) bool {
		return cmp(fs.entries[i].key, key) >= 0
	})

	if i < len(fs.entries) && cmp(fs.entries[i].key, key) == 0 {
		return i, true
	}
	return -1, false
}

// Open binary-searches for path and returns a decoding Stream from the
// owning ArchiveReader. It fails for directories.
func (fs *ArchiveFileSystem) Open(path string) (libstm.Stream, liberr.Error) {
	idx, ok := fs.search(path)
	if !ok {
		return nil, ErrorNotFound.Error(nil)
	}

	e := fs.entries[idx]
	if e.de.IsDirectory {
		return nil, ErrorNotAFile.Error(nil)
	}

	return e.src.OpenFile(e.tok, OpenOptions{
		DoNotVerifyCRC: fs.opts.IgnoreChecksum,
	})
}

// Test reports whether path exists and fills out props. By construction,
// Test(path) returns true iff a subsequent Open(path) would succeed: both
// consult the same sorted index and directory flag.
func (fs *ArchiveFileSystem) Test(path string) (bool, FileProperties) {
	idx, ok := fs.search(path)
	if !ok {
		return false, FileProperties{}
	}

	e := fs.entries[idx]
	if e.de.IsDirectory {
		return false, FileProperties{IsDirectory: true}
	}

	method := libent.CompressionUnknown
	if v, ok := e.de.Get(libent.PropCompressionMethod); ok {
		if s, ok2 := v.(string); ok2 {
			method = s
		}
	}

	return true, FileProperties{
		Size:   e.de.UnpackedSize,
		CRC32:  e.de.CRC32(),
		Method: method,
	}
}

// ReadDirectory returns the entries whose normalised name starts with
// path + "/" and contains no further "/" beyond that prefix.
func (fs *ArchiveFileSystem) ReadDirectory(path string) []*libent.DirectoryEntry {
	prefix := tidy(path)
	if prefix != "" {
		prefix += "/"
	}

	var out []*libent.DirectoryEntry
	for _, e := range fs.entries {
		if !strings.HasPrefix(e.name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(e.name, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		out = append(out, e.de)
	}
	return out
}

// VerifyAll opens and fully decodes every non-directory entry, forcing the
// CRC-32 check each OpenFile already performs unless IgnoreChecksum is set.
// Unlike Open, which stops at the first failure, VerifyAll keeps going and
// returns every failure found, wrapped with the offending path, combined
// through a single error.
func (fs *ArchiveFileSystem) VerifyAll() liberr.Error {
	p := libpool.New()
	buf := make([]byte, 32*1024)

	for _, e := range fs.entries {
		if e.de.IsDirectory {
			continue
		}

		s, err := e.src.OpenFile(e.tok, OpenOptions{})
		if err != nil {
			p.Add(fmt.Errorf("%s: %w", e.name, err))
			continue
		}

		for {
			n, rerr := s.ReadSome(buf)
			if rerr != nil {
				if !rerr.HasCode(libstm.ErrorEOF) {
					p.Add(fmt.Errorf("%s: %w", e.name, rerr))
				}
				break
			}
			if n == 0 {
				break
			}
		}

		if cerr := s.Close(); cerr != nil {
			p.Add(fmt.Errorf("%s: %w", e.name, cerr))
		}
	}

	if err := p.Error(); err != nil {
		return ErrorVerificationFailed.Error(err)
	}
	return nil
}
