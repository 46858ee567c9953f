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

package ziparchive

import (
	"hash/crc32"

	"github.com/nabbar/corestream/compress"
	libent "github.com/nabbar/corestream/entry"
	liberr "github.com/nabbar/corestream/errors"
	libhsh "github.com/nabbar/corestream/hashstream"
	libstm "github.com/nabbar/corestream/stream"
	libfmt "github.com/nabbar/corestream/zipformat"
)

// Status is the outcome of one ReadDirectoryEntry call.
type Status int

const (
	StatusOK Status = iota
	StatusEnd
	StatusError
)

const maxCommentSearch = 22 + 0xffff

// StreamOptions holds the flags that disable decompression and/or CRC
// verification when opening an entry.
type StreamOptions struct {
	DoNotDecompress bool
	DoNotVerifyCRC  bool
}

// Reader is a seekable (random-access) or sequential ZIP archive scanner.
type Reader struct {
	src        libstm.Stream
	sequential bool

	zipOffset      int64 // delta between stored and actual central-directory offset (SFX tolerance)
	centralEntries []*libfmt.CentralDirectoryEntry
	centralIndex   int

	current      *libent.DirectoryEntry
	currentToken libent.Token

	finished          bool
	seqIndex          int64
	pendingDataOffset int64
	pendingDataEnd    int64
	pendingRemain     int64
	pendingOpened     bool
}

// NewSequentialReader scans local headers in stream order without seeking,
// usable over a non-seekable transport. Callers must fully consume each
// entry's Stream (via OpenFile) before calling ReadDirectoryEntry again.
func NewSequentialReader(src libstm.Stream) *Reader {
	return &Reader{src: src, sequential: true}
}

// NewRandomAccessReader requires a seekable, sized stream. It locates the
// end-of-central-directory record by scanning the tail for its signature
// and parses the whole central directory up front.
func NewRandomAccessReader(src libstm.Stream) (*Reader, liberr.Error) {
	size, err := src.Size()
	if err != nil {
		return nil, ErrorNotSeekableForRandomAccess.Error(err)
	}

	end, erec, ferr := locateEndRecord(src, size)
	if ferr != nil {
		return nil, ferr
	}

	actualCDStart := end - int64(erec.CentralDirSize)
	zipOffset := actualCDStart - int64(erec.CentralDirOffset)

	r := &Reader{src: src, sequential: false, zipOffset: zipOffset}

	if _, serr := src.Seek(actualCDStart, libstm.SeekStart); serr != nil {
		return nil, ErrorNotSeekableForRandomAccess.Error(serr)
	}

	for i := 0; i < int(erec.EntriesTotal); i++ {
		head, herr := readFull(src, libfmt.CentralFixedSize)
		if herr != nil {
			return nil, herr
		}
		cde, derr := libfmt.DecodeCentralDirectoryEntry(head)
		if derr != nil {
			return nil, derr
		}

		fnLen := libfmt.CentralFilenameLen(head)
		exLen := libfmt.CentralExtraLen(head)
		cmLen := libfmt.CentralCommentLen(head)

		if fnLen > 0 {
			name, nerr := readFull(src, fnLen)
			if nerr != nil {
				return nil, nerr
			}
			cde.Filename = string(name)
		}
		if exLen > 0 {
			extra, eerr := readFull(src, exLen)
			if eerr != nil {
				return nil, eerr
			}
			cde.Extra = extra
		}
		if cmLen > 0 {
			comment, cerr := readFull(src, cmLen)
			if cerr != nil {
				return nil, cerr
			}
			cde.Comment = string(comment)
		}

		r.centralEntries = append(r.centralEntries, cde)
	}

	return r, nil
}

// locateEndRecord scans backward from the tail of the stream for the
// end-of-central-directory signature, validating that
// end_offset + 22 + comment_length == file_size.
func locateEndRecord(src libstm.Stream, size int64) (int64, *libfmt.EndRecord, liberr.Error) {
	window := int64(maxCommentSearch)
	if window > size {
		window = size
	}

	tailStart := size - window
	if _, err := src.Seek(tailStart, libstm.SeekStart); err != nil {
		return 0, nil, ErrorNotSeekableForRandomAccess.Error(err)
	}

	tail, err := readFull(src, int(window))
	if err != nil {
		return 0, nil, err
	}

	for i := len(tail) - libfmt.EndFixedSize; i >= 0; i-- {
		if libstm.LE.Uint32(tail[i:i+4]) != libfmt.EndSignature {
			continue
		}

		head := tail[i : i+libfmt.EndFixedSize]
		erec, derr := libfmt.DecodeEndRecord(head)
		if derr != nil {
			continue
		}

		commentLen := libfmt.EndCommentLen(head)
		endOffset := tailStart + int64(i)

		if endOffset+int64(libfmt.EndFixedSize)+int64(commentLen) != size {
			continue
		}

		if i+libfmt.EndFixedSize+commentLen <= len(tail) {
			erec.Comment = string(tail[i+libfmt.EndFixedSize : i+libfmt.EndFixedSize+commentLen])
		}

		return endOffset, erec, nil
	}

	return 0, nil, libfmt.ErrorEndRecordNotFound.Error(nil)
}

func readFull(s libstm.Stream, n int) ([]byte, liberr.Error) {
	buf := make([]byte, n)
	read := 0
	for read < n {
		k, err := s.ReadSome(buf[read:])
		read += k
		if err != nil {
			return nil, err
		}
		if k == 0 {
			return nil, libstm.ErrorEOF.Error(nil)
		}
	}
	return buf, nil
}

// ReadDirectoryEntry advances the scanner by one entry.
func (r *Reader) ReadDirectoryEntry() (Status, liberr.Error) {
	if r.finished {
		return StatusEnd, nil
	}

	if r.sequential {
		return r.readLocalEntry()
	}
	return r.readCentralEntry()
}

func (r *Reader) readLocalEntry() (Status, liberr.Error) {
	if err := r.skipPendingPayload(); err != nil {
		return StatusError, err
	}

	sig, err := readFull(r.src, 4)
	if err != nil {
		if err.HasCode(libstm.ErrorEOF) {
			r.finished = true
			return StatusEnd, nil
		}
		return StatusError, err
	}

	switch libstm.LE.Uint32(sig) {
	case libfmt.LocalSignature:
		// fall through to decode the local header below
	case libfmt.CentralSignature, libfmt.EndSignature:
		// Sequential scanning has run off the last local entry onto the
		// central directory or end record: a normal, expected stopping
		// point, not an error.
		r.finished = true
		return StatusEnd, nil
	default:
		// Neither a local header nor a recognised trailing record: the
		// stream is not positioned on zip data at all.
		r.finished = true
		return StatusError, ErrorLocalHeaderSignatureInvalid.Error(nil)
	}

	rest, err := readFull(r.src, libfmt.LocalFixedSize-4)
	if err != nil {
		return StatusError, err
	}

	head := append(append([]byte{}, sig...), rest...)
	lde, derr := libfmt.DecodeLocalDirectoryEntry(head)
	if derr != nil {
		return StatusError, derr
	}

	fnLen := libfmt.FilenameLen(head)
	exLen := libfmt.ExtraLen(head)

	var name []byte
	if fnLen > 0 {
		name, err = readFull(r.src, fnLen)
		if err != nil {
			return StatusError, err
		}
	}
	if exLen > 0 {
		if _, err = readFull(r.src, exLen); err != nil {
			return StatusError, err
		}
	}

	path := libfmt.NormalizePath(string(name))

	de := &libent.DirectoryEntry{
		Path:         path,
		IsDirectory:  libfmt.IsDirectory(path, 0),
		PackedSize:   int64(lde.CompressedSize),
		UnpackedSize: int64(lde.UncompressedSize),
		ID:           r.seqIndex,
	}
	r.seqIndex++
	de.Set(libent.PropCRC32, lde.CRC32)
	de.Set(libent.PropModificationTime, libfmt.DecodeDOSTime(lde.ModDate, lde.ModTime))
	if lde.Method == libfmt.MethodDeflate {
		de.Set(libent.PropCompressionMethod, libent.CompressionDeflate)
	}

	r.current = de
	r.currentToken = libent.Token{
		CompressedSize:   int64(lde.CompressedSize),
		UncompressedSize: int64(lde.UncompressedSize),
		CRC32:            lde.CRC32,
		Method:           lde.Method,
	}
	r.pendingDataOffset = r.src.Offset()
	r.pendingDataEnd = r.pendingDataOffset + int64(lde.CompressedSize)
	r.pendingRemain = int64(lde.CompressedSize)
	r.pendingOpened = false

	return StatusOK, nil
}

// skipPendingPayload advances past the previous entry's compressed payload
// when the caller iterated on without opening it, so the next local header
// is parsed from the right position. On a non-seekable transport an opened
// entry must have been fully consumed by the caller; only unopened payloads
// are drained here.
func (r *Reader) skipPendingPayload() liberr.Error {
	remain := r.pendingRemain
	end := r.pendingDataEnd
	opened := r.pendingOpened
	r.pendingDataOffset, r.pendingDataEnd, r.pendingRemain = 0, 0, 0
	r.pendingOpened = false

	if remain == 0 && end == 0 {
		return nil
	}

	if cur := r.src.Offset(); cur >= 0 {
		if cur >= end {
			return nil
		}
		if _, err := r.src.Seek(end, libstm.SeekStart); err != nil {
			return err
		}
		return nil
	}

	if opened {
		return nil
	}

	var scratch [32 * 1024]byte
	for remain > 0 {
		chunk := scratch[:]
		if remain < int64(len(chunk)) {
			chunk = chunk[:remain]
		}
		n, err := r.src.ReadSome(chunk)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		remain -= int64(n)
	}
	return nil
}

func (r *Reader) readCentralEntry() (Status, liberr.Error) {
	if r.centralIndex >= len(r.centralEntries) {
		r.finished = true
		return StatusEnd, nil
	}

	cde := r.centralEntries[r.centralIndex]
	r.centralIndex++

	path := libfmt.NormalizePath(cde.Filename)
	de := &libent.DirectoryEntry{
		Path:         path,
		IsDirectory:  libfmt.IsDirectory(path, cde.ExternalAttributes),
		PackedSize:   int64(cde.CompressedSize),
		UnpackedSize: int64(cde.UncompressedSize),
		ID:           int64(r.centralIndex - 1),
	}
	de.Set(libent.PropCRC32, cde.CRC32)
	de.Set(libent.PropModificationTime, libfmt.DecodeDOSTime(cde.ModDate, cde.ModTime))
	de.Set(libent.PropZipExternalAttribute, cde.ExternalAttributes)
	de.Set(libent.PropZipInternalAttribute, cde.InternalAttributes)
	if len(cde.Extra) > 0 {
		de.Set(libent.PropZipExtraData, cde.Extra)
	}
	if cde.Comment != "" {
		de.Set(libent.PropComment, cde.Comment)
	}
	if cde.Method == libfmt.MethodDeflate {
		de.Set(libent.PropCompressionMethod, libent.CompressionDeflate)
	}

	r.current = de
	r.currentToken = libent.Token{
		Offset:           int64(cde.LocalHeaderOffset),
		CompressedSize:   int64(cde.CompressedSize),
		UncompressedSize: int64(cde.UncompressedSize),
		CRC32:            cde.CRC32,
		Method:           cde.Method,
	}

	return StatusOK, nil
}

// Entry returns the directory entry produced by the last StatusOK result.
func (r *Reader) Entry() *libent.DirectoryEntry { return r.current }

// Token returns the reopen token for the last StatusOK result.
func (r *Reader) Token() libent.Token { return r.currentToken }

// DoFileContentsFollowDirectoryEntries reports whether reading is safe in
// stream order without seeking (true only for sequential mode).
func (r *Reader) DoFileContentsFollowDirectoryEntries() bool { return r.sequential }

// OpenFile re-opens the archived file addressed by tok as a decompressing,
// checksum-verifying Stream.
func (r *Reader) OpenFile(tok libent.Token, opts StreamOptions) (libstm.Stream, liberr.Error) {
	var dataOffset int64

	if r.sequential {
		dataOffset = r.pendingDataOffset
		r.pendingOpened = true
	} else {
		headerStart := r.zipOffset + tok.Offset
		if _, err := r.src.Seek(headerStart, libstm.SeekStart); err != nil {
			return nil, ErrorTokenInvalid.Error(err)
		}

		head, err := readFull(r.src, libfmt.LocalFixedSize)
		if err != nil {
			return nil, err
		}
		if _, derr := libfmt.DecodeLocalDirectoryEntry(head); derr != nil {
			return nil, derr
		}

		fnLen := libfmt.FilenameLen(head)
		exLen := libfmt.ExtraLen(head)
		if fnLen+exLen > 0 {
			if _, err = readFull(r.src, fnLen+exLen); err != nil {
				return nil, err
			}
		}

		dataOffset = headerStart + int64(libfmt.LocalFixedSize) + int64(fnLen) + int64(exLen)
	}

	sub, err := libstm.NewSubStream(r.src, dataOffset, tok.CompressedSize)
	if err != nil {
		return nil, err
	}

	var payload libstm.Stream = sub

	if !opts.DoNotDecompress {
		switch tok.Method {
		case libfmt.MethodStore:
			// payload already raw
		case libfmt.MethodDeflate:
			payload = compress.InflateStreamSize(sub, tok.UncompressedSize)
		default:
			return nil, libfmt.ErrorMethodUnsupported.Error(nil)
		}
	}

	// The stored CRC covers the uncompressed data, so verification is only
	// meaningful when the returned bytes are the uncompressed ones.
	if !opts.DoNotVerifyCRC && (!opts.DoNotDecompress || tok.Method == libfmt.MethodStore) {
		payload = libhsh.NewReader(payload, crc32.NewIEEE(), tok.CRC32, tok.UncompressedSize)
	}

	return payload, nil
}

// Reopen resets the scanner cursor to the start of the directory, as
// required before a second enumeration pass under the ArchiveReader
// contract.
func (r *Reader) Reopen() liberr.Error {
	r.finished = false
	r.current = nil
	if r.sequential {
		if _, err := r.src.Seek(0, libstm.SeekStart); err != nil {
			return ErrorNotOpened.Error(err)
		}
		r.seqIndex = 0
		r.pendingDataOffset, r.pendingDataEnd, r.pendingRemain = 0, 0, 0
		r.pendingOpened = false
		return nil
	}
	r.centralIndex = 0
	return nil
}
