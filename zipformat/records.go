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

package zipformat

import (
	liberr "github.com/nabbar/corestream/errors"
	libstm "github.com/nabbar/corestream/stream"
)

const (
	LocalSignature   uint32 = 0x04034b50
	CentralSignature uint32 = 0x02014b50
	EndSignature     uint32 = 0x06054b50

	LocalFixedSize   = 30
	CentralFixedSize = 46
	EndFixedSize     = 22

	MethodStore   uint16 = 0
	MethodDeflate uint16 = 8

	flagDataDescriptor uint16 = 1 << 3
)

// LocalDirectoryEntry is the 30-byte fixed head preceding a file's
// compressed payload, plus its variable-length filename and
// extra field.
type LocalDirectoryEntry struct {
	ExtractVersion   uint16
	Flags            uint16
	Method           uint16
	ModTime          uint16
	ModDate          uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Filename         string
	Extra            []byte
}

// Size returns the total on-disk size of the encoded record.
func (e *LocalDirectoryEntry) Size() int {
	return LocalFixedSize + len(e.Filename) + len(e.Extra)
}

// Encode appends the little-endian byte representation of e to dst.
func (e *LocalDirectoryEntry) Encode(dst []byte) []byte {
	dst = libstm.PutUint32LE(dst, LocalSignature)
	dst = libstm.PutUint16LE(dst, e.ExtractVersion)
	dst = libstm.PutUint16LE(dst, e.Flags)
	dst = libstm.PutUint16LE(dst, e.Method)
	dst = libstm.PutUint16LE(dst, e.ModTime)
	dst = libstm.PutUint16LE(dst, e.ModDate)
	dst = libstm.PutUint32LE(dst, e.CRC32)
	dst = libstm.PutUint32LE(dst, e.CompressedSize)
	dst = libstm.PutUint32LE(dst, e.UncompressedSize)
	dst = libstm.PutUint16LE(dst, uint16(len(e.Filename)))
	dst = libstm.PutUint16LE(dst, uint16(len(e.Extra)))
	dst = append(dst, e.Filename...)
	dst = append(dst, e.Extra...)
	return dst
}

// DecodeLocalDirectoryEntry parses the fixed local header in head (which must
// be at least LocalFixedSize bytes); the filename/extra tail is not parsed
// here and must be read separately using FilenameLen and ExtraLen.
func DecodeLocalDirectoryEntry(head []byte) (*LocalDirectoryEntry, liberr.Error) {
	if len(head) < LocalFixedSize {
		return nil, ErrorRecordTooShort.Error(nil)
	}
	if libstm.LE.Uint32(head[0:4]) != LocalSignature {
		return nil, ErrorSignatureMismatch.Error(nil)
	}

	e := &LocalDirectoryEntry{
		ExtractVersion:   libstm.LE.Uint16(head[4:6]),
		Flags:            libstm.LE.Uint16(head[6:8]),
		Method:           libstm.LE.Uint16(head[8:10]),
		ModTime:          libstm.LE.Uint16(head[10:12]),
		ModDate:          libstm.LE.Uint16(head[12:14]),
		CRC32:            libstm.LE.Uint32(head[14:18]),
		CompressedSize:   libstm.LE.Uint32(head[18:22]),
		UncompressedSize: libstm.LE.Uint32(head[22:26]),
	}

	if e.Flags&flagDataDescriptor != 0 {
		return nil, ErrorDataDescriptorUnsupported.Error(nil)
	}
	if e.Method != MethodStore && e.Method != MethodDeflate {
		return nil, ErrorMethodUnsupported.Error(nil)
	}

	return e, nil
}

// FilenameLen/ExtraLen read the variable-length tail sizes out of a decoded
// fixed head, before the tail itself has been read from the stream.
func FilenameLen(head []byte) int { return int(libstm.LE.Uint16(head[26:28])) }
func ExtraLen(head []byte) int    { return int(libstm.LE.Uint16(head[28:30])) }

// CentralDirectoryEntry is the 46-byte fixed head of one central-directory
// record: a superset of LocalDirectoryEntry's fields plus
// made-by version, comment, starting disk, attributes and the local
// header's relative offset.
type CentralDirectoryEntry struct {
	MadeByVersion      uint16
	ExtractVersion     uint16
	Flags              uint16
	Method             uint16
	ModTime            uint16
	ModDate            uint16
	CRC32              uint32
	CompressedSize     uint32
	UncompressedSize   uint32
	StartDisk          uint16
	InternalAttributes uint16
	ExternalAttributes uint32
	LocalHeaderOffset  uint32
	Filename           string
	Extra              []byte
	Comment            string
}

func (e *CentralDirectoryEntry) Size() int {
	return CentralFixedSize + len(e.Filename) + len(e.Extra) + len(e.Comment)
}

func (e *CentralDirectoryEntry) Encode(dst []byte) []byte {
	dst = libstm.PutUint32LE(dst, CentralSignature)
	dst = libstm.PutUint16LE(dst, e.MadeByVersion)
	dst = libstm.PutUint16LE(dst, e.ExtractVersion)
	dst = libstm.PutUint16LE(dst, e.Flags)
	dst = libstm.PutUint16LE(dst, e.Method)
	dst = libstm.PutUint16LE(dst, e.ModTime)
	dst = libstm.PutUint16LE(dst, e.ModDate)
	dst = libstm.PutUint32LE(dst, e.CRC32)
	dst = libstm.PutUint32LE(dst, e.CompressedSize)
	dst = libstm.PutUint32LE(dst, e.UncompressedSize)
	dst = libstm.PutUint16LE(dst, uint16(len(e.Filename)))
	dst = libstm.PutUint16LE(dst, uint16(len(e.Extra)))
	dst = libstm.PutUint16LE(dst, uint16(len(e.Comment)))
	dst = libstm.PutUint16LE(dst, e.StartDisk)
	dst = libstm.PutUint16LE(dst, e.InternalAttributes)
	dst = libstm.PutUint32LE(dst, e.ExternalAttributes)
	dst = libstm.PutUint32LE(dst, e.LocalHeaderOffset)
	dst = append(dst, e.Filename...)
	dst = append(dst, e.Extra...)
	dst = append(dst, e.Comment...)
	return dst
}

// DecodeCentralDirectoryEntry parses a central-directory fixed head (46
// bytes). The variable-length tail must be read separately using the
// lengths returned by CentralFilenameLen/CentralExtraLen/CentralCommentLen.
func DecodeCentralDirectoryEntry(head []byte) (*CentralDirectoryEntry, liberr.Error) {
	if len(head) < CentralFixedSize {
		return nil, ErrorRecordTooShort.Error(nil)
	}
	if libstm.LE.Uint32(head[0:4]) != CentralSignature {
		return nil, ErrorSignatureMismatch.Error(nil)
	}

	e := &CentralDirectoryEntry{
		MadeByVersion:      libstm.LE.Uint16(head[4:6]),
		ExtractVersion:     libstm.LE.Uint16(head[6:8]),
		Flags:              libstm.LE.Uint16(head[8:10]),
		Method:             libstm.LE.Uint16(head[10:12]),
		ModTime:            libstm.LE.Uint16(head[12:14]),
		ModDate:            libstm.LE.Uint16(head[14:16]),
		CRC32:              libstm.LE.Uint32(head[16:20]),
		CompressedSize:     libstm.LE.Uint32(head[20:24]),
		UncompressedSize:   libstm.LE.Uint32(head[24:28]),
		StartDisk:          libstm.LE.Uint16(head[32:34]),
		InternalAttributes: libstm.LE.Uint16(head[34:36]),
		ExternalAttributes: libstm.LE.Uint32(head[36:40]),
		LocalHeaderOffset:  libstm.LE.Uint32(head[40:44]),
	}

	if e.Flags&flagDataDescriptor != 0 {
		return nil, ErrorDataDescriptorUnsupported.Error(nil)
	}
	if e.StartDisk != 0 {
		return nil, ErrorStartDiskNotZero.Error(nil)
	}
	if e.Method != MethodStore && e.Method != MethodDeflate {
		return nil, ErrorMethodUnsupported.Error(nil)
	}

	return e, nil
}

func CentralFilenameLen(head []byte) int { return int(libstm.LE.Uint16(head[28:30])) }
func CentralExtraLen(head []byte) int    { return int(libstm.LE.Uint16(head[30:32])) }
func CentralCommentLen(head []byte) int  { return int(libstm.LE.Uint16(head[44:46])) }

// EndRecord is the 22-byte fixed end-of-central-directory record, plus
// the archive comment tail.
type EndRecord struct {
	ThisDisk          uint16
	CentralDirDisk    uint16
	EntriesOnThisDisk uint16
	EntriesTotal      uint16
	CentralDirSize    uint32
	CentralDirOffset  uint32
	Comment           string
}

func (e *EndRecord) Size() int { return EndFixedSize + len(e.Comment) }

func (e *EndRecord) Encode(dst []byte) []byte {
	dst = libstm.PutUint32LE(dst, EndSignature)
	dst = libstm.PutUint16LE(dst, e.ThisDisk)
	dst = libstm.PutUint16LE(dst, e.CentralDirDisk)
	dst = libstm.PutUint16LE(dst, e.EntriesOnThisDisk)
	dst = libstm.PutUint16LE(dst, e.EntriesTotal)
	dst = libstm.PutUint32LE(dst, e.CentralDirSize)
	dst = libstm.PutUint32LE(dst, e.CentralDirOffset)
	dst = libstm.PutUint16LE(dst, uint16(len(e.Comment)))
	dst = append(dst, e.Comment...)
	return dst
}

// DecodeEndRecord parses the 22-byte fixed head; the comment must be read
// separately using EndCommentLen once the record's location is known.
func DecodeEndRecord(head []byte) (*EndRecord, liberr.Error) {
	if len(head) < EndFixedSize {
		return nil, ErrorRecordTooShort.Error(nil)
	}
	if libstm.LE.Uint32(head[0:4]) != EndSignature {
		return nil, ErrorSignatureMismatch.Error(nil)
	}

	e := &EndRecord{
		ThisDisk:          libstm.LE.Uint16(head[4:6]),
		CentralDirDisk:    libstm.LE.Uint16(head[6:8]),
		EntriesOnThisDisk: libstm.LE.Uint16(head[8:10]),
		EntriesTotal:      libstm.LE.Uint16(head[10:12]),
		CentralDirSize:    libstm.LE.Uint32(head[12:16]),
		CentralDirOffset:  libstm.LE.Uint32(head[16:20]),
	}

	if e.EntriesOnThisDisk != e.EntriesTotal {
		return nil, ErrorEntryCountMismatch.Error(nil)
	}

	return e, nil
}

func EndCommentLen(head []byte) int { return int(libstm.LE.Uint16(head[20:22])) }
