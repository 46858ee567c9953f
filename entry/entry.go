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

// Package entry holds the archive-format-agnostic directory entry model
// shared between package ziparchive and package
// archivefs, so neither has to import the other.
package entry

import "time"

// Well-known property dictionary keys.
const (
	PropModificationTime     = "modificationTime"
	PropCRC32                = "crc32"
	PropCompressionMethod    = "compressionMethod"
	PropComment              = "comment"
	PropZipExternalAttribute = "zipExternalAttributes"
	PropZipInternalAttribute = "zipInternalAttributes"
	PropZipExtraData         = "zipExtraData"
)

const (
	CompressionDeflate = "Deflate"
	CompressionUnknown = "Unknown"
)

// DirectoryEntry is the logical metadata for one archived item:
// a UNIX-style path, directory flag, packed/unpacked sizes, an opaque
// per-archive identifier, and a string-keyed property dictionary.
type DirectoryEntry struct {
	Path         string
	IsDirectory  bool
	PackedSize   int64
	UnpackedSize int64
	ID           int64
	Properties   map[string]interface{}
}

// Get returns a property value and whether it was present.
func (d *DirectoryEntry) Get(key string) (interface{}, bool) {
	if d.Properties == nil {
		return nil, false
	}
	v, ok := d.Properties[key]
	return v, ok
}

// Set stores a property value, allocating the map on first use.
func (d *DirectoryEntry) Set(key string, value interface{}) {
	if d.Properties == nil {
		d.Properties = make(map[string]interface{})
	}
	d.Properties[key] = value
}

// ModificationTime reads the well-known modificationTime property, or the
// zero time if absent or of the wrong type.
func (d *DirectoryEntry) ModificationTime() time.Time {
	if v, ok := d.Get(PropModificationTime); ok {
		if t, ok2 := v.(time.Time); ok2 {
			return t
		}
	}
	return time.Time{}
}

// CRC32 reads the well-known crc32 property, or 0 if absent.
func (d *DirectoryEntry) CRC32() uint32 {
	if v, ok := d.Get(PropCRC32); ok {
		if c, ok2 := v.(uint32); ok2 {
			return c
		}
	}
	return 0
}

// Token is the opaque bundle sufficient to re-open a single archived file:
// local-header offset, compressed/uncompressed sizes, CRC-32, and
// compression method. Valid only until the archive is reopened.
type Token struct {
	Offset           int64
	CompressedSize   int64
	UncompressedSize int64
	CRC32            uint32
	Method           uint16
}

// Properties is the string-keyed dictionary returned by
// ArchiveReader.GetArchiveProperties.
type Properties map[string]interface{}
