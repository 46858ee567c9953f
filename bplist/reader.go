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

package bplist

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	liberr "github.com/nabbar/corestream/errors"
	liblog "github.com/nabbar/corestream/logger"
	libstm "github.com/nabbar/corestream/stream"
	"golang.org/x/text/encoding/unicode"
)

const trailerSize = 32

// ReadOptions configures Read.
type ReadOptions struct {
	// Logger receives version-byte warnings (any minor version other than
	// bplist00 or bplist01). Defaults to a no-op logger.
	Logger liblog.Logger
}

type reader struct {
	buf      []byte // object area; buf[0] is absolute stream offset 8
	offsets  []uint64
	refSize  int
	built    map[int]*Value
	visiting *bitset.BitSet // marks in-progress object indices, for cycle detection
}

// Read parses a binary property list from src, which must be seekable and
// report a size. It validates the magic, reads the 32-byte trailer, loads
// the offset table, reads the whole object area in one pass, then
// materialises the object graph starting at the trailer's root index.
func Read(src libstm.Stream, opts ReadOptions) (*Value, liberr.Error) {
	log := liblog.OrNop(opts.Logger)

	size, err := src.Size()
	if err != nil {
		return nil, ErrorNotSeekable.Error(nil)
	}
	// Apple's own libraries write a zero-byte file for an empty dictionary;
	// treat that one shape of "too small to have a header" as valid rather
	// than a format error.
	if size == 0 {
		return NewDict(), nil
	}
	if size < 8+trailerSize {
		return nil, ErrorTrailerTooSmall.Error(nil)
	}

	magic := make([]byte, 8)
	if _, err := readAt(src, 0, magic); err != nil {
		return nil, err
	}
	if string(magic[:6]) != "bplist" {
		return nil, ErrorBadMagic.Error(nil)
	}
	// Only the major version byte ('0') is understood; a different major
	// version changes the object/trailer layout (future versions serialise
	// objects in place or add a size/CRC header) so it is a hard failure.
	// Minor versions '0' and '1' are both accepted silently; any other minor
	// version byte keeps the same layout, so parsing proceeds with a warning.
	if magic[6] != '0' {
		return nil, ErrorUnsupportedVersion.Error(nil)
	}
	if magic[7] != '0' && magic[7] != '1' {
		log.Warn().Str("magic", string(magic)).Msg("unsupported bplist minor version, attempting to read anyway")
	}

	tb := make([]byte, trailerSize)
	if _, err := readAt(src, size-trailerSize, tb); err != nil {
		return nil, err
	}

	offsetIntSize := int(tb[6])
	refSize := int(tb[7])
	numObjects := binary.BigEndian.Uint64(tb[8:16])
	topObject := binary.BigEndian.Uint64(tb[16:24])
	offsetTableOffset := binary.BigEndian.Uint64(tb[24:32])

	if offsetIntSize < 1 || offsetIntSize > 8 {
		return nil, ErrorOffsetSizeTooLarge.Error(nil)
	}
	if refSize < 1 || refSize > 8 {
		return nil, ErrorRefSizeTooLarge.Error(nil)
	}
	if offsetTableOffset < 8 || offsetTableOffset > uint64(size) {
		return nil, ErrorIndexOutOfRange.Error(nil)
	}

	objArea := make([]byte, offsetTableOffset-8)
	if len(objArea) > 0 {
		if _, err := readAt(src, 8, objArea); err != nil {
			return nil, err
		}
	}

	otb := make([]byte, int(numObjects)*offsetIntSize)
	if len(otb) > 0 {
		if _, err := readAt(src, int64(offsetTableOffset), otb); err != nil {
			return nil, err
		}
	}

	offsets := make([]uint64, numObjects)
	for i := range offsets {
		offsets[i] = readUintBE(otb[i*offsetIntSize : (i+1)*offsetIntSize])
	}

	r := &reader{
		buf:      objArea,
		offsets:  offsets,
		refSize:  refSize,
		built:    make(map[int]*Value),
		visiting: bitset.New(uint(numObjects)),
	}

	if topObject >= numObjects {
		return nil, ErrorIndexOutOfRange.Error(nil)
	}

	return r.object(int(topObject))
}

// readAt seeks src to off and fills p completely, treating a short read as
// a format error (truncated file).
func readAt(src libstm.Stream, off int64, p []byte) (int, liberr.Error) {
	if _, err := src.Seek(off, libstm.SeekStart); err != nil {
		return 0, err
	}
	total := 0
	for total < len(p) {
		n, err := src.ReadSome(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, ErrorTrailerTooSmall.Error(nil)
		}
	}
	return total, nil
}

func readUintBE(p []byte) uint64 {
	var v uint64
	for _, b := range p {
		v = v<<8 | uint64(b)
	}
	return v
}

func (r *reader) object(idx int) (*Value, liberr.Error) {
	if v, ok := r.built[idx]; ok {
		return v, nil
	}
	if idx < 0 || idx >= len(r.offsets) {
		return nil, ErrorIndexOutOfRange.Error(nil)
	}
	if r.visiting.Test(uint(idx)) {
		return nil, ErrorCycle.Error(nil)
	}

	pos := int64(r.offsets[idx]) - 8
	if pos < 0 || pos >= int64(len(r.buf)) {
		return nil, ErrorIndexOutOfRange.Error(nil)
	}

	r.visiting.Set(uint(idx))
	v, err := r.parseAt(int(pos))
	r.visiting.Clear(uint(idx))
	if err != nil {
		return nil, err
	}

	r.built[idx] = v
	return v, nil
}

// readLength decodes a type-marker's length nibble, resolving the 0x0F
// "extended length follows as an inline int object" escape. It returns the
// length and the number of extra bytes consumed from pos (on top of the
// one-byte marker already consumed by the caller).
func (r *reader) readLength(lo byte, pos int) (int64, int, liberr.Error) {
	if lo != 0x0F {
		return int64(lo), 0, nil
	}
	if pos >= len(r.buf) {
		return 0, 0, ErrorBadObjectMarker.Error(nil)
	}
	marker := r.buf[pos]
	if marker>>4 != 0x1 {
		return 0, 0, ErrorBadObjectMarker.Error(nil)
	}
	width := 1 << (marker & 0x0F)
	if pos+1+width > len(r.buf) {
		return 0, 0, ErrorBadObjectMarker.Error(nil)
	}
	n := readUintBE(r.buf[pos+1 : pos+1+width])
	return int64(n), 1 + width, nil
}

func (r *reader) parseAt(pos int) (*Value, liberr.Error) {
	if pos >= len(r.buf) {
		return nil, ErrorBadObjectMarker.Error(nil)
	}
	marker := r.buf[pos]
	hi := marker >> 4
	lo := marker & 0x0F

	switch hi {
	case 0x0:
		switch marker {
		case 0x00, 0x0F:
			return NewNull(), nil
		case 0x08:
			return NewBool(false), nil
		case 0x09:
			return NewBool(true), nil
		}
		return nil, ErrorBadObjectMarker.Error(nil)

	case 0x1: // int: 2^lo bytes
		width := 1 << lo
		if pos+1+width > len(r.buf) {
			return nil, ErrorBadObjectMarker.Error(nil)
		}
		return NewInt(int64(readUintBE(r.buf[pos+1 : pos+1+width]))), nil

	case 0x2: // real
		width := 1 << lo
		if pos+1+width > len(r.buf) {
			return nil, ErrorBadObjectMarker.Error(nil)
		}
		raw := r.buf[pos+1 : pos+1+width]
		switch width {
		case 4:
			bits := uint32(readUintBE(raw))
			return NewReal(float64(math.Float32frombits(bits))), nil
		case 8:
			bits := readUintBE(raw)
			return NewReal(math.Float64frombits(bits)), nil
		}
		return nil, ErrorBadObjectMarker.Error(nil)

	case 0x3: // date: marker must be 0x33, 8-byte float64 seconds since 2001
		if marker != 0x33 || pos+9 > len(r.buf) {
			return nil, ErrorBadObjectMarker.Error(nil)
		}
		bits := readUintBE(r.buf[pos+1 : pos+9])
		return NewDate(secondsToDate(math.Float64frombits(bits))), nil

	case 0x4: // data
		length, consumed, err := r.readLength(lo, pos+1)
		if err != nil {
			return nil, err
		}
		start := pos + 1 + consumed
		end := start + int(length)
		if end > len(r.buf) || length < 0 {
			return nil, ErrorBadObjectMarker.Error(nil)
		}
		return NewData(r.buf[start:end]), nil

	case 0x5: // ASCII string
		length, consumed, err := r.readLength(lo, pos+1)
		if err != nil {
			return nil, err
		}
		start := pos + 1 + consumed
		end := start + int(length)
		if end > len(r.buf) || length < 0 {
			return nil, ErrorBadObjectMarker.Error(nil)
		}
		return NewString(string(r.buf[start:end])), nil

	case 0x6: // UTF-16BE string, length in 16-bit code units
		length, consumed, err := r.readLength(lo, pos+1)
		if err != nil {
			return nil, err
		}
		start := pos + 1 + consumed
		end := start + int(length)*2
		if end > len(r.buf) || length < 0 {
			return nil, ErrorBadObjectMarker.Error(nil)
		}
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		out, uerr := dec.Bytes(r.buf[start:end])
		if uerr != nil {
			return nil, ErrorBadObjectMarker.Error(uerr)
		}
		return NewString(string(out)), nil

	case 0x8: // UID: lo+1 bytes
		width := int(lo) + 1
		if pos+1+width > len(r.buf) {
			return nil, ErrorBadObjectMarker.Error(nil)
		}
		return NewUID(readUintBE(r.buf[pos+1 : pos+1+width])), nil

	case 0xA, 0xB, 0xC: // array, ordered set, set (sets have no distinct Go representation here)
		count, consumed, err := r.readLength(lo, pos+1)
		if err != nil {
			return nil, err
		}
		start := pos + 1 + consumed
		end := start + int(count)*r.refSize
		if end > len(r.buf) || count < 0 {
			return nil, ErrorBadObjectMarker.Error(nil)
		}
		items := make([]*Value, count)
		for i := int64(0); i < count; i++ {
			ref := readUintBE(r.buf[start+int(i)*r.refSize : start+int(i+1)*r.refSize])
			child, err := r.object(int(ref))
			if err != nil {
				return nil, err
			}
			items[i] = child
		}
		return &Value{kind: KindArray, arr: items}, nil

	case 0xD: // dict
		count, consumed, err := r.readLength(lo, pos+1)
		if err != nil {
			return nil, err
		}
		keyStart := pos + 1 + consumed
		valStart := keyStart + int(count)*r.refSize
		end := valStart + int(count)*r.refSize
		if end > len(r.buf) || count < 0 {
			return nil, ErrorBadObjectMarker.Error(nil)
		}

		d := NewDict()
		for i := int64(0); i < count; i++ {
			kref := readUintBE(r.buf[keyStart+int(i)*r.refSize : keyStart+int(i+1)*r.refSize])
			vref := readUintBE(r.buf[valStart+int(i)*r.refSize : valStart+int(i+1)*r.refSize])

			kv, err := r.object(int(kref))
			if err != nil {
				return nil, err
			}
			key, ok := kv.String()
			if !ok {
				return nil, ErrorBadObjectMarker.Error(nil)
			}
			vv, err := r.object(int(vref))
			if err != nil {
				return nil, err
			}
			d.Put(key, vv)
		}
		return d, nil
	}

	return nil, ErrorBadObjectMarker.Error(badMarkerErr(marker))
}

// badMarkerErr carries the unrecognized type/length marker byte so a caller
// inspecting the parent chain sees the exact offending byte rather than
// just "invalid object type/length marker".
func badMarkerErr(marker byte) error {
	return fmt.Errorf("marker byte 0x%02x", marker)
}
