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

package stream

import "encoding/binary"

// LE and BE are the two byte-order codecs used throughout the ZIP, gzip and
// binary property-list formats. They are thin renames of encoding/binary's
// LittleEndian/BigEndian so call sites in this module read in domain terms
// ("LE.Uint32") instead of the stdlib's generic ones.
var (
	LE = binary.LittleEndian
	BE = binary.BigEndian
)

// PutUint16LE, PutUint32LE and PutUint64LE append the little-endian encoding
// of v to dst and return the grown slice. ZIP records are little-endian
// throughout.
func PutUint16LE(dst []byte, v uint16) []byte {
	var b [2]byte
	LE.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func PutUint32LE(dst []byte, v uint32) []byte {
	var b [4]byte
	LE.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func PutUint64LE(dst []byte, v uint64) []byte {
	var b [8]byte
	LE.PutUint64(b[:], v)
	return append(dst, b[:]...)
}
