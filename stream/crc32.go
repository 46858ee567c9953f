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

import "hash/crc32"

// Rolling is a CRC-32 accumulator matching both ZIP's and gzip's checksum
// (the IEEE polynomial, table-driven). No ecosystem alternative to the
// standard library table here buys anything: hash/crc32 already is the
// table-driven rolling checksum this needs.
type Rolling struct {
	crc uint32
}

// NewRolling returns a zeroed CRC-32/IEEE accumulator.
func NewRolling() *Rolling {
	return &Rolling{}
}

func (r *Rolling) Reset() {
	r.crc = 0
}

func (r *Rolling) Write(p []byte) (int, error) {
	r.crc = crc32.Update(r.crc, crc32.IEEETable, p)
	return len(p), nil
}

func (r *Rolling) Sum32() uint32 {
	return r.crc
}

// CRC32 computes the CRC-32/IEEE checksum of p in one call.
func CRC32(p []byte) uint32 {
	return crc32.ChecksumIEEE(p)
}
