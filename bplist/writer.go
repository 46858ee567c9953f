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
	"time"

	liberr "github.com/nabbar/corestream/errors"
	libstm "github.com/nabbar/corestream/stream"
	"golang.org/x/text/encoding/unicode"
)

// object is one entry of the writer's flattened, insertion-ordered object
// table. Container payloads are stored as child-index lists using 64-bit
// placeholders; Write narrows them to the solved reference width in the
// final emission pass.
type object struct {
	kind     Kind
	children []int // dict: keys and values interleaved as [k0,v0,k1,v1,...]; array: items
}

type writer struct {
	objects []object
	index   map[string]int // dedup key -> object index, scalars only
}

func dedupKey(v *Value) (string, bool) {
	switch v.kind {
	case KindNull:
		return "n", true
	case KindBool:
		if v.b {
			return "bT", true
		}
		return "bF", true
	case KindInt:
		return fmt.Sprintf("i%d", v.i), true
	case KindReal:
		return fmt.Sprintf("r%x", math.Float64bits(v.r)), true
	case KindDate:
		return fmt.Sprintf("d%d", v.t.UnixNano()), true
	case KindData:
		return "D" + string(v.d), true
	case KindString:
		return "s" + v.s, true
	case KindUID:
		return fmt.Sprintf("u%d", v.uid), true
	}
	return "", false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func encodeLengthMarker(hi byte, length int) []byte {
	if length < 0x0F {
		return []byte{hi<<4 | byte(length)}
	}
	lenObj := encodeIntObject(int64(length))
	out := make([]byte, 0, 1+len(lenObj))
	out = append(out, hi<<4|0x0F)
	out = append(out, lenObj...)
	return out
}

// encodeIntObject picks the minimum width (1/2/4/8 bytes) that represents n.
// Negative values always take the 8-byte signed form; 1/2/4-byte widths are
// unsigned, matching the reader's interpretation.
func encodeIntObject(n int64) []byte {
	var width int
	var lo byte
	switch {
	case n >= 0 && n <= 0xFF:
		width, lo = 1, 0
	case n >= 0 && n <= 0xFFFF:
		width, lo = 2, 1
	case n >= 0 && n <= 0xFFFFFFFF:
		width, lo = 4, 2
	default:
		width, lo = 8, 3
	}
	out := make([]byte, 1+width)
	out[0] = 0x10 | lo
	u := uint64(n)
	for i := width; i >= 1; i-- {
		out[i] = byte(u)
		u >>= 8
	}
	return out
}

func (w *writer) encodeScalar(v scalarRef) ([]byte, liberr.Error) {
	switch v.kind {
	case KindNull:
		return []byte{0x00}, nil
	case KindBool:
		if v.b {
			return []byte{0x09}, nil
		}
		return []byte{0x08}, nil
	case KindInt:
		return encodeIntObject(v.i), nil
	case KindReal:
		f32 := float32(v.r)
		if float64(f32) == v.r {
			out := make([]byte, 5)
			out[0] = 0x22
			binary.BigEndian.PutUint32(out[1:], math.Float32bits(f32))
			return out, nil
		}
		out := make([]byte, 9)
		out[0] = 0x23
		binary.BigEndian.PutUint64(out[1:], math.Float64bits(v.r))
		return out, nil
	case KindDate:
		out := make([]byte, 9)
		out[0] = 0x33
		binary.BigEndian.PutUint64(out[1:], math.Float64bits(dateToSeconds(v.t)))
		return out, nil
	case KindData:
		head := encodeLengthMarker(0x4, len(v.d))
		return append(head, v.d...), nil
	case KindString:
		if isASCII(v.s) {
			head := encodeLengthMarker(0x5, len(v.s))
			return append(head, []byte(v.s)...), nil
		}
		enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
		body, err := enc.Bytes([]byte(v.s))
		if err != nil {
			return nil, ErrorUnsupportedKind.Error(err)
		}
		head := encodeLengthMarker(0x6, len(body)/2)
		return append(head, body...), nil
	case KindUID:
		width := uidWidth(v.uid)
		out := make([]byte, 1+width)
		out[0] = 0x80 | byte(width-1)
		u := v.uid
		for i := width; i >= 1; i-- {
			out[i] = byte(u)
			u >>= 8
		}
		return out, nil
	}
	return nil, ErrorUnsupportedKind.Error(nil)
}

func uidWidth(n uint64) int {
	switch {
	case n <= 0xFF:
		return 1
	case n <= 0xFFFF:
		return 2
	case n <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}

// scalarRef recovers the original Value fields for a deduplicated scalar
// object; the writer keeps a side table since object itself only stores
// the kind and child indices.
type scalarRef struct {
	kind Kind
	b    bool
	i    int64
	r    float64
	t    time.Time
	d    []byte
	s    string
	uid  uint64
}

func refWidth(maxIndex int) int {
	switch {
	case maxIndex < 0x100:
		return 1
	case maxIndex < 0x10000:
		return 2
	case maxIndex < 0x100000000:
		return 4
	default:
		return 8
	}
}

func putUintBE(buf []byte, v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
}

// writeFull loops WriteSome until all of p is written, since the Stream
// contract allows a short write that is not itself an error.
func writeFull(dst libstm.Stream, p []byte) liberr.Error {
	written := 0
	for written < len(p) {
		n, err := dst.WriteSome(p[written:])
		written += n
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrorShortWrite.Error(nil)
		}
	}
	return nil
}

// Write serializes v as a bplist00 document to dst in one forward pass
// (visit, size-solve, emit); dst is never seeked.
func Write(dst libstm.Stream, v *Value) liberr.Error {
	w := &writer{index: make(map[string]int)}
	scalarVals := make(map[int]*Value)

	// Walk with a visitor that also remembers the original Value for
	// each freshly-created scalar slot, since dedupKey only gives us a
	// string key.
	var visit func(v *Value) (int, liberr.Error)
	visit = func(v *Value) (int, liberr.Error) {
		if key, dedupable := dedupKey(v); dedupable {
			if idx, ok := w.index[key]; ok {
				return idx, nil
			}
			idx := len(w.objects)
			w.objects = append(w.objects, object{kind: v.kind})
			w.index[key] = idx
			scalarVals[idx] = v
			return idx, nil
		}
		switch v.kind {
		case KindArray:
			idx := len(w.objects)
			w.objects = append(w.objects, object{})
			children := make([]int, len(v.arr))
			for i, item := range v.arr {
				ci, err := visit(item)
				if err != nil {
					return 0, err
				}
				children[i] = ci
			}
			w.objects[idx] = object{kind: KindArray, children: children}
			return idx, nil
		case KindDict:
			idx := len(w.objects)
			w.objects = append(w.objects, object{})
			keys := v.dict.Keys()
			children := make([]int, 0, len(keys)*2)
			for _, k := range keys {
				ki, err := visit(NewString(k))
				if err != nil {
					return 0, err
				}
				val, _ := v.dict.Get(k)
				vi, err := visit(val)
				if err != nil {
					return 0, err
				}
				children = append(children, ki, vi)
			}
			w.objects[idx] = object{kind: KindDict, children: children}
			return idx, nil
		}
		return 0, ErrorUnsupportedKind.Error(nil)
	}

	root, err := visit(v)
	if err != nil {
		return err
	}

	refSize := refWidth(len(w.objects) - 1)

	// Encode every object's body now that refSize is known (containers
	// need it to size their child-index list).
	bodies := make([][]byte, len(w.objects))
	for i, obj := range w.objects {
		switch obj.kind {
		case KindArray:
			hi := byte(0xA)
			head := encodeLengthMarker(hi, len(obj.children))
			body := append([]byte{}, head...)
			for _, c := range obj.children {
				b := make([]byte, refSize)
				putUintBE(b, uint64(c), refSize)
				body = append(body, b...)
			}
			bodies[i] = body
		case KindDict:
			count := len(obj.children) / 2
			head := encodeLengthMarker(0xD, count)
			body := append([]byte{}, head...)
			for j := 0; j < count; j++ {
				b := make([]byte, refSize)
				putUintBE(b, uint64(obj.children[j*2]), refSize)
				body = append(body, b...)
			}
			for j := 0; j < count; j++ {
				b := make([]byte, refSize)
				putUintBE(b, uint64(obj.children[j*2+1]), refSize)
				body = append(body, b...)
			}
			bodies[i] = body
		default:
			sv := scalarVals[i]
			b, serr := w.encodeScalar(toScalarRef(sv))
			if serr != nil {
				return serr
			}
			bodies[i] = b
		}
	}

	offsetIntSize := offsetWidth(bodies)

	if err := writeFull(dst, []byte("bplist00")); err != nil {
		return err
	}

	offsets := make([]uint64, len(bodies))
	pos := uint64(8)
	for i, b := range bodies {
		offsets[i] = pos
		if err := writeFull(dst, b); err != nil {
			return err
		}
		pos += uint64(len(b))
	}

	tableOffset := pos
	otb := make([]byte, len(offsets)*offsetIntSize)
	for i, off := range offsets {
		putUintBE(otb[i*offsetIntSize:(i+1)*offsetIntSize], off, offsetIntSize)
	}
	if err := writeFull(dst, otb); err != nil {
		return err
	}

	trailer := make([]byte, trailerSize)
	trailer[6] = byte(offsetIntSize)
	trailer[7] = byte(refSize)
	binary.BigEndian.PutUint64(trailer[8:16], uint64(len(w.objects)))
	binary.BigEndian.PutUint64(trailer[16:24], uint64(root))
	binary.BigEndian.PutUint64(trailer[24:32], tableOffset)
	if err := writeFull(dst, trailer); err != nil {
		return err
	}

	return nil
}

func offsetWidth(bodies [][]byte) int {
	total := uint64(8)
	for _, b := range bodies {
		total += uint64(len(b))
	}
	switch {
	case total < 0x100:
		return 1
	case total < 0x10000:
		return 2
	case total < 0x100000000:
		return 4
	default:
		return 8
	}
}

func toScalarRef(v *Value) scalarRef {
	return scalarRef{kind: v.kind, b: v.b, i: v.i, r: v.r, t: v.t, d: v.d, s: v.s, uid: v.uid}
}
