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

// Package bplist implements Apple's binary property-list format: a
// random-access-style reader that seeks to the trailer, builds an offset
// table and materialises an object graph, and a writer that visits a value
// tree, deduplicates scalars, size-solves the reference and offset widths,
// and emits the format in one forward pass. It sits on the same stream
// stack as the rest of this module (libstm.Stream).
package bplist

import (
	"time"

	libcnt "github.com/nabbar/corestream/container"
)

// epochOffset is the number of seconds between the UNIX epoch (1970-01-01)
// and Apple's reference date (2001-01-01), added/subtracted when converting
// plist Date values to/from time.Time.
const epochOffset = 978307200

// Kind discriminates the tagged union of property-list value types.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindReal
	KindDate
	KindData
	KindString
	KindUID
	KindArray
	KindDict
)

// Value is one node of a property-list object graph. The zero Value is
// KindNull. Construct with the New* helpers; read back with the typed
// accessors, each of which reports whether the Value is actually of that
// Kind.
type Value struct {
	kind Kind
	b    bool
	i    int64
	r    float64
	t    time.Time
	d    []byte
	s    string
	uid  uint64
	arr  []*Value
	dict *libcnt.Dictionary[string, *Value]
}

func NewNull() *Value { return &Value{kind: KindNull} }

func NewBool(b bool) *Value { return &Value{kind: KindBool, b: b} }

func NewInt(i int64) *Value { return &Value{kind: KindInt, i: i} }

func NewReal(r float64) *Value { return &Value{kind: KindReal, r: r} }

// NewDate stores t as given; the writer encodes it as IEEE-754
// seconds-since-2001, and Equal compares dates at whole-second precision.
func NewDate(t time.Time) *Value { return &Value{kind: KindDate, t: t} }

func NewData(d []byte) *Value {
	c := make([]byte, len(d))
	copy(c, d)
	return &Value{kind: KindData, d: c}
}

func NewString(s string) *Value { return &Value{kind: KindString, s: s} }

// NewUID wraps n the way Apple's encoder represents a UID: logically a
// dictionary {"CF$UID": n}, but tagged here as its own Kind so the writer
// can choose the compact UID marker instead of a real one-key dictionary.
func NewUID(n uint64) *Value { return &Value{kind: KindUID, uid: n} }

func NewArray(items ...*Value) *Value {
	a := make([]*Value, len(items))
	copy(a, items)
	return &Value{kind: KindArray, arr: a}
}

func NewDict() *Value {
	return &Value{kind: KindDict, dict: libcnt.NewDictionary[string, *Value](0)}
}

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

func (v *Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

func (v *Value) Real() (float64, bool) { return v.r, v.kind == KindReal }

func (v *Value) Date() (time.Time, bool) { return v.t, v.kind == KindDate }

func (v *Value) Data() ([]byte, bool) { return v.d, v.kind == KindData }

func (v *Value) String() (string, bool) { return v.s, v.kind == KindString }

func (v *Value) UID() (uint64, bool) { return v.uid, v.kind == KindUID }

func (v *Value) Array() ([]*Value, bool) { return v.arr, v.kind == KindArray }

func (v *Value) Dict() (*libcnt.Dictionary[string, *Value], bool) {
	return v.dict, v.kind == KindDict
}

// Append appends item to an array-kind Value; it is a no-op on any other
// Kind.
func (v *Value) Append(item *Value) *Value {
	if v.kind == KindArray {
		v.arr = append(v.arr, item)
	}
	return v
}

// Put sets key on a dict-kind Value; it is a no-op on any other Kind.
func (v *Value) Put(key string, item *Value) *Value {
	if v.kind == KindDict {
		v.dict.Set(key, item)
	}
	return v
}

// Equal reports deep equality, treating dictionaries as equal when they
// hold the same keys in the same insertion order with equal values.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindReal:
		return v.r == o.r
	case KindDate:
		return v.t.Truncate(time.Second).Equal(o.t.Truncate(time.Second))
	case KindData:
		if len(v.d) != len(o.d) {
			return false
		}
		for i := range v.d {
			if v.d[i] != o.d[i] {
				return false
			}
		}
		return true
	case KindString:
		return v.s == o.s
	case KindUID:
		return v.uid == o.uid
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if v.dict.Len() != o.dict.Len() {
			return false
		}
		vk, ok2 := v.dict.Keys(), o.dict.Keys()
		for i, k := range vk {
			if ok2[i] != k {
				return false
			}
			vv, _ := v.dict.Get(k)
			ov, _ := o.dict.Get(k)
			if !vv.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

func dateToSeconds(t time.Time) float64 {
	return float64(t.Unix()-epochOffset) + float64(t.Nanosecond())/1e9
}

func secondsToDate(sec float64) time.Time {
	whole := int64(sec)
	frac := sec - float64(whole)
	return time.Unix(whole+epochOffset, int64(frac*1e9)).UTC()
}
