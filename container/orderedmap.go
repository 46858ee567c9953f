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

// Package container holds the order-preserving map and fixed-capacity ring
// buffer used as supporting infrastructure elsewhere in this module:
// property-list dictionaries (bplist) need a map that remembers the order
// keys were first seen in, which Go's builtin map does not give you, and
// the archive writer's progress reporting (ziparchive) keeps its throughput
// samples in a Ring.
package container

import (
	"fmt"

	liberr "github.com/nabbar/corestream/errors"
)

const (
	ErrorKeyNotFound liberr.CodeError = iota + liberr.MinPkgContainer
	ErrorIndexOutOfRange
	ErrorRingFull
)

func init() {
	if liberr.ExistInMapMessage(ErrorKeyNotFound) {
		panic(fmt.Errorf("error code collision corestream/container"))
	}
	liberr.RegisterIdFctMessage(ErrorKeyNotFound, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorKeyNotFound:
		return "key not found"
	case ErrorIndexOutOfRange:
		return "index out of range"
	case ErrorRingFull:
		return "ring buffer at capacity"
	}
	return liberr.NullMessage
}

// pair is one insertion-ordered (key, value) slot of Dictionary.
type pair[K comparable, V any] struct {
	key K
	val V
}

// Dictionary is a vector-of-pairs ordered map: lookup is linear, but
// iteration order always matches first-insertion order, which a Go map
// cannot guarantee. There is deliberately no "access or insert" index
// operator: every mutation goes through Set/Access so a read can never
// accidentally create an entry.
type Dictionary[K comparable, V any] struct {
	items []pair[K, V]
}

// NewDictionary returns an empty ordered map, optionally pre-sizing the
// backing slice.
func NewDictionary[K comparable, V any](capacity int) *Dictionary[K, V] {
	d := &Dictionary[K, V]{}
	if capacity > 0 {
		d.items = make([]pair[K, V], 0, capacity)
	}
	return d
}

func (d *Dictionary[K, V]) indexOf(key K) int {
	for i := range d.items {
		if d.items[i].key == key {
			return i
		}
	}
	return -1
}

// Get returns the value for key and whether it was present.
func (d *Dictionary[K, V]) Get(key K) (V, bool) {
	if i := d.indexOf(key); i >= 0 {
		return d.items[i].val, true
	}
	var zero V
	return zero, false
}

// Set inserts or overwrites key's value, preserving key's original
// position if it already existed.
func (d *Dictionary[K, V]) Set(key K, val V) {
	if i := d.indexOf(key); i >= 0 {
		d.items[i].val = val
		return
	}
	d.items = append(d.items, pair[K, V]{key: key, val: val})
}

// Access returns a pointer to key's value, inserting a zero value first if
// key was absent. This is the only way to obtain a mutable reference,
// mirroring the source design's ban on a non-const operator[].
func (d *Dictionary[K, V]) Access(key K) *V {
	if i := d.indexOf(key); i >= 0 {
		return &d.items[i].val
	}
	var zero V
	d.items = append(d.items, pair[K, V]{key: key, val: zero})
	return &d.items[len(d.items)-1].val
}

// Erase removes key if present and reports whether anything was removed.
func (d *Dictionary[K, V]) Erase(key K) bool {
	i := d.indexOf(key)
	if i < 0 {
		return false
	}
	d.items = append(d.items[:i], d.items[i+1:]...)
	return true
}

// Len returns the number of entries.
func (d *Dictionary[K, V]) Len() int { return len(d.items) }

// Keys returns the keys in insertion order.
func (d *Dictionary[K, V]) Keys() []K {
	out := make([]K, len(d.items))
	for i := range d.items {
		out[i] = d.items[i].key
	}
	return out
}

// Range visits every (key, value) pair in insertion order, stopping early
// if fn returns false.
func (d *Dictionary[K, V]) Range(fn func(key K, val V) bool) {
	for i := range d.items {
		if !fn(d.items[i].key, d.items[i].val) {
			return
		}
	}
}

// Clone returns a shallow copy with its own backing slice.
func (d *Dictionary[K, V]) Clone() *Dictionary[K, V] {
	c := &Dictionary[K, V]{items: make([]pair[K, V], len(d.items))}
	copy(c.items, d.items)
	return c
}
