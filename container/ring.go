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

package container

import (
	liberr "github.com/nabbar/corestream/errors"
)

// Ring is a fixed-capacity circular queue. PushBack grows until Cap is
// reached; once full, callers must PopFront (or Remove) to make room, which
// keeps it a building block for bounded buffers like the throughput sample
// window behind ziparchive's progress bar (SpeedWindow).
type Ring[T any] struct {
	buf   []T
	head  int // index of the logical front element
	count int
}

// NewRing allocates a ring of the given fixed capacity.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Len returns the number of elements currently stored.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Full reports whether the ring is at capacity.
func (r *Ring[T]) Full() bool { return r.count == len(r.buf) }

func (r *Ring[T]) indexOf(i int) int { return (r.head + i) % len(r.buf) }

// PushBack appends v at the logical end. It fails with ErrorRingFull rather
// than overwriting the oldest element, since silent overwrite would hide
// dropped samples from a progress callback.
func (r *Ring[T]) PushBack(v T) liberr.Error {
	if r.Full() {
		return ErrorRingFull.Error(nil)
	}
	r.buf[r.indexOf(r.count)] = v
	r.count++
	return nil
}

// PopFront removes and returns the logical first element.
func (r *Ring[T]) PopFront() (T, liberr.Error) {
	var zero T
	if r.count == 0 {
		return zero, ErrorIndexOutOfRange.Error(nil)
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return v, nil
}

// At returns the i'th logical element (0-based from the front) without
// removing it.
func (r *Ring[T]) At(i int) (T, liberr.Error) {
	var zero T
	if i < 0 || i >= r.count {
		return zero, ErrorIndexOutOfRange.Error(nil)
	}
	return r.buf[r.indexOf(i)], nil
}

// Remove deletes the i'th logical element, shifting later elements forward
// to close the gap.
func (r *Ring[T]) Remove(i int) liberr.Error {
	if i < 0 || i >= r.count {
		return ErrorIndexOutOfRange.Error(nil)
	}
	for j := i; j < r.count-1; j++ {
		r.buf[r.indexOf(j)] = r.buf[r.indexOf(j+1)]
	}
	var zero T
	r.buf[r.indexOf(r.count-1)] = zero
	r.count--
	return nil
}
