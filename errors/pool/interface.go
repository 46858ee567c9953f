/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package pool collects errors from multi-step operations that must keep
// going after a failure — e.g. ArchiveFileSystem.VerifyAll decoding every
// entry of an archive and reporting all the ones that failed, not just the
// first. Errors are indexed from 1 in the order they were added; the whole
// collection can be folded into one Error that unwraps for errors.Is/As.
package pool

// Pool is a goroutine-safe indexed error collection. Add assigns indices
// sequentially starting at 1; Set allows sparse assignment at any index.
type Pool interface {
	// Add appends each non-nil error at the next sequential index. Nil
	// errors are dropped without consuming an index.
	Add(e ...error)

	// Get returns the error at index i, or nil when absent (index 0 is
	// always absent: indices start at 1).
	Get(i uint64) error

	// Set stores a non-nil error at index i, overwriting any previous
	// value. A nil error is ignored; use Del to remove an entry.
	Set(i uint64, e error)

	// Del removes the error at index i. Removing an absent index is a
	// no-op.
	Del(i uint64)

	// Error folds every collected error into one, or returns nil when the
	// pool is empty. The result unwraps to the collected errors.
	Error() error

	// Slice returns the collected errors; order is not guaranteed.
	Slice() []error

	// Len returns the number of errors currently held.
	Len() uint64

	// MaxId returns the highest occupied index, or 0 when empty.
	MaxId() uint64

	// Last returns the error at MaxId, or nil when empty.
	Last() error

	// Clear drops every error. The sequence counter is not reset, so
	// indices stay unique across the pool's lifetime.
	Clear()
}

// New returns an empty, ready-to-use Pool.
func New() Pool {
	return &pool{errs: make(map[uint64]error)}
}
