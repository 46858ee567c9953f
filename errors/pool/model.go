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

package pool

import (
	"sync"

	liberr "github.com/nabbar/corestream/errors"
)

// pool guards a plain index->error map with a mutex. The collections this
// module builds are small (one entry per failed archive member at most), so
// a single lock beats sharded or lock-free structures here.
type pool struct {
	mu   sync.Mutex
	next uint64
	errs map[uint64]error
}

func (p *pool) Add(e ...error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, err := range e {
		if err == nil {
			continue
		}
		p.next++
		p.errs[p.next] = err
	}
}

func (p *pool) Get(i uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errs[i]
}

func (p *pool) Set(i uint64, e error) {
	if e == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.errs[i] = e
	if i > p.next {
		p.next = i
	}
}

func (p *pool) Del(i uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.errs, i)
}

func (p *pool) Error() error {
	return liberr.UnknownError.IfError(p.Slice()...)
}

func (p *pool) Slice() []error {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]error, 0, len(p.errs))
	for _, err := range p.errs {
		out = append(out, err)
	}
	return out
}

func (p *pool) Len() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return uint64(len(p.errs))
}

func (p *pool) MaxId() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	var max uint64
	for i := range p.errs {
		if i > max {
			max = i
		}
	}
	return max
}

func (p *pool) Last() error {
	return p.Get(p.MaxId())
}

func (p *pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = make(map[uint64]error)
}
