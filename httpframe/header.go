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

package httpframe

import "strings"

// headerField is one name/value pair in original insertion order.
type headerField struct {
	name  string
	value string
}

// Header is a case-insensitive, order-preserving header multimap: several
// fields may share a name (e.g. Set-Cookie), and both last-wins and
// all-values lookups are offered.
type Header struct {
	fields []headerField
}

// NewHeader returns an empty Header ready for use.
func NewHeader() *Header {
	return &Header{}
}

// Add appends a field, preserving any existing field with the same name.
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, headerField{name: name, value: value})
}

// Set removes every existing field with the same name (case-insensitive)
// and replaces it with a single field.
func (h *Header) Set(name, value string) {
	h.del(name)
	h.Add(name, value)
}

func (h *Header) del(name string) {
	out := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.name, name) {
			out = append(out, f)
		}
	}
	h.fields = out
}

// Get returns the value of the last field with the given name (case
// insensitive), and whether any such field exists.
func (h *Header) Get(name string) (string, bool) {
	var (
		v  string
		ok bool
	)
	for _, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			v = f.value
			ok = true
		}
	}
	return v, ok
}

// GetAll returns every value for name, in insertion order.
func (h *Header) GetAll(name string) []string {
	var out []string
	for _, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			out = append(out, f.value)
		}
	}
	return out
}

// Len returns the number of fields (counting repeated names separately).
func (h *Header) Len() int {
	return len(h.fields)
}

// Range calls fn for every field in insertion order.
func (h *Header) Range(fn func(name, value string)) {
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}

// foldValue trims the surrounding whitespace of a single header-value line
// or continuation fragment before it is joined into the field's value.
func foldValue(raw string) string {
	return strings.TrimSpace(raw)
}
