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

package container_test

import (
	libctn "github.com/nabbar/corestream/container"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("container/Dictionary", func() {
	Context("insertion order", func() {
		var d *libctn.Dictionary[string, int]

		It("creates empty", func() {
			d = libctn.NewDictionary[string, int](0)
			Expect(d.Len()).To(Equal(0))
		})

		It("preserves first-insertion order across Keys and Range", func() {
			d.Set("z", 1)
			d.Set("a", 2)
			d.Set("m", 3)

			Expect(d.Keys()).To(Equal([]string{"z", "a", "m"}))

			var walked []string
			d.Range(func(key string, val int) bool {
				walked = append(walked, key)
				return true
			})
			Expect(walked).To(Equal([]string{"z", "a", "m"}))
		})

		It("keeps original position when overwriting an existing key", func() {
			d.Set("a", 99)
			Expect(d.Keys()).To(Equal([]string{"z", "a", "m"}))

			v, ok := d.Get("a")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(99))
		})

		It("Range stops early when fn returns false", func() {
			var walked []string
			d.Range(func(key string, val int) bool {
				walked = append(walked, key)
				return key != "a"
			})
			Expect(walked).To(Equal([]string{"z", "a"}))
		})

		It("Access inserts a zero value and returns a mutable pointer", func() {
			p := d.Access("new")
			Expect(*p).To(Equal(0))
			*p = 42

			v, ok := d.Get("new")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(42))
		})

		It("Erase removes the key and reports success", func() {
			Expect(d.Erase("z")).To(BeTrue())
			Expect(d.Erase("z")).To(BeFalse())

			_, ok := d.Get("z")
			Expect(ok).To(BeFalse())
			Expect(d.Keys()).To(Equal([]string{"a", "m", "new"}))
		})

		It("Clone is independent of the original", func() {
			c := d.Clone()
			c.Set("a", -1)

			v, _ := d.Get("a")
			Expect(v).To(Equal(99))

			cv, _ := c.Get("a")
			Expect(cv).To(Equal(-1))
		})

		It("Get on a missing key returns the zero value", func() {
			v, ok := d.Get("missing")
			Expect(ok).To(BeFalse())
			Expect(v).To(Equal(0))
		})
	})
})
