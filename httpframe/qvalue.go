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

import (
	"strconv"
	"strings"
)

// QValue is one weighted token parsed out of a header such as Accept or
// Accept-Encoding.
type QValue struct {
	Name string
	Q    float64
}

// ParseQValues parses a comma-separated list of "token[;q=value]" entries.
// An invalid or out-of-range q-value maps to 0 rather than failing the
// whole header, matching the lenient posture the rest of the framer takes
// toward malformed peer input.
func ParseQValues(header string) []QValue {
	var out []QValue

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		segs := strings.Split(part, ";")
		name := strings.TrimSpace(segs[0])
		if name == "" {
			continue
		}

		q := 1.0
		for _, seg := range segs[1:] {
			seg = strings.TrimSpace(seg)
			if v, ok := strings.CutPrefix(seg, "q="); ok {
				f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil || f < 0 || f > 1 {
					f = 0
				}
				q = f
			}
		}

		out = append(out, QValue{Name: name, Q: q})
	}

	return out
}
