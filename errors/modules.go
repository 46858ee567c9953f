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

package errors

// Each package of this module reserves a disjoint range of CodeError values
// by offsetting its local iota block from the matching MinPkg constant below.
// This keeps error codes stable and collision-free across the whole module.
const (
	MinPkgStream     = 100
	MinPkgCompress   = 200
	MinPkgFraming    = 300
	MinPkgHashStream = 400
	MinPkgZipFormat  = 500
	MinPkgZipArchive = 600
	MinPkgArchiveFS  = 700
	MinPkgBPList     = 800
	MinPkgHTTPFrame  = 900
	MinPkgContainer  = 1000
	MinPkgLogger     = 1100

	MinAvailable = 2000
)
