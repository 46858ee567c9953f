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

import (
	"encoding/json"
	"fmt"
)

// Return lets a caller capture an Error as a plain struct it can marshal or
// log on its own terms, instead of holding onto the Error interface. There
// is no HTTP transport layer in this module (httpframe only frames bytes,
// it does not route requests), so Return carries no web-framework-specific
// abort methods, just the code/message capture and a JSON rendering a
// caller can attach to whatever transport (an httpframe response, a log
// line, a metrics label) it is using.
type Return interface {
	// SetError sets the error with the given code, message, file and line.
	//
	// It creates a new error from the given information and appends it to
	// the current error list. If the error list is empty, it creates one.
	SetError(code int, msg string, file string, line int)

	// AddParent adds a parent error to the current error.
	//
	// It creates a new error from the given information and adds it to
	// the parent error list of the current error.
	AddParent(code int, msg string, file string, line int)

	// JSON returns the JSON representation of the current error:
	// {"code": <string>, "package": <string>, "msg": <string>}
	JSON() []byte
}

// DefaultReturn is the stock Return implementation. Package records which
// of this module's component packages (per errors.PackageName, grounded on
// the MinPkg ranges in modules.go) the leading error code belongs to, so a
// caller inspecting a marshaled Return can tell at a glance whether a
// failure originated in, say, ziparchive or bplist without decoding the
// numeric code.
type DefaultReturn struct {
	Code    string
	Package string
	Message string
	err     []error
}

func (r *DefaultReturn) SetError(code int, msg string, file string, line int) {
	r.Code = fmt.Sprintf("%d", code)
	r.Package = PackageName(NewCodeError(uint16(code)))
	r.Message = msg

	if len(r.err) < 1 {
		r.err = make([]error, 0)
	}

	r.err = append(r.err, NewErrorTrace(code, msg, file, line, nil))
}

func (r *DefaultReturn) AddParent(code int, msg string, file string, line int) {
	if len(r.err) < 1 {
		r.err = make([]error, 0)
	}

	r.err = append(r.err, NewErrorTrace(code, msg, file, line, nil))
}

func (r *DefaultReturn) JSON() []byte {
	if str, err := json.Marshal(r); err != nil {
		return make([]byte, 0)
	} else {
		return str
	}
}
