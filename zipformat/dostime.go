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

package zipformat

import "time"

// DecodeDOSTime converts packed MS-DOS date/time fields to a UTC
// instant.
func DecodeDOSTime(date, dosTime uint16) time.Time {
	year := int(date>>9) + 1980
	month := int((date >> 5) & 0x0f)
	day := int(date & 0x1f)

	hour := int(dosTime >> 11)
	minute := int((dosTime >> 5) & 0x3f)
	second := int(dosTime&0x1f) * 2

	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}

// EncodeDOSTime is the inverse of DecodeDOSTime, truncating seconds to an
// even value (MS-DOS time stores seconds/2).
func EncodeDOSTime(t time.Time) (date uint16, dosTime uint16) {
	t = t.UTC()

	year := t.Year()
	if year < 1980 {
		year = 1980
	}

	date = uint16((year-1980)<<9) | uint16(int(t.Month())<<5) | uint16(t.Day())
	dosTime = uint16(t.Hour()<<11) | uint16(t.Minute()<<5) | uint16(t.Second()/2)

	return date, dosTime
}
