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

package ziparchive

import (
	"fmt"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	libcnt "github.com/nabbar/corestream/container"
)

// speedSamples bounds the throughput window: enough callbacks to smooth
// per-chunk jitter without averaging away a genuine rate change.
const speedSamples = 16

// speedSample pairs a cumulative byte count with the instant it was
// observed.
type speedSample struct {
	done int64
	at   time.Time
}

// SpeedWindow keeps the most recent progress callbacks in a fixed-capacity
// ring and reports the mean throughput across them. The oldest sample is
// popped once the ring fills, so Rate always reflects the last few chunks
// rather than the whole transfer.
type SpeedWindow struct {
	ring *libcnt.Ring[speedSample]
	now  func() time.Time
}

// NewSpeedWindow returns a window averaging over at most samples callbacks
// (values below 2 are raised to 2, the minimum a rate needs).
func NewSpeedWindow(samples int) *SpeedWindow {
	if samples < 2 {
		samples = 2
	}
	return &SpeedWindow{
		ring: libcnt.NewRing[speedSample](samples),
		now:  time.Now,
	}
}

// Observe records one progress callback.
func (s *SpeedWindow) Observe(done int64) {
	if s.ring.Full() {
		_, _ = s.ring.PopFront()
	}
	_ = s.ring.PushBack(speedSample{done: done, at: s.now()})
}

// Rate returns the mean throughput in bytes per second across the window,
// or 0 while fewer than two samples have been observed.
func (s *SpeedWindow) Rate() float64 {
	n := s.ring.Len()
	if n < 2 {
		return 0
	}
	first, _ := s.ring.At(0)
	last, _ := s.ring.At(n - 1)
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return 0
	}
	return float64(last.done-first.done) / dt
}

func formatRate(bytesPerSec float64) string {
	switch {
	case bytesPerSec >= 1<<20:
		return fmt.Sprintf("%.1f MiB/s", bytesPerSec/(1<<20))
	case bytesPerSec >= 1<<10:
		return fmt.Sprintf("%.1f KiB/s", bytesPerSec/(1<<10))
	default:
		return fmt.Sprintf("%.0f B/s", bytesPerSec)
	}
}

// ProgressFromBar adapts an mpb.Bar into the (done, total int64) shape
// CompressFileAndComputeCRC32 calls on every buffer-sized chunk.
func ProgressFromBar(bar *mpb.Bar) func(done, total int64) {
	if bar == nil {
		return nil
	}
	return func(done, total int64) {
		bar.SetCurrent(done)
	}
}

// NewProgressBar returns a single-bar mpb.Progress/Bar pair sized to total
// bytes, plus the callback to hand to CompressFileAndComputeCRC32. The
// bar's appended decorator renders the SpeedWindow-smoothed throughput of
// the callbacks seen so far.
func NewProgressBar(total int64, name string) (*mpb.Progress, *mpb.Bar, func(done, total int64)) {
	win := NewSpeedWindow(speedSamples)

	p := mpb.New()
	bar := p.AddBar(total,
		mpb.PrependDecorators(decor.Name(name)),
		mpb.AppendDecorators(decor.Any(func(decor.Statistics) string {
			return formatRate(win.Rate())
		})),
	)

	cb := func(done, total int64) {
		win.Observe(done)
		bar.SetCurrent(done)
	}
	return p, bar, cb
}
