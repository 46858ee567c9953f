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

package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var levelToLogrus = map[Level]logrus.Level{
	DebugLevel: logrus.DebugLevel,
	InfoLevel:  logrus.InfoLevel,
	WarnLevel:  logrus.WarnLevel,
	ErrorLevel: logrus.ErrorLevel,
}

var logrusToLevel = map[logrus.Level]Level{
	logrus.DebugLevel: DebugLevel,
	logrus.InfoLevel:  InfoLevel,
	logrus.WarnLevel:  WarnLevel,
	logrus.ErrorLevel: ErrorLevel,
}

type logrusLogger struct {
	l *logrus.Logger
}

// New returns a Logger backed by logrus, writing to out (os.Stderr when
// out is nil).
func New(out io.Writer) Logger {
	l := logrus.New()
	if out != nil {
		l.SetOutput(out)
	}
	l.SetLevel(logrus.InfoLevel)
	return &logrusLogger{l: l}
}

func (g *logrusLogger) Write(p []byte) (int, error) {
	g.l.Info(string(p))
	return len(p), nil
}

func (g *logrusLogger) Close() error {
	if c, ok := g.l.Out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (g *logrusLogger) SetLevel(lvl Level) {
	if lv, ok := levelToLogrus[lvl]; ok {
		g.l.SetLevel(lv)
	}
}

func (g *logrusLogger) GetLevel() Level {
	if lv, ok := logrusToLevel[g.l.GetLevel()]; ok {
		return lv
	}
	return InfoLevel
}

func (g *logrusLogger) Debug() Entry { return g.Entry(DebugLevel) }
func (g *logrusLogger) Info() Entry  { return g.Entry(InfoLevel) }
func (g *logrusLogger) Warn() Entry  { return g.Entry(WarnLevel) }
func (g *logrusLogger) Error() Entry { return g.Entry(ErrorLevel) }

func (g *logrusLogger) Entry(lvl Level) Entry {
	lv, ok := levelToLogrus[lvl]
	if !ok {
		lv = logrus.InfoLevel
	}
	return &logrusEntry{e: logrus.NewEntry(g.l), lvl: lv}
}

type logrusEntry struct {
	e   *logrus.Entry
	lvl logrus.Level
}

func (e *logrusEntry) Str(key, value string) Entry {
	e.e = e.e.WithField(key, value)
	return e
}

func (e *logrusEntry) Int(key string, value int) Entry {
	e.e = e.e.WithField(key, value)
	return e
}

func (e *logrusEntry) Err(err error) Entry {
	e.e = e.e.WithError(err)
	return e
}

func (e *logrusEntry) Msg(msg string) {
	e.e.Log(e.lvl, msg)
}
