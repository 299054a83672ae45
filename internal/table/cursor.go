package table

import (
	"bufio"
	"io"
	"strings"
)

// LineCursor walks an in-memory sequence of lines front to back.
type LineCursor struct {
	lines []string
	pos   int
}

// NewLineCursor returns a cursor positioned before the first line.
func NewLineCursor(lines []string) *LineCursor {
	return &LineCursor{lines: lines}
}

// ReadLines splits r into lines, dropping line terminators.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Done reports whether every line has been consumed.
func (c *LineCursor) Done() bool {
	return c.pos >= len(c.lines)
}

// Peek returns the next line without consuming it.
func (c *LineCursor) Peek() (string, bool) {
	if c.Done() {
		return "", false
	}
	return c.lines[c.pos], true
}

// Next consumes and returns the next line.
func (c *LineCursor) Next() (string, bool) {
	line, ok := c.Peek()
	if ok {
		c.pos++
	}
	return line, ok
}

// Line returns the 1-based number of the most recently consumed line.
func (c *LineCursor) Line() int {
	return c.pos
}

// SkipBlank consumes lines that contain only whitespace.
func (c *LineCursor) SkipBlank() {
	for {
		line, ok := c.Peek()
		if !ok || strings.TrimSpace(line) != "" {
			return
		}
		c.pos++
	}
}
