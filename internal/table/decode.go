package table

// decode.go cleans delimited-text input while it streams:
//
//   - a leading UTF-8 byte order mark is dropped
//   - invalid UTF-8 bytes are replaced with '?'
//
// CountingReader tracks bytes consumed so callers can log input size.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sanitize wraps r so the CSV reader sees BOM-free, valid UTF-8.
func Sanitize(r io.Reader) io.Reader {
	return &utf8Cleaner{src: skipBOM(r)}
}

// skipBOM drops a leading byte order mark, if any.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Cleaner rewrites invalid UTF-8 in place. A multi-byte sequence split
// across reads is carried over to the next call.
type utf8Cleaner struct {
	src   io.Reader
	carry []byte
}

func (c *utf8Cleaner) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	off := copy(p, c.carry)
	c.carry = c.carry[off:]
	if len(c.carry) > 0 {
		return off, nil
	}

	n, err := c.src.Read(p[off:])
	n += off
	if n == 0 {
		return 0, err
	}
	return c.clean(p[:n], err != nil), err
}

func (c *utf8Cleaner) clean(buf []byte, final bool) int {
	if !final {
		if k := partialTail(buf); k > 0 {
			c.carry = append(c.carry[:0], buf[len(buf)-k:]...)
			buf = buf[:len(buf)-k]
		}
	}
	if utf8.Valid(buf) {
		return len(buf)
	}

	w := 0
	for r := 0; r < len(buf); {
		ch, size := utf8.DecodeRune(buf[r:])
		if ch == utf8.RuneError && size == 1 {
			buf[w] = '?'
			w++
			r++
			continue
		}
		w += copy(buf[w:], buf[r:r+size])
		r += size
	}
	return w
}

// partialTail returns how many trailing bytes begin a multi-byte sequence
// that the buffer cuts short.
func partialTail(buf []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(buf); i++ {
		b := buf[len(buf)-i]
		if b&0xC0 == 0x80 {
			continue
		}
		if b < 0xC0 {
			return 0
		}
		if i < leadLen(b) {
			return i
		}
		return 0
	}
	return 0
}

func leadLen(b byte) int {
	switch {
	case b >= 0xF0:
		return 4
	case b >= 0xE0:
		return 3
	case b >= 0xC0:
		return 2
	default:
		return 1
	}
}

// CountingReader counts bytes read through it.
type CountingReader struct {
	r io.Reader
	n int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{r: r}
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// BytesRead returns the number of bytes consumed so far.
func (c *CountingReader) BytesRead() int64 {
	return c.n
}
