package exec

// tailBuffer is an io.Writer that keeps only the last max bytes written to it.
// Tools that spew megabytes of stderr cost a fixed amount of memory.
type tailBuffer struct {
	max  int
	buf  []byte
	lost int64
}

func newTailBuffer(max int) *tailBuffer {
	if max <= 0 {
		max = 1
	}
	return &tailBuffer{max: max, buf: make([]byte, 0, max)}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= t.max {
		t.lost += int64(len(t.buf) + n - t.max)
		t.buf = append(t.buf[:0], p[n-t.max:]...)
		return n, nil
	}
	if over := len(t.buf) + n - t.max; over > 0 {
		t.lost += int64(over)
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}

// Truncated reports whether earlier output was discarded.
func (t *tailBuffer) Truncated() bool {
	return t.lost > 0
}
