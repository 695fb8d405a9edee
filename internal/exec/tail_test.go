package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTailBuffer(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		writes    []string
		want      string
		truncated bool
	}{
		{name: "fits", max: 10, writes: []string{"abc", "def"}, want: "abcdef"},
		{name: "exactly full", max: 6, writes: []string{"abc", "def"}, want: "abcdef"},
		{name: "rolls over", max: 4, writes: []string{"abc", "def"}, want: "cdef", truncated: true},
		{name: "single large write", max: 3, writes: []string{"abcdefgh"}, want: "fgh", truncated: true},
		{name: "many small writes", max: 3, writes: []string{"a", "b", "c", "d", "e"}, want: "cde", truncated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTailBuffer(tt.max)
			for _, w := range tt.writes {
				n, err := b.Write([]byte(w))
				assert.NoError(t, err)
				assert.Equal(t, len(w), n)
			}
			assert.Equal(t, tt.want, b.String())
			assert.Equal(t, tt.truncated, b.Truncated())
		})
	}
}
