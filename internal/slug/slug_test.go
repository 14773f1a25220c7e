package slug

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Hello,   World!!  ", "hello-world"},
		{"Go 1.23 released", "go-1-23-released"},
		{"Crème brûlée", "creme-brulee"},
		{"Smörgåsbord på svenska", "smorgasbord-pa-svenska"},
		{"---", "post"},
		{"", "post"},
		{"日本語", "post"},
		{"already-a-slug", "already-a-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestMakeCapsLength(t *testing.T) {
	// a single long word is cut hard
	long := Make(strings.Repeat("a", 300))
	assert.Len(t, long, MaxLength)

	// words are kept whole
	words := Make(strings.Repeat("word ", 100))
	assert.LessOrEqual(t, len(words), MaxLength)
	assert.False(t, strings.HasSuffix(words, "-"))
	for _, w := range strings.Split(words, "-") {
		assert.Equal(t, "word", w)
	}

	// a cut that lands on a separator keeps everything before it
	exact := Make(strings.Repeat("b", MaxLength) + " tail")
	assert.Equal(t, strings.Repeat("b", MaxLength), exact)

	// suffixed candidates still fit the column
	assert.LessOrEqual(t, len(NextFree(long, []string{long})), 255)
}

func TestNextFree(t *testing.T) {
	assert.Equal(t, "hello-world", NextFree("hello-world", nil))
	assert.Equal(t, "hello-world-1", NextFree("hello-world", []string{"hello-world"}))

	// unrelated slugs sharing the prefix do not matter
	assert.Equal(t, "hello-world", NextFree("hello-world", []string{"hello-world-1", "hello-worlds"}))

	// a gap is reused
	assert.Equal(t, "hello-world-2", NextFree("hello-world", []string{"hello-world", "hello-world-1", "hello-world-3"}))
}

func TestNextFreeSequence(t *testing.T) {
	for n := 1; n <= 25; n++ {
		taken := []string{"s"}
		for i := 1; i < n; i++ {
			taken = append(taken, fmt.Sprintf("s-%d", i))
		}
		assert.Equal(t, fmt.Sprintf("s-%d", n), NextFree("s", taken))
	}
}
