package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
}

func TestPick(t *testing.T) {
	items := []string{"fehu", "uruz", "thurisaz"}
	assert.Equal(t, "uruz", Pick[string](Fixed(1), items))
	assert.Equal(t, "thurisaz", Pick[string](Fixed(9), items))
}

func TestSample(t *testing.T) {
	items := []string{"today", "tomorrow", "this season"}

	assert.Equal(t, []string{"today", "tomorrow"}, Sample(Fixed(0), items, 2))
	assert.Equal(t, []string{"this season", "today"}, Sample(Fixed(9), items, 2))
	assert.Len(t, Sample(New(3), items, 10), 3)
	assert.Empty(t, Sample(New(3), items, -1))
	assert.Equal(t, []string{"today", "tomorrow", "this season"}, items)
}
