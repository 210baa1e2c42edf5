package choices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortunegram/fortunegram/internal/randx"
)

func TestLoad(t *testing.T) {
	v, err := Load()
	require.NoError(t, err)

	assert.Len(t, v.Timelines, 10)
	assert.Len(t, v.Energies, 27)
	assert.Equal(t, "the year ahead", v.Timelines[0])
	assert.Equal(t, "luminous and unfolding", v.Energies[len(v.Energies)-1])
}

func TestNew_Rejects(t *testing.T) {
	tt := []struct {
		desc      string
		timelines []string
		energies  []string
	}{
		{desc: "no timelines", energies: []string{"calm and cool"}},
		{desc: "no energies", timelines: []string{"today"}},
		{desc: "blank phrase", timelines: []string{"today", "  "}, energies: []string{"calm and cool"}},
		{desc: "duplicate ignoring case", timelines: []string{"today"}, energies: []string{"calm and cool", "Calm and Cool"}},
	}

	for _, ts := range tt {
		t.Run(ts.desc, func(t *testing.T) {
			_, err := New(ts.timelines, ts.energies)
			assert.Error(t, err)
		})
	}
}

func TestVocabulary_Suggest(t *testing.T) {
	v, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"the year ahead", "right now"}, v.SuggestTimelines(randx.Fixed(0), DefaultSuggestions))
	assert.Equal(t, []string{"bold and direct"}, v.SuggestEnergies(randx.Fixed(0), 1))

	got := v.SuggestEnergies(randx.New(9), 5)
	require.Len(t, got, 5)
	seen := make(map[string]bool)
	for _, e := range got {
		assert.Contains(t, v.Energies, e)
		assert.False(t, seen[e], "duplicate %s", e)
		seen[e] = true
	}

	assert.Len(t, v.SuggestTimelines(randx.New(9), 100), len(v.Timelines))
}
