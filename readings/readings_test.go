package readings

import (
	"strings"
	"testing"

	"github.com/fortunegram/fortunegram/internal/randx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := LoadTables()
	require.NoError(t, err)
	return tables
}

func TestLoadTables(t *testing.T) {
	tables := loadTables(t)

	for n := 1; n <= 9; n++ {
		num, ok := tables.Number(n)
		require.True(t, ok, "number %d", n)
		assert.Equal(t, n, num.Number)
		assert.NotEmpty(t, num.Keyword)
		assert.NotEmpty(t, num.DetailedMeaning)
	}
	assert.Len(t, tables.Runes(), 24)
	assert.Len(t, tables.Cards(), 22)
}

func TestTables_Lookups(t *testing.T) {
	tables := loadTables(t)

	tt := []struct {
		desc string
		find func() (string, bool)
		want string
		ok   bool
	}{
		{
			desc: "rune by exact name",
			find: func() (string, bool) { r, ok := tables.Rune("Fehu"); return r.Keyword, ok },
			want: "Wealth", ok: true,
		},
		{
			desc: "rune ignores case",
			find: func() (string, bool) { r, ok := tables.Rune("  ANSUZ "); return r.Keyword, ok },
			want: "Message", ok: true,
		},
		{
			desc: "unknown rune",
			find: func() (string, bool) { r, ok := tables.Rune("zebra"); return r.Keyword, ok },
			ok:   false,
		},
		{
			desc: "card ignores case",
			find: func() (string, bool) { c, ok := tables.Card("the star"); return c.Number, ok },
			want: "17", ok: true,
		},
		{
			desc: "unknown card",
			find: func() (string, bool) { c, ok := tables.Card("The Jester"); return c.Number, ok },
			ok:   false,
		},
		{
			desc: "number outside 1..9",
			find: func() (string, bool) { n, ok := tables.Number(10); return n.Keyword, ok },
			ok:   false,
		},
	}

	for _, ts := range tt {
		t.Run(ts.desc, func(t *testing.T) {
			got, ok := ts.find()
			assert.Equal(t, ts.ok, ok)
			assert.Equal(t, ts.want, got)
		})
	}
}

func TestTables_Draws(t *testing.T) {
	tables := loadTables(t)

	assert.Equal(t, 1, tables.DrawNumber(randx.Fixed(0)).Number)
	assert.Equal(t, 9, tables.DrawNumber(randx.Fixed(100)).Number)
	assert.Equal(t, "Fehu", tables.DrawRune(randx.Fixed(0)).Name)
	assert.Equal(t, "The World", tables.DrawCard(randx.Fixed(100)).Name)
}

func TestNewTables_Rejects(t *testing.T) {
	runes := []Rune{{Name: "Fehu"}}
	cards := []Card{{Name: "The Fool"}}

	_, err := NewTables([]Number{{Number: 12}}, runes, cards)
	assert.Error(t, err)

	_, err = NewTables([]Number{{Number: 1}}, []Rune{{Name: "Fehu"}, {Name: "FEHU"}}, cards)
	assert.Error(t, err)

	_, err = NewTables(nil, runes, cards)
	assert.Error(t, err)
}

func TestNameNumber(t *testing.T) {
	tt := []struct {
		name string
		want int
	}{
		{name: "", want: 9},
		{name: "a", want: 7},   // 97 -> 16 -> 7
		{name: "ab", want: 6},  // 195 -> 24 -> 6
		{name: "Ada", want: 1}, // 262 -> 28 -> 10 -> 1
	}

	for _, ts := range tt {
		t.Run(ts.name, func(t *testing.T) {
			assert.Equal(t, ts.want, NameNumber(ts.name))
		})
	}
}

func TestCard_Wisdom(t *testing.T) {
	full := Card{Name: "X", FortuneTelling: []string{"told"}, Meanings: Meanings{Light: []string{"light"}}, Keywords: []string{"a", "b"}}
	assert.Equal(t, "told", full.Wisdom(randx.Fixed(0)))

	light := Card{Name: "X", Meanings: Meanings{Light: []string{"light"}}, Keywords: []string{"a", "b"}}
	assert.Equal(t, "light", light.Wisdom(randx.Fixed(0)))

	keywords := Card{Name: "X", Keywords: []string{"a", "b"}}
	assert.Equal(t, "a, b", keywords.Wisdom(randx.Fixed(0)))

	assert.Equal(t, "X", Card{Name: "X"}.Wisdom(randx.Fixed(0)))
}

func TestReader_Read(t *testing.T) {
	tables := loadTables(t)
	seeker := Seeker{Character: "wanderer", Timeframe: "the year ahead", Energy: "hopeful", Corpse: "head|torso|legs"}

	tt := []struct {
		tradition Tradition
		contains  string
	}{
		{tradition: Tarot, contains: "A leap of faith will be rewarded."},
		{tradition: Runes, contains: "Fehu—Wealth."},
		{tradition: Numerology, contains: "1—The Initiator."},
		{tradition: Astrology, contains: "The stars align"},
		{tradition: IChing, contains: "The coins fall"},
		{tradition: Surrealism, contains: "wanderer's spirit"},
		{tradition: Tradition("unknown"), contains: "A leap of faith"},
	}

	for _, ts := range tt {
		t.Run(string(ts.tradition), func(t *testing.T) {
			reader := NewReader(tables, randx.Fixed(0))
			assert.Contains(t, reader.Read(ts.tradition, seeker), ts.contains)
		})
	}
}

func TestReader_NumberIsTruncated(t *testing.T) {
	tables := loadTables(t)
	reader := NewReader(tables, randx.Fixed(0))

	got := reader.Read(Numerology, Seeker{})
	num, _ := tables.Number(1)
	assert.Contains(t, got, num.DetailedMeaning[:120]+"...")
	assert.NotContains(t, got, num.DetailedMeaning)
}

func TestReader_CorpseWithoutDrawing(t *testing.T) {
	reader := NewReader(loadTables(t), randx.Fixed(0))

	got := reader.Read(Surrealism, Seeker{Character: "poet", Energy: "restless"})
	assert.True(t, strings.HasPrefix(got, "Your hybrid form whispers"))
	assert.Contains(t, got, "poet with restless energy")
}
