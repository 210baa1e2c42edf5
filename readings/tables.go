// Package readings holds the static divination tables (numerology, Elder
// Futhark runes, Major Arcana) and the template readings built from them.
package readings

import (
	"embed"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/fortunegram/fortunegram/internal/randx"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Number is one numerology root number.
type Number struct {
	Number          int    `yaml:"number" json:"number"`
	Keyword         string `yaml:"keyword" json:"keyword"`
	Meaning         string `yaml:"meaning" json:"meaning"`
	DetailedMeaning string `yaml:"detailed_meaning" json:"detailed_meaning"`
}

// Rune is one Elder Futhark stave.
type Rune struct {
	Name            string `yaml:"name" json:"name"`
	Symbol          string `yaml:"symbol" json:"symbol"`
	Keyword         string `yaml:"keyword" json:"keyword"`
	Meaning         string `yaml:"meaning" json:"meaning"`
	DetailedMeaning string `yaml:"detailed_meaning" json:"detailed_meaning"`
	Reversed        string `yaml:"reversed" json:"reversed"`
}

type Meanings struct {
	Light  []string `yaml:"light" json:"light"`
	Shadow []string `yaml:"shadow" json:"shadow"`
}

// Card is one tarot card.
type Card struct {
	Name           string   `yaml:"name" json:"name"`
	Number         string   `yaml:"number" json:"number"`
	Arcana         string   `yaml:"arcana" json:"arcana"`
	Keywords       []string `yaml:"keywords" json:"keywords"`
	FortuneTelling []string `yaml:"fortune_telling" json:"fortune_telling"`
	Meanings       Meanings `yaml:"meanings" json:"meanings"`
}

// Tables is the read-only set of lookup tables. Build it once with LoadTables
// and share it.
type Tables struct {
	numbers   map[int]Number
	runes     []Rune
	runeIndex map[string]int
	cards     []Card
	cardIndex map[string]int
}

// LoadTables decodes the embedded YAML tables.
func LoadTables() (*Tables, error) {
	var numbers struct {
		Numbers []Number `yaml:"numbers"`
	}
	var runes struct {
		Runes []Rune `yaml:"runes"`
	}
	var cards struct {
		Cards []Card `yaml:"cards"`
	}

	for file, dst := range map[string]any{
		"data/numerology.yaml": &numbers,
		"data/runes.yaml":      &runes,
		"data/tarot.yaml":      &cards,
	} {
		raw, err := dataFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		if err := yaml.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", file, err)
		}
	}

	return NewTables(numbers.Numbers, runes.Runes, cards.Cards)
}

// NewTables indexes the given records. Numbers must lie in 1..9 and names
// must be unique regardless of case.
func NewTables(numbers []Number, runes []Rune, cards []Card) (*Tables, error) {
	if len(numbers) == 0 || len(runes) == 0 || len(cards) == 0 {
		return nil, fmt.Errorf("tables must not be empty: %d numbers, %d runes, %d cards", len(numbers), len(runes), len(cards))
	}

	t := &Tables{
		numbers:   make(map[int]Number, len(numbers)),
		runes:     runes,
		runeIndex: make(map[string]int, len(runes)),
		cards:     cards,
		cardIndex: make(map[string]int, len(cards)),
	}
	for _, n := range numbers {
		if n.Number < 1 || n.Number > 9 {
			return nil, fmt.Errorf("numerology entry %d is outside 1..9", n.Number)
		}
		t.numbers[n.Number] = n
	}
	for i, r := range runes {
		key := strings.ToLower(r.Name)
		if _, dup := t.runeIndex[key]; dup {
			return nil, fmt.Errorf("duplicate rune %q", r.Name)
		}
		t.runeIndex[key] = i
	}
	for i, c := range cards {
		key := strings.ToLower(c.Name)
		if _, dup := t.cardIndex[key]; dup {
			return nil, fmt.Errorf("duplicate card %q", c.Name)
		}
		t.cardIndex[key] = i
	}
	return t, nil
}

func (t *Tables) Number(n int) (Number, bool) {
	num, ok := t.numbers[n]
	return num, ok
}

// Rune looks a rune up by name, ignoring case.
func (t *Tables) Rune(name string) (Rune, bool) {
	i, ok := t.runeIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Rune{}, false
	}
	return t.runes[i], true
}

// Card looks a card up by name, ignoring case.
func (t *Tables) Card(name string) (Card, bool) {
	i, ok := t.cardIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Card{}, false
	}
	return t.cards[i], true
}

// Runes returns the runes in table order.
func (t *Tables) Runes() []Rune {
	return append([]Rune(nil), t.runes...)
}

// Cards returns the cards in table order.
func (t *Tables) Cards() []Card {
	return append([]Card(nil), t.cards...)
}

func (t *Tables) DrawNumber(rng randx.Source) Number {
	num, ok := t.numbers[rng.Intn(9)+1]
	if !ok {
		num = t.numbers[1]
	}
	return num
}

func (t *Tables) DrawRune(rng randx.Source) Rune {
	return randx.Pick(rng, t.runes)
}

func (t *Tables) DrawCard(rng randx.Source) Card {
	return randx.Pick(rng, t.cards)
}

// NameNumber reduces a name to a root number by summing its UTF-16 code units
// and folding the sum until a single digit remains. Zero maps to 9.
func NameNumber(name string) int {
	sum := 0
	for _, unit := range utf16.Encode([]rune(name)) {
		sum += int(unit)
	}
	for sum >= 10 {
		sum = sum/10 + sum%10
	}
	if sum == 0 {
		return 9
	}
	return sum
}

// Wisdom picks one line of guidance from the card: a fortune-telling line when
// there is one, then a light meaning, then the keywords.
func (c Card) Wisdom(rng randx.Source) string {
	switch {
	case len(c.FortuneTelling) > 0:
		return randx.Pick(rng, c.FortuneTelling)
	case len(c.Meanings.Light) > 0:
		return randx.Pick(rng, c.Meanings.Light)
	case len(c.Keywords) > 0:
		return strings.Join(c.Keywords, ", ")
	default:
		return c.Name
	}
}
