// Package oracles resolves a seeker's request into a fortune. "The poets"
// answer from the quote library; every other oracle builds a system prompt in
// its own voice and hands it to a text generator.
package oracles

import (
	"fmt"

	"github.com/fortunegram/fortunegram/internal/randx"
	"github.com/fortunegram/fortunegram/readings"
)

const (
	Cards   = "the cards"
	Stones  = "the stones"
	Stars   = "the stars"
	Numbers = "the numbers"
	Coins   = "the coins"
	Poets   = "the poets"
	Dream   = "the dream"

	DefaultOracle = Stars
)

// Oracle is one supported lens.
type Oracle struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"display_name"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Tradition   readings.Tradition `json:"tradition,omitempty"`

	voice voice
}

// SystemPrompt renders the oracle's instruction for one seeker.
func (o Oracle) SystemPrompt(character, timeframe, energy string) string {
	return o.voice.render(character, timeframe, energy)
}

var registry = []Oracle{
	{
		Name:        Cards,
		DisplayName: "The Cards (Tarot)",
		Title:       "The Tarot Speaks",
		Description: "In the dance of cards, your path is revealed",
		Tradition:   readings.Tarot,
		voice:       cardsVoice,
	},
	{
		Name:        Stones,
		DisplayName: "The Stones (Runes)",
		Title:       "The Runes Reveal",
		Description: "Ancient stones carry wisdom from the earth",
		Tradition:   readings.Runes,
		voice:       stonesVoice,
	},
	{
		Name:        Stars,
		DisplayName: "The Stars (Astrology)",
		Title:       "The Cosmos Whispers",
		Description: "The celestial bodies chart your course",
		Tradition:   readings.Astrology,
		voice:       starsVoice,
	},
	{
		Name:        Numbers,
		DisplayName: "The Numbers (Numerology)",
		Title:       "The Numbers Align",
		Description: "Divine mathematics guides your way",
		Tradition:   readings.Numerology,
		voice:       numbersVoice,
	},
	{
		Name:        Coins,
		DisplayName: "The Coins (I Ching)",
		Title:       "The I Ching Moves",
		Description: "The great cycle turns, reflecting your journey",
		Tradition:   readings.IChing,
		voice:       coinsVoice,
	},
	{
		Name:        Poets,
		DisplayName: "The Poets (Literary Oracle)",
		Title:       "The Poets Sing",
		Description: "Literary voices echo across time",
		voice:       poetsVoice,
	},
	{
		Name:        Dream,
		DisplayName: "The Dream (Surrealism)",
		Title:       "Your Exquisite Corpse Speaks",
		Description: "From the collision of the absurd, truth emerges",
		Tradition:   readings.Surrealism,
		voice:       dreamVoice,
	},
}

var byName = func() map[string]Oracle {
	m := make(map[string]Oracle, len(registry))
	for _, o := range registry {
		m[o.Name] = o
	}
	return m
}()

// All returns the supported oracles in presentation order.
func All() []Oracle {
	return append([]Oracle(nil), registry...)
}

// Lookup finds an oracle by its exact name. Matching is case-sensitive.
func Lookup(name string) (Oracle, error) {
	o, ok := byName[name]
	if !ok {
		return Oracle{}, &UnsupportedOracleError{Name: name}
	}
	return o, nil
}

// Suggest draws up to n distinct oracles.
func Suggest(rng randx.Source, n int) []Oracle {
	return randx.Sample(rng, All(), n)
}

// UnsupportedOracleError names a lens outside the supported set.
type UnsupportedOracleError struct {
	Name string
}

func (e *UnsupportedOracleError) Error() string {
	return fmt.Sprintf("Oracle \"%s\" not yet configured for AI generation. Using default: \"%s\"", e.Name, DefaultOracle)
}
