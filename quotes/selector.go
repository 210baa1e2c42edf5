package quotes

import (
	"fmt"
	"strings"

	"github.com/fortunegram/fortunegram/internal/randx"
)

// Field names the part of a request a Rule inspects.
type Field int

const (
	Character Field = iota
	Timeframe
	Energy
)

// Rule adds Theme when the lower-cased field contains any of Substrings.
type Rule struct {
	Field      Field
	Substrings []string
	Theme      string
}

// Rules is the fixed substring table. Rules are not exclusive.
var Rules = []Rule{
	{Timeframe, []string{"future", "tomorrow", "ahead", "year", "next", "coming"}, "future"},
	{Timeframe, []string{"now", "today", "moment", "present", "immediately"}, "present"},
	{Timeframe, []string{"past", "yesterday", "before"}, "past"},
	{Timeframe, []string{"chapter", "season", "month", "life"}, "change"},

	{Energy, []string{"anxious", "fear", "cautious", "uncertain", "shadowed", "nervous"}, "fear"},
	{Energy, []string{"bold", "fierce", "brave", "determined", "resilient", "disciplined", "sharp", "focused"}, "courage"},
	{Energy, []string{"warm", "open", "love", "tender", "gentle"}, "love"},
	{Energy, []string{"lost", "grief", "sad", "drifting", "unanchored", "heavy"}, "loss"},
	{Energy, []string{"hope", "bright", "playful", "luminous", "joy", "rising"}, "joy"},
	{Energy, []string{"restless", "turbulent", "transforming", "awakening", "wild"}, "change"},
	{Energy, []string{"calm", "patient", "slow", "steady", "grounded", "quiet", "balanced"}, "rest"},
	{Energy, []string{"curious", "seeking", "dreamy", "wandering", "intuitive", "creative"}, "wonder"},
	{Energy, []string{"ancient", "remembering", "reflective", "nostalgic"}, "past"},
	{Energy, []string{"inward", "introspective", "alone", "thoughtful", "analytical"}, "solitude"},

	{Character, []string{"wanderer", "traveler", "explorer", "nomad", "pilgrim"}, "journey"},
	{Character, []string{"artist", "poet", "dreamer", "creator", "maker"}, "wonder"},
	{Character, []string{"warrior", "rebel", "fighter", "hero"}, "courage"},
	{Character, []string{"lover", "romantic", "heart"}, "love"},
	{Character, []string{"hermit", "mystic", "sage", "scholar"}, "solitude"},
	{Character, []string{"seeker", "leader", "builder", "healer", "teacher"}, "growth"},
}

// RelevantThemes applies Rules and returns each fired theme once, in rule order.
func RelevantThemes(character, timeframe, energy string) []string {
	fields := map[Field]string{
		Character: strings.ToLower(character),
		Timeframe: strings.ToLower(timeframe),
		Energy:    strings.ToLower(energy),
	}

	var themes []string
	seen := make(map[string]bool)
	for _, rule := range Rules {
		if seen[rule.Theme] {
			continue
		}
		value := fields[rule.Field]
		for _, sub := range rule.Substrings {
			if strings.Contains(value, sub) {
				seen[rule.Theme] = true
				themes = append(themes, rule.Theme)
				break
			}
		}
	}
	return themes
}

// Selector picks the quote whose themes overlap most with a request.
type Selector struct {
	lib *Library
	rng randx.Source
}

// NewSelector returns a Selector over lib. rng is only consulted when no
// quote scores above zero.
func NewSelector(lib *Library, rng randx.Source) *Selector {
	return &Selector{lib: lib, rng: rng}
}

// Select scores every entry by the number of shared themes. The first entry
// with the highest score wins; with no overlap at all it draws a universal
// entry at random.
func (s *Selector) Select(character, timeframe, energy string) Entry {
	relevant := make(map[string]bool)
	for _, theme := range RelevantThemes(character, timeframe, energy) {
		relevant[theme] = true
	}

	best, bestScore := -1, 0
	for i, e := range s.lib.entries {
		score := 0
		for _, theme := range e.Themes {
			if relevant[theme] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		best = randx.Pick(s.rng, s.lib.universal)
	}
	return s.lib.entries[best]
}

// Format renders a quote with its attribution on the following line.
func Format(e Entry) string {
	return fmt.Sprintf("\"%s\"\n— %s", e.Text, e.Author)
}
