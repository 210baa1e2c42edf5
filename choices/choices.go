// Package choices holds the timeline and energy phrases a seeker picks from.
package choices

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/fortunegram/fortunegram/internal/randx"
	"gopkg.in/yaml.v3"
)

//go:embed choices.yaml
var vocabularyYAML []byte

// DefaultSuggestions is how many phrases a seeker is offered at once.
const DefaultSuggestions = 2

type Vocabulary struct {
	Timelines []string `yaml:"timelines" json:"timelines"`
	Energies  []string `yaml:"energies" json:"energies"`
}

// Load decodes the embedded vocabulary.
func Load() (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(vocabularyYAML, &v); err != nil {
		return nil, fmt.Errorf("failed to decode choices.yaml: %w", err)
	}
	return New(v.Timelines, v.Energies)
}

// New checks that both lists are non-empty and free of blank or repeated
// phrases.
func New(timelines, energies []string) (*Vocabulary, error) {
	if err := validate("timeline", timelines); err != nil {
		return nil, err
	}
	if err := validate("energy", energies); err != nil {
		return nil, err
	}
	return &Vocabulary{Timelines: timelines, Energies: energies}, nil
}

func validate(kind string, phrases []string) error {
	if len(phrases) == 0 {
		return fmt.Errorf("no %s phrases", kind)
	}
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" {
			return fmt.Errorf("blank %s phrase", kind)
		}
		if seen[key] {
			return fmt.Errorf("duplicate %s phrase %q", kind, p)
		}
		seen[key] = true
	}
	return nil
}

// SuggestTimelines draws up to n distinct timelines.
func (v *Vocabulary) SuggestTimelines(rng randx.Source, n int) []string {
	return randx.Sample(rng, v.Timelines, n)
}

// SuggestEnergies draws up to n distinct energies.
func (v *Vocabulary) SuggestEnergies(rng randx.Source, n int) []string {
	return randx.Sample(rng, v.Energies, n)
}
