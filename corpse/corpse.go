// Package corpse draws the ASCII sections of an exquisite corpse: a head, a
// torso and legs, each made without seeing the others.
package corpse

import (
	"errors"
	"strings"

	"github.com/fortunegram/fortunegram/internal/randx"
)

var (
	ErrSectionRequired = errors.New("section required")
	ErrInvalidSection  = errors.New("invalid section")
)

// Section names one third of the body.
type Section string

const (
	Head  Section = "head"
	Torso Section = "torso"
	Legs  Section = "legs"
)

// Sections lists the body parts from top to bottom.
var Sections = []Section{Head, Torso, Legs}

// Prompt carries the seeker's choices for the section being drawn.
type Prompt struct {
	Persona     string
	Description string
	Timeline    string
	Energy      string
}

type Generator struct {
	rng randx.Source
}

func NewGenerator(rng randx.Source) *Generator {
	return &Generator{rng: rng}
}

// Section draws one section. An empty name returns ErrSectionRequired and an
// unknown one ErrInvalidSection.
func (g *Generator) Section(section string, prompt Prompt) (string, error) {
	if section == "" {
		return "", ErrSectionRequired
	}

	switch Section(section) {
	case Head:
		return randx.Pick(g.rng, heads), nil
	case Torso:
		if i, ok := torsoFor(prompt.Description); ok {
			return torsos[i], nil
		}
		return randx.Pick(g.rng, torsos), nil
	case Legs:
		return randx.Pick(g.rng, legs), nil
	default:
		return "", ErrInvalidSection
	}
}

// torsoFor maps a body description onto a fixed torso when it names a build.
func torsoFor(description string) (int, bool) {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "active"), strings.Contains(d, "strong"):
		return 2, true
	case strings.Contains(d, "soft"), strings.Contains(d, "gentle"):
		return 1, true
	case strings.Contains(d, "wide"), strings.Contains(d, "broad"):
		return 0, true
	}
	return 0, false
}

// Assemble stacks the drawn sections top to bottom, skipping empty ones.
func Assemble(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

// Random draws a whole body.
func (g *Generator) Random() string {
	return Assemble(randx.Pick(g.rng, heads), randx.Pick(g.rng, torsos), randx.Pick(g.rng, legs))
}
