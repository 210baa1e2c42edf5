package readings

import (
	"fmt"

	"github.com/fortunegram/fortunegram/internal/randx"
)

// Tradition selects the template set a Reader draws from.
type Tradition string

const (
	Tarot      Tradition = "tarot"
	Runes      Tradition = "runes"
	Numerology Tradition = "numerology"
	Astrology  Tradition = "astrology"
	IChing     Tradition = "iching"
	Surrealism Tradition = "surrealism"
)

// Seeker is the part of a request the templates speak to.
type Seeker struct {
	Character string
	Timeframe string
	Energy    string
	Corpse    string
}

// Reader produces template readings without any external call.
type Reader struct {
	tables *Tables
	rng    randx.Source
}

func NewReader(tables *Tables, rng randx.Source) *Reader {
	return &Reader{tables: tables, rng: rng}
}

// Read returns one reading for the tradition. Unknown traditions read as tarot.
func (r *Reader) Read(tradition Tradition, seeker Seeker) string {
	switch tradition {
	case Runes:
		return r.readRune(r.tables.DrawRune(r.rng))
	case Numerology:
		return r.readNumber(r.tables.DrawNumber(r.rng))
	case Astrology:
		return randx.Pick(r.rng, astrologyLines)
	case IChing:
		return randx.Pick(r.rng, ichingLines)
	case Surrealism:
		return r.readCorpse(seeker)
	default:
		return r.readCard(r.tables.DrawCard(r.rng))
	}
}

func (r *Reader) readCard(c Card) string {
	wisdom := c.Wisdom(r.rng)
	if wisdom == "" {
		wisdom = "Trust the path before you."
	}
	templates := []string{
		"%s This wisdom guides your path forward with clarity and purpose.",
		"The cards reveal: %s Let this be your witness in the moments ahead.",
		"The universe whispers: %s See this truth illuminated in your journey.",
		"The oracle speaks: %s Trust what unfolds before you now.",
	}
	return fmt.Sprintf(randx.Pick(r.rng, templates), wisdom)
}

func (r *Reader) readNumber(n Number) string {
	switch r.rng.Intn(3) {
	case 0:
		return fmt.Sprintf("%d—%s. %s... This is your moment to embody this energy and transform your path.", n.Number, n.Keyword, truncate(n.DetailedMeaning, 120))
	case 1:
		return fmt.Sprintf("You are %d—%s. %s... Your path is illuminated by this cosmic truth.", n.Number, n.Keyword, truncate(n.DetailedMeaning, 100))
	default:
		return fmt.Sprintf("%d—%s emerges as your guide. %s... Let this wisdom be your compass.", n.Number, n.Keyword, truncate(n.DetailedMeaning, 110))
	}
}

func (r *Reader) readRune(rn Rune) string {
	switch r.rng.Intn(3) {
	case 0:
		return fmt.Sprintf("%s—%s. %s... This ancient stone speaks truth to your journey ahead.", rn.Name, rn.Keyword, truncate(rn.DetailedMeaning, 120))
	case 1:
		return fmt.Sprintf("%s—%s. %s... The Elder Futhark reveals itself as your guide.", rn.Name, rn.Keyword, truncate(rn.DetailedMeaning, 110))
	default:
		return fmt.Sprintf("%s emerges as your sign. %s... The stones have spoken. Trust the path that reveals itself.", rn.Name, truncate(rn.DetailedMeaning, 120))
	}
}

func (r *Reader) readCorpse(s Seeker) string {
	if s.Corpse == "" {
		return fmt.Sprintf("Your hybrid form whispers of transformation. In the collision of %s with %s energy, find the message meant for you. The cut-up reveals: your path forward embraces the unexpected.", s.Character, s.Energy)
	}
	templates := []string{
		"Your exquisite corpse speaks: a creature born of %[1]s's spirit now guides you through %[2]s with %[3]s energy. What emerges is strange and true. Your transformation is already underway.",
		"The hybrid form you've assembled reveals: strength from unexpected places, a convergence of the %[1]s and the %[3]s. Trust this strange wisdom for your %[2]s. The absurd path is sometimes the truest one.",
		"Your cut-up creation suggests a daring shift: the %[1]s within you, powered by %[3]s, must venture into %[2]s without fear. The corpse you've built from fragments points toward liberation.",
		"In this assembled form, part %[1]s and part dream, lies a secret: %[2]s asks you to embrace the contradictions. Your %[3]s energy becomes the binding force holding meaning together from chaos.",
	}
	return fmt.Sprintf(randx.Pick(r.rng, templates), s.Character, s.Timeframe, s.Energy)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

var astrologyLines = []string{
	"The stars align with your intention. This passage asks for movement and presence. Trust the cosmic counsel that guides you.",
	"Your constellation burns bright. The stellar influence brings wisdom and clarity. Trust what the heavens show you.",
	"The planets speak to your spirit. In this season, harness the cosmic force that flows through you. The astral plane reveals what you need to know.",
}

var ichingLines = []string{
	"The coins fall and a line changes. What is yielding now becomes firm; hold steady and the hexagram turns in your favor.",
	"Thunder beneath the mountain: nourish what is small and let it grow in its own time. Perseverance furthers.",
	"The wind moves over the lake. Sincerity reaches even the stubborn; speak plainly and you will be understood.",
}
