package oracles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fortunegram/fortunegram/llm"
	"github.com/fortunegram/fortunegram/quotes"
	"github.com/fortunegram/fortunegram/readings"
	"go.uber.org/zap"
)

const (
	DefaultCharacter = "seeker"
	DefaultTimeframe = "present"
	DefaultEnergy    = "balanced"

	// UserInstruction is the single user turn sent with every system prompt.
	UserInstruction = "Generate the fortune now."
	// FallbackText answers a generation that succeeded without any text.
	FallbackText = "The oracle fell silent. Try again later."
)

// Request is what a seeker asks. Corpse carries an assembled drawing for
// "the dream" and is optional.
type Request struct {
	Character string `json:"character"`
	Timeframe string `json:"timeframe"`
	Energy    string `json:"energy"`
	Lens      string `json:"lens"`
	Corpse    string `json:"corpse,omitempty"`
}

// WithDefaults fills empty or blank fields.
func (r Request) WithDefaults() Request {
	r.Character = orDefault(r.Character, DefaultCharacter)
	r.Timeframe = orDefault(r.Timeframe, DefaultTimeframe)
	r.Energy = orDefault(r.Energy, DefaultEnergy)
	r.Lens = orDefault(r.Lens, DefaultOracle)
	return r
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Fortune is a resolved reading.
type Fortune struct {
	Text        string
	Oracle      string
	GeneratedAt time.Time
}

// FailureClass buckets generation failures by what the seeker is told.
type FailureClass int

const (
	FailureOther FailureClass = iota
	FailureAuth
	FailureRateLimited
)

var failureMessages = map[FailureClass]string{
	FailureOther:       "The stars are obscured today. Please try again.",
	FailureAuth:        "API authentication failed. Please check your configuration.",
	FailureRateLimited: "API rate limit hit. Please try again in a moment.",
}

var failureNames = map[FailureClass]string{
	FailureOther:       "other",
	FailureAuth:        "auth",
	FailureRateLimited: "rate_limited",
}

func (c FailureClass) String() string {
	return failureNames[c]
}

// GenericFailureMessage is shown for any failure that has no better wording.
func GenericFailureMessage() string {
	return failureMessages[FailureOther]
}

// GenerationError wraps a failed call to the text generator.
type GenerationError struct {
	Oracle string
	Class  FailureClass
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("oracle %q: generation failed (%s): %v", e.Oracle, e.Class, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// UserMessage is the only part of the failure that may leave the server.
func (e *GenerationError) UserMessage() string {
	return failureMessages[e.Class]
}

func classify(err error) FailureClass {
	switch {
	case errors.Is(err, llm.ErrAuthentication):
		return FailureAuth
	case errors.Is(err, llm.ErrRateLimited):
		return FailureRateLimited
	default:
		return FailureOther
	}
}

// ResolverConfig wires a Resolver. A nil Generator puts the resolver in
// offline mode, where Readings answers every oracle but the poets.
type ResolverConfig struct {
	Generator llm.Generator
	Quotes    *quotes.Selector
	Readings  *readings.Reader
	Logger    *zap.Logger
	Now       func() time.Time
	Timeout   time.Duration
	MaxTokens int
}

type Resolver struct {
	gen       llm.Generator
	quotes    *quotes.Selector
	readings  *readings.Reader
	logger    *zap.Logger
	now       func() time.Time
	timeout   time.Duration
	maxTokens int
}

func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Quotes == nil {
		return nil, errors.New("resolver needs a quote selector")
	}
	if cfg.Generator == nil && cfg.Readings == nil {
		return nil, errors.New("resolver needs a generator or offline readings")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = llm.DefaultTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = llm.DefaultMaxTokens
	}

	return &Resolver{
		gen:       cfg.Generator,
		quotes:    cfg.Quotes,
		readings:  cfg.Readings,
		logger:    cfg.Logger,
		now:       cfg.Now,
		timeout:   cfg.Timeout,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Offline reports whether the resolver answers without a generator.
func (r *Resolver) Offline() bool {
	return r.gen == nil
}

// Resolve answers req. An unsupported lens fails with *UnsupportedOracleError
// before anything is dispatched; a failed generation returns *GenerationError.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Fortune, error) {
	at := r.now().UTC()
	req = req.WithDefaults()

	oracle, err := Lookup(req.Lens)
	if err != nil {
		return nil, err
	}

	text, err := r.divine(ctx, oracle, req)
	if err != nil {
		return nil, err
	}

	return &Fortune{Text: text, Oracle: req.Lens, GeneratedAt: at}, nil
}

func (r *Resolver) divine(ctx context.Context, oracle Oracle, req Request) (string, error) {
	if oracle.Name == Poets {
		return quotes.Format(r.quotes.Select(req.Character, req.Timeframe, req.Energy)), nil
	}

	if r.gen == nil {
		return r.readings.Read(oracle.Tradition, readings.Seeker{
			Character: req.Character,
			Timeframe: req.Timeframe,
			Energy:    req.Energy,
			Corpse:    req.Corpse,
		}), nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.gen.Generate(ctx, llm.Request{
		System:    oracle.SystemPrompt(req.Character, req.Timeframe, req.Energy),
		Prompt:    UserInstruction,
		MaxTokens: r.maxTokens,
	})
	if errors.Is(err, llm.ErrNoText) {
		r.logger.Warn("generator returned no text", zap.String("oracle", oracle.Name))
		return FallbackText, nil
	}
	if err != nil {
		class := classify(err)
		r.logger.Error("fortune generation failed",
			zap.String("oracle", oracle.Name),
			zap.Stringer("class", class),
			zap.Error(err),
		)
		return "", &GenerationError{Oracle: oracle.Name, Class: class, Err: err}
	}
	return text, nil
}
