package enricher

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"ArticleCourier/internal/domain"
	"ArticleCourier/internal/ports"
)

// NoDefinitionFound is recorded when the lookup service knows a term but
// reports zero definitions for it. The term still appears in the result.
const NoDefinitionFound = "no definition found"

// Enricher selects candidate terms from article body text and resolves
// dictionary data for the uncommon ones.
type Enricher struct {
	lookup          ports.WordLookup
	logger          *slog.Logger
	window          int
	limit           int
	minLength       int
	rarityThreshold float64
	maxDefinitions  int
}

var _ ports.TermEnricher = (*Enricher)(nil)

// Options tunes candidate selection and the rarity cutoff.
type Options struct {
	Window          int
	Cap             int
	MinLength       int
	RarityThreshold float64
	MaxDefinitions  int
}

// New wires the lookup client into an enricher.
func New(lookup ports.WordLookup, opts Options, logger *slog.Logger) *Enricher {
	if opts.Window <= 0 {
		opts.Window = 20
	}
	if opts.Cap <= 0 {
		opts.Cap = 5
	}
	if opts.MinLength <= 0 {
		opts.MinLength = 5
	}
	if opts.MaxDefinitions <= 0 {
		opts.MaxDefinitions = 3
	}
	return &Enricher{
		lookup:          lookup,
		logger:          logger,
		window:          opts.Window,
		limit:           opts.Cap,
		minLength:       opts.MinLength,
		rarityThreshold: opts.RarityThreshold,
		maxDefinitions:  opts.MaxDefinitions,
	}
}

// Enrich resolves definitions for the uncommon candidate terms of body.
// Common terms are silently dropped; a lookup failure for one term is
// logged and skips only that term. Result order follows candidate order.
func (e *Enricher) Enrich(ctx context.Context, body string) []domain.TermEntry {
	var entries []domain.TermEntry
	for _, term := range SelectCandidates(body, e.window, e.minLength, e.limit) {
		freq, err := e.lookup.Frequency(ctx, term)
		if err != nil {
			e.warn("frequency lookup failed", term, err)
			continue
		}
		if freq >= e.rarityThreshold {
			continue
		}

		defs, err := e.lookup.Definitions(ctx, term, e.maxDefinitions)
		if err != nil {
			e.warn("definition lookup failed", term, err)
			continue
		}
		if len(defs) == 0 {
			defs = []string{NoDefinitionFound}
		}

		entries = append(entries, domain.TermEntry{
			Term:        term,
			Definitions: defs,
			Frequency:   freq,
		})
	}
	return entries
}

// SelectCandidates picks likely-unfamiliar terms from body text: the
// first window whitespace-delimited tokens are normalized, tokens longer
// than minLength survive, duplicates collapse to first occurrence, and
// the result is capped. This is a deliberate heuristic proxy, not an NLP
// extraction.
func SelectCandidates(body string, window, minLength, limit int) []string {
	tokens := strings.Fields(body)
	if len(tokens) > window {
		tokens = tokens[:window]
	}

	seen := map[string]struct{}{}
	candidates := make([]string, 0, limit)
	for _, token := range tokens {
		term := normalize(token)
		if len([]rune(term)) <= minLength {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		candidates = append(candidates, term)
		if len(candidates) == limit {
			break
		}
	}
	return candidates
}

func normalize(token string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(token) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (e *Enricher) warn(msg, term string, err error) {
	if e.logger != nil {
		e.logger.Warn(msg, "term", term, "error", err)
	}
}
