package nlu

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/voxbet/terminal/internal/domain"
)

// Resolver maps raw selection phrases to canonical catalogue entries and
// prices them. Resolution and odds inference read the same alias table, so
// a selection can never be priced against a different event than the one it
// resolved to. Pure over the catalogue: same input, same output.
type Resolver struct {
	cat *domain.Catalogue
}

// NewResolver creates a Resolver over the given catalogue.
func NewResolver(cat *domain.Catalogue) *Resolver {
	return &Resolver{cat: cat}
}

// Resolve finds the canonical selection and event for a raw phrase using
// case-insensitive substring containment. Alias groups are scanned in
// declaration order and the first matching group wins. A miss is a valid
// terminal state: the event becomes the unresolved sentinel and the
// selection falls back to the trimmed raw text.
func (r *Resolver) Resolve(rawSelection string) domain.ResolvedSelection {
	lower := strings.ToLower(strings.TrimSpace(rawSelection))

	if g := r.matchGroup(lower); g != nil {
		return domain.ResolvedSelection{Selection: g.Selection, Match: g.Match}
	}
	return domain.ResolvedSelection{
		Selection: strings.TrimSpace(rawSelection),
		Match:     domain.UnresolvedMatch,
	}
}

// InferOdds prices a selection/outcome pair with a two-tier lookup:
// the specific (selection, outcome) tier first, then the general
// selection-only tier, then the fixed default. Callers that extracted
// explicit odds from the utterance skip this engine entirely.
func (r *Resolver) InferOdds(rawSelection, rawOutcome string) decimal.Decimal {
	lowerSel := strings.ToLower(strings.TrimSpace(rawSelection))
	lowerOut := strings.ToLower(strings.TrimSpace(rawOutcome))

	g := r.matchGroup(lowerSel)
	if g == nil {
		return domain.DefaultOdds
	}

	if lowerOut != "" {
		for _, op := range g.OutcomeOdds {
			if strings.Contains(lowerOut, op.Outcome) {
				return op.Odds
			}
		}
	}
	return g.GeneralOdds
}

// matchGroup returns the first alias group containing lowerSel, or nil.
func (r *Resolver) matchGroup(lowerSel string) *domain.AliasGroup {
	for i := range r.cat.Aliases {
		g := &r.cat.Aliases[i]
		for _, alias := range g.Aliases {
			if strings.Contains(lowerSel, alias) {
				return g
			}
		}
	}
	return nil
}
