package nlu_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/voxbet/terminal/internal/domain"
	"github.com/voxbet/terminal/internal/nlu"
)

func newResolver() *nlu.Resolver {
	return nlu.NewResolver(domain.SeedCatalogue())
}

func TestResolve_KnownSelections(t *testing.T) {
	r := newResolver()

	cases := []struct {
		raw       string
		selection string
		match     string
	}{
		{"djokovic", "Djokovic", "Wimbledon Final"},
		{"Novak", "Djokovic", "Wimbledon Final"},
		{"rafael nadal", "Nadal", "Wimbledon Final"},
		{"arsenal", "Arsenal", "Arsenal vs Manchester City"},
		{"man city", "Manchester City", "Arsenal vs Manchester City"},
		{"the draw", "Draw", "Arsenal vs Manchester City"},
	}
	for _, c := range cases {
		got := r.Resolve(c.raw)
		if got.Selection != c.selection || got.Match != c.match {
			t.Errorf("Resolve(%q) = %+v, want {%s %s}", c.raw, got, c.selection, c.match)
		}
		if !got.Resolved() {
			t.Errorf("Resolve(%q) should report resolved", c.raw)
		}
	}
}

func TestResolve_MissIsTerminalNotError(t *testing.T) {
	r := newResolver()

	got := r.Resolve("  federer  ")
	if got.Match != domain.UnresolvedMatch {
		t.Errorf("match = %q, want unresolved sentinel", got.Match)
	}
	if got.Selection != "federer" {
		t.Errorf("selection should fall back to trimmed raw text, got %q", got.Selection)
	}
	if got.Resolved() {
		t.Error("miss should not report resolved")
	}
}

// Resolving twice must yield identical results — the resolver is a pure
// function over the catalogue.
func TestResolve_Idempotent(t *testing.T) {
	r := newResolver()

	first := r.Resolve("manchester")
	second := r.Resolve("manchester")
	if first != second {
		t.Errorf("Resolve is not idempotent: %+v vs %+v", first, second)
	}
}

func TestInferOdds_SpecificTier(t *testing.T) {
	r := newResolver()

	cases := []struct {
		selection, outcome string
		want               string
	}{
		{"djokovic", "3-0", "3.5"},
		{"novak", "3-1", "4.2"},
		{"nadal", "3-0", "6.5"},
		{"rafael", "3-1", "5.8"},
	}
	for _, c := range cases {
		got := r.InferOdds(c.selection, c.outcome)
		want, _ := decimal.NewFromString(c.want)
		if !got.Equal(want) {
			t.Errorf("InferOdds(%q, %q) = %s, want %s", c.selection, c.outcome, got, c.want)
		}
	}
}

func TestInferOdds_GeneralTierFallback(t *testing.T) {
	r := newResolver()

	// No outcome, or an outcome without a specific price, falls back to the
	// selection's general price.
	if got := r.InferOdds("djokovic", ""); !got.Equal(decimal.NewFromFloat(1.75)) {
		t.Errorf("InferOdds(djokovic) = %s, want 1.75", got)
	}
	if got := r.InferOdds("djokovic", "2-0"); !got.Equal(decimal.NewFromFloat(1.75)) {
		t.Errorf("InferOdds(djokovic, 2-0) = %s, want general 1.75", got)
	}
	if got := r.InferOdds("arsenal", "3-0"); !got.Equal(decimal.NewFromFloat(2.40)) {
		t.Errorf("InferOdds(arsenal, 3-0) = %s, want general 2.40", got)
	}
}

func TestInferOdds_DefaultWhenUnresolved(t *testing.T) {
	r := newResolver()

	if got := r.InferOdds("federer", "3-0"); !got.Equal(domain.DefaultOdds) {
		t.Errorf("InferOdds(federer) = %s, want default %s", got, domain.DefaultOdds)
	}
}

// The resolver and the odds engine share one alias table: whatever event a
// selection resolves to, its inferred price must come from the same group.
func TestResolveAndInferOdds_Agree(t *testing.T) {
	r := newResolver()
	cat := domain.SeedCatalogue()

	for _, g := range cat.Aliases {
		for _, alias := range g.Aliases {
			res := r.Resolve(alias)
			if res.Match != g.Match {
				t.Errorf("alias %q resolved to %q, want %q", alias, res.Match, g.Match)
			}
			if got := r.InferOdds(alias, ""); !got.Equal(g.GeneralOdds) {
				t.Errorf("alias %q priced at %s, want %s", alias, got, g.GeneralOdds)
			}
		}
	}
}
