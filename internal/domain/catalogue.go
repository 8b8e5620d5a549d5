package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Match & BetOption — read-only reference data
// ──────────────────────────────────────────────────────────────────────────────

// Match is one live or upcoming event the terminal can take bets on.
type Match struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Player1     string          `json:"player1"`
	Player2     string          `json:"player2"`
	Player1Odds decimal.Decimal `json:"player1Odds"`
	Player2Odds decimal.Decimal `json:"player2Odds"`
	MatchTime   string          `json:"matchTime"`
	Sport       string          `json:"sport"`
	IsLive      bool            `json:"isLive"`
}

// MarshalJSON keeps odds at two decimal places on the wire ("2.10", not
// "2.1"), the form clients render directly.
func (m Match) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Player1     string `json:"player1"`
		Player2     string `json:"player2"`
		Player1Odds string `json:"player1Odds"`
		Player2Odds string `json:"player2Odds"`
		MatchTime   string `json:"matchTime"`
		Sport       string `json:"sport"`
		IsLive      bool   `json:"isLive"`
	}
	return json.Marshal(wire{
		ID:          m.ID,
		Title:       m.Title,
		Player1:     m.Player1,
		Player2:     m.Player2,
		Player1Odds: m.Player1Odds.StringFixed(2),
		Player2Odds: m.Player2Odds.StringFixed(2),
		MatchTime:   m.MatchTime,
		Sport:       m.Sport,
		IsLive:      m.IsLive,
	})
}

// BetOption is a priced side market within a match (set scores, winner).
type BetOption struct {
	ID          int64           `json:"id"`
	MatchID     int64           `json:"matchId"`
	Description string          `json:"description"`
	Odds        decimal.Decimal `json:"odds"`
	Category    string          `json:"category"`
}

func (o BetOption) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID          int64  `json:"id"`
		MatchID     int64  `json:"matchId"`
		Description string `json:"description"`
		Odds        string `json:"odds"`
		Category    string `json:"category"`
	}
	return json.Marshal(wire{
		ID:          o.ID,
		MatchID:     o.MatchID,
		Description: o.Description,
		Odds:        o.Odds.StringFixed(2),
		Category:    o.Category,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// AliasGroup — the single shared alias table
// ──────────────────────────────────────────────────────────────────────────────

// AliasGroup binds free-text aliases to one canonical selection, its event,
// its general price, and its per-outcome prices. Both the entity resolver
// and the odds engine read this one table, so selection and price can never
// disagree. Alias keys are chosen to be mutually exclusive; if a future set
// overlaps, the earliest-declared group wins.
type AliasGroup struct {
	Aliases     []string
	Selection   string // canonical selection label
	Match       string // canonical event title
	GeneralOdds decimal.Decimal
	OutcomeOdds []OutcomePrice // declaration order is the lookup order
}

// OutcomePrice prices one scored outcome of a selection (e.g. "3-0").
// A slice, not a map: the specific-odds tier must be scanned in a fixed
// insertion order so ties resolve to the earliest-declared entry.
type OutcomePrice struct {
	Outcome string
	Odds    decimal.Decimal
}

// Catalogue is the static reference data consulted by the pipeline. It is
// seeded once at startup and never mutated afterwards.
type Catalogue struct {
	Matches    []Match
	BetOptions []BetOption
	Aliases    []AliasGroup
}

// OptionsForMatch returns the bet options belonging to the given match id.
func (c *Catalogue) OptionsForMatch(matchID int64) []BetOption {
	var opts []BetOption
	for _, o := range c.BetOptions {
		if o.MatchID == matchID {
			opts = append(opts, o)
		}
	}
	return opts
}

// MatchByID returns the match with the given id, or nil.
func (c *Catalogue) MatchByID(id int64) *Match {
	for i := range c.Matches {
		if c.Matches[i].ID == id {
			return &c.Matches[i]
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Seed data
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic("catalogue: bad seed decimal " + s)
	}
	return v
}

// SeedCatalogue builds the fixed demo catalogue: one live tennis final and
// one football fixture, with their side markets and the alias table.
func SeedCatalogue() *Catalogue {
	const (
		wimbledon = "Wimbledon Final"
		arsenalMC = "Arsenal vs Manchester City"
	)

	return &Catalogue{
		Matches: []Match{
			{
				ID:          1,
				Title:       wimbledon,
				Player1:     "Novak Djokovic",
				Player2:     "Rafael Nadal",
				Player1Odds: d("1.75"),
				Player2Odds: d("2.10"),
				MatchTime:   "Today 14:00",
				Sport:       "Tennis",
				IsLive:      true,
			},
			{
				ID:          2,
				Title:       arsenalMC,
				Player1:     "Arsenal",
				Player2:     "Manchester City",
				Player1Odds: d("2.40"),
				Player2Odds: d("3.10"),
				MatchTime:   "Tomorrow 17:30",
				Sport:       "Football",
				IsLive:      false,
			},
		},
		BetOptions: []BetOption{
			{ID: 1, MatchID: 1, Description: "Djokovic 3-0", Odds: d("3.50"), Category: "set_score"},
			{ID: 2, MatchID: 1, Description: "Djokovic 3-1", Odds: d("4.20"), Category: "set_score"},
			{ID: 3, MatchID: 1, Description: "Nadal 3-1", Odds: d("5.80"), Category: "set_score"},
			{ID: 4, MatchID: 1, Description: "Nadal 3-0", Odds: d("6.50"), Category: "set_score"},
			{ID: 5, MatchID: 2, Description: "Arsenal Win", Odds: d("2.40"), Category: "winner"},
			{ID: 6, MatchID: 2, Description: "Draw", Odds: d("3.20"), Category: "winner"},
			{ID: 7, MatchID: 2, Description: "Manchester City Win", Odds: d("3.10"), Category: "winner"},
		},
		Aliases: []AliasGroup{
			{
				Aliases:     []string{"djokovic", "novak"},
				Selection:   "Djokovic",
				Match:       wimbledon,
				GeneralOdds: d("1.75"),
				OutcomeOdds: []OutcomePrice{
					{Outcome: "3-0", Odds: d("3.50")},
					{Outcome: "3-1", Odds: d("4.20")},
				},
			},
			{
				Aliases:     []string{"nadal", "rafael"},
				Selection:   "Nadal",
				Match:       wimbledon,
				GeneralOdds: d("2.10"),
				OutcomeOdds: []OutcomePrice{
					{Outcome: "3-0", Odds: d("6.50")},
					{Outcome: "3-1", Odds: d("5.80")},
				},
			},
			{
				Aliases:     []string{"arsenal"},
				Selection:   "Arsenal",
				Match:       arsenalMC,
				GeneralOdds: d("2.40"),
			},
			{
				Aliases:     []string{"manchester city", "man city", "manchester", "city"},
				Selection:   "Manchester City",
				Match:       arsenalMC,
				GeneralOdds: d("3.10"),
			},
			{
				Aliases:     []string{"draw"},
				Selection:   "Draw",
				Match:       arsenalMC,
				GeneralOdds: d("3.20"),
			},
		},
	}
}
