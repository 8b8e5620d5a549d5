// Package nlu turns free-text betting commands into typed intents and
// resolves selection phrases against the catalogue.
package nlu

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/voxbet/terminal/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Template descriptors
// ──────────────────────────────────────────────────────────────────────────────

// template binds one compiled pattern to its extraction function. Templates
// are tried strictly in declaration order and the first match wins, so the
// outcome-bearing bet pattern must come before the permissive one — else
// "to win 3-0" leaks into the selection field.
type template struct {
	name    string
	pattern *regexp.Regexp
	extract func(groups []string) domain.Intent
}

// Parser confidence levels, matching the deterministic producer's historical
// behaviour: well-formed commands are high-confidence, the fallback is not.
const (
	betConfidence      = 0.8
	showOddsConfidence = 0.9
	cancelConfidence   = 0.9
	affirmConfidence   = 0.95
)

var (
	// "bet 10 pounds on djokovic to win 3-0 at odds 3.5"
	betWithOutcomeRe = regexp.MustCompile(
		`^(?:bet|place)(?:\s+a\s+bet)?\s+(?:£|\$)?(\d+(?:\.\d+)?)\s*(?:pounds?|dollars?|quid)?\s+on\s+(.+?)\s+to\s+win(?:\s+([\d-]+))?(?:\s+at\s+odds\s+(\d+(?:\.\d+)?))?$`)

	// "bet 10 on djokovic" / "place 20 pounds on arsenal"
	betSimpleRe = regexp.MustCompile(
		`^(?:bet|place)(?:\s+a\s+bet)?\s+(?:£|\$)?(\d+(?:\.\d+)?)\s*(?:pounds?|dollars?|quid)?\s+on\s+(.+?)$`)

	// One or more "yes", optionally punctuated: "yes", "yes yes.", "yes."
	affirmRe = regexp.MustCompile(`^(?:yes[\s.,!]*)+$`)
)

// Parser converts raw utterances into intents. It is stateless and safe for
// concurrent use.
type Parser struct {
	templates []template
}

// NewParser builds the parser with its fixed, ordered template list.
func NewParser() *Parser {
	return &Parser{
		templates: []template{
			{
				name:    "bet_with_outcome",
				pattern: betWithOutcomeRe,
				extract: extractBet,
			},
			{
				name:    "bet_simple",
				pattern: betSimpleRe,
				extract: func(g []string) domain.Intent {
					// Pad groups so the shared extractor sees no outcome/odds.
					return extractBet(append(g[:3:3], "", ""))
				},
			},
		},
	}
}

// Parse converts an utterance into an Intent. It is total: anything that
// matches no template becomes IntentUnknown, never an error.
func (p *Parser) Parse(utterance string) domain.Intent {
	normalized := strings.ToLower(strings.TrimSpace(utterance))
	if normalized == "" {
		return domain.UnknownIntent(utterance)
	}

	for _, tpl := range p.templates {
		if groups := tpl.pattern.FindStringSubmatch(normalized); groups != nil {
			in := tpl.extract(groups)
			if in.Type == domain.IntentUnknown {
				in.RawText = utterance
			}
			return in
		}
	}

	// Keyword templates: containment rather than full-string shapes.
	if strings.Contains(normalized, "show") && strings.Contains(normalized, "odds") {
		return domain.Intent{Type: domain.IntentShowOdds, Confidence: showOddsConfidence}
	}
	if containsAny(normalized, "cancel", "remove", "delete") && strings.Contains(normalized, "bet") {
		return domain.Intent{Type: domain.IntentCancelBet, Confidence: cancelConfidence}
	}
	if affirmRe.MatchString(normalized) {
		return domain.Intent{Type: domain.IntentAffirm, Confidence: affirmConfidence}
	}

	return domain.UnknownIntent(utterance)
}

// extractBet maps regex groups [_, amount, selection, outcome?, odds?] to a
// bet intent. A malformed amount demotes the whole match to unknown.
func extractBet(groups []string) domain.Intent {
	stake, err := decimal.NewFromString(groups[1])
	if err != nil || !stake.IsPositive() {
		return domain.UnknownIntent("")
	}

	in := domain.Intent{
		Type:         domain.IntentBet,
		Stake:        stake,
		RawSelection: strings.TrimSpace(groups[2]),
		RawOutcome:   strings.TrimSpace(groups[3]),
		Confidence:   betConfidence,
	}
	if groups[4] != "" {
		if odds, err := decimal.NewFromString(groups[4]); err == nil && odds.IsPositive() {
			in.ExplicitOdds = &odds
		}
	}
	return in
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
