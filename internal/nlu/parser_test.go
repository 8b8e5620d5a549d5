package nlu_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/voxbet/terminal/internal/domain"
	"github.com/voxbet/terminal/internal/nlu"
)

func TestParse_BetWithOutcome(t *testing.T) {
	p := nlu.NewParser()

	in := p.Parse("bet 10 pounds on Djokovic to win 3-0")
	if in.Type != domain.IntentBet {
		t.Fatalf("type = %s, want bet", in.Type)
	}
	if !in.Stake.Equal(decimal.NewFromInt(10)) {
		t.Errorf("stake = %s, want 10", in.Stake)
	}
	if in.RawSelection != "djokovic" {
		t.Errorf("rawSelection = %q, want djokovic", in.RawSelection)
	}
	if in.RawOutcome != "3-0" {
		t.Errorf("rawOutcome = %q, want 3-0", in.RawOutcome)
	}
	if in.ExplicitOdds != nil {
		t.Errorf("no explicit odds spoken, got %s", in.ExplicitOdds)
	}
}

// The outcome-bearing template must win before the permissive one, else
// "to win" text leaks into the selection.
func TestParse_TemplatePriority(t *testing.T) {
	p := nlu.NewParser()

	in := p.Parse("bet 10 pounds on Djokovic to win")
	if in.Type != domain.IntentBet {
		t.Fatalf("type = %s, want bet", in.Type)
	}
	if in.RawSelection != "djokovic" {
		t.Errorf("rawSelection = %q — outcome text leaked into the selection", in.RawSelection)
	}
	if in.RawOutcome != "" {
		t.Errorf("rawOutcome = %q, want empty", in.RawOutcome)
	}
}

func TestParse_BetSimple(t *testing.T) {
	p := nlu.NewParser()

	in := p.Parse("bet 75 on Arsenal")
	if in.Type != domain.IntentBet {
		t.Fatalf("type = %s, want bet", in.Type)
	}
	if !in.Stake.Equal(decimal.NewFromInt(75)) {
		t.Errorf("stake = %s, want 75", in.Stake)
	}
	if in.RawSelection != "arsenal" {
		t.Errorf("rawSelection = %q, want arsenal", in.RawSelection)
	}
}

func TestParse_DecimalStakeAndCurrencyVariants(t *testing.T) {
	p := nlu.NewParser()

	for _, cmd := range []string{
		"bet 12.50 pounds on Nadal",
		"bet £12.50 on Nadal",
		"place 12.50 dollars on Nadal",
		"place a bet 12.50 on Nadal",
	} {
		in := p.Parse(cmd)
		if in.Type != domain.IntentBet {
			t.Errorf("%q: type = %s, want bet", cmd, in.Type)
			continue
		}
		if !in.Stake.Equal(decimal.NewFromFloat(12.5)) {
			t.Errorf("%q: stake = %s, want 12.5", cmd, in.Stake)
		}
		if in.RawSelection != "nadal" {
			t.Errorf("%q: rawSelection = %q, want nadal", cmd, in.RawSelection)
		}
	}
}

func TestParse_ExplicitOdds(t *testing.T) {
	p := nlu.NewParser()

	in := p.Parse("bet 20 on Djokovic to win 3-1 at odds 5.5")
	if in.Type != domain.IntentBet {
		t.Fatalf("type = %s, want bet", in.Type)
	}
	if in.ExplicitOdds == nil {
		t.Fatal("expected explicit odds to be captured")
	}
	if !in.ExplicitOdds.Equal(decimal.NewFromFloat(5.5)) {
		t.Errorf("explicitOdds = %s, want 5.5", in.ExplicitOdds)
	}
}

func TestParse_ShowOdds(t *testing.T) {
	p := nlu.NewParser()

	for _, cmd := range []string{"show me current odds", "show odds", "please show the odds"} {
		in := p.Parse(cmd)
		if in.Type != domain.IntentShowOdds {
			t.Errorf("%q: type = %s, want show_odds", cmd, in.Type)
		}
	}
}

func TestParse_CancelBet(t *testing.T) {
	p := nlu.NewParser()

	for _, cmd := range []string{"cancel my last bet", "remove that bet", "delete the bet"} {
		in := p.Parse(cmd)
		if in.Type != domain.IntentCancelBet {
			t.Errorf("%q: type = %s, want cancel_bet", cmd, in.Type)
		}
	}
}

func TestParse_Affirm(t *testing.T) {
	p := nlu.NewParser()

	for _, cmd := range []string{"yes", "Yes.", "yes yes", "YES yes."} {
		in := p.Parse(cmd)
		if in.Type != domain.IntentAffirm {
			t.Errorf("%q: type = %s, want affirm", cmd, in.Type)
		}
	}
	// "yesterday" must not affirm anything.
	if in := p.Parse("yesterday"); in.Type == domain.IntentAffirm {
		t.Error("\"yesterday\" should not parse as an affirmation")
	}
}

func TestParse_UnknownNeverFails(t *testing.T) {
	p := nlu.NewParser()

	for _, cmd := range []string{"asdkj qwoiej", "", "   ", "bet on nothing", "win 10 on bet"} {
		in := p.Parse(cmd)
		if in.Type != domain.IntentUnknown {
			t.Errorf("%q: type = %s, want unknown", cmd, in.Type)
		}
	}

	in := p.Parse("asdkj qwoiej")
	if in.RawText != "asdkj qwoiej" {
		t.Errorf("unknown intent should keep the raw text, got %q", in.RawText)
	}
}

func TestParse_ConfidenceLevels(t *testing.T) {
	p := nlu.NewParser()

	if c := p.Parse("bet 10 on Arsenal").Confidence; c != 0.8 {
		t.Errorf("bet confidence = %v, want 0.8", c)
	}
	if c := p.Parse("show odds").Confidence; c != 0.9 {
		t.Errorf("show_odds confidence = %v, want 0.9", c)
	}
	if c := p.Parse("gibberish").Confidence; c != 0.1 {
		t.Errorf("unknown confidence = %v, want 0.1", c)
	}
}
