package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/voxbet/terminal/internal/config"
	"github.com/voxbet/terminal/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// OracleService
// ──────────────────────────────────────────────────────────────────────────────

// OracleService asks an OpenAI-compatible chat completions endpoint to
// interpret an utterance. The reply is converted into the same domain.Intent
// the deterministic parser produces, confidence included, so downstream code
// never knows which producer ran. Every failure maps to
// domain.ErrOracleUnavailable; the caller degrades to the parser.
type OracleService struct {
	client *http.Client
	cfg    *config.OracleConfig
	prompt string
}

// NewOracleService constructs an OracleService from the given config and
// catalogue. The system prompt enumerates the known selections so the model
// can normalise entities the same way the resolver does.
func NewOracleService(cfg *config.Config, cat *domain.Catalogue) *OracleService {
	return &OracleService{
		client: &http.Client{Timeout: cfg.Oracle.Timeout},
		cfg:    &cfg.Oracle,
		prompt: buildSystemPrompt(cat),
	}
}

// buildSystemPrompt renders the extraction contract plus the live catalogue.
func buildSystemPrompt(cat *domain.Catalogue) string {
	var b strings.Builder
	b.WriteString("You are a betting command validator for a voice betting terminal.\n")
	b.WriteString("Known selections and their events:\n")
	for _, g := range cat.Aliases {
		fmt.Fprintf(&b, "- %s (%s), aliases: %s, odds %s\n",
			g.Selection, g.Match, strings.Join(g.Aliases, ", "), g.GeneralOdds.String())
	}
	b.WriteString(`
Interpret the user's command and respond ONLY with a JSON object:
{"action": "bet" | "show_odds" | "cancel_bet" | "affirm" | "unknown",
 "selection": "<canonical selection or empty>",
 "outcome": "<score outcome like 3-0, or empty>",
 "amount": "<stake as a decimal string, or empty>",
 "odds": "<odds as a decimal string when the user states them, or empty>",
 "confidence": <number between 0 and 1>}
Use "unknown" with a low confidence when the command is not a betting command.`)
	return b.String()
}

// ──────────────────────────────────────────────────────────────────────────────
// Wire types — OpenAI chat completions subset
// ──────────────────────────────────────────────────────────────────────────────

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// oracleVerdict is the JSON object the model is instructed to emit.
type oracleVerdict struct {
	Action     string  `json:"action"`
	Selection  string  `json:"selection"`
	Outcome    string  `json:"outcome"`
	Amount     string  `json:"amount"`
	Odds       string  `json:"odds"`
	Confidence float64 `json:"confidence"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Interpret
// ──────────────────────────────────────────────────────────────────────────────

// Interpret asks the model to classify one utterance.
func (s *OracleService) Interpret(ctx context.Context, command string) (domain.Intent, error) {
	if s.cfg.APIKey == "" {
		return domain.Intent{}, domain.ErrOracleUnavailable
	}

	reqBody := chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: s.prompt},
			{Role: "user", Content: command},
		},
		Temperature: 0.1,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("oracle_service.Interpret: marshal: %w", err)
	}

	url := s.cfg.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return domain.Intent{}, fmt.Errorf("oracle_service.Interpret: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("oracle_service.Interpret: %w: %v", domain.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Intent{}, fmt.Errorf("oracle_service.Interpret: %w: status %d", domain.ErrOracleUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("oracle_service.Interpret: %w: read body: %v", domain.ErrOracleUnavailable, err)
	}

	var chat chatResponse
	if err = json.Unmarshal(body, &chat); err != nil {
		return domain.Intent{}, fmt.Errorf("oracle_service.Interpret: %w: parse envelope: %v", domain.ErrOracleUnavailable, err)
	}
	if len(chat.Choices) == 0 {
		return domain.Intent{}, fmt.Errorf("oracle_service.Interpret: %w: empty choices", domain.ErrOracleUnavailable)
	}

	var verdict oracleVerdict
	if err = json.Unmarshal([]byte(chat.Choices[0].Message.Content), &verdict); err != nil {
		return domain.Intent{}, fmt.Errorf("oracle_service.Interpret: %w: parse verdict: %v", domain.ErrOracleUnavailable, err)
	}

	return verdictToIntent(command, verdict), nil
}

// verdictToIntent maps the model's verdict onto the shared Intent shape.
// Malformed fields demote the verdict to unknown rather than erroring: the
// pipeline is total and the gate handles low confidence anyway.
func verdictToIntent(command string, v oracleVerdict) domain.Intent {
	confidence := v.Confidence
	if confidence < 0 || confidence > 1 {
		confidence = 0.1
	}

	switch v.Action {
	case "bet":
		stake, err := decimal.NewFromString(v.Amount)
		if err != nil || !stake.IsPositive() {
			return domain.UnknownIntent(command)
		}
		intent := domain.Intent{
			Type:         domain.IntentBet,
			Stake:        stake,
			RawSelection: v.Selection,
			RawOutcome:   v.Outcome,
			RawText:      command,
			Confidence:   confidence,
		}
		if v.Odds != "" {
			if odds, err := decimal.NewFromString(v.Odds); err == nil && odds.IsPositive() {
				intent.ExplicitOdds = &odds
			}
		}
		return intent
	case "show_odds":
		return domain.Intent{Type: domain.IntentShowOdds, RawText: command, Confidence: confidence}
	case "cancel_bet":
		return domain.Intent{Type: domain.IntentCancelBet, RawText: command, Confidence: confidence}
	case "affirm":
		return domain.Intent{Type: domain.IntentAffirm, RawText: command, Confidence: confidence}
	default:
		return domain.UnknownIntent(command).WithConfidence(confidence)
	}
}
