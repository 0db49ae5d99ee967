package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/pkg/log"
	"github.com/sandevgo/verdictbot/pkg/schema"
)

const (
	tieToken  = "tie"
	noneToken = "none"
	signOff   = " And that's my final ruling. Bring me your next dispute!"
)

// adjudication is the schema-validated reply of the reasoning oracle.
// winner must be an exact participant name, "tie", or "none".
type adjudication struct {
	Winner      string `json:"winner"`
	Explanation string `json:"explanation"`
}

var adjudicationSchema = &core.ResponseSchema{
	Name:   "debate_adjudication",
	Schema: schema.MustGenerate(&adjudication{}),
}

// Engine produces the final verdict for a round. It is the only writer of
// the scoreboard.
type Engine struct {
	oracle core.Oracle
	pick   func(n int) int
}

func New(oracle core.Oracle) *Engine {
	return &Engine{
		oracle: oracle,
		pick:   rand.Intn,
	}
}

// Decide renders the verdict for question and answers, mutating scores in
// place. Every person in answers is registered with score 0 first, so a
// later failure still leaves participants visible on the scoreboard.
// A wife-tagged answer wins unconditionally and never consults the oracle.
func (e *Engine) Decide(ctx context.Context, question string, answers []core.Answer, scores map[string]int) (core.Verdict, error) {
	for _, a := range answers {
		if _, ok := scores[a.Person]; !ok {
			scores[a.Person] = 0
		}
	}

	if wife, ok := wifeOverride(answers); ok {
		scores[wife]++
		text := topicClause(question) +
			fmt.Sprintf("%s is right! %s.", wife, justifications[e.pick(len(justifications))]) +
			signOff
		log.FromCtx(ctx).Info().Str("winner", wife).Msg("wife override applied")
		return core.Verdict{Text: text, Winner: wife}, nil
	}

	result, err := e.adjudicate(ctx, question, answers)
	if err != nil {
		return core.Verdict{}, err
	}

	var phrase, winner string
	switch result.Winner {
	case tieToken:
		phrase = "it's a tie!"
	case noneToken:
		phrase = "nobody is right this time!"
	default:
		if _, ok := scores[result.Winner]; !ok {
			return core.Verdict{}, fmt.Errorf("%w: winner %q is not a participant", core.ErrJudgmentFailed, result.Winner)
		}
		winner = result.Winner
		scores[winner]++
		phrase = fmt.Sprintf("%s is right!", winner)
	}

	text := topicClause(question) + phrase + " " + result.Explanation + signOff
	return core.Verdict{Text: text, Winner: winner}, nil
}

func (e *Engine) adjudicate(ctx context.Context, question string, answers []core.Answer) (adjudication, error) {
	resp, err := e.oracle.Complete(ctx, core.CompletionRequest{
		Messages: []core.Message{
			{Role: core.RoleSystem, Content: adjudicationInstructions},
			{Role: core.RoleUser, Content: buildAdjudicationPrompt(question, answers)},
		},
		Schema: adjudicationSchema,
	})
	if err != nil {
		return adjudication{}, fmt.Errorf("%w: oracle: %v", core.ErrJudgmentFailed, err)
	}

	raw := schema.ExtractObject(resp.Content)
	if raw == "" {
		return adjudication{}, fmt.Errorf("%w: no JSON object in response", core.ErrJudgmentFailed)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var result adjudication
	if err := dec.Decode(&result); err != nil {
		return adjudication{}, fmt.Errorf("%w: decode: %v", core.ErrJudgmentFailed, err)
	}
	if result.Winner == "" {
		return adjudication{}, fmt.Errorf("%w: empty winner", core.ErrJudgmentFailed)
	}
	return result, nil
}

// wifeOverride reports the first wife-tagged participant. Matching is
// case-insensitive and contains-based ("my wife" counts).
func wifeOverride(answers []core.Answer) (string, bool) {
	for _, a := range answers {
		if strings.Contains(strings.ToLower(a.Relationship), "wife") {
			return a.Person, true
		}
	}
	return "", false
}

func topicClause(question string) string {
	return fmt.Sprintf("On the question of %q: ", truncateTopic(question))
}

const maxTopicLen = 50

// truncateTopic counts runes, not bytes: a multibyte question must never be
// cut mid-rune into invalid UTF-8.
func truncateTopic(question string) string {
	runes := []rune(question)
	if len(runes) <= maxTopicLen {
		return question
	}
	return string(runes[:maxTopicLen]) + "..."
}
