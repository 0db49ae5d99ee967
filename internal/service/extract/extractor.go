package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/pkg/log"
	"github.com/sandevgo/verdictbot/pkg/schema"
)

var resultSchema = &core.ResponseSchema{
	Name:   "debate_extraction",
	Schema: schema.MustGenerate(&core.ExtractionResult{}),
}

// Adapter turns a raw utterance plus current session state into a structured
// delta by consulting the extraction oracle. An unreachable oracle and a
// schema-invalid reply are indistinguishable to callers: both surface as
// core.ErrExtractionFailed.
type Adapter struct {
	oracle      core.Oracle
	tokenBudget int
}

func New(oracle core.Oracle, tokenBudget int) *Adapter {
	return &Adapter{
		oracle:      oracle,
		tokenBudget: tokenBudget,
	}
}

// Extract expects sess.History to already end with the current utterance;
// earlier turns are sent as trimmed context. Caller holds the session lock.
func (a *Adapter) Extract(ctx context.Context, sess *core.Session, utterance string) (core.ExtractionResult, error) {
	messages := make([]core.Message, 0, len(sess.History)+3)
	messages = append(messages,
		core.Message{Role: core.RoleSystem, Content: systemInstructions},
		core.Message{Role: core.RoleSystem, Content: buildStateContext(sess)},
	)

	prior := sess.History
	if len(prior) > 0 {
		prior = prior[:len(prior)-1]
	}
	messages = append(messages, trimToBudget(prior, a.tokenBudget)...)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: utterance})

	resp, err := a.oracle.Complete(ctx, core.CompletionRequest{
		Messages: messages,
		Schema:   resultSchema,
	})
	if err != nil {
		return core.ExtractionResult{}, fmt.Errorf("%w: oracle: %v", core.ErrExtractionFailed, err)
	}

	res, err := decodeResult(resp.Content)
	if err != nil {
		log.FromCtx(ctx).Debug().Str("content", resp.Content).Msg("rejected extraction response")
		return core.ExtractionResult{}, err
	}
	return res, nil
}

func buildStateContext(sess *core.Session) string {
	data, _ := json.Marshal(struct {
		State    core.ConversationState `json:"conversation_state"`
		Question string                 `json:"question"`
		Answers  []core.Answer          `json:"answers"`
	}{sess.State, sess.Question, sess.Answers})

	return "CURRENT STRUCTURED DATA:\n" + string(data)
}

// decodeResult enforces the strict shape of the oracle contract. Anything
// off-schema is rejected outright rather than partially trusted.
func decodeResult(content string) (core.ExtractionResult, error) {
	raw := schema.ExtractObject(content)
	if raw == "" {
		return core.ExtractionResult{}, fmt.Errorf("%w: no JSON object in response", core.ErrExtractionFailed)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var res core.ExtractionResult
	if err := dec.Decode(&res); err != nil {
		return core.ExtractionResult{}, fmt.Errorf("%w: decode: %v", core.ErrExtractionFailed, err)
	}

	if !res.Action.Valid() {
		return core.ExtractionResult{}, fmt.Errorf("%w: bad action %q", core.ErrExtractionFailed, res.Action)
	}
	if !res.NextState.Valid() {
		return core.ExtractionResult{}, fmt.Errorf("%w: bad next_state %q", core.ErrExtractionFailed, res.NextState)
	}
	for i := range res.Answers {
		if strings.TrimSpace(res.Answers[i].Person) == "" {
			return core.ExtractionResult{}, fmt.Errorf("%w: answer %d has no person", core.ErrExtractionFailed, i)
		}
		if strings.TrimSpace(res.Answers[i].Relationship) == "" {
			res.Answers[i].Relationship = core.RelationshipUnknown
		}
	}

	return res, nil
}
