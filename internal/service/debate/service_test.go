package debate

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/internal/service/extract"
	"github.com/sandevgo/verdictbot/internal/service/judge"
	"github.com/sandevgo/verdictbot/internal/storage/memory"
)

type stubExtractor struct {
	res    core.ExtractionResult
	err    error
	onCall func()
}

func (s *stubExtractor) Extract(_ context.Context, _ *core.Session, _ string) (core.ExtractionResult, error) {
	if s.onCall != nil {
		s.onCall()
	}
	return s.res, s.err
}

type stubJudge struct {
	verdict core.Verdict
	err     error
	calls   int
}

func (s *stubJudge) Decide(_ context.Context, _ string, answers []core.Answer, scores map[string]int) (core.Verdict, error) {
	s.calls++
	if s.err != nil {
		return core.Verdict{}, s.err
	}
	if s.verdict.Winner != "" {
		scores[s.verdict.Winner]++
	}
	return s.verdict, nil
}

func newTestService(ex Extractor, j Judge) (*Service, core.SessionStore) {
	store := memory.NewStore()
	return NewService(store, ex, j, nil, time.Second), store
}

func TestSetup_Duplicate(t *testing.T) {
	svc, _ := newTestService(&stubExtractor{}, &stubJudge{})
	ctx := context.Background()

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Setup(ctx, "s1"); !errors.Is(err, core.ErrDuplicateSession) {
		t.Errorf("expected ErrDuplicateSession, got %v", err)
	}
}

func TestTurn_UnknownSession(t *testing.T) {
	svc, _ := newTestService(&stubExtractor{}, &stubJudge{})
	if _, err := svc.Turn(context.Background(), "nope", "hi"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTurn_CollectsBeforeJudging(t *testing.T) {
	ex := &stubExtractor{res: core.ExtractionResult{
		Action:     core.ActionCollectMore,
		Question:   "are tomatoes fruit?",
		Answers:    []core.Answer{{Person: "Jack", Relationship: "brother", Position: "no"}},
		NextPrompt: "And who disagrees?",
		NextState:  core.StateCollectingAnswers,
	}}
	j := &stubJudge{}
	svc, store := newTestService(ex, j)
	ctx := context.Background()

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	env, err := svc.Turn(ctx, "s1", "Jack says tomatoes are not fruit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Type != core.EnvelopeMessage {
		t.Errorf("type = %q, want message", env.Type)
	}
	if env.Content != "And who disagrees?" {
		t.Errorf("content = %q", env.Content)
	}
	if j.calls != 0 {
		t.Errorf("judge consulted with a single answer")
	}
	// scoreboard registration happens at judgment, not collection: a
	// mid-round envelope lists nobody until a verdict has been rendered
	if len(env.Participants) != 0 {
		t.Errorf("mid-round participants = %+v, want none", env.Participants)
	}

	sess, _ := store.Get("s1")
	if sess.Question != "are tomatoes fruit?" {
		t.Errorf("question = %q", sess.Question)
	}
	if len(sess.Answers) != 1 {
		t.Errorf("answers = %+v", sess.Answers)
	}
	if sess.State != core.StateCollectingAnswers {
		t.Errorf("state = %q", sess.State)
	}
}

func TestTurn_JudgmentAndRoundReset(t *testing.T) {
	ex := &stubExtractor{res: core.ExtractionResult{
		Action:    core.ActionAnalyzeAndRespond,
		Answers:   []core.Answer{{Person: "Tom", Relationship: "friend", Position: "yes"}},
		NextState: core.StateReadyForJudgment,
	}}
	j := &stubJudge{verdict: core.Verdict{Text: "Tom is right!", Winner: "Tom"}}
	svc, store := newTestService(ex, j)
	ctx := context.Background()

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	sess, _ := store.Get("s1")
	sess.Question = "are tomatoes fruit?"
	sess.Answers = []core.Answer{{Person: "Jack", Relationship: "brother", Position: "no"}}
	sess.State = core.StateCollectingAnswers

	env, err := svc.Turn(ctx, "s1", "Tom says yes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Type != core.EnvelopeJudgment {
		t.Errorf("type = %q, want judgment", env.Type)
	}
	if env.Winner != "Tom" {
		t.Errorf("winner = %q", env.Winner)
	}
	if len(env.Participants) == 0 || env.Participants[0].Name != "Tom" || env.Participants[0].Score != 1 {
		t.Errorf("participants = %+v", env.Participants)
	}

	// round is over: question and answers cleared, scores carried over
	if sess.Question != "" || sess.Answers != nil {
		t.Errorf("round not reset: question=%q answers=%+v", sess.Question, sess.Answers)
	}
	if sess.State != core.StateCollectingQuestion {
		t.Errorf("state = %q, want %q", sess.State, core.StateCollectingQuestion)
	}
	if sess.Scores["Tom"] != 1 {
		t.Errorf("scores = %v", sess.Scores)
	}
}

func TestTurn_ClampsStateAtTwoAnswers(t *testing.T) {
	// The oracle forgets to advance the state, but the round already holds
	// two answers. The clamp forces judgment anyway.
	ex := &stubExtractor{res: core.ExtractionResult{
		Action:    core.ActionCollectMore,
		Answers:   []core.Answer{{Person: "Tom", Position: "yes"}},
		NextState: core.StateCollectingAnswers,
	}}
	j := &stubJudge{verdict: core.Verdict{Text: "tie", Winner: ""}}
	svc, store := newTestService(ex, j)
	ctx := context.Background()

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	sess, _ := store.Get("s1")
	sess.Question = "q"
	sess.Answers = []core.Answer{{Person: "Jack", Position: "no"}}
	sess.State = core.StateCollectingAnswers

	env, err := svc.Turn(ctx, "s1", "Tom says yes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Type != core.EnvelopeJudgment {
		t.Errorf("type = %q, want judgment", env.Type)
	}
	if j.calls != 1 {
		t.Errorf("judge calls = %d, want 1", j.calls)
	}
}

func TestTurn_NeverJudgesWithOneAnswer(t *testing.T) {
	// The oracle jumps the gun and reports ready_for_judgment after a single
	// answer. The state machine must keep collecting.
	ex := &stubExtractor{res: core.ExtractionResult{
		Action:    core.ActionAnalyzeAndRespond,
		Question:  "q",
		Answers:   []core.Answer{{Person: "Jack", Position: "no"}},
		NextState: core.StateReadyForJudgment,
	}}
	j := &stubJudge{verdict: core.Verdict{Text: "x", Winner: "Jack"}}
	svc, _ := newTestService(ex, j)
	ctx := context.Background()

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	env, err := svc.Turn(ctx, "s1", "Jack says no")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Type != core.EnvelopeMessage {
		t.Errorf("type = %q, want message", env.Type)
	}
	if j.calls != 0 {
		t.Errorf("judge invoked with a single answer")
	}
}

func TestTurn_ApologyOnExtractionFailure(t *testing.T) {
	ex := &stubExtractor{err: core.ErrExtractionFailed}
	j := &stubJudge{}
	svc, store := newTestService(ex, j)
	ctx := context.Background()

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	sess, _ := store.Get("s1")
	sess.Question = "q"
	sess.Answers = []core.Answer{{Person: "Jack", Position: "no"}}
	sess.State = core.StateCollectingAnswers
	sess.Scores["Jack"] = 3

	env, err := svc.Turn(ctx, "s1", "garbled")
	if err != nil {
		t.Fatalf("turn must not fail on extraction errors, got %v", err)
	}
	if env.Type != core.EnvelopeMessage || env.Content != apologyMessage {
		t.Errorf("envelope = %+v", env)
	}
	if len(env.Participants) != 1 || env.Participants[0].Score != 3 {
		t.Errorf("participants = %+v", env.Participants)
	}

	// structured state is exactly as it was
	if sess.Question != "q" || len(sess.Answers) != 1 || sess.State != core.StateCollectingAnswers {
		t.Errorf("state mutated on failed extraction: %+v", sess)
	}
	if j.calls != 0 {
		t.Errorf("judge consulted after failed extraction")
	}
}

func TestTurn_JudgeFallbackKeepsRound(t *testing.T) {
	ex := &stubExtractor{res: core.ExtractionResult{
		Action:    core.ActionAnalyzeAndRespond,
		Answers:   []core.Answer{{Person: "Tom", Position: "yes"}},
		NextState: core.StateReadyForJudgment,
	}}
	j := &stubJudge{err: core.ErrJudgmentFailed}
	svc, store := newTestService(ex, j)
	ctx := context.Background()

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	sess, _ := store.Get("s1")
	sess.Question = "q"
	sess.Answers = []core.Answer{{Person: "Jack", Position: "no"}}
	sess.State = core.StateCollectingAnswers

	env, err := svc.Turn(ctx, "s1", "Tom says yes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Type != core.EnvelopeMessage || env.Content != judgeFallbackMessage {
		t.Errorf("envelope = %+v", env)
	}

	// the round survives so the next utterance can retry judgment
	if len(sess.Answers) != 2 || sess.State != core.StateReadyForJudgment {
		t.Errorf("round lost after judge failure: answers=%+v state=%q", sess.Answers, sess.State)
	}
}

func TestTurn_DiscardsResultForDeletedSession(t *testing.T) {
	svc, store := newTestService(nil, &stubJudge{})
	ctx := context.Background()

	ex := &stubExtractor{
		res: core.ExtractionResult{
			Action:    core.ActionCollectMore,
			NextState: core.StateCollectingQuestion,
		},
		onCall: func() { store.Delete("s1") },
	}
	svc.extractor = ex

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Turn(ctx, "s1", "hi"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestParticipants_Sorted(t *testing.T) {
	svc, store := newTestService(&stubExtractor{}, &stubJudge{})
	ctx := context.Background()

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	sess, _ := store.Get("s1")
	sess.Scores = map[string]int{"Jack": 1, "Lori": 2, "Tom": 1}

	got, err := svc.Participants(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []core.Participant{{Name: "Lori", Score: 2}, {Name: "Jack", Score: 1}, {Name: "Tom", Score: 1}}
	if len(got) != len(want) {
		t.Fatalf("got %d participants, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("participants[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	// read-only: a second call with no turn in between is identical
	again, err := svc.Participants(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Errorf("second snapshot differs: %+v vs %+v", got, again)
	}
}

// scriptedOracle replays canned completions in order, shared across the
// extraction and adjudication callers.
type scriptedOracle struct {
	responses []string
	next      int
}

func (s *scriptedOracle) Complete(_ context.Context, _ core.CompletionRequest) (core.Message, error) {
	if s.next >= len(s.responses) {
		return core.Message{}, errors.New("script exhausted")
	}
	resp := s.responses[s.next]
	s.next++
	return core.Message{Role: core.RoleAssistant, Content: resp}, nil
}

func TestTurn_FullRound(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`{"action":"collect_more","question":"do heavier objects fall faster?","answers":[{"person":"Jack","relationship":"brother","position":"they fall at the same rate"}],"next_prompt":"And what does the other side claim?","next_state":"collecting_answers"}`,
		`{"action":"analyze_and_respond","question":"","answers":[{"person":"Tom","relationship":"friend","position":"heavier falls faster"}],"next_prompt":"","next_state":"ready_for_judgment"}`,
		`{"winner":"Jack","explanation":"Galileo settled this one."}`,
	}}

	store := memory.NewStore()
	svc := NewService(store, extract.New(oracle, 2048), judge.New(oracle), nil, time.Second)
	ctx := context.Background()

	if err := svc.Setup(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	env, err := svc.Turn(ctx, "s1", "Jack and I argue about falling objects. He says they fall at the same rate.")
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if env.Type != core.EnvelopeMessage || env.Content != "And what does the other side claim?" {
		t.Fatalf("turn 1 envelope = %+v", env)
	}

	env, err = svc.Turn(ctx, "s1", "Tom insists heavier objects fall faster.")
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	if env.Type != core.EnvelopeJudgment {
		t.Fatalf("turn 2 type = %q, want judgment", env.Type)
	}
	if env.Winner != "Jack" {
		t.Errorf("winner = %q, want Jack", env.Winner)
	}
	if len(env.Participants) != 2 || env.Participants[0].Name != "Jack" || env.Participants[0].Score != 1 {
		t.Errorf("participants = %+v", env.Participants)
	}

	sess, _ := store.Get("s1")
	if sess.State != core.StateCollectingQuestion || sess.Question != "" || sess.Answers != nil {
		t.Errorf("round not reset after verdict")
	}
	if sess.Scores["Jack"] != 1 || sess.Scores["Tom"] != 0 {
		t.Errorf("scores = %v", sess.Scores)
	}
}
