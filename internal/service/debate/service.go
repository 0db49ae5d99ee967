package debate

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/pkg/log"
)

// apologyMessage is the fixed reply when extraction fails. Session state is
// left untouched; the user's next utterance is the retry mechanism.
const apologyMessage = "Sorry, I didn't quite catch that. Could you say it again?"

type Extractor interface {
	Extract(ctx context.Context, sess *core.Session, utterance string) (core.ExtractionResult, error)
}

type Judge interface {
	Decide(ctx context.Context, question string, answers []core.Answer, scores map[string]int) (core.Verdict, error)
}

// Service is the per-session conversation state machine. Transports drive it
// through Setup, Turn, Teardown and Participants; everything else is
// internal.
type Service struct {
	store         core.SessionStore
	extractor     Extractor
	judge         Judge
	transcript    core.TranscriptRepository // optional
	oracleTimeout time.Duration
	fallback      string
}

func NewService(
	store core.SessionStore,
	extractor Extractor,
	judge Judge,
	transcript core.TranscriptRepository,
	oracleTimeout time.Duration,
) *Service {
	return &Service{
		store:         store,
		extractor:     extractor,
		judge:         judge,
		transcript:    transcript,
		oracleTimeout: oracleTimeout,
		fallback:      judgeFallbackMessage,
	}
}

func (s *Service) Setup(ctx context.Context, id string) error {
	if _, err := s.store.Create(id); err != nil {
		return fmt.Errorf("setup session %s: %w", id, err)
	}
	log.FromCtx(ctx).Debug().Str("session", id).Msg("session created")
	return nil
}

func (s *Service) Teardown(ctx context.Context, id string) {
	s.store.Delete(id)
	log.FromCtx(ctx).Debug().Str("session", id).Msg("session deleted")
}

// Participants is a read-only scoreboard snapshot.
func (s *Service) Participants(ctx context.Context, id string) ([]core.Participant, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Participants(), nil
}

// Turn runs one utterance through the state machine and returns the uniform
// response envelope. The session lock is held for the whole turn, so two
// interleaved turns on one session cannot corrupt answers or scores.
func (s *Service) Turn(ctx context.Context, id, utterance string) (core.Envelope, error) {
	logger := log.FromCtx(ctx)

	sess, err := s.store.Get(id)
	if err != nil {
		return core.Envelope{}, err
	}

	sess.Lock()
	defer sess.Unlock()

	sess.History = append(sess.History, core.Message{Role: core.RoleUser, Content: utterance})
	s.record(ctx, id, core.RoleUser, utterance, "")

	octx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	res, err := s.extractor.Extract(octx, sess, utterance)
	cancel()
	if err != nil {
		logger.Warn().Err(err).Str("session", id).Msg("extraction failed")
		// Structured state stays untouched; not even the apology goes into
		// the oracle context.
		return core.Envelope{
			Type:         core.EnvelopeMessage,
			Content:      apologyMessage,
			Participants: sess.Participants(),
		}, nil
	}

	// The transport may have closed while the oracle was thinking. A result
	// for a deleted session is discarded, not applied.
	if live, err := s.store.Get(id); err != nil || live != sess {
		logger.Debug().Str("session", id).Msg("discarding oracle result for deleted session")
		return core.Envelope{}, core.ErrSessionNotFound
	}

	s.merge(sess, res)

	if sess.State == core.StateReadyForJudgment && len(sess.Answers) >= 2 {
		return s.adjudicate(ctx, sess)
	}

	return s.reply(ctx, sess, core.Envelope{
		Type:         core.EnvelopeMessage,
		Content:      res.NextPrompt,
		Participants: sess.Participants(),
	}), nil
}

// merge applies the oracle's delta: question overwrites (last write wins),
// answers append, and the reported state is trusted except for the safety
// net. An oracle error of omission cannot strand a round that already holds
// two answers.
func (s *Service) merge(sess *core.Session, res core.ExtractionResult) {
	if res.Question != "" {
		sess.Question = res.Question
	}
	for _, a := range res.Answers {
		if a.Relationship == "" {
			a.Relationship = core.RelationshipUnknown
		}
		sess.Answers = append(sess.Answers, a)
	}
	sess.State = res.NextState
	if len(sess.Answers) >= 2 {
		sess.State = core.StateReadyForJudgment
	}
}

const judgeFallbackMessage = "I'm having trouble making a judgment right now. Please try again in a moment."

func (s *Service) adjudicate(ctx context.Context, sess *core.Session) (core.Envelope, error) {
	octx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	verdict, err := s.judge.Decide(octx, sess.Question, sess.Answers, sess.Scores)
	cancel()
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", sess.ID).Msg("judgment failed")
		return s.reply(ctx, sess, core.Envelope{
			Type:         core.EnvelopeMessage,
			Content:      s.fallback,
			Participants: sess.Participants(),
		}), nil
	}

	env := core.Envelope{
		Type:         core.EnvelopeJudgment,
		Content:      verdict.Text,
		Winner:       verdict.Winner,
		Participants: sess.Participants(),
	}
	sess.History = append(sess.History, core.Message{Role: core.RoleAssistant, Content: verdict.Text})
	s.record(ctx, sess.ID, core.RoleAssistant, verdict.Text, verdict.Winner)

	// A delivered verdict ends the round: question and answers reset,
	// scores and history carry over to the next one.
	sess.Question = ""
	sess.Answers = nil
	sess.State = core.StateCollectingQuestion

	return env, nil
}

func (s *Service) reply(ctx context.Context, sess *core.Session, env core.Envelope) core.Envelope {
	if env.Content != "" {
		sess.History = append(sess.History, core.Message{Role: core.RoleAssistant, Content: env.Content})
		s.record(ctx, sess.ID, core.RoleAssistant, env.Content, "")
	}
	return env
}

// record appends to the audit transcript. Best effort: a broken audit log
// must not fail the turn.
func (s *Service) record(ctx context.Context, sessionID, role, content, winner string) {
	if s.transcript == nil {
		return
	}
	entry := core.TranscriptEntry{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Winner:    winner,
	}
	if err := s.transcript.Append(ctx, entry); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session", sessionID).Msg("failed to append transcript entry")
	}
}
