package core

import (
	"sort"
	"sync"
)

type ConversationState string

const (
	StateCollectingQuestion ConversationState = "collecting_question"
	StateCollectingAnswers  ConversationState = "collecting_answers"
	StateReadyForJudgment   ConversationState = "ready_for_judgment"
)

func (s ConversationState) Valid() bool {
	switch s {
	case StateCollectingQuestion, StateCollectingAnswers, StateReadyForJudgment:
		return true
	}
	return false
}

type ExtractionAction string

const (
	ActionCollectMore       ExtractionAction = "collect_more"
	ActionAnalyzeAndRespond ExtractionAction = "analyze_and_respond"
)

func (a ExtractionAction) Valid() bool {
	return a == ActionCollectMore || a == ActionAnalyzeAndRespond
}

// RelationshipUnknown is the default tag when the speaker's relation to the
// caller was never stated.
const RelationshipUnknown = "unknown"

// Answer is one submitted position: who said it, how they relate to the
// caller, and what they claim.
type Answer struct {
	Person       string `json:"person"`
	Relationship string `json:"relationship,omitempty"`
	Position     string `json:"position"`
}

// ExtractionResult is the structured delta the extraction oracle reports for
// a single utterance.
type ExtractionResult struct {
	Action     ExtractionAction  `json:"action"`
	Question   string            `json:"question,omitempty"`
	Answers    []Answer          `json:"answers"`
	NextPrompt string            `json:"next_prompt"`
	NextState  ConversationState `json:"next_state"`
}

// Verdict is the outcome of one round: the spoken ruling plus the declared
// winner ("" when the round ended in a tie or with nobody right).
type Verdict struct {
	Text   string `json:"text"`
	Winner string `json:"winner,omitempty"`
}

// Session holds the full per-conversation state. One transport connection
// owns a session; the embedded mutex serializes read-modify-write turns on
// it (two interleaved turns must not corrupt answers or scores).
type Session struct {
	ID       string
	History  []Message
	State    ConversationState
	Question string
	Answers  []Answer
	Scores   map[string]int

	mu sync.Mutex
}

func NewSession(id string) *Session {
	return &Session{
		ID:     id,
		State:  StateCollectingQuestion,
		Scores: map[string]int{},
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Participants snapshots the scoreboard sorted by descending score, name
// ascending as the tiebreak. Caller must hold the session lock.
func (s *Session) Participants() []Participant {
	out := make([]Participant, 0, len(s.Scores))
	for name, score := range s.Scores {
		out = append(out, Participant{Name: name, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type Participant struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type EnvelopeType string

const (
	EnvelopeMessage  EnvelopeType = "message"
	EnvelopeJudgment EnvelopeType = "judgment"
)

// Envelope is the uniform per-turn response every transport renders.
type Envelope struct {
	Type         EnvelopeType  `json:"type"`
	Content      string        `json:"content"`
	Winner       string        `json:"winner,omitempty"`
	Participants []Participant `json:"participants"`
}
