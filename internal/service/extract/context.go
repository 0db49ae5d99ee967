package extract

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/verdictbot/internal/core"
)

var (
	tkOnce sync.Once
	tk     *tiktoken.Tiktoken
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

// trimToBudget drops the oldest turns until the remaining context fits the
// token budget. The current utterance and the system instructions are not
// part of the budget.
func trimToBudget(history []core.Message, budget int) []core.Message {
	if budget <= 0 || len(history) == 0 {
		return history
	}

	enc := getTokenizer()
	total := 0
	cut := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		total += len(enc.Encode(history[i].Content, nil, nil))
		if total > budget {
			break
		}
		cut = i
	}

	return history[cut:]
}
