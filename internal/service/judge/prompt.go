package judge

import (
	"fmt"
	"strings"

	"github.com/sandevgo/verdictbot/internal/core"
)

const adjudicationInstructions = `You are the judge of a lighthearted debate-settling service. You are given a question and the positions of the participants, in the order they were submitted. Decide who is factually right.

Set "winner" to the exact name of the winning participant. If the positions are equally defensible, set "winner" to "tie". If everyone is wrong, set "winner" to "none". Write a short, confident explanation of your ruling in "explanation".

Respond with a single JSON object matching the requested schema, and nothing else.`

func buildAdjudicationPrompt(question string, answers []core.Answer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nPositions:\n", question)
	for i, a := range answers {
		fmt.Fprintf(&b, "%d. %s says: %s\n", i+1, a.Person, a.Position)
	}
	return b.String()
}

// justifications back the wife override. The ruling is unconditional; the
// explanation only needs to sound official.
var justifications = []string{
	"this follows directly from ancient maritime law",
	"the relevant precedent was settled at dinner tables long ago",
	"statistics overwhelmingly support whoever set the table",
	"the burden of proof rests with everyone else",
	"appellate courts have consistently declined to hear objections",
	"every reputable almanac agrees on this point",
	"the geometry of the argument leaves no other conclusion",
}
