package domain

// Evaluate decides whether a set of answers qualifies against questions.
//
// Policy: an empty question set qualifies everyone, because the owner has not
// configured a gate. Otherwise the result is a strict AND over the gating
// questions: a submitted answer that differs from the question's qualifying
// answer disqualifies. A question with no submitted answer is skipped, and a
// question without a qualifying answer never gates. Answer keys that do not
// match any question (for example a deleted question) are ignored.
//
// The result does not depend on the order of questions.
func Evaluate(questions []Question, answers map[string]bool) bool {
	for _, q := range questions {
		if !q.Gates() {
			continue
		}
		answer, ok := answers[q.ID.String()]
		if !ok {
			continue
		}
		if answer != *q.QualifyingAnswer {
			return false
		}
	}
	return true
}

// EvaluateVerdict is Evaluate expressed as a Verdict.
func EvaluateVerdict(questions []Question, answers map[string]bool) Verdict {
	return VerdictOf(Evaluate(questions, answers))
}
