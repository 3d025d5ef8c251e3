package story

// Evaluation is the judge's structured verdict on a story. Feedback items
// are ordered by improvement priority as emitted by the judge.
type Evaluation struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
	Approved bool     `json:"approved"`
}

// ParseFailureNote marks the sentinel verdict substituted when the judge's
// reply could not be parsed. It signals pipeline degradation, not story
// quality, and must not be read as a genuine mediocre score.
const ParseFailureNote = "could not parse evaluation response"

// SentinelEvaluation is the fail-closed fallback verdict: a middling score,
// the parse-failure marker, and approval withheld so an untrustworthy reply
// forces another refinement pass rather than slipping through.
func SentinelEvaluation() Evaluation {
	return Evaluation{
		Score:    5,
		Feedback: []string{ParseFailureNote},
		Approved: false,
	}
}

// IsSentinel reports whether the evaluation is the parse-failure fallback.
func (e Evaluation) IsSentinel() bool {
	return len(e.Feedback) == 1 && e.Feedback[0] == ParseFailureNote && e.Score == 5 && !e.Approved
}
