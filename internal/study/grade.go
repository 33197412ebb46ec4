package study

// Answer is the user's answer to one question.
type Answer struct {
	QuestionID QuestionID `json:"questionId"`
	Answer     string     `json:"answer"`
}

// QuestionResult is the graded outcome of one question.
type QuestionResult struct {
	QuestionID    QuestionID `json:"questionId"`
	Question      string     `json:"question"`
	Answer        string     `json:"answer"`
	Selected      string     `json:"selected,omitempty"`
	CorrectAnswer string     `json:"correctAnswer"`
	Correct       bool       `json:"correct"`
	Explanation   string     `json:"explanation,omitempty"`
	Topic         string     `json:"topic,omitempty"`
}

// Result is a graded retention test.
type Result struct {
	TestTitle  string           `json:"testTitle"`
	Answers    []Answer         `json:"answers"`
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage int              `json:"percentage"`
	Details    []QuestionResult `json:"details"`
}

var matcher = newOptionMatcher()

// Grade scores answers against t. Every question counts toward the total;
// unanswered questions are wrong. Answers may name the option letter or
// repeat (or approximately repeat) the option text. When a question has more
// than one answer the last one counts.
func Grade(t *RetentionTest, answers []Answer) *Result {
	byQuestion := make(map[QuestionID]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Answer
	}

	res := &Result{
		TestTitle: t.TestTitle,
		Answers:   answers,
		Total:     len(t.Questions),
		Details:   make([]QuestionResult, 0, len(t.Questions)),
	}
	if res.Answers == nil {
		res.Answers = []Answer{}
	}
	for _, q := range t.Questions {
		given := byQuestion[q.ID]
		selected, _ := matcher.match(given, q.Options)
		correct := selected != "" && selected == normalizeLetter(q.CorrectAnswer)
		if correct {
			res.Score++
		}
		res.Details = append(res.Details, QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Question,
			Answer:        given,
			Selected:      selected,
			CorrectAnswer: normalizeLetter(q.CorrectAnswer),
			Correct:       correct,
			Explanation:   q.Explanation,
			Topic:         q.Topic,
		})
	}
	if res.Total > 0 {
		res.Percentage = (res.Score*100 + res.Total/2) / res.Total
	}
	return res
}
