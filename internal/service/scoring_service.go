package service

import "quizroom/internal/model"

// ScoringService computes how many of a student's answers match a quiz's
// answer key. Pure: no storage access, no side effects.
type ScoringService interface {
	Score(questions []model.Question, answers []model.Answer) int
}

type scoringService struct{}

func NewScoringService() ScoringService {
	return &scoringService{}
}

// Score counts answers whose selected option equals the correct option at that
// question index. Answers are deduplicated by question index first, keeping the
// last submitted entry, so a duplicated correct answer can never inflate the
// score past the question count. Out-of-range indices contribute nothing.
func (s *scoringService) Score(questions []model.Question, answers []model.Answer) int {
	latest := make(map[int]string, len(answers))
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= len(questions) {
			continue
		}
		latest[a.QuestionIndex] = a.SelectedOption
	}

	score := 0
	for idx, selected := range latest {
		if questions[idx].CorrectOption == selected {
			score++
		}
	}
	return score
}
