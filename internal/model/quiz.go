package model

import (
	"fmt"
	"time"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Quiz struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	TeacherID        string     `json:"teacher_id" gorm:"not null;index"`
	Subject          string     `json:"subject" gorm:"not null"`
	Difficulty       string     `json:"difficulty" gorm:"not null"` // easy, medium, hard
	Prompt           string     `json:"prompt,omitempty" gorm:"type:text"`
	JoinCode         string     `json:"join_code" gorm:"not null;uniqueIndex"`
	TimeLimitMinutes int        `json:"time_limit_minutes" gorm:"not null"`
	Questions        []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Validate checks the quiz-level invariants: a non-empty, per-question valid
// question set, a known difficulty and a positive time limit.
func (q *Quiz) Validate() error {
	if q.TeacherID == "" {
		return fmt.Errorf("quiz teacher id must not be empty")
	}
	if q.Subject == "" {
		return fmt.Errorf("quiz subject must not be empty")
	}
	if !ValidDifficulty(q.Difficulty) {
		return fmt.Errorf("invalid difficulty %q", q.Difficulty)
	}
	if q.TimeLimitMinutes <= 0 {
		return fmt.Errorf("time limit must be positive, got %d", q.TimeLimitMinutes)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz must have at least one question")
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
