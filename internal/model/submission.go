package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Answer is a single selected option for one question of a quiz.
type Answer struct {
	QuestionIndex  int    `json:"question_index"`
	SelectedOption string `json:"selected_option"`
}

// AnswerList stores the submitted answers as a JSON column.
type AnswerList []Answer

func (a AnswerList) Value() (driver.Value, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (a *AnswerList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type %T for AnswerList", value)
	}
}

// Submission is one student attempt at a quiz. It is append-only: created with
// its final score and never updated afterwards, only deleted by its owner.
type Submission struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	QuizID       uint       `json:"quiz_id" gorm:"not null;index"`
	StudentID    string     `json:"student_id" gorm:"not null;index"`
	StudentEmail string     `json:"student_email" gorm:"not null"`
	Answers      AnswerList `json:"answers" gorm:"type:text;not null"`
	Score        int        `json:"score" gorm:"not null"`
	SubmittedAt  time.Time  `json:"submitted_at" gorm:"autoCreateTime;index"`
	CreatedAt    time.Time  `json:"created_at"`
}
