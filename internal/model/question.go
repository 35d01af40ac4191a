package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const OptionsPerQuestion = 4

// StringSlice stores a list of strings as a JSON column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type %T for StringSlice", value)
	}
}

type Question struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	QuizID        uint        `json:"quiz_id" gorm:"not null;index"`
	Text          string      `json:"text" gorm:"type:text;not null"`
	Options       StringSlice `json:"options" gorm:"type:text;not null"`
	CorrectOption string      `json:"correct_option" gorm:"not null"`
	Position      int         `json:"position" gorm:"not null"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Validate enforces the answer-key invariants before a question is persisted
// or scored: exactly four distinct options and a correct option that is one of
// them. Documents that fail this are rejected at the storage boundary instead
// of being trusted.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text must not be empty")
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("question must have exactly %d options, got %d", OptionsPerQuestion, len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("question option must not be empty")
		}
		if seen[opt] {
			return fmt.Errorf("question options must be distinct, %q appears twice", opt)
		}
		seen[opt] = true
	}
	if !seen[q.CorrectOption] {
		return fmt.Errorf("correct option %q is not one of the question options", q.CorrectOption)
	}
	return nil
}
