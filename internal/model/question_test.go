package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() Question {
	return Question{
		QuizID:        1,
		Text:          "What is the capital of France?",
		Options:       StringSlice{"Paris", "Lyon", "Nice", "Lille"},
		CorrectOption: "Paris",
		Position:      1,
	}
}

func TestQuestionValidate(t *testing.T) {
	q := validQuestion()
	assert.NoError(t, q.Validate())

	tests := []struct {
		name   string
		mutate func(*Question)
	}{
		{"empty text", func(q *Question) { q.Text = "" }},
		{"too few options", func(q *Question) { q.Options = StringSlice{"A", "B", "C"} }},
		{"too many options", func(q *Question) { q.Options = StringSlice{"A", "B", "C", "D", "E"} }},
		{"empty option", func(q *Question) { q.Options = StringSlice{"A", "B", "C", ""} }},
		{"duplicate options", func(q *Question) { q.Options = StringSlice{"A", "A", "C", "D"} }},
		{"correct option missing", func(q *Question) { q.CorrectOption = "Berlin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)
			assert.Error(t, q.Validate())
		})
	}
}

func TestStringSliceRoundTrip(t *testing.T) {
	original := StringSlice{"A", "B", "C", "D"}

	value, err := original.Value()
	require.NoError(t, err)

	var fromString StringSlice
	require.NoError(t, fromString.Scan(value))
	assert.Equal(t, original, fromString)

	var fromBytes StringSlice
	require.NoError(t, fromBytes.Scan([]byte(value.(string))))
	assert.Equal(t, original, fromBytes)

	var fromNil StringSlice
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)

	assert.Error(t, fromNil.Scan(42))
}

func TestAnswerListRoundTrip(t *testing.T) {
	original := AnswerList{
		{QuestionIndex: 0, SelectedOption: "A"},
		{QuestionIndex: 3, SelectedOption: "D"},
	}

	value, err := original.Value()
	require.NoError(t, err)

	var scanned AnswerList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, original, scanned)
}

func TestQuizValidate(t *testing.T) {
	quiz := Quiz{
		TeacherID:        "teacher-1",
		Subject:          "Geography",
		Difficulty:       DifficultyEasy,
		TimeLimitMinutes: 10,
		Questions:        []Question{validQuestion()},
	}
	assert.NoError(t, quiz.Validate())

	tests := []struct {
		name   string
		mutate func(*Quiz)
	}{
		{"empty teacher", func(q *Quiz) { q.TeacherID = "" }},
		{"empty subject", func(q *Quiz) { q.Subject = "" }},
		{"unknown difficulty", func(q *Quiz) { q.Difficulty = "brutal" }},
		{"zero time limit", func(q *Quiz) { q.TimeLimitMinutes = 0 }},
		{"negative time limit", func(q *Quiz) { q.TimeLimitMinutes = -5 }},
		{"no questions", func(q *Quiz) { q.Questions = nil }},
		{"invalid question", func(q *Quiz) { q.Questions[0].CorrectOption = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Quiz{
				TeacherID:        "teacher-1",
				Subject:          "Geography",
				Difficulty:       DifficultyEasy,
				TimeLimitMinutes: 10,
				Questions:        []Question{validQuestion()},
			}
			tt.mutate(&q)
			assert.Error(t, q.Validate())
		})
	}
}

func TestValidDifficulty(t *testing.T) {
	assert.True(t, ValidDifficulty(DifficultyEasy))
	assert.True(t, ValidDifficulty(DifficultyMedium))
	assert.True(t, ValidDifficulty(DifficultyHard))
	assert.False(t, ValidDifficulty("extreme"))
	assert.False(t, ValidDifficulty(""))
}
