package dto

// AnswerDTO is a student's selected option for one question index.
type AnswerDTO struct {
	QuestionIndex  *int   `json:"question_index" binding:"required"`
	SelectedOption string `json:"selected_option" binding:"required"`
}

// SubmissionCreateDTO is the request body for submitting a quiz attempt.
type SubmissionCreateDTO struct {
	QuizID       uint        `json:"quiz_id" binding:"required"`
	StudentID    string      `json:"student_id" binding:"required"`
	StudentEmail string      `json:"student_email" binding:"required,email"`
	Answers      []AnswerDTO `json:"answers" binding:"required,min=1,dive"`
}
