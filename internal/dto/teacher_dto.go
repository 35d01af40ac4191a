package dto

// QuestionCreateDTO is one question within a quiz creation request.
type QuestionCreateDTO struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,len=4"`
	CorrectOption string   `json:"correct_option" binding:"required"`
}

// QuizCreateDTO is for a teacher to create a new quiz with all its questions,
// typically pre-populated from a generation request.
type QuizCreateDTO struct {
	TeacherID        string              `json:"teacher_id" binding:"required"`
	Subject          string              `json:"subject" binding:"required"`
	Difficulty       string              `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Prompt           string              `json:"prompt"`
	TimeLimitMinutes int                 `json:"time_limit_minutes" binding:"required,gt=0"`
	Questions        []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// QuizUpdateDTO updates quiz metadata. The question set is immutable after
// creation, so it is deliberately absent here.
type QuizUpdateDTO struct {
	Subject          *string `json:"subject"`
	Difficulty       *string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	TimeLimitMinutes *int    `json:"time_limit_minutes" binding:"omitempty,gt=0"`
}

// QuizGenerateDTO asks the AI service for a draft question set.
type QuizGenerateDTO struct {
	Subject      string `json:"subject" binding:"required"`
	Difficulty   string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	NumQuestions int    `json:"num_questions" binding:"required,min=1,max=30"`
	Prompt       string `json:"prompt" binding:"required"`
}
