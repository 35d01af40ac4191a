package dto

import "time"

// QuestionResponseDTO includes the answer key; it is only returned to the
// owning teacher.
type QuestionResponseDTO struct {
	ID            uint     `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Position      int      `json:"position"`
}

// QuestionPublicDTO is the student-facing view of a question, with the answer
// key stripped.
type QuestionPublicDTO struct {
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Position int      `json:"position"`
}

type QuizResponseDTO struct {
	ID               uint                  `json:"id"`
	TeacherID        string                `json:"teacher_id"`
	Subject          string                `json:"subject"`
	Difficulty       string                `json:"difficulty"`
	JoinCode         string                `json:"join_code"`
	TimeLimitMinutes int                   `json:"time_limit_minutes"`
	Questions        []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// QuizSummaryDTO is used when listing a teacher's quizzes.
type QuizSummaryDTO struct {
	ID               uint      `json:"id"`
	Subject          string    `json:"subject"`
	Difficulty       string    `json:"difficulty"`
	JoinCode         string    `json:"join_code"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	QuestionCount    int       `json:"question_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// JoinQuizResponseDTO is what a student sees after entering a join code.
type JoinQuizResponseDTO struct {
	ID               uint                `json:"id"`
	Subject          string              `json:"subject"`
	Difficulty       string              `json:"difficulty"`
	JoinCode         string              `json:"join_code"`
	TimeLimitMinutes int                 `json:"time_limit_minutes"`
	Questions        []QuestionPublicDTO `json:"questions"`
}

// GeneratedQuizDTO carries an AI-generated draft question set back to the
// teacher for review; nothing is persisted yet.
type GeneratedQuizDTO struct {
	Questions []QuestionCreateDTO `json:"questions"`
}

// SubmissionResultDTO is returned right after a submission is scored.
type SubmissionResultDTO struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"total_questions"`
}

// SubmissionSummaryDTO is one entry of a student's attempt history.
type SubmissionSummaryDTO struct {
	ID             uint      `json:"id"`
	QuizID         uint      `json:"quiz_id"`
	Subject        string    `json:"subject,omitempty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// LeaderboardEntryDTO is one ranked row of a quiz leaderboard.
type LeaderboardEntryDTO struct {
	Rank         int       `json:"rank"`
	SubmissionID uint      `json:"submission_id"`
	StudentEmail string    `json:"student_email"`
	Score        int       `json:"score"`
	Grade        string    `json:"grade"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// LeaderboardDTO is an ordered snapshot of all submissions for a quiz.
type LeaderboardDTO struct {
	QuizID         uint                  `json:"quiz_id"`
	TotalQuestions int                   `json:"total_questions"`
	Entries        []LeaderboardEntryDTO `json:"entries"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// QuizStatsDTO aggregates class-wide statistics. It is null in responses when
// the quiz has no submissions yet.
type QuizStatsDTO struct {
	SubmissionCount int     `json:"submission_count"`
	AverageScore    float64 `json:"average_score"`
	MaxScore        int     `json:"max_score"`
	MinScore        int     `json:"min_score"`
	PassCount       int     `json:"pass_count"`
	PassRate        float64 `json:"pass_rate"`
}

// QuizResultsDTO is the teacher's results page payload.
type QuizResultsDTO struct {
	Quiz        QuizSummaryDTO        `json:"quiz"`
	Stats       *QuizStatsDTO         `json:"stats"`
	Leaderboard []LeaderboardEntryDTO `json:"leaderboard"`
}

// RankResponseDTO is a student's own rank within a quiz leaderboard.
type RankResponseDTO struct {
	SubmissionID   uint   `json:"submission_id"`
	Rank           int    `json:"rank"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Grade          string `json:"grade"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
