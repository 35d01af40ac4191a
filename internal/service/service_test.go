package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"quizroom/internal/dto"
	"quizroom/internal/model"
	"quizroom/internal/repository"
)

// setupTestDB opens an in-memory SQLite database migrated with the real models.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "init db failed")

	err = db.AutoMigrate(
		&model.Quiz{},
		&model.Question{},
		&model.Submission{},
		&model.User{},
	)
	require.NoError(t, err, "migrate failed")
	return db
}

type testEnv struct {
	db          *gorm.DB
	quizRepo    repository.QuizRepository
	subRepo     repository.SubmissionRepository
	userRepo    repository.UserRepository
	hub         *LeaderboardHub
	quizzes     QuizService
	submissions SubmissionService
	results     ResultsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	quizRepo := repository.NewQuizRepository(db)
	subRepo := repository.NewSubmissionRepository(db)
	userRepo := repository.NewUserRepository(db)
	hub := NewLeaderboardHub()
	ranking := NewRankingService()
	results := NewResultsService(quizRepo, subRepo, ranking)

	return &testEnv{
		db:          db,
		quizRepo:    quizRepo,
		subRepo:     subRepo,
		userRepo:    userRepo,
		hub:         hub,
		quizzes:     NewQuizService(quizRepo, NewRepositoryQuizLookup(quizRepo), db),
		submissions: NewSubmissionService(quizRepo, subRepo, userRepo, NewScoringService(), results, hub),
		results:     results,
	}
}

func validQuizRequest(teacherID string) dto.QuizCreateDTO {
	return dto.QuizCreateDTO{
		TeacherID:        teacherID,
		Subject:          "Biology",
		Difficulty:       model.DifficultyMedium,
		Prompt:           "Photosynthesis basics",
		TimeLimitMinutes: 15,
		Questions: []dto.QuestionCreateDTO{
			{Text: "Q1", Options: []string{"A", "B", "C", "D"}, CorrectOption: "A"},
			{Text: "Q2", Options: []string{"A", "B", "C", "D"}, CorrectOption: "B"},
			{Text: "Q3", Options: []string{"A", "B", "C", "D"}, CorrectOption: "C"},
			{Text: "Q4", Options: []string{"A", "B", "C", "D"}, CorrectOption: "D"},
		},
	}
}

func (e *testEnv) createQuiz(t *testing.T, teacherID string) *dto.QuizResponseDTO {
	t.Helper()

	quiz, err := e.quizzes.CreateQuiz(context.Background(), validQuizRequest(teacherID))
	require.NoError(t, err)
	return quiz
}

func intPtr(i int) *int { return &i }

func (e *testEnv) submit(t *testing.T, quizID uint, studentID, email string, selections ...string) *dto.SubmissionResultDTO {
	t.Helper()

	answers := make([]dto.AnswerDTO, 0, len(selections))
	for i, sel := range selections {
		answers = append(answers, dto.AnswerDTO{QuestionIndex: intPtr(i), SelectedOption: sel})
	}
	result, err := e.submissions.Submit(context.Background(), dto.SubmissionCreateDTO{
		QuizID:       quizID,
		StudentID:    studentID,
		StudentEmail: email,
		Answers:      answers,
	})
	require.NoError(t, err)
	return result
}
