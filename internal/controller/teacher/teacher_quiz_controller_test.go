package teacher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"quizroom/config"
	"quizroom/internal/dto"
	"quizroom/internal/model"
	"quizroom/internal/repository"
	"quizroom/internal/service"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "init db failed")
	require.NoError(t, db.AutoMigrate(&model.Quiz{}, &model.Question{}, &model.Submission{}, &model.User{}), "migrate failed")

	quizRepo := repository.NewQuizRepository(db)
	subRepo := repository.NewSubmissionRepository(db)
	quizService := service.NewQuizService(quizRepo, service.NewRepositoryQuizLookup(quizRepo), db)
	resultsService := service.NewResultsService(quizRepo, subRepo, service.NewRankingService())
	generator, err := service.NewQuizGeneratorService(&config.Config{})
	require.NoError(t, err)

	ctrl := NewTeacherQuizController(quizService, generator, resultsService)

	router := gin.New()
	group := router.Group("/api/v1/teacher/quizzes")
	group.POST("", ctrl.CreateQuiz)
	group.POST("/generate", ctrl.GenerateQuiz)
	group.GET("", ctrl.ListQuizzes)
	group.PATCH("/:quiz_id", ctrl.UpdateQuiz)
	group.DELETE("/:quiz_id", ctrl.DeleteQuiz)
	group.GET("/:quiz_id/results", ctrl.QuizResults)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func quizBody(teacherID string) dto.QuizCreateDTO {
	return dto.QuizCreateDTO{
		TeacherID:        teacherID,
		Subject:          "History",
		Difficulty:       "easy",
		TimeLimitMinutes: 10,
		Questions: []dto.QuestionCreateDTO{
			{Text: "Q1", Options: []string{"A", "B", "C", "D"}, CorrectOption: "A"},
			{Text: "Q2", Options: []string{"A", "B", "C", "D"}, CorrectOption: "B"},
		},
	}
}

func createQuizHTTP(t *testing.T, router *gin.Engine, teacherID string) dto.QuizResponseDTO {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/teacher/quizzes", quizBody(teacherID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var quiz dto.QuizResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quiz))
	return quiz
}

func TestCreateQuizEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	quiz := createQuizHTTP(t, router, "teacher-1")
	assert.NotZero(t, quiz.ID)
	assert.Len(t, quiz.JoinCode, service.JoinCodeLength)
	assert.Len(t, quiz.Questions, 2)
}

func TestCreateQuizEndpointRejectsBadBody(t *testing.T) {
	router, _ := setupRouter(t)

	body := quizBody("teacher-1")
	body.Questions[0].Options = []string{"A", "B", "C"}
	w := doJSON(t, router, http.MethodPost, "/api/v1/teacher/quizzes", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Difficulty outside the allowed set fails binding.
	body = quizBody("teacher-1")
	body.Difficulty = "impossible"
	w = doJSON(t, router, http.MethodPost, "/api/v1/teacher/quizzes", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateQuizEndpointWithoutBackend(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/teacher/quizzes/generate", dto.QuizGenerateDTO{
		Subject:      "History",
		Difficulty:   "easy",
		NumQuestions: 5,
		Prompt:       "The Roman Empire",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListQuizzesEndpoint(t *testing.T) {
	router, _ := setupRouter(t)
	createQuizHTTP(t, router, "teacher-1")
	createQuizHTTP(t, router, "teacher-1")

	w := doJSON(t, router, http.MethodGet, "/api/v1/teacher/quizzes?teacher_id=teacher-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var quizzes []dto.QuizSummaryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quizzes))
	assert.Len(t, quizzes, 2)

	w = doJSON(t, router, http.MethodGet, "/api/v1/teacher/quizzes", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateQuizEndpoint(t *testing.T) {
	router, _ := setupRouter(t)
	quiz := createQuizHTTP(t, router, "teacher-1")

	path := fmt.Sprintf("/api/v1/teacher/quizzes/%d?teacher_id=teacher-1", quiz.ID)
	w := doJSON(t, router, http.MethodPatch, path, map[string]any{"subject": "Geography"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated dto.QuizResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Geography", updated.Subject)

	// Another teacher cannot touch it.
	path = fmt.Sprintf("/api/v1/teacher/quizzes/%d?teacher_id=teacher-2", quiz.ID)
	w = doJSON(t, router, http.MethodPatch, path, map[string]any{"subject": "Geography"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteQuizEndpoint(t *testing.T) {
	router, db := setupRouter(t)
	quiz := createQuizHTTP(t, router, "teacher-1")

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/teacher/quizzes/%d?teacher_id=teacher-2", quiz.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/teacher/quizzes/%d?teacher_id=teacher-1", quiz.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	db.Model(&model.Quiz{}).Count(&count)
	assert.Zero(t, count)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/teacher/quizzes/%d?teacher_id=teacher-1", quiz.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuizResultsEndpoint(t *testing.T) {
	router, db := setupRouter(t)
	quiz := createQuizHTTP(t, router, "teacher-1")

	sub := model.Submission{
		QuizID:       quiz.ID,
		StudentID:    "student-1",
		StudentEmail: "s1@example.com",
		Answers:      model.AnswerList{{QuestionIndex: 0, SelectedOption: "A"}},
		Score:        1,
	}
	require.NoError(t, db.Create(&sub).Error)

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/teacher/quizzes/%d/results?teacher_id=teacher-1", quiz.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var results dto.QuizResultsDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.NotNil(t, results.Stats)
	assert.Equal(t, 1, results.Stats.SubmissionCount)
	require.Len(t, results.Leaderboard, 1)
	assert.Equal(t, 1, results.Leaderboard[0].Rank)
	assert.Equal(t, "D", results.Leaderboard[0].Grade)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/teacher/quizzes/%d/results?teacher_id=teacher-2", quiz.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/teacher/quizzes/abc/results?teacher_id=teacher-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
