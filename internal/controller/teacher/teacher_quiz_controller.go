package teacher

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quizroom/internal/controller"
	"quizroom/internal/dto"
	"quizroom/internal/service"
)

type TeacherQuizController struct {
	quizService    service.QuizService
	generator      service.QuizGeneratorService
	resultsService service.ResultsService
}

func NewTeacherQuizController(quizService service.QuizService, generator service.QuizGeneratorService, resultsService service.ResultsService) *TeacherQuizController {
	return &TeacherQuizController{
		quizService:    quizService,
		generator:      generator,
		resultsService: resultsService,
	}
}

// CreateQuiz godoc
// @Summary (Teacher) Create a new quiz
// @Description Creates a quiz with its full question set and allocates a unique join code.
// @Tags Teacher - Quizzes
// @Accept json
// @Produce json
// @Param quiz body dto.QuizCreateDTO true "Quiz data including all questions"
// @Success 201 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz data"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Router /teacher/quizzes [post]
func (c *TeacherQuizController) CreateQuiz(ctx *gin.Context) {
	var req dto.QuizCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuiz: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	quiz, err := c.quizService.CreateQuiz(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, quiz)
}

// GenerateQuiz godoc
// @Summary (Teacher) Generate a draft question set with AI
// @Description Asks the AI backend for a draft quiz on a subject. The draft is returned for review and is not persisted.
// @Tags Teacher - Quizzes
// @Accept json
// @Produce json
// @Param request body dto.QuizGenerateDTO true "Subject, difficulty, question count and topic prompt"
// @Success 200 {object} dto.GeneratedQuizDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid generation request"
// @Failure 503 {object} dto.ErrorResponse "AI backend unavailable"
// @Router /teacher/quizzes/generate [post]
func (c *TeacherQuizController) GenerateQuiz(ctx *gin.Context) {
	var req dto.QuizGenerateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("GenerateQuiz: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	generated, err := c.generator.Generate(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, generated)
}

// ListQuizzes godoc
// @Summary (Teacher) List own quizzes
// @Tags Teacher - Quizzes
// @Produce json
// @Param teacher_id query string true "Teacher identity"
// @Success 200 {array} dto.QuizSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Missing teacher id"
// @Router /teacher/quizzes [get]
func (c *TeacherQuizController) ListQuizzes(ctx *gin.Context) {
	teacherID := ctx.Query("teacher_id")
	if teacherID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "teacher_id is required"})
		return
	}

	quizzes, err := c.quizService.ListTeacherQuizzes(ctx.Request.Context(), teacherID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// UpdateQuiz godoc
// @Summary (Teacher) Update quiz metadata
// @Description Updates subject, difficulty or time limit. The question set is immutable after creation.
// @Tags Teacher - Quizzes
// @Accept json
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Param teacher_id query string true "Teacher identity"
// @Param updates body dto.QuizUpdateDTO true "Fields to update"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Not the quiz owner"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /teacher/quizzes/{quiz_id} [patch]
func (c *TeacherQuizController) UpdateQuiz(ctx *gin.Context) {
	quizID, ok := quizIDParam(ctx)
	if !ok {
		return
	}
	teacherID := ctx.Query("teacher_id")
	if teacherID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "teacher_id is required"})
		return
	}

	var req dto.QuizUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	quiz, err := c.quizService.UpdateQuiz(ctx.Request.Context(), quizID, teacherID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary (Teacher) Delete a quiz
// @Description Deletes a quiz together with its questions and all submissions.
// @Tags Teacher - Quizzes
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Param teacher_id query string true "Teacher identity"
// @Success 204 "Quiz deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the quiz owner"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /teacher/quizzes/{quiz_id} [delete]
func (c *TeacherQuizController) DeleteQuiz(ctx *gin.Context) {
	quizID, ok := quizIDParam(ctx)
	if !ok {
		return
	}
	teacherID := ctx.Query("teacher_id")
	if teacherID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "teacher_id is required"})
		return
	}

	if err := c.quizService.DeleteQuiz(ctx.Request.Context(), quizID, teacherID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// QuizResults godoc
// @Summary (Teacher) Quiz results with class statistics
// @Description Ranked submissions plus aggregate statistics. Stats are null while the quiz has no submissions.
// @Tags Teacher - Quizzes
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Param teacher_id query string true "Teacher identity"
// @Success 200 {object} dto.QuizResultsDTO
// @Failure 403 {object} dto.ErrorResponse "Not the quiz owner"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /teacher/quizzes/{quiz_id}/results [get]
func (c *TeacherQuizController) QuizResults(ctx *gin.Context) {
	quizID, ok := quizIDParam(ctx)
	if !ok {
		return
	}
	teacherID := ctx.Query("teacher_id")
	if teacherID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "teacher_id is required"})
		return
	}

	results, err := c.resultsService.QuizResults(ctx.Request.Context(), quizID, teacherID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

func quizIDParam(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("quiz_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid quiz ID format"})
		return 0, false
	}
	return uint(id), true
}
