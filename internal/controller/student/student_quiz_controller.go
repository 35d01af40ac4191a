package student

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quizroom/internal/controller"
	"quizroom/internal/dto"
	"quizroom/internal/service"
)

type StudentQuizController struct {
	quizService       service.QuizService
	submissionService service.SubmissionService
	resultsService    service.ResultsService
}

func NewStudentQuizController(quizService service.QuizService, submissionService service.SubmissionService, resultsService service.ResultsService) *StudentQuizController {
	return &StudentQuizController{
		quizService:       quizService,
		submissionService: submissionService,
		resultsService:    resultsService,
	}
}

// JoinQuiz godoc
// @Summary (Student) Look up a quiz by join code
// @Description Returns the quiz a student is about to attempt. Answer keys are stripped from the payload.
// @Tags Student - Quizzes
// @Produce json
// @Param join_code path string true "Join code"
// @Success 200 {object} dto.JoinQuizResponseDTO
// @Failure 404 {object} dto.ErrorResponse "No quiz with that join code"
// @Router /quizzes/join/{join_code} [get]
func (c *StudentQuizController) JoinQuiz(ctx *gin.Context) {
	quiz, err := c.quizService.GetQuizByJoinCode(ctx.Request.Context(), ctx.Param("join_code"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// SubmitQuiz godoc
// @Summary (Student) Submit answers for a quiz
// @Description Scores the answers against the quiz's answer key and records the attempt.
// @Tags Student - Submissions
// @Accept json
// @Produce json
// @Param submission body dto.SubmissionCreateDTO true "Quiz id, student identity and answers"
// @Success 201 {object} dto.SubmissionResultDTO
// @Failure 400 {object} dto.ErrorResponse "Missing or malformed fields"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Router /submissions [post]
func (c *StudentQuizController) SubmitQuiz(ctx *gin.Context) {
	var req dto.SubmissionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitQuiz: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.submissionService.Submit(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// ListSubmissions godoc
// @Summary (Student) List own submissions
// @Tags Student - Submissions
// @Produce json
// @Param student_id path string true "Student identity"
// @Success 200 {array} dto.SubmissionSummaryDTO
// @Router /students/{student_id}/submissions [get]
func (c *StudentQuizController) ListSubmissions(ctx *gin.Context) {
	submissions, err := c.submissionService.ListStudentSubmissions(ctx.Request.Context(), ctx.Param("student_id"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, submissions)
}

// DeleteSubmission godoc
// @Summary (Student) Delete an own submission
// @Description Removes an attempt. Only the owning student may delete it.
// @Tags Student - Submissions
// @Produce json
// @Param submission_id path int true "Submission ID"
// @Param student_id query string true "Student identity"
// @Success 204 "Submission deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the submission owner"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /submissions/{submission_id} [delete]
func (c *StudentQuizController) DeleteSubmission(ctx *gin.Context) {
	raw := ctx.Param("submission_id")
	submissionID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid submission ID format"})
		return
	}
	studentID := ctx.Query("student_id")
	if studentID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "student_id is required"})
		return
	}

	if err := c.submissionService.DeleteSubmission(ctx.Request.Context(), uint(submissionID), studentID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Leaderboard godoc
// @Summary Ranked leaderboard snapshot for a quiz
// @Description Pull-based polling endpoint; repeated calls may differ as new submissions arrive.
// @Tags Student - Results
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.LeaderboardDTO
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{quiz_id}/leaderboard [get]
func (c *StudentQuizController) Leaderboard(ctx *gin.Context) {
	quizID, ok := quizIDParam(ctx)
	if !ok {
		return
	}

	board, err := c.resultsService.Leaderboard(ctx.Request.Context(), quizID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, board)
}

// SubmissionRank godoc
// @Summary (Student) Rank of one submission within its quiz
// @Tags Student - Results
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Param submission_id path int true "Submission ID"
// @Success 200 {object} dto.RankResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Quiz or submission not found"
// @Router /quizzes/{quiz_id}/submissions/{submission_id}/rank [get]
func (c *StudentQuizController) SubmissionRank(ctx *gin.Context) {
	quizID, ok := quizIDParam(ctx)
	if !ok {
		return
	}
	raw := ctx.Param("submission_id")
	submissionID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid submission ID format"})
		return
	}

	rank, err := c.resultsService.Rank(ctx.Request.Context(), quizID, uint(submissionID))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rank)
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
