package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"quizroom/internal/dto"
	"quizroom/internal/model"
	"quizroom/internal/repository"
)

// SubmissionService handles the submission intake workflow and the student's
// own view of their attempts.
type SubmissionService interface {
	Submit(ctx context.Context, req dto.SubmissionCreateDTO) (*dto.SubmissionResultDTO, error)
	ListStudentSubmissions(ctx context.Context, studentID string) ([]dto.SubmissionSummaryDTO, error)
	DeleteSubmission(ctx context.Context, submissionID uint, studentID string) error
}

type submissionService struct {
	quizRepo repository.QuizRepository
	subRepo  repository.SubmissionRepository
	userRepo repository.UserRepository
	scoring  ScoringService
	results  ResultsService
	hub      *LeaderboardHub
}

func NewSubmissionService(
	quizRepo repository.QuizRepository,
	subRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	scoring ScoringService,
	results ResultsService,
	hub *LeaderboardHub,
) SubmissionService {
	return &submissionService{
		quizRepo: quizRepo,
		subRepo:  subRepo,
		userRepo: userRepo,
		scoring:  scoring,
		results:  results,
		hub:      hub,
	}
}

// Submit validates the request, scores it against the quiz's answer key and
// persists the attempt in a single create. Either a fully scored submission is
// durably recorded or the caller sees an error and nothing was written.
func (s *submissionService) Submit(ctx context.Context, req dto.SubmissionCreateDTO) (*dto.SubmissionResultDTO, error) {
	if req.QuizID == 0 || req.StudentID == "" || req.StudentEmail == "" || len(req.Answers) == 0 {
		return nil, fmt.Errorf("%w: quiz id, student id, student email and answers are required", ErrValidation)
	}

	quiz, err := s.quizRepo.FindByIDWithQuestions(ctx, req.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		log.Error().Err(err).Uint("quizID", req.QuizID).Msg("Submit: failed to load quiz")
		return nil, fmt.Errorf("%w: loading quiz", ErrDependency)
	}

	// Profile bookkeeping is best-effort: a failure here is logged and never
	// blocks the submission.
	s.ensureProfile(ctx, req.StudentID, req.StudentEmail)

	answers := make(model.AnswerList, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, model.Answer{
			QuestionIndex:  *a.QuestionIndex,
			SelectedOption: a.SelectedOption,
		})
	}
	score := s.scoring.Score(quiz.Questions, answers)

	submission := model.Submission{
		QuizID:       quiz.ID,
		StudentID:    req.StudentID,
		StudentEmail: req.StudentEmail,
		Answers:      answers,
		Score:        score,
	}
	if err := s.subRepo.Create(ctx, &submission); err != nil {
		log.Error().Err(err).Uint("quizID", quiz.ID).Str("studentID", req.StudentID).Msg("Submit: failed to persist submission")
		return nil, fmt.Errorf("%w: saving submission", ErrDependency)
	}

	log.Info().Uint("submissionID", submission.ID).Uint("quizID", quiz.ID).Int("score", score).Msg("Submission recorded")
	s.publishLeaderboard(ctx, quiz.ID)

	return &dto.SubmissionResultDTO{Score: score, TotalQuestions: len(quiz.Questions)}, nil
}

func (s *submissionService) ListStudentSubmissions(ctx context.Context, studentID string) ([]dto.SubmissionSummaryDTO, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", ErrValidation)
	}
	submissions, err := s.subRepo.FindByStudentID(ctx, studentID)
	if err != nil {
		log.Error().Err(err).Str("studentID", studentID).Msg("ListStudentSubmissions: repository error")
		return nil, fmt.Errorf("%w: listing submissions", ErrDependency)
	}

	quizzes := make(map[uint]*model.Quiz)
	summaries := make([]dto.SubmissionSummaryDTO, 0, len(submissions))
	for _, sub := range submissions {
		summary := dto.SubmissionSummaryDTO{
			ID:          sub.ID,
			QuizID:      sub.QuizID,
			Score:       sub.Score,
			SubmittedAt: sub.SubmittedAt,
		}
		quiz, ok := quizzes[sub.QuizID]
		if !ok {
			quiz, err = s.quizRepo.FindByIDWithQuestions(ctx, sub.QuizID)
			if err != nil {
				// Tolerate a missing quiz: the attempt row still belongs to
				// the student even if its quiz is gone.
				quiz = nil
			}
			quizzes[sub.QuizID] = quiz
		}
		if quiz != nil {
			summary.Subject = quiz.Subject
			summary.TotalQuestions = len(quiz.Questions)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// DeleteSubmission removes a student's own attempt. Ownership is verified here,
// not in the UI: any other caller gets ErrNotOwner.
func (s *submissionService) DeleteSubmission(ctx context.Context, submissionID uint, studentID string) error {
	submission, err := s.subRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		log.Error().Err(err).Uint("submissionID", submissionID).Msg("DeleteSubmission: failed to load submission")
		return fmt.Errorf("%w: loading submission", ErrDependency)
	}
	if submission.StudentID != studentID {
		return ErrNotOwner
	}

	if err := s.subRepo.Delete(ctx, submissionID); err != nil {
		log.Error().Err(err).Uint("submissionID", submissionID).Msg("DeleteSubmission: failed to delete")
		return fmt.Errorf("%w: deleting submission", ErrDependency)
	}

	log.Info().Uint("submissionID", submissionID).Str("studentID", studentID).Msg("Submission deleted")
	s.publishLeaderboard(ctx, submission.QuizID)
	return nil
}

func (s *submissionService) ensureProfile(ctx context.Context, studentID, email string) {
	user, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Err(err).Str("studentID", studentID).Msg("ensureProfile: lookup failed, continuing with submission")
			return
		}
		created := model.User{ID: studentID, Email: email, Role: model.RoleStudent}
		if err := s.userRepo.Create(ctx, &created); err != nil {
			log.Warn().Err(err).Str("studentID", studentID).Msg("ensureProfile: create failed, continuing with submission")
		}
		return
	}
	if user.Email != email {
		if err := s.userRepo.UpdateEmail(ctx, studentID, email); err != nil {
			log.Warn().Err(err).Str("studentID", studentID).Msg("ensureProfile: email update failed, continuing with submission")
		}
	}
}

func (s *submissionService) publishLeaderboard(ctx context.Context, quizID uint) {
	if s.hub.SubscriberCount(quizID) == 0 {
		return
	}
	board, err := s.results.Leaderboard(ctx, quizID)
	if err != nil {
		log.Warn().Err(err).Uint("quizID", quizID).Msg("Failed to build leaderboard snapshot for subscribers")
		return
	}
	s.hub.Publish(quizID, *board)
}
