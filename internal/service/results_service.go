package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"quizroom/internal/dto"
	"quizroom/internal/model"
	"quizroom/internal/repository"
)

// ResultsService turns the submissions of a quiz into leaderboards, per-student
// ranks and the teacher's aggregate view. Every method works on a fresh
// snapshot; rankings may change between calls as new submissions arrive.
type ResultsService interface {
	Leaderboard(ctx context.Context, quizID uint) (*dto.LeaderboardDTO, error)
	Rank(ctx context.Context, quizID, submissionID uint) (*dto.RankResponseDTO, error)
	QuizResults(ctx context.Context, quizID uint, teacherID string) (*dto.QuizResultsDTO, error)
}

type resultsService struct {
	quizRepo repository.QuizRepository
	subRepo  repository.SubmissionRepository
	ranking  RankingService
}

func NewResultsService(quizRepo repository.QuizRepository, subRepo repository.SubmissionRepository, ranking RankingService) ResultsService {
	return &resultsService{quizRepo: quizRepo, subRepo: subRepo, ranking: ranking}
}

func (s *resultsService) Leaderboard(ctx context.Context, quizID uint) (*dto.LeaderboardDTO, error) {
	quiz, sorted, err := s.snapshot(ctx, quizID)
	if err != nil {
		return nil, err
	}

	board := dto.LeaderboardDTO{
		QuizID:         quizID,
		TotalQuestions: len(quiz.Questions),
		Entries:        leaderboardEntries(sorted, len(quiz.Questions)),
		UpdatedAt:      time.Now(),
	}
	return &board, nil
}

func (s *resultsService) Rank(ctx context.Context, quizID, submissionID uint) (*dto.RankResponseDTO, error) {
	quiz, sorted, err := s.snapshot(ctx, quizID)
	if err != nil {
		return nil, err
	}

	rank := s.ranking.Rank(sorted, submissionID)
	if rank == 0 {
		return nil, ErrSubmissionNotFound
	}
	sub := sorted[rank-1]
	return &dto.RankResponseDTO{
		SubmissionID:   sub.ID,
		Rank:           rank,
		Score:          sub.Score,
		TotalQuestions: len(quiz.Questions),
		Grade:          Grade(sub.Score, len(quiz.Questions)),
	}, nil
}

func (s *resultsService) QuizResults(ctx context.Context, quizID uint, teacherID string) (*dto.QuizResultsDTO, error) {
	quiz, sorted, err := s.snapshot(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.TeacherID != teacherID {
		return nil, ErrNotOwner
	}

	results := dto.QuizResultsDTO{
		Quiz: dto.QuizSummaryDTO{
			ID:               quiz.ID,
			Subject:          quiz.Subject,
			Difficulty:       quiz.Difficulty,
			JoinCode:         quiz.JoinCode,
			TimeLimitMinutes: quiz.TimeLimitMinutes,
			QuestionCount:    len(quiz.Questions),
			CreatedAt:        quiz.CreatedAt,
		},
		Leaderboard: leaderboardEntries(sorted, len(quiz.Questions)),
	}

	if stats, ok := s.ranking.Stats(sorted, len(quiz.Questions)); ok {
		results.Stats = &dto.QuizStatsDTO{
			SubmissionCount: stats.SubmissionCount,
			AverageScore:    stats.AverageScore,
			MaxScore:        stats.MaxScore,
			MinScore:        stats.MinScore,
			PassCount:       stats.PassCount,
			PassRate:        stats.PassRate,
		}
	}
	return &results, nil
}

// snapshot loads the quiz and a freshly sorted view of its submissions.
func (s *resultsService) snapshot(ctx context.Context, quizID uint) (*model.Quiz, []model.Submission, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrQuizNotFound
		}
		log.Error().Err(err).Uint("quizID", quizID).Msg("Results: failed to load quiz")
		return nil, nil, fmt.Errorf("%w: loading quiz", ErrDependency)
	}

	submissions, err := s.subRepo.FindByQuizID(ctx, quizID)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Results: failed to load submissions")
		return nil, nil, fmt.Errorf("%w: loading submissions", ErrDependency)
	}
	return quiz, s.ranking.Sort(submissions), nil
}

func leaderboardEntries(sorted []model.Submission, totalQuestions int) []dto.LeaderboardEntryDTO {
	entries := make([]dto.LeaderboardEntryDTO, 0, len(sorted))
	for i, sub := range sorted {
		entries = append(entries, dto.LeaderboardEntryDTO{
			Rank:         i + 1,
			SubmissionID: sub.ID,
			StudentEmail: sub.StudentEmail,
			Score:        sub.Score,
			Grade:        Grade(sub.Score, totalQuestions),
			SubmittedAt:  sub.SubmittedAt,
		})
	}
	return entries
}
