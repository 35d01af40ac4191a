package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"quizroom/internal/dto"
	"quizroom/internal/model"
	"quizroom/internal/repository"
)

// JoinCodeLength is the length of the short code students type to find a quiz.
const JoinCodeLength = 6

const joinCodeAttempts = 5

// QuizLookup resolves a join code to a quiz. The production wiring layers a
// Redis cache in front of the repository; Invalidate drops a cached entry
// after the quiz changes or is deleted.
type QuizLookup interface {
	ByJoinCode(ctx context.Context, code string) (*model.Quiz, error)
	Invalidate(ctx context.Context, code string)
}

// NewRepositoryQuizLookup is the cache-less fallback used when Redis is not
// configured.
func NewRepositoryQuizLookup(repo repository.QuizRepository) QuizLookup {
	return &repoQuizLookup{repo: repo}
}

type repoQuizLookup struct {
	repo repository.QuizRepository
}

func (l *repoQuizLookup) ByJoinCode(ctx context.Context, code string) (*model.Quiz, error) {
	return l.repo.FindByJoinCode(ctx, code)
}

func (l *repoQuizLookup) Invalidate(context.Context, string) {}

type QuizService interface {
	CreateQuiz(ctx context.Context, req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error)
	UpdateQuiz(ctx context.Context, quizID uint, teacherID string, req dto.QuizUpdateDTO) (*dto.QuizResponseDTO, error)
	DeleteQuiz(ctx context.Context, quizID uint, teacherID string) error
	ListTeacherQuizzes(ctx context.Context, teacherID string) ([]dto.QuizSummaryDTO, error)
	GetQuizByJoinCode(ctx context.Context, code string) (*dto.JoinQuizResponseDTO, error)
}

type quizService struct {
	quizRepo repository.QuizRepository
	lookup   QuizLookup
	db       *gorm.DB
}

func NewQuizService(quizRepo repository.QuizRepository, lookup QuizLookup, db *gorm.DB) QuizService {
	return &quizService{quizRepo: quizRepo, lookup: lookup, db: db}
}

func (s *quizService) CreateQuiz(ctx context.Context, req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error) {
	quiz := model.Quiz{
		TeacherID:        req.TeacherID,
		Subject:          req.Subject,
		Difficulty:       req.Difficulty,
		Prompt:           req.Prompt,
		TimeLimitMinutes: req.TimeLimitMinutes,
	}
	for i, q := range req.Questions {
		quiz.Questions = append(quiz.Questions, model.Question{
			Text:          q.Text,
			Options:       model.StringSlice(q.Options),
			CorrectOption: q.CorrectOption,
			Position:      i + 1,
		})
	}
	if err := quiz.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	code, err := s.allocateJoinCode(ctx)
	if err != nil {
		return nil, err
	}
	quiz.JoinCode = code

	if err := s.quizRepo.Create(ctx, &quiz); err != nil {
		log.Error().Err(err).Str("teacherID", req.TeacherID).Msg("CreateQuiz: failed to persist quiz")
		return nil, fmt.Errorf("%w: creating quiz", ErrDependency)
	}

	log.Info().Uint("quizID", quiz.ID).Str("joinCode", quiz.JoinCode).Int("questions", len(quiz.Questions)).Msg("Quiz created")
	return quizToResponse(&quiz), nil
}

// allocateJoinCode derives a short upper-case code from a UUID and retries on
// the rare collision so the join-code uniqueness invariant holds at write time.
func (s *quizService) allocateJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:JoinCodeLength])
		exists, err := s.quizRepo.JoinCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("%w: checking join code", ErrDependency)
		}
		if !exists {
			return code, nil
		}
		log.Warn().Str("joinCode", code).Msg("Join code collision, retrying")
	}
	return "", fmt.Errorf("%w: could not allocate a unique join code", ErrDependency)
}

func (s *quizService) UpdateQuiz(ctx context.Context, quizID uint, teacherID string, req dto.QuizUpdateDTO) (*dto.QuizResponseDTO, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, teacherID)
	if err != nil {
		return nil, err
	}

	if req.Subject != nil {
		quiz.Subject = *req.Subject
	}
	if req.Difficulty != nil {
		quiz.Difficulty = *req.Difficulty
	}
	if req.TimeLimitMinutes != nil {
		quiz.TimeLimitMinutes = *req.TimeLimitMinutes
	}
	if quiz.Subject == "" || !model.ValidDifficulty(quiz.Difficulty) || quiz.TimeLimitMinutes <= 0 {
		return nil, fmt.Errorf("%w: invalid quiz metadata", ErrValidation)
	}

	if err := s.quizRepo.UpdateMetadata(ctx, quiz); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("UpdateQuiz: failed to save metadata")
		return nil, fmt.Errorf("%w: updating quiz", ErrDependency)
	}
	s.lookup.Invalidate(ctx, quiz.JoinCode)

	full, err := s.quizRepo.FindByIDWithQuestions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: reloading quiz", ErrDependency)
	}
	return quizToResponse(full), nil
}

// DeleteQuiz removes a quiz together with its questions and submissions in one
// transaction, so no dangling submissions are left behind.
func (s *quizService) DeleteQuiz(ctx context.Context, quizID uint, teacherID string) error {
	quiz, err := s.ownedQuiz(ctx, quizID, teacherID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, quizID).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("DeleteQuiz: transaction failed")
		return fmt.Errorf("%w: deleting quiz", ErrDependency)
	}

	s.lookup.Invalidate(ctx, quiz.JoinCode)
	log.Info().Uint("quizID", quizID).Str("teacherID", teacherID).Msg("Quiz deleted")
	return nil
}

func (s *quizService) ListTeacherQuizzes(ctx context.Context, teacherID string) ([]dto.QuizSummaryDTO, error) {
	quizzes, err := s.quizRepo.FindByTeacherID(ctx, teacherID)
	if err != nil {
		log.Error().Err(err).Str("teacherID", teacherID).Msg("ListTeacherQuizzes: repository error")
		return nil, fmt.Errorf("%w: listing quizzes", ErrDependency)
	}

	summaries := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, q := range quizzes {
		summaries = append(summaries, dto.QuizSummaryDTO{
			ID:               q.ID,
			Subject:          q.Subject,
			Difficulty:       q.Difficulty,
			JoinCode:         q.JoinCode,
			TimeLimitMinutes: q.TimeLimitMinutes,
			QuestionCount:    q.QuestionCount,
			CreatedAt:        q.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *quizService) GetQuizByJoinCode(ctx context.Context, code string) (*dto.JoinQuizResponseDTO, error) {
	normalized := NormalizeJoinCode(code)
	if normalized == "" {
		return nil, fmt.Errorf("%w: join code is required", ErrValidation)
	}

	quiz, err := s.lookup.ByJoinCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		log.Error().Err(err).Str("joinCode", normalized).Msg("GetQuizByJoinCode: lookup error")
		return nil, fmt.Errorf("%w: resolving join code", ErrDependency)
	}

	resp := dto.JoinQuizResponseDTO{
		ID:               quiz.ID,
		Subject:          quiz.Subject,
		Difficulty:       quiz.Difficulty,
		JoinCode:         quiz.JoinCode,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
	}
	for _, q := range quiz.Questions {
		// Correct options never leave the server on the student path.
		resp.Questions = append(resp.Questions, dto.QuestionPublicDTO{
			Text:     q.Text,
			Options:  q.Options,
			Position: q.Position,
		})
	}
	return &resp, nil
}

func (s *quizService) ownedQuiz(ctx context.Context, quizID uint, teacherID string) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("%w: loading quiz", ErrDependency)
	}
	if quiz.TeacherID != teacherID {
		return nil, ErrNotOwner
	}
	return quiz, nil
}

// NormalizeJoinCode applies the same trimming and upper-casing students' input
// receives in the join flow.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func quizToResponse(quiz *model.Quiz) *dto.QuizResponseDTO {
	var resp dto.QuizResponseDTO
	if err := copier.Copy(&resp, quiz); err != nil {
		log.Error().Err(err).Uint("quizID", quiz.ID).Msg("Failed to copy quiz model to response DTO")
	}
	resp.Questions = make([]dto.QuestionResponseDTO, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponseDTO{
			ID:            q.ID,
			Text:          q.Text,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Position:      q.Position,
		})
	}
	return &resp
}
