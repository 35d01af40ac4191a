package repository

import (
	"context"

	"gorm.io/gorm"

	"quizroom/internal/model"
)

type QuizRepository interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	FindByID(ctx context.Context, id uint) (*model.Quiz, error)
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.Quiz, error)
	FindByJoinCode(ctx context.Context, code string) (*model.Quiz, error)
	FindByTeacherID(ctx context.Context, teacherID string) ([]QuizWithQuestionCount, error)
	JoinCodeExists(ctx context.Context, code string) (bool, error)
	UpdateMetadata(ctx context.Context, quiz *model.Quiz) error
}

// QuizWithQuestionCount avoids loading full question sets when listing.
type QuizWithQuestionCount struct {
	model.Quiz
	QuestionCount int
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	// Create with associations persists the question set in the same
	// transaction as the quiz row.
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) FindByID(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.WithContext(ctx).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByJoinCode(ctx context.Context, code string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.WithContext(ctx).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).Where("join_code = ?", code).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByTeacherID(ctx context.Context, teacherID string) ([]QuizWithQuestionCount, error) {
	var results []QuizWithQuestionCount
	err := r.db.WithContext(ctx).Model(&model.Quiz{}).
		Select("quizzes.*, (SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) as question_count").
		Where("quizzes.teacher_id = ?", teacherID).
		Order("quizzes.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *quizRepository) JoinCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Quiz{}).Where("join_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *quizRepository) UpdateMetadata(ctx context.Context, quiz *model.Quiz) error {
	// Questions are immutable after creation; only the quiz row is saved.
	return r.db.WithContext(ctx).Omit("Questions").Save(quiz).Error
}
