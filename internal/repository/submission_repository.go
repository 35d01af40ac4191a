package repository

import (
	"context"

	"gorm.io/gorm"

	"quizroom/internal/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	FindByID(ctx context.Context, id uint) (*model.Submission, error)
	FindByQuizID(ctx context.Context, quizID uint) ([]model.Submission, error)
	FindByStudentID(ctx context.Context, studentID string) ([]model.Submission, error)
	Delete(ctx context.Context, id uint) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) FindByID(ctx context.Context, id uint) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByQuizID returns the quiz's submissions pre-ordered by the leaderboard
// rule: score descending, earlier submission first on ties, id as the final
// deterministic tie-break.
func (r *submissionRepository) FindByQuizID(ctx context.Context, quizID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("score DESC").
		Order("submitted_at ASC").
		Order("id ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) FindByStudentID(ctx context.Context, studentID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Submission{}, id).Error
}
