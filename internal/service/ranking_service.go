package service

import (
	"sort"

	"quizroom/internal/model"
)

// PassThresholdPercent is the fixed percentage a score must reach for a
// submission to count as passing.
const PassThresholdPercent = 60.0

// QuizStats aggregates class-wide statistics over a quiz's submissions.
type QuizStats struct {
	SubmissionCount int
	AverageScore    float64
	MaxScore        int
	MinScore        int
	PassCount       int
	PassRate        float64
}

// RankingService orders submissions into a leaderboard and derives ranks and
// aggregate statistics. All methods are pure functions over the snapshot they
// are given; repeated calls over the same input return identical results.
type RankingService interface {
	Sort(submissions []model.Submission) []model.Submission
	Rank(sorted []model.Submission, submissionID uint) int
	Stats(submissions []model.Submission, totalQuestions int) (QuizStats, bool)
}

type rankingService struct{}

func NewRankingService() RankingService {
	return &rankingService{}
}

// Sort returns a new slice ordered by score descending, then earlier
// submission first, then id ascending so two submissions can never tie.
func (s *rankingService) Sort(submissions []model.Submission) []model.Submission {
	sorted := make([]model.Submission, len(submissions))
	copy(sorted, submissions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if !sorted[i].SubmittedAt.Equal(sorted[j].SubmittedAt) {
			return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// Rank is the 1-based position of a submission within the sorted leaderboard,
// or 0 when the submission is not present.
func (s *rankingService) Rank(sorted []model.Submission, submissionID uint) int {
	for i := range sorted {
		if sorted[i].ID == submissionID {
			return i + 1
		}
	}
	return 0
}

// Stats computes aggregates over all submissions for a quiz. The second return
// value is false when there are no submissions: "no data" is an explicit state,
// never a zero-filled result or a division by zero.
func (s *rankingService) Stats(submissions []model.Submission, totalQuestions int) (QuizStats, bool) {
	if len(submissions) == 0 || totalQuestions == 0 {
		return QuizStats{}, false
	}

	stats := QuizStats{
		SubmissionCount: len(submissions),
		MaxScore:        submissions[0].Score,
		MinScore:        submissions[0].Score,
	}
	total := 0
	for _, sub := range submissions {
		total += sub.Score
		if sub.Score > stats.MaxScore {
			stats.MaxScore = sub.Score
		}
		if sub.Score < stats.MinScore {
			stats.MinScore = sub.Score
		}
		if Percentage(sub.Score, totalQuestions) >= PassThresholdPercent {
			stats.PassCount++
		}
	}
	stats.AverageScore = float64(total) / float64(len(submissions))
	stats.PassRate = float64(stats.PassCount) / float64(len(submissions)) * 100
	return stats, true
}

// Percentage converts a raw score into a percentage of the question count.
func Percentage(score, totalQuestions int) float64 {
	return float64(score) / float64(totalQuestions) * 100
}

// Grade maps a score percentage onto a letter grade. Boundaries are inclusive
// on the lower bound of each band: exactly 90% is an A+, exactly 50% a D.
func Grade(score, totalQuestions int) string {
	percentage := Percentage(score, totalQuestions)
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	default:
		return "F"
	}
}
