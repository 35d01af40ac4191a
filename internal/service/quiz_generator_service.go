package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"quizroom/config"
	"quizroom/internal/dto"
)

const generatorSystemPrompt = `You are an expert quiz generator. Your task is to create a multiple-choice quiz based on the user's prompt.
Each question must have exactly 4 distinct options and exactly one correct answer.
The output MUST be a JSON object with a single key "questions", an array of question objects.
Each question object MUST have "text" (string), "options" (array of 4 strings) and "correct_option" (string, one of the options).
Respond with the JSON object only. No markdown, no explanations, no text outside the JSON object.`

// QuizGeneratorService drafts a question set with Gemini. The result is
// returned to the teacher for review; nothing is persisted here.
type QuizGeneratorService interface {
	Generate(ctx context.Context, req dto.QuizGenerateDTO) (*dto.GeneratedQuizDTO, error)
}

type quizGeneratorService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewQuizGeneratorService(cfg *config.Config) (QuizGeneratorService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Quiz generation will be unavailable.")
		return &quizGeneratorService{cfg: cfg}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.7)
	return &quizGeneratorService{client: model, cfg: cfg}, nil
}

func (s *quizGeneratorService) Generate(ctx context.Context, req dto.QuizGenerateDTO) (*dto.GeneratedQuizDTO, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: quiz generator is not configured", ErrDependency)
	}

	userPrompt := fmt.Sprintf(`Generate a quiz on the subject of %q.
The quiz should have %d questions of %s difficulty.
Here is the specific topic/prompt: %q`, req.Subject, req.NumQuestions, req.Difficulty, req.Prompt)

	resp, err := s.client.GenerateContent(ctx, genai.Text(generatorSystemPrompt), genai.Text(userPrompt))
	if err != nil {
		log.Error().Err(err).Str("subject", req.Subject).Msg("Generate: Gemini call failed")
		return nil, fmt.Errorf("%w: quiz generation failed", ErrDependency)
	}

	raw, err := responseText(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDependency, err)
	}

	generated, err := parseGeneratedQuiz(raw)
	if err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("Generate: model returned an unusable quiz")
		return nil, fmt.Errorf("%w: %s", ErrDependency, err)
	}

	log.Info().Str("subject", req.Subject).Int("questions", len(generated.Questions)).Msg("Quiz draft generated")
	return generated, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text parts in model response")
	}
	return b.String(), nil
}

// parseGeneratedQuiz strips markdown fences the model sometimes wraps around
// the JSON, then validates every question against the answer-key invariants.
func parseGeneratedQuiz(raw string) (*dto.GeneratedQuizDTO, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var generated dto.GeneratedQuizDTO
	if err := json.Unmarshal([]byte(cleaned), &generated); err != nil {
		return nil, fmt.Errorf("model response is not valid quiz JSON: %w", err)
	}
	if len(generated.Questions) == 0 {
		return nil, fmt.Errorf("model response contains no questions")
	}

	for i, q := range generated.Questions {
		if q.Text == "" {
			return nil, fmt.Errorf("generated question %d has no text", i)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("generated question %d has %d options, want 4", i, len(q.Options))
		}
		seen := make(map[string]bool, 4)
		for _, opt := range q.Options {
			if seen[opt] {
				return nil, fmt.Errorf("generated question %d has duplicate option %q", i, opt)
			}
			seen[opt] = true
		}
		if !seen[q.CorrectOption] {
			return nil, fmt.Errorf("generated question %d: correct option %q is not among the options", i, q.CorrectOption)
		}
	}
	return &generated, nil
}
