package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"lingua-bot/internal/config"
	"lingua-bot/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LLMTutor implements domain.Tutor on a langchaingo model.
type LLMTutor struct {
	llm         llms.Model
	temperature float64
	logger      *zap.Logger
}

func NewLLMTutor(llm llms.Model, temperature float64, logger *zap.Logger) *LLMTutor {
	return &LLMTutor{llm: llm, temperature: temperature, logger: logger}
}

// NewModel builds the configured langchaingo model.
func NewModel(cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return llm, nil
	case "ollama":
		httpClient := &http.Client{Timeout: cfg.Timeout + 5*time.Second}
		llm, err := ollama.New(ollama.WithServerURL(cfg.ServerURL), ollama.WithModel(cfg.Model), ollama.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

func (t *LLMTutor) AssessProficiency(ctx context.Context, paragraph string, lang domain.Language) (*domain.Assessment, error) {
	prompt := "You are an expert in English proficiency assessment. Use emojis. " +
		"Analyze errors in the user's text, provide improvement suggestions, " +
		"and ensure that only the final English level is enclosed inside triple backticks like this: ```B2```. " +
		fmt.Sprintf("Respond in %s.\n\n", lang) +
		"Assess the following text:\n" + paragraph

	raw, err := t.call(ctx, "assess_proficiency", prompt)
	if err != nil {
		return nil, err
	}
	level, explanation := ExtractLevel(raw)
	t.logger.Info("Proficiency assessed", zap.String("level", level), zap.String("language", string(lang)))
	return &domain.Assessment{Level: level, Explanation: explanation}, nil
}

func (t *LLMTutor) GenerateTopics(ctx context.Context, paragraph, level string, lang domain.Language) (string, error) {
	prompt := fmt.Sprintf(`You are an expert in language learning. Based on the following paragraph provided by the user:

%s

%s is their current English proficiency level. If the user's English level is A1 or A2, mention that these tasks might be too advanced. Generate a personalized list of topics the user should learn to improve. Respond in %s.`, paragraph, level, lang)

	return t.call(ctx, "generate_topics", prompt)
}

func (t *LLMTutor) ExtractIntroduction(ctx context.Context, text string) (*domain.Introduction, error) {
	prompt := "You are an assistant that extracts the user's name and age from this text. " +
		"Return them as two strings separated by space: Name Age. " +
		"If you cannot find both name and age, return exactly `" + InvalidInputSentinel + "`.\n\n" + text

	raw, err := t.call(ctx, "extract_introduction", prompt)
	if err != nil {
		return nil, err
	}
	intro, err := ParseIntroduction(raw)
	if err != nil {
		t.logger.Info("Introduction could not be extracted", zap.String("raw_response", raw))
		return nil, err
	}
	return intro, nil
}

func (t *LLMTutor) GenerateEssayTopic(ctx context.Context, level string, lang domain.Language) (string, error) {
	prompt := fmt.Sprintf(`You are an English writing coach. Suggest exactly one essay topic suitable for a learner at the %s level.
Reply with the topic only, in English, on a single line without quotes or numbering. Do not add any explanation in %s.`, level, lang)

	topic, err := t.call(ctx, "generate_essay_topic", prompt)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.SplitN(topic, "\n", 2)[0], " \"'*"), nil
}

func (t *LLMTutor) EvaluateEssay(ctx context.Context, topic, essay, level string, lang domain.Language) (*domain.EssayEvaluation, error) {
	prompt := fmt.Sprintf(`You are an English essay evaluator. Evaluate the essay and respond with ONLY a JSON object in the following format:
{
    "feedback": "feedback here",
    "score": 0
}

Topic: %s
Learner level: %s
Essay: %s

Rules:
1. score is an integer from 0 to 10 (10 is perfect)
2. feedback points out grammar and vocabulary mistakes with corrections and is written in %s
3. feedback must be under 150 words`, topic, level, essay, lang)

	raw, err := t.call(ctx, "evaluate_essay", prompt)
	if err != nil {
		return nil, err
	}
	eval, err := ParseEssayEvaluation(raw)
	if err != nil {
		t.logger.Error("Failed to parse essay evaluation", zap.Error(err), zap.String("raw_response", raw))
		return nil, domain.NewLLMServiceError(err)
	}
	return eval, nil
}

func (t *LLMTutor) GenerateLesson(ctx context.Context, kind domain.LessonKind, level string, lang domain.Language) (string, error) {
	var task string
	switch kind {
	case domain.LessonListening:
		task = "Write a short dialogue transcript (8-10 lines) the learner can read aloud or listen to with a text-to-speech tool, followed by three comprehension questions."
	case domain.LessonReading:
		task = "Write a short reading passage (120-180 words) followed by three comprehension questions and a list of five useful words with definitions."
	default:
		return "", domain.NewValidationError(fmt.Sprintf("unknown lesson kind: %q", kind))
	}

	prompt := fmt.Sprintf(`You are an English teacher. The learner's level is %s. %s
Keep the lesson content in English and give the instructions in %s.`, level, task, lang)

	return t.call(ctx, "generate_lesson", prompt)
}

// call sends prompt as a single user message. Errors, an expired context and
// empty output are all LLM service errors.
func (t *LLMTutor) call(ctx context.Context, operation, prompt string) (string, error) {
	start := time.Now()
	raw, err := llms.GenerateFromSinglePrompt(ctx, t.llm, prompt, llms.WithTemperature(t.temperature))
	if err != nil {
		t.logger.Error("LLM call failed",
			zap.String("operation", operation),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("%s: %w", operation, err))
	}

	cleaned := StripThinking(raw)
	if cleaned == "" {
		return "", domain.NewLLMServiceError(fmt.Errorf("%s: empty response from model", operation))
	}

	t.logger.Debug("LLM response received",
		zap.String("operation", operation),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("length", len(cleaned)))
	return cleaned, nil
}

type essayEvaluationJSON struct {
	Feedback string  `json:"feedback"`
	Score    float64 `json:"score"`
}

// ParseEssayEvaluation reads the evaluation JSON, tolerating code fences and
// surrounding prose. The score is clamped to 0..10.
func ParseEssayEvaluation(raw string) (*domain.EssayEvaluation, error) {
	cleaned := ExtractJSON(raw)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in LLM response")
	}

	var parsed essayEvaluationJSON
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal essay evaluation: %w", err)
	}
	if strings.TrimSpace(parsed.Feedback) == "" {
		return nil, fmt.Errorf("essay evaluation has no feedback")
	}

	score := int(math.Round(math.Min(math.Max(parsed.Score, 0), 10)))
	return &domain.EssayEvaluation{Feedback: strings.TrimSpace(parsed.Feedback), Score: score}, nil
}
