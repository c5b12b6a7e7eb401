package tutor

import (
	"context"
	"errors"
	"testing"

	"lingua-bot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type stubModel struct {
	response string
	err      error
	prompts  []string
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				s.prompts = append(s.prompts, text.Text)
			}
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s.response}}}, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, s, prompt, options...)
}

func newTestTutor(m *stubModel) *LLMTutor {
	return NewLLMTutor(m, 0.7, zap.NewNop())
}

func TestAssessProficiency(t *testing.T) {
	model := &stubModel{response: "Great job! 🎉 A few errors with articles.\n```B1```\nKeep practicing."}
	tutor := newTestTutor(model)

	got, err := tutor.AssessProficiency(context.Background(), "I has a dog.", domain.LanguageRussian)
	require.NoError(t, err)
	assert.Equal(t, "B1", got.Level)
	assert.NotContains(t, got.Explanation, "```")
	assert.Contains(t, got.Explanation, "A few errors with articles.")

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "I has a dog.")
	assert.Contains(t, model.prompts[0], "Respond in Russian.")
}

func TestAssessProficiency_NoFencedLevel(t *testing.T) {
	tutor := newTestTutor(&stubModel{response: "Your English looks intermediate."})

	got, err := tutor.AssessProficiency(context.Background(), "text", domain.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownLevel, got.Level)
	assert.Equal(t, "Your English looks intermediate.", got.Explanation)
}

func TestTutor_ProviderFailure(t *testing.T) {
	tutor := newTestTutor(&stubModel{err: errors.New("connection refused")})
	ctx := context.Background()

	_, err := tutor.AssessProficiency(ctx, "text", domain.LanguageEnglish)
	assert.Equal(t, domain.ErrLLMServiceError, domain.CodeOf(err))

	_, err = tutor.GenerateTopics(ctx, "text", "B1", domain.LanguageEnglish)
	assert.Equal(t, domain.ErrLLMServiceError, domain.CodeOf(err))

	_, err = tutor.ExtractIntroduction(ctx, "I am Aigerim, 25")
	assert.Equal(t, domain.ErrLLMServiceError, domain.CodeOf(err))
}

func TestTutor_EmptyResponse(t *testing.T) {
	tutor := newTestTutor(&stubModel{response: "  <think>hmm</think>  "})

	_, err := tutor.GenerateTopics(context.Background(), "text", "A2", domain.LanguageKazakh)
	require.Error(t, err)
	assert.Equal(t, domain.ErrLLMServiceError, domain.CodeOf(err))
}

func TestGenerateTopics_PromptCarriesLevelAndLanguage(t *testing.T) {
	model := &stubModel{response: "1. Past simple\n2. Articles"}
	tutor := newTestTutor(model)

	topics, err := tutor.GenerateTopics(context.Background(), "My paragraph", "A2", domain.LanguageUzbek)
	require.NoError(t, err)
	assert.Equal(t, "1. Past simple\n2. Articles", topics)
	assert.Contains(t, model.prompts[0], "My paragraph")
	assert.Contains(t, model.prompts[0], "A2 is their current English proficiency level")
	assert.Contains(t, model.prompts[0], "Respond in Uzbek.")
}

func TestExtractIntroduction(t *testing.T) {
	testCases := []struct {
		name      string
		response  string
		wantIntro *domain.Introduction
		wantCode  domain.ErrorCode
	}{
		{name: "name and age", response: "Aigerim 25", wantIntro: &domain.Introduction{Name: "Aigerim", Age: "25"}},
		{name: "extra tokens", response: "Timur 31 years", wantIntro: &domain.Introduction{Name: "Timur", Age: "31"}},
		{name: "sentinel", response: "`INVALID_INPUT`", wantCode: domain.ErrExtractionAmbiguity},
		{name: "age not numeric", response: "Timur thirty", wantCode: domain.ErrExtractionAmbiguity},
		{name: "single token", response: "Timur", wantCode: domain.ErrExtractionAmbiguity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tutor := newTestTutor(&stubModel{response: tc.response})
			intro, err := tutor.ExtractIntroduction(context.Background(), "hello")
			if tc.wantIntro != nil {
				require.NoError(t, err)
				assert.Equal(t, tc.wantIntro, intro)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, domain.CodeOf(err))
			assert.True(t, domain.IsRecoverable(err))
		})
	}
}

func TestGenerateEssayTopic_FirstLineOnly(t *testing.T) {
	tutor := newTestTutor(&stubModel{response: "\"The city I would like to visit\"\nThis topic helps..."})

	topic, err := tutor.GenerateEssayTopic(context.Background(), "B1", domain.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "The city I would like to visit", topic)
}

func TestEvaluateEssay(t *testing.T) {
	model := &stubModel{response: "```json\n{\"feedback\": \"Use 'went' instead of 'goed'.\", \"score\": 7}\n```"}
	tutor := newTestTutor(model)

	eval, err := tutor.EvaluateEssay(context.Background(), "My weekend", "I goed to park.", "A2", domain.LanguageKyrgyz)
	require.NoError(t, err)
	assert.Equal(t, &domain.EssayEvaluation{Feedback: "Use 'went' instead of 'goed'.", Score: 7}, eval)
	assert.Contains(t, model.prompts[0], "My weekend")
	assert.Contains(t, model.prompts[0], "written in Kyrgyz")
}

func TestEvaluateEssay_ScoreClampedToRange(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "huge", raw: "1e300", want: 10},
		{name: "above range", raw: "11.7", want: 10},
		{name: "negative", raw: "-5", want: 0},
		{name: "huge negative", raw: "-1e300", want: 0},
		{name: "rounds half up", raw: "6.5", want: 7},
		{name: "rounds down", raw: "6.4", want: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tutor := newTestTutor(&stubModel{response: `{"feedback": "ok", "score": ` + tt.raw + `}`})
			eval, err := tutor.EvaluateEssay(context.Background(), "topic", "essay", "B1", domain.LanguageEnglish)
			require.NoError(t, err)
			assert.Equal(t, tt.want, eval.Score)
		})
	}
}

func TestEvaluateEssay_Malformed(t *testing.T) {
	tutor := newTestTutor(&stubModel{response: "I think this essay is fine."})

	_, err := tutor.EvaluateEssay(context.Background(), "topic", "essay", "B2", domain.LanguageEnglish)
	require.Error(t, err)
	assert.Equal(t, domain.ErrLLMServiceError, domain.CodeOf(err))
}

func TestGenerateLesson(t *testing.T) {
	model := &stubModel{response: "Passage..."}
	tutor := newTestTutor(model)

	lesson, err := tutor.GenerateLesson(context.Background(), domain.LessonReading, "B2", domain.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Passage...", lesson)
	assert.Contains(t, model.prompts[0], "reading passage")

	_, err = tutor.GenerateLesson(context.Background(), domain.LessonKind("speaking"), "B2", domain.LanguageEnglish)
	assert.Equal(t, domain.ErrValidation, domain.CodeOf(err))
}
