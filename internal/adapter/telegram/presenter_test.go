package telegram

import (
	"testing"

	"lingua-bot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenter_TextEscapesParamsAndKeepsBold(t *testing.T) {
	p := NewPresenter(nil)

	text := p.Text(domain.LanguageEnglish, domain.Message{
		Key:    domain.MsgIntroductionRecorded,
		Params: map[string]string{"name": "Ali_B.", "age": "20"},
	})
	assert.Equal(t, "✅ *Your introduction has been recorded\\.*\n\n👤 Name: Ali\\_B\\.\n🎂 Age: 20", text)
}

func TestPresenter_TextAppendsEscapedBody(t *testing.T) {
	p := NewPresenter(nil)

	text := p.Text(domain.LanguageEnglish, domain.Message{Key: domain.MsgPersonalizedTopics, Body: "1. Past (simple) *tense*"})
	assert.Equal(t, "✅ *Your Personalized List of Topics:*\n\n1\\. Past \\(simple\\) \\*tense\\*", text)
}

func TestPresenter_TextBodyPlaceholder(t *testing.T) {
	p := NewPresenter(nil)

	text := p.Text(domain.LanguageRussian, domain.Message{
		Key:    domain.MsgAssessmentResults,
		Params: map[string]string{"level": "B2"},
		Body:   "Good!",
	})
	assert.Equal(t, "📊 *Результаты оценки:*\n\nGood\\!\n\n🌍 *Предположительный уровень:* *B2*", text)
}

func TestPresenter_TextFallsBackToEnglish(t *testing.T) {
	p := NewPresenter(nil)

	text := p.Text(domain.LanguageKazakh, domain.Message{Key: domain.MsgRegistrationCancelled})
	assert.Equal(t, "✅ *Your registration has been canceled and all data has been deleted\\.*", text)
}

func TestPresenter_TextDefaults(t *testing.T) {
	p := NewPresenter(map[string]string{"broadcast_time": "14:00"})

	text := p.Text(domain.LanguageEnglish, domain.Message{Key: domain.MsgSetupComplete})
	assert.Contains(t, text, "Every day at *14:00*, you will receive a reminder\\.")
}

func TestFill_UnknownPlaceholderStaysLiteral(t *testing.T) {
	got := fill("a {x} b.", func(string) (string, bool) { return "", false })
	assert.Equal(t, "a \\{x\\} b\\.", got)
}

func TestPresenter_RenderMarkup(t *testing.T) {
	p := NewPresenter(nil)
	reply := domain.NewReply(domain.LanguageRussian,
		domain.Message{Key: domain.MsgChooseOption, Choices: []domain.Action{domain.ActionRetakeAssessment, domain.ActionContinueSetup}},
		domain.Message{Key: domain.MsgWelcome, Languages: true},
		domain.Message{Key: domain.MsgSendParagraph, RemoveKeyboard: true},
		domain.Message{Key: domain.MsgIntroducePrompt},
	)

	msgs := p.Render(42, reply)
	require.Len(t, msgs, 4)
	for _, msg := range msgs {
		assert.Equal(t, int64(42), msg.ChatID)
		assert.Equal(t, tgbotapi.ModeMarkdownV2, msg.ParseMode)
	}

	inline, ok := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, inline.InlineKeyboard, 2)
	assert.Equal(t, "🔄 Пересдать тест", inline.InlineKeyboard[0][0].Text)
	assert.Equal(t, "retake_assessment", *inline.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "continue_setup", *inline.InlineKeyboard[1][0].CallbackData)

	keyboard, ok := msgs[1].ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, keyboard.OneTimeKeyboard)
	require.Len(t, keyboard.Keyboard, 1)
	labels := make([]string, 0, 5)
	for _, button := range keyboard.Keyboard[0] {
		labels = append(labels, button.Text)
	}
	assert.Equal(t, []string{"Russian", "Kazakh", "English", "Uzbek", "Kyrgyz"}, labels)

	_, ok = msgs[2].ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	assert.True(t, ok)
	assert.Nil(t, msgs[3].ReplyMarkup)
}

func TestActionLabel(t *testing.T) {
	assert.Equal(t, "➡️ Finish setup", ActionLabel(domain.ActionFinishSetup, domain.LanguageEnglish))
	assert.Equal(t, "➡️ Орнатуды аяқтау", ActionLabel(domain.ActionFinishSetup, domain.LanguageKazakh))
	assert.Equal(t, "🎧 Listening", ActionLabel(domain.ActionStartListening, domain.LanguageUzbek))
	assert.Equal(t, "text", ActionLabel(domain.ActionText, domain.LanguageEnglish))
}

func TestCatalog_EveryKeyHasEnglish(t *testing.T) {
	keys := []domain.MessageKey{
		domain.MsgWelcome, domain.MsgInvalidLanguage, domain.MsgAlreadySetUp, domain.MsgSendParagraph,
		domain.MsgAssessmentResults, domain.MsgChooseOption, domain.MsgRetakeAssessment,
		domain.MsgPersonalizedTopics, domain.MsgIntroducePrompt, domain.MsgIntroductionRecorded,
		domain.MsgIntroductionError, domain.MsgProceedToLearning, domain.MsgSetupComplete,
		domain.MsgTaskMenu, domain.MsgRegistrationCancelled, domain.MsgCancel, domain.MsgError,
		domain.MsgStartHint, domain.MsgLesson, domain.MsgEssayAssigned, domain.MsgEssayResumed,
		domain.MsgEssayFeedback, domain.MsgEssayUnavailable, domain.MsgPointsAwarded, domain.MsgReminder,
	}
	for _, key := range keys {
		assert.NotEmpty(t, lookupTemplate(key, domain.LanguageEnglish), string(key))
	}
}
