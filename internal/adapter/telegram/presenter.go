package telegram

import (
	"strings"

	"lingua-bot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Presenter turns transport-neutral replies into Telegram messages.
type Presenter struct {
	defaults map[string]string
}

// NewPresenter takes the values of placeholders no reply carries itself, such
// as the broadcast time.
func NewPresenter(defaults map[string]string) *Presenter {
	return &Presenter{defaults: defaults}
}

// Render builds one MarkdownV2 message per reply message, in order.
func (p *Presenter) Render(chatID int64, reply *domain.Reply) []tgbotapi.MessageConfig {
	out := make([]tgbotapi.MessageConfig, 0, len(reply.Messages))
	for _, msg := range reply.Messages {
		cfg := tgbotapi.NewMessage(chatID, p.Text(reply.Language, msg))
		cfg.ParseMode = tgbotapi.ModeMarkdownV2

		switch {
		case len(msg.Choices) > 0:
			cfg.ReplyMarkup = InlineChoices(reply.Language, msg.Choices)
		case msg.Languages:
			cfg.ReplyMarkup = languageKeyboard()
		case msg.RemoveKeyboard:
			cfg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		}
		out = append(out, cfg)
	}
	return out
}

// Text renders the localized template for msg. Template text keeps its bold
// markers; params and the body are escaped in full.
func (p *Presenter) Text(lang domain.Language, msg domain.Message) string {
	tmpl := lookupTemplate(msg.Key, lang)
	if tmpl == "" {
		tmpl = string(msg.Key)
	}

	lookup := func(name string) (string, bool) {
		if name == "body" {
			return msg.Body, true
		}
		if v, ok := msg.Params[name]; ok {
			return v, true
		}
		v, ok := p.defaults[name]
		return v, ok
	}

	text := fill(tmpl, lookup)
	if msg.Body != "" && !strings.Contains(tmpl, "{body}") {
		text += "\n\n" + escape(msg.Body)
	}
	return text
}

// fill escapes tmpl and substitutes {name} placeholders with escaped values.
// Unknown placeholders stay as literal text.
func fill(tmpl string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(tmpl, '{')
		if open == -1 {
			break
		}
		end := strings.IndexByte(tmpl[open:], '}')
		if end == -1 {
			break
		}
		end += open

		b.WriteString(escapeKeepBold(tmpl[:open]))
		if v, ok := lookup(tmpl[open+1 : end]); ok {
			b.WriteString(escape(v))
		} else {
			b.WriteString(escape(tmpl[open : end+1]))
		}
		tmpl = tmpl[end+1:]
	}
	b.WriteString(escapeKeepBold(tmpl))
	return b.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func escapeKeepBold(s string) string {
	parts := strings.Split(s, "*")
	for i, part := range parts {
		parts[i] = escape(part)
	}
	return strings.Join(parts, "*")
}

// InlineChoices lays out one button per row; the callback data is the action.
func InlineChoices(lang domain.Language, actions []domain.Action) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, action := range actions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(ActionLabel(action, lang), string(action)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func languageKeyboard() tgbotapi.ReplyKeyboardMarkup {
	buttons := make([]tgbotapi.KeyboardButton, 0, len(domain.SupportedLanguages))
	for _, lang := range domain.SupportedLanguages {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(string(lang)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(buttons...))
	keyboard.OneTimeKeyboard = true
	keyboard.ResizeKeyboard = true
	return keyboard
}
