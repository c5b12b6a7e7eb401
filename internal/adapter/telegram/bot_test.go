package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"lingua-bot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestToEvent(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
		want   domain.Event
		ok     bool
	}{
		{
			name:   "start command",
			update: commandUpdate(7, "start"),
			want:   domain.Event{UserID: 7, ChatID: 7, Action: domain.ActionStart},
			ok:     true,
		},
		{
			name:   "cancel command",
			update: commandUpdate(7, "cancel"),
			want:   domain.Event{UserID: 7, ChatID: 7, Action: domain.ActionCancel},
			ok:     true,
		},
		{
			name:   "lesson command",
			update: commandUpdate(7, "lesson"),
			want:   domain.Event{UserID: 7, ChatID: 7, Action: domain.ActionLesson},
			ok:     true,
		},
		{
			name:   "unknown command ignored",
			update: commandUpdate(7, "help"),
			ok:     false,
		},
		{
			name:   "free text",
			update: textUpdate(7, "Kazakh"),
			want:   domain.Event{UserID: 7, ChatID: 7, Action: domain.ActionText, Text: "Kazakh"},
			ok:     true,
		},
		{
			name:   "button press",
			update: callbackUpdate(7, "finish_setup"),
			want:   domain.Event{UserID: 7, ChatID: 7, Action: domain.ActionFinishSetup},
			ok:     true,
		},
		{
			name:   "unknown callback payload ignored",
			update: callbackUpdate(7, "start_vocab"),
			ok:     false,
		},
		{
			name:   "callback text action is not a button",
			update: callbackUpdate(7, "text"),
			ok:     false,
		},
		{
			name:   "no message",
			update: tgbotapi.Update{UpdateID: 1},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToEvent(tt.update)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBot_HandleUpdateSendsRenderedReply(t *testing.T) {
	api := newFakeAPI()
	var got domain.Event
	handler := handlerFunc(func(_ context.Context, ev domain.Event) (*domain.Reply, error) {
		got = ev
		return domain.NewReply(domain.LanguageEnglish,
			domain.Message{Key: domain.MsgSendParagraph, RemoveKeyboard: true},
		), nil
	})
	bot := NewBot(api, api, handler, NewPresenter(nil), 1, 0, zap.NewNop())

	bot.HandleUpdate(context.Background(), textUpdate(5, "English"))

	assert.Equal(t, domain.Event{UserID: 5, ChatID: 5, Action: domain.ActionText, Text: "English"}, got)
	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(5), msgs[0].ChatID)
	assert.Empty(t, api.requests)
}

func TestBot_HandleUpdateAnswersCallback(t *testing.T) {
	api := newFakeAPI()
	handler := handlerFunc(func(context.Context, domain.Event) (*domain.Reply, error) {
		return domain.NewReply(domain.LanguageEnglish, domain.Message{Key: domain.MsgTaskMenu}), nil
	})
	bot := NewBot(api, api, handler, NewPresenter(nil), 1, 0, zap.NewNop())

	bot.HandleUpdate(context.Background(), callbackUpdate(5, "finish_setup"))
	bot.HandleUpdate(context.Background(), callbackUpdate(5, "stale_button"))

	require.Len(t, api.requests, 2)
	for _, req := range api.requests {
		cb, ok := req.(tgbotapi.CallbackConfig)
		require.True(t, ok)
		assert.Equal(t, "cb-1", cb.CallbackQueryID)
	}
	assert.Len(t, api.messages(), 1)
}

func TestBot_HandleUpdateHandlerErrorSendsGenericMessage(t *testing.T) {
	api := newFakeAPI()
	handler := handlerFunc(func(context.Context, domain.Event) (*domain.Reply, error) {
		return nil, domain.NewPersistenceError("save record", errors.New("disk full"))
	})
	bot := NewBot(api, api, handler, NewPresenter(nil), 1, 0, zap.NewNop())

	bot.HandleUpdate(context.Background(), textUpdate(5, "hello"))

	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, NewPresenter(nil).Text(domain.LanguageEnglish, domain.Message{Key: domain.MsgError}), msgs[0].Text)
}

func TestBot_HandleUpdateStopsOnSendFailure(t *testing.T) {
	api := newFakeAPI()
	api.sendErr = errSend
	calls := 0
	handler := handlerFunc(func(context.Context, domain.Event) (*domain.Reply, error) {
		calls++
		return domain.NewReply(domain.LanguageEnglish,
			domain.Message{Key: domain.MsgAssessmentResults},
			domain.Message{Key: domain.MsgChooseOption},
		), nil
	})
	bot := NewBot(api, api, handler, NewPresenter(nil), 1, 0, zap.NewNop())

	bot.HandleUpdate(context.Background(), textUpdate(5, "paragraph"))

	assert.Equal(t, 1, calls)
	assert.Empty(t, api.messages())
}

func TestBot_RunKeepsPerUserOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := newFakeAPI()
	var mu sync.Mutex
	seen := map[int64][]string{}
	handler := handlerFunc(func(_ context.Context, ev domain.Event) (*domain.Reply, error) {
		mu.Lock()
		seen[ev.UserID] = append(seen[ev.UserID], ev.Text)
		mu.Unlock()
		return domain.NewReply(domain.LanguageEnglish, domain.Message{Key: domain.MsgLesson, Body: ev.Text}), nil
	})
	bot := NewBot(api, api, handler, NewPresenter(nil), 3, 0, zap.NewNop())

	const perUser = 15
	for i := 0; i < perUser; i++ {
		for _, user := range []int64{1, 2, 3, 4} {
			api.updates <- textUpdate(user, fmt.Sprintf("m%02d", i))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(api.messages()) == 4*perUser
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not stop")
	}

	api.mu.Lock()
	assert.True(t, api.stopped)
	require.NotEmpty(t, api.requests)
	_, isCommands := api.requests[0].(tgbotapi.SetMyCommandsConfig)
	assert.True(t, isCommands)
	api.mu.Unlock()

	mu.Lock()
	defer mu.Unlock()
	for _, user := range []int64{1, 2, 3, 4} {
		require.Len(t, seen[user], perUser)
		for i, text := range seen[user] {
			assert.Equal(t, fmt.Sprintf("m%02d", i), text)
		}
	}
}

func TestBot_RunReturnsWhenUpdatesClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := newFakeAPI()
	handled := make(chan struct{}, 1)
	handler := handlerFunc(func(context.Context, domain.Event) (*domain.Reply, error) {
		handled <- struct{}{}
		return domain.NewReply(domain.LanguageEnglish, domain.Message{Key: domain.MsgStartHint}), nil
	})
	bot := NewBot(api, api, handler, NewPresenter(nil), 0, 0, zap.NewNop())

	api.updates <- commandUpdate(9, "start")
	close(api.updates)

	require.NoError(t, bot.Run(context.Background()))
	assert.Len(t, handled, 1)
	assert.Len(t, api.messages(), 1)
}
