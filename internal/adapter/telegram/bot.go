// Package telegram is the Telegram transport: long polling, update mapping,
// localized rendering and reminder delivery.
package telegram

import (
	"context"

	"lingua-bot/internal/domain"
	"lingua-bot/internal/util"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sender is the part of *tgbotapi.BotAPI used to talk to Telegram.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// UpdateSource is the long-polling part of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// EventHandler consumes conversation events.
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event) (*domain.Reply, error)
}

// Bot polls for updates and dispatches them to a fixed pool of workers.
// Updates of one user always go to the same worker, so a user's events are
// handled in arrival order while different users proceed in parallel.
type Bot struct {
	sender      Sender
	source      UpdateSource
	handler     EventHandler
	presenter   *Presenter
	workers     int
	pollTimeout int
	logger      *zap.Logger
}

func NewBot(sender Sender, source UpdateSource, handler EventHandler, presenter *Presenter, workers, pollTimeout int, logger *zap.Logger) *Bot {
	if workers < 1 {
		workers = 1
	}
	return &Bot{
		sender:      sender,
		source:      source,
		handler:     handler,
		presenter:   presenter,
		workers:     workers,
		pollTimeout: pollTimeout,
		logger:      logger,
	}
}

var botCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Set up your learning profile"},
	{Command: "lesson", Description: "Start a new lesson"},
	{Command: "cancel", Description: "Cancel the current conversation"},
}

// Run polls until ctx is cancelled. Updates already queued are still handled.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.sender.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		b.logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.source.GetUpdatesChan(cfg)

	g := new(errgroup.Group)
	shards := make([]chan tgbotapi.Update, b.workers)
	for i := range shards {
		shard := make(chan tgbotapi.Update, 32)
		shards[i] = shard
		g.Go(func() error {
			for upd := range shard {
				b.HandleUpdate(ctx, upd)
			}
			return nil
		})
	}

	b.logger.Info("Telegram bot polling", zap.Int("workers", b.workers))

	g.Go(func() error {
		defer func() {
			for _, shard := range shards {
				close(shard)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				b.source.StopReceivingUpdates()
				return nil
			case upd, ok := <-updates:
				if !ok {
					return nil
				}
				shards[b.shardFor(upd)] <- upd
			}
		}
	})

	err := g.Wait()
	b.logger.Info("Telegram bot stopped")
	return err
}

func (b *Bot) shardFor(upd tgbotapi.Update) int {
	var userID int64
	if upd.SentFrom() != nil {
		userID = upd.SentFrom().ID
	}
	return int(uint64(userID) % uint64(b.workers))
}

// HandleUpdate maps one update to an event, runs it through the handler and
// sends the rendered reply.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		if _, err := b.sender.Request(tgbotapi.NewCallback(upd.CallbackQuery.ID, "")); err != nil {
			b.logger.Warn("Failed to answer callback query", zap.Error(err))
		}
	}

	ev, ok := ToEvent(upd)
	if !ok {
		return
	}

	log := b.logger.With(
		zap.String("correlation_id", util.NewULID()),
		zap.Int64("user_id", ev.UserID),
		zap.String("action", string(ev.Action)))
	log.Debug("Handling event")

	reply, err := b.handler.Handle(ctx, ev)
	if err != nil {
		log.Error("Failed to handle event", zap.String("code", string(domain.CodeOf(err))), zap.Error(err))
		reply = domain.NewReply(domain.DefaultLanguage, domain.Message{Key: domain.MsgError})
	}

	for _, msg := range b.presenter.Render(ev.ChatID, reply) {
		if _, err := b.sender.Send(msg); err != nil {
			log.Error("Failed to send message", zap.Error(err))
			return
		}
	}
}

// ToEvent maps commands, button presses and text to events. Other updates
// and unknown commands or callback payloads are ignored.
func ToEvent(upd tgbotapi.Update) (domain.Event, bool) {
	if cq := upd.CallbackQuery; cq != nil {
		if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
			return domain.Event{}, false
		}
		action, ok := domain.ParseCallbackAction(cq.Data)
		if !ok {
			return domain.Event{}, false
		}
		return domain.Event{UserID: cq.From.ID, ChatID: cq.Message.Chat.ID, Action: action}, true
	}

	msg := upd.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return domain.Event{}, false
	}
	ev := domain.Event{UserID: msg.From.ID, ChatID: msg.Chat.ID}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			ev.Action = domain.ActionStart
		case "cancel":
			ev.Action = domain.ActionCancel
		case "lesson":
			ev.Action = domain.ActionLesson
		default:
			return domain.Event{}, false
		}
		return ev, true
	}

	ev.Action = domain.ActionText
	ev.Text = msg.Text
	return ev, true
}
