package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ArticleCourier/internal/ports"
)

const markReadCallback = "mark_read"

// Gateway adapts the Telegram Bot API to the courier's transport port:
// outbound sends with an inline mark-read button and an inbound stream of
// subscriber commands and button presses.
type Gateway struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

var _ ports.Gateway = (*Gateway)(nil)

// New authenticates the bot with the given token.
func New(token string, logger *slog.Logger) (*Gateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	if logger != nil {
		logger.Info("telegram bot authorized", "username", bot.Self.UserName)
	}
	return &Gateway{bot: bot, logger: logger}, nil
}

// SendArticle delivers the formatted article. Link previews are disabled
// so the excerpt stays the visible content.
func (g *Gateway) SendArticle(ctx context.Context, subscriberID int64, text string) error {
	msg := tgbotapi.NewMessage(subscriberID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = markReadKeyboard()
	return g.send(msg)
}

// SendReminder nags with the same mark-read button.
func (g *Gateway) SendReminder(ctx context.Context, subscriberID int64, text string) error {
	msg := tgbotapi.NewMessage(subscriberID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = markReadKeyboard()
	return g.send(msg)
}

// SendNotice sends a plain message without a button.
func (g *Gateway) SendNotice(ctx context.Context, subscriberID int64, text string) error {
	return g.send(tgbotapi.NewMessage(subscriberID, text))
}

// RemoveButton strips the inline keyboard from a delivered message after
// its article was acknowledged.
func (g *Gateway) RemoveButton(ctx context.Context, subscriberID int64, messageID int) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(subscriberID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := g.bot.Request(edit); err != nil {
		return fmt.Errorf("edit reply markup: %w", err)
	}
	return nil
}

// AnswerCallback shows a short toast for a button press.
func (g *Gateway) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if _, err := g.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// Events long-polls Telegram and translates updates into courier events
// until ctx is cancelled.
func (g *Gateway) Events(ctx context.Context) <-chan ports.Event {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := g.bot.GetUpdatesChan(updateCfg)

	events := make(chan ports.Event)
	go func() {
		defer close(events)
		defer g.bot.StopReceivingUpdates()

		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				event, ok := translate(update)
				if !ok {
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events
}

func translate(update tgbotapi.Update) (ports.Event, bool) {
	if update.Message != nil && update.Message.IsCommand() && update.Message.Command() == "start" {
		var firstName string
		if update.Message.From != nil {
			firstName = update.Message.From.FirstName
		}
		return ports.Event{
			Kind:         ports.EventStart,
			SubscriberID: update.Message.Chat.ID,
			FirstName:    firstName,
		}, true
	}

	cb := update.CallbackQuery
	if cb != nil && cb.Data == markReadCallback && cb.Message != nil {
		return ports.Event{
			Kind:         ports.EventMarkRead,
			SubscriberID: cb.Message.Chat.ID,
			MessageID:    cb.Message.MessageID,
			CallbackID:   cb.ID,
		}, true
	}

	return ports.Event{}, false
}

func markReadKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Mark as read", markReadCallback),
		),
	)
}

func (g *Gateway) send(msg tgbotapi.MessageConfig) error {
	if _, err := g.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
