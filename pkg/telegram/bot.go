// Package telegram runs the questionnaire bot on Telegram.
package telegram

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"

	"github.com/xhad/formbot/pkg/dispatch"
)

// Handler turns an inbound message into reply messages.
type Handler interface {
	Handle(ctx context.Context, event dispatch.Event) ([]string, error)
}

type BotConfig struct {
	Token         string
	PollTimeout   time.Duration
	HandleTimeout time.Duration
}

type Bot struct {
	api     *tele.Bot
	handler Handler
	config  BotConfig
	// fileURL resolves a Telegram file ID to a download URL.
	fileURL func(fileID string) (string, error)
	onError func(err error, c tele.Context)
}

func NewWithConfig(handler Handler, config BotConfig) (*Bot, error) {
	if config.Token == "" {
		return nil, errors.New("telegram: token is required")
	}
	if config.PollTimeout == 0 {
		config.PollTimeout = 10 * time.Second
	}
	if config.HandleTimeout == 0 {
		config.HandleTimeout = 60 * time.Second
	}

	api, err := tele.NewBot(tele.Settings{
		Token:  config.Token,
		Poller: &tele.LongPoller{Timeout: config.PollTimeout},
		OnError: reportError,
	})
	if err != nil {
		return nil, eris.Wrap(err, "telegram: new bot")
	}

	b := &Bot{api: api, handler: handler, config: config, onError: reportError}
	b.fileURL = b.downloadURL
	b.register()
	return b, nil
}

func reportError(err error, c tele.Context) {
	zap.L().Error("telegram handler failed", zap.Error(err))
}

// recoverer turns a panicking handler into a reported error so one bad
// update does not take the poller down.
func (b *Bot) recoverer() tele.MiddlewareFunc {
	return middleware.Recover(func(err error, c tele.Context) {
		b.onError(eris.Wrap(err, "telegram: handler panicked"), c)
	})
}

func (b *Bot) register() {
	b.api.Use(b.recoverer())
	b.api.Handle(tele.OnText, b.handleText)
	b.api.Handle(tele.OnDocument, b.handleDocument)
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.api.Stop()
	}()

	zap.L().Info("Telegram bot started", zap.String("username", b.api.Me.Username))
	b.api.Start()
	return nil
}

func (b *Bot) handleText(c tele.Context) error {
	return b.reply(c, dispatch.Event{Body: c.Text()})
}

func (b *Bot) handleDocument(c tele.Context) error {
	msg := c.Message()
	event := dispatch.Event{Body: msg.Caption}

	if doc := msg.Document; doc != nil {
		url, err := b.fileURL(doc.FileID)
		if err != nil {
			return eris.Wrap(err, "telegram: resolve file")
		}
		event.MediaURL = url
		event.MediaContentType = doc.MIME
	}

	return b.reply(c, event)
}

func (b *Bot) reply(c tele.Context, event dispatch.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), b.config.HandleTimeout)
	defer cancel()

	replies, err := b.handler.Handle(ctx, event)
	if err != nil {
		return eris.Wrap(err, "telegram: handle message")
	}

	for _, r := range replies {
		if err := c.Send(r); err != nil {
			return eris.Wrap(err, "telegram: send reply")
		}
	}
	return nil
}

func (b *Bot) downloadURL(fileID string) (string, error) {
	file, err := b.api.FileByID(fileID)
	if err != nil {
		return "", err
	}
	return b.api.URL + "/file/bot" + b.api.Token + "/" + file.FilePath, nil
}
