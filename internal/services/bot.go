package services

import (
	"time"

	tele "gopkg.in/telebot.v3"
)

// Bot sends messages outside of an update handler, e.g. from the cron job.
type Bot struct {
	token string
}

func NewBot(token string) (*Bot, error) {
	return &Bot{token}, nil
}

func (bot *Bot) SendMsg(chatID int64, text string) error {
	pref := tele.Settings{
		Token:   bot.token,
		Poller:  &tele.LongPoller{Timeout: 10 * time.Second},
		Offline: true,
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return err
	}

	_, err = b.Send(tele.ChatID(chatID), text, &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	})
	return err
}
