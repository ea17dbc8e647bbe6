package main

import (
	tele "gopkg.in/telebot.v3"
)

const (
	textStart = `🎄 Hi! I keep an eye on our Advent of Code private leaderboard.

Send /leaderboard to see who has how many stars, or /help for everything else.`

	textHelp = `<b>Commands</b>
/leaderboard [year] - standings of the current or given event
/login - check that the configured session cookie still works
/help - this message`

	textHelpAdmin = `

<b>Admin</b>
/refresh [year] - fetch the leaderboard now, ignoring the rate limit`

	textBtnUpdate = "🔄 Update"
)

var btnUpdate = (&tele.ReplyMarkup{}).Data(textBtnUpdate, "leaderboard-update")

func commandStart(c tele.Context) error {
	return c.Send(textStart)
}

func commandHelp(c tele.Context) error {
	text := textHelp
	if isAdmin(c, chatId) {
		text += textHelpAdmin
	}
	return c.Send(text, &tele.SendOptions{ParseMode: tele.ModeHTML})
}

// leaderboardMarkup attaches an update button carrying the event it shows.
func leaderboardMarkup(event string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	btn := btnUpdate
	btn.Data = event
	menu.Inline(menu.Row(btn))
	return menu
}
