package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aocbot/internal/datastore"
	"aocbot/internal/models"
	"aocbot/internal/pkg"
	"aocbot/internal/services"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const commandTimeout = 30 * time.Second

func eventArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// replyError turns a leaderboard failure into something worth showing in chat.
func replyError(err error) string {
	var httpErr *services.HTTPError
	switch {
	case errors.Is(err, pkg.ErrInvalidEvent), errors.Is(err, datastore.ErrInvalidEventName):
		return fmt.Sprintf("Advent of Code runs every December since %d, pick a year up to the current event.", pkg.FirstEvent)
	case errors.Is(err, services.ErrNotAMember), errors.Is(err, services.ErrInvalidSession):
		return "⚠️ Advent of Code says: " + err.Error() + "."
	case errors.As(err, &httpErr):
		return fmt.Sprintf("⚠️ Advent of Code answered with status %d, try again later.", httpErr.StatusCode)
	case errors.Is(err, models.ErrInvalidLeaderboard):
		return "⚠️ Advent of Code sent a leaderboard I could not read."
	case errors.Is(err, context.DeadlineExceeded):
		return "⌛ Advent of Code took too long to answer, try again later."
	default:
		return "Something went wrong, please try again later."
	}
}

func commandLeaderboard(c tele.Context) error {
	return sendLeaderboard(c, eventArg(c.Args()), false)
}

func commandRefresh(c tele.Context) error {
	if !AuthRequire(c, chatId) {
		return nil
	}
	return sendLeaderboard(c, eventArg(c.Args()), true)
}

func sendLeaderboard(c tele.Context, event string, force bool) error {
	service, err := getContextLeaderboard(c)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}
	logger := getContextLogger(c).With(zap.String("event", event), zap.Bool("force", force))

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	//nolint:errcheck
	c.Notify(tele.Typing)

	var lb *models.Leaderboard
	if force {
		lb, err = service.RefreshLeaderboard(ctx, event)
	} else {
		lb, err = service.GetLeaderboard(ctx, event)
	}
	if err != nil {
		logger.Warn("leaderboard command failed", zap.Error(err))
		return c.Send(replyError(err))
	}

	return c.Send(service.FormatHTML(lb), &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
		ReplyMarkup:           leaderboardMarkup(lb.Event),
	})
}

// callbackUpdate redraws a leaderboard message in place. The snapshot rules
// still apply, so pressing it repeatedly never hammers adventofcode.com.
func callbackUpdate(c tele.Context) error {
	service, err := getContextLeaderboard(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	lb, err := service.GetLeaderboard(ctx, c.Callback().Data)
	if err != nil {
		getContextLogger(c).Warn("leaderboard update failed", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: replyError(err), ShowAlert: true})
	}

	err = c.Edit(service.FormatHTML(lb), &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
		ReplyMarkup:           leaderboardMarkup(lb.Event),
	})
	if errors.Is(err, tele.ErrSameMessageContent) {
		return c.Respond(&tele.CallbackResponse{Text: "Already up to date"})
	}
	if err != nil {
		return err
	}
	return c.Respond()
}

func commandLogin(c tele.Context) error {
	service, err := getContextLeaderboard(c)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := service.VerifyLogin(ctx); err != nil {
		getContextLogger(c).Warn("login check failed", zap.Error(err))
		return c.Send(replyError(err))
	}
	return c.Send("✅ The session cookie is valid and can see the leaderboard.")
}
