package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"aocbot/internal/app"
	"aocbot/internal/interfaces"
	"aocbot/internal/pkg/limiter"
	"aocbot/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

var chatId []int64

const (
	contextLeaderboard = "context-leaderboard"
	contextLogger      = "context-logger"
)

func main() {
	app := &cli.App{
		Name: "bot-telegram",
		Commands: []*cli.Command{
			commandBot(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandBot() *cli.Command {
	return &cli.Command{
		Name:   "server",
		Action: action,
	}
}

func parseChatIDs(v string) ([]int64, error) {
	var ids []int64
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func action(c *cli.Context) error {
	vs, err := env.EnvsRequired(
		services.CONFIG_BOT_TOKEN,
		services.CONFIG_AOC_SESSION,
		services.CONFIG_AOC_LEADERBOARD_ID,
	)
	if err != nil {
		return err
	}

	container := app.NewContainer(vs)

	chatId, err = parseChatIDs(vs[services.CONFIG_ADMIN_CHAT_ID])
	if err != nil {
		return err
	}

	commandsPerMinute := services.DEFAULT_BOT_COMMANDS_PER_MINUTE
	if v := os.Getenv(services.CONFIG_BOT_COMMANDS_PER_MINUTE); v != "" {
		commandsPerMinute, err = strconv.Atoi(v)
		if err != nil {
			return err
		}
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return err
	}
	// nolint:errcheck
	defer logger.Sync()

	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](container)
	if err != nil {
		return err
	}

	chatLimiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return err
	}

	pref := tele.Settings{
		Token:  vs[services.CONFIG_BOT_TOKEN],
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("handler failed", zap.Error(err))
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return err
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			requestLogger := logger.With(zap.String("request_id", uuid.New().String()))
			if c.Chat() != nil {
				requestLogger = requestLogger.With(zap.Int64("chat_id", c.Chat().ID))
			}
			if c.Message() != nil {
				requestLogger.Debug("update", zap.String("text", c.Message().Text))
			}

			c.Set(contextLeaderboard, serviceLeaderboard)
			c.Set(contextLogger, requestLogger)

			return next(c)
		}
	})
	b.Use(RateLimit(chatLimiter, redis_rate.PerMinute(commandsPerMinute)))

	// static commands
	b.Handle("/start", commandStart)
	b.Handle("/help", commandHelp)

	// leaderboard commands
	b.Handle("/leaderboard", commandLeaderboard)
	b.Handle("/login", commandLogin)
	b.Handle("/refresh", commandRefresh)
	b.Handle(&btnUpdate, callbackUpdate)

	logger.Info("bot started", zap.String("username", b.Me.Username), zap.Int("admins", len(chatId)))
	b.Start()

	return nil
}

// RateLimit drops commands from chats that send too many of them.
func RateLimit(l interfaces.Limiter, limit redis_rate.Limit) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Chat() == nil {
				return next(c)
			}

			err := l.Allow(context.Background(), services.LimitKeyChat(c.Chat().ID), limit)
			if err == nil {
				return next(c)
			}

			if errors.Is(err, limiter.ErrRateLimited) {
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: "Slow down a little"})
				}
				return c.Send("🐢 Slow down a little, the leaderboard only changes every few minutes anyway.")
			}
			getContextLogger(c).Warn("rate limiter unavailable", zap.Error(err))
			return next(c)
		}
	}
}

func isAdmin(c tele.Context, chatId []int64) bool {
	if c.Chat() == nil {
		return false
	}
	for _, id := range chatId {
		if c.Chat().ID == id {
			return true
		}
	}
	return false
}

func AuthRequire(c tele.Context, chatId []int64) bool {
	authorized := isAdmin(c, chatId)
	if !authorized {
		//nolint:errcheck
		c.Send("You are not authorized to use this bot here.")
	}

	return authorized
}
