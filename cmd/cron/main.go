package main

import (
	"log"
	"os"
	"strconv"

	"aocbot/internal/app"
	"aocbot/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob() *cli.Command {
	return &cli.Command{
		Name:  "cron",
		Usage: "keep the current leaderboard snapshot warm and announce new stars",
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired(
				services.CONFIG_AOC_SESSION,
				services.CONFIG_AOC_LEADERBOARD_ID,
			)
			if err != nil {
				return err
			}

			container := app.NewContainer(vs)
			logger := do.MustInvoke[*zap.Logger](container)
			// nolint:errcheck
			defer logger.Sync()

			serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](container)
			if err != nil {
				return err
			}

			job := &LeaderboardJob{
				Leaderboards: serviceLeaderboard,
				Logger:       logger,
			}

			if chatID := vs[services.CONFIG_NOTIFY_CHAT_ID]; chatID != "" {
				if vs[services.CONFIG_BOT_TOKEN] == "" {
					return cli.Exit("NOTIFY_CHAT_ID needs BOT_TOKEN", 1)
				}
				job.ChatID, err = strconv.ParseInt(chatID, 10, 64)
				if err != nil {
					return err
				}
				job.Sender, err = do.Invoke[*services.Bot](container)
				if err != nil {
					return err
				}
			}

			cronRunner := newCronRunner()
			if err := job.Start(cronRunner, vs[services.CONFIG_CRONJOB_TIME_LEADERBOARD]); err != nil {
				return err
			}
			logger.Info("start cronjob")
			cronRunner.Run()
			return nil
		},
	}
}
