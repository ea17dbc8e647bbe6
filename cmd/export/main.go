package main

import (
	"context"
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"aocbot/internal/app"
	"aocbot/internal/models"
	"aocbot/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
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
		Name: "export",
		Commands: []*cli.Command{
			commandExport(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandExport() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the standings of an event as csv",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "event", Usage: "event year, the current one when empty"},
			&cli.StringFlag{Name: "out", Usage: "output file, stdout when empty"},
		},
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired(
				services.CONFIG_AOC_SESSION,
				services.CONFIG_AOC_LEADERBOARD_ID,
			)
			if err != nil {
				return err
			}

			container := app.NewContainer(vs)
			serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](container)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context, time.Minute)
			defer cancel()

			lb, err := serviceLeaderboard.GetLeaderboard(ctx, c.String("event"))
			if err != nil {
				return err
			}

			var w io.Writer = c.App.Writer
			if out := c.String("out"); out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				// nolint:errcheck
				defer f.Close()
				w = f
			}

			return writeStandings(w, lb)
		},
	}
}

// writeStandings writes one row per member. Members sharing a star count share
// a rank.
func writeStandings(w io.Writer, lb *models.Leaderboard) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"event", "rank", "stars", "id", "name"}); err != nil {
		return err
	}

	rank := 1
	for _, group := range services.ScoreLeaderboard(lb) {
		for _, member := range group.Members {
			row := []string{lb.Event, strconv.Itoa(rank), strconv.Itoa(group.Stars), member.ID.String(), member.DisplayName()}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		rank += len(group.Members)
	}

	writer.Flush()
	return writer.Error()
}
