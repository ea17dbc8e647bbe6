package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"aocbot/internal/app"
	"aocbot/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/segmentio/encoding/json"
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
		Name:  "leaderboard",
		Usage: "inspect the Advent of Code private leaderboard",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "give up after this long",
			},
		},
		Commands: []*cli.Command{
			commandShow(),
			commandRefresh(),
			commandLogin(),
			commandScore(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var eventFlag = &cli.StringFlag{
	Name:  "event",
	Usage: "event year, the current one when empty",
}

func serviceLeaderboard(c *cli.Context) (*services.ServiceLeaderboard, context.Context, context.CancelFunc, error) {
	vs, err := env.EnvsRequired(
		services.CONFIG_AOC_SESSION,
		services.CONFIG_AOC_LEADERBOARD_ID,
	)
	if err != nil {
		return nil, nil, nil, err
	}

	container := app.NewContainer(vs)
	service, err := do.Invoke[*services.ServiceLeaderboard](container)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	return service, ctx, cancel, nil
}

func commandShow() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "print the leaderboard as markdown, fetching it only when the snapshot is stale",
		Flags: []cli.Flag{eventFlag},
		Action: func(c *cli.Context) error {
			service, ctx, cancel, err := serviceLeaderboard(c)
			if err != nil {
				return err
			}
			defer cancel()

			text, err := service.RenderLeaderboard(ctx, c.String("event"))
			if err != nil {
				return err
			}
			fmt.Fprint(c.App.Writer, text)
			return nil
		},
	}
}

func commandRefresh() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "fetch and save the leaderboard regardless of the snapshot age",
		Flags: []cli.Flag{eventFlag},
		Action: func(c *cli.Context) error {
			service, ctx, cancel, err := serviceLeaderboard(c)
			if err != nil {
				return err
			}
			defer cancel()

			lb, err := service.RefreshLeaderboard(ctx, c.String("event"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "saved %s: %d members, %d stars\n", lb.Event, len(lb.Members), lb.TotalStars())
			return nil
		},
	}
}

func commandLogin() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "check that the session cookie can view the leaderboard",
		Action: func(c *cli.Context) error {
			service, ctx, cancel, err := serviceLeaderboard(c)
			if err != nil {
				return err
			}
			defer cancel()

			if err := service.VerifyLogin(ctx); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "session ok")
			return nil
		},
	}
}

func commandScore() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "print the star groups as json",
		Flags: []cli.Flag{eventFlag},
		Action: func(c *cli.Context) error {
			service, ctx, cancel, err := serviceLeaderboard(c)
			if err != nil {
				return err
			}
			defer cancel()

			lb, err := service.GetLeaderboard(ctx, c.String("event"))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(services.ScoreLeaderboard(lb))
		},
	}
}
