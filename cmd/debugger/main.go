package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"aocbot/internal/app"
	"aocbot/internal/datastore"
	"aocbot/internal/pkg/caching"
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
		Name: "debugger",
		Commands: []*cli.Command{
			commandSnapshots(),
			commandClearLogin(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandSnapshots() *cli.Command {
	return &cli.Command{
		Name:  "snapshots",
		Usage: "list stored leaderboards with their age",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   services.DEFAULT_LEADERBOARDS_DIR,
				EnvVars: []string{services.CONFIG_LEADERBOARDS_DIR},
			},
			&cli.DurationFlag{
				Name:    "rate-limit",
				Value:   services.DEFAULT_LEADERBOARD_RATE_LIMIT,
				EnvVars: []string{services.CONFIG_LEADERBOARD_RATE_LIMIT},
			},
		},
		Action: func(c *cli.Context) error {
			store := datastore.NewLeaderboardFileStore(c.String("dir"))
			return printSnapshots(c.App.Writer, store, c.Duration("rate-limit"))
		},
	}
}

func printSnapshots(w io.Writer, store *datastore.LeaderboardFileStore, rateLimit time.Duration) error {
	events, err := store.Events()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tAGE\tSTATE\tMEMBERS\tSTARS")
	for _, event := range events {
		age, err := store.Age(event)
		if err != nil {
			return err
		}

		state := "fresh"
		if age > rateLimit {
			state = "stale"
		}

		lb, err := store.Load(event)
		if errors.Is(err, datastore.ErrSnapshotCorrupt) {
			fmt.Fprintf(tw, "%s\t%s\tcorrupt\t-\t-\n", event, age.Round(time.Second))
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", event, age.Round(time.Second), state, len(lb.Members), lb.TotalStars())
	}
	return tw.Flush()
}

func commandClearLogin() *cli.Command {
	return &cli.Command{
		Name:  "clear-login",
		Usage: "forget the remembered session check so the next one goes upstream",
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired(
				services.CONFIG_AOC_SESSION,
				services.CONFIG_AOC_LEADERBOARD_ID,
			)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
			defer cancel()

			return clearLogin(ctx, c.App.Writer, vs)
		},
	}
}

func clearLogin(ctx context.Context, w io.Writer, vs map[string]string) error {
	container := app.NewContainer(vs)
	key := services.CacheKeyLogin(vs[services.CONFIG_AOC_LEADERBOARD_ID])

	if vs[services.CONFIG_REDIS_CACHE] == "" {
		fmt.Fprintf(w, "%s is not set, %s is only remembered inside each running process\n", services.CONFIG_REDIS_CACHE, key)
		return nil
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return err
	}

	if err := cache.Delete(ctx, key); err != nil {
		return err
	}
	fmt.Fprintln(w, "deleted", key)
	return nil
}
