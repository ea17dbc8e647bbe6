package main

import (
	"fmt"
	"log"
	"os"

	"aocbot/internal/datastore"
	"aocbot/internal/services"

	"github.com/joho/godotenv"
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
		Name: "migrate",
		Commands: []*cli.Command{
			commandSnapshotMigration(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandSnapshotMigration() *cli.Command {
	return &cli.Command{
		Name:  "snapshots",
		Usage: "rewrite every stored leaderboard with sorted keys and indentation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   services.DEFAULT_LEADERBOARDS_DIR,
				EnvVars: []string{services.CONFIG_LEADERBOARDS_DIR},
				Usage:   "snapshot directory",
			},
		},
		Action: func(c *cli.Context) error {
			store := datastore.NewLeaderboardFileStore(c.String("dir"))
			migrated, failed, err := migrateSnapshots(store, func(event string, err error) {
				fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", event, err)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "migrated %d snapshots, %d failed\n", migrated, failed)
			if failed > 0 {
				return cli.Exit("some snapshots could not be migrated", 1)
			}
			return nil
		},
	}
}

// migrateSnapshots rewrites all snapshots and keeps going past broken ones.
func migrateSnapshots(store *datastore.LeaderboardFileStore, onError func(event string, err error)) (int, int, error) {
	events, err := store.Events()
	if err != nil {
		return 0, 0, err
	}

	migrated, failed := 0, 0
	for _, event := range events {
		if err := store.Rewrite(event); err != nil {
			onError(event, err)
			failed++
			continue
		}
		migrated++
	}
	return migrated, failed, nil
}
