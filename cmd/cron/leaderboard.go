package main

import (
	"context"
	"sync"
	"time"

	"aocbot/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type leaderboardSource interface {
	GetLeaderboard(ctx context.Context, event string) (*models.Leaderboard, error)
	FormatHTML(lb *models.Leaderboard) string
}

type messageSender interface {
	SendMsg(chatID int64, text string) error
}

// LeaderboardJob refreshes the current event once the snapshot went stale and,
// when a chat is configured, posts the standings whenever the star total moves.
type LeaderboardJob struct {
	Leaderboards leaderboardSource
	Sender       messageSender
	ChatID       int64
	Logger       *zap.Logger
	Timeout      time.Duration

	mu        sync.Mutex
	lastEvent string
	lastStars int
}

// newCronRunner skips a tick while the previous run is still going.
func newCronRunner() *cron.Cron {
	return cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron, spec string) error {
	_, err := cronRunner.AddFunc(spec, j.runScheduledTask)
	if err != nil {
		return err
	}
	j.Logger.Info("leaderboard cronjob scheduled", zap.String("cron", spec))
	j.runScheduledTask()
	return nil
}

func (j *LeaderboardJob) runScheduledTask() {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	lb, err := j.Leaderboards.GetLeaderboard(ctx, "")
	if err != nil {
		j.Logger.Error("warm leaderboard", zap.Error(err))
		return
	}

	stars := lb.TotalStars()
	j.mu.Lock()
	changed := j.lastEvent == lb.Event && stars != j.lastStars
	j.lastEvent, j.lastStars = lb.Event, stars
	j.mu.Unlock()
	if !changed || j.Sender == nil {
		return
	}

	j.Logger.Info("star total changed", zap.String("event", lb.Event), zap.Int("stars", stars))
	if err := j.Sender.SendMsg(j.ChatID, j.Leaderboards.FormatHTML(lb)); err != nil {
		j.Logger.Error("notify leaderboard", zap.Int64("chat_id", j.ChatID), zap.Error(err))
	}
}
