package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"aocbot/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	boards []*models.Leaderboard
	err    error
	calls  int
}

func (f *fakeSource) GetLeaderboard(ctx context.Context, event string) (*models.Leaderboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	lb := f.boards[f.calls]
	f.calls++
	return lb, nil
}

func (f *fakeSource) FormatHTML(lb *models.Leaderboard) string {
	return lb.Event + " standings"
}

type fakeSender struct {
	sent []string
}

func (f *fakeSender) SendMsg(chatID int64, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func board(event string, stars ...int) *models.Leaderboard {
	lb := &models.Leaderboard{Event: event, OwnerID: 1, Members: map[string]models.Member{}}
	for i, s := range stars {
		id := models.MemberID(i + 1)
		lb.Members[id.String()] = models.Member{ID: id, Stars: s}
	}
	return lb
}

func TestLeaderboardJobNotifiesOnChange(t *testing.T) {
	source := &fakeSource{boards: []*models.Leaderboard{
		board("2023", 2, 3),
		board("2023", 2, 3),
		board("2023", 4, 3),
		board("2024", 1),
	}}
	sender := &fakeSender{}
	job := &LeaderboardJob{Leaderboards: source, Sender: sender, ChatID: 42, Logger: zaptest.NewLogger(t)}

	require.NoError(t, job.Start(cron.New(), "@every 15m"))
	job.runScheduledTask()
	job.runScheduledTask()
	job.runScheduledTask()

	assert.Equal(t, 4, source.calls)
	assert.Equal(t, []string{"2023 standings"}, sender.sent)
}

func TestLeaderboardJobSurvivesErrors(t *testing.T) {
	source := &fakeSource{err: errors.New("upstream down")}
	sender := &fakeSender{}
	job := &LeaderboardJob{Leaderboards: source, Sender: sender, Logger: zaptest.NewLogger(t)}

	job.runScheduledTask()
	assert.Empty(t, sender.sent)
}

func TestLeaderboardJobRejectsBadSpec(t *testing.T) {
	job := &LeaderboardJob{Leaderboards: &fakeSource{}, Logger: zaptest.NewLogger(t)}
	assert.Error(t, job.Start(cron.New(), "every now and then"))
}

type blockingSource struct {
	calls   int32
	entered chan struct{}
	release chan struct{}
}

func (f *blockingSource) GetLeaderboard(ctx context.Context, event string) (*models.Leaderboard, error) {
	if atomic.AddInt32(&f.calls, 1) > 1 {
		f.entered <- struct{}{}
		<-f.release
	}
	return board("2023", 1), nil
}

func (f *blockingSource) FormatHTML(lb *models.Leaderboard) string {
	return lb.Event
}

func TestLeaderboardJobSkipsOverlappingRuns(t *testing.T) {
	source := &blockingSource{entered: make(chan struct{}), release: make(chan struct{})}
	job := &LeaderboardJob{Leaderboards: source, Logger: zaptest.NewLogger(t)}

	runner := newCronRunner()
	require.NoError(t, job.Start(runner, "@every 15m"))
	entries := runner.Entries()
	require.Len(t, entries, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		entries[0].WrappedJob.Run()
	}()
	<-source.entered

	entries[0].WrappedJob.Run()
	close(source.release)
	wg.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&source.calls))
}
