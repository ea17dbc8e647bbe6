package main

import (
	"fmt"

	"aocbot/internal/services"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func getContextLeaderboard(context tele.Context) (*services.ServiceLeaderboard, error) {
	contextValue := context.Get(contextLeaderboard)
	if contextValue == nil {
		return nil, fmt.Errorf("leaderboard service not found")
	}

	result, ok := contextValue.(*services.ServiceLeaderboard)
	if !ok {
		return nil, fmt.Errorf("leaderboard service not valid")
	}

	return result, nil
}

func getContextLogger(context tele.Context) *zap.Logger {
	result, ok := context.Get(contextLogger).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return result
}
