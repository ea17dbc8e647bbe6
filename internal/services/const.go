package services

import (
	"fmt"
	"time"
)

const (
	CONFIG_AOC_SESSION              = "AOC_SESSION"
	CONFIG_AOC_LEADERBOARD_ID       = "AOC_LEADERBOARD_ID"
	CONFIG_AOC_BASE_URL             = "AOC_BASE_URL"
	CONFIG_AOC_USER_AGENT           = "AOC_USER_AGENT"
	CONFIG_AOC_HTTP_TIMEOUT         = "AOC_HTTP_TIMEOUT"
	CONFIG_LEADERBOARDS_DIR         = "LEADERBOARDS_DIR"
	CONFIG_LEADERBOARD_RATE_LIMIT   = "LEADERBOARD_RATE_LIMIT"
	CONFIG_LEADERBOARD_TITLE        = "LEADERBOARD_TITLE"
	CONFIG_LOGIN_CHECK_TTL          = "LOGIN_CHECK_TTL"
	CONFIG_REDIS_MUTEX              = "REDIS_MUTEX"
	CONFIG_REDIS_CACHE              = "REDIS_CACHE"
	CONFIG_REDIS_LIMITER            = "REDIS_LIMITER"
	CONFIG_BOT_TOKEN                = "BOT_TOKEN"
	CONFIG_ADMIN_CHAT_ID            = "ADMIN_CHAT_ID"
	CONFIG_NOTIFY_CHAT_ID           = "NOTIFY_CHAT_ID"
	CONFIG_BOT_COMMANDS_PER_MINUTE  = "BOT_COMMANDS_PER_MINUTE"
	CONFIG_CRONJOB_TIME_LEADERBOARD = "CRONJOB_TIME_LEADERBOARD"
	CONFIG_API_MODE                 = "API_MODE"
	CONFIG_API_ORIGINS              = "API_ORIGINS"
	CONFIG_LOG_LEVEL                = "LOG_LEVEL"
	CONFIG_LOG_ENCODING             = "LOG_ENCODING"

	DEFAULT_LEADERBOARDS_DIR         = "./leaderboards"
	DEFAULT_CRONJOB_TIME_LEADERBOARD = "@every 15m"
	DEFAULT_LEADERBOARD_RATE_LIMIT   = 15 * time.Minute
	DEFAULT_LOGIN_CHECK_TTL          = 5 * time.Minute
	DEFAULT_LOCK_EXPIRY              = 30 * time.Second
	DEFAULT_BOT_COMMANDS_PER_MINUTE  = 6
)

func LockKeyLeaderboard(event string) string {
	return fmt.Sprintf("lock:leaderboard:%s", event)
}

// cache
func CacheKeyLogin(leaderboardID string) string {
	return fmt.Sprintf("login:%s", leaderboardID)
}

func LimitKeyChat(chatID int64) string {
	return fmt.Sprintf("limit:chat:%d", chatID)
}
