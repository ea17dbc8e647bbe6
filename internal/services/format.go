package services

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"aocbot/internal/models"
)

func boardTitle(lb *models.Leaderboard, title string) string {
	if title != "" {
		return title
	}
	owner, _ := lb.Owner()
	if owner.Name == "" {
		owner.Name = models.Member{ID: owner.ID}.DisplayName()
	}
	return owner.Name + "'s"
}

func boardURL(baseURL string, lb *models.Leaderboard) string {
	return fmt.Sprintf("%s/%s/leaderboard/private/view/%s?order=stars", strings.TrimRight(baseURL, "/"), lb.Event, lb.OwnerID)
}

// FormatLeaderboard renders lb as Markdown: a linked title line followed by one
// line per score group.
func FormatLeaderboard(lb *models.Leaderboard, baseURL, title string) string {
	var out strings.Builder
	fmt.Fprintf(&out, "[%s %s leaderboard](%s)\n", boardTitle(lb, title), lb.Event, boardURL(baseURL, lb))

	for _, group := range ScoreLeaderboard(lb) {
		names := make([]string, len(group.Members))
		for i, member := range group.Members {
			names[i] = member.DisplayName()
		}
		out.WriteString("**")
		out.WriteString(strconv.Itoa(group.Stars))
		out.WriteString("** ⭐ ")
		out.WriteString(strings.Join(names, ", "))
		out.WriteString("\n")
	}
	return out.String()
}

// FormatLeaderboardHTML renders the same content using the HTML subset
// Telegram accepts.
func FormatLeaderboardHTML(lb *models.Leaderboard, baseURL, title string) string {
	var out strings.Builder
	fmt.Fprintf(&out, "<a href=\"%s\">%s %s leaderboard</a>\n",
		html.EscapeString(boardURL(baseURL, lb)),
		html.EscapeString(boardTitle(lb, title)),
		html.EscapeString(lb.Event),
	)

	for _, group := range ScoreLeaderboard(lb) {
		names := make([]string, len(group.Members))
		for i, member := range group.Members {
			names[i] = html.EscapeString(member.DisplayName())
		}
		fmt.Fprintf(&out, "<b>%d</b> ⭐ %s\n", group.Stars, strings.Join(names, ", "))
	}
	return out.String()
}
