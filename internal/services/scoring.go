package services

import (
	"sort"

	"aocbot/internal/models"
)

// ScoreLeaderboard groups members by star count. Groups run from most to
// fewest stars and members inside a group are ordered by id.
func ScoreLeaderboard(lb *models.Leaderboard) []models.ScoreGroup {
	byStars := make(map[int][]models.Member)
	for _, member := range lb.Members {
		byStars[member.Stars] = append(byStars[member.Stars], member)
	}

	groups := make([]models.ScoreGroup, 0, len(byStars))
	for stars, members := range byStars {
		sort.Slice(members, func(i, j int) bool {
			return members[i].ID < members[j].ID
		})
		groups = append(groups, models.ScoreGroup{Stars: stars, Members: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Stars > groups[j].Stars
	})
	return groups
}
