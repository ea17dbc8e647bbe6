package services

import (
	"aocbot/internal/models"
)

func member(id int64, name string, stars int) models.Member {
	m := models.Member{ID: models.MemberID(id), Stars: stars}
	if name != "" {
		m.Name = &name
	}
	return m
}

func leaderboard(event string, owner int64, members ...models.Member) *models.Leaderboard {
	lb := &models.Leaderboard{
		Event:   event,
		OwnerID: models.MemberID(owner),
		Members: make(map[string]models.Member, len(members)),
	}
	for _, m := range members {
		lb.Members[m.ID.String()] = m
	}
	return lb
}
