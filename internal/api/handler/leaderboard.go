package handler

import (
	"net/http"

	"aocbot/internal/models"
	"aocbot/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupLeaderboard struct {
	container *do.Injector
}

type leaderboardResponse struct {
	Event      string               `json:"event"`
	Owner      models.PartialMember `json:"owner"`
	TotalStars int                  `json:"total_stars"`
	Groups     []scoreGroupResponse `json:"groups"`
}

type scoreGroupResponse struct {
	Stars   int                    `json:"stars"`
	Members []models.PartialMember `json:"members"`
}

func newLeaderboardResponse(lb *models.Leaderboard) *leaderboardResponse {
	owner, _ := lb.Owner()
	groups := services.ScoreLeaderboard(lb)

	res := &leaderboardResponse{
		Event:      lb.Event,
		Owner:      owner,
		TotalStars: lb.TotalStars(),
		Groups:     make([]scoreGroupResponse, len(groups)),
	}
	for i, group := range groups {
		members := make([]models.PartialMember, len(group.Members))
		for j, member := range group.Members {
			members[j] = member.Partial()
		}
		res.Groups[i] = scoreGroupResponse{Stars: group.Stars, Members: members}
	}
	return res
}

func (gr *groupLeaderboard) GetLeaderboard(c echo.Context) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	lb, err := serviceLeaderboard.GetLeaderboard(c.Request().Context(), c.Param("event"))
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, newLeaderboardResponse(lb), nil)
}

func (gr *groupLeaderboard) GetLeaderboardMarkdown(c echo.Context) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	text, err := serviceLeaderboard.RenderLeaderboard(c.Request().Context(), c.Param("event"))
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(text))
}

func (gr *groupLeaderboard) VerifyLogin(c echo.Context) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceLeaderboard.VerifyLogin(c.Request().Context()); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, map[string]bool{"ok": true}, nil)
}
