package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kidlearn/core/stats"
)

type statsApi struct {
	svc *stats.Service
}

func registerStatsAPI(g *echo.Group, deps ServerDeps) {
	api := statsApi{svc: deps.StatsSvc}
	g.GET("/stats", api.get)
}

func (api *statsApi) get(ctx echo.Context) error {
	st, err := api.svc.Get()
	if err != nil {
		return errors.Wrap(err, "aggregating stats")
	}
	return ctx.JSON(http.StatusOK, st)
}
