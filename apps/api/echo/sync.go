package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core/syncjob"
)

type syncApi struct {
	svc *syncjob.Service
}

func registerSyncAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *syncjob.Service) {
	api := syncApi{svc: svc}

	sg := g.Group("/sync", jwt)
	sg.POST("/test", api.test)
	sg.POST("/run", api.run)
	sg.GET("/runs", api.queryRuns)
}

func (api *syncApi) test(ctx echo.Context) error {
	msg, err := api.svc.Test(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "testing sync")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: msg})
}

func (api *syncApi) run(ctx echo.Context) error {
	run, err := api.svc.Run(ctx.Request().Context(), syncjob.TriggerManual)
	if err != nil {
		return errors.Wrap(err, "running sync")
	}
	return ctx.JSON(http.StatusOK, run)
}

func (api *syncApi) queryRuns(ctx echo.Context) error {
	limit, err := intParam(ctx, "limit", 0)
	if err != nil {
		return err
	}
	runs, err := api.svc.Runs(ctx.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "querying sync runs")
	}
	if runs == nil {
		runs = []syncjob.Run{}
	}
	return ctx.JSON(http.StatusOK, runs)
}

type SuccessResponse struct {
	Success string `json:"success"`
}
