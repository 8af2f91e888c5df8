package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core/settings"
)

type settingsApi struct {
	svc      *settings.Service
	validate *validator.Validate
}

func registerSettingsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *settings.Service, validate *validator.Validate) {
	api := settingsApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/settings", jwt)
	sg.GET("/sync", api.retrieveSync)
	sg.PATCH("/sync", api.updateSync)
	sg.GET("/theme", api.retrieveTheme)
	sg.POST("/theme/toggle", api.toggleTheme)
}

func (api *settingsApi) retrieveSync(ctx echo.Context) error {
	ov, err := api.svc.Overview(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting sync overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *settingsApi) updateSync(ctx echo.Context) error {
	var data settings.SyncSettingsPatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SyncSettingsPatch")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.UpdateSync(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "updating sync settings")
	}
	return api.retrieveSync(ctx)
}

func (api *settingsApi) retrieveTheme(ctx echo.Context) error {
	t, err := api.svc.Theme(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting theme")
	}
	return ctx.JSON(http.StatusOK, ThemeResponse{Theme: t})
}

func (api *settingsApi) toggleTheme(ctx echo.Context) error {
	t, err := api.svc.ToggleTheme(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "toggling theme")
	}
	return ctx.JSON(http.StatusOK, ThemeResponse{Theme: t})
}

type ThemeResponse struct {
	Theme settings.Theme `json:"theme"`
}
