package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func Start(addr string, cfg config.Config, cartH *handler.CartHandler) error {
	e := echo.New()
	e.HideBanner = true

	cartH.RegisterRoutes(e, cfg)

	return e.Start(addr)
}
