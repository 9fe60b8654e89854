package router

import (
	"github.com/labstack/echo/v4"

	"sokoni/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupUserRouter(e, authMiddleware)
	SetupProductRouter(e, authMiddleware)
	SetupMessageRouter(e, authMiddleware)
	SetupOrderRouter(e, authMiddleware)
	SetupCartRouter(e, authMiddleware)
	SetupFavoriteRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
