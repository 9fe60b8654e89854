package router

import (
	"github.com/labstack/echo/v4"

	"sokoni/internal/adapter/api/handler"
	"sokoni/internal/adapter/api/middleware"
)

func SetupMessageRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	messageHandler := handler.GetMessageHandler()

	threads := e.Group("/v1/threads")
	threads.Use(authMiddleware.Authenticate)
	threads.GET("", messageHandler.ListThreads)
	threads.GET("/:counterpartId", messageHandler.GetConversation)
	threads.POST("/:counterpartId/read", messageHandler.MarkThreadRead)

	messages := e.Group("/v1/messages")
	messages.Use(authMiddleware.Authenticate)
	messages.POST("", messageHandler.SendMessage)
}
