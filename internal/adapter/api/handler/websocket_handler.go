package handler

import (
	"context"
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"sokoni/internal/adapter/api/middleware"
	"sokoni/internal/domain/repository"
	ws "sokoni/internal/infrastructure/websocket"
	"sokoni/internal/usecase"
	"sokoni/pkg/errors"
	"sokoni/pkg/logger"
	"sokoni/pkg/response"
)

// WebSocketHandler is the realtime entry point of the dashboard. Each
// connection gets its own sync controller subscribed to the caller's message
// and order feeds; coalesced activity is pushed down as refresh hints.
type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware
	userUseCase    *usecase.UserUseCase
	orderUseCase   *usecase.OrderUseCase
	feed           repository.ChangeFeed
	coalesceWindow time.Duration
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(
	wsManager *ws.Manager,
	authMiddleware *middleware.AuthMiddleware,
	userUseCase *usecase.UserUseCase,
	orderUseCase *usecase.OrderUseCase,
	feed repository.ChangeFeed,
	coalesceWindow time.Duration,
) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		authMiddleware: authMiddleware,
		userUseCase:    userUseCase,
		orderUseCase:   orderUseCase,
		feed:           feed,
		coalesceWindow: coalesceWindow,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	// Browsers cannot set headers on WebSocket requests, so the token rides
	// in a query parameter instead of going through the auth middleware.
	token := c.QueryParam("token")
	if token == "" {
		return response.Error(c, errors.Unauthorized("Authentication token is required", nil))
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
	}

	identity, err := h.userUseCase.Identity(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, errors.Unauthorized("No profile for this account", err))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	controller := usecase.NewSyncController(h.feed, h.coalesceWindow)

	client := &ws.Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		OnClose: controller.Stop,
	}

	callbacks := usecase.SyncCallbacks{
		OnMessages: func() {
			h.wsManager.NotifyRefresh(userID, "messages")
		},
		OnOrders: func() {
			if err := h.orderUseCase.Refresh(context.Background(), identity); err != nil {
				logger.Warn("Order refresh failed for %s: %v", userID, err)
			}
			h.wsManager.NotifyRefresh(userID, "orders")
		},
	}

	if err := controller.Start(context.Background(), identity, callbacks); err != nil {
		conn.Close()
		return errors.Internal("Failed to start sync", err)
	}

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
