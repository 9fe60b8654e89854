package handler

import (
	"github.com/labstack/echo/v4"

	"sokoni/internal/usecase"
	"sokoni/pkg/response"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

// ListThreads returns the caller's inbox: one summary per counterpart with
// the latest message and unread count, recomputed from the message log.
func (h *MessageHandler) ListThreads(c echo.Context) error {
	uid := c.Get("uid").(string)

	threads, err := h.messageUseCase.ListThreads(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, threads)
}

func (h *MessageHandler) GetConversation(c echo.Context) error {
	uid := c.Get("uid").(string)
	counterpartID := c.Param("counterpartId")

	conv, err := h.messageUseCase.OpenConversation(c.Request().Context(), uid, counterpartID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"counterpart_id": conv.Counterpart(),
		"messages":       conv.Messages(),
	})
}

type sendMessageRequest struct {
	ToUser  string `json:"to_user" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	message, err := h.messageUseCase.SendMessage(c.Request().Context(), uid, usecase.SendMessageInput{
		ToUser:  req.ToUser,
		Content: req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *MessageHandler) MarkThreadRead(c echo.Context) error {
	uid := c.Get("uid").(string)
	counterpartID := c.Param("counterpartId")

	updated, err := h.messageUseCase.MarkThreadRead(c.Request().Context(), uid, counterpartID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{
		"updated": updated,
	})
}
