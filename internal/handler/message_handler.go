package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/inkwave/inkchat/internal/middleware"
	"github.com/inkwave/inkchat/internal/service"
	"github.com/inkwave/inkchat/pkg/errcode"
	"github.com/inkwave/inkchat/pkg/response"
)

// MessageHandler handles message-related requests
type MessageHandler struct {
	convService *service.ConversationService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(convService *service.ConversationService) *MessageHandler {
	return &MessageHandler{convService: convService}
}

// UnreadCount handles GET /messages/unread-count, the polling badge.
func (h *MessageHandler) UnreadCount(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	count, err := h.convService.UnreadCount(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"count": count,
	})
}
