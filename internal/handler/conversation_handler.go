package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/inkwave/inkchat/internal/entity"
	"github.com/inkwave/inkchat/internal/middleware"
	"github.com/inkwave/inkchat/internal/service"
	"github.com/inkwave/inkchat/pkg/errcode"
	"github.com/inkwave/inkchat/pkg/response"
)

// ConversationHandler handles conversation-related requests
type ConversationHandler struct {
	convService *service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(convService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convService: convService}
}

// CreateRequest is the body for POST /conversations
type CreateRequest struct {
	OtherUserId int64 `json:"other_user_id"`
}

// Create handles create-or-fetch of the conversation with another user
func (h *ConversationHandler) Create(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req CreateRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conv, existed, err := h.convService.GetOrCreate(ctx, userId, req.OtherUserId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversation": conv.ToInfo(userId),
		"existed":      existed,
	})
}

// List handles GET /conversations
func (h *ConversationHandler) List(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	summaries, err := h.convService.ListForUser(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversations": summaries,
	})
}

// Get handles GET /conversations/:id
func (h *ConversationHandler) Get(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	conversationId, ok := pathId(c)
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conv, err := h.convService.GetConversation(ctx, userId, conversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversation": conv.ToInfo(userId),
	})
}

// GetMessages handles GET /conversations/:id/messages?page&limit.
// Fetching a page marks everything addressed to the caller as read.
func (h *ConversationHandler) GetMessages(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	conversationId, ok := pathId(c)
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	messages, err := h.convService.GetMessages(ctx, userId, conversationId, page, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	infos := make([]*entity.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		infos = append(infos, msg.ToMessageInfo())
	}

	response.Success(ctx, c, map[string]interface{}{
		"messages": infos,
	})
}

// SendMessageRequest is the body for POST /conversations/:id/messages
type SendMessageRequest struct {
	Content    string `json:"content"`
	ReceiverId int64  `json:"receiver_id"`
}

// SendMessage handles POST /conversations/:id/messages
func (h *ConversationHandler) SendMessage(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	conversationId, ok := pathId(c)
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req SendMessageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msg, err := h.convService.SendMessage(ctx, conversationId, userId, req.ReceiverId, req.Content)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"message": msg.ToMessageInfo(),
	})
}

// pathId parses the :id path parameter.
func pathId(c *app.RequestContext) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
