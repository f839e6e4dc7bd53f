package service

import (
	"context"
	"errors"
	"strings"

	"github.com/inkwave/inkchat/internal/entity"
	"github.com/inkwave/inkchat/pkg/errcode"
	"github.com/inkwave/inkchat/pkg/idgen"
	"github.com/inkwave/inkchat/pkg/log"
)

// ConversationService orchestrates conversation lookup/creation, message
// history, read tracking and unread aggregation over the stores, and hands
// successfully persisted messages to the pusher.
type ConversationService struct {
	convStore ConversationStore
	msgStore  MessageStore
	userStore UserStore
	pusher    EventPusher
}

// NewConversationService creates a new ConversationService
func NewConversationService(convStore ConversationStore, msgStore MessageStore, userStore UserStore) *ConversationService {
	return &ConversationService{
		convStore: convStore,
		msgStore:  msgStore,
		userStore: userStore,
	}
}

// SetPusher sets the event pusher. Wired after construction because the
// gateway in turn needs the service for on-demand unread counts.
func (s *ConversationService) SetPusher(pusher EventPusher) {
	s.pusher = pusher
}

// GetOrCreate returns the conversation between the two users, creating one if
// none exists. existed reports whether the conversation predates this call.
// Safe under both participants racing: the store's pair uniqueness decides the
// winner and the loser re-fetches.
func (s *ConversationService) GetOrCreate(ctx context.Context, userId, otherUserId int64) (*entity.Conversation, bool, error) {
	if otherUserId <= 0 || otherUserId == userId {
		return nil, false, errcode.ErrInvalidParam
	}

	other, err := s.userStore.GetById(ctx, otherUserId)
	if err != nil {
		log.CtxError(ctx, "lookup peer failed: user_id=%d, peer_id=%d, error=%v", userId, otherUserId, err)
		return nil, false, errcode.ErrInternalServer
	}
	if other == nil {
		return nil, false, errcode.ErrUserNotFound
	}

	conv, err := s.convStore.GetByPair(ctx, userId, otherUserId)
	if err != nil {
		log.CtxError(ctx, "get conversation by pair failed: %v", err)
		return nil, false, errcode.ErrInternalServer
	}
	if conv != nil {
		return conv, true, nil
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "allocate conversation id failed: %v", err)
		return nil, false, errcode.ErrInternalServer
	}

	now := entity.NowUnixMilli()
	userA, userB := entity.NormalizePair(userId, otherUserId)
	conv = &entity.Conversation{
		Id:            id,
		UserAId:       userA,
		UserBId:       userB,
		LastMessageAt: now,
		UserALastRead: now,
		UserBLastRead: now,
		CreatedAt:     now,
	}

	err = s.convStore.Create(ctx, conv)
	if err == nil {
		log.CtxInfo(ctx, "conversation created: id=%d, user_a=%d, user_b=%d", conv.Id, userA, userB)
		return conv, false, nil
	}

	if errors.Is(err, ErrConversationExists) {
		// The other participant won the race; return their row.
		winner, ferr := s.convStore.GetByPair(ctx, userId, otherUserId)
		if ferr != nil || winner == nil {
			log.CtxError(ctx, "refetch after duplicate pair failed: %v", ferr)
			return nil, false, errcode.ErrInternalServer
		}
		return winner, true, nil
	}

	log.CtxError(ctx, "create conversation failed: %v", err)
	return nil, false, errcode.ErrInternalServer
}

// ListForUser returns the user's conversations, most recent activity first,
// each annotated with the peer's profile, the latest message and the unread
// count for the user.
func (s *ConversationService) ListForUser(ctx context.Context, userId int64) ([]*entity.ConversationSummary, error) {
	convs, err := s.convStore.ListByParticipant(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list conversations failed: user_id=%d, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	if len(convs) == 0 {
		return []*entity.ConversationSummary{}, nil
	}

	convIds := make([]int64, 0, len(convs))
	peerIds := make([]int64, 0, len(convs))
	for _, conv := range convs {
		convIds = append(convIds, conv.Id)
		peerIds = append(peerIds, conv.PeerOf(userId))
	}

	peers, err := s.userStore.GetByIds(ctx, peerIds)
	if err != nil {
		log.CtxError(ctx, "lookup peer profiles failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	latest, err := s.msgStore.LatestByConversations(ctx, convIds)
	if err != nil {
		log.CtxError(ctx, "lookup latest messages failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	unread, err := s.msgStore.UnreadCounts(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "lookup unread counts failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	summaries := make([]*entity.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary := &entity.ConversationSummary{
			Conversation: conv.ToInfo(userId),
			UnreadCount:  unread[conv.Id],
		}
		if peer, ok := peers[conv.PeerOf(userId)]; ok {
			summary.Peer = peer.ToUserInfo()
		}
		if msg, ok := latest[conv.Id]; ok {
			summary.LastMessage = msg.ToMessageInfo()
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetConversation returns a single conversation the user participates in.
func (s *ConversationService) GetConversation(ctx context.Context, userId, conversationId int64) (*entity.Conversation, error) {
	conv, err := s.convStore.GetById(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: id=%d, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}
	if !conv.HasParticipant(userId) {
		return nil, errcode.ErrNoPermission
	}
	return conv, nil
}

// GetMessages returns one page of the conversation's messages oldest to
// newest. As a side effect every message addressed to the user is marked read
// and the user's watermark advances to now; clients rely on this to zero the
// unread badge on open.
func (s *ConversationService) GetMessages(ctx context.Context, userId, conversationId int64, page, limit int) ([]*entity.Message, error) {
	conv, err := s.convStore.GetById(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: id=%d, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}
	if !conv.HasParticipant(userId) {
		return nil, errcode.ErrNoPermission
	}

	// Mark before fetch so the returned page reflects is_read=true.
	if err := s.msgStore.MarkConversationRead(ctx, conversationId, userId, entity.NowUnixMilli()); err != nil {
		log.CtxError(ctx, "mark conversation read failed: conv_id=%d, user_id=%d, error=%v", conversationId, userId, err)
		return nil, errcode.ErrInternalServer
	}

	messages, err := s.msgStore.ListPage(ctx, conversationId, page, limit)
	if err != nil {
		log.CtxError(ctx, "list messages failed: conv_id=%d, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}

	return messages, nil
}

// SendMessage appends a message to the conversation and asks the dispatcher
// to notify the receiver. The response reflects persistence only; delivery to
// a live connection is fire and forget.
func (s *ConversationService) SendMessage(ctx context.Context, conversationId, senderId, receiverId int64, content string) (*entity.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errcode.ErrEmptyContent
	}

	conv, err := s.convStore.GetById(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: id=%d, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}
	if !conv.HasParticipant(senderId) {
		return nil, errcode.ErrNoPermission
	}

	peer := conv.PeerOf(senderId)
	if receiverId == 0 {
		receiverId = peer
	}
	if receiverId != peer {
		return nil, errcode.ErrInvalidParam
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "allocate message id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	msg := &entity.Message{
		Id:             id,
		ConversationId: conversationId,
		SenderId:       senderId,
		ReceiverId:     receiverId,
		Content:        content,
		CreatedAt:      entity.NowUnixMilli(),
	}

	if err := s.msgStore.Append(ctx, msg); err != nil {
		// No dispatch for a message that was not durably written.
		log.CtxError(ctx, "append message failed: conv_id=%d, sender_id=%d, error=%v", conversationId, senderId, err)
		return nil, errcode.ErrSendFailed
	}

	if s.pusher != nil {
		s.pusher.AsyncPushToUsers(msg, []int64{receiverId})
	}

	log.CtxInfo(ctx, "message sent: conv_id=%d, sender_id=%d, receiver_id=%d, msg_id=%d",
		conversationId, senderId, receiverId, msg.Id)
	return msg, nil
}

// UnreadCount sums the unread counts over all of the user's conversations.
func (s *ConversationService) UnreadCount(ctx context.Context, userId int64) (int64, error) {
	counts, err := s.msgStore.UnreadCounts(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "unread counts failed: user_id=%d, error=%v", userId, err)
		return 0, errcode.ErrInternalServer
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return total, nil
}
