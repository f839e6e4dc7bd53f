package service

import (
	"context"
	"errors"

	"github.com/inkwave/inkchat/internal/entity"
)

// Store errors that are part of the contract below.
var (
	// ErrConversationExists is returned by ConversationStore.Create when the
	// normalized participant pair already owns a conversation. Callers racing
	// to create the same conversation re-fetch and return the winner's row.
	ErrConversationExists = errors.New("conversation already exists for pair")
)

// ConversationStore is the persistent record of two-party conversations.
// Lookup methods return (nil, nil) when no row matches.
type ConversationStore interface {
	Create(ctx context.Context, conv *entity.Conversation) error
	GetById(ctx context.Context, id int64) (*entity.Conversation, error)
	GetByPair(ctx context.Context, userA, userB int64) (*entity.Conversation, error)
	// ListByParticipant returns the user's conversations ordered by
	// last_message_at descending.
	ListByParticipant(ctx context.Context, userId int64) ([]*entity.Conversation, error)
}

// MessageStore is the append-only message log. The compound operations are
// atomic: Append also bumps the conversation's last_message_at, and
// MarkConversationRead flips is_read together with the watermark advance.
type MessageStore interface {
	Append(ctx context.Context, msg *entity.Message) error
	// ListPage returns one page of a conversation's messages oldest to newest.
	ListPage(ctx context.Context, conversationId int64, page, limit int) ([]*entity.Message, error)
	// LatestByConversations returns the most recent message per conversation.
	LatestByConversations(ctx context.Context, conversationIds []int64) (map[int64]*entity.Message, error)
	// MarkConversationRead marks every message addressed to userId in the
	// conversation as read and advances the user's watermark to readAt.
	// The watermark never moves backwards.
	MarkConversationRead(ctx context.Context, conversationId, userId, readAt int64) error
	// UnreadCounts returns, per conversation the user participates in, the
	// number of messages newer than the user's watermark sent by the peer.
	UnreadCounts(ctx context.Context, userId int64) (map[int64]int64, error)
}

// UserStore looks up public profiles owned by the blog platform.
type UserStore interface {
	GetById(ctx context.Context, id int64) (*entity.User, error)
	GetByIds(ctx context.Context, ids []int64) (map[int64]*entity.User, error)
}

// EventPusher delivers events to live connections, best effort. Implemented
// by the gateway dispatcher; failures never surface to the caller.
type EventPusher interface {
	AsyncPushToUsers(msg *entity.Message, userIds []int64)
}
