package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkwave/inkchat/internal/entity"
)

// maxPageSize caps a single message page.
const maxPageSize = 100

// MessageRepo is the repository for message operations
type MessageRepo struct {
	db *gorm.DB
}

// NewMessageRepo creates a new MessageRepo
func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Append inserts the message and bumps the conversation's last_message_at in
// one transaction. The bump is guarded so last_message_at never moves backwards.
func (r *MessageRepo) Append(ctx context.Context, msg *entity.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Conversation{}).
			Where("id = ? AND last_message_at < ?", msg.ConversationId, msg.CreatedAt).
			Update("last_message_at", msg.CreatedAt).Error
	})
}

// ListPage returns one page of a conversation's messages oldest to newest.
func (r *MessageRepo) ListPage(ctx context.Context, conversationId int64, page, limit int) ([]*entity.Message, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// LatestByConversations returns the most recent message per conversation.
// Message ids are snowflakes, so MAX(id) picks the newest row with a stable
// tie-break on equal timestamps.
func (r *MessageRepo) LatestByConversations(ctx context.Context, conversationIds []int64) (map[int64]*entity.Message, error) {
	result := make(map[int64]*entity.Message, len(conversationIds))
	if len(conversationIds) == 0 {
		return result, nil
	}

	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Raw(`SELECT m.* FROM messages m
		     JOIN (SELECT conversation_id, MAX(id) AS max_id
		           FROM messages
		           WHERE conversation_id IN ?
		           GROUP BY conversation_id) t
		     ON m.id = t.max_id`, conversationIds).
		Scan(&messages).Error
	if err != nil {
		return nil, err
	}

	for _, msg := range messages {
		result[msg.ConversationId] = msg
	}
	return result, nil
}

// MarkConversationRead flips is_read on every message addressed to userId and
// advances the user's watermark, atomically. GREATEST keeps the watermark
// monotonic, so a repeated call is a no-op.
func (r *MessageRepo) MarkConversationRead(ctx context.Context, conversationId, userId, readAt int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.Message{}).
			Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationId, userId, false).
			Update("is_read", true).Error
		if err != nil {
			return err
		}

		err = tx.Model(&entity.Conversation{}).
			Where("id = ? AND user_a_id = ?", conversationId, userId).
			Update("user_a_last_read", gorm.Expr("GREATEST(user_a_last_read, ?)", readAt)).Error
		if err != nil {
			return err
		}

		return tx.Model(&entity.Conversation{}).
			Where("id = ? AND user_b_id = ?", conversationId, userId).
			Update("user_b_last_read", gorm.Expr("GREATEST(user_b_last_read, ?)", readAt)).Error
	})
}

// unreadRow is the scan target for UnreadCounts.
type unreadRow struct {
	ConversationId int64 `gorm:"column:conversation_id"`
	Unread         int64 `gorm:"column:unread"`
}

// UnreadCounts counts, per conversation, the messages newer than the user's
// watermark that the peer sent. Conversations with nothing unread are absent
// from the result.
func (r *MessageRepo) UnreadCounts(ctx context.Context, userId int64) (map[int64]int64, error) {
	var rows []unreadRow
	err := r.db.WithContext(ctx).
		Raw(`SELECT m.conversation_id AS conversation_id, COUNT(*) AS unread
		     FROM messages m
		     JOIN conversations c ON c.id = m.conversation_id
		     WHERE m.sender_id <> ?
		       AND ((c.user_a_id = ? AND m.created_at > c.user_a_last_read)
		         OR (c.user_b_id = ? AND m.created_at > c.user_b_last_read))
		     GROUP BY m.conversation_id`, userId, userId, userId).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[int64]int64, len(rows))
	for _, row := range rows {
		result[row.ConversationId] = row.Unread
	}
	return result, nil
}
