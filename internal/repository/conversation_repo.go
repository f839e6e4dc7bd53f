package repository

import (
	"context"
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/inkwave/inkchat/internal/entity"
	"github.com/inkwave/inkchat/internal/service"
)

// mysqlDuplicateEntry is the MySQL error number for unique-key violations.
const mysqlDuplicateEntry = 1062

// ConversationRepo is the repository for conversation operations
type ConversationRepo struct {
	db *gorm.DB
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *gorm.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// Create inserts a new conversation. The uk_pair unique index is the arbiter
// for two participants racing to create the same conversation; a duplicate
// insert surfaces as service.ErrConversationExists so the caller can re-fetch.
func (r *ConversationRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	conv.UserAId, conv.UserBId = entity.NormalizePair(conv.UserAId, conv.UserBId)
	err := r.db.WithContext(ctx).Create(conv).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return service.ErrConversationExists
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return service.ErrConversationExists
	}
	return err
}

// GetById gets a conversation by id, (nil, nil) when absent
func (r *ConversationRepo) GetById(ctx context.Context, id int64) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// GetByPair gets the conversation owned by the participant pair, (nil, nil) when absent
func (r *ConversationRepo) GetByPair(ctx context.Context, userA, userB int64) (*entity.Conversation, error) {
	a, b := entity.NormalizePair(userA, userB)

	var conv entity.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// ListByParticipant gets all conversations for a user, most recent activity first
func (r *ConversationRepo) ListByParticipant(ctx context.Context, userId int64) ([]*entity.Conversation, error) {
	var convs []*entity.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userId, userId).
		Order("last_message_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}
