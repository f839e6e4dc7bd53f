package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkwave/inkchat/internal/entity"
)

// UserRepo reads the blog platform's users table for profile lookup.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new UserRepo
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetById gets user by id, (nil, nil) when absent
func (r *UserRepo) GetById(ctx context.Context, id int64) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIds gets users by ids
func (r *UserRepo) GetByIds(ctx context.Context, ids []int64) (map[int64]*entity.User, error) {
	result := make(map[int64]*entity.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []*entity.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		result[user.Id] = user
	}
	return result, nil
}
