package repository

import (
	"context"

	"shopapi/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository stores the one bearer token each user may hold.
type TokenRepository interface {
	// GetOrCreate inserts t unless the user already has a token, and returns
	// whichever token is stored afterwards.
	GetOrCreate(ctx context.Context, t *model.AuthToken) (*model.AuthToken, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.AuthToken, error)
	FindByKey(ctx context.Context, key string) (*model.AuthToken, error)
}

type tokenRepo struct{ db *gorm.DB }

func NewTokenRepository(db *gorm.DB) TokenRepository { return &tokenRepo{db: db} }

func (r *tokenRepo) GetOrCreate(ctx context.Context, t *model.AuthToken) (*model.AuthToken, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(t).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, t.UserID)
}

func (r *tokenRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.AuthToken, error) {
	var t model.AuthToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) FindByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	var t model.AuthToken
	if err := r.db.WithContext(ctx).Where("auth_tokens.key = ?", key).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
