package postgres

import (
	"context"

	"github.com/jmin/block-battle/internal/domain"
	"gorm.io/gorm"
)

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *matchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(ctx context.Context, record *domain.MatchRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *matchRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.MatchRecord, error) {
	var records []*domain.MatchRecord
	err := r.db.WithContext(ctx).
		Where("players @> ?", `[{"user_id": "`+userID+`"}]`).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *matchRepository) GetRecent(ctx context.Context, limit int) ([]*domain.MatchRecord, error) {
	var records []*domain.MatchRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
