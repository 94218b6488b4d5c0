package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jmin/block-battle/internal/domain"
	"gorm.io/gorm"
)

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *roomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) GetByRoomID(ctx context.Context, roomID string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).First(&room, "room_id = ?", roomID).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Save upserts the full room row keyed by room_id.
func (r *roomRepository) Save(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// Delete is a no-op when the room is already gone.
func (r *roomRepository) Delete(ctx context.Context, roomID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Room{}, "room_id = ?", roomID).Error
}

func (r *roomRepository) GetActiveByHost(ctx context.Context, hostUserID string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Where("host_user_id = ?", hostUserID).
		Where("status IN ?", []domain.RoomStatus{domain.RoomStatusWaiting, domain.RoomStatusPlaying}).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) ListWaiting(ctx context.Context, limit int) ([]*domain.Room, error) {
	var rooms []*domain.Room
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.RoomStatusWaiting).
		Order("created_at DESC").
		Limit(limit).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListIdleBefore returns rooms untouched since cutoff, for janitor reclaim.
func (r *roomRepository) ListIdleBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Room, error) {
	var rooms []*domain.Room
	err := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
