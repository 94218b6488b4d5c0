package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jmin/block-battle/internal/config"
	"github.com/jmin/block-battle/internal/domain"
	"github.com/jmin/block-battle/internal/repository"
	"gorm.io/gorm"
)

// RoomService is the storage facade for rooms: creation, lookup, waiting
// list. Lifecycle transitions live in GameService.
type RoomService struct {
	roomRepo repository.RoomRepository
	cfg      *config.Config
}

func NewRoomService(roomRepo repository.RoomRepository, cfg *config.Config) *RoomService {
	return &RoomService{
		roomRepo: roomRepo,
		cfg:      cfg,
	}
}

// CreateRoom creates a waiting room with the host enrolled as the first
// participant. A host may hold only one active room at a time.
func (s *RoomService) CreateRoom(ctx context.Context, hostUserID, hostName string) (*domain.Room, error) {
	existing, err := s.roomRepo.GetActiveByHost(ctx, hostUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrActiveRoomExists
	}

	now := time.Now()
	room := &domain.Room{
		RoomID:          generateRoomCode(),
		HostUserID:      hostUserID,
		HostName:        hostName,
		Status:          domain.RoomStatusWaiting,
		DurationSeconds: int(s.cfg.MatchDuration.Seconds()),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := room.SetRoster([]domain.Participant{{
		UserID:   hostUserID,
		Name:     hostName,
		JoinedAt: now,
	}}); err != nil {
		return nil, err
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := s.roomRepo.GetByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// ListWaiting returns waiting rooms, newest first, capped at the configured
// maximum.
func (s *RoomService) ListWaiting(ctx context.Context, limit int) ([]*domain.Room, error) {
	if limit <= 0 || limit > s.cfg.WaitingListMax {
		limit = s.cfg.WaitingListMax
	}
	return s.roomRepo.ListWaiting(ctx, limit)
}

func generateRoomCode() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
