package repository

import (
	"context"
	"time"

	"github.com/jmin/block-battle/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUserID(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	TopBySoloScore(ctx context.Context, limit int) ([]*domain.User, error)
	TopByWins(ctx context.Context, limit int) ([]*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID string) (*domain.UserSession, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByRoomID(ctx context.Context, roomID string) (*domain.Room, error)
	Save(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, roomID string) error
	GetActiveByHost(ctx context.Context, hostUserID string) (*domain.Room, error)
	ListWaiting(ctx context.Context, limit int) ([]*domain.Room, error)
	ListIdleBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Room, error)
}

type MatchRepository interface {
	Create(ctx context.Context, record *domain.MatchRecord) error
	GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.MatchRecord, error)
	GetRecent(ctx context.Context, limit int) ([]*domain.MatchRecord, error)
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
	Room    RoomRepository
	Match   MatchRepository
}
