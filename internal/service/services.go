package service

import (
	"github.com/jmin/block-battle/internal/config"
	"github.com/jmin/block-battle/internal/repository"
	"github.com/jmin/block-battle/internal/websocket"
)

// Publisher is the realtime fan-out contract the game coordinator emits
// through. Publish must never block; delivery is best-effort.
type Publisher interface {
	Publish(channel string, msgType websocket.MessageType, payload interface{})
}

type Services struct {
	Auth    *AuthService
	Room    *RoomService
	Game    *GameService
	Ranking *RankingService
}

func NewServices(repos *repository.Repositories, publisher Publisher, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, cfg),
		Room:    NewRoomService(repos.Room, cfg),
		Game:    NewGameService(repos.Room, repos.User, repos.Match, publisher, cfg),
		Ranking: NewRankingService(repos.User, repos.Match),
	}
}
