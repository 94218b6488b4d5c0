package service

import (
	"context"
	"math"

	"github.com/jmin/block-battle/internal/domain"
	"github.com/jmin/block-battle/internal/repository"
)

const (
	maxRankingLimit = 100
	maxHistoryLimit = 50
)

// RankingService produces read-only sorted projections over user stats and
// match records. No coordination logic lives here.
type RankingService struct {
	userRepo  repository.UserRepository
	matchRepo repository.MatchRepository
}

func NewRankingService(userRepo repository.UserRepository, matchRepo repository.MatchRepository) *RankingService {
	return &RankingService{
		userRepo:  userRepo,
		matchRepo: matchRepo,
	}
}

type ScoreRankingEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	GamesPlayed int    `json:"games_played"`
}

func (s *RankingService) ScoreRanking(ctx context.Context, limit int) ([]ScoreRankingEntry, error) {
	if limit <= 0 || limit > maxRankingLimit {
		limit = maxRankingLimit
	}

	users, err := s.userRepo.TopBySoloScore(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]ScoreRankingEntry, len(users))
	for i, u := range users {
		entries[i] = ScoreRankingEntry{
			Rank:        i + 1,
			UserID:      u.UserID,
			Name:        u.Name,
			Score:       u.SoloHighScore,
			GamesPlayed: u.GamesPlayed,
		}
	}
	return entries, nil
}

type WinsRankingEntry struct {
	Rank             int     `json:"rank"`
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	WinRate          float64 `json:"win_rate"`
	TotalVersusGames int     `json:"total_versus_games"`
}

func (s *RankingService) WinsRanking(ctx context.Context, limit int) ([]WinsRankingEntry, error) {
	if limit <= 0 || limit > maxRankingLimit {
		limit = maxRankingLimit
	}

	users, err := s.userRepo.TopByWins(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]WinsRankingEntry, len(users))
	for i, u := range users {
		total := u.Wins + u.Losses
		rate := 0.0
		if total > 0 {
			rate = math.Round(float64(u.Wins)/float64(total)*1000) / 10
		}
		entries[i] = WinsRankingEntry{
			Rank:             i + 1,
			UserID:           u.UserID,
			Name:             u.Name,
			Wins:             u.Wins,
			Losses:           u.Losses,
			WinRate:          rate,
			TotalVersusGames: total,
		}
	}
	return entries, nil
}

func (s *RankingService) RecentGames(ctx context.Context, limit int) ([]*domain.MatchRecord, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.matchRepo.GetRecent(ctx, limit)
}

func (s *RankingService) UserHistory(ctx context.Context, userID string, limit int) ([]*domain.MatchRecord, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.matchRepo.GetByUserID(ctx, userID, limit)
}
