package service_test

import (
	"context"
	"testing"

	"github.com/jmin/block-battle/internal/domain"
	"github.com/jmin/block-battle/internal/repository/postgres"
	"github.com/jmin/block-battle/internal/service"
	"github.com/jmin/block-battle/internal/testutil"
	"github.com/jmin/block-battle/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUserWithStats(t *testing.T, testDB *testutil.TestDB, name string, soloHigh, wins, losses int) *domain.User {
	t.Helper()

	user, _ := testutil.NewUserBuilder().WithName(name).Build(t, testDB.DB)
	user.SoloHighScore = soloHigh
	user.Wins = wins
	user.Losses = losses
	user.GamesPlayed = wins + losses
	require.NoError(t, testDB.DB.Save(user).Error)
	return user
}

func TestRankingService_ScoreRanking(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	rankingService := service.NewRankingService(repos.User, repos.Match)
	ctx := context.Background()

	seedUserWithStats(t, testDB, "low", 100, 0, 0)
	top := seedUserWithStats(t, testDB, "top", 900, 0, 0)
	seedUserWithStats(t, testDB, "mid", 500, 0, 0)

	entries, err := rankingService.ScoreRanking(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, top.UserID, entries[0].UserID)
	assert.Equal(t, 900, entries[0].Score)
	assert.Equal(t, 500, entries[1].Score)
	assert.Equal(t, 100, entries[2].Score)

	limited, err := rankingService.ScoreRanking(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRankingService_WinsRanking(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	rankingService := service.NewRankingService(repos.User, repos.Match)
	ctx := context.Background()

	champ := seedUserWithStats(t, testDB, "champ", 0, 7, 3)
	seedUserWithStats(t, testDB, "runner", 0, 2, 2)
	seedUserWithStats(t, testDB, "fresh", 0, 0, 0)

	entries, err := rankingService.WinsRanking(ctx, 0)
	require.NoError(t, err)

	// Players with no wins never chart
	require.Len(t, entries, 2)

	assert.Equal(t, champ.UserID, entries[0].UserID)
	assert.Equal(t, 7, entries[0].Wins)
	assert.Equal(t, 10, entries[0].TotalVersusGames)
	assert.InDelta(t, 70.0, entries[0].WinRate, 0.01)

	assert.InDelta(t, 50.0, entries[1].WinRate, 0.01)
}

func TestRankingService_RecentGames(t *testing.T) {
	cfg := testutil.TestConfig()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	hub := websocket.NewHub()
	t.Cleanup(hub.Close)
	rankingService := service.NewRankingService(repos.User, repos.Match)
	gameService := service.NewGameService(repos.Room, repos.User, repos.Match, hub, cfg)
	ctx := context.Background()

	player, _ := testutil.NewUserBuilder().WithName("solo").Build(t, testDB.DB)
	for i := 0; i < 3; i++ {
		_, err := gameService.SoloEnd(ctx, player.UserID, 100+i)
		require.NoError(t, err)
	}

	records, err := rankingService.RecentGames(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	limited, err := rankingService.RecentGames(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	history, err := rankingService.UserHistory(ctx, player.UserID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	none, err := rankingService.UserHistory(ctx, "nosuchuser", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
