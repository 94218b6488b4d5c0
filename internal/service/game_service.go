package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/jmin/block-battle/internal/config"
	"github.com/jmin/block-battle/internal/domain"
	"github.com/jmin/block-battle/internal/repository"
	"github.com/jmin/block-battle/internal/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameService owns the room lifecycle state machine and match resolution.
// Every mutating operation acquires the room's exclusive lock for the whole
// load-mutate-save sequence, so a room sees at most one in-flight transition
// while different rooms proceed in parallel.
type GameService struct {
	roomRepo  repository.RoomRepository
	userRepo  repository.UserRepository
	matchRepo repository.MatchRepository
	publisher Publisher
	cfg       *config.Config
	locks     *roomLocks
}

func NewGameService(roomRepo repository.RoomRepository, userRepo repository.UserRepository, matchRepo repository.MatchRepository, publisher Publisher, cfg *config.Config) *GameService {
	return &GameService{
		roomRepo:  roomRepo,
		userRepo:  userRepo,
		matchRepo: matchRepo,
		publisher: publisher,
		cfg:       cfg,
		locks:     newRoomLocks(),
	}
}

type JoinResult struct {
	Room         *domain.Room
	Players      []string
	MatchStarted bool
}

// JoinRoom adds the user to a waiting room. The second join starts the
// match in the same operation: status flips to playing, the start time and
// duration are fixed, and MATCH_STARTED is broadcast.
func (s *GameService) JoinRoom(ctx context.Context, roomID, userID string) (*JoinResult, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(roomID)
	defer unlock()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != domain.RoomStatusWaiting {
		return nil, domain.ErrRoomNotJoinable
	}

	roster, err := room.Roster()
	if err != nil {
		return nil, err
	}
	for _, p := range roster {
		if p.UserID == userID {
			return nil, domain.ErrAlreadyInRoom
		}
	}
	if len(roster) >= domain.MaxRoomPlayers {
		return nil, domain.ErrRoomFull
	}

	roster = append(roster, domain.Participant{
		UserID:   userID,
		Name:     user.Name,
		JoinedAt: time.Now(),
	})

	started := len(roster) == domain.MaxRoomPlayers
	if started {
		now := time.Now()
		room.Status = domain.RoomStatusPlaying
		room.GameStartTime = &now
	}
	if err := room.SetRoster(roster); err != nil {
		return nil, err
	}
	room.UpdatedAt = time.Now()
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, err
	}

	s.publisher.Publish(room.RoomID, websocket.MessageTypePlayerJoined, websocket.PlayerJoinedPayload{
		PlayerName:   user.Name,
		PlayersCount: len(roster),
	})
	if started {
		s.publisher.Publish(room.RoomID, websocket.MessageTypeMatchStarted, websocket.MatchStartedPayload{
			Players:  playerStates(roster),
			Duration: room.DurationSeconds,
		})
	}

	players := make([]string, len(roster))
	for i, p := range roster {
		players[i] = p.Name
	}

	return &JoinResult{
		Room:         room,
		Players:      players,
		MatchStarted: started,
	}, nil
}

type ScoreResult struct {
	YourScore   int
	AllFinished bool
	FinalScores map[string]int
	WinnerID    *string
	WinnerName  string
	IsDraw      bool
}

// SubmitScore records the participant's terminal score. Resubmission before
// resolution overwrites the previous value; only the latest counts. When
// the last outstanding participant submits, the match resolves in the same
// operation.
func (s *GameService) SubmitScore(ctx context.Context, roomID, userID string, score int) (*ScoreResult, error) {
	if score < 0 {
		return nil, domain.ErrInvalidScore
	}

	unlock := s.locks.Lock(roomID)
	defer unlock()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != domain.RoomStatusPlaying {
		return nil, domain.ErrMatchNotRunning
	}

	roster, err := room.Roster()
	if err != nil {
		return nil, err
	}

	found := false
	allFinished := true
	for i := range roster {
		if roster[i].UserID == userID {
			roster[i].Score = score
			roster[i].Finished = true
			found = true
		}
		if !roster[i].Finished {
			allFinished = false
		}
	}
	if !found {
		return nil, domain.ErrNotInRoom
	}

	result := &ScoreResult{YourScore: score, AllFinished: allFinished}

	if allFinished {
		s.publisher.Publish(room.RoomID, websocket.MessageTypeScoreUpdated, websocket.ScoreUpdatedPayload{
			Players: playerStates(roster),
		})
		outcome, err := s.resolve(ctx, room, roster)
		if err != nil {
			return nil, err
		}
		result.FinalScores = outcome.scores
		result.WinnerID = outcome.winnerID
		result.WinnerName = outcome.winnerName
		result.IsDraw = outcome.isDraw
		return result, nil
	}

	if err := room.SetRoster(roster); err != nil {
		return nil, err
	}
	room.UpdatedAt = time.Now()
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, err
	}

	s.publisher.Publish(room.RoomID, websocket.MessageTypeScoreUpdated, websocket.ScoreUpdatedPayload{
		Players: playerStates(roster),
	})

	return result, nil
}

// LeaveRoom removes the participant from the roster. An emptied room is
// deleted. Leaving a running match follows the configured policy: forfeit
// resolves the match immediately with the leaver taking the loss, wait
// leaves the match running for the remaining roster.
func (s *GameService) LeaveRoom(ctx context.Context, roomID, userID string) error {
	unlock := s.locks.Lock(roomID)
	defer unlock()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return err
	}

	roster, err := room.Roster()
	if err != nil {
		return err
	}

	var leaver *domain.Participant
	remaining := make([]domain.Participant, 0, len(roster))
	for i := range roster {
		if roster[i].UserID == userID {
			leaver = &roster[i]
			continue
		}
		remaining = append(remaining, roster[i])
	}
	if leaver == nil {
		return domain.ErrNotInRoom
	}

	if len(remaining) == 0 {
		if err := s.roomRepo.Delete(ctx, room.RoomID); err != nil {
			return err
		}
		s.publisher.Publish(room.RoomID, websocket.MessageTypePlayerLeft, websocket.PlayerLeftPayload{
			PlayerName: leaver.Name,
		})
		return nil
	}

	if room.Status == domain.RoomStatusPlaying {
		switch s.cfg.LeavePolicy {
		case config.LeavePolicyForfeit:
			if _, err := s.resolveForfeit(ctx, room, remaining, *leaver); err != nil {
				return err
			}
			s.publisher.Publish(room.RoomID, websocket.MessageTypePlayerLeft, websocket.PlayerLeftPayload{
				PlayerName: leaver.Name,
			})
			return nil
		case config.LeavePolicyWait:
			allFinished := true
			for _, p := range remaining {
				if !p.Finished {
					allFinished = false
					break
				}
			}
			if allFinished {
				if _, err := s.resolve(ctx, room, remaining); err != nil {
					return err
				}
				s.publisher.Publish(room.RoomID, websocket.MessageTypePlayerLeft, websocket.PlayerLeftPayload{
					PlayerName: leaver.Name,
				})
				return nil
			}
		}
	}

	if err := room.SetRoster(remaining); err != nil {
		return err
	}
	room.UpdatedAt = time.Now()
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return err
	}

	s.publisher.Publish(room.RoomID, websocket.MessageTypePlayerLeft, websocket.PlayerLeftPayload{
		PlayerName: leaver.Name,
	})
	return nil
}

// DeleteRoom removes the room unconditionally. Host only.
func (s *GameService) DeleteRoom(ctx context.Context, roomID, userID string) error {
	unlock := s.locks.Lock(roomID)
	defer unlock()

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.IsHost(userID) {
		return domain.ErrNotHost
	}

	return s.roomRepo.Delete(ctx, room.RoomID)
}

type outcome struct {
	scores     map[string]int
	winnerID   *string
	winnerName string
	isDraw     bool
}

// resolve flips the room to finished, determines the winner by strict
// maximum score (a shared maximum is a draw), writes the match record and
// folds the result into each participant's profile exactly once. The room
// transition is authoritative; record and profile writes after it are
// best-effort and logged on failure.
func (s *GameService) resolve(ctx context.Context, room *domain.Room, roster []domain.Participant) (*outcome, error) {
	now := time.Now()
	room.Status = domain.RoomStatusFinished
	room.GameEndTime = &now
	room.UpdatedAt = now
	if err := room.SetRoster(roster); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, err
	}

	out := decideOutcome(roster)

	s.writeMatchRecord(ctx, room, roster, out)

	for _, p := range roster {
		won := out.winnerID != nil && *out.winnerID == p.UserID
		lost := !out.isDraw && !won
		s.updateProfile(ctx, p.UserID, p.Score, won, lost)
	}

	s.publisher.Publish(room.RoomID, websocket.MessageTypeMatchEnded, websocket.MatchEndedPayload{
		FinalScores: out.scores,
		Winner:      out.winnerID,
		IsDraw:      out.isDraw,
	})

	return out, nil
}

// resolveForfeit ends a running match after a mid-game departure. The
// remaining participant is the winner with the scores as they stand; the
// leaver stays on the match record and takes the loss.
func (s *GameService) resolveForfeit(ctx context.Context, room *domain.Room, remaining []domain.Participant, leaver domain.Participant) (*outcome, error) {
	now := time.Now()
	room.Status = domain.RoomStatusFinished
	room.GameEndTime = &now
	room.UpdatedAt = now
	if err := room.SetRoster(remaining); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, err
	}

	full := append(append([]domain.Participant{}, remaining...), leaver)
	winnerID := remaining[0].UserID
	out := &outcome{
		scores:     make(map[string]int, len(full)),
		winnerID:   &winnerID,
		winnerName: remaining[0].Name,
	}
	for _, p := range full {
		out.scores[p.UserID] = p.Score
	}

	s.writeMatchRecord(ctx, room, full, out)

	for _, p := range full {
		won := p.UserID == winnerID
		s.updateProfile(ctx, p.UserID, p.Score, won, !won)
	}

	s.publisher.Publish(room.RoomID, websocket.MessageTypeMatchEnded, websocket.MatchEndedPayload{
		FinalScores: out.scores,
		Winner:      out.winnerID,
		IsDraw:      false,
	})

	return out, nil
}

// decideOutcome picks the sole holder of the strict maximum score; two or
// more participants on the maximum produce a draw.
func decideOutcome(roster []domain.Participant) *outcome {
	out := &outcome{scores: make(map[string]int, len(roster))}

	maxScore := 0
	maxCount := 0
	var winner *domain.Participant
	for i := range roster {
		p := roster[i]
		out.scores[p.UserID] = p.Score
		if i == 0 || p.Score > maxScore {
			maxScore = p.Score
			maxCount = 1
			winner = &roster[i]
		} else if p.Score == maxScore {
			maxCount++
		}
	}

	if maxCount == 1 && winner != nil {
		out.winnerID = &winner.UserID
		out.winnerName = winner.Name
	} else {
		out.isDraw = true
	}
	return out
}

func (s *GameService) writeMatchRecord(ctx context.Context, room *domain.Room, roster []domain.Participant, out *outcome) {
	players := make([]domain.MatchPlayer, len(roster))
	for i, p := range roster {
		players[i] = domain.MatchPlayer{UserID: p.UserID, Name: p.Name, Score: p.Score}
	}

	playersJSON, err := json.Marshal(players)
	if err != nil {
		log.Printf("WARN [GameService] room %s: failed to encode match players: %v", room.RoomID, err)
		return
	}
	scoresJSON, err := json.Marshal(out.scores)
	if err != nil {
		log.Printf("WARN [GameService] room %s: failed to encode match scores: %v", room.RoomID, err)
		return
	}

	roomID := room.RoomID
	record := &domain.MatchRecord{
		MatchID:         uuid.New(),
		RoomID:          &roomID,
		Mode:            domain.MatchModeVersus,
		Players:         playersJSON,
		Scores:          scoresJSON,
		WinnerID:        out.winnerID,
		DurationSeconds: room.DurationSeconds,
		CreatedAt:       time.Now(),
	}

	// The audit log and the room row are not transactionally linked; a
	// failed record write leaves the finished room state in place.
	if err := s.matchRepo.Create(ctx, record); err != nil {
		log.Printf("WARN [GameService] room %s: match record write failed: %v", room.RoomID, err)
	}
}

func (s *GameService) updateProfile(ctx context.Context, userID string, score int, won, lost bool) {
	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("WARN [GameService] profile update skipped for %s: %v", userID, err)
		return
	}
	user.RecordVersusResult(score, won, lost)
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("WARN [GameService] profile update failed for %s: %v", userID, err)
	}
}

type SoloResult struct {
	FinalScore   int
	PersonalBest bool
	PreviousBest int
}

// SoloStart verifies the player and reports the session duration. Solo play
// never touches the room state machine.
func (s *GameService) SoloStart(ctx context.Context, userID string) (int, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return 0, err
	}
	return int(s.cfg.MatchDuration.Seconds()), nil
}

// SoloEnd records a finished solo session: one match record plus the
// player's best-score and aggregate stats.
func (s *GameService) SoloEnd(ctx context.Context, userID string, score int) (*SoloResult, error) {
	if score < 0 {
		return nil, domain.ErrInvalidScore
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	previousBest := user.SoloHighScore
	personalBest := user.RecordSoloScore(score)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	players, _ := json.Marshal([]domain.MatchPlayer{{UserID: user.UserID, Name: user.Name, Score: score}})
	scores, _ := json.Marshal(map[string]int{user.UserID: score})
	winnerID := user.UserID
	record := &domain.MatchRecord{
		MatchID:         uuid.New(),
		Mode:            domain.MatchModeSolo,
		Players:         players,
		Scores:          scores,
		WinnerID:        &winnerID,
		DurationSeconds: int(s.cfg.MatchDuration.Seconds()),
		CreatedAt:       time.Now(),
	}
	if err := s.matchRepo.Create(ctx, record); err != nil {
		log.Printf("WARN [GameService] solo record write failed for %s: %v", userID, err)
	}

	return &SoloResult{
		FinalScore:   score,
		PersonalBest: personalBest,
		PreviousBest: previousBest,
	}, nil
}

func (s *GameService) getRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := s.roomRepo.GetByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *GameService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func playerStates(roster []domain.Participant) []websocket.PlayerState {
	states := make([]websocket.PlayerState, len(roster))
	for i, p := range roster {
		states[i] = websocket.PlayerState{UserID: p.UserID, Name: p.Name, Score: p.Score}
	}
	return states
}
