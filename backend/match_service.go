package main

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotAPlayer    = errors.New("not a player in this match")
)

// matchRecord is one remote match: a bare game state plus the player ids
// holding each seat. Empty seat strings mean the seat is open.
type matchRecord struct {
	ID      string
	State   GameState
	History MoveHistory
	Black   string
	White   string
	Created time.Time
	Updated time.Time
}

type MatchView struct {
	ID         string            `json:"id"`
	BoardSize  int               `json:"board_size"`
	WinLength  int               `json:"win_length"`
	NextPlayer int               `json:"next_player"`
	Winner     int               `json:"winner"`
	Status     string            `json:"status"`
	History    []historyEntryDTO `json:"history"`
	BlackTaken bool              `json:"black_taken"`
	WhiteTaken bool              `json:"white_taken"`
	UpdatedMs  int64             `json:"updated_ms"`
}

// MatchService keeps a uuid-keyed registry of remote matches. All access
// goes through the single mutex; views returned to callers are snapshots.
type MatchService struct {
	mu      sync.Mutex
	matches map[string]*matchRecord
}

func NewMatchService() *MatchService {
	return &MatchService{matches: make(map[string]*matchRecord)}
}

func (s *MatchService) Create(settings GameSettings) MatchView {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	record := &matchRecord{
		ID:      uuid.NewString(),
		Created: now,
		Updated: now,
	}
	record.State.Reset(settings)
	record.State.Status = StatusRunning
	s.matches[record.ID] = record
	return matchView(record)
}

func (s *MatchService) Get(id string) (MatchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.matches[id]
	if !ok {
		return MatchView{}, ErrMatchNotFound
	}
	return matchView(record), nil
}

// Join seats the player on the first open side. Rejoining with the same
// player id returns the seat already held; a full match seats nobody and
// reports the spectator with color -1.
func (s *MatchService) Join(id, playerID string) (int, MatchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.matches[id]
	if !ok {
		return -1, MatchView{}, ErrMatchNotFound
	}
	seat := -1
	if record.Black == "" || record.Black == playerID {
		record.Black = playerID
		seat = playerToInt(PlayerBlack)
	} else if record.White == "" || record.White == playerID {
		record.White = playerID
		seat = playerToInt(PlayerWhite)
	}
	record.Updated = time.Now()
	return seat, matchView(record), nil
}

// Play validates the seat and the turn, then applies the move.
func (s *MatchService) Play(id, playerID string, move Move) (MatchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.matches[id]
	if !ok {
		return MatchView{}, ErrMatchNotFound
	}
	var seat PlayerColor
	switch playerID {
	case record.Black:
		seat = PlayerBlack
	case record.White:
		seat = PlayerWhite
	default:
		return MatchView{}, ErrNotAPlayer
	}
	if record.State.Status != StatusRunning {
		return MatchView{}, ErrNoLegalMove
	}
	if seat != record.State.ToMove {
		return MatchView{}, ErrNotYourTurn
	}
	if err := advanceState(&record.State, move, seat); err != nil {
		return MatchView{}, err
	}
	record.History.Push(HistoryEntry{Move: move, Player: seat})
	record.Updated = time.Now()
	return matchView(record), nil
}

func matchView(record *matchRecord) MatchView {
	return MatchView{
		ID:         record.ID,
		BoardSize:  record.State.Board.Size(),
		WinLength:  record.State.Board.WinLength(),
		NextPlayer: playerToInt(record.State.ToMove),
		Winner:     winnerFromStatus(record.State.Status),
		Status:     statusToString(record.State.Status),
		History:    historyToDTO(record.History),
		BlackTaken: record.Black != "",
		WhiteTaken: record.White != "",
		UpdatedMs:  record.Updated.UnixMilli(),
	}
}
