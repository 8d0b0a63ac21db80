package entity

import (
	"fmt"
	"sync"
	"time"

	"github.com/gridrooms/tictactoe-backend/internal/apperror"
	"github.com/gridrooms/tictactoe-backend/internal/tictactoe"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Room is the authoritative state of one game session. All mutation goes
// through its methods; the mutex serializes commands targeting this room
// without blocking unrelated rooms.
type Room struct {
	mu sync.Mutex

	code        string
	playerX     *Player
	playerO     *Player
	board       tictactoe.Board
	turn        string
	status      string
	winner      string
	winningLine *[3]int
	createdAt   time.Time
}

// Seats is the two fixed player slots keyed by mark.
type Seats struct {
	X *Player `json:"X"`
	O *Player `json:"O"`
}

// RoomState is an immutable snapshot of a room, safe to hand to the
// transport layer after the room lock is released.
type RoomState struct {
	Code        string          `json:"roomCode"`
	Players     Seats           `json:"players"`
	Board       tictactoe.Board `json:"board"`
	Turn        string          `json:"currentPlayer"`
	Status      string          `json:"gameStatus"`
	Winner      string          `json:"winner,omitempty"`
	WinningLine *[3]int         `json:"winningLine"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewRoom allocates a room with the creator in the X seat, an empty board
// and the turn on X. The room stays waiting until the O seat is filled.
func NewRoom(code, playerName, connectionID string) (*Room, error) {
	player, err := NewPlayer(playerName, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to seat creator: %w", err)
	}

	return &Room{
		code:      code,
		playerX:   player,
		board:     tictactoe.NewBoard(),
		turn:      tictactoe.MarkX,
		status:    StatusWaiting,
		createdAt: time.Now(),
	}, nil
}

func (that *Room) Code() string {
	return that.code
}

func (that *Room) CreatedAt() time.Time {
	return that.createdAt
}

// Join fills the O seat and starts the game. Preconditions are checked
// under the room lock, so of two racing joins exactly one wins and the
// other observes ErrRoomFull.
func (that *Room) Join(playerName, connectionID string) (RoomState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.playerO != nil {
		return RoomState{}, apperror.ErrRoomFull
	}

	if that.status != StatusWaiting {
		return RoomState{}, apperror.ErrAlreadyStarted
	}

	player, err := NewPlayer(playerName, connectionID)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to seat joiner: %w", err)
	}

	that.playerO = player
	that.status = StatusPlaying

	return that.snapshot(), nil
}

// ApplyMove resolves the caller's seat, validates the move against the
// latest state and writes the mark. Evaluation of the resulting board is
// delegated to the board engine, never inlined.
func (that *Room) ApplyMove(connectionID string, position int) (RoomState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	mark := that.seatOf(connectionID)
	if mark == "" {
		return RoomState{}, apperror.ErrRoomNotFound
	}

	if that.status != StatusPlaying {
		return RoomState{}, apperror.ErrNotInProgress
	}

	if mark != that.turn {
		return RoomState{}, apperror.ErrNotYourTurn
	}

	if position < 0 || position >= tictactoe.BoardSize {
		return RoomState{}, fmt.Errorf("%w: position %d out of range", apperror.ErrIllegalMove, position)
	}

	if that.board[position] != tictactoe.EmptyCell {
		return RoomState{}, fmt.Errorf("%w: cell %d is occupied", apperror.ErrIllegalMove, position)
	}

	that.board[position] = mark

	switch result := tictactoe.Evaluate(that.board); {
	case result.IsWin():
		line := result.Line
		that.status = StatusFinished
		that.winner = result.Winner
		that.winningLine = &line
	case result.IsDraw():
		that.status = StatusFinished
		that.winner = ""
		that.winningLine = nil
	default:
		that.turn = tictactoe.ToggleMark(mark)
	}

	return that.snapshot(), nil
}

// Reset clears the board for a rematch, keeping both seats exactly as
// they are. While the O seat is still empty the room stays waiting so the
// status always mirrors the seat occupancy.
func (that *Room) Reset() RoomState {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.board = tictactoe.NewBoard()
	that.turn = tictactoe.MarkX
	that.winner = ""
	that.winningLine = nil

	if that.playerO != nil {
		that.status = StatusPlaying
	} else {
		that.status = StatusWaiting
	}

	return that.snapshot()
}

// MarkDisconnected flags the seat owned by the connection as disconnected.
// It reports whether both seats are now offline so the caller can apply
// the retention policy. Unknown connections are a no-op.
func (that *Room) MarkDisconnected(connectionID string) (RoomState, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.playerX != nil && that.playerX.ConnectionID == connectionID {
		that.playerX.Connected = false
	}

	if that.playerO != nil && that.playerO.ConnectionID == connectionID {
		that.playerO.Connected = false
	}

	bothOut := (that.playerX == nil || !that.playerX.Connected) &&
		(that.playerO == nil || !that.playerO.Connected)

	return that.snapshot(), bothOut
}

// SeatOf returns the mark of the seat owned by the connection, or an
// empty string when the connection is not seated here.
func (that *Room) SeatOf(connectionID string) string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.seatOf(connectionID)
}

// State returns a point-in-time snapshot of the room.
func (that *Room) State() RoomState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

func (that *Room) seatOf(connectionID string) string {
	if that.playerX != nil && that.playerX.ConnectionID == connectionID {
		return tictactoe.MarkX
	}

	if that.playerO != nil && that.playerO.ConnectionID == connectionID {
		return tictactoe.MarkO
	}

	return ""
}

// snapshot copies the room state; callers must hold the lock.
func (that *Room) snapshot() RoomState {
	state := RoomState{
		Code:      that.code,
		Board:     that.board,
		Turn:      that.turn,
		Status:    that.status,
		Winner:    that.winner,
		CreatedAt: that.createdAt,
	}

	if that.playerX != nil {
		playerX := *that.playerX
		state.Players.X = &playerX
	}

	if that.playerO != nil {
		playerO := *that.playerO
		state.Players.O = &playerO
	}

	if that.winningLine != nil {
		line := *that.winningLine
		state.WinningLine = &line
	}

	return state
}

func (that RoomState) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that RoomState) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that RoomState) IsWaiting() bool {
	return that.Status == StatusWaiting
}
