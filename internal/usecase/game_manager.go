package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridrooms/tictactoe-backend/internal/apperror"
	"github.com/gridrooms/tictactoe-backend/internal/entity"
	"github.com/gridrooms/tictactoe-backend/internal/pkg"
	"github.com/gridrooms/tictactoe-backend/internal/registry"
)

var ErrInvalidRoomCode = errors.New("room code must be 6 uppercase alphanumeric characters")

// maxGenerateAttempts bounds server-side code generation when the client
// leaves the room code empty.
const maxGenerateAttempts = 10

// GameManager translates gateway commands into registry and room
// operations and hands back snapshots for broadcasting.
type GameManager struct {
	logger   *slog.Logger
	registry *registry.Registry
}

func NewGameManager(logger *slog.Logger, reg *registry.Registry) *GameManager {
	return &GameManager{
		logger:   logger,
		registry: reg,
	}
}

// CreateGame opens a new room. A client-supplied code is normalized and
// validated; an empty code gets a server-generated one.
func (that *GameManager) CreateGame(code, playerName, connectionID string) (entity.RoomState, error) {
	log := that.logger.With("method", "CreateGame")

	if code == "" {
		return that.createWithGeneratedCode(playerName, connectionID)
	}

	code = pkg.NormalizeRoomCode(code)
	if !pkg.IsValidRoomCode(code) {
		return entity.RoomState{}, fmt.Errorf("%w: %q", ErrInvalidRoomCode, code)
	}

	room, err := that.registry.CreateRoom(code, playerName, connectionID)
	if err != nil {
		return entity.RoomState{}, fmt.Errorf("failed to create room: %w", err)
	}

	log.Info("room created", "code", code, "player", playerName)

	return room.State(), nil
}

func (that *GameManager) createWithGeneratedCode(playerName, connectionID string) (entity.RoomState, error) {
	log := that.logger.With("method", "createWithGeneratedCode")

	var lastErr error
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code := pkg.GenerateRoomCode()

		room, err := that.registry.CreateRoom(code, playerName, connectionID)
		if errors.Is(err, apperror.ErrDuplicateRoom) {
			lastErr = err
			continue
		}

		if err != nil {
			return entity.RoomState{}, fmt.Errorf("failed to create room: %w", err)
		}

		log.Info("room created", "code", code, "player", playerName)

		return room.State(), nil
	}

	return entity.RoomState{}, fmt.Errorf("failed to generate a free room code: %w", lastErr)
}

// JoinGame fills the second seat of an existing room and binds the
// joiner's connection for move routing.
func (that *GameManager) JoinGame(code, playerName, connectionID string) (entity.RoomState, error) {
	log := that.logger.With("method", "JoinGame")

	code = pkg.NormalizeRoomCode(code)

	room, err := that.registry.ByCode(code)
	if err != nil {
		return entity.RoomState{}, fmt.Errorf("failed to find room: %w", err)
	}

	state, err := room.Join(playerName, connectionID)
	if err != nil {
		return entity.RoomState{}, fmt.Errorf("failed to join room: %w", err)
	}

	that.registry.BindConnection(connectionID, code)

	log.Info("player joined", "code", code, "player", playerName)

	return state, nil
}

// MakeTurn routes a move through the caller's bound room.
func (that *GameManager) MakeTurn(connectionID string, position int) (entity.RoomState, error) {
	room, err := that.registry.ByConnection(connectionID)
	if err != nil {
		return entity.RoomState{}, fmt.Errorf("failed to find room: %w", err)
	}

	state, err := room.ApplyMove(connectionID, position)
	if err != nil {
		return entity.RoomState{}, fmt.Errorf("failed to make turn: %w", err)
	}

	if state.IsFinished() {
		that.logger.Info("game finished", "code", state.Code, "winner", state.Winner)
	}

	return state, nil
}

// ResetGame clears the board of the caller's bound room for a rematch.
func (that *GameManager) ResetGame(connectionID string) (entity.RoomState, error) {
	log := that.logger.With("method", "ResetGame")

	room, err := that.registry.ByConnection(connectionID)
	if err != nil {
		return entity.RoomState{}, fmt.Errorf("failed to find room: %w", err)
	}

	state := room.Reset()

	log.Info("room reset", "code", state.Code)

	return state, nil
}

// GetGameState returns a snapshot of a room by code, used by returning
// clients before a fresh join.
func (that *GameManager) GetGameState(code string) (entity.RoomState, error) {
	room, err := that.registry.ByCode(pkg.NormalizeRoomCode(code))
	if err != nil {
		return entity.RoomState{}, fmt.Errorf("failed to find room: %w", err)
	}

	return room.State(), nil
}

// Disconnect flags the connection's seat offline and reports whether a
// room was affected and whether the retention policy reaped it.
func (that *GameManager) Disconnect(connectionID string) (entity.RoomState, bool, bool) {
	log := that.logger.With("method", "Disconnect")

	state, found, deleted := that.registry.Disconnect(connectionID)
	if !found {
		return entity.RoomState{}, false, false
	}

	if deleted {
		log.Info("room deleted", "code", state.Code)
	}

	return state, true, deleted
}
