package websocket

import (
	"encoding/json"

	"github.com/gridrooms/tictactoe-backend/internal/entity"
	"github.com/gridrooms/tictactoe-backend/internal/tictactoe"
)

// Inbound command names.
const (
	ActionCreateGame   = "create-game"
	ActionJoinGame     = "join-game"
	ActionMakeMove     = "make-move"
	ActionResetGame    = "reset-game"
	ActionGetGameState = "get-game-state"
)

// Outbound event names.
const (
	EventGameCreated        = "game-created"
	EventGameJoined         = "game-joined"
	EventPlayerAssigned     = "player-assigned"
	EventGameUpdated        = "game-updated"
	EventGameReset          = "game-reset"
	EventGameState          = "game-state"
	EventGameError          = "game-error"
	EventPlayerDisconnected = "player-disconnected"
)

// Message is the wire envelope: an action name plus a command- or
// event-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreateGamePayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type JoinGamePayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type MakeMovePayload struct {
	Position *int `json:"position"`
}

type GetGameStatePayload struct {
	RoomCode string `json:"roomCode"`
}

type GameCreatedPayload struct {
	Game         entity.RoomState `json:"game"`
	PlayerSymbol string           `json:"playerSymbol"`
}

type GameJoinedPayload struct {
	Game entity.RoomState `json:"game"`
}

type PlayerAssignedPayload struct {
	PlayerSymbol string `json:"playerSymbol"`
}

// GameUpdatedPayload carries the post-move board state; it is also the
// shape of game-reset events.
type GameUpdatedPayload struct {
	Board       tictactoe.Board `json:"board"`
	Turn        string          `json:"currentPlayer"`
	Status      string          `json:"gameStatus"`
	Winner      string          `json:"winner,omitempty"`
	WinningLine *[3]int         `json:"winningLine"`
}

type GameStatePayload struct {
	Game entity.RoomState `json:"game"`
}

type GameErrorPayload struct {
	Message string `json:"message"`
}

// PlayerDisconnectedPayload tells the surviving peer who dropped; it
// discloses nothing beyond names, seats and connected flags.
type PlayerDisconnectedPayload struct {
	Players entity.Seats `json:"players"`
	Status  string       `json:"gameStatus"`
}

func newMessage(action string, payload any) Message {
	return Message{
		Action:  action,
		Payload: mustMarshal(payload),
	}
}

func newUpdateMessage(action string, state entity.RoomState) Message {
	return newMessage(action, GameUpdatedPayload{
		Board:       state.Board,
		Turn:        state.Turn,
		Status:      state.Status,
		Winner:      state.Winner,
		WinningLine: state.WinningLine,
	})
}

// mustMarshal is safe here: every outbound payload is a struct the
// server itself builds.
func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
