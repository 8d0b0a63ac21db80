package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gridrooms/tictactoe-backend/internal/apperror"
	"github.com/gridrooms/tictactoe-backend/internal/entity"
	"github.com/gridrooms/tictactoe-backend/internal/tictactoe"
	"github.com/gridrooms/tictactoe-backend/internal/usecase"
)

func (that *Server) handleCreateGame(ctx context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleCreateGame", "connection", client.ID)

	var payload CreateGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	state, err := that.manager.CreateGame(payload.RoomCode, payload.PlayerName, client.ID)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendError(client, errorMessage(err))
	}

	that.hub.Join(state.Code, client)
	that.touchSession(ctx, client, payload.PlayerName, state.Code)

	log.Info("game created", "code", state.Code, "player", payload.PlayerName)

	return client.Send(newMessage(EventGameCreated, GameCreatedPayload{
		Game:         state,
		PlayerSymbol: tictactoe.MarkX,
	}))
}

func (that *Server) handleJoinGame(ctx context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleJoinGame", "connection", client.ID)

	var payload JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	state, err := that.manager.JoinGame(payload.RoomCode, payload.PlayerName, client.ID)
	if err != nil {
		log.Error("failed to join game", "error", err)
		return that.sendError(client, errorMessage(err))
	}

	that.hub.Join(state.Code, client)
	that.touchSession(ctx, client, payload.PlayerName, state.Code)

	that.hub.Broadcast(state.Code, newMessage(EventGameJoined, GameJoinedPayload{Game: state}))

	// each side learns its own seat
	if err = client.Send(newMessage(EventPlayerAssigned, PlayerAssignedPayload{PlayerSymbol: tictactoe.MarkO})); err != nil {
		log.Warn("failed to send seat assignment", "error", err)
	}
	that.hub.BroadcastExcept(state.Code, client.ID, newMessage(EventPlayerAssigned, PlayerAssignedPayload{PlayerSymbol: tictactoe.MarkX}))

	log.Info("player joined game", "code", state.Code, "player", payload.PlayerName)

	return nil
}

func (that *Server) handleMakeMove(_ context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleMakeMove", "connection", client.ID)

	var payload MakeMovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.Position == nil {
		return that.sendError(client, "position is required")
	}

	state, err := that.manager.MakeTurn(client.ID, *payload.Position)
	if err != nil {
		log.Error("failed to make move", "error", err)
		return that.sendError(client, errorMessage(err))
	}

	that.hub.Broadcast(state.Code, newUpdateMessage(EventGameUpdated, state))

	log.Info("move made", "code", state.Code, "position", *payload.Position)

	return nil
}

func (that *Server) handleResetGame(_ context.Context, client *Client, _ *Message) error {
	log := that.logger.With("method", "handleResetGame", "connection", client.ID)

	state, err := that.manager.ResetGame(client.ID)
	if err != nil {
		log.Error("failed to reset game", "error", err)
		return that.sendError(client, errorMessage(err))
	}

	that.hub.Broadcast(state.Code, newUpdateMessage(EventGameReset, state))

	log.Info("game reset", "code", state.Code)

	return nil
}

func (that *Server) handleGetGameState(_ context.Context, client *Client, msg *Message) error {
	var payload GetGameStatePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	state, err := that.manager.GetGameState(payload.RoomCode)
	if err != nil {
		return that.sendError(client, errorMessage(err))
	}

	return client.Send(newMessage(EventGameState, GameStatePayload{Game: state}))
}

// handleDisconnect runs after the read loop ends. Errors are never sent
// anywhere: the connection that caused this is already gone.
func (that *Server) handleDisconnect(ctx context.Context, client *Client) {
	log := that.logger.With("method", "handleDisconnect", "connection", client.ID)

	state, found, deleted := that.manager.Disconnect(client.ID)
	if !found {
		return
	}

	that.hub.Leave(state.Code, client.ID)

	if deleted {
		that.hub.DropRoom(state.Code)
		log.Info("room deleted after disconnect", "code", state.Code)
	} else {
		that.hub.Broadcast(state.Code, newMessage(EventPlayerDisconnected, PlayerDisconnectedPayload{
			Players: state.Players,
			Status:  state.Status,
		}))
	}

	that.touchSession(ctx, client, "", state.Code)

	log.Info("player disconnected", "code", state.Code)
}

// touchSession refreshes the caller's session record; failures are
// logged and swallowed since sessions are a convenience, not game state.
func (that *Server) touchSession(ctx context.Context, client *Client, name, code string) {
	if that.sessions == nil || client.SessionID == "" {
		return
	}

	session := &entity.Session{
		ID:       client.SessionID,
		Name:     name,
		RoomCode: code,
	}

	if name == "" {
		if existing, err := that.sessions.GetByID(ctx, client.SessionID); err == nil {
			session.Name = existing.Name
		}
	}

	if err := that.sessions.CreateOrUpdate(ctx, session); err != nil {
		that.logger.Warn("failed to update session", "session", client.SessionID, "error", err)
	}
}

func (that *Server) sendError(client *Client, message string) error {
	if err := client.Send(newMessage(EventGameError, GameErrorPayload{Message: message})); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// errorMessage maps request-level errors to what the peer is told.
// Anything outside the known taxonomy stays opaque.
func errorMessage(err error) string {
	for _, known := range []error{
		apperror.ErrRoomNotFound,
		apperror.ErrRoomFull,
		apperror.ErrAlreadyStarted,
		apperror.ErrNotInProgress,
		apperror.ErrNotYourTurn,
		apperror.ErrIllegalMove,
		apperror.ErrDuplicateRoom,
		entity.ErrInvalidPlayerName,
		usecase.ErrInvalidRoomCode,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal error"
}
