package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrooms/tictactoe-backend/internal/apperror"
	"github.com/gridrooms/tictactoe-backend/internal/tictactoe"
)

func newTestRoom(t *testing.T) *Room {
	t.Helper()

	room, err := NewRoom("ABC123", "Alice", "conn-alice")
	require.NoError(t, err)

	return room
}

func TestNewRoom(t *testing.T) {
	t.Run("Creates a waiting room with the creator in the X seat", func(t *testing.T) {
		// When: creating a room
		room := newTestRoom(t)
		state := room.State()

		// Then: the creator owns X, the O seat is empty and the turn is X
		assert.Equal(t, "ABC123", state.Code)
		assert.Equal(t, StatusWaiting, state.Status)
		require.NotNil(t, state.Players.X)
		assert.Equal(t, "Alice", state.Players.X.Name)
		assert.True(t, state.Players.X.Connected)
		assert.Nil(t, state.Players.O)
		assert.Equal(t, tictactoe.MarkX, state.Turn)
		assert.Equal(t, tictactoe.NewBoard(), state.Board)
	})

	t.Run("Rejects an empty display name", func(t *testing.T) {
		// When: creating a room with a blank name
		_, err := NewRoom("ABC123", "   ", "conn-1")

		// Then: the creator is not seated
		require.ErrorIs(t, err, ErrInvalidPlayerName)
	})

	t.Run("Rejects a display name over 20 characters", func(t *testing.T) {
		_, err := NewRoom("ABC123", "abcdefghijklmnopqrstu", "conn-1")
		require.ErrorIs(t, err, ErrInvalidPlayerName)
	})
}

func TestRoom_Join(t *testing.T) {
	t.Run("Fills the O seat and starts the game", func(t *testing.T) {
		// Given: a waiting room
		room := newTestRoom(t)

		// When: a second player joins
		state, err := room.Join("Bob", "conn-bob")

		// Then: the game transitions to playing with the turn on X
		require.NoError(t, err)
		assert.Equal(t, StatusPlaying, state.Status)
		require.NotNil(t, state.Players.O)
		assert.Equal(t, "Bob", state.Players.O.Name)
		assert.Equal(t, tictactoe.MarkX, state.Turn)
	})

	t.Run("Returns ErrRoomFull when the O seat is taken", func(t *testing.T) {
		// Given: a room with both seats filled
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		// When: a third player tries to join
		_, err = room.Join("Carol", "conn-carol")

		// Then: the join is rejected
		require.ErrorIs(t, err, apperror.ErrRoomFull)
	})

	t.Run("Rejects an invalid joiner name without seating", func(t *testing.T) {
		// Given: a waiting room
		room := newTestRoom(t)

		// When: a player joins with a blank name
		_, err := room.Join("", "conn-bob")

		// Then: the seat stays empty and the room keeps waiting
		require.ErrorIs(t, err, ErrInvalidPlayerName)
		assert.Equal(t, StatusWaiting, room.State().Status)
	})
}

func TestRoom_ApplyMove(t *testing.T) {
	t.Run("Returns ErrNotInProgress while the room is waiting", func(t *testing.T) {
		// Given: a room with only the creator seated
		room := newTestRoom(t)

		// When: the creator moves before anyone joined
		_, err := room.ApplyMove("conn-alice", 0)

		// Then: the move is rejected
		require.ErrorIs(t, err, apperror.ErrNotInProgress)
	})

	t.Run("Returns ErrNotYourTurn for the O seat on the first move", func(t *testing.T) {
		// Given: a playing room with the turn on X
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		// When: O moves first
		_, err = room.ApplyMove("conn-bob", 4)

		// Then: the move is rejected
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Returns ErrIllegalMove for out-of-range positions", func(t *testing.T) {
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		for _, position := range []int{-1, 9, 100} {
			_, err = room.ApplyMove("conn-alice", position)
			require.ErrorIs(t, err, apperror.ErrIllegalMove)
		}
	})

	t.Run("Returns ErrIllegalMove for an occupied cell", func(t *testing.T) {
		// Given: a playing room where X already marked cell 4
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		_, err = room.ApplyMove("conn-alice", 4)
		require.NoError(t, err)

		// When: O targets the same cell
		_, err = room.ApplyMove("conn-bob", 4)

		// Then: the move is rejected and the cell keeps its mark
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.Equal(t, tictactoe.MarkX, room.State().Board[4])
	})

	t.Run("Returns ErrRoomNotFound for a connection without a seat", func(t *testing.T) {
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		_, err = room.ApplyMove("conn-stranger", 0)
		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Alternates the turn after each legal move", func(t *testing.T) {
		// Given: a playing room
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		// When: X moves
		state, err := room.ApplyMove("conn-alice", 0)

		// Then: the turn flips to O
		require.NoError(t, err)
		assert.Equal(t, tictactoe.MarkO, state.Turn)
	})

	t.Run("Finishes the game when X completes the top row", func(t *testing.T) {
		// Given: a playing room
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		// When: playing X at 0, O at 3, X at 1, O at 4, X at 2
		moves := []struct {
			conn     string
			position int
		}{
			{"conn-alice", 0},
			{"conn-bob", 3},
			{"conn-alice", 1},
			{"conn-bob", 4},
			{"conn-alice", 2},
		}

		var state RoomState
		for _, move := range moves {
			state, err = room.ApplyMove(move.conn, move.position)
			require.NoError(t, err)
		}

		// Then: X wins on the [0,1,2] triple and the room is finished
		assert.Equal(t, StatusFinished, state.Status)
		assert.Equal(t, tictactoe.MarkX, state.Winner)
		require.NotNil(t, state.WinningLine)
		assert.Equal(t, [3]int{0, 1, 2}, *state.WinningLine)
	})

	t.Run("Rejects further moves once the game is finished", func(t *testing.T) {
		// Given: a finished game
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		for _, move := range []struct {
			conn     string
			position int
		}{
			{"conn-alice", 0}, {"conn-bob", 3},
			{"conn-alice", 1}, {"conn-bob", 4},
			{"conn-alice", 2},
		} {
			_, err = room.ApplyMove(move.conn, move.position)
			require.NoError(t, err)
		}

		// When: O tries to move after the win
		_, err = room.ApplyMove("conn-bob", 5)

		// Then: the move is rejected
		require.ErrorIs(t, err, apperror.ErrNotInProgress)
	})

	t.Run("Finishes with no winner when the board fills without a triple", func(t *testing.T) {
		// Given: a playing room
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		// When: playing to the full board X,O,X,O,X,O,O,X,O
		for _, move := range []struct {
			conn     string
			position int
		}{
			{"conn-alice", 0}, {"conn-bob", 1},
			{"conn-alice", 2}, {"conn-bob", 3},
			{"conn-alice", 4}, {"conn-bob", 5},
			{"conn-alice", 7}, {"conn-bob", 6},
			{"conn-alice", 8},
		} {
			_, err = room.ApplyMove(move.conn, move.position)
			require.NoError(t, err)
		}

		// Then: the room is finished with no winner and no line
		state := room.State()
		assert.Equal(t, StatusFinished, state.Status)
		assert.Empty(t, state.Winner)
		assert.Nil(t, state.WinningLine)
	})
}

func TestRoom_Reset(t *testing.T) {
	t.Run("Clears the board and keeps both seats", func(t *testing.T) {
		// Given: a finished game between Alice and Bob
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		for _, move := range []struct {
			conn     string
			position int
		}{
			{"conn-alice", 0}, {"conn-bob", 3},
			{"conn-alice", 1}, {"conn-bob", 4},
			{"conn-alice", 2},
		} {
			_, err = room.ApplyMove(move.conn, move.position)
			require.NoError(t, err)
		}

		// When: resetting the room
		state := room.Reset()

		// Then: board, winner and line are cleared; seats and names survive
		assert.Equal(t, tictactoe.NewBoard(), state.Board)
		assert.Equal(t, StatusPlaying, state.Status)
		assert.Equal(t, tictactoe.MarkX, state.Turn)
		assert.Empty(t, state.Winner)
		assert.Nil(t, state.WinningLine)
		require.NotNil(t, state.Players.X)
		require.NotNil(t, state.Players.O)
		assert.Equal(t, "Alice", state.Players.X.Name)
		assert.Equal(t, "Bob", state.Players.O.Name)
	})

	t.Run("Preserves connected flags across reset", func(t *testing.T) {
		// Given: a room where Bob already dropped
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		_, bothOut := room.MarkDisconnected("conn-bob")
		require.False(t, bothOut)

		// When: resetting the room
		state := room.Reset()

		// Then: Bob stays flagged as disconnected
		assert.True(t, state.Players.X.Connected)
		assert.False(t, state.Players.O.Connected)
	})

	t.Run("Keeps a solo room waiting", func(t *testing.T) {
		// Given: a room with an empty O seat
		room := newTestRoom(t)

		// When: resetting it
		state := room.Reset()

		// Then: the room does not pretend to be playing
		assert.Equal(t, StatusWaiting, state.Status)
	})
}

func TestRoom_MarkDisconnected(t *testing.T) {
	t.Run("Flags only the owning seat", func(t *testing.T) {
		// Given: a playing room
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		// When: Alice drops
		state, bothOut := room.MarkDisconnected("conn-alice")

		// Then: only the X seat is flagged and the room survives
		assert.False(t, bothOut)
		assert.False(t, state.Players.X.Connected)
		assert.True(t, state.Players.O.Connected)
	})

	t.Run("Reports both seats out after the second drop", func(t *testing.T) {
		room := newTestRoom(t)
		_, err := room.Join("Bob", "conn-bob")
		require.NoError(t, err)

		_, bothOut := room.MarkDisconnected("conn-alice")
		require.False(t, bothOut)

		_, bothOut = room.MarkDisconnected("conn-bob")
		assert.True(t, bothOut)
	})

	t.Run("Reports both out for a solo room when the creator drops", func(t *testing.T) {
		// Given: a waiting room with an empty O seat
		room := newTestRoom(t)

		// When: the creator drops
		_, bothOut := room.MarkDisconnected("conn-alice")

		// Then: the empty seat counts as disconnected
		assert.True(t, bothOut)
	})

	t.Run("Is a no-op for an unknown connection", func(t *testing.T) {
		room := newTestRoom(t)

		state, bothOut := room.MarkDisconnected("conn-stranger")

		assert.False(t, bothOut)
		assert.True(t, state.Players.X.Connected)
	})
}
