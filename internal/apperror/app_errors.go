package apperror

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyStarted = errors.New("game already in progress")
	ErrNotInProgress  = errors.New("game is not in progress")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrIllegalMove    = errors.New("illegal move")
	ErrDuplicateRoom  = errors.New("room already exists")
)
