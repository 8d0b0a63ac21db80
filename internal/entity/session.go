package entity

import "time"

// Session is the per-client record behind the user_session cookie. It lets
// a returning client recover its display name and last room code; it
// carries no secret and grants no seat by itself.
type Session struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	RoomCode string    `json:"room_code,omitempty"`
	LastSeen time.Time `json:"last_seen"`
}
