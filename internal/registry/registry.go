package registry

import (
	"sync"
	"time"

	"github.com/gridrooms/tictactoe-backend/internal/apperror"
	"github.com/gridrooms/tictactoe-backend/internal/entity"
)

// DefaultRetention is how long an abandoned room may live before a
// disconnect event is allowed to reap it.
const DefaultRetention = 24 * time.Hour

// Registry owns every live room and the connection→code reverse index.
// Its lock guards only map structure; room content mutation stays behind
// each room's own lock, so unrelated rooms never serialize on each other.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
	conns map[string]string

	retention time.Duration
}

func New(retention time.Duration) *Registry {
	if retention <= 0 {
		retention = DefaultRetention
	}

	return &Registry{
		rooms:     make(map[string]*entity.Room),
		conns:     make(map[string]string),
		retention: retention,
	}
}

// CreateRoom allocates and registers a room in one atomic step, so two
// creators racing on the same code cannot both win.
func (that *Registry) CreateRoom(code, playerName, connectionID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.rooms[code]; exists {
		return nil, apperror.ErrDuplicateRoom
	}

	room, err := entity.NewRoom(code, playerName, connectionID)
	if err != nil {
		return nil, err
	}

	that.rooms[code] = room
	that.conns[connectionID] = code

	return room, nil
}

// ByCode resolves a room by its code.
func (that *Registry) ByCode(code string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[code]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

// ByConnection resolves the room a connection is bound to. A binding
// whose room was already deleted resolves to ErrRoomNotFound, never to a
// dangling reference.
func (that *Registry) ByConnection(connectionID string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	code, ok := that.conns[connectionID]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	room, ok := that.rooms[code]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

// BindConnection records which room a connection acts on. It is a pure
// lookup relation; deleting it never cascades into the room.
func (that *Registry) BindConnection(connectionID, code string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[connectionID] = code
}

func (that *Registry) UnbindConnection(connectionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, connectionID)
}

// Delete removes a room. Connection bindings pointing at the dead code
// are left to resolve to ErrRoomNotFound and are unbound on disconnect.
func (that *Registry) Delete(code string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, code)
}

// Count reports the number of live rooms.
func (that *Registry) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// Disconnect flags the connection's seat offline, evaluates the retention
// policy and reaps the room when both seats are gone or the room outlived
// the retention window. It is idempotent: an unmapped connection reports
// found=false and nothing else happens.
func (that *Registry) Disconnect(connectionID string) (state entity.RoomState, found, deleted bool) {
	that.mu.Lock()
	code, ok := that.conns[connectionID]
	if ok {
		delete(that.conns, connectionID)
	}
	room := that.rooms[code]
	that.mu.Unlock()

	if !ok || room == nil {
		return entity.RoomState{}, false, false
	}

	state, bothOut := room.MarkDisconnected(connectionID)

	expired := time.Since(room.CreatedAt()) > that.retention
	if bothOut || expired {
		that.mu.Lock()
		// re-check under the write lock; the code may have been reused
		if current, still := that.rooms[code]; still && current == room {
			delete(that.rooms, code)
			deleted = true
		}
		that.mu.Unlock()
	}

	return state, true, deleted
}
