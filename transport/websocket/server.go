package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gridrooms/tictactoe-backend/internal/entity"
	"github.com/gridrooms/tictactoe-backend/internal/pkg"
)

const sessionCookieName = "user_session"

type gameManager interface {
	CreateGame(code, playerName, connectionID string) (entity.RoomState, error)
	JoinGame(code, playerName, connectionID string) (entity.RoomState, error)
	MakeTurn(connectionID string, position int) (entity.RoomState, error)
	ResetGame(connectionID string) (entity.RoomState, error)
	GetGameState(code string) (entity.RoomState, error)
	Disconnect(connectionID string) (entity.RoomState, bool, bool)
}

type sessionStore interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	sessions sessionStore
	hub      *Hub

	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, client *Client, message *Message) error
}

func New(logger *slog.Logger, manager gameManager, sessions sessionStore) *Server {
	server := &Server{
		logger:   logger,
		manager:  manager,
		sessions: sessions,
		hub:      NewHub(logger),

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// room codes are the access control, not the origin
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		handlers: make(map[string]func(context.Context, *Client, *Message) error),
	}

	server.handlers[ActionCreateGame] = server.handleCreateGame
	server.handlers[ActionJoinGame] = server.handleJoinGame
	server.handlers[ActionMakeMove] = server.handleMakeMove
	server.handlers[ActionResetGame] = server.handleResetGame
	server.handlers[ActionGetGameState] = server.handleGetGameState

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection upgrades the request and runs the read loop until the
// peer goes away, then feeds the disconnect into the game manager.
func (that *Server) serveConnection(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveConnection")

	sessionID := that.ensureSessionCookie(writer, req)

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(uuid.NewString(), sessionID, conn)
	go client.writePump()

	log.Info("WebSocket connection established", "connection", client.ID)

	that.readLoop(ctx, client)

	that.handleDisconnect(ctx, client)
	client.Close()
}

// readLoop processes messages from the client.
func (that *Server) readLoop(ctx context.Context, client *Client) {
	log := that.logger.With("method", "readLoop", "connection", client.ID)

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			that.sendError(client, "unknown action: "+message.Action)
			continue
		}

		if err = handler(ctx, client, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// ensureSessionCookie - set user session.
func (that *Server) ensureSessionCookie(writer http.ResponseWriter, req *http.Request) string {
	log := that.logger.With("method", "ensureSessionCookie")

	cookie, err := req.Cookie(sessionCookieName)
	if err != nil {
		cookie = &http.Cookie{
			Name:    sessionCookieName,
			Value:   pkg.GenerateNewSessionID(),
			Expires: time.Now().Add(24 * time.Hour),
			Path:    "/ws",
		}
		http.SetCookie(writer, cookie)
		log.Info("session cookie not found, new one created")
	}

	return cookie.Value
}
